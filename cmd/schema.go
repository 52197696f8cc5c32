package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/usmap"
)

var (
	schemaOwnOnly bool

	typeColor  = color.New(color.FgYellow)
	nameColor  = color.New(color.FgCyan)
	ownerColor = color.New(color.FgHiBlack)
)

// printSchema writes the named schema's inheritance chain followed by its
// properties, inherited ones first, annotated with the declaring type.
func printSchema(w io.Writer, u *usmap.Usmap, name string, ownOnly bool) error {
	chain := u.Hierarchy(name)
	if len(chain) == 0 {
		return fmt.Errorf("schema %s not found", name)
	}
	names := make([]string, len(chain))
	for i, s := range chain {
		names[i] = s.Name
	}
	fmt.Fprintln(w, nameColor.Sprint(strings.Join(names, " : ")))
	if ownOnly {
		chain = chain[:1]
	}
	for i := len(chain) - 1; i >= 0; i-- {
		s := chain[i]
		for _, p := range s.Properties {
			arr := ""
			if p.ArraySize > 1 {
				arr = fmt.Sprintf("[%d]", p.ArraySize)
			}
			fmt.Fprintf(w, "  %3d %s%s %s %s\n",
				p.SchemaIndex,
				p.Name,
				arr,
				typeColor.Sprint(p.Type.String()),
				ownerColor.Sprint("("+s.Name+")"),
			)
		}
	}
	return nil
}

var schemaCmd = &cobra.Command{
	Use:   "schema [file] [name]",
	Short: "Print a schema with its inherited properties",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			cmd.Usage()
			return
		}
		u := decodeOne(context.Background(), args[0])
		if err := printSchema(cmd.OutOrStdout(), u, args[1], schemaOwnOnly); err != nil {
			bailf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVarP(&schemaOwnOnly, "own", "", false, "omit inherited properties")
}
