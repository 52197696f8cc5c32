package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/usmap"
)

func printEnum(w io.Writer, u *usmap.Usmap, name string) error {
	e, ok := u.Enum(name)
	if !ok {
		return fmt.Errorf("enum %s not found", name)
	}
	rows := make([][]string, len(e.Members))
	for i, m := range e.Members {
		rows[i] = []string{m.Name, strconv.FormatInt(m.Value, 10)}
	}
	printTable(w, []string{"name", "value"}, rows)
	return nil
}

var enumCmd = &cobra.Command{
	Use:   "enum [file] [name]",
	Short: "Print the members of an enum",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			cmd.Usage()
			return
		}
		u := decodeOne(context.Background(), args[0])
		if err := printEnum(cmd.OutOrStdout(), u, args[1]); err != nil {
			bailf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(enumCmd)
}
