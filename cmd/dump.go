package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/usmap"
)

var dumpCompact bool

func dump(w io.Writer, u *usmap.Usmap, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(u); err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}
	return nil
}

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Print the decoded contents of a usmap file as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			return
		}
		u := decodeOne(context.Background(), args[0])
		if err := dump(cmd.OutOrStdout(), u, dumpCompact); err != nil {
			bailf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().BoolVarP(&dumpCompact, "compact", "c", false, "print JSON without indentation")
}
