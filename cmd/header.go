package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/reader"
	"github.com/wkalt/usmap/usmap"
	"github.com/wkalt/usmap/util"
)

// printHeader reads only the container header, so it works on files whose
// payload cannot be decoded (for example oodle files without a library).
func printHeader(w io.Writer, rs io.ReadSeeker) error {
	r, err := reader.NewStreamReader(rs)
	if err != nil {
		return err
	}
	h, err := usmap.ReadHeader(r)
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	printTable(w, []string{"field", "value"}, [][]string{
		{"version", fmt.Sprintf("%s (%d)", h.Version, h.Version)},
		{"versioning", util.When(h.HasVersioning, "yes", "no")},
		{"custom versions", strconv.FormatUint(uint64(h.CustomVersionCount), 10)},
		{"compression", h.Compression.String()},
		{"compressed size", util.HumanBytes(uint64(h.CompressedSize))},
		{"uncompressed size", util.HumanBytes(uint64(h.UncompressedSize))},
	})
	return nil
}

var headerCmd = &cobra.Command{
	Use:   "header [file]",
	Short: "Print the header of a usmap file",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			cmd.Usage()
			return
		}
		ctx := context.Background()
		src, err := newSource()
		if err != nil {
			bailf("error: %v", err)
		}
		rsc, err := src.store.Get(ctx, args[0])
		if err != nil {
			bailf("error: %v", err)
		}
		defer rsc.Close()
		if err := printHeader(cmd.OutOrStdout(), rsc); err != nil {
			bailf("error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}
