package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/util"
	"github.com/wkalt/usmap/util/log"
	"golang.org/x/sync/errgroup"
)

var inspectHeaders = []string{
	"file", "size", "version", "compression", "names", "enums", "schemas", "properties", "fingerprint",
}

func inspectRow(f *decodedFile) []string {
	properties := 0
	for _, s := range f.u.Schemas {
		properties += len(s.Properties)
	}
	return []string{
		f.key,
		util.HumanBytes(uint64(f.size)),
		f.u.Version.String(),
		f.u.Compression.String(),
		strconv.Itoa(len(f.u.Names)),
		strconv.Itoa(len(f.u.Enums)),
		strconv.Itoa(len(f.u.Schemas)),
		strconv.Itoa(properties),
		fmt.Sprintf("%016x", f.u.Fingerprint()),
	}
}

// inspect decodes keys concurrently and writes a summary table. Files that
// fail to decode are reported individually; the returned count is the
// number of failures.
func inspect(ctx context.Context, w io.Writer, src *source, keys []string) (int, error) {
	opts, err := decodeOptions()
	if err != nil {
		return 0, err
	}
	files := make([]*decodedFile, len(keys))
	errs := make([]error, len(keys))
	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	start := time.Now()
	for i, key := range keys {
		g.Go(func() error {
			files[i], errs[i] = src.decode(ctx, key, opts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	log.Debugw(ctx, "inspected files", "count", len(keys), "elapsed", time.Since(start))

	rows := [][]string{}
	failures := 0
	for i, f := range files {
		if errs[i] != nil {
			failures++
			continue
		}
		rows = append(rows, inspectRow(f))
	}
	printTable(w, inspectHeaders, rows)
	for _, err := range errs {
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
	return failures, nil
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [file or glob]...",
	Short: "Summarize one or more usmap files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Usage()
			return
		}
		ctx := context.Background()
		src, err := newSource()
		if err != nil {
			bailf("error: %v", err)
		}
		keys, err := src.expand(ctx, args)
		if err != nil {
			bailf("error: %v", err)
		}
		if len(keys) == 0 {
			bailf("no files matched")
		}
		failures, err := inspect(ctx, cmd.OutOrStdout(), src, keys)
		if err != nil {
			bailf("error: %v", err)
		}
		if failures > 0 {
			bailf("%d of %d files failed to decode", failures, len(keys))
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
