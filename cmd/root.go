package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/wkalt/usmap/compression"
	"github.com/wkalt/usmap/storage"
	"github.com/wkalt/usmap/usmap"
	"github.com/wkalt/usmap/util/log"
)

var (
	oodlePath     string
	noNames       bool
	lossyNames    bool
	maxSize       int
	verbose       bool
	s3Endpoint    string
	s3Bucket      string
	s3AccessKey   string
	s3SecretKey   string
	s3Secure      bool
	oodleInstance *compression.Oodle
)

var rootCmd = &cobra.Command{
	Use:   "usmap",
	Short: "Inspect usmap type mapping files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if oodleInstance != nil {
			if err := oodleInstance.Close(); err != nil {
				bailf("failed to unload oodle: %v", err)
			}
		}
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func bailf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// decodeOptions builds decoder options from the persistent flags.
func decodeOptions() ([]usmap.Option, error) {
	opts := []usmap.Option{
		usmap.WithRetainNames(!noNames),
		usmap.WithMaxUncompressedSize(maxSize),
	}
	if lossyNames {
		opts = append(opts, usmap.WithLossyNames())
	}
	if oodlePath != "" {
		if oodleInstance == nil {
			oodle, err := compression.LoadOodle(oodlePath)
			if err != nil {
				return nil, fmt.Errorf("failed to load oodle: %w", err)
			}
			oodleInstance = oodle
		}
		opts = append(opts, usmap.WithOodle(oodleInstance))
	}
	return opts, nil
}

// source is where the command reads files from: local paths, or object keys
// when an S3 bucket is configured.
type source struct {
	store storage.Provider
	local bool
}

func newSource() (*source, error) {
	if s3Bucket == "" {
		return &source{store: storage.NewDirectoryStore(""), local: true}, nil
	}
	store, err := storage.DialS3(storage.S3Config{
		Endpoint:  s3Endpoint,
		Bucket:    s3Bucket,
		AccessKey: s3AccessKey,
		SecretKey: s3SecretKey,
		Secure:    s3Secure,
	})
	if err != nil {
		return nil, err
	}
	return &source{store: store}, nil
}

// expand resolves glob patterns to keys. Patterns without glob syntax are
// passed through unchanged so that missing files are reported by name.
func (s *source) expand(ctx context.Context, patterns []string) ([]string, error) {
	keys := []string{}
	var listing []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[{") {
			keys = append(keys, pattern)
			continue
		}
		if s.local {
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
			}
			slices.Sort(matches)
			keys = append(keys, matches...)
			continue
		}
		if listing == nil {
			var err error
			if listing, err = s.store.List(ctx, ""); err != nil {
				return nil, err
			}
		}
		for _, key := range listing {
			ok, err := doublestar.Match(pattern, key)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
			}
			if ok {
				keys = append(keys, key)
			}
		}
	}
	return keys, nil
}

// decodedFile is a decoded usmap with the size of the file it came from.
type decodedFile struct {
	key  string
	size int64
	u    *usmap.Usmap
}

func (s *source) decode(ctx context.Context, key string, opts ...usmap.Option) (*decodedFile, error) {
	ctx = log.AddTags(ctx, "key", key)
	rsc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}
	defer rsc.Close()
	size, err := rsc.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to size %s: %w", key, err)
	}
	if _, err := rsc.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek %s: %w", key, err)
	}
	u, err := usmap.FromReader(ctx, rsc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &decodedFile{key: key, size: size, u: u}, nil
}

// decodeOne decodes a single file named on the command line.
func decodeOne(ctx context.Context, key string) *usmap.Usmap {
	opts, err := decodeOptions()
	if err != nil {
		bailf("error: %v", err)
	}
	src, err := newSource()
	if err != nil {
		bailf("error: %v", err)
	}
	f, err := src.decode(ctx, key, opts...)
	if err != nil {
		bailf("error: %v", err)
	}
	return f.u
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&oodlePath, "oodle", "", "", "path to an oodle shared library for oodle compressed files")
	flags.BoolVarP(&noNames, "no-names", "", false, "discard the raw name table after decoding")
	flags.BoolVarP(&lossyNames, "lossy-names", "", false, "replace invalid UTF-8 in names instead of failing")
	flags.IntVarP(&maxSize, "max-size", "", usmap.DefaultMaxUncompressedSize, "largest uncompressed payload to accept, in bytes")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&s3Endpoint, "s3-endpoint", "", "localhost:9000", "S3 endpoint")
	flags.StringVarP(&s3Bucket, "s3-bucket", "", "", "read files from this S3 bucket instead of the local filesystem")
	flags.StringVarP(&s3AccessKey, "s3-access-key", "", "", "S3 access key")
	flags.StringVarP(&s3SecretKey, "s3-secret-key", "", "", "S3 secret key")
	flags.BoolVarP(&s3Secure, "s3-secure", "", false, "use TLS for S3")
}
