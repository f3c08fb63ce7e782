package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/storage"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/log"
)

var (
	mcapOutputDir   string
	mcapConcurrency int
)

// mcapCmd represents the mcap command
var mcapCmd = &cobra.Command{
	Use:   "mcap [files...]",
	Short: "Convert ulog files to MCAP",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(mcapConcurrency)
		for _, file := range args {
			file := file
			g.Go(func() error {
				return convertFile(ctx, file)
			})
		}
		checkErr(g.Wait())
	},
}

// convertFile converts one ulog file to MCAP next to it, or under the output
// directory if one was given. Each file gets an independent decode session.
func convertFile(ctx context.Context, file string) error {
	ctx = log.AddTags(ctx, "session", uuid.NewString(), "file", file)
	rc, err := storage.Open(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer rc.Close()
	reader, err := ulog.NewReader(bufio.NewReaderSize(rc, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	base := filepath.Base(file)
	output := strings.TrimSuffix(base, filepath.Ext(base)) + ".mcap"
	if mcapOutputDir != "" {
		output = filepath.Join(mcapOutputDir, output)
	} else {
		output = filepath.Join(filepath.Dir(file), output)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer f.Close()

	if err := export.ConvertMCAP(f, reader); err != nil {
		return fmt.Errorf("failed to convert %s: %w", file, err)
	}
	log.Infow(ctx, "converted", "output", output, "truncated", reader.Truncated())
	return nil
}

func init() {
	rootCmd.AddCommand(mcapCmd)
	mcapCmd.PersistentFlags().StringVarP(&mcapOutputDir, "output-dir", "o", "", "directory for converted files")
	mcapCmd.PersistentFlags().IntVarP(&mcapConcurrency, "concurrency", "j", 4, "files to convert in parallel")
}
