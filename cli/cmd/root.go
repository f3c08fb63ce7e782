package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/flightlog/ulog/storage"
	"github.com/flightlog/ulog/ulog"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ulog",
	Short: "Inspect, filter, and convert ulog flight logs",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
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

func checkErr(err error) {
	if err != nil {
		bailf("error: %v", err)
	}
}

// openReader resolves a location and starts a decode session over it.
func openReader(ctx context.Context, location string) (*ulog.Reader, io.ReadCloser, error) {
	rc, err := storage.Open(ctx, location)
	if err != nil {
		return nil, nil, err
	}
	reader, err := ulog.NewReader(bufio.NewReaderSize(rc, 1<<20))
	if err != nil {
		rc.Close()
		return nil, nil, err
	}
	return reader, rc, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
