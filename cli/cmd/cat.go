package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/relvacode/iso8601"
	"github.com/spf13/cobra"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util"
	"github.com/flightlog/ulog/util/log"
)

var (
	catTopics    []string
	catStartDate string
	catEndDate   string
)

// catCmd represents the cat command
var catCmd = &cobra.Command{
	Use:   "cat [file]",
	Short: "Print logged messages, with data records for any matching topics",
	Long: `Print the logged messages of a ulog file in order, colored by severity.
Topic patterns select data records to print alongside them, as JSON lines.
Patterns support doublestar globs, e.g. "sensor_*" or "vehicle_**".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if catStartDate == "" {
			catStartDate = "1970-01-01"
		}
		if catEndDate == "" {
			catEndDate = "2050-01-01"
		}
		start, err := iso8601.Parse([]byte(catStartDate))
		if err != nil {
			bailf("error parsing start date: %s", err)
		}
		end, err := iso8601.Parse([]byte(catEndDate))
		if err != nil {
			bailf("error parsing end date: %s", err)
		}

		ctx := log.AddTags(context.Background(), "session", uuid.NewString())
		reader, rc, err := openReader(ctx, args[0])
		checkErr(err)
		defer rc.Close()

		jsonWriter := export.NewJSONWriter(os.Stdout)
		for {
			record, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			checkErr(err)
			switch r := record.(type) {
			case ulog.Log:
				if !within(r.Timestamp, start, end) {
					continue
				}
				printLog(r.Level, r.Timestamp, "", r.Message)
			case ulog.TaggedLog:
				if !within(r.Timestamp, start, end) {
					continue
				}
				printLog(r.Level, r.Timestamp, fmt.Sprintf("[%d] ", r.Tag), r.Message)
			case ulog.Data:
				if !matchTopic(catTopics, r.Schema) || !within(r.Timestamp, start, end) {
					continue
				}
				checkErr(jsonWriter.WriteRecord(r))
			case ulog.Dropout:
				color.Yellow("-- dropout %s --", r.Duration)
			case ulog.Diagnostic:
				fmt.Fprintf(os.Stderr, "skipped %q frame at offset %d: %s\n",
					r.Tag, r.Offset, r.Err)
			}
		}
		if reader.Truncated() {
			color.Yellow("-- log ends mid-frame --")
		}
	},
}

func within(timestamp uint64, start, end time.Time) bool {
	t := util.ParseMicros(timestamp)
	return !t.Before(start) && !t.After(end)
}

func matchTopic(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func printLog(level ulog.LogLevel, timestamp uint64, prefix, message string) {
	c := levelColor(level)
	c.Printf("%12d %-9s %s%s\n", timestamp, level, prefix, message)
}

func levelColor(level ulog.LogLevel) *color.Color {
	switch {
	case level <= ulog.LevelCritical:
		return color.New(color.FgRed, color.Bold)
	case level == ulog.LevelError:
		return color.New(color.FgRed)
	case level == ulog.LevelWarning:
		return color.New(color.FgYellow)
	case level == ulog.LevelNotice:
		return color.New(color.FgCyan)
	case level == ulog.LevelDebug:
		return color.New(color.Faint)
	default:
		return color.New()
	}
}

func init() {
	rootCmd.AddCommand(catCmd)
	catCmd.PersistentFlags().StringArrayVarP(&catTopics, "topics", "t", nil, "topic patterns to print data records for")
	catCmd.PersistentFlags().StringVarP(&catStartDate, "start", "", "", "start date")
	catCmd.PersistentFlags().StringVarP(&catEndDate, "end", "", "", "end date")
}
