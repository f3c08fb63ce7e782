package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/log"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Summarize the contents of a ulog file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.AddTags(context.Background(), "session", uuid.NewString())
		reader, rc, err := openReader(ctx, args[0])
		checkErr(err)
		defer rc.Close()

		messages := map[string]int{}
		logs := 0
		dropouts := 0
		dropped := time.Duration(0)
		diagnostics := 0
		for {
			record, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			checkErr(err)
			switch r := record.(type) {
			case ulog.Data:
				messages["/"+r.Schema+"/"+strconv.Itoa(int(r.MultiID))]++
			case ulog.Log, ulog.TaggedLog:
				logs++
			case ulog.Dropout:
				dropouts++
				dropped += r.Duration
			case ulog.Diagnostic:
				diagnostics++
				log.Debugw(ctx, "skipped frame",
					"tag", string(r.Tag), "offset", r.Offset, "error", r.Err)
			}
		}

		header := reader.Header()
		fmt.Printf("version: %d\n", header.Version)
		fmt.Printf("started: %s\n", header.Time().Format(time.RFC3339))
		if flags, ok := reader.Session().FlagBits(); ok && flags.DataAppended() {
			fmt.Println("appended data: yes")
		}
		printKeyValues("info", reader.Session().Infos())
		printKeyValues("parameters", reader.Session().Parameters())

		fmt.Println("messages:")
		topics := maps.Keys(messages)
		slices.Sort(topics)
		for _, topic := range topics {
			fmt.Printf("  %s: %d\n", topic, messages[topic])
		}
		fmt.Printf("log messages: %d\n", logs)
		if dropouts > 0 {
			fmt.Printf("dropouts: %d (%s)\n", dropouts, dropped)
		}
		if diagnostics > 0 {
			fmt.Printf("skipped frames: %d\n", diagnostics)
		}
		if n := reader.SyncCount(); n > 0 {
			fmt.Printf("sync frames: %d\n", n)
		}
		for tag, count := range reader.UnknownTags() {
			fmt.Printf("unknown frame type %q: %d\n", tag, count)
		}
		if reader.Truncated() {
			fmt.Println("truncated: yes")
		}
	},
}

func printKeyValues(section string, values map[string]any) {
	if len(values) == 0 {
		return
	}
	fmt.Printf("%s:\n", section)
	keys := maps.Keys(values)
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Printf("  %s: %v\n", key, values[key])
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
