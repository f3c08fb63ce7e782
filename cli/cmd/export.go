package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/flightlog/ulog/export"
	"github.com/flightlog/ulog/ulog"
	"github.com/flightlog/ulog/util/log"
)

var (
	exportFormat string
	exportTopic  string
	exportOutput string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a ulog file as newline-delimited JSON or CSV",
	Long: `Export decoded records. The json format emits every record as one JSON
line. The csv format emits the data records of a single topic, selected with
--topic, one column per field.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := log.AddTags(context.Background(), "session", uuid.NewString())
		reader, rc, err := openReader(ctx, args[0])
		checkErr(err)
		defer rc.Close()

		out := os.Stdout
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			checkErr(err)
			defer f.Close()
			out = f
		}

		switch exportFormat {
		case "json":
			writer := export.NewJSONWriter(out)
			for {
				record, err := reader.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				checkErr(err)
				checkErr(writer.WriteRecord(record))
			}
		case "csv":
			if exportTopic == "" {
				bailf("csv export requires --topic")
			}
			exportCSV(ctx, reader, out)
		default:
			bailf("unknown format %q: expected json or csv", exportFormat)
		}
	},
}

// exportCSV writes the data records of the selected topic. The writer is
// built lazily: the schema is only known once its definition frame has been
// consumed.
func exportCSV(ctx context.Context, reader *ulog.Reader, out io.Writer) {
	var writer *export.CSVWriter
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		checkErr(err)
		d, ok := record.(ulog.Data)
		if !ok || d.Schema != exportTopic {
			continue
		}
		if writer == nil {
			s, err := reader.Session().Formats().Resolve(d.Schema)
			checkErr(err)
			writer = export.NewCSVWriter(out, s)
		}
		checkErr(writer.WriteData(d))
	}
	if writer == nil {
		log.Warnw(ctx, "no data records for topic", "topic", exportTopic)
		return
	}
	checkErr(writer.Close())
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.PersistentFlags().StringVarP(&exportFormat, "format", "f", "json", "output format (json or csv)")
	exportCmd.PersistentFlags().StringVarP(&exportTopic, "topic", "t", "", "topic to export (csv only)")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
}
