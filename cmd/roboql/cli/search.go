package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"roboql/internal/query"
)

func newSearchCmd(logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a RoboQL query and stream matching records",
		Long: `Compile a RoboQL query, submit it to the search backend, and stream
matching records as they are fetched. The reserved query "*" matches
every record of the target kind.

Examples:
  roboql search --target datasets "dataset.tags CONTAINS 'boston'"
  roboql search --target topics "msgpaths[cpuload.load].max > 0.9"
  roboql search --target files "*"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetFromCmd(cmd)
			if err != nil {
				return err
			}
			s, err := searchFromCmd(cmd, logger)
			if err != nil {
				return err
			}

			cursor, err := s.Run(args[0], target)
			if err != nil {
				return err
			}

			maxResults, _ := cmd.Flags().GetInt("max")
			p := newPrinter(outputFormat(cmd))
			return streamResults(cmd.Context(), cursor, target, p, maxResults)
		},
	}

	cmd.Flags().String("target", string(query.TargetDatasets), "record kind to search: datasets, files, topics, topic_message_paths, events")
	cmd.Flags().Int("max", 0, "stop after this many records (0 = all)")
	return cmd
}

func streamResults(ctx context.Context, cursor *query.Cursor, target query.Target, p *printer, maxResults int) error {
	header := tableColumns(target)
	var rows [][]string
	yielded := 0

	for item, err := range cursor.Records(ctx) {
		if err != nil {
			return err
		}
		if p.format == "json" {
			if err := p.json(item); err != nil {
				return err
			}
		} else {
			rows = append(rows, tableRow(header, item))
		}
		yielded++
		if maxResults > 0 && yielded >= maxResults {
			break
		}
	}

	if p.format != "json" {
		p.table(header, rows)
	}
	if total, ok := cursor.Count(); ok {
		fmt.Fprintf(os.Stderr, "%d of %d total\n", yielded, total)
	}
	return nil
}

// tableColumns picks the table columns per target. Columns are raw
// result record keys.
func tableColumns(target query.Target) []string {
	switch target {
	case query.TargetDatasets:
		return []string{"dataset_id", "name", "created", "tags"}
	case query.TargetFiles:
		return []string{"file_id", "relative_path", "size", "ingestion_status"}
	case query.TargetTopics:
		return []string{"topic_id", "name", "schema_name", "message_count"}
	case query.TargetTopicMessagePaths:
		return []string{"topic_id", "message_path", "data_type"}
	case query.TargetEvents:
		return []string{"event_id", "name", "start_time", "end_time"}
	}
	return []string{"id"}
}

func tableRow(columns []string, item map[string]any) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		if v, ok := item[col]; ok && v != nil {
			row[i] = fmt.Sprintf("%v", v)
		}
	}
	return row
}
