package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"roboql/internal/query"
	"roboql/internal/roboql"
	"roboql/internal/schema"
	"roboql/internal/wire"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Show the wire filter a RoboQL query compiles to",
		Long: `Compile a RoboQL query and print the structured specification that would
be submitted to the backend. Useful for debugging why a query matches
(or fails to match) the records you expect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetFromCmd(cmd)
			if err != nil {
				return err
			}

			filter, err := roboql.Compile(args[0], target.RootEntity(), schema.Default())
			if err != nil {
				return err
			}

			spec := wire.NewQuerySpecification(filter)
			p := newPrinter(outputFormat(cmd))
			if p.format == "json" {
				return p.json(spec)
			}

			if filter == nil {
				fmt.Fprintln(p.w, "matches every record (no filter)")
			} else {
				fmt.Fprintln(p.w, filter.String())
			}
			fields := slices.Sorted(maps.Keys(spec.Fields()))
			p.kv([][2]string{
				{"target", string(target)},
				{"fields", strings.Join(fields, ", ")},
			})
			return nil
		},
	}

	cmd.Flags().String("target", string(query.TargetDatasets), "record kind the query is resolved against")
	return cmd
}
