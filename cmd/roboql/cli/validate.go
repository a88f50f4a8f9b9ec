package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"roboql/internal/query"
	"roboql/internal/roboql"
	"roboql/internal/schema"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <query>",
		Short: "Check a RoboQL query without running it",
		Long: `Parse and resolve a RoboQL query against the entity schema. Nothing is
sent to the backend; validation distinguishes "your query text is
invalid" from runtime search failures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := targetFromCmd(cmd)
			if err != nil {
				return err
			}

			input := args[0]
			ok, msg, pos := roboql.Validate(input, target.RootEntity(), schema.Default())
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			if pos >= 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), input)
				fmt.Fprintln(cmd.ErrOrStderr(), caretLine(input, pos))
			}
			return fmt.Errorf("invalid query: %s", msg)
		},
	}

	cmd.Flags().String("target", string(query.TargetDatasets), "record kind the query is resolved against")
	return cmd
}

// caretLine points a caret at the given byte offset, padding by rune
// count so multibyte characters before the error keep it aligned.
func caretLine(input string, pos int) string {
	if pos > len(input) {
		pos = len(input)
	}
	return strings.Repeat(" ", utf8.RuneCountInString(input[:pos])) + "^"
}
