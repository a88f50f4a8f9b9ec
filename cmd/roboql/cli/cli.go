// Package cli implements the roboql command tree: compiling, explaining,
// and running RoboQL queries against a search backend.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"roboql/internal/config"
	"roboql/internal/home"
	"roboql/internal/query"
	"roboql/internal/search"
	"roboql/internal/transport"
	"roboql/internal/wire"
)

// NewRootCommand returns the "roboql" command with all subcommands wired in.
func NewRootCommand(logger *slog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "roboql",
		Short:         "Query the data platform with RoboQL",
		Long:          "Compile RoboQL query text into backend filters and stream matching datasets, files, topics, message paths, and events.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().String("profile", "", "config profile name (or ROBOQL_PROFILE env)")
	cmd.PersistentFlags().String("endpoint", "", "service endpoint (overrides profile)")
	cmd.PersistentFlags().String("token", "", "bearer token (overrides profile)")
	cmd.PersistentFlags().String("org", "", "org id (overrides profile)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table or json")

	cmd.AddCommand(
		newSearchCmd(logger),
		newValidateCmd(),
		newExplainCmd(),
	)

	return cmd
}

// searchFromCmd builds a Search client from the persistent flags,
// falling back to the named config profile for anything not overridden.
func searchFromCmd(cmd *cobra.Command, logger *slog.Logger) (*search.Search, error) {
	profileName, _ := cmd.Flags().GetString("profile")
	profile, err := config.Load(profileName)
	if err != nil {
		return nil, err
	}

	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		profile.Endpoint = endpoint
	}
	if token, _ := cmd.Flags().GetString("token"); token != "" {
		profile.Token = token
	}
	if org, _ := cmd.Flags().GetString("org"); org != "" {
		profile.OrgID = org
	}
	if profile.PageSize <= 0 {
		profile.PageSize = wire.DefaultPageSize
	}

	opts := []transport.Option{
		transport.WithToken(profile.Token),
		transport.WithOrgID(profile.OrgID),
		transport.WithLogger(logger),
	}
	if dir, err := home.Default(); err == nil {
		if clientID, err := dir.ClientID(); err == nil {
			opts = append(opts, transport.WithClientID(clientID))
		}
	}
	client := transport.NewClient(profile.Endpoint, opts...)
	return search.New(client,
		search.WithPageSize(profile.PageSize),
		search.WithLogger(logger),
	), nil
}

// targetFromCmd parses the --target flag.
func targetFromCmd(cmd *cobra.Command) (query.Target, error) {
	raw, _ := cmd.Flags().GetString("target")
	target, err := query.ParseTarget(raw)
	if err != nil {
		return "", fmt.Errorf("%w (valid targets: datasets, files, topics, topic_message_paths, events)", err)
	}
	return target, nil
}

// outputFormat returns "json" or "table" from the --output flag.
func outputFormat(cmd *cobra.Command) string {
	f, _ := cmd.Flags().GetString("output")
	return f
}
