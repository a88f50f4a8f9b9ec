// Package config loads client profiles: which service endpoint to talk
// to and the credentials to present. Profiles live in a config file
// under the user's home directory; individual settings can be overridden
// through ROBOQL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"roboql/internal/home"
)

// DefaultEndpoint is used when neither the profile nor the environment
// names a service endpoint.
const DefaultEndpoint = "https://api.roboql.dev"

// DefaultProfileName selects the profile when none is requested.
const DefaultProfileName = "default"

// envPrefix namespaces environment overrides: ROBOQL_ENDPOINT,
// ROBOQL_TOKEN, ROBOQL_ORG_ID, ROBOQL_PROFILE, ROBOQL_CONFIG_FILE.
const envPrefix = "ROBOQL"

// Profile is one named client configuration.
type Profile struct {
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
	OrgID    string `mapstructure:"org_id"`
	PageSize int    `mapstructure:"page_size"`
}

// ErrProfileNotFound is returned when the requested profile does not
// exist in the config file.
var ErrProfileNotFound = errors.New("profile not found")

// Load resolves a profile by name. An empty name selects, in order: the
// ROBOQL_PROFILE environment variable, the config file's
// default_profile key, then "default". Environment variables override
// file values; a missing config file is fine as long as the environment
// carries a token.
func Load(name string) (Profile, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := readConfigFile(v); err != nil {
		return Profile{}, err
	}

	if name == "" {
		name = v.GetString("profile")
	}
	if name == "" {
		name = v.GetString("default_profile")
	}
	if name == "" {
		name = DefaultProfileName
	}

	profile := Profile{Endpoint: DefaultEndpoint}
	if v.IsSet("profiles." + name) {
		if err := v.UnmarshalKey("profiles."+name, &profile); err != nil {
			return Profile{}, fmt.Errorf("profile %q is malformed: %w", name, err)
		}
		if profile.Endpoint == "" {
			profile.Endpoint = DefaultEndpoint
		}
	} else if name != DefaultProfileName {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}

	// Environment overrides win over file values.
	if endpoint := v.GetString("endpoint"); endpoint != "" {
		profile.Endpoint = endpoint
	}
	if token := v.GetString("token"); token != "" {
		profile.Token = token
	}
	if orgID := v.GetString("org_id"); orgID != "" {
		profile.OrgID = orgID
	}

	return profile, nil
}

// readConfigFile loads ~/.roboql/config.yaml (or the file named by
// ROBOQL_CONFIG_FILE). A missing file is not an error.
func readConfigFile(v *viper.Viper) error {
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := home.Default()
		if err != nil {
			return nil // no home dir, rely on the environment
		}
		v.SetConfigFile(dir.ConfigPath())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}
	return nil
}
