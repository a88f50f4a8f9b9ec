package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("ROBOQL_CONFIG_FILE", path)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ROBOQL_CONFIG_FILE", "ROBOQL_PROFILE", "ROBOQL_ENDPOINT",
		"ROBOQL_TOKEN", "ROBOQL_ORG_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadProfileFromFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    endpoint: https://api.example.com
    token: file-token
    org_id: org-file
    page_size: 100
`)

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Endpoint != "https://api.example.com" {
		t.Errorf("Endpoint = %q, want file value", profile.Endpoint)
	}
	if profile.Token != "file-token" {
		t.Errorf("Token = %q, want file-token", profile.Token)
	}
	if profile.OrgID != "org-file" {
		t.Errorf("OrgID = %q, want org-file", profile.OrgID)
	}
	if profile.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", profile.PageSize)
	}
}

func TestLoadNamedProfile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    token: default-token
  staging:
    endpoint: https://staging.example.com
    token: staging-token
`)

	profile, err := Load("staging")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Token != "staging-token" {
		t.Errorf("Token = %q, want staging-token", profile.Token)
	}
	if profile.Endpoint != "https://staging.example.com" {
		t.Errorf("Endpoint = %q, want staging endpoint", profile.Endpoint)
	}
}

func TestLoadDefaultProfileKey(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
default_profile: prod
profiles:
  default:
    token: default-token
  prod:
    token: prod-token
`)

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Token != "prod-token" {
		t.Errorf("Token = %q, want prod-token (default_profile honored)", profile.Token)
	}
}

func TestLoadProfileFromEnvVar(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    token: default-token
  ci:
    token: ci-token
`)
	t.Setenv("ROBOQL_PROFILE", "ci")

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Token != "ci-token" {
		t.Errorf("Token = %q, want ci-token (env profile honored)", profile.Token)
	}
}

func TestLoadUnknownProfile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    token: default-token
`)

	_, err := Load("nope")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("Load(nope) error = %v, want ErrProfileNotFound", err)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    endpoint: https://file.example.com
    token: file-token
    org_id: org-file
`)
	t.Setenv("ROBOQL_ENDPOINT", "https://env.example.com")
	t.Setenv("ROBOQL_TOKEN", "env-token")
	t.Setenv("ROBOQL_ORG_ID", "org-env")

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Endpoint != "https://env.example.com" {
		t.Errorf("Endpoint = %q, want env value", profile.Endpoint)
	}
	if profile.Token != "env-token" {
		t.Errorf("Token = %q, want env value", profile.Token)
	}
	if profile.OrgID != "org-env" {
		t.Errorf("OrgID = %q, want env value", profile.OrgID)
	}
}

func TestLoadWithoutConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROBOQL_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ROBOQL_TOKEN", "env-only-token")

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want default", profile.Endpoint)
	}
	if profile.Token != "env-only-token" {
		t.Errorf("Token = %q, want env value", profile.Token)
	}
}

func TestLoadDefaultEndpointFillsGap(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `
profiles:
  default:
    token: file-token
`)

	profile, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if profile.Endpoint != DefaultEndpoint {
		t.Errorf("Endpoint = %q, want %q", profile.Endpoint, DefaultEndpoint)
	}
}
