package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Host: "localhost", DBName: "chemotion"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "http.port must be between 1 and 65535, got 0"},
		{"host", func(c *Config) { c.Database.Host = "" }, "database.host is required"},
		{"dbname", func(c *Config) { c.Database.DBName = "" }, "database.dbname is required"},
		{"public collection", func(c *Config) { c.Search.PublicCollectionID = -1 },
			"search.public_collection_id must not be negative, got -1"},
		{"public level", func(c *Config) { c.Search.PublicLevels.Reaction = -2 },
			"search.public_levels.reaction must not be negative, got -2"},
		{"token", func(c *Config) { c.Auth.Tokens = map[string]int64{"t": 0} },
			"auth.tokens entries need a token and a positive user id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tc.want {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tc.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if cfg.Database.Port != 5432 || cfg.Database.SSLMode != "disable" {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Cache.StructureTTLSec != 86400 || cfg.Structure.TimeoutSec != 10 {
		t.Errorf("cache/structure defaults = %+v %+v", cfg.Cache, cfg.Structure)
	}
	if cfg.Cache.Enabled() {
		t.Error("cache must be disabled without addrs")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CHEMSEARCH_TEST_HOST", "db.internal")

	got := string(expandEnvVars([]byte("host: ${CHEMSEARCH_TEST_HOST}\nport: ${CHEMSEARCH_TEST_UNSET:-5433}")))
	want := "host: db.internal\nport: 5433"
	if got != want {
		t.Errorf("expandEnvVars = %q, want %q", got, want)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := `
http:
  port: 9000
database:
  host: localhost
  dbname: chemotion
auth:
  tokens:
    secret: 7
search:
  public_collection_id: 3
  public_levels:
    sample: 1
  compound_open_data:
    enabled: true
    allowed_users: [7]
`
	if err := os.WriteFile(filepath.Join(dir, "config", "unit.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unit")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 9000 || cfg.Auth.Tokens["secret"] != 7 || cfg.Search.PublicCollectionID != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Search.PublicLevels.Sample != 1 || !cfg.Search.CompoundOpenData.Enabled {
		t.Errorf("search = %+v", cfg.Search)
	}
}
