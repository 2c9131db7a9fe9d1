package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  address: ":8080"
database:
  driver: sqlite3
  url: "file::memory:?cache=shared"
auth:
  jwt_secret: from-file
listings:
  snapshot_cap: 500
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Database.Driver != "sqlite3" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Listings.SnapshotCap != 500 {
		t.Fatalf("expected cap 500 got %d", cfg.Listings.SnapshotCap)
	}
	if cfg.Listings.PageSize != defaultPageSize || cfg.Listings.FeedSize != defaultFeedSize {
		t.Fatalf("defaults lost: %+v", cfg.Listings)
	}
	if cfg.Mongo.Collection != defaultMongoCollection {
		t.Fatalf("expected default collection got %q", cfg.Mongo.Collection)
	}
	if cfg.AccessTTL() != 15*time.Minute {
		t.Fatalf("unexpected access ttl %v", cfg.AccessTTL())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a,http://b")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":9000" {
		t.Fatalf("expected :9000 got %q", cfg.Server.Address)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("expected env secret got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Listings.PageSize != 10 {
		t.Fatalf("expected page size 10 got %d", cfg.Listings.PageSize)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad int env", body: sampleYAML, env: map[string]string{"SNAPSHOT_CAP": "lots"}},
		{name: "unknown driver", body: "database:\n  driver: oracle\n  url: x\nauth:\n  jwt_secret: s\n", env: map[string]string{"DATABASE_DRIVER": ""}},
		{name: "missing secret", body: "database:\n  driver: mysql\n  url: x\n", env: map[string]string{"JWT_SECRET": ""}},
		{name: "page larger than cap", body: sampleYAML, env: map[string]string{"PAGE_SIZE": "900"}},
		{name: "malformed yaml", body: "server: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}
