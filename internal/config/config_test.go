package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Catalog: CatalogConfig{Path: "data/tracks.csv"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 65536} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_MissingCatalogPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing catalog.path")
	}
}

func TestValidate_CatalogFormat(t *testing.T) {
	for _, f := range []string{"", "csv", "parquet", "CSV"} {
		cfg := validConfig()
		cfg.Catalog.Format = f
		if err := cfg.Validate(); err != nil {
			t.Errorf("format %q: unexpected error: %v", f, err)
		}
	}

	cfg := validConfig()
	cfg.Catalog.Format = "xlsx"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestValidate_Algorithm(t *testing.T) {
	cfg := validConfig()
	cfg.Index.Algorithm = "ball_tree"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	expected := `index.algorithm must be one of auto, kdtree, brute, got "ball_tree"`
	if err.Error() != expected {
		t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), expected)
	}
}

func TestValidate_AlgorithmCaseInsensitive(t *testing.T) {
	for _, a := range []string{"KDTree", "Brute", "AUTO"} {
		cfg := validConfig()
		cfg.Index.Algorithm = a
		if err := cfg.Validate(); err != nil {
			t.Errorf("algorithm %q: unexpected error: %v", a, err)
		}
	}
}

func TestValidate_DefaultKAboveMax(t *testing.T) {
	cfg := validConfig()
	cfg.Recommend.DefaultK = 50
	cfg.Recommend.MaxK = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default_k > max_k")
	}
}

func TestValidate_CacheRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("ReadTimeoutSec = %d, want 10", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("ShutdownSec = %d, want 10", cfg.HTTP.ShutdownSec)
	}
	if cfg.Index.Algorithm != "auto" {
		t.Errorf("Algorithm = %q, want auto", cfg.Index.Algorithm)
	}
	if cfg.Index.LeafSize != 16 {
		t.Errorf("LeafSize = %d, want 16", cfg.Index.LeafSize)
	}
	if cfg.Index.BruteForceThreshold != 10000 {
		t.Errorf("BruteForceThreshold = %d, want 10000", cfg.Index.BruteForceThreshold)
	}
	if cfg.Recommend.DefaultK != 10 || cfg.Recommend.MaxK != 100 {
		t.Errorf("k limits = %d/%d, want 10/100", cfg.Recommend.DefaultK, cfg.Recommend.MaxK)
	}
	if cfg.Recommend.BatchParallelism != 4 || cfg.Recommend.MaxBatchSize != 100 {
		t.Errorf("batch = %d/%d, want 4/100", cfg.Recommend.BatchParallelism, cfg.Recommend.MaxBatchSize)
	}
	if cfg.Recommend.ArtistFilter != "" {
		t.Errorf("ArtistFilter must have no default, got %q", cfg.Recommend.ArtistFilter)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("TTLSec = %d, want 3600", cfg.Cache.TTLSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Index:     IndexConfig{Algorithm: "brute", LeafSize: 4},
		Recommend: RecommendConfig{DefaultK: 5, MaxK: 7},
	}
	cfg.ApplyDefaults()

	if cfg.Index.Algorithm != "brute" || cfg.Index.LeafSize != 4 {
		t.Errorf("index overridden: %+v", cfg.Index)
	}
	if cfg.Recommend.DefaultK != 5 || cfg.Recommend.MaxK != 7 {
		t.Errorf("recommend overridden: %+v", cfg.Recommend)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TRACKSIM_TEST_PORT", "9090")

	got := string(expandEnvVars([]byte("port: ${TRACKSIM_TEST_PORT}\nfilter: ${TRACKSIM_TEST_UNSET:-justin bieber}\nempty: ${TRACKSIM_TEST_UNSET}")))
	want := "port: 9090\nfilter: justin bieber\nempty: "
	if got != want {
		t.Errorf("expandEnvVars() =\n%q\nwant\n%q", got, want)
	}
}

func TestLoad_FromWorkingDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o750); err != nil {
		t.Fatal(err)
	}
	yml := "http:\n  port: ${TRACKSIM_TEST_HTTP_PORT:-8081}\ncatalog:\n  path: tracks.parquet\nrecommend:\n  artist_filter: \"justin bieber\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "unittest.yaml"), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load("unittest")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Recommend.ArtistFilter != "justin bieber" {
		t.Errorf("ArtistFilter = %q", cfg.Recommend.ArtistFilter)
	}
	if cfg.Index.Algorithm != "auto" {
		t.Errorf("defaults not applied: %q", cfg.Index.Algorithm)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "broken.yaml"), []byte("http:\n  port: 8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	_, err := Load("broken")
	if err == nil || !strings.Contains(err.Error(), "catalog.path") {
		t.Fatalf("expected catalog.path validation error, got %v", err)
	}
}
