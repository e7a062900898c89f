package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Server.Port == 0 {
		t.Fatal("default port not set")
	}
	if got, want := cfg.Report.FiscalStartMonth, 8; got != want {
		t.Fatalf("default fiscal start month = %d, want %d", got, want)
	}
	if cfg.Report.OutputSuffix == "" {
		t.Fatal("default output suffix not set")
	}
}

func TestIsPortSpecifiedInToml(t *testing.T) {
	t.Parallel()

	if !isPortSpecifiedInToml([]byte("[server]\nport = 9000\n")) {
		t.Fatal("explicit port not detected")
	}
	if isPortSpecifiedInToml([]byte("[server]\ndev_mode = true\n")) {
		t.Fatal("missing port reported as specified")
	}
	if isPortSpecifiedInToml([]byte("not toml at all [")) {
		t.Fatal("invalid toml reported as specified")
	}
}

func TestEnsureDataDir(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Data.DataDir = filepath.Join(t.TempDir(), "data")

	dataDir, err := EnsureDataDir(cfg)
	if err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}

	for _, sub := range []string{"uploads", "output"} {
		info, err := os.Stat(filepath.Join(dataDir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("subdirectory %s missing: %v", sub, err)
		}
	}
}
