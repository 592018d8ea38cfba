package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func withHome(t *testing.T, dir string) {
	t.Helper()
	orig := homeDir
	homeDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { homeDir = orig })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), File)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// --- Default ---

func TestDefault(t *testing.T) {
	withHome(t, "/home/auditor")

	want := Config{
		DataDir: filepath.Join("/home/auditor", Dir),
		Log:     LogConfig{Level: "info", Format: "text"},
		Dataset: DatasetConfig{MaxBytes: DefaultMaxBytes, MaxRows: DefaultMaxRows},
		Archive: ArchiveConfig{Enabled: true},
	}
	if diff := cmp.Diff(want, Default()); diff != "" {
		t.Errorf("Default mismatch (-want +got):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// --- Load ---

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	withHome(t, t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialFileOverlaysDefaults(t *testing.T) {
	home := t.TempDir()
	withHome(t, home)

	path := writeConfig(t, `
data_dir: ~/audits
log:
  level: debug
  format: json
archive:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Config{
		DataDir: filepath.Join(home, "audits"),
		Log:     LogConfig{Level: "debug", Format: "json"},
		Dataset: DatasetConfig{MaxBytes: DefaultMaxBytes, MaxRows: DefaultMaxRows},
		Archive: ArchiveConfig{Enabled: false},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	withHome(t, t.TempDir())

	tests := []struct {
		name string
		body string
		frag string
	}{
		{"bad format", "log:\n  format: xml\n", "log.format"},
		{"zero bytes", "dataset:\n  max_bytes: 0\n", "dataset.max_bytes"},
		{"negative rows", "dataset:\n  max_rows: -5\n", "dataset.max_rows"},
		{"blank data dir", "data_dir: \"  \"\n", "data_dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.frag) {
				t.Errorf("error %q should mention %q", err, tt.frag)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	withHome(t, t.TempDir())

	_, err := Load(writeConfig(t, "log: [unterminated\n"))
	if err == nil || !strings.Contains(err.Error(), "unmarshal") {
		t.Errorf("expected unmarshal error, got %v", err)
	}
}

// --- Path resolution ---

func TestResolvePath_Precedence(t *testing.T) {
	withHome(t, "/home/auditor")

	t.Setenv(EnvPath, "")
	if got, want := ResolvePath(""), filepath.Join("/home/auditor", Dir, File); got != want {
		t.Errorf("default path = %s, want %s", got, want)
	}

	t.Setenv(EnvPath, "/etc/nexus.yaml")
	if got := ResolvePath(""); got != "/etc/nexus.yaml" {
		t.Errorf("env path = %s, want /etc/nexus.yaml", got)
	}
	if got := ResolvePath("./local.yaml"); got != "./local.yaml" {
		t.Errorf("flag should win over env, got %s", got)
	}
}

func TestArchivePath(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/nexus"}
	if got, want := cfg.ArchivePath(), filepath.Join("/var/lib/nexus", ArchiveFile); got != want {
		t.Errorf("ArchivePath = %s, want %s", got, want)
	}
}
