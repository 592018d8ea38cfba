package server

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/nexus-audit/internal/archive"
	"github.com/HendryAvila/nexus-audit/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

// listTools sends a tools/list request and returns the raw response.
func listTools(t *testing.T, s *server.MCPServer) string {
	t.Helper()
	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	resp := s.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(data)
}

func TestNew_RegistersAuditTools(t *testing.T) {
	s, cleanup, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	out := listTools(t, s)
	for _, name := range []string{
		"audit_autonomy", "audit_values", "audit_bias_detect", "audit_bias_checklist",
		"audit_summary", "audit_report", "audit_progress", "audit_reset",
		"audit_export", "dataset_describe", "audit_archive", "audit_history",
	} {
		if !strings.Contains(out, `"`+name+`"`) {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestNew_ArchiveDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.Enabled = false

	s, cleanup, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cleanup()

	out := listTools(t, s)
	if strings.Contains(out, "audit_archive") || strings.Contains(out, "audit_history") {
		t.Error("archive tools should not be registered when the archive is disabled")
	}
	if !strings.Contains(out, "audit_autonomy") {
		t.Error("audit tools should still be registered")
	}
}

func TestNew_ArchiveOpenFailureDegrades(t *testing.T) {
	orig := openArchive
	openArchive = func(archive.Config) (*archive.Store, error) {
		return nil, errors.New("disk on fire")
	}
	t.Cleanup(func() { openArchive = orig })

	s, cleanup, err := New(testConfig(t))
	if err != nil {
		t.Fatalf("archive failure should not fail New: %v", err)
	}
	cleanup()

	if strings.Contains(listTools(t, s), "audit_archive") {
		t.Error("archive tools should be skipped when the store fails to open")
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Log.Format = "xml"

	_, cleanup, err := New(cfg)
	if err == nil {
		t.Fatal("expected an error for an invalid config")
	}
	if cleanup == nil {
		t.Fatal("cleanup must never be nil")
	}
	cleanup()
}
