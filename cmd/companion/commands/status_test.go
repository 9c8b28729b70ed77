// ABOUTME: Tests for the status command
// ABOUTME: Runs fully offline against temp directories

package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func setTestDirs(t *testing.T) (dataDir, storeDir string) {
	t.Helper()
	root := t.TempDir()
	dataDir = filepath.Join(root, "data")
	storeDir = filepath.Join(root, "store")
	t.Setenv("COMPANION_DATA_DIR", dataDir)
	t.Setenv("COMPANION_STORE_DIR", storeDir)
	t.Setenv("COMPANION_STATE_FILE", filepath.Join(storeDir, "processed_files.json"))
	return dataDir, storeDir
}

func TestStatusCmd_NoStore(t *testing.T) {
	setTestDirs(t)
	defer resetGlobalFlags()

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"status"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !strings.Contains(output.String(), "not built yet") {
		t.Errorf("output should mention the missing store, got %q", output.String())
	}
}

func TestStatusCmd_JSON(t *testing.T) {
	_, storeDir := setTestDirs(t)
	defer resetGlobalFlags()

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"status", "--format", "json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var report statusReport
	if err := json.Unmarshal(output.Bytes(), &report); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output.String())
	}
	if report.StoreExists {
		t.Error("StoreExists = true for a fresh directory")
	}
	if report.StoreDir != storeDir {
		t.Errorf("StoreDir = %q, want %q", report.StoreDir, storeDir)
	}
	if report.VectorCount != 0 {
		t.Errorf("VectorCount = %d, want 0", report.VectorCount)
	}
}
