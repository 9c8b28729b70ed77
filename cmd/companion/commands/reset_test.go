// ABOUTME: Tests for the reset command's confirmation flow
// ABOUTME: Verifies abort on refusal and full wipe with --force

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResetCmd_AbortsWithoutConfirmation(t *testing.T) {
	dataDir, _ := setTestDirs(t)
	defer resetGlobalFlags()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	victim := filepath.Join(dataDir, "keep.txt")
	if err := os.WriteFile(victim, []byte("survives"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetIn(strings.NewReader("no\n"))
	cmd.SetArgs([]string{"reset"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !strings.Contains(output.String(), "Aborted") {
		t.Errorf("expected abort message, got %q", output.String())
	}
	if _, err := os.Stat(victim); err != nil {
		t.Error("document deleted despite refused confirmation")
	}
}

func TestResetCmd_Force(t *testing.T) {
	dataDir, storeDir := setTestDirs(t)
	defer resetGlobalFlags()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "doomed.txt"), []byte("gone"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(storeDir, 0755); err != nil {
		t.Fatal(err)
	}

	cmd := NewRootCmd()
	var output bytes.Buffer
	cmd.SetOut(&output)
	cmd.SetErr(&output)
	cmd.SetArgs([]string{"reset", "--force"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("data dir has %d entries after reset, want 0", len(entries))
	}
	if _, err := os.Stat(storeDir); !os.IsNotExist(err) {
		t.Error("store dir should be removed")
	}
	if !strings.Contains(output.String(), "All knowledge cleared") {
		t.Errorf("expected completion message, got %q", output.String())
	}
}
