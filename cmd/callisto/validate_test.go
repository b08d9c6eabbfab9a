package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateCommandExists(t *testing.T) {
	if validateCmd == nil {
		t.Fatal("validateCmd is nil")
	}
	if validateCmd.Use != "validate" {
		t.Errorf("validateCmd.Use = %q, want %q", validateCmd.Use, "validate")
	}
	if validateCmd.RunE == nil {
		t.Error("validateCmd.RunE should not be nil")
	}
}

func TestValidateDocument_Valid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchitems.yaml")
	doc := `
sudoers:
  Path: /etc/sudoers
launch_daemons:
  Path: /Library/LaunchDaemons/
  IsPrefix: true
  AuditOnly: false
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	validateFlags.file = path
	if err := validateDocument(validateCmd, nil); err != nil {
		t.Errorf("validateDocument() error = %v, want nil", err)
	}
}

func TestValidateDocument_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchitems.yaml")
	doc := `
broken:
  WriteOnly: true
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	validateFlags.file = path
	if err := validateDocument(validateCmd, nil); err == nil {
		t.Error("validateDocument() on a policy without Path: error = nil, want error")
	}
}

func TestValidateDocument_MissingFile(t *testing.T) {
	validateFlags.file = filepath.Join(t.TempDir(), "absent.yaml")
	if err := validateDocument(validateCmd, nil); err == nil {
		t.Error("validateDocument() on a missing file: error = nil, want error")
	}
}
