package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jo-hoe/goprofile/internal/common"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "database:\n  connectionString: sqlite:///" + filepath.Join(dir, "users.db") +
		"\nuploadFolder: " + filepath.Join(dir, "uploads") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMigrateAndUserAdd(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCommand(t, "--config", configPath, "migrate")
	if err != nil {
		t.Fatalf("migrate error: %v", err)
	}
	if !strings.Contains(out, "up to date") {
		t.Errorf("unexpected migrate output %q", out)
	}

	out, err = runCommand(t, "--config", configPath, "user", "add", "alice")
	if err != nil {
		t.Fatalf("user add error: %v", err)
	}
	if !strings.Contains(out, `created user "alice" with id 1`) {
		t.Errorf("unexpected user add output %q", out)
	}

	if _, err := runCommand(t, "--config", configPath, "user", "add", "alice"); err == nil {
		t.Fatal("expected duplicate username to fail")
	}
}

func TestUserAdd_RequiresUsername(t *testing.T) {
	if _, err := runCommand(t, "--config", writeTestConfig(t), "user", "add"); err == nil {
		t.Fatal("expected error without username")
	}
}

func TestGetConfigPath(t *testing.T) {
	if got := getConfigPath("/explicit.yaml"); got != "/explicit.yaml" {
		t.Errorf("expected flag value, got %q", got)
	}

	t.Setenv("CONFIG_PATH", "/from/env.yaml")
	if got := getConfigPath(""); got != "/from/env.yaml" {
		t.Errorf("expected CONFIG_PATH, got %q", got)
	}
}

func TestDefineServer(t *testing.T) {
	e := defineServer()
	v, ok := e.Validator.(*common.GenericEchoValidator)
	if !ok {
		t.Fatalf("expected *common.GenericEchoValidator, got %T", e.Validator)
	}
	if v.Validator == nil {
		t.Error("expected validator to be constructed up front")
	}
}
