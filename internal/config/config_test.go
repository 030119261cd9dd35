package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the user config dir and working directory at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	for _, k := range []string{"TASKS_BACKEND", "TASKS_DATA", "TASKS_THEME", "TASKS_GROUP", "TASKS_LOG_LEVEL", "TASKS_LOG_FORMAT", "TASKS_LOG_FILE"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Backend != BackendLocal {
		t.Errorf("Storage.Backend: got %q, want %q", cfg.Storage.Backend, BackendLocal)
	}
	if cfg.Storage.Path != DefaultDataFile {
		t.Errorf("Storage.Path: got %q, want %q", cfg.Storage.Path, DefaultDataFile)
	}
	if cfg.UI.Theme != "classic" {
		t.Errorf("UI.Theme: got %q, want classic", cfg.UI.Theme)
	}
	if cfg.Source != "" {
		t.Errorf("Source: got %q, want empty", cfg.Source)
	}
}

func TestLoadProjectFile(t *testing.T) {
	dir := isolate(t)
	content := `
[storage]
path = "data/todo.json"

[log]
level = "debug"
format = "json"

[ui]
theme = "neon"
group = true
`
	if err := os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Source != ProjectConfigFile {
		t.Errorf("Source: got %q, want %q", cfg.Source, ProjectConfigFile)
	}
	if cfg.Storage.Path != "data/todo.json" {
		t.Errorf("Storage.Path: got %q", cfg.Storage.Path)
	}
	if cfg.Storage.Backend != BackendLocal {
		t.Errorf("Storage.Backend should keep default, got %q", cfg.Storage.Backend)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log: got %+v", cfg.Log)
	}
	if cfg.UI.Theme != "neon" || !cfg.UI.Group {
		t.Errorf("UI: got %+v", cfg.UI)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKS_THEME", "mono")
	t.Setenv("TASKS_BACKEND", "memory")
	t.Setenv("TASKS_GROUP", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "mono" {
		t.Errorf("UI.Theme: got %q, want mono", cfg.UI.Theme)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend: got %q, want memory", cfg.Storage.Backend)
	}
	if !cfg.UI.Group {
		t.Error("UI.Group: want true")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("Load(missing): want error")
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("[storage\n"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad toml): want error")
	}

	unknown := filepath.Join(dir, "unknown.toml")
	os.WriteFile(unknown, []byte("[storage]\nbackend = \"s3\"\n"), 0o644)
	_, err := Load(unknown)
	if err == nil || !strings.Contains(err.Error(), "storage.backend") {
		t.Errorf("Load(unknown backend): got %v", err)
	}
}
