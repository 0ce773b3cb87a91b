package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// isolate runs a test in an empty working directory with an empty config
// directory, so no user or project configuration leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("DAYLIO2MD_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	version = "1.2.3"
	t.Cleanup(func() { version = "dev" })

	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("--version output should contain version: %q", out)
	}
	if !strings.Contains(out, "daylio2md") {
		t.Errorf("--version output should contain 'daylio2md': %q", out)
	}
}

func TestRootCommand_Help(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, expected := range []string{"daylio2md", "Usage:", "convert", "inspect", "templates", "serve", "--json", "--color"} {
		if !strings.Contains(out, expected) {
			t.Errorf("--help output should contain %q", expected)
		}
	}
}

func TestRootCommand_JSONFlag_NoSubcommand(t *testing.T) {
	out, err := execute(t, "--json")
	if err == nil {
		t.Fatal("Expected error when running with --json but no subcommand")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if result["code"] != float64(1) {
		t.Errorf("code = %v, want 1", result["code"])
	}
}

func TestBuildVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "dev build", version: "dev", commit: "none", date: "unknown", want: "dev"},
		{name: "release", version: "1.0.0", commit: "abcdef1234567", date: "2024-01-01", want: "1.0.0 (abcdef1, 2024-01-01)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldVersion, oldCommit, oldDate := version, commit, date
			t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })
			version, commit, date = tt.version, tt.commit, tt.date

			if got := buildVersion(); got != tt.want {
				t.Errorf("buildVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}
