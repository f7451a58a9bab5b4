package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a config file pointing at the given redis address
// and returns its path.
func writeTestConfig(t *testing.T, addr string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orizuru.yaml")
	content := fmt.Sprintf(`redis:
  addr: %s
  prefix: clitest
queues:
  - name: jobs
consumers: ["w1"]
gc:
  interval: 1
  registry_discovery: true
`, addr)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_NoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "orizuru <command>") {
		t.Error("expected usage output on stdout")
	}
}

func TestRun_Help(t *testing.T) {
	for _, cmd := range []string{"help", "-h", "--help"} {
		t.Run(cmd, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run([]string{cmd}, &stdout, &stderr)
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if !strings.Contains(stdout.String(), "orizuru <command>") {
				t.Error("expected usage text")
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"version"}, &stdout, &stderr)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "orizuru dev") {
		t.Errorf("stdout = %q, want version output", stdout.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"nonexistent"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), `unknown command "nonexistent"`) {
		t.Errorf("stderr = %q, want unknown command error", stderr.String())
	}
}

func TestRun_Dispatch(t *testing.T) {
	t.Setenv("ORIZURU_API_URL", "")
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"hash-password no args", []string{"hash-password"}, 1},
		{"generate-api-key extra args", []string{"generate-api-key", "extra"}, 1},
		{"init bad flag", []string{"init", "--invalid"}, 1},
		{"set-password no flags", []string{"set-password"}, 1},
		{"add-api-key no flags", []string{"add-api-key"}, 1},
		{"revoke-api-key no flags", []string{"revoke-api-key"}, 1},
		{"produce no flags", []string{"produce"}, 1},
		{"consume no flags", []string{"consume"}, 1},
		{"gc no flags", []string{"gc"}, 1},
		{"stat no flags", []string{"stat"}, 1},
		{"serve no flags", []string{"serve"}, 1},
		{"tui no url", []string{"tui"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d; stderr: %s", code, tt.code, stderr.String())
			}
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	output := buf.String()

	keywords := []string{
		"init", "produce", "consume", "gc", "stat", "serve", "tui",
		"set-password", "hash-password", "add-api-key", "revoke-api-key",
		"generate-api-key", "version", "help",
	}
	for _, kw := range keywords {
		if !strings.Contains(output, kw) {
			t.Errorf("usage missing keyword %q", kw)
		}
	}
}
