package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunServe_DisabledAPI(t *testing.T) {
	// writeTestConfig has no monitoring section, so the API is off.
	path := writeTestConfig(t, "localhost:6379")

	var stdout, stderr bytes.Buffer
	code := runServe([]string{"--config", path}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "monitoring API is disabled") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRunServe_MissingFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := runServe(nil, &stdout, &stderr); code != 1 {
		t.Error("missing --config should fail")
	}
}

func TestRunServe_MissingConfigFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runServe([]string{"--config", "/nonexistent/orizuru.yaml"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}
