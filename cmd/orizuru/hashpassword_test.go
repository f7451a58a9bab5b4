package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRunHashPassword_Valid(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runHashPassword([]string{"s3cret"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, stderr.String())
	}

	hash := strings.TrimSpace(stdout.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Errorf("printed hash does not verify: %v", err)
	}
}

func TestRunHashPassword_NoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runHashPassword(nil, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Usage") {
		t.Error("expected usage on stderr")
	}
}

func TestRunHashPassword_TooManyArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := runHashPassword([]string{"one", "two"}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestRunHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects passwords over 72 bytes.
	var stdout, stderr bytes.Buffer
	code := runHashPassword([]string{strings.Repeat("a", 100)}, &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "hash password") {
		t.Errorf("stderr = %q, want bcrypt error", stderr.String())
	}
}
