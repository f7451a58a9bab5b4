package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// passwordReader reads a password without echo. It is a variable so tests
// can substitute a canned reader.
var passwordReader = func() ([]byte, error) {
	return term.ReadPassword(int(syscall.Stdin))
}

func runSetPassword(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("set-password", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	username := fs.String("user", "", "Username to set the password for (required)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru set-password --config <file> --user <username>

Set or update a monitor user's password in the config file. The password is
read from an interactive prompt, never from an argument, and auth is
switched on if it was off.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *configPath == "" || *username == "" {
		fs.Usage()
		return 1
	}

	password, err := promptPassword(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: reading password: %v\n", err)
		return 1
	}
	if strings.TrimSpace(password) == "" {
		fmt.Fprintln(stderr, "orizuru: password must not be empty")
		return 1
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: hashing password: %v\n", err)
		return 1
	}

	root, err := loadConfigNode(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	injectPassword(root, *username, string(hash))
	if err := saveConfigNode(*configPath, root); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Password updated for user %q in %s\n", *username, *configPath)
	fmt.Fprint(stdout, restartNotice)
	return 0
}

// promptPassword prompts twice on w and requires the entries to match.
func promptPassword(w io.Writer) (string, error) {
	fmt.Fprint(w, "Enter password: ")
	p1, err := passwordReader()
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	fmt.Fprint(w, "Confirm password: ")
	p2, err := passwordReader()
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}

	if string(p1) != string(p2) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(p1), nil
}

// injectPassword sets the user's bcrypt hash under monitoring.auth.users,
// appending the user with the admin role when absent.
func injectPassword(root *yaml.Node, username, hash string) {
	doc := root.Content[0]
	monitoring := mapGetOrCreate(doc, "monitoring", yaml.MappingNode)
	auth := mapGetOrCreate(monitoring, "auth", yaml.MappingNode)

	// Ensure auth.enabled is true.
	if v := mapGet(auth, "enabled"); v == nil || v.Value != "true" {
		mapSet(auth, "enabled", "true")
	}

	users := mapGetOrCreate(auth, "users", yaml.SequenceNode)
	if entry, _ := seqFindMapping(users, "username", username); entry != nil {
		mapSet(entry, "password_hash", hash)
		return
	}
	users.Content = append(users.Content, newMappingFromPairs(
		"username", username,
		"password_hash", hash,
		"role", "admin",
	))
}
