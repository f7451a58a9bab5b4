package main

import (
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func runRevokeAPIKey(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("revoke-api-key", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	name := fs.String("name", "", "Name of the key to remove (required)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru revoke-api-key --config <file> --name <name>

Remove an API key from the monitor auth section of the config file.

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *configPath == "" || *name == "" {
		fs.Usage()
		return 1
	}

	root, err := loadConfigNode(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	if err := removeAPIKey(root, *name); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	if err := saveConfigNode(*configPath, root); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "API key %q removed from %s\n", *name, *configPath)
	fmt.Fprint(stdout, restartNotice)
	return 0
}

func removeAPIKey(root *yaml.Node, name string) error {
	doc := root.Content[0]
	monitoring := mapGet(doc, "monitoring")
	if monitoring == nil {
		return fmt.Errorf("API key %q not found (no monitoring section)", name)
	}
	auth := mapGet(monitoring, "auth")
	if auth == nil {
		return fmt.Errorf("API key %q not found (no auth section)", name)
	}
	keys := mapGet(auth, "api_keys")
	if keys == nil {
		return fmt.Errorf("API key %q not found (no api_keys section)", name)
	}
	_, idx := seqFindMapping(keys, "name", name)
	if idx < 0 {
		return fmt.Errorf("API key %q not found", name)
	}
	keys.Content = append(keys.Content[:idx], keys.Content[idx+1:]...)
	return nil
}
