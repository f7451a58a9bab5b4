package main

import (
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

func runAddAPIKey(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("add-api-key", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to the orizuru config file (required)")
	name := fs.String("name", "", "Name for the new key (required)")
	role := fs.String("role", "admin", "Role for the new key: admin or viewer")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru add-api-key --config <file> --name <name> [--role <role>]

Generate an API key and add it to the monitor auth section of the config
file. Comments and ordering of the file are preserved.

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
	if *role != "admin" && *role != "viewer" {
		fmt.Fprintf(stderr, "orizuru: role must be admin or viewer; got %q\n", *role)
		return 1
	}

	key, err := generateAPIKey()
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	root, err := loadConfigNode(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	if err := injectAPIKey(root, *name, key, *role); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	if err := saveConfigNode(*configPath, root); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "API key added for %q in %s\n", *name, *configPath)
	fmt.Fprintf(stdout, "Key: %s\n", key)
	fmt.Fprint(stdout, restartNotice)
	return 0
}

// injectAPIKey appends a key entry under monitoring.auth.api_keys, creating
// the intermediate sections as needed. Key names must be unique.
func injectAPIKey(root *yaml.Node, name, key, role string) error {
	doc := root.Content[0]
	monitoring := mapGetOrCreate(doc, "monitoring", yaml.MappingNode)
	auth := mapGetOrCreate(monitoring, "auth", yaml.MappingNode)
	keys := mapGetOrCreate(auth, "api_keys", yaml.SequenceNode)

	if existing, _ := seqFindMapping(keys, "name", name); existing != nil {
		return fmt.Errorf("API key with name %q already exists", name)
	}

	keys.Content = append(keys.Content, newMappingFromPairs(
		"name", name,
		"key", key,
		"role", role,
	))
	return nil
}
