package main

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const restartNotice = "\n⚠  Restart your orizuru services for changes to take effect.\n"

// loadConfigNode parses a config file into a yaml document node so edits
// keep the comments and ordering of the original file.
func loadConfigNode(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("unexpected yaml structure in %s", path)
	}
	return &root, nil
}

// saveConfigNode writes the document back, preserving the file mode of an
// existing file.
func saveConfigNode(path string, root *yaml.Node) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	mode := os.FileMode(0o644)
	if st, err := os.Stat(path); err == nil {
		mode = st.Mode()
	}
	return os.WriteFile(path, buf.Bytes(), mode)
}

// mapGet returns the value node for key in a mapping node, or nil.
func mapGet(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// mapSet sets key to a scalar value in a mapping node, appending the pair
// when the key is absent.
func mapSet(mapping *yaml.Node, key, value string) {
	if v := mapGet(mapping, key); v != nil {
		v.Value = value
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value},
	)
}

// mapGetOrCreate returns the value node under key, creating an empty node
// of the given kind when the key is absent.
func mapGetOrCreate(mapping *yaml.Node, key string, kind yaml.Kind) *yaml.Node {
	if v := mapGet(mapping, key); v != nil {
		return v
	}
	v := &yaml.Node{Kind: kind}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		v,
	)
	return v
}

// newMappingFromPairs builds a mapping node from alternating key/value
// scalars.
func newMappingFromPairs(pairs ...string) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: pairs[i]},
			&yaml.Node{Kind: yaml.ScalarNode, Value: pairs[i+1]},
		)
	}
	return m
}

// seqFindMapping finds the first mapping in a sequence node whose key equals
// value. It returns the mapping and its index, or (nil, -1).
func seqFindMapping(seq *yaml.Node, key, value string) (*yaml.Node, int) {
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return nil, -1
	}
	for i, item := range seq.Content {
		if v := mapGet(item, key); v != nil && v.Value == value {
			return item, i
		}
	}
	return nil, -1
}
