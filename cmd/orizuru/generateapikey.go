package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// apiKeyPrefix makes generated keys recognizable in configs and logs.
const apiKeyPrefix = "orz_ak_"

// generateAPIKey returns a fresh random API key: 24 random bytes, hex
// encoded behind the prefix.
func generateAPIKey() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(raw), nil
}

func runGenerateAPIKey(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintln(stderr, `Usage: orizuru generate-api-key

Print a fresh API key without touching any config file. Use add-api-key to
generate and store one in a single step.`)
		return 1
	}

	key, err := generateAPIKey()
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, key)
	return 0
}
