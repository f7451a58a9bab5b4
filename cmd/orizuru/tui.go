package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/rubik/orizuru/tui"
)

func runTUI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	apiURL := fs.String("api-url", "", "Monitor API base URL (or ORIZURU_API_URL)")
	apiKey := fs.String("api-key", "", "Monitor API key (or ORIZURU_API_KEY)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru tui [--api-url <url>] [--api-key <key>]

Open the terminal dashboard for a running monitor, for example one started
with "orizuru serve".

Flags:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *apiURL == "" {
		*apiURL = os.Getenv("ORIZURU_API_URL")
	}
	if *apiKey == "" {
		*apiKey = os.Getenv("ORIZURU_API_KEY")
	}
	if err := validateTUIArgs(*apiURL); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}

	client := tui.NewClient(*apiURL, *apiKey)
	if err := client.Health(); err != nil {
		fmt.Fprintf(stderr, "orizuru: cannot connect to %s: %v\n", *apiURL, err)
		return 1
	}

	if err := tui.Run(client); err != nil {
		fmt.Fprintf(stderr, "orizuru: %v\n", err)
		return 1
	}
	return 0
}

// validateTUIArgs checks that the API URL is something the client can talk
// to before the dashboard takes over the terminal.
func validateTUIArgs(apiURL string) error {
	if apiURL == "" {
		return fmt.Errorf("--api-url or ORIZURU_API_URL is required")
	}
	u, err := url.Parse(apiURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not a valid URL (want http://host:port)", apiURL)
	}
	return nil
}
