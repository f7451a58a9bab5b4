// Command orizuru is the command line interface for the orizuru message
// queue: it pushes and drains messages, runs the unack garbage collector,
// serves the HTTP monitoring API and manages its credentials.
package main

import (
	"fmt"
	"io"
	"os"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return 0
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "init":
		return runInit(rest, stdout, stderr)
	case "produce":
		return runProduce(rest, stdout, stderr)
	case "consume":
		return runConsume(rest, stdout, stderr)
	case "gc":
		return runGC(rest, stdout, stderr)
	case "stat":
		return runStat(rest, stdout, stderr)
	case "serve":
		return runServe(rest, stdout, stderr)
	case "tui":
		return runTUI(rest, stdout, stderr)
	case "set-password":
		return runSetPassword(rest, stdout, stderr)
	case "hash-password":
		return runHashPassword(rest, stdout, stderr)
	case "add-api-key":
		return runAddAPIKey(rest, stdout, stderr)
	case "revoke-api-key":
		return runRevokeAPIKey(rest, stdout, stderr)
	case "generate-api-key":
		return runGenerateAPIKey(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "orizuru %s\n", version)
		return 0
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "orizuru: unknown command %q\n", cmd)
		printUsage(stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: orizuru <command> [options]

Commands:
  init              Create a commented starter config file
  produce           Push messages onto a queue
  consume           Claim, print and acknowledge messages from a queue
  gc                Sweep rejected messages back to their source queues
  stat              Show queue depths and consumer liveness
  serve             Run the HTTP monitoring API
  tui               Open the terminal dashboard for a running monitor
  set-password      Set or update a monitor user password in the config
  hash-password     Print the bcrypt hash of a password
  add-api-key       Generate and add a monitor API key to the config
  revoke-api-key    Remove a monitor API key from the config
  generate-api-key  Print a fresh API key without touching the config
  version           Print the version
  help              Show this help

Run "orizuru <command> -h" for the options of a command.
`)
}
