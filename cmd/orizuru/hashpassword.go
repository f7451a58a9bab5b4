package main

import (
	"flag"
	"fmt"
	"io"

	"golang.org/x/crypto/bcrypt"
)

func runHashPassword(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Usage: orizuru hash-password <password>

Print the bcrypt hash of a password, suitable for the password_hash field
of a monitor user.`)
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 1
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(fs.Arg(0)), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(stderr, "orizuru: hash password: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(hash))
	return 0
}
