package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// RunHashPassword handles the `hookctl hash-password` subcommand.
func RunHashPassword(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return errors.New("usage: hookctl hash-password [--cost n] <password>")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(fs.Arg(0))), *cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, string(hash))
	return nil
}
