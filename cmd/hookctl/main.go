package main

import (
	"fmt"
	"os"

	"mantisbeanstalk/internal/hookctl/commands"
)

func main() {
	if len(os.Args) < 2 {
		commands.PrintUsage(os.Stdout)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error

	switch cmd {
	case "help", "--help", "-h":
		commands.PrintUsage(os.Stdout)
		return
	case "version":
		err = commands.RunVersion(args, os.Stdout)
	case "ping":
		err = commands.RunPing(args, os.Stdout)
	case "parse":
		err = commands.RunParse(args, os.Stdin, os.Stdout)
	case "hash-password":
		err = commands.RunHashPassword(args, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "hookctl: unknown command %q\n", cmd)
		commands.PrintUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "hookctl %s: %v\n", cmd, err)
		os.Exit(1)
	}
}
