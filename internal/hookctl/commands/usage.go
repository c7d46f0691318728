package commands

import (
	"fmt"
	"io"
)

// PrintUsage writes basic command help to w.
func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: hookctl <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available commands:")
	fmt.Fprintln(w, "  parse          Print the directives found in a commit message (reads stdin without arguments)")
	fmt.Fprintln(w, "  hash-password  Print the bcrypt hash stored for a hyperuser")
	fmt.Fprintln(w, "  ping           Check that the hook server answers")
	fmt.Fprintln(w, "  version        Show the version of the running hook server")
	fmt.Fprintln(w, "  help           Show this help text")
}
