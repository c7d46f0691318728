package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	"mantisbeanstalk/internal/directive"
	"mantisbeanstalk/internal/models"
)

// RunParse handles the `hookctl parse` subcommand. The message is the joined
// arguments, or stdin when none are given. Nothing is sent to the tracker.
func RunParse(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	legacy := fs.Bool("legacy-priority", true, "write priority= into the status field")

	if err := fs.Parse(args); err != nil {
		return err
	}

	message := strings.Join(fs.Args(), " ")
	if message == "" {
		raw, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		message = string(raw)
	}

	if strings.TrimSpace(message) == "" {
		return errors.New("empty commit message")
	}

	parser := directive.Parser{LegacyPriority: *legacy}
	directives := parser.Extract(message)
	if directives == nil {
		directives = []models.Directive{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(directives)
}
