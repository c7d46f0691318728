package commands

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultHost = "localhost:8080"

var httpClient = &http.Client{Timeout: 5 * time.Second}

// hostFlag registers --host, defaulting to $HOOK_HOST or localhost:8080.
func hostFlag(fs *flag.FlagSet) *string {
	host := strings.TrimSpace(os.Getenv("HOOK_HOST"))
	if host == "" {
		host = defaultHost
	}
	return fs.String("host", host, "hook server host:port to query")
}

// getText fetches a plain text endpoint of the server.
func getText(host, path string) (string, error) {
	resp, err := httpClient.Get(fmt.Sprintf("http://%s/mantis/%s", host, path))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return strings.TrimSpace(string(body)), nil
}

// RunPing handles the `hookctl ping` subcommand.
func RunPing(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ping", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	host := hostFlag(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	body, err := getText(*host, "ping")
	if err != nil {
		return fmt.Errorf("hook server is not responding: %w", err)
	}

	fmt.Fprintln(out, body)
	return nil
}

// RunVersion handles the `hookctl version` subcommand.
func RunVersion(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	host := hostFlag(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}

	version, err := getText(*host, "version")
	if err != nil || version == "" {
		fmt.Fprintln(out, "No version detected")
		return nil
	}

	fmt.Fprintln(out, version)
	return nil
}
