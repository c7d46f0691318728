package audit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"mantisbeanstalk/internal/models"
)

// FileSink writes one log file per request into Dir. Single-commit requests
// are named after their revision, everything else gets a sequence number.
type FileSink struct {
	Dir string

	mu sync.Mutex
}

// NewFileSink returns a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

var unsafeName = strings.NewReplacer("/", "_", `\`, "_", "..", "_")

func (s *FileSink) Record(ctx context.Context, rec models.AuditRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.Dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("audit path %s is not a writable directory", s.Dir)
	}

	name, err := s.fileName(rec)
	if err != nil {
		return err
	}

	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, []byte(format(rec)), 0o644); err != nil {
		return fmt.Errorf("could not write audit log %s: %w", path, err)
	}

	return nil
}

func (s *FileSink) fileName(rec models.AuditRecord) (string, error) {
	if rec.Revision != "" {
		return "revision" + unsafeName.Replace(rec.Revision) + ".log", nil
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return "", fmt.Errorf("could not list audit directory %s: %w", s.Dir, err)
	}

	return fmt.Sprintf("log_%d.log", len(entries)+1), nil
}

func format(rec models.AuditRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "received: %s\n", rec.ReceivedAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&b, "field: %s\n", rec.Field)
	if rec.Revision != "" {
		fmt.Fprintf(&b, "revision: %s\n", rec.Revision)
	}
	b.WriteString("\n")
	b.WriteString(rec.Raw)
	b.WriteString("\n\n")
	b.WriteString(rec.Outcome)
	b.WriteString("\n")

	return b.String()
}
