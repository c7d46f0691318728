package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mantisbeanstalk/internal/models"

	"github.com/stretchr/testify/require"
)

func record(revision string) models.AuditRecord {
	return models.AuditRecord{
		ReceivedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Field:      "commit",
		Revision:   revision,
		Raw:        `{"message":"fix [#7 status=closed]"}`,
		Outcome:    "applied 1, skipped 0",
	}
}

func TestFileSinkNamesByRevision(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	require.NoError(t, sink.Record(context.Background(), record("42")))

	data, err := os.ReadFile(filepath.Join(dir, "revision42.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "revision: 42")
	require.Contains(t, string(data), `{"message":"fix [#7 status=closed]"}`)
	require.Contains(t, string(data), "applied 1, skipped 0")
}

func TestFileSinkSequenceNames(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	require.NoError(t, sink.Record(context.Background(), record("")))
	require.NoError(t, sink.Record(context.Background(), record("")))

	require.FileExists(t, filepath.Join(dir, "log_1.log"))
	require.FileExists(t, filepath.Join(dir, "log_2.log"))
}

func TestFileSinkSanitisesRevision(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, NewFileSink(dir).Record(context.Background(), record("../../etc/passwd")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotContains(t, entries[0].Name(), "/")
}

func TestFileSinkMissingDirectory(t *testing.T) {
	sink := NewFileSink(filepath.Join(t.TempDir(), "missing"))

	err := sink.Record(context.Background(), record("1"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a writable directory")
}

type sinkFunc func(ctx context.Context, rec models.AuditRecord) error

func (f sinkFunc) Record(ctx context.Context, rec models.AuditRecord) error { return f(ctx, rec) }

func TestMultiWritesEverySink(t *testing.T) {
	first := errors.New("first down")
	var calls int

	m := Multi{
		sinkFunc(func(context.Context, models.AuditRecord) error { calls++; return first }),
		sinkFunc(func(context.Context, models.AuditRecord) error { calls++; return nil }),
	}

	err := m.Record(context.Background(), record("1"))
	require.ErrorIs(t, err, first)
	require.Equal(t, 2, calls)

	require.NoError(t, Multi{}.Record(context.Background(), record("1")))
}
