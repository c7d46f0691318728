package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	content := "MANTIS_URL=https://mantis.example.com/\n" +
		"MANTIS_TIMEOUT=3s\n" +
		"USER_CACHE_TTL=0\n" +
		"REDIS_DB=4\n" +
		"DIRECTIVE_LEGACY_PRIORITY=false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	for _, key := range []string{"MANTIS_URL", "MANTIS_TIMEOUT", "USER_CACHE_TTL", "REDIS_DB", "DIRECTIVE_LEGACY_PRIORITY", "MONGO_DATABASE"} {
		t.Setenv(key, "")
	}

	Init(dir, "9.9.9")

	require.Equal(t, "https://mantis.example.com/", MANTIS_URL)
	require.Equal(t, 3*time.Second, MANTIS_TIMEOUT)
	require.Zero(t, USER_CACHE_TTL)
	require.Equal(t, 4, REDIS_DB)
	require.False(t, DIRECTIVE_LEGACY_PRIORITY)
	require.Equal(t, "mantisbeanstalk", MONGO_DATABASE)
	require.Equal(t, "9.9.9", VERSION)
}

func TestInitDefaultsWithoutEnvFile(t *testing.T) {
	for _, key := range []string{"MANTIS_TIMEOUT", "USER_CACHE_TTL", "REDIS_ADDR", "DIRECTIVE_LEGACY_PRIORITY", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	Init(t.TempDir(), "")

	require.Equal(t, 10*time.Second, MANTIS_TIMEOUT)
	require.Equal(t, 5*time.Minute, USER_CACHE_TTL)
	require.Equal(t, "127.0.0.1:6379", REDIS_ADDR)
	require.True(t, DIRECTIVE_LEGACY_PRIORITY)
	require.Equal(t, "json", LOG_FORMAT)
	require.NotEmpty(t, VERSION)
}
