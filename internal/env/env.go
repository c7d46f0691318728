package env

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// actual environment variables
var MANTIS_URL string
var MANTIS_TOKEN string
var MANTIS_TIMEOUT time.Duration

var MONGO_URI string
var MONGO_DATABASE string
var REDIS_ADDR string
var REDIS_DB int
var USER_CACHE_TTL time.Duration

var AUDIT_LOG_DIR string
var HOOK_TOKEN string
var JWT_SECRET []byte

var LOG_LEVEL string
var LOG_FORMAT string
var PREFORK bool
var DIRECTIVE_LEGACY_PRIORITY bool

// this is required
var VERSION string

func Init(envRoot string, appVersion string) {
	loadEnv(envRoot)
	loadVersion(appVersion)

	MANTIS_URL = strings.TrimSpace(os.Getenv("MANTIS_URL"))
	MANTIS_TOKEN = strings.TrimSpace(os.Getenv("MANTIS_TOKEN"))
	MANTIS_TIMEOUT = durationOr("MANTIS_TIMEOUT", 10*time.Second)

	MONGO_URI = os.Getenv("MONGO_URI")
	MONGO_DATABASE = stringOr("MONGO_DATABASE", "mantisbeanstalk")
	REDIS_ADDR = stringOr("REDIS_ADDR", "127.0.0.1:6379")
	REDIS_DB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	USER_CACHE_TTL = durationOr("USER_CACHE_TTL", 5*time.Minute)

	AUDIT_LOG_DIR = strings.TrimSpace(os.Getenv("AUDIT_LOG_DIR"))
	HOOK_TOKEN = strings.TrimSpace(os.Getenv("HOOK_TOKEN"))
	JWT_SECRET = []byte(os.Getenv("JWT_SECRET"))

	LOG_LEVEL = stringOr("LOG_LEVEL", "info")
	LOG_FORMAT = stringOr("LOG_FORMAT", "json")
	PREFORK, _ = strconv.ParseBool(os.Getenv("PREFORK"))
	DIRECTIVE_LEGACY_PRIORITY = boolOr("DIRECTIVE_LEGACY_PRIORITY", true)
}

func loadEnv(envRoot string) {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if err := godotenv.Overload(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to load env file %s: %v", path, err)
	}
}

func loadVersion(appVersion string) {
	if appVersion != "" {
		VERSION = appVersion
		return
	}

	data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
	if err != nil {
		log.Printf("failed to read version file from repo root: %v", err)
		VERSION = "unknown"
		return
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed != "" {
		VERSION = trimmed
	} else {
		VERSION = "unknown"
	}
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid %s %q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func boolOr(key string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return b
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}
