package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/store/backend"
)

func validConfig() *Config {
	return &Config{
		App:       AppConfig{Environment: "development"},
		Logger:    LoggerConfig{Level: "info"},
		Storage:   StorageConfig{Backend: backend.Badger, DataPath: "/some/path"},
		RateLimit: RateLimitConfig{PerMinute: 60, Burst: 10},
	}
}

// noEnvFile points Load at a file that does not exist.
func noEnvFile(t *testing.T) string {
	t.Helper()
	return "-env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Storage(t *testing.T) {
	tests := []struct {
		name     string
		backend  backend.Kind
		dataPath string
		valid    bool
	}{
		{"badger", backend.Badger, "/data", true},
		{"bolt", backend.Bolt, "/data", true},
		{"sqlite", backend.SQLite, "/data", true},
		{"memory without path", backend.Memory, "", true},
		{"badger without path", backend.Badger, "", false},
		{"unknown backend", backend.Kind("redis"), "/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage = StorageConfig{Backend: tt.backend, DataPath: tt.dataPath}

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit = RateLimitConfig{PerMinute: 0, Burst: 0}
	assert.NoError(t, cfg.Validate(), "zero disables rate limiting")

	cfg.RateLimit = RateLimitConfig{PerMinute: -1, Burst: 5}
	assert.Error(t, cfg.Validate())

	cfg.RateLimit = RateLimitConfig{PerMinute: 60, Burst: 0}
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"ENV", "LOG_LEVEL", "STORAGE_BACKEND", "DATA_PATH", "BACKUP_PATH", "SERVER_PORT", "CORS_ORIGINS", "SEARCH_ENABLED", "RATE_LIMIT_PER_MINUTE", "RATE_LIMIT_BURST", "SERVER_READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, backend.Badger, cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(home, "Bookshelf", "data"), cfg.Storage.DataPath)
	assert.Equal(t, filepath.Join(home, "Bookshelf", "data", "backups"), cfg.Storage.BackupPath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, 120, cfg.RateLimit.PerMinute)
	assert.Equal(t, 30, cfg.RateLimit.Burst)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("STORAGE_BACKEND", "bolt")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SEARCH_ENABLED", "false")

	cfg, err := Load([]string{
		noEnvFile(t),
		"-storage-backend=SQLite",
		"-data-path=" + dataDir,
		"-read-timeout=3s",
	})
	require.NoError(t, err)

	assert.Equal(t, backend.SQLite, cfg.Storage.Backend)
	assert.Equal(t, dataDir, cfg.Storage.DataPath)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Search.Enabled)
}

func TestLoad_MemoryBackendKeepsEmptyPath(t *testing.T) {
	t.Setenv("DATA_PATH", "")

	cfg, err := Load([]string{noEnvFile(t), "-storage-backend=memory"})
	require.NoError(t, err)

	assert.Equal(t, backend.Memory, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.DataPath)
}

func TestLoad_Errors(t *testing.T) {
	dataDir := t.TempDir()

	_, err := Load([]string{noEnvFile(t), "-data-path=" + dataDir, "-read-timeout=soon"})
	assert.ErrorContains(t, err, "invalid read timeout")

	_, err = Load([]string{noEnvFile(t), "-data-path=" + dataDir, "-storage-backend=redis"})
	assert.ErrorContains(t, err, "invalid storage backend")

	_, err = Load([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("/abs/./path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	got, err = expandPath("relative", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	t.Setenv("TEST_ENV_KEY", "env-value")
	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestGetTypedConfigValues(t *testing.T) {
	assert.True(t, getBoolConfigValue("yes", "UNSET_BOOL", false))
	assert.False(t, getBoolConfigValue("off", "UNSET_BOOL", true))
	assert.True(t, getBoolConfigValue("", "UNSET_BOOL", true))

	assert.Equal(t, 42, getIntConfigValue("42", "UNSET_INT", 7))
	assert.Equal(t, 7, getIntConfigValue("many", "UNSET_INT", 7))

	d, err := getDurationConfigValue("", "UNSET_DURATION", "2m")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b ,"))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	// Create temp .env file.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
BOOKSHELF_TEST_ENV=staging
BOOKSHELF_TEST_LEVEL=debug
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	for _, key := range []string{"BOOKSHELF_TEST_ENV", "BOOKSHELF_TEST_LEVEL", "QUOTED_VALUE", "SINGLE_QUOTED"} {
		t.Setenv(key, "")
	}

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "staging", os.Getenv("BOOKSHELF_TEST_ENV"))
	assert.Equal(t, "debug", os.Getenv("BOOKSHELF_TEST_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)
	t.Setenv("VALID_KEY", "")

	err = loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("TEST_VAR", "original-value")

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	err := os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644)
	require.NoError(t, err)

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoad_EnvFileBelowEnvironment(t *testing.T) {
	dataDir := t.TempDir()
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=7000\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load([]string{"-env-file=" + envFile, "-data-path=" + dataDir})
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
}
