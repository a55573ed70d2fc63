package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "DEVTRACK_TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "DEVTRACK_TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "DEVTRACK_TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "DEVTRACK_TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "DEVTRACK_TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestLoad_TuningDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/devtrack_test")
	os.Setenv("REDIS_URL", "redis://localhost:6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("GITHUB_CLIENT_ID", "cid")
	os.Setenv("GITHUB_CLIENT_SECRET", "csecret")
	defer func() {
		for _, key := range []string{"DATABASE_URL", "REDIS_URL", "JWT_SECRET", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"} {
			os.Unsetenv(key)
		}
	}()

	cfg := Load()

	if cfg.DBMaxConns != 25 {
		t.Errorf("Expected DBMaxConns 25, got %d", cfg.DBMaxConns)
	}
	if cfg.AuthRateLimit != 10 {
		t.Errorf("Expected AuthRateLimit 10, got %d", cfg.AuthRateLimit)
	}
	if cfg.SyncWorkers != 3 {
		t.Errorf("Expected SyncWorkers 3, got %d", cfg.SyncWorkers)
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("DEVTRACK_NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("DEVTRACK_NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("DEVTRACK_TEST_REQUIRED", "value123")
	defer os.Unsetenv("DEVTRACK_TEST_REQUIRED")

	result := mustGetEnv("DEVTRACK_TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}
