package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimal set of settings without defaults that Load requires.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BROCHURE_DATABASE_URL", "postgres://localhost:5432/brochures")
	t.Setenv("BROCHURE_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad_FromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BROCHURE_SERVER_PORT", "9090")
	t.Setenv("BROCHURE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("BROCHURE_TASK_WORKER_COUNT", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 4, cfg.Task.WorkerCount)
	assert.Equal(t, "postgres://localhost:5432/brochures", cfg.Database.URL)
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "t5", cfg.Generation.TextBackend)
	assert.Equal(t, "http://127.0.0.1:8005", cfg.Generation.T5URL)
	assert.Equal(t, "http://127.0.0.1:7860", cfg.Generation.StableDiffusionURL)
	assert.Equal(t, "generated_images", cfg.Generation.ImageOutputDir)
	assert.Equal(t, "generated_brochures", cfg.Generation.BrochureOutputDir)
	assert.Equal(t, 2, cfg.Task.WorkerCount)
	assert.Equal(t, 100, cfg.Task.QueueSize)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env: map[string]string{
				"BROCHURE_AUTH_JWT_SECRET": "0123456789abcdef0123456789abcdef",
			},
		},
		{
			name: "short jwt secret",
			env: map[string]string{
				"BROCHURE_DATABASE_URL":    "postgres://localhost:5432/brochures",
				"BROCHURE_AUTH_JWT_SECRET": "too-short",
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"BROCHURE_DATABASE_URL":     "postgres://localhost:5432/brochures",
				"BROCHURE_AUTH_JWT_SECRET":  "0123456789abcdef0123456789abcdef",
				"BROCHURE_SERVER_LOG_LEVEL": "verbose",
			},
		},
		{
			name: "unknown text backend",
			env: map[string]string{
				"BROCHURE_DATABASE_URL":           "postgres://localhost:5432/brochures",
				"BROCHURE_AUTH_JWT_SECRET":        "0123456789abcdef0123456789abcdef",
				"BROCHURE_GENERATION_TEXT_BACKEND": "llama",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_GeminiBackendRequiresKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BROCHURE_GENERATION_TEXT_BACKEND", "gemini")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)

	t.Setenv("BROCHURE_GENERATION_GEMINI_API_KEY", "test-key")
	t.Setenv("BROCHURE_GENERATION_GEMINI_MODEL_NAME", "gemini-2.0-flash")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Generation.TextBackend)
}
