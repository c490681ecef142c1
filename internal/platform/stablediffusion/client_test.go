package stablediffusion_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/generation"
	"github.com/aibrochure/brochure-api/internal/platform/stablediffusion"
)

// minimal valid PNG header, enough for a write/read round trip
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func testConfig(t *testing.T, url string) config.GenerationConfig {
	t.Helper()
	return config.GenerationConfig{
		StableDiffusionURL:    url,
		ImageOutputDir:        t.TempDir(),
		RequestTimeoutSeconds: 5,
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()
		_, err := stablediffusion.NewClient(slog.Default(), config.GenerationConfig{ImageOutputDir: "out"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("rejects empty output dir", func(t *testing.T) {
		t.Parallel()
		_, err := stablediffusion.NewClient(slog.Default(), config.GenerationConfig{StableDiffusionURL: "http://127.0.0.1:7860"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestGenerateImages(t *testing.T) {
	t.Parallel()

	t.Run("saves one decoded image per prompt", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/sdapi/v1/txt2img", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "low quality, blurry, distorted", body["negative_prompt"])
			assert.EqualValues(t, 20, body["steps"])
			assert.EqualValues(t, 768, body["width"])
			assert.EqualValues(t, 512, body["height"])

			_ = json.NewEncoder(w).Encode(map[string][]string{
				"images": {base64.StdEncoding.EncodeToString(pngBytes)},
			})
		}))
		defer server.Close()

		client, err := stablediffusion.NewClient(slog.Default(), testConfig(t, server.URL))
		require.NoError(t, err)

		paths, err := client.GenerateImages(context.Background(), []string{"infinity pools", "mountain views"})
		require.NoError(t, err)
		require.Len(t, paths, 2)

		for _, path := range paths {
			data, readErr := os.ReadFile(path)
			require.NoError(t, readErr)
			assert.Equal(t, pngBytes, data)
		}
	})

	t.Run("failed prompt is skipped", func(t *testing.T) {
		t.Parallel()
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string][]string{
				"images": {base64.StdEncoding.EncodeToString(pngBytes)},
			})
		}))
		defer server.Close()

		client, err := stablediffusion.NewClient(slog.Default(), testConfig(t, server.URL))
		require.NoError(t, err)

		paths, err := client.GenerateImages(context.Background(), []string{"first", "second"})
		require.NoError(t, err)
		assert.Len(t, paths, 1)
	})

	t.Run("all prompts failing yields empty slice without error", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client, err := stablediffusion.NewClient(slog.Default(), testConfig(t, server.URL))
		require.NoError(t, err)

		paths, err := client.GenerateImages(context.Background(), []string{"first", "second"})
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("canceled context stops the loop", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("server should not be called")
		}))
		defer server.Close()

		client, err := stablediffusion.NewClient(slog.Default(), testConfig(t, server.URL))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = client.GenerateImages(ctx, []string{"first"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
