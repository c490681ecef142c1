package render_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/render"
)

// mockRunner implements exec.CommandRunner with a swappable function.
type mockRunner struct {
	RunFn func(ctx context.Context, workDir, name string, args ...string) ([]byte, error)
}

func (m *mockRunner) Run(ctx context.Context, workDir, name string, args ...string) ([]byte, error) {
	if m.RunFn != nil {
		return m.RunFn(ctx, workDir, name, args...)
	}
	return nil, nil
}

func testConfig() config.GenerationConfig {
	return config.GenerationConfig{
		PythonBinary:      "python",
		RendererModule:    "models.generate_single_page_brochure",
		BrochureOutputDir: "generated_brochures",
	}
}

func TestRenderThumbnail(t *testing.T) {
	t.Parallel()

	t.Run("invokes renderer module with expected arguments", func(t *testing.T) {
		t.Parallel()

		var gotName string
		var gotArgs []string
		runner := &mockRunner{
			RunFn: func(_ context.Context, _, name string, args ...string) ([]byte, error) {
				gotName = name
				gotArgs = args
				return []byte("ok"), nil
			},
		}

		r, err := render.NewRenderer(slog.Default(), runner, testConfig())
		require.NoError(t, err)

		path, err := r.RenderThumbnail(context.Background(), "The Grand Paradise", "Hawaii", "")
		require.NoError(t, err)

		assert.Equal(t, "python", gotName)
		assert.Equal(t, []string{
			"-m", "models.generate_single_page_brochure",
			"--hotel_name", "The Grand Paradise",
			"--location", "Hawaii",
			"--layout", "full_bleed",
		}, gotArgs)
		assert.Equal(t, filepath.Join("generated_brochures", "The_Grand_Paradise_full_bleed_brochure.png"), path)
	})

	t.Run("non-zero exit surfaces subprocess output", func(t *testing.T) {
		t.Parallel()

		runner := &mockRunner{
			RunFn: func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
				return []byte("Traceback: missing font"), errors.New("exit status 1")
			},
		}

		r, err := render.NewRenderer(slog.Default(), runner, testConfig())
		require.NoError(t, err)

		_, err = r.RenderThumbnail(context.Background(), "The Grand Paradise", "Hawaii", "full_bleed")
		require.Error(t, err)
		assert.ErrorIs(t, err, render.ErrRenderFailed)
		assert.Contains(t, err.Error(), "missing font")
	})

	t.Run("rejects empty hotel name", func(t *testing.T) {
		t.Parallel()

		r, err := render.NewRenderer(slog.Default(), &mockRunner{}, testConfig())
		require.NoError(t, err)

		_, err = r.RenderThumbnail(context.Background(), "", "Hawaii", "full_bleed")
		assert.ErrorIs(t, err, render.ErrRenderFailed)
	})
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	r, err := render.NewRenderer(slog.Default(), &mockRunner{}, testConfig())
	require.NoError(t, err)

	assert.Equal(t,
		filepath.Join("generated_brochures", "Ocean_Breeze_Villas_full_bleed_brochure.png"),
		r.OutputPath("Ocean  Breeze\tVillas", "full_bleed"))
}

func TestNewRenderer_Validation(t *testing.T) {
	t.Parallel()

	t.Run("missing python binary", func(t *testing.T) {
		t.Parallel()
		cfg := testConfig()
		cfg.PythonBinary = ""
		_, err := render.NewRenderer(slog.Default(), &mockRunner{}, cfg)
		assert.Error(t, err)
	})

	t.Run("missing runner", func(t *testing.T) {
		t.Parallel()
		_, err := render.NewRenderer(slog.Default(), nil, testConfig())
		assert.Error(t, err)
	})
}
