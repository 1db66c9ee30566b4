package compare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"wandbcompare/internal/wandb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	viewerErr   error
	baseline    *wandb.Run
	baselineErr error
	run         *wandb.Run
	runErr      error

	viewerCalls   int
	baselineCalls int
	runCalls      int
}

func (f *fakeSource) Viewer(ctx context.Context) (*wandb.Viewer, error) {
	f.viewerCalls++
	if f.viewerErr != nil {
		return nil, f.viewerErr
	}
	return &wandb.Viewer{ID: "VXNlcjoxMjM=", Entity: "acme"}, nil
}

func (f *fakeSource) BaselineRun(ctx context.Context, entity, project, tag string) (*wandb.Run, error) {
	f.baselineCalls++
	if f.baselineErr != nil {
		return nil, f.baselineErr
	}
	return f.baseline, nil
}

func (f *fakeSource) Run(ctx context.Context, entity, project, runID string) (*wandb.Run, error) {
	f.runCalls++
	if f.runErr != nil {
		return nil, f.runErr
	}
	return f.run, nil
}

func testParams() Params {
	return Params{
		Entity:      "acme",
		Project:     "proj",
		RunID:       "xyz789",
		BaselineTag: "baseline",
		AppURL:      "https://wandb.ai",
	}
}

func TestComparerExecute(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		source := &fakeSource{
			baseline: &wandb.Run{ID: "abc123", DisplayName: "baseline-v1"},
			run:      &wandb.Run{ID: "xyz789", DisplayName: "brisk-hill-7"},
		}

		result, err := New(source, testParams()).Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "https://wandb.ai/acme/proj/compare?run=abc123&run=xyz789", result.URL)
		assert.Equal(t, "abc123", result.Baseline.ID)
		assert.Equal(t, "xyz789", result.Comparison.ID)
		assert.Equal(t, 1, source.viewerCalls)
		assert.Equal(t, 1, source.baselineCalls)
		assert.Equal(t, 1, source.runCalls)
	})

	t.Run("auth failure stops before any lookup", func(t *testing.T) {
		source := &fakeSource{viewerErr: errors.New("API key was not accepted by the service")}

		_, err := New(source, testParams()).Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "authentication failed")
		assert.Equal(t, 0, source.baselineCalls)
		assert.Equal(t, 0, source.runCalls)
	})

	t.Run("missing baseline stops before run lookup", func(t *testing.T) {
		source := &fakeSource{
			baselineErr: fmt.Errorf("no run tagged %q in acme/proj: %w", "baseline", wandb.ErrNotFound),
		}

		_, err := New(source, testParams()).Execute(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, wandb.ErrNotFound))
		assert.Equal(t, 1, source.baselineCalls)
		assert.Equal(t, 0, source.runCalls)
	})

	t.Run("unknown comparison run", func(t *testing.T) {
		source := &fakeSource{
			baseline: &wandb.Run{ID: "abc123", DisplayName: "baseline-v1"},
			runErr:   fmt.Errorf("run %q not found in acme/proj: %w", "xyz789", wandb.ErrNotFound),
		}

		_, err := New(source, testParams()).Execute(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, wandb.ErrNotFound))
		assert.Equal(t, 1, source.baselineCalls)
		assert.Equal(t, 1, source.runCalls)
	})
}

func TestWriteReport(t *testing.T) {
	t.Run("exact contents", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report_url.txt")
		url := "https://wandb.ai/acme/proj/compare?run=abc123&run=xyz789"

		require.NoError(t, WriteReport(path, url))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, url, string(data))
	})

	t.Run("overwrites longer existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report_url.txt")
		stale := "a much longer stale value from the previous pipeline run\n"
		require.NoError(t, os.WriteFile(path, []byte(stale), 0644))

		url := "https://wandb.ai/a/b/compare?run=1&run=2"
		require.NoError(t, WriteReport(path, url))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, url, string(data))
	})

	t.Run("unwritable path", func(t *testing.T) {
		err := WriteReport(filepath.Join(t.TempDir(), "missing", "report.txt"), "url")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write report")
	})
}
