package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/qproc/internal/observability"
	"github.com/vyrodovalexey/qproc/internal/schema"
)

const (
	watchedSchemaYAML = "fields:\n  a: Int\n"
	updatedSchemaYAML = "fields:\n  a: Int\n  b: String\n"
	invalidSchemaYAML = "fields:\n  a: Decimal\n"
)

func writeSchema(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// replaceSchema swaps the file in one rename so the watcher never reads a
// partially written schema.
func replaceSchema(t *testing.T, path, content string) {
	t.Helper()
	tmp := path + ".tmp"
	writeSchema(t, tmp, content)
	require.NoError(t, os.Rename(tmp, path))
}

func TestNewWatcher(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	w, err := NewWatcher(path, func(*schema.Schema) {})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Equal(t, path, w.path)
	assert.NotNil(t, w.callback)
	assert.NotNil(t, w.loader)
	assert.Equal(t, 100*time.Millisecond, w.debounceDelay)
}

func TestNewWatcher_WithOptions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	logger := observability.NopLogger()
	loader := NewLoader()
	w, err := NewWatcher(path, nil,
		WithDebounceDelay(200*time.Millisecond),
		WithLogger(logger),
		WithLoader(loader),
		WithErrorCallback(func(error) {}),
	)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Equal(t, 200*time.Millisecond, w.debounceDelay)
	assert.Equal(t, logger, w.logger)
	assert.Same(t, loader, w.loader)
	assert.NotNil(t, w.errorCallback)
}

func TestWatcher_StartInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, invalidSchemaYAML)

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	assert.Error(t, w.Start(context.Background()))
	assert.Nil(t, w.LastSchema())
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	// Not parallel due to file system timing

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	var reloaded atomic.Pointer[schema.Schema]
	w, err := NewWatcher(path, func(s *schema.Schema) {
		reloaded.Store(s)
	}, WithDebounceDelay(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	require.NotNil(t, w.LastSchema())
	assert.Equal(t, []string{"a"}, w.LastSchema().Fields())

	// Starting twice is a no-op.
	require.NoError(t, w.Start(ctx))

	replaceSchema(t, path, updatedSchemaYAML)

	require.Eventually(t, func() bool {
		return reloaded.Load() != nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, reloaded.Load().Fields())
	assert.Equal(t, []string{"a", "b"}, w.LastSchema().Fields())
}

func TestWatcher_FailedReloadKeepsPrevious(t *testing.T) {
	// Not parallel due to file system timing

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	core, logs := observer.New(zapcore.InfoLevel)
	var errorCount atomic.Int32
	var callbackCount atomic.Int32

	w, err := NewWatcher(path, func(*schema.Schema) {
		callbackCount.Add(1)
	},
		WithDebounceDelay(10*time.Millisecond),
		WithLogger(observability.NewZapLogger(zap.New(core))),
		WithErrorCallback(func(error) { errorCount.Add(1) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()
	previous := w.LastSchema()

	replaceSchema(t, path, invalidSchemaYAML)

	require.Eventually(t, func() bool {
		return errorCount.Load() > 0
	}, 2*time.Second, 10*time.Millisecond)

	assert.Same(t, previous, w.LastSchema())
	assert.Zero(t, callbackCount.Load())
	assert.GreaterOrEqual(t, logs.FilterMessage("failed to reload schema, keeping previous").Len(), 1)
}

func TestWatcher_ForceReload(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	s, err := LoadSchema(path)
	require.NoError(t, err)
	h := NewHolder(s)

	w, err := NewWatcher(path, h.Update)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	writeSchema(t, path, updatedSchemaYAML)
	require.NoError(t, w.ForceReload())

	assert.Equal(t, []string{"a", "b"}, h.Processor().Schema().Fields())
	assert.Same(t, w.LastSchema(), h.Processor().Schema())

	writeSchema(t, path, invalidSchemaYAML)
	assert.Error(t, w.ForceReload())
	assert.Equal(t, []string{"a", "b"}, h.Processor().Schema().Fields())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	writeSchema(t, path, watchedSchemaYAML)

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
