package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/lookout/pkg/viewer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextProps(t *testing.T, props <-chan viewer.Props, errs <-chan error) viewer.Props {
	t.Helper()
	select {
	case p := <-props:
		return p
	case err := <-errs:
		t.Fatalf("unexpected load error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
	return viewer.Props{}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run_status: paused\n"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	props, errs, err := NewWatcher(path, WithDebounce(20*time.Millisecond)).Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("run_status: active\n"), 0600))
	assert.Equal(t, "active", nextProps(t, props, errs).RunStatus)

	require.NoError(t, os.WriteFile(path, []byte("run_status: complete\n"), 0600))
	assert.Equal(t, "complete", nextProps(t, props, errs).RunStatus)
}

func TestWatcherReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	props, errs, err := NewWatcher(path, WithDebounce(20*time.Millisecond)).Watch(ctx)
	require.NoError(t, err)

	// other files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: ["), 0600))
	require.NoError(t, os.WriteFile(path, []byte("active_mode: gallery\n"), 0600))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "active_mode")
	case p := <-props:
		t.Fatalf("unexpected props: %+v", p)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for load error")
	}
}

func TestWatcherClosesOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	ctx, cancel := context.WithCancel(context.Background())

	props, errs, err := NewWatcher(path).Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-props:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("props channel not closed")
	}
	_, ok := <-errs
	assert.False(t, ok)
}

func TestWatchMissingDirectory(t *testing.T) {
	_, _, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "session.yaml")).Watch(context.Background())
	assert.Error(t, err)
}
