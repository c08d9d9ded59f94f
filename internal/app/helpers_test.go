package app

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"process-resolver/internal/ports"
)

func fixturePath(t *testing.T, name string) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)
	return filepath.Join(root, "fixtures", name)
}

// fakeWatcher hands out a channel the test drives directly.
type fakeWatcher struct {
	mu       sync.Mutex
	changes  chan struct{}
	startErr error
	stopped  bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{changes: make(chan struct{})}
}

func (w *fakeWatcher) Start() (<-chan struct{}, error) {
	if w.startErr != nil {
		return nil, w.startErr
	}
	return w.changes, nil
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	return nil
}

func (w *fakeWatcher) isStopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func serviceWithWatcher(w *fakeWatcher) Service {
	service := NewService()
	service.NewWatcher = func(string, time.Duration) (ports.DefinitionWatcherPort, error) {
		return w, nil
	}
	return service
}
