package adapters

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/ports"
)

const DefaultWatchDebounce = 500 * time.Millisecond

// DefinitionWatcherAdapter signals when a definitions file changes on disk.
// Bursts of writes (editors, atomic renames) are coalesced into one signal.
type DefinitionWatcherAdapter struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func NewDefinitionWatcherAdapter(path string, debounce time.Duration) (*DefinitionWatcherAdapter, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create definitions watcher").
			WithCause(err)
	}
	return &DefinitionWatcherAdapter{
		fsWatcher: fsw,
		path:      filepath.Clean(path),
		debounce:  debounce,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start watches the directory holding the definitions file, so the watch
// survives the file being replaced.
func (w *DefinitionWatcherAdapter) Start() (<-chan struct{}, error) {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to watch directory: " + dir).
			WithCause(err)
	}
	go w.loop()
	return w.onChange, nil
}

// Stop ends the watch. Later calls return the result of the first one.
func (w *DefinitionWatcherAdapter) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopErr = w.fsWatcher.Close()
	})
	return w.stopErr
}

func (w *DefinitionWatcherAdapter) loop() {
	var timer *time.Timer
	pending := false

	for {
		var fire <-chan time.Time
		if timer != nil {
			fire = timer.C
		}

		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-fire:
			if pending {
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Str("path", w.path).Msg("definitions watcher error")

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *DefinitionWatcherAdapter) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}

var _ ports.DefinitionWatcherPort = (*DefinitionWatcherAdapter)(nil)
