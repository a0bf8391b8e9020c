package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/quorix/quorix/internal/logging"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports changes to the session file, such as a login or logout in
// another terminal.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(removed bool)
	logger   *logging.Logger

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches path. onChange receives whether the file is gone after
// a burst of changes settles.
func NewWatcher(path string, onChange func(removed bool), logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Watch the directory: the file is replaced by rename on every save.
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		watcher:  fw,
		path:     path,
		onChange: onChange,
		logger:   logger,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		_ = w.watcher.Close()
	})
}

// Done is closed when the watch loop has returned.
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) loop() {
	defer close(w.done)

	target := filepath.Base(w.path)
	debounce := time.NewTimer(0)
	<-debounce.C
	pending := false

	for {
		select {
		case <-w.stopCh:
			debounce.Stop()
			return

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			_, err := os.Stat(w.path)
			removed := os.IsNotExist(err)
			w.logger.Debug("session file changed", "path", w.path, "removed", removed)
			if w.onChange != nil {
				w.onChange(removed)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("session watcher error", "error", err.Error())
		}
	}
}
