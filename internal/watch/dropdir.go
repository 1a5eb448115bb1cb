package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultSettle is how long a file must stay quiet before it is handed off.
// Screenshot tools create the file and then write it in several chunks.
const DefaultSettle = 300 * time.Millisecond

// DropDir watches a directory and reports files that appear in it once they
// stop changing.
type DropDir struct {
	dir     string
	settle  time.Duration
	onReady func(path string)
	logger  zerolog.Logger

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// NewDropDir prepares a watcher for dir. onReady runs on a timer goroutine.
func NewDropDir(dir string, settle time.Duration, onReady func(path string), logger zerolog.Logger) (*DropDir, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &DropDir{
		dir:     dir,
		settle:  settle,
		onReady: onReady,
		logger:  logger.With().Str("component", "watch").Str("dir", dir).Logger(),
		pending: make(map[string]*time.Timer),
	}, nil
}

// Start begins watching until ctx is done or Close is called.
func (d *DropDir) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(d.dir); err != nil {
		_ = watcher.Close()
		return err
	}
	d.watcher = watcher

	d.wg.Add(1)
	go d.loop(ctx)
	d.logger.Info().Msg("watching drop folder")
	return nil
}

// Close stops the watcher and any pending hand-offs.
func (d *DropDir) Close() error {
	d.mu.Lock()
	d.closed = true
	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
	d.mu.Unlock()

	if d.watcher == nil {
		return nil
	}
	err := d.watcher.Close()
	d.wg.Wait()
	return err
}

func (d *DropDir) loop(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			d.handleEvent(event)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (d *DropDir) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if ignoredName(filepath.Base(event.Name)) {
		return
	}
	d.schedule(event.Name)
}

func (d *DropDir) schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if timer, ok := d.pending[path]; ok {
		timer.Stop()
	}
	d.pending[path] = time.AfterFunc(d.settle, func() {
		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			return
		}
		delete(d.pending, path)
		d.mu.Unlock()

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return
		}
		d.logger.Debug().Str("path", path).Msg("file ready")
		d.onReady(path)
	})
}

// ignoredName filters hidden files and partial downloads.
func ignoredName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return true
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".tmp", ".part", ".crdownload", ".download", ".swp":
		return true
	}
	return false
}
