package tui

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okjk/jekyllctl/internal/config"
	"github.com/okjk/jekyllctl/internal/log"
)

// watchDebounce is the debounce window for content watcher events.
const watchDebounce = 600 * time.Millisecond

// ContentWatch watches the blog's content directories and coalesces change
// bursts into single refresh signals. It is a convenience channel only:
// failures are logged and otherwise ignored.
type ContentWatch struct {
	Started     bool
	Waiting     bool
	Roots       []string
	Events      chan struct{}
	Done        chan struct{}
	LastRefresh time.Time

	mu      sync.Mutex
	paths   map[string]struct{}
	watcher *fsnotify.Watcher
}

// NewContentWatch creates an unstarted watcher.
func NewContentWatch() *ContentWatch {
	return &ContentWatch{}
}

// Start registers the content roots and launches the event loop.
func (w *ContentWatch) Start(cfg *config.AppConfig) (bool, error) {
	if w.Started || cfg == nil || !cfg.AutoRefresh {
		return false, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Started = true
	w.watcher = watcher
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.paths = make(map[string]struct{})
	w.Roots = []string{
		cfg.PostsPath(),
		cfg.DraftsPath(),
		cfg.AssetsPath(),
	}
	for _, root := range w.Roots {
		w.addWatchTree(root)
	}

	go w.run()
	return true, nil
}

// Stop shuts the watcher down.
func (w *ContentWatch) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// NextEvent returns the event channel unless a listener is already armed.
func (w *ContentWatch) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the armed flag after an event is processed.
func (w *ContentWatch) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *ContentWatch) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < watchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *ContentWatch) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

func (w *ContentWatch) isUnderRoot(path string) bool {
	for _, root := range w.Roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *ContentWatch) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(event.Name)
			}
			w.Signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("content watcher error: %v", err)
		}
	}
}

func (w *ContentWatch) maybeWatchNewDir(path string) {
	if !w.isUnderRoot(path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(path)
}

func (w *ContentWatch) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		log.Printf("content watcher add failed for %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *ContentWatch) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		w.addWatchDir(path)
		return nil
	})
}
