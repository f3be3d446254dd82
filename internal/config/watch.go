package config

import (
	"log"
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths     []string
	Interval  time.Duration
	onChange  func(string) // called with path that changed
	stopCh    chan struct{}
	stopOnce  sync.Once
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start begins polling in a goroutine.
func (w *FileWatcher) Start() {
	ticker := time.NewTicker(w.Interval)
	// prime before returning so an edit right after Start is not missed
	w.scanAll(true)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scanAll(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// scanAll checks mtimes and invokes onChange for files that changed since last scan.
func (w *FileWatcher) scanAll(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// missing profile files are allowed; pick them up once they appear
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		if !ok {
			w.lastMTime[p] = mt
			if !prime && w.onChange != nil {
				w.onChange(p)
			}
			continue
		}
		if mt.After(last) {
			w.lastMTime[p] = mt
			if !prime && w.onChange != nil {
				w.onChange(p)
			}
		}
	}
}

// WatchProfile reloads the tuning for profile whenever its default or profile file
// changes, handing the fresh settings to apply. Invalid edits are logged and skipped.
func WatchProfile(l *Loader, profile string, interval time.Duration, apply func(Settings)) *FileWatcher {
	paths := []string{l.Paths().DefaultPath()}
	if profile != "" {
		paths = append(paths, l.Paths().ProfilePath(profile))
	}
	return NewFileWatcher(paths, interval, func(p string) {
		l.Invalidate()
		s, err := l.Load(profile)
		if err != nil {
			log.Printf("[config] reload %s rejected: %v", p, err)
			return
		}
		log.Printf("[config] reloaded %s (version %q)", p, s.Version)
		apply(s)
	})
}
