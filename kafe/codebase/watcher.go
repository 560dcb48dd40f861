package codebase

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the project root and keeps the codebase in step with
// the source files on disk.
type FileWatcher struct {
	codebase     *Codebase
	stopCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(path string, info *FileInfo)
}

type WatcherOption func(*FileWatcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *FileWatcher) {
		w.pollInterval = d
	}
}

// OnChange registers fn to run after a file is reparsed or removed. A
// removed file is reported with a nil FileInfo.
func OnChange(fn func(path string, info *FileInfo)) WatcherOption {
	return func(w *FileWatcher) {
		w.onChange = fn
	}
}

func NewFileWatcher(c *Codebase, opts ...WatcherOption) *FileWatcher {
	w := &FileWatcher{
		codebase:     c,
		stopCh:       make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *FileWatcher) Start() {
	go w.run()
}

func (w *FileWatcher) Stop() {
	close(w.stopCh)
}

func (w *FileWatcher) run() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *FileWatcher) scan() {
	proj := w.codebase.Project()
	currentFiles := make(map[string]bool)

	filepath.WalkDir(proj.RootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != proj.RootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !proj.IsSource(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		currentFiles[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			file, err := w.codebase.ScanFile(path)
			if err != nil {
				w.codebase.log.Warningf("watch %s: %s", path, err)
				return nil
			}
			w.notify(path, file)
		}
		return nil
	})

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			if w.codebase.IsOpen(path) {
				continue
			}
			w.codebase.RemoveFile(path)
			w.notify(path, nil)
		}
	}
}

func (w *FileWatcher) notify(path string, info *FileInfo) {
	if w.onChange != nil {
		w.onChange(path, info)
	}
}
