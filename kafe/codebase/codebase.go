// Package codebase keeps every kafe source file of a project parsed in
// memory and serves it to editors over LSP.
package codebase

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/kafe/kafe/ast"
	"github.com/dhamidi/kafe/kafe/parser"
	"github.com/dhamidi/kafe/project"
)

type Codebase struct {
	mu    sync.RWMutex
	proj  *project.Project
	files map[string]*FileInfo
	open  map[string]bool
	log   commonlog.Logger
}

// FileInfo is the latest parse of one file. Exactly one of Program and
// ParseErr is set.
type FileInfo struct {
	Path     string
	Content  []byte
	Program  *ast.Program
	ParseErr error
	Symbols  []Symbol
}

func New(proj *project.Project) *Codebase {
	return &Codebase{
		proj:  proj,
		files: make(map[string]*FileInfo),
		open:  make(map[string]bool),
		log:   commonlog.GetLogger("kafe.codebase"),
	}
}

func (c *Codebase) RootDir() string {
	return c.proj.RootDir
}

func (c *Codebase) Project() *project.Project {
	return c.proj
}

// ScanDir parses every source file under dir.
func (c *Codebase) ScanDir(dir string) error {
	files, err := c.proj.SourceFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range files {
		if _, err := c.ScanFile(path); err != nil {
			c.log.Warningf("scan %s: %s", path, err)
		}
	}
	c.log.Infof("scanned %d files under %s", len(files), dir)
	return nil
}

// ScanFile reparses path from disk. Files open in an editor are left
// alone; their buffer is authoritative.
func (c *Codebase) ScanFile(path string) (*FileInfo, error) {
	if c.IsOpen(path) {
		return c.GetFile(path), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.store(path, content, true), nil
}

// UpdateFile parses content as the new text of path.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	return c.store(path, content, false)
}

// store parses content and records it for path. A disk read never
// replaces a buffer that was opened while the file was being read.
func (c *Codebase) store(path string, content []byte, fromDisk bool) *FileInfo {
	prog, err := parser.Parse(string(content), parser.WithFile(path))
	info := &FileInfo{
		Path:     path,
		Content:  content,
		Program:  prog,
		ParseErr: err,
	}
	if prog != nil {
		info.Symbols = Symbols(prog)
	}
	if err != nil {
		c.log.Debugf("%s", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if fromDisk && c.open[path] {
		if current, ok := c.files[path]; ok {
			return current
		}
	}
	c.files[path] = info
	return info
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
	delete(c.open, path)
}

// Open marks path as edited in memory and parses content.
func (c *Codebase) Open(path string, content []byte) *FileInfo {
	c.mu.Lock()
	c.open[path] = true
	c.mu.Unlock()
	return c.UpdateFile(path, content)
}

// Close hands path back to the disk copy.
func (c *Codebase) Close(path string) {
	c.mu.Lock()
	delete(c.open, path)
	c.mu.Unlock()
	if _, err := os.Stat(path); err == nil {
		c.ScanFile(path)
	} else {
		c.RemoveFile(path)
	}
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the known paths in sorted order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Errors returns the files that failed to parse, sorted by path.
func (c *Codebase) Errors() []*FileInfo {
	var out []*FileInfo
	for _, path := range c.Files() {
		if f := c.GetFile(path); f != nil && f.ParseErr != nil {
			out = append(out, f)
		}
	}
	return out
}

// Location is a symbol found in some file.
type Location struct {
	Path   string
	Symbol Symbol
}

// FindSymbol looks name up in every file, preferring the file given as
// from. Class members are found by their own name.
func (c *Codebase) FindSymbol(from, name string) []Location {
	var out []Location
	collect := func(path string) {
		f := c.GetFile(path)
		if f == nil {
			return
		}
		for _, s := range flatten(f.Symbols) {
			if s.Name == name {
				out = append(out, Location{Path: path, Symbol: s})
			}
		}
	}
	collect(from)
	for _, path := range c.Files() {
		if path != from {
			collect(path)
		}
	}
	return out
}
