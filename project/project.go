// Package project locates a kafe source tree and its optional project file.
package project

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames lists the project files LoadFrom looks for, in order.
var ConfigNames = []string{"kafe.toml", "kafe.yaml", "kafe.yml"}

const (
	DefaultSourceDir      = "src"
	DefaultTestsDir       = "tests"
	DefaultExtension      = ".kafe"
	DefaultExpectedSuffix = ".expected"
)

// Project describes where kafe sources and golden tests live.
type Project struct {
	Name           string `toml:"name" yaml:"name"`
	SourceDir      string `toml:"source_dir" yaml:"source_dir"`
	TestsDir       string `toml:"tests_dir" yaml:"tests_dir"`
	Extension      string `toml:"extension" yaml:"extension"`
	ExpectedSuffix string `toml:"expected_suffix" yaml:"expected_suffix"`

	// RootDir is the directory holding the project file.
	RootDir string `toml:"-" yaml:"-"`
	// ConfigFile is empty when no project file was found.
	ConfigFile string `toml:"-" yaml:"-"`
}

// Load reads the project rooted at the current directory.
func Load() (*Project, error) {
	return LoadFrom(".")
}

// LoadFrom reads the first project file found in rootDir. Without one the
// defaults apply.
func LoadFrom(rootDir string) (*Project, error) {
	for _, name := range ConfigNames {
		path := filepath.Join(rootDir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return Default(rootDir), nil
}

// LoadFile reads a project file. The format follows the file extension.
func LoadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	p := &Project{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported project file format %q", ext)
	}

	p.RootDir = filepath.Dir(path)
	p.ConfigFile = path
	p.applyDefaults()
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path as TOML or YAML, following the file extension.
func (p *Project) Save(path string) error {
	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(p); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = buf.Bytes()
	case ".yaml", ".yml":
		out, err := yaml.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = out
	default:
		return fmt.Errorf("unsupported project file format %q", ext)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

// Default returns the configuration used when rootDir has no project file.
func Default(rootDir string) *Project {
	p := &Project{RootDir: rootDir}
	p.applyDefaults()
	return p
}

func (p *Project) applyDefaults() {
	if p.Name == "" {
		if abs, err := filepath.Abs(p.RootDir); err == nil {
			p.Name = filepath.Base(abs)
		}
	}
	if p.SourceDir == "" {
		p.SourceDir = DefaultSourceDir
	}
	if p.TestsDir == "" {
		p.TestsDir = DefaultTestsDir
	}
	if p.Extension == "" {
		p.Extension = DefaultExtension
	}
	if !strings.HasPrefix(p.Extension, ".") {
		p.Extension = "." + p.Extension
	}
	if p.ExpectedSuffix == "" {
		p.ExpectedSuffix = DefaultExpectedSuffix
	}
}

func (p *Project) validate() error {
	if filepath.IsAbs(p.SourceDir) || filepath.IsAbs(p.TestsDir) {
		return errors.New("source_dir and tests_dir must be relative to the project root")
	}
	if p.Extension == p.ExpectedSuffix {
		return fmt.Errorf("extension and expected_suffix are both %q", p.Extension)
	}
	return nil
}

// SourcePath returns the absolute-or-relative path of the source directory.
func (p *Project) SourcePath() string {
	return filepath.Join(p.RootDir, p.SourceDir)
}

// TestsPath returns the path of the golden test directory.
func (p *Project) TestsPath() string {
	return filepath.Join(p.RootDir, p.TestsDir)
}

// IsSource reports whether path names a kafe source file.
func (p *Project) IsSource(path string) bool {
	return strings.HasSuffix(path, p.Extension)
}

// ExpectedPath returns the golden file paired with the source at path.
func (p *Project) ExpectedPath(path string) string {
	return path + p.ExpectedSuffix
}

// SourceFiles returns every source file under dir, sorted. Hidden
// directories are skipped.
func (p *Project) SourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if p.IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
