package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		wantName string
		wantSrc  string
		wantExt  string
	}{
		{
			"toml",
			"kafe.toml",
			"name = \"demo\"\nsource_dir = \"lib\"\n",
			"demo", "lib", ".kafe",
		},
		{
			"yaml",
			"kafe.yaml",
			"name: demo\nextension: kf\n",
			"demo", "src", ".kf",
		},
		{
			"yml",
			"kafe.yml",
			"tests_dir: golden\n",
			"", "src", ".kafe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.file), tt.content)

			p, err := LoadFrom(dir)
			if err != nil {
				t.Fatalf("LoadFrom: %v", err)
			}
			want := tt.wantName
			if want == "" {
				want = filepath.Base(dir)
			}
			if p.Name != want {
				t.Errorf("Name = %q, want %q", p.Name, want)
			}
			if p.SourceDir != tt.wantSrc {
				t.Errorf("SourceDir = %q, want %q", p.SourceDir, tt.wantSrc)
			}
			if p.Extension != tt.wantExt {
				t.Errorf("Extension = %q, want %q", p.Extension, tt.wantExt)
			}
			if p.ConfigFile != filepath.Join(dir, tt.file) {
				t.Errorf("ConfigFile = %q", p.ConfigFile)
			}
		})
	}
}

func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()
	p, err := LoadFrom(dir)
	if err != nil {
		t.Fatal(err)
	}
	if p.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want empty", p.ConfigFile)
	}
	if p.SourceDir != DefaultSourceDir || p.TestsDir != DefaultTestsDir ||
		p.Extension != DefaultExtension || p.ExpectedSuffix != DefaultExpectedSuffix {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if p.TestsPath() != filepath.Join(dir, "tests") {
		t.Errorf("TestsPath = %q", p.TestsPath())
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "kafe.toml", "name = "},
		{"bad yaml", "kafe.yaml", "name: [unclosed"},
		{"unknown format", "kafe.json", "{}"},
		{"absolute dir", "abs.toml", "source_dir = \"/src\""},
		{"clashing suffix", "clash.toml", "extension = \".x\"\nexpected_suffix = \".x\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSourceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.kafe", "a.kafe", "a.kafe.expected", "sub/c.kafe", ".git/x.kafe", "notes.txt"} {
		writeFile(t, filepath.Join(dir, name), "")
	}

	p := Default(dir)
	got, err := p.SourceFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "a.kafe"),
		filepath.Join(dir, "b.kafe"),
		filepath.Join(dir, "sub", "c.kafe"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if p.ExpectedPath(want[0]) != want[0]+".expected" {
		t.Errorf("ExpectedPath = %q", p.ExpectedPath(want[0]))
	}
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"kafe.toml", "kafe.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			p := Default(dir)
			p.Name = "roundtrip"
			p.TestsDir = "golden"
			path := filepath.Join(dir, name)
			if err := p.Save(path); err != nil {
				t.Fatal(err)
			}

			got, err := LoadFrom(dir)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != "roundtrip" || got.TestsDir != "golden" || got.SourceDir != DefaultSourceDir {
				t.Errorf("loaded %+v", got)
			}
			if got.ConfigFile != path {
				t.Errorf("ConfigFile = %q, want %q", got.ConfigFile, path)
			}
		})
	}
}
