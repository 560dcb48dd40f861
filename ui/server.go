// Package ui serves a browser view of a kafe project and a parse
// playground.
package ui

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dhamidi/kafe/format"
	"github.com/dhamidi/kafe/kafe/ast"
	"github.com/dhamidi/kafe/kafe/codebase"
	"github.com/dhamidi/kafe/kafe/parser"
)

//go:embed static templates
var embeddedFS embed.FS

const maxSourceSize = 1 << 20

type Server struct {
	codebase   *codebase.Codebase
	staticFS   fs.FS
	mux        *http.ServeMux
	templateFS fs.FS
	funcMap    template.FuncMap
}

func NewServer(cb *codebase.Codebase) (*Server, error) {
	staticFS := overlayFS("ui/static", mustSub(embeddedFS, "static"))
	templateFS := overlayFS("ui/templates", mustSub(embeddedFS, "templates"))

	funcMap := template.FuncMap{
		"rel": func(path string) string {
			if rel, err := filepath.Rel(cb.RootDir(), path); err == nil {
				return filepath.ToSlash(rel)
			}
			return path
		},
		"symbols": flattenSymbols,
	}

	if _, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "*.html"); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		codebase:   cb,
		staticFS:   staticFS,
		mux:        http.NewServeMux(),
		templateFS: templateFS,
		funcMap:    funcMap,
	}

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	s.mux.HandleFunc("POST /parse", s.handleParse)
	s.mux.HandleFunc("GET /f/{path...}", s.handleFile)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// render parses the templates on every call so edits under ui/templates
// show up without a restart.
func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("").Funcs(s.funcMap).ParseFS(s.templateFS, "*.html")
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

type fileRow struct {
	Path    string
	OK      bool
	Error   string
	Symbols int
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var rows []fileRow
	failed := 0
	for _, path := range s.codebase.Files() {
		f := s.codebase.GetFile(path)
		if f == nil {
			continue
		}
		row := fileRow{Path: path, OK: f.ParseErr == nil, Symbols: len(f.Symbols)}
		if f.ParseErr != nil {
			row.Error = f.ParseErr.Error()
			failed++
		}
		rows = append(rows, row)
	}

	data := struct {
		Root   string
		Files  []fileRow
		Failed int
	}{
		Root:   s.codebase.RootDir(),
		Files:  rows,
		Failed: failed,
	}
	s.render(w, "index.html", data)
}

type fileView struct {
	Path       string
	Source     string
	Tree       string
	Diagnostic string
	Symbols    []codebase.Symbol
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.codebase.RootDir(), filepath.FromSlash(r.PathValue("path")))
	f := s.codebase.GetFile(path)
	if f == nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	view := fileView{
		Path:    path,
		Source:  string(f.Content),
		Symbols: f.Symbols,
	}
	if f.Program != nil {
		view.Tree = ast.Sprint(f.Program)
	} else {
		var buf bytes.Buffer
		format.NewDiagnosticEncoder(&buf).Encode(f.ParseErr, f.Content)
		view.Diagnostic = buf.String()
	}

	if r.Header.Get("Accept") == "application/json" {
		writeJSON(w, http.StatusOK, view)
		return
	}
	s.render(w, "file.html", view)
}

type parseRequest struct {
	Source     string `json:"source"`
	Format     string `json:"format"`
	Expression bool   `json:"expression"`
}

type parseResponse struct {
	Output string         `json:"output,omitempty"`
	Error  *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Got      string `json:"got,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// handleParse parses source submitted as JSON or as a form and answers
// with the encoded tree or the parse error.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceSize)

	var req parseRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		req.Source = r.FormValue("source")
		req.Format = r.FormValue("format")
		req.Expression = r.FormValue("expression") != ""
	}
	if req.Format == "" {
		req.Format = "tree"
	}

	output, err := parseSource(req)
	if err != nil {
		var perr *parser.ParseError
		if !errors.As(err, &perr) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, parseResponse{Error: &errorResponse{
			Message:  perr.Message,
			Expected: perr.Expected,
			Got:      perr.SymbolString(),
			Line:     perr.Pos.Line,
			Column:   perr.Pos.Column,
		}})
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Output: output})
}

func parseSource(req parseRequest) (string, error) {
	var buf bytes.Buffer
	if req.Expression {
		node, err := parser.ParseExpression(req.Source)
		if err != nil {
			return "", err
		}
		if err := format.NewTreeEncoder(&buf).EncodeNode(node); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	enc, err := format.New(req.Format, &buf)
	if err != nil {
		return "", err
	}
	prog, err := parser.Parse(req.Source)
	if err != nil {
		return "", err
	}
	if err := enc.Encode(prog); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type symbolRow struct {
	Depth  int
	Symbol codebase.Symbol
}

func flattenSymbols(syms []codebase.Symbol) []symbolRow {
	var out []symbolRow
	var walk func([]codebase.Symbol, int)
	walk = func(syms []codebase.Symbol, depth int) {
		for _, s := range syms {
			out = append(out, symbolRow{Depth: depth, Symbol: s})
			walk(s.Children, depth+1)
		}
	}
	walk(syms, 0)
	return out
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

type overlayFSType struct {
	primary   fs.FS
	secondary fs.FS
}

// overlayFS prefers files under primaryPath on disk and falls back to the
// embedded copy.
func overlayFS(primaryPath string, secondary fs.FS) fs.FS {
	return &overlayFSType{
		primary:   os.DirFS(primaryPath),
		secondary: secondary,
	}
}

func (o *overlayFSType) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	return o.secondary.Open(name)
}

func (o *overlayFSType) ReadDir(name string) ([]fs.DirEntry, error) {
	entries := make(map[string]fs.DirEntry)

	if rd, ok := o.secondary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	if rd, ok := o.primary.(fs.ReadDirFS); ok {
		if list, err := rd.ReadDir(name); err == nil {
			for _, e := range list {
				entries[e.Name()] = e
			}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}
