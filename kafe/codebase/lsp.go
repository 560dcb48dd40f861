package codebase

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/kafe/kafe/parser"
	"github.com/dhamidi/kafe/project"
)

const lsName = "kafe"

// LSPServer publishes parse errors as diagnostics and answers symbol
// queries for kafe files.
type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	mu     sync.Mutex
	notify glsp.NotifyFunc
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
		log:     commonlog.GetLogger("kafe.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentDefinition:     ls.textDocumentDefinition,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	proj, err := project.LoadFrom(rootDir)
	if err != nil {
		ls.log.Warningf("%s, using defaults", err)
		proj = project.Default(rootDir)
	}
	ls.codebase = New(proj)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	ls.watcher = NewFileWatcher(ls.codebase, OnChange(func(path string, info *FileInfo) {
		ls.publish(pathToURI(path), info)
	}))
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	info := ls.codebase.Open(path, []byte(params.TextDocument.Text))
	ls.publishWith(ctx.Notify, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			info := ls.codebase.UpdateFile(path, []byte(textChange.Text))
			ls.publishWith(ctx.Notify, params.TextDocument.URI, info)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.Close(path)
	ls.publishWith(ctx.Notify, params.TextDocument.URI, ls.codebase.GetFile(path))
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	var info *FileInfo
	if params.Text != nil {
		info = ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if info, err = ls.codebase.ScanFile(path); err != nil {
		return nil
	}
	ls.publishWith(ctx.Notify, params.TextDocument.URI, info)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return []protocol.DocumentSymbol{}, nil
	}
	return documentSymbols(file.Symbols), nil
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}
	name := wordAt(file.Content, int(params.Position.Line), int(params.Position.Character))
	if name == "" {
		return nil, nil
	}
	var out []protocol.Location
	for _, loc := range ls.codebase.FindSymbol(path, name) {
		out = append(out, protocol.Location{
			URI:   pathToURI(loc.Path),
			Range: symbolRange(loc.Symbol),
		})
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (ls *LSPServer) publish(uri protocol.DocumentUri, info *FileInfo) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	ls.publishWith(notify, uri, info)
}

func (ls *LSPServer) publishWith(notify glsp.NotifyFunc, uri protocol.DocumentUri, info *FileInfo) {
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics(info),
	})
}

// diagnostics converts the parse error of info, if any. An empty slice
// clears earlier diagnostics.
func diagnostics(info *FileInfo) []protocol.Diagnostic {
	out := []protocol.Diagnostic{}
	if info == nil || info.ParseErr == nil {
		return out
	}

	var perr *parser.ParseError
	if !errors.As(info.ParseErr, &perr) {
		return append(out, protocol.Diagnostic{
			Severity: severityPtr(protocol.DiagnosticSeverityError),
			Source:   strPtr(lsName),
			Message:  info.ParseErr.Error(),
		})
	}

	start := toProtocolPosition(perr.Pos.Line, perr.Pos.Column)
	end := start
	end.Character++
	message := perr.Message
	if perr.Expected != "" {
		message += " (expected " + perr.Expected + ", got " + perr.SymbolString() + ")"
	}
	return append(out, protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: severityPtr(protocol.DiagnosticSeverityError),
		Source:   strPtr(lsName),
		Message:  message,
	})
}

func documentSymbols(syms []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, s := range syms {
		ds := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toProtocolSymbolKind(s.Kind),
			Range:          symbolRange(s),
			SelectionRange: symbolRange(s),
		}
		if s.Detail != "" {
			ds.Detail = strPtr(s.Detail)
		}
		if len(s.Children) > 0 {
			ds.Children = documentSymbols(s.Children)
		}
		out = append(out, ds)
	}
	return out
}

// symbolRange spans the line a symbol starts on, from its first column.
// Nodes record where they start, not where they end.
func symbolRange(s Symbol) protocol.Range {
	start := toProtocolPosition(s.Pos.Line, s.Pos.Column)
	end := start
	end.Character += protocol.UInteger(len(s.Name))
	return protocol.Range{Start: start, End: end}
}

func toProtocolSymbolKind(kind SymbolKind) protocol.SymbolKind {
	switch kind {
	case SymbolConstant:
		return protocol.SymbolKindConstant
	case SymbolFunction:
		return protocol.SymbolKindFunction
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolConstructor:
		return protocol.SymbolKindConstructor
	case SymbolMethod:
		return protocol.SymbolKindMethod
	case SymbolField:
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindVariable
	}
}

// toProtocolPosition converts 1-based line and column to the 0-based LSP
// form.
func toProtocolPosition(line, column int) protocol.Position {
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	return protocol.Position{
		Line:      protocol.UInteger(line - 1),
		Character: protocol.UInteger(column - 1),
	}
}

// wordAt returns the identifier under the 0-based line and character.
func wordAt(content []byte, line, char int) string {
	lines := strings.Split(string(content), "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	text := lines[line]
	if char > len(text) {
		char = len(text)
	}
	isWord := func(c byte) bool {
		return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
	}
	start, end := char, char
	for start > 0 && isWord(text[start-1]) {
		start--
	}
	for end < len(text) && isWord(text[end]) {
		end++
	}
	word := text[start:end]
	if word == "" || parser.IsKeyword(word) {
		return ""
	}
	return word
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func severityPtr(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
