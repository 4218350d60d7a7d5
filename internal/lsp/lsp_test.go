package lsp

import (
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type published struct {
	method string
	params protocol.PublishDiagnosticsParams
}

// recorder returns a context whose notifications are appended to out.
func recorder(t *testing.T, out *[]published) *glsp.Context {
	t.Helper()
	return &glsp.Context{
		Notify: func(method string, params any) {
			p, ok := params.(protocol.PublishDiagnosticsParams)
			if !ok {
				t.Errorf("notification %s carries %T", method, params)
				return
			}
			*out = append(*out, published{method: method, params: p})
		},
	}
}

func TestDiagnose(t *testing.T) {
	type span struct {
		line, start, end uint32
		severity         protocol.DiagnosticSeverity
		message          string
	}
	tests := []struct {
		name string
		text string
		want []span
	}{
		{"clean", "x = 1; print(x);", nil},
		{"syntax error", "x = ;", []span{
			{0, 4, 5, protocol.DiagnosticSeverityError, `expected expression, got ";"`},
		}},
		{"warning on identifier", "print(yy);", []span{
			{0, 6, 8, protocol.DiagnosticSeverityWarning, `variable "yy" is used before assignment`},
		}},
		{"unused function", "x = 1;\nfunction unused() {}", []span{
			{1, 9, 15, protocol.DiagnosticSeverityWarning, `function "unused" is declared but never called`},
		}},
		{"unterminated string", "s = \"abc\nx = 1;", []span{
			{0, 4, 5, protocol.DiagnosticSeverityError, "unterminated string literal"},
		}},
		{"after astral character", "s = \"\U0001F600\"; x = ;", []span{
			{0, 14, 15, protocol.DiagnosticSeverityError, `expected expression, got ";"`},
		}},
		{"identifier after astral character", "s = \"\U0001F600\"; print(yy);", []span{
			{0, 16, 18, protocol.DiagnosticSeverityWarning, `variable "yy" is used before assignment`},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diagnose("test.sd", tt.text)
			if got == nil {
				t.Fatal("Diagnose returned nil")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d diagnostics, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, w := range tt.want {
				d := got[i]
				if d.Range.Start.Line != w.line || d.Range.End.Line != w.line ||
					d.Range.Start.Character != w.start || d.Range.End.Character != w.end {
					t.Errorf("range = %+v, want line %d chars %d-%d", d.Range, w.line, w.start, w.end)
				}
				if d.Severity == nil || *d.Severity != w.severity {
					t.Errorf("severity = %v, want %v", d.Severity, w.severity)
				}
				if d.Source == nil || *d.Source != "stardust" {
					t.Errorf("source = %v", d.Source)
				}
				if d.Message != w.message {
					t.Errorf("message = %q, want %q", d.Message, w.message)
				}
			}
		})
	}
}

func TestLineIndexCharacter(t *testing.T) {
	li := newLineIndex("ab\n\u00e9\U0001F600x\n")
	tests := []struct {
		line, col int
		want      uint32
	}{
		{1, 1, 0},
		{1, 3, 2},
		{2, 2, 1},
		{2, 3, 3},
		{2, 4, 4},
		{2, 6, 6},
		{3, 1, 0},
		{9, 3, 2},
	}
	for _, tt := range tests {
		if got := li.character(tt.line, tt.col); got != tt.want {
			t.Errorf("character(%d, %d) = %d, want %d", tt.line, tt.col, got, tt.want)
		}
	}
}

func TestDocumentLifecycle(t *testing.T) {
	const uri = "file:///work/main.sd"
	s := NewServer("test")
	var sent []published
	ctx := recorder(t, &sent)

	err := s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "stardust", Version: 1, Text: "x = ;"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || sent[0].method != protocol.ServerTextDocumentPublishDiagnostics {
		t.Fatalf("open published %+v", sent)
	}
	if sent[0].params.URI != uri || len(sent[0].params.Diagnostics) != 1 {
		t.Errorf("open diagnostics = %+v", sent[0].params)
	}

	err = s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "x = 1;"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 || len(sent[1].params.Diagnostics) != 0 {
		t.Fatalf("change published %+v", sent)
	}
	if text, _ := s.Document(uri); text != "x = 1;" {
		t.Errorf("document text = %q", text)
	}

	// Save without text re-checks the stored document.
	err = s.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 3 || len(sent[2].params.Diagnostics) != 0 {
		t.Fatalf("save published %+v", sent)
	}

	err = s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 4 || sent[3].params.Diagnostics == nil || len(sent[3].params.Diagnostics) != 0 {
		t.Fatalf("close published %+v", sent)
	}
	if _, ok := s.Document(uri); ok {
		t.Error("document still tracked after close")
	}
}

func TestSaveWithText(t *testing.T) {
	s := NewServer("test")
	var sent []published
	text := "print(z);"
	err := s.textDocumentDidSave(recorder(t, &sent), &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "untitled:1"},
		Text:         &text,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 1 || len(sent[0].params.Diagnostics) != 1 {
		t.Fatalf("save published %+v", sent)
	}
}

func TestIgnoresIncrementalChanges(t *testing.T) {
	s := NewServer("test")
	var sent []published
	err := s.textDocumentDidChange(recorder(t, &sent), &protocol.DidChangeTextDocumentParams{
		ContentChanges: []any{protocol.TextDocumentContentChangeEvent{Text: "x"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 0 {
		t.Errorf("incremental change published %+v", sent)
	}
}

func TestInitialize(t *testing.T) {
	s := NewServer("1.2.3")
	res, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	if err != nil {
		t.Fatal(err)
	}
	result, ok := res.(protocol.InitializeResult)
	if !ok {
		t.Fatalf("initialize returned %T", res)
	}
	if result.ServerInfo == nil || result.ServerInfo.Name != "stardust" || *result.ServerInfo.Version != "1.2.3" {
		t.Errorf("server info = %+v", result.ServerInfo)
	}
	sync, ok := result.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	if !ok {
		t.Fatalf("text document sync = %T", result.Capabilities.TextDocumentSync)
	}
	if sync.Change == nil || *sync.Change != protocol.TextDocumentSyncKindFull {
		t.Errorf("change kind = %v, want full", sync.Change)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct{ uri, want string }{
		{"file:///home/u/a.sd", "/home/u/a.sd"},
		{"file:///home/u/dir%20x/../b.sd", "/home/u/b.sd"},
		{"untitled:1", "untitled:1"},
	}
	for _, tt := range tests {
		if got := uriToPath(tt.uri); got != tt.want {
			t.Errorf("uriToPath(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}
