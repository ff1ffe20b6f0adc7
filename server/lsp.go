package server

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/sb/SmallBasic-Online-sub000/compiler"
	"github.com/sb/SmallBasic-Online-sub000/diagnostics"
	"github.com/sb/SmallBasic-Online-sub000/vm"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "sbasic-lsp"

var log = commonlog.GetLogger("sbasic.server")

// LspServer publishes compile diagnostics and answers editor queries for
// SmallBasic documents. Every change recompiles the whole document.
type LspServer struct {
	mu   sync.Mutex
	docs map[string]*compiler.Compilation // URI → latest compilation

	libraries *vm.Libraries

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server.
func NewLSP(version string) *LspServer {
	s := &LspServer{
		docs:      make(map[string]*compiler.Compilation),
		libraries: compiler.Catalog(),
		version:   version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("SmallBasic LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *LspServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	c := compiler.Compile(text)

	s.mu.Lock()
	s.docs[string(uri)] = c
	s.mu.Unlock()

	log.Debugf("%s: %d diagnostics", uri, len(c.Diagnostics()))
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toProtocolDiagnostics(c.Diagnostics()),
	})
}

func (s *LspServer) document(uri protocol.DocumentUri) (*compiler.Compilation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.docs[string(uri)]
	return c, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	c, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return s.complete(c, params.Position), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	c, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return s.hover(c, params.Position), nil
}

func (s *LspServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	c, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	locations := definition(c, params.TextDocument.URI, params.Position)
	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	c, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	return references(c, params.TextDocument.URI, params.Position), nil
}

// --- Compilation-backed logic ---

func (s *LspServer) complete(c *compiler.Compilation, pos protocol.Position) []protocol.CompletionItem {
	library, prefix := extractMemberPrefix(c.Text(), pos)
	lowerPrefix := strings.ToLower(prefix)

	var items []protocol.CompletionItem
	add := func(label, detail string, kind protocol.CompletionItemKind) {
		if !strings.HasPrefix(strings.ToLower(label), lowerPrefix) {
			return
		}
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &label,
		})
	}

	if library != "" {
		lib, ok := s.libraries.Lookup(library)
		if !ok {
			return nil
		}
		for _, name := range lib.MemberNames() {
			detail, kind := memberDetail(lib, name)
			add(name, detail, kind)
		}
		return items
	}

	if prefix == "" {
		return nil
	}
	for _, name := range s.libraries.Names() {
		add(name, "library", protocol.CompletionItemKindClass)
	}
	for kind := compiler.TokenIf; kind <= compiler.TokenOr; kind++ {
		add(kind.String(), "keyword", protocol.CompletionItemKindKeyword)
	}
	for _, sub := range c.Syntax().SubModules {
		if !sub.Sub.Name.Missing {
			add(sub.Sub.Name.Text, "sub-module", protocol.CompletionItemKindFunction)
		}
	}
	for _, name := range variableNames(c) {
		add(name, "variable", protocol.CompletionItemKindVariable)
	}

	// Limit results
	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	return items
}

func (s *LspServer) hover(c *compiler.Compilation, pos protocol.Position) *protocol.Hover {
	library, word := extractMemberWord(c.Text(), pos)
	if word == "" {
		return nil
	}

	var b strings.Builder
	switch {
	case library != "":
		lib, ok := s.libraries.Lookup(library)
		if !ok {
			return nil
		}
		switch {
		case lib.Methods[word] != nil:
			m := lib.Methods[word]
			fmt.Fprintf(&b, "**%s.%s(%s)**", lib.Name, word, strings.Join(m.Parameters, ", "))
			if m.ReturnsValue {
				b.WriteString(" returns a value")
			}
			fmt.Fprintf(&b, "\n\n%s", m.Description)
		case lib.Properties[word] != nil:
			p := lib.Properties[word]
			fmt.Fprintf(&b, "**%s.%s** property", lib.Name, word)
			if !p.HasSetter() {
				b.WriteString(" (read-only)")
			}
			fmt.Fprintf(&b, "\n\n%s", p.Description)
		case lib.Events[word] != nil:
			fmt.Fprintf(&b, "**%s.%s** event\n\n%s", lib.Name, word, lib.Events[word].Description)
		default:
			return nil
		}

	default:
		if lib, ok := s.libraries.Lookup(word); ok {
			fmt.Fprintf(&b, "**%s**\n\n%s\n\n", lib.Name, lib.Description)
			fmt.Fprintf(&b, "%d methods, %d properties, %d events", len(lib.Methods), len(lib.Properties), len(lib.Events))
			break
		}
		if sub := findSubModule(c, word); sub != nil {
			fmt.Fprintf(&b, "**Sub %s**\n\nDeclared on line %d", word, sub.Sub.Range().Line+1)
			break
		}
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

// definition finds the Sub declaration or label named under the cursor.
func definition(c *compiler.Compilation, uri protocol.DocumentUri, pos protocol.Position) []protocol.Location {
	_, word := extractMemberWord(c.Text(), pos)
	if word == "" {
		return nil
	}

	if sub := findSubModule(c, word); sub != nil {
		return []protocol.Location{{URI: uri, Range: toProtocolRange(sub.Sub.Name.Range)}}
	}

	var locations []protocol.Location
	for _, tokens := range c.Tokens() {
		if len(tokens) >= 2 && tokens[0].Kind == compiler.TokenIdentifier &&
			tokens[0].Text == word && tokens[1].Kind == compiler.TokenColon {
			locations = append(locations, protocol.Location{URI: uri, Range: toProtocolRange(tokens[0].Range)})
		}
	}
	return locations
}

// references lists every identifier token with the name under the cursor.
// Library members are skipped so that a variable named like a member does
// not match it.
func references(c *compiler.Compilation, uri protocol.DocumentUri, pos protocol.Position) []protocol.Location {
	library, word := extractMemberWord(c.Text(), pos)
	if word == "" || library != "" {
		return nil
	}

	var locations []protocol.Location
	for _, tokens := range c.Tokens() {
		for i, tok := range tokens {
			if tok.Kind != compiler.TokenIdentifier || tok.Text != word {
				continue
			}
			if i > 0 && tokens[i-1].Kind == compiler.TokenDot {
				continue
			}
			locations = append(locations, protocol.Location{URI: uri, Range: toProtocolRange(tok.Range)})
		}
	}
	return locations
}

func findSubModule(c *compiler.Compilation, name string) *compiler.SubModuleDeclaration {
	for _, sub := range c.Syntax().SubModules {
		if !sub.Sub.Name.Missing && sub.Sub.Name.Text == name {
			return sub
		}
	}
	return nil
}

// variableNames returns the names assigned anywhere in the program, sorted.
func variableNames(c *compiler.Compilation) []string {
	seen := make(map[string]bool)
	var walk func([]compiler.BoundStatement)
	walk = func(statements []compiler.BoundStatement) {
		for _, stmt := range statements {
			switch s := stmt.(type) {
			case *compiler.BoundVariableAssignmentStatement:
				seen[s.Variable] = true
			case *compiler.BoundArrayAssignmentStatement:
				seen[s.Array.Name] = true
			case *compiler.BoundForStatement:
				seen[s.Variable] = true
				walk(s.Body)
			case *compiler.BoundWhileStatement:
				walk(s.Body)
			case *compiler.BoundIfStatement:
				walk(s.If.Body)
				for _, part := range s.ElseIfs {
					walk(part.Body)
				}
				walk(s.Else)
			}
		}
	}

	bound := c.Bound()
	walk(bound.MainModule)
	for _, name := range bound.SubModuleOrder {
		walk(bound.SubModules[name])
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func memberDetail(lib *vm.Library, name string) (string, protocol.CompletionItemKind) {
	if m, ok := lib.Methods[name]; ok {
		return fmt.Sprintf("%s(%s)", name, strings.Join(m.Parameters, ", ")), protocol.CompletionItemKindMethod
	}
	if _, ok := lib.Properties[name]; ok {
		return "property", protocol.CompletionItemKindProperty
	}
	return "event", protocol.CompletionItemKindEvent
}

// --- Diagnostics ---

func toProtocolDiagnostics(diags []diagnostics.Diagnostic) []protocol.Diagnostic {
	result := make([]protocol.Diagnostic, 0, len(diags))
	severity := protocol.DiagnosticSeverityError
	source := lspName
	for _, d := range diags {
		result = append(result, protocol.Diagnostic{
			Range:    toProtocolRange(d.Range),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Code.String()},
			Source:   &source,
			Message:  d.String(),
		})
	}
	return result
}

func toProtocolRange(r diagnostics.Range) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(r.Line), Character: protocol.UInteger(r.Start)},
		End:   protocol.Position{Line: protocol.UInteger(r.Line), Character: protocol.UInteger(r.End)},
	}
}

// --- Text extraction helpers ---

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := compiler.SplitLines(text)
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := strings.TrimRight(lines[pos.Line], "\r")
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}
	return line, col, true
}

func isWordChar(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}

// qualifier returns the identifier before a dot that ends at start.
func qualifier(line string, start int) string {
	if start == 0 || line[start-1] != '.' {
		return ""
	}
	end := start - 1
	begin := end
	for begin > 0 && isWordChar(line[begin-1]) {
		begin--
	}
	return line[begin:end]
}

// extractMemberPrefix returns the word fragment before the cursor for
// completion, and the library name when the fragment follows "Library.".
func extractMemberPrefix(text string, pos protocol.Position) (string, string) {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return "", ""
	}

	// Walk backwards from cursor to find the start of the identifier
	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	return qualifier(line, start), line[start:col]
}

// extractMemberWord returns the full identifier under the cursor, and the
// library name when it is a member access.
func extractMemberWord(text string, pos protocol.Position) (string, string) {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return "", ""
	}

	start := col
	for start > 0 && isWordChar(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isWordChar(line[end]) {
		end++
	}

	if start == end {
		return "", ""
	}
	return qualifier(line, start), line[start:end]
}

func boolPtr(b bool) *bool {
	return &b
}
