package lsp

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/poresolver/config"
)

const loginPage = `const __loginPage__ = {
  name: 'Login',
  submit: {
    click: function () {},
    label: 'Sign in',
  },
};
`

const cartPage = `const __cartPage__ = {
  name: 'Cart',
  items: 'none',
};
`

// recorder captures server notifications.
type recorder struct {
	mu            sync.Mutex
	messages      []protocol.ShowMessageParams
	diagnostics   map[protocol.DocumentUri][]protocol.Diagnostic
	notifications int
}

func newRecorder() *recorder {
	return &recorder{diagnostics: make(map[protocol.DocumentUri][]protocol.Diagnostic)}
}

func (r *recorder) notify(method string, params any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications++
	switch p := params.(type) {
	case protocol.ShowMessageParams:
		r.messages = append(r.messages, p)
	case protocol.PublishDiagnosticsParams:
		r.diagnostics[p.URI] = p.Diagnostics
	}
}

func (r *recorder) diagnosticsFor(path string) ([]protocol.Diagnostic, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.diagnostics[pathToURI(path)]
	return d, ok
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "objects")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "login-page.js"), []byte(loginPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart-page.js"), []byte(cartPage), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".poresolver.yaml"), []byte("lsp:\n  watch: false\n"), 0o644))
	return root
}

func startServer(t *testing.T, root string) (*Server, *glsp.Context, *recorder) {
	t.Helper()
	ls := NewServer("test", config.New())
	rec := newRecorder()
	ctx := &glsp.Context{Notify: rec.notify}

	result, err := ls.initialize(ctx, &protocol.InitializeParams{RootPath: &root})
	require.NoError(t, err)

	initResult, ok := result.(protocol.InitializeResult)
	require.True(t, ok)
	require.NotNil(t, initResult.Capabilities.CompletionProvider)
	assert.Equal(t, []string{"."}, initResult.Capabilities.CompletionProvider.TriggerCharacters)

	require.NoError(t, ls.initialized(ctx, &protocol.InitializedParams{}))
	t.Cleanup(func() { _ = ls.shutdown(ctx) })
	return ls, ctx, rec
}

func openDocument(t *testing.T, ls *Server, ctx *glsp.Context, path, text string) {
	t.Helper()
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        pathToURI(path),
			LanguageID: "javascript",
			Version:    1,
			Text:       text,
		},
	}))
}

func complete(t *testing.T, ls *Server, ctx *glsp.Context, path string, line, character int) any {
	t.Helper()
	result, err := ls.textDocumentCompletion(ctx, &protocol.CompletionParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
			Position:     protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(character)},
		},
	})
	require.NoError(t, err)
	return result
}

func TestServer_InitializedShowsMessage(t *testing.T) {
	_, _, rec := startServer(t, setupWorkspace(t))

	require.Len(t, rec.messages, 1)
	assert.Equal(t, protocol.MessageTypeInfo, rec.messages[0].Type)
	assert.Equal(t, "Page object resolver enabled", rec.messages[0].Message)
}

func TestServer_Completion(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, _ := startServer(t, root)

	spec := filepath.Join(root, "login.spec.js")
	openDocument(t, ls, ctx, spec, "import Login from '../objects/login-page';\n\nLogin.")

	result := complete(t, ls, ctx, spec, 2, 6)
	items, ok := result.([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 3)

	var labels []string
	for _, item := range items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"click", "label", "name"}, labels)

	require.NotNil(t, items[0].Kind)
	assert.Equal(t, protocol.CompletionItemKindMethod, *items[0].Kind)
	require.NotNil(t, items[1].Kind)
	assert.Equal(t, protocol.CompletionItemKindField, *items[1].Kind)
	require.NotNil(t, items[0].Detail)
	assert.Equal(t, "LoginPage method", *items[0].Detail)
	assert.Nil(t, items[0].SortText)
}

func TestServer_CompletionUsesOpenBuffers(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, _ := startServer(t, root)

	object := filepath.Join(root, "objects", "login-page.js")
	openDocument(t, ls, ctx, object, "const __loginPage__ = { name: 'Login', form: { reset() {} } };\n")

	spec := filepath.Join(root, "login.spec.js")
	openDocument(t, ls, ctx, spec, "import Login from '../objects/login-page';\nLogin.")

	items, ok := complete(t, ls, ctx, spec, 1, 6).([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "name", items[0].Label)
	assert.Equal(t, "reset", items[1].Label)
}

func TestServer_CompletionNothingToOffer(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, rec := startServer(t, root)

	spec := filepath.Join(root, "plain.spec.js")
	openDocument(t, ls, ctx, spec, "const x = 1;\nx.")

	assert.Nil(t, complete(t, ls, ctx, spec, 1, 2))
	assert.Empty(t, rec.diagnostics)
}

func TestServer_CompletionPublishesDiagnostics(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, rec := startServer(t, root)

	spec := filepath.Join(root, "cart.spec.js")
	openDocument(t, ls, ctx, spec, "import Cart from '../objects/cart-page';\nCart.")

	items, ok := complete(t, ls, ctx, spec, 1, 5).([]protocol.CompletionItem)
	require.True(t, ok)
	assert.Empty(t, items)

	cart := filepath.Join(root, "objects", "cart-page.js")
	diags, ok := rec.diagnosticsFor(cart)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.UInteger(2), diags[0].Range.Start.Line)
	require.NotNil(t, diags[0].Code)
	assert.Equal(t, "structural_mismatch", diags[0].Code.Value)
	require.NotNil(t, diags[0].Source)
	assert.Equal(t, diagnosticSource, *diags[0].Source)

	// Fixing the object in the editor clears the diagnostic on the next completion.
	openDocument(t, ls, ctx, cart, "const __cartPage__ = { name: 'Cart', items: { first() {} } };\n")
	items, ok = complete(t, ls, ctx, spec, 1, 5).([]protocol.CompletionItem)
	require.True(t, ok)
	assert.Len(t, items, 2)

	diags, ok = rec.diagnosticsFor(cart)
	require.True(t, ok)
	assert.Empty(t, diags)
}

func TestServer_CompletionSourceOrder(t *testing.T) {
	root := setupWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".poresolver.yaml"), []byte("sort: source\nlsp:\n  watch: false\n"), 0o644))
	ls, ctx, _ := startServer(t, root)

	spec := filepath.Join(root, "login.spec.js")
	openDocument(t, ls, ctx, spec, "import Login from '../objects/login-page';\nLogin.")

	items, ok := complete(t, ls, ctx, spec, 1, 6).([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, "name", items[0].Label)
	require.NotNil(t, items[2].SortText)
	assert.Equal(t, "0002", *items[2].SortText)
}

func TestServer_DocumentLifecycle(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, _ := startServer(t, root)

	path := filepath.Join(root, "a.spec.js")
	openDocument(t, ls, ctx, path, "one")

	require.NoError(t, ls.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "two"}},
	}))
	f := ls.store.Get(path)
	require.NotNil(t, f)
	assert.Equal(t, "two", string(f.Content))
	assert.Equal(t, int32(2), f.Version)

	text := "three"
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
		Text:         &text,
	}))
	f = ls.store.Get(path)
	require.NotNil(t, f)
	assert.Equal(t, "three", string(f.Content))
	assert.Equal(t, int32(2), f.Version)

	require.NoError(t, ls.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: pathToURI(path)},
	}))
	assert.Nil(t, ls.store.Get(path))
}

func TestURIRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects", "login page.js")
	got, err := uriToPath(pathToURI(path))
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestServer_CompletionAfterNonASCII(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, _ := startServer(t, root)

	spec := filepath.Join(root, "login.spec.js")
	openDocument(t, ls, ctx, spec, "import Login from '../objects/login-page';\nt('é'); Login.")

	// 14 UTF-16 code units, 15 bytes.
	items, ok := complete(t, ls, ctx, spec, 1, 14).([]protocol.CompletionItem)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, "click", items[0].Label)
}

func TestServer_DiagnosticColumnInUTF16(t *testing.T) {
	root := setupWorkspace(t)
	ls, ctx, rec := startServer(t, root)

	cart := filepath.Join(root, "objects", "cart-page.js")
	openDocument(t, ls, ctx, cart, "const __cartPage__ = { name: 'Ünï', items: 'none' };\n")

	spec := filepath.Join(root, "cart.spec.js")
	openDocument(t, ls, ctx, spec, "import Cart from '../objects/cart-page';\nCart.")
	complete(t, ls, ctx, spec, 1, 5)

	diags, ok := rec.diagnosticsFor(cart)
	require.True(t, ok)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.UInteger(0), diags[0].Range.Start.Line)
	assert.Equal(t, protocol.UInteger(36), diags[0].Range.Start.Character)
}
