package lsp

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/poresolver/completion"
	"github.com/dhamidi/poresolver/config"
	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/pageobject"
)

const lsName = "poresolver"

var log = commonlog.GetLogger("poresolver.lsp")

type Server struct {
	version string
	viper   *viper.Viper
	parser  *jsast.Parser
	store   *Store
	handler protocol.Handler
	server  *server.Server

	mu       sync.RWMutex
	root     string
	cfg      *config.Config
	engine   *completion.Engine
	watcher  *Watcher
	notify   glsp.NotifyFunc
	reported map[string]bool
}

func NewServer(version string, v *viper.Viper) *Server {
	ls := &Server{
		version:  version,
		viper:    v,
		parser:   jsast.NewParser(),
		store:    NewStore(),
		reported: make(map[string]bool),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

// Run serves the protocol over stdio, tcp or websocket.
func (ls *Server) Run(transport, address string) error {
	switch transport {
	case "tcp":
		return ls.server.RunTCP(address)
	case "websocket":
		return ls.server.RunWebSocket(address)
	default:
		return ls.server.RunStdio()
	}
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := getRootDir()
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if len(params.WorkspaceFolders) > 0 {
		if path, err := uriToPath(params.WorkspaceFolders[0].URI); err == nil {
			rootDir = path
		}
	}

	cfg, err := config.Load(ls.viper, rootDir)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	ls.root = rootDir
	ls.cfg = cfg
	ls.engine = completion.NewEngine(&overlayLoader{store: ls.store, disk: completion.FSLoader{}}, ls.parser, cfg.Engine())
	ls.mu.Unlock()

	log.Infof("workspace %s, resolver %s, token %s, sort %s", rootDir, cfg.Resolver, cfg.Token, cfg.Sort)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{string(pageobject.Trigger)},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	cfg, root := ls.cfg, ls.root
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeInfo,
		Message: "Page object resolver enabled",
	})

	if cfg == nil || !cfg.LSP.Watch {
		return nil
	}

	w, err := NewWatcher(cfg.PageObjects(root), ls.parser, ls.publish)
	if err != nil {
		log.Warningf("not watching page objects: %s", err)
		return nil
	}
	if err := w.Scan(context.Background()); err != nil {
		log.Warningf("initial page object scan: %s", err)
	}
	w.Start()

	ls.mu.Lock()
	ls.watcher = w
	ls.mu.Unlock()
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.store.Update(path, []byte(params.TextDocument.Text), params.TextDocument.Version)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.store.Update(path, []byte(textChange.Text), params.TextDocument.Version)
		}
	}
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.store.Remove(path)
	return nil
}

func (ls *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		version := int32(0)
		if f := ls.store.Get(path); f != nil {
			version = f.Version
		}
		ls.store.Update(path, []byte(*params.Text), version)
	}
	return nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	ls.mu.RLock()
	engine, root := ls.engine, ls.root
	ls.mu.RUnlock()
	if engine == nil {
		return nil, nil
	}

	text, ok := ls.documentText(path)
	if !ok {
		return nil, nil
	}

	line := int(params.Position.Line)
	doc := completion.NewTextDocument(text, completion.Position{
		Line:      line,
		Character: byteOffset(lineOf([]byte(text), line), int(params.Position.Character)),
	})

	res, err := engine.Complete(context.Background(), doc, completion.StaticWorkspace(root))
	if err != nil {
		log.Errorf("completion in %s:%d: %s", path, line+1, err)
		target, diag := diagnosticFor(err, path, line, ls.source)
		ls.report(ctx.Notify, target, diag)
		return []protocol.CompletionItem{}, nil
	}
	if res == nil {
		return nil, nil
	}

	ls.clear(ctx.Notify, path, res.Reference.FilePath)
	return completionItems(res, engine.Options().Sort), nil
}

func (ls *Server) documentText(path string) (string, bool) {
	src := ls.source(path)
	if src == nil {
		return "", false
	}
	return string(src), true
}

// source prefers the open buffer over the file on disk.
func (ls *Server) source(path string) []byte {
	if f := ls.store.Get(path); f != nil {
		return f.Content
	}
	return diskSource(path)
}

// publish is the watcher's diagnostics sink.
func (ls *Server) publish(path string, diagnostics []protocol.Diagnostic) {
	ls.mu.RLock()
	notify := ls.notify
	ls.mu.RUnlock()
	if notify == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}

func (ls *Server) report(notify glsp.NotifyFunc, path string, diag protocol.Diagnostic) {
	ls.mu.Lock()
	ls.reported[path] = true
	ls.mu.Unlock()

	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: []protocol.Diagnostic{diag},
	})
}

// clear drops diagnostics that a failed completion published earlier.
func (ls *Server) clear(notify glsp.NotifyFunc, paths ...string) {
	for _, path := range paths {
		ls.mu.Lock()
		was := ls.reported[path]
		delete(ls.reported, path)
		ls.mu.Unlock()

		if was {
			notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
				URI:         pathToURI(path),
				Diagnostics: []protocol.Diagnostic{},
			})
		}
	}
}

func completionItems(res *completion.Result, order completion.SortOrder) []protocol.CompletionItem {
	items := make([]protocol.CompletionItem, 0, len(res.Entries))
	for i, e := range res.Entries {
		kind := toProtocolKind(e.Kind)
		detail := res.Reference.Alias + " " + e.Kind.String()
		item := protocol.CompletionItem{
			Label:  e.Label,
			Kind:   &kind,
			Detail: &detail,
		}
		if order == completion.SortSource {
			sortText := fmt.Sprintf("%04d", i)
			item.SortText = &sortText
		}
		items = append(items, item)
	}
	return items
}

func toProtocolKind(kind pageobject.Kind) protocol.CompletionItemKind {
	switch kind {
	case pageobject.KindMethod:
		return protocol.CompletionItemKindMethod
	case pageobject.KindField:
		return protocol.CompletionItemKindField
	default:
		return protocol.CompletionItemKindText
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

func getRootDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	return dir
}
