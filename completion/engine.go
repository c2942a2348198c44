package completion

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/metrics"
	"github.com/dhamidi/poresolver/pageobject"
)

var log = commonlog.GetLogger("poresolver.completion")

// Strategy selects how references are found in a document.
type Strategy string

const (
	StrategyImports Strategy = "imports"
	StrategyLines   Strategy = "lines"
)

type SortOrder string

const (
	SortLabel  SortOrder = "label"
	SortSource SortOrder = "source"
)

type Options struct {
	Objects  pageobject.Options // Root is taken from the Workspace on every request
	Resolver Strategy
	Token    pageobject.TokenMode
	Sort     SortOrder
}

func DefaultOptions() Options {
	return Options{
		Objects:  pageobject.DefaultOptions(""),
		Resolver: StrategyImports,
		Token:    pageobject.TokenIdentifier,
		Sort:     SortLabel,
	}
}

type Entry struct {
	Label string
	Kind  pageobject.Kind
}

type Result struct {
	Reference pageobject.Reference
	Entries   []Entry
}

// Engine answers completion requests. It keeps no state between requests.
type Engine struct {
	loader FileLoader
	parser SourceParser
	opts   Options
}

func NewEngine(loader FileLoader, parser SourceParser, opts Options) *Engine {
	return &Engine{loader: loader, parser: parser, opts: opts}
}

func (e *Engine) Options() Options {
	return e.opts
}

// Complete returns the members of the page object referenced in front of the
// cursor. A nil Result with a nil error means there is nothing to complete.
func (e *Engine) Complete(ctx context.Context, doc Document, ws Workspace) (*Result, error) {
	start := time.Now()
	res, err := e.complete(ctx, doc, ws)
	switch {
	case err != nil:
		metrics.RecordCompletion(metrics.OutcomeError, time.Since(start))
		metrics.RecordError(Classify(err))
	case res == nil:
		metrics.RecordCompletion(metrics.OutcomeMiss, time.Since(start))
	default:
		metrics.RecordCompletion(metrics.OutcomeHit, time.Since(start))
	}
	return res, err
}

func (e *Engine) complete(ctx context.Context, doc Document, ws Workspace) (*Result, error) {
	cursor := doc.Cursor()
	token, ok := pageobject.TokenBefore(doc.Line(cursor.Line), cursor.Character, e.opts.Token)
	if !ok {
		return nil, nil
	}

	root, _ := ws.Root()
	refs, err := e.References(ctx, doc.Text(), root)
	if err != nil {
		return nil, err
	}

	ref, ok := pageobject.Match(token, refs)
	if !ok {
		log.Debugf("token %q matches none of %d references", token, len(refs))
		return nil, nil
	}
	log.Debugf("token %q resolved to %s (%s)", token, ref.ModuleVariable, ref.FilePath)

	members, err := e.Members(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &Result{Reference: ref, Entries: e.entries(members)}, nil
}

// References lists the page object references of a document.
func (e *Engine) References(ctx context.Context, text string, root string) ([]pageobject.Reference, error) {
	opts := e.opts.Objects
	opts.Root = root

	switch e.opts.Resolver {
	case StrategyLines:
		return pageobject.ScanLines(text, opts)
	default:
		prog, err := e.parser.Parse(ctx, "", []byte(text))
		if prog == nil {
			return nil, errors.Wrap(err, "parse document")
		}
		if err != nil && !errors.Is(err, jsast.ErrSyntax) {
			return nil, errors.Wrap(err, "parse document")
		}
		return pageobject.ResolveImports(prog, opts), nil
	}
}

// Members loads, parses and extracts the page object behind ref.
func (e *Engine) Members(ctx context.Context, ref pageobject.Reference) ([]pageobject.Member, error) {
	prog, err := e.load(ctx, ref.FilePath)
	if err != nil {
		return nil, err
	}
	return pageobject.Extract(prog, ref.ModuleVariable)
}

// load reads and parses a file as one step; a syntax error fails the whole step.
func (e *Engine) load(ctx context.Context, path string) (*jsast.Program, error) {
	src, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	prog, err := e.parser.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

func (e *Engine) entries(members []pageobject.Member) []Entry {
	entries := make([]Entry, len(members))
	for i, m := range members {
		entries[i] = Entry{Label: m.Name, Kind: m.Kind}
	}
	if e.opts.Sort != SortSource {
		slices.SortStableFunc(entries, func(a, b Entry) int {
			return strings.Compare(a.Label, b.Label)
		})
	}
	return entries
}
