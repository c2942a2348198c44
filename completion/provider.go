package completion

import (
	"context"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/poresolver/jsast"
)

var ErrFileNotFound = errors.New("file not found")

// Position is a 0-based line and character offset, as editors report cursors.
type Position struct {
	Line      int
	Character int
}

// Document is read-only access to the buffer being edited.
type Document interface {
	Text() string
	Line(n int) string
	Cursor() Position
}

type Workspace interface {
	Root() (string, bool)
}

type FileLoader interface {
	Load(ctx context.Context, path string) ([]byte, error)
}

// SourceParser may return a partial Program alongside an error marked
// jsast.ErrSyntax.
type SourceParser interface {
	Parse(ctx context.Context, path string, src []byte) (*jsast.Program, error)
}

// FSLoader reads page object files from disk.
type FSLoader struct{}

func (FSLoader) Load(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Mark(errors.Wrapf(err, "load %s", path), ErrFileNotFound)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return data, nil
}

// TextDocument is a Document over an in-memory buffer.
type TextDocument struct {
	text   string
	lines  []string
	cursor Position
}

func NewTextDocument(text string, cursor Position) *TextDocument {
	return &TextDocument{
		text:   text,
		lines:  strings.Split(text, "\n"),
		cursor: cursor,
	}
}

func (d *TextDocument) Text() string {
	return d.text
}

func (d *TextDocument) Line(n int) string {
	if n < 0 || n >= len(d.lines) {
		return ""
	}
	return strings.TrimSuffix(d.lines[n], "\r")
}

func (d *TextDocument) Cursor() Position {
	return d.cursor
}

// StaticWorkspace is a Workspace with a fixed root; the empty string means none.
type StaticWorkspace string

func (w StaticWorkspace) Root() (string, bool) {
	return string(w), w != ""
}
