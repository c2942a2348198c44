package jsast

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var ErrSyntax = errors.New("syntax error")

// SyntaxError points at the first error or missing node tree-sitter recovered from.
type SyntaxError struct {
	Path string
	Position
	Near string
}

func (e *SyntaxError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s:%s: syntax error", e.Path, e.Position)
	}
	return fmt.Sprintf("%s:%s: syntax error near `%s`", e.Path, e.Position, e.Near)
}

func newSyntaxError(path string, pos Position, near string) error {
	return errors.Mark(&SyntaxError{Path: path, Position: pos, Near: near}, ErrSyntax)
}
