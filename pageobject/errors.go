package pageobject

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/dhamidi/poresolver/jsast"
)

var (
	ErrMalformedReferenceLine = errors.New("malformed reference line")
	ErrModuleNotFound         = errors.New("module not found")
	ErrStructuralMismatch     = errors.New("structural mismatch")
)

// Error locates a failure inside a document or page object file. It is
// always marked with one of the sentinels above.
type Error struct {
	Path string
	Pos  jsast.Position
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Pos, e.Msg)
}

func newError(kind error, path string, pos jsast.Position, format string, args ...any) error {
	return errors.Mark(&Error{Path: path, Pos: pos, Msg: fmt.Sprintf(format, args...)}, kind)
}
