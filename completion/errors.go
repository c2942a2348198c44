package completion

import (
	"github.com/cockroachdb/errors"

	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/pageobject"
)

const (
	KindMalformedReferenceLine = "malformed_reference_line"
	KindModuleNotFound         = "module_not_found"
	KindStructuralMismatch     = "structural_mismatch"
	KindFileNotFound           = "file_not_found"
	KindSyntaxError            = "syntax_error"
	KindOther                  = "other"
)

// Classify names the failure class of an error returned by Engine.
func Classify(err error) string {
	switch {
	case errors.Is(err, pageobject.ErrMalformedReferenceLine):
		return KindMalformedReferenceLine
	case errors.Is(err, pageobject.ErrModuleNotFound):
		return KindModuleNotFound
	case errors.Is(err, pageobject.ErrStructuralMismatch):
		return KindStructuralMismatch
	case errors.Is(err, ErrFileNotFound):
		return KindFileNotFound
	case errors.Is(err, jsast.ErrSyntax):
		return KindSyntaxError
	default:
		return KindOther
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch v := Strategy(s); v {
	case StrategyImports, StrategyLines:
		return v, nil
	}
	return "", errors.Newf("unknown resolver %q (want %q or %q)", s, StrategyImports, StrategyLines)
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch v := SortOrder(s); v {
	case SortLabel, SortSource:
		return v, nil
	}
	return "", errors.Newf("unknown sort order %q (want %q or %q)", s, SortLabel, SortSource)
}
