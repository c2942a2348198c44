package pageobject

import (
	"strings"
	"unicode"

	"github.com/dhamidi/poresolver/jsast"
)

// ScanLines finds references with the line heuristic: a line that contains
// both braces and the objects marker, and not the composite marker, imports
// the page object named by its last path segment. Only one reference is taken
// per line.
func ScanLines(text string, opts Options) ([]Reference, error) {
	var refs []Reference
	for i, line := range strings.Split(text, "\n") {
		if !lineQualifies(line, opts) {
			continue
		}
		base, ok := baseFromLine(line, opts.Extension)
		if !ok {
			return refs, newError(ErrMalformedReferenceLine, "", jsast.Position{Line: i + 1},
				"cannot derive a page object name from %q", strings.TrimSpace(line))
		}
		refs = append(refs, opts.reference(base, i+1))
	}
	return refs, nil
}

func lineQualifies(line string, opts Options) bool {
	if !strings.Contains(line, "{") || !strings.Contains(line, "}") {
		return false
	}
	if !strings.Contains(line, opts.Marker) {
		return false
	}
	return opts.CompositeMarker == "" || !strings.Contains(line, opts.CompositeMarker)
}

// baseFromLine takes the text after the last slash and drops the closing
// quote, the statement terminator and the file extension.
func baseFromLine(line, ext string) (string, bool) {
	i := strings.LastIndex(line, "/")
	if i < 0 {
		return "", false
	}
	base := strings.TrimRightFunc(line[i+1:], unicode.IsSpace)
	base = strings.TrimSuffix(base, ";")
	base = strings.TrimRight(base, "'\"`")
	if ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || strings.ContainsAny(base, "'\"`;{} \t") {
		return "", false
	}
	return base, true
}
