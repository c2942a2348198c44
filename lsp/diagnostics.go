package lsp

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/poresolver/completion"
	"github.com/dhamidi/poresolver/jsast"
	"github.com/dhamidi/poresolver/pageobject"
)

const diagnosticSource = "poresolver"

// locate finds the file and position an error points at, if it carries one.
func locate(err error) (string, jsast.Position, bool) {
	var perr *pageobject.Error
	if errors.As(err, &perr) {
		return perr.Path, perr.Pos, true
	}
	var serr *jsast.SyntaxError
	if errors.As(err, &serr) {
		return serr.Path, serr.Position, true
	}
	return "", jsast.Position{}, false
}

// sourceFunc returns the current text of a file, or nil if it cannot be read.
type sourceFunc func(path string) []byte

// diagnosticFor converts an error into a diagnostic and the path it belongs
// to. Errors without a location land on fallbackPath at fallbackLine (0-based).
// Byte columns are converted to UTF-16 using the text from source.
func diagnosticFor(err error, fallbackPath string, fallbackLine int, source sourceFunc) (string, protocol.Diagnostic) {
	path := fallbackPath
	line, column := fallbackLine, 0
	if p, pos, ok := locate(err); ok {
		if p != "" {
			path = p
		}
		line, column = max(pos.Line-1, 0), pos.Column
		if column > 0 && source != nil {
			if src := source(path); src != nil {
				column = utf16Offset(lineOf(src, line), column)
			}
		}
	}

	severity := protocol.DiagnosticSeverityError
	sourceName := diagnosticSource
	code := protocol.IntegerOrString{Value: completion.Classify(err)}
	start := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)}
	end := protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column + 1)}

	return path, protocol.Diagnostic{
		Range:    protocol.Range{Start: start, End: end},
		Severity: &severity,
		Code:     &code,
		Source:   &sourceName,
		Message:  err.Error(),
	}
}

// diskSource reads files as they are on disk.
func diskSource(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) protocol.DocumentUri {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
