package pageobject

import (
	"path/filepath"
	"strings"
)

// Reference maps an identifier used in a document to the page object file
// that defines it.
type Reference struct {
	Name
	FilePath string
	Binding  string // local import name; empty for the line heuristic
	Line     int
}

// Options describe where page objects live and how imports of them look.
type Options struct {
	Root            string
	ObjectsDir      string
	Marker          string
	CompositeMarker string
	Extension       string
}

func DefaultOptions(root string) Options {
	return Options{
		Root:            root,
		ObjectsDir:      "objects",
		Marker:          "objects/",
		CompositeMarker: "composite",
		Extension:       ".js",
	}
}

// Qualifies reports whether an import source names a supported page object.
func (o Options) Qualifies(source string) bool {
	if !strings.Contains(source, o.Marker) {
		return false
	}
	return o.CompositeMarker == "" || !strings.Contains(source, o.CompositeMarker)
}

// Path is the on-disk location of the page object with the given base name.
func (o Options) Path(base string) string {
	return filepath.Join(o.Root, o.ObjectsDir, base+o.Extension)
}

func (o Options) reference(base string, line int) Reference {
	return Reference{
		Name:     NameOf(base),
		FilePath: o.Path(base),
		Line:     line,
	}
}
