package pageobject

import (
	"path"
	"strings"

	"github.com/dhamidi/poresolver/jsast"
)

// ResolveImports builds references from a document's import bindings. Each
// binding whose source qualifies becomes one reference, in document order.
func ResolveImports(prog *jsast.Program, opts Options) []Reference {
	var refs []Reference
	seen := make(map[string]bool)
	for _, imp := range prog.Imports {
		if !opts.Qualifies(imp.Source) || seen[imp.Local] {
			continue
		}
		base := strings.TrimSuffix(path.Base(imp.Source), path.Ext(imp.Source))
		if base == "" || base == "." || base == "/" {
			continue
		}
		seen[imp.Local] = true

		ref := opts.reference(base, imp.Line)
		ref.Binding = imp.Local
		refs = append(refs, ref)
	}
	return refs
}
