package jsast

import sitter "github.com/smacker/go-tree-sitter"

// collectImports walks the whole tree, including ERROR nodes, so bindings
// survive in buffers that do not currently parse.
func (c *converter) collectImports(n *sitter.Node, out *[]Import) {
	switch n.Type() {
	case "import_statement":
		c.importStatement(n, out)
		return
	case "variable_declarator":
		c.requireDeclarator(n, out)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c.collectImports(n.NamedChild(i), out)
	}
}

func (c *converter) importStatement(n *sitter.Node, out *[]Import) {
	source := n.ChildByFieldName("source")
	var clause *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "string":
			if source == nil {
				source = child
			}
		case "import_clause":
			clause = child
		}
	}
	if source == nil || clause == nil {
		return
	}
	src := c.stringContent(source)

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			*out = append(*out, Import{
				Position: position(child),
				Local:    c.text(child),
				Imported: "default",
				Source:   src,
			})
		case "namespace_import":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				if id := child.NamedChild(j); id.Type() == "identifier" {
					*out = append(*out, Import{
						Position: position(id),
						Local:    c.text(id),
						Imported: "*",
						Source:   src,
					})
				}
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "import_specifier" {
					continue
				}
				name := spec.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := name
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					local = alias
				}
				*out = append(*out, Import{
					Position: position(spec),
					Local:    c.text(local),
					Imported: c.text(name),
					Source:   src,
				})
			}
		}
	}
}

// requireDeclarator handles `const X = require('...')` and
// `const { X, Y: Z } = require('...')`.
func (c *converter) requireDeclarator(n *sitter.Node, out *[]Import) {
	value := n.ChildByFieldName("value")
	if value == nil || value.Type() != "call_expression" {
		return
	}
	fn := value.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" || c.text(fn) != "require" {
		return
	}
	args := value.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 || args.NamedChild(0).Type() != "string" {
		return
	}
	src := c.stringContent(args.NamedChild(0))

	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	switch name.Type() {
	case "identifier":
		*out = append(*out, Import{
			Position: position(name),
			Local:    c.text(name),
			Imported: "default",
			Source:   src,
			Require:  true,
		})
	case "object_pattern":
		for i := 0; i < int(name.NamedChildCount()); i++ {
			prop := name.NamedChild(i)
			switch prop.Type() {
			case "shorthand_property_identifier_pattern":
				*out = append(*out, Import{
					Position: position(prop),
					Local:    c.text(prop),
					Imported: c.text(prop),
					Source:   src,
					Require:  true,
				})
			case "pair_pattern":
				key, ok := c.key(prop.ChildByFieldName("key"))
				value := prop.ChildByFieldName("value")
				if !ok || value == nil || value.Type() != "identifier" {
					continue
				}
				*out = append(*out, Import{
					Position: position(prop),
					Local:    c.text(value),
					Imported: key,
					Source:   src,
					Require:  true,
				})
			}
		}
	}
}
