package jsast

import "fmt"

// Position is a 1-based line and 0-based byte column.
type Position struct {
	Line   int
	Column int
}

func (p Position) Pos() Position {
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Node interface {
	Pos() Position
	node()
}

// Declaration is one declarator of a top-level variable statement.
type Declaration struct {
	Position
	Kind     string // const, let or var
	Name     string
	Exported bool
	Init     Node // nil when the declarator has no initializer
}

type Object struct {
	Position
	Properties []Node
}

// Field is a key/value pair. Value is nil for shorthand properties.
type Field struct {
	Position
	Key   string
	Value Node
}

type Method struct {
	Position
	Key string
}

type Function struct {
	Position
	Arrow bool
}

// Other is any node the model does not distinguish further.
type Other struct {
	Position
	Type string
	Text string
}

func (*Declaration) node() {}
func (*Object) node()      {}
func (*Field) node()       {}
func (*Method) node()      {}
func (*Function) node()    {}
func (*Other) node()       {}

// Import is a single local binding introduced by an import statement or a
// require() call.
type Import struct {
	Position
	Local    string
	Imported string // "default", "*" or the exported name
	Source   string
	Require  bool
}

type Program struct {
	Path    string
	Body    []Node
	Imports []Import
}

// Declarations returns the top-level declarations in source order.
func (p *Program) Declarations() []*Declaration {
	var decls []*Declaration
	for _, n := range p.Body {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Describe names a node the way error messages refer to it.
func Describe(n Node) string {
	switch n := n.(type) {
	case nil:
		return "nothing"
	case *Declaration:
		return "declaration " + n.Name
	case *Object:
		return "an object literal"
	case *Field:
		return "property " + n.Key
	case *Method:
		return "method " + n.Key
	case *Function:
		if n.Arrow {
			return "an arrow function"
		}
		return "a function"
	case *Other:
		if n.Text != "" {
			return fmt.Sprintf("%s `%s`", n.Type, n.Text)
		}
		return n.Type
	default:
		return fmt.Sprintf("%T", n)
	}
}
