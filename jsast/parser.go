package jsast

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

const (
	defaultMaxFileSize = 4 * 1024 * 1024
	maxSnippet         = 40 // runes of source quoted in syntax errors
)

var ErrFileTooLarge = errors.New("file too large")

// Parser is safe for concurrent use; each Parse call creates its own
// tree-sitter parser.
type Parser struct {
	maxFileSize int
}

type Option func(*Parser)

func WithMaxFileSize(n int) Option {
	return func(p *Parser) {
		p.maxFileSize = n
	}
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{maxFileSize: defaultMaxFileSize}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts src into a Program. On syntax errors the partial Program is
// returned together with an error marked ErrSyntax.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if len(src) > p.maxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "parse %s: %d bytes", path, len(src))
	}
	if !utf8.Valid(src) {
		return nil, newSyntaxError(path, Position{Line: 1}, "invalid UTF-8")
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Wrapf(err, "tree-sitter parse %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := &converter{src: src}

	prog := &Program{Path: path}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		prog.Body = append(prog.Body, c.statement(root.NamedChild(i))...)
	}
	c.collectImports(root, &prog.Imports)

	if root.HasError() {
		bad := firstError(root)
		if bad == nil {
			return prog, newSyntaxError(path, Position{Line: 1}, "")
		}
		return prog, newSyntaxError(path, position(bad), c.snippet(bad))
	}
	return prog, nil
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

// snippet is the first line of a node's text, shortened for messages.
func (c *converter) snippet(n *sitter.Node) string {
	return shorten(c.text(n))
}

// shorten keeps the first line of s, cut to maxSnippet runes.
func shorten(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxSnippet {
		s = string([]rune(s)[:maxSnippet]) + "..."
	}
	return s
}

func position(n *sitter.Node) Position {
	p := n.StartPoint()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column)}
}

func (c *converter) statement(n *sitter.Node) []Node {
	switch n.Type() {
	case "comment":
		return nil
	case "lexical_declaration", "variable_declaration":
		return c.declarations(n, false)
	case "export_statement":
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			switch decl.Type() {
			case "lexical_declaration", "variable_declaration":
				return c.declarations(decl, true)
			}
		}
	}
	return []Node{c.other(n)}
}

func (c *converter) declarations(n *sitter.Node, exported bool) []Node {
	kind := "var"
	if n.ChildCount() > 0 {
		kind = n.Child(0).Type()
	}

	var decls []Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}
		name := child.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			// destructuring patterns never name a page object
			continue
		}
		decls = append(decls, &Declaration{
			Position: position(child),
			Kind:     kind,
			Name:     c.text(name),
			Exported: exported,
			Init:     c.expression(child.ChildByFieldName("value")),
		})
	}
	return decls
}

func (c *converter) expression(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "object":
		return c.object(n)
	case "function_expression", "function", "generator_function":
		return &Function{Position: position(n)}
	case "arrow_function":
		return &Function{Position: position(n), Arrow: true}
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return c.expression(n.NamedChild(0))
		}
	}
	return c.other(n)
}

func (c *converter) object(n *sitter.Node) *Object {
	obj := &Object{Position: position(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if prop := c.property(n.NamedChild(i)); prop != nil {
			obj.Properties = append(obj.Properties, prop)
		}
	}
	return obj
}

func (c *converter) property(n *sitter.Node) Node {
	switch n.Type() {
	case "comment":
		return nil
	case "pair":
		key, ok := c.key(n.ChildByFieldName("key"))
		if !ok {
			return c.other(n)
		}
		return &Field{
			Position: position(n),
			Key:      key,
			Value:    c.expression(n.ChildByFieldName("value")),
		}
	case "method_definition":
		key, ok := c.key(n.ChildByFieldName("name"))
		if !ok {
			return c.other(n)
		}
		return &Method{Position: position(n), Key: key}
	case "shorthand_property_identifier":
		return &Field{Position: position(n), Key: c.text(n)}
	}
	return c.other(n)
}

// key returns the static name of a property key. Computed keys have none.
func (c *converter) key(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "property_identifier", "identifier", "private_property_identifier", "number":
		return c.text(n), true
	case "string":
		return c.stringContent(n), true
	}
	return "", false
}

func (c *converter) stringContent(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "string_fragment" {
			return c.text(child)
		}
	}
	text := c.text(n)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func (c *converter) other(n *sitter.Node) *Other {
	return &Other{Position: position(n), Type: n.Type(), Text: c.snippet(n)}
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if bad := firstError(child); bad != nil {
			return bad
		}
	}
	return nil
}
