package jsast

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := NewParser().Parse(context.Background(), "test.js", []byte(src))
	require.NoError(t, err)
	return prog
}

func TestParseObjectDeclaration(t *testing.T) {
	prog := parse(t, `// login page
const __loginPage__ = {
  name: 'Login',
  submit: {
    click() {},
    handler: function () {},
    arrow: () => {},
    label: 'Go',
    'data-id': 1,
    get text() { return ''; },
  },
  username,
  ...rest,
  [computed]: {},
};
`)

	require.Len(t, prog.Body, 1)
	decl, ok := prog.Body[0].(*Declaration)
	require.True(t, ok, "got %T", prog.Body[0])
	assert.Equal(t, "const", decl.Kind)
	assert.Equal(t, "__loginPage__", decl.Name)
	assert.False(t, decl.Exported)
	assert.Equal(t, 2, decl.Line)

	obj, ok := decl.Init.(*Object)
	require.True(t, ok, "got %T", decl.Init)
	require.Len(t, obj.Properties, 5)

	name := obj.Properties[0].(*Field)
	assert.Equal(t, "name", name.Key)
	assert.Equal(t, "string", name.Value.(*Other).Type)

	submit := obj.Properties[1].(*Field)
	assert.Equal(t, "submit", submit.Key)
	nested, ok := submit.Value.(*Object)
	require.True(t, ok)
	require.Len(t, nested.Properties, 6)

	assert.Equal(t, "click", nested.Properties[0].(*Method).Key)

	handler := nested.Properties[1].(*Field)
	assert.Equal(t, "handler", handler.Key)
	assert.False(t, handler.Value.(*Function).Arrow)

	arrow := nested.Properties[2].(*Field)
	assert.True(t, arrow.Value.(*Function).Arrow)

	assert.Equal(t, "label", nested.Properties[3].(*Field).Key)
	assert.Equal(t, "data-id", nested.Properties[4].(*Field).Key)
	assert.Equal(t, "text", nested.Properties[5].(*Method).Key)

	shorthand := obj.Properties[2].(*Field)
	assert.Equal(t, "username", shorthand.Key)
	assert.Nil(t, shorthand.Value)

	assert.Equal(t, "spread_element", obj.Properties[3].(*Other).Type)
	assert.Equal(t, "pair", obj.Properties[4].(*Other).Type)
}

func TestParseDeclarationForms(t *testing.T) {
	prog := parse(t, `
import x from './x';
export const __a__ = {};
let __b__ = 1, __c__ = {};
var __d__;
function helper() {}
`)

	decls := prog.Declarations()
	require.Len(t, decls, 4)

	assert.Equal(t, "__a__", decls[0].Name)
	assert.True(t, decls[0].Exported)
	assert.IsType(t, &Object{}, decls[0].Init)

	assert.Equal(t, "let", decls[1].Kind)
	assert.Equal(t, "__b__", decls[1].Name)
	assert.Equal(t, "number", decls[1].Init.(*Other).Type)
	assert.Equal(t, "__c__", decls[2].Name)

	assert.Equal(t, "var", decls[3].Kind)
	assert.Nil(t, decls[3].Init)

	require.Len(t, prog.Body, 6)
	assert.Equal(t, "import_statement", prog.Body[0].(*Other).Type)
	assert.Equal(t, "function_declaration", prog.Body[5].(*Other).Type)
}

func TestParseImports(t *testing.T) {
	prog := parse(t, `
import Login from '../objects/login-page.js';
import { SearchPage, Cart as CartPage } from '../objects/pages';
import * as All from '../objects/all';
import '../objects/side-effect';
const Header = require('../objects/header');
const { Footer, Menu: Nav } = require('../objects/chrome');
const notRequire = load('../objects/other');
`)

	type binding struct{ local, imported, source string }
	var got []binding
	for _, imp := range prog.Imports {
		got = append(got, binding{imp.Local, imp.Imported, imp.Source})
	}

	assert.Equal(t, []binding{
		{"Login", "default", "../objects/login-page.js"},
		{"SearchPage", "SearchPage", "../objects/pages"},
		{"CartPage", "Cart", "../objects/pages"},
		{"All", "*", "../objects/all"},
		{"Header", "default", "../objects/header"},
		{"Footer", "Footer", "../objects/chrome"},
		{"Nav", "Menu", "../objects/chrome"},
	}, got)

	assert.False(t, prog.Imports[0].Require)
	assert.True(t, prog.Imports[4].Require)
	assert.Equal(t, 2, prog.Imports[0].Line)
}

func TestParseSyntaxErrorKeepsPartialProgram(t *testing.T) {
	src := "import Login from '{.}/objects/login-page.js'\n\nLogin.\n"
	prog, err := NewParser().Parse(context.Background(), "spec.js", []byte(src))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	require.NotNil(t, prog)
	require.Len(t, prog.Imports, 1)
	assert.Equal(t, "Login", prog.Imports[0].Local)

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "spec.js", se.Path)
	assert.GreaterOrEqual(t, se.Line, 1)
}

func TestParseUnterminatedObject(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "broken.js", []byte("const __a__ = {\n  name: 'a',\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, err.Error(), "broken.js:")
}

func TestShortenKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "  foo(  ", "foo("},
		{"first line only", "a {\nb", "a {"},
		{"ascii cut", strings.Repeat("a", 45), strings.Repeat("a", 40) + "..."},
		{"multibyte cut", strings.Repeat("é", 45), strings.Repeat("é", 40) + "..."},
		{"multibyte at boundary", strings.Repeat("a", 39) + "日本", strings.Repeat("a", 39) + "日..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shorten(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestParseLimits(t *testing.T) {
	p := NewParser(WithMaxFileSize(4))
	_, err := p.Parse(context.Background(), "big.js", []byte("const a = 1;"))
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewParser().Parse(ctx, "a.js", []byte("const a = 1;"))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{nil, "nothing"},
		{&Object{}, "an object literal"},
		{&Function{Arrow: true}, "an arrow function"},
		{&Function{}, "a function"},
		{&Other{Type: "string", Text: "'x'"}, "string `'x'`"},
		{&Other{Type: "number"}, "number"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.node))
		})
	}
}
