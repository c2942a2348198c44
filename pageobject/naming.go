package pageobject

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Name holds the identifiers a convention file is known by. Alias and
// ModuleVariable are both derived from Base and never set independently.
type Name struct {
	Base           string // kebab-case file name without extension, e.g. login-page
	Alias          string // LoginPage
	ModuleVariable string // __loginPage__
}

func NameOf(base string) Name {
	camel := CamelCase(base)
	return Name{
		Base:           base,
		Alias:          upperFirst(camel),
		ModuleVariable: "__" + camel + "__",
	}
}

// CamelCase replaces every "-x" pair with the upper-cased x. A trailing dash is kept.
func CamelCase(kebab string) string {
	var b strings.Builder
	b.Grow(len(kebab))
	for i := 0; i < len(kebab); {
		r, size := utf8.DecodeRuneInString(kebab[i:])
		if r == '-' && i+size < len(kebab) {
			next, nsize := utf8.DecodeRuneInString(kebab[i+size:])
			b.WriteRune(unicode.ToUpper(next))
			i += size + nsize
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
