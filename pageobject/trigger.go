package pageobject

import (
	"strings"

	"github.com/cockroachdb/errors"
)

const Trigger = '.'

// TokenMode selects how the token in front of the trigger is cut out of the line.
type TokenMode string

const (
	// TokenIdentifier takes the run of identifier characters ending at the trigger.
	TokenIdentifier TokenMode = "identifier"
	// TokenSplit takes the last single-space separated segment before the trigger.
	// Tokens preceded by tabs, parentheses or nothing at all are not isolated.
	TokenSplit TokenMode = "split"
)

func ParseTokenMode(s string) (TokenMode, error) {
	switch m := TokenMode(s); m {
	case TokenIdentifier, TokenSplit:
		return m, nil
	}
	return "", errors.Newf("unknown token mode %q (want %q or %q)", s, TokenIdentifier, TokenSplit)
}

// TokenBefore returns the token in front of the trigger character that sits
// immediately before character. It reports false when that character is not
// the trigger or no token precedes it.
func TokenBefore(line string, character int, mode TokenMode) (string, bool) {
	if character > len(line) {
		character = len(line)
	}
	if character < 1 || line[character-1] != Trigger {
		return "", false
	}
	prefix := line[:character-1]

	var token string
	switch mode {
	case TokenSplit:
		segments := strings.Split(prefix, " ")
		token = segments[len(segments)-1]
	default:
		start := len(prefix)
		for start > 0 && isIdentByte(prefix[start-1]) {
			start--
		}
		token = prefix[start:]
	}
	return token, token != ""
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z') ||
		('0' <= b && b <= '9') ||
		b >= 0x80
}

// Match returns the first reference the token ends with, comparing against
// the alias and, when present, the local binding.
func Match(token string, refs []Reference) (Reference, bool) {
	token = strings.TrimLeft(token, " \t")
	if token == "" {
		return Reference{}, false
	}
	for _, ref := range refs {
		if ref.Alias != "" && strings.HasSuffix(token, ref.Alias) {
			return ref, true
		}
		if ref.Binding != "" && strings.HasSuffix(token, ref.Binding) {
			return ref, true
		}
	}
	return Reference{}, false
}
