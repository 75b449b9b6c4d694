package roff

import (
	"errors"
	"strings"
)

// ErrUnclosedQuote is returned by SplitFields for an unterminated quote.
var ErrUnclosedQuote = errors.New("no closing quotation")

// SplitFields splits a request line into whitespace-separated tokens using
// non-POSIX shell rules: a token that starts with a double quote extends to
// the next double quote, which ends the token, and keeps both quotes. A
// quote inside a bare word is an ordinary character.
func SplitFields(line string) ([]string, error) {
	var tokens []string
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case isSpace(c):
			i++
		case c == '"':
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, ErrUnclosedQuote
			}
			tokens = append(tokens, line[i:i+end+2])
			i += end + 2
		default:
			start := i
			for i < len(line) && !isSpace(line[i]) {
				i++
			}
			tokens = append(tokens, line[start:i])
		}
	}
	return tokens, nil
}

// Unquote removes one pair of surrounding double quotes, if present.
func Unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// IsQuoted reports whether tok starts and ends with a double quote.
func IsQuoted(tok string) bool {
	return len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

// ErrUnsupportedEscape is returned by UnescapeExample for a special
// character escape other than \(rs.
var ErrUnsupportedEscape = errors.New(`unsupported \( escape`)

// UnescapeExample undoes the \(rs (reverse solidus) escape used in example
// code and rejects any other \( special character escape.
func UnescapeExample(s string) (string, error) {
	s = strings.ReplaceAll(s, `\(rs`, `\`)
	if strings.Contains(s, `\(`) {
		return "", ErrUnsupportedEscape
	}
	return s, nil
}
