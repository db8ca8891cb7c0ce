package regex

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokLiteral tokenKind = iota
	tokOr
	tokOptional
	tokKleene
	tokRepeat
	tokRBrace
	tokLParen
	tokRParen
	tokGroupName
	tokGroupRef
	tokEOF
)

var tokenKindNames = [...]string{
	tokLiteral:   "literal",
	tokOr:        "'|'",
	tokOptional:  "'?'",
	tokKleene:    "'...'",
	tokRepeat:    "repeat",
	tokRBrace:    "'}'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokGroupName: "group name",
	tokGroupRef:  "group reference",
	tokEOF:       "end of pattern",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("token(%d)", k)
}

// token is one lexeme of a pattern. char is set for literals, text holds the
// digits of a repeat count or the name of a group.
type token struct {
	kind tokenKind
	char rune
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokLiteral:
		return fmt.Sprintf("literal(%q)", t.char)
	case tokRepeat:
		return "{" + t.text + "}"
	case tokGroupName:
		return "(<" + t.text + ">"
	case tokGroupRef:
		return "<" + t.text + ">"
	}
	return t.kind.String()
}

// lex splits a pattern into tokens terminated by a tokEOF token.
func lex(re string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(re); {
		if strings.HasPrefix(re[i:], "...") {
			tokens = append(tokens, token{kind: tokKleene, pos: i})
			i += 3
			continue
		}

		c, size := utf8.DecodeRuneInString(re[i:])
		switch c {
		case '|':
			tokens = append(tokens, token{kind: tokOr, pos: i})
			i++
		case '?':
			tokens = append(tokens, token{kind: tokOptional, pos: i})
			i++
		case '(':
			tokens = append(tokens, token{kind: tokLParen, pos: i})
			i++
		case ')':
			tokens = append(tokens, token{kind: tokRParen, pos: i})
			i++
		case '}':
			tokens = append(tokens, token{kind: tokRBrace, pos: i})
			i++
		case '{':
			t, cons, err := lexRepeat(re, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
			i += cons
		case '%':
			t, cons, err := lexEscape(re, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, t)
			i += cons
		case '<':
			name, cons, err := lexGroupName(re, i)
			if err != nil {
				return nil, err
			}
			// a name right after '(' defines the group, anywhere else it is a reference
			kind := tokGroupRef
			if len(tokens) > 0 && tokens[len(tokens)-1].kind == tokLParen {
				kind = tokGroupName
			}
			tokens = append(tokens, token{kind: kind, text: name, pos: i})
			i += cons
		default:
			tokens = append(tokens, token{kind: tokLiteral, char: c, pos: i})
			i += size
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(re)}), nil
}

// {digits}
func lexRepeat(re string, i int) (token, int, error) {
	j := i + 1
	for j < len(re) && re[j] >= '0' && re[j] <= '9' {
		j++
	}
	if j == i+1 {
		return token{}, 0, newSyntaxError(j, ErrDigitExpected, "")
	}
	if j >= len(re) || re[j] != '}' {
		return token{}, 0, newSyntaxError(j, ErrMissingBrace, "")
	}
	return token{kind: tokRepeat, text: re[i+1 : j], pos: i}, j + 1 - i, nil
}

// %x%
func lexEscape(re string, i int) (token, int, error) {
	if i+1 >= len(re) {
		return token{}, 0, newSyntaxError(i, ErrMalformedEscape, "pattern ends after '%%'")
	}
	c, size := utf8.DecodeRuneInString(re[i+1:])
	end := i + 1 + size
	if end >= len(re) || re[end] != '%' {
		return token{}, 0, newSyntaxError(i, ErrMalformedEscape, "expected closing '%%'")
	}
	return token{kind: tokLiteral, char: c, pos: i}, end + 1 - i, nil
}

// <name>
func lexGroupName(re string, i int) (string, int, error) {
	j := i + 1
	for j < len(re) {
		c, size := utf8.DecodeRuneInString(re[j:])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			break
		}
		j += size
	}
	if j >= len(re) || re[j] != '>' {
		return "", 0, newSyntaxError(j, ErrBadGroupName, "expected '>'")
	}
	if j == i+1 {
		return "", 0, newSyntaxError(i, ErrBadGroupName, "name is empty")
	}
	return re[i+1 : j], j + 1 - i, nil
}
