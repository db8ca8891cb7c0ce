package regex

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedEscape = errors.New("malformed escape")
	ErrDigitExpected   = errors.New("digit expected after '{'")
	ErrMissingBrace    = errors.New("missing '}' after repeat count")
	ErrBadRepeat       = errors.New("invalid repeat count")
	ErrBadGroupName    = errors.New("invalid group name")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnmatchedParen  = errors.New("unmatched parenthesis")
	ErrEmptyGroup      = errors.New("empty group body")
	ErrDuplicateGroup  = errors.New("group defined twice")
	ErrUndefinedGroup  = errors.New("reference to undefined group")
	ErrRecursiveGroup  = errors.New("recursive group reference")

	// ErrEmptyLanguage is returned by ToRegex when the automaton accepts nothing.
	ErrEmptyLanguage = errors.New("automaton accepts no strings")

	ErrUnknownGroup = errors.New("no such group")
)

// SyntaxError reports a malformed pattern. Pos is the byte offset into the
// pattern, or -1 if the problem is not tied to one place.
type SyntaxError struct {
	Pos int
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("syntax error: %s", e.Msg)
	}
	return fmt.Sprintf("syntax error at %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func newSyntaxError(pos int, inner error, format string, args ...any) *SyntaxError {
	msg := inner.Error()
	if format != "" {
		msg = fmt.Sprintf("%s: %s", msg, fmt.Sprintf(format, args...))
	}
	return &SyntaxError{Pos: pos, Msg: msg, Err: inner}
}

// LookupError is returned when a capture group name was never defined.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownGroup, e.Name)
}

func (e *LookupError) Unwrap() error {
	return ErrUnknownGroup
}
