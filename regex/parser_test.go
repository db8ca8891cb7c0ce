package regex

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		wantTree   string
		wantGroups map[string]string
		wantOrder  []string
	}{
		"alternation binds weakest": {
			givenRe:  "a|bc",
			wantTree: "(OR LITERAL:a (CONCAT LITERAL:b LITERAL:c))",
		},
		"kleene binds to the atom": {
			givenRe:  "ab...",
			wantTree: "(CONCAT LITERAL:a (KLEENE LITERAL:b _))",
		},
		"optional": {
			givenRe:  "a?b",
			wantTree: "(CONCAT (OPTIONAL LITERAL:a _) LITERAL:b)",
		},
		"stacked postfix": {
			givenRe:  "a...?",
			wantTree: "(OPTIONAL (KLEENE LITERAL:a _) _)",
		},
		"zero repeat keeps its operand": {
			givenRe:  "a{0}b",
			wantTree: "(CONCAT (NULL_REPEAT LITERAL:a _) LITERAL:b)",
		},
		"single repeat is identity": {
			givenRe:  "a{1}",
			wantTree: "LITERAL:a",
		},
		"repeat expands by copying": {
			givenRe:  "(ab){3}",
			wantTree: "(CONCAT (CONCAT (CONCAT LITERAL:a LITERAL:b) (CONCAT LITERAL:a LITERAL:b)) (CONCAT LITERAL:a LITERAL:b))",
		},
		"escaped metacharacter": {
			givenRe:  "%(%",
			wantTree: "LITERAL:(",
		},
		"definition becomes a call": {
			givenRe:    "(<g>ab)<g>",
			wantTree:   "(CONCAT GROUP_CALL:g GROUP_CALL:g)",
			wantGroups: map[string]string{"g": "(CONCAT LITERAL:a LITERAL:b)"},
			wantOrder:  []string{"g"},
		},
		"forward reference": {
			givenRe:    "<g>x(<g>y)",
			wantTree:   "(CONCAT (CONCAT GROUP_CALL:g LITERAL:x) GROUP_CALL:g)",
			wantGroups: map[string]string{"g": "LITERAL:y"},
			wantOrder:  []string{"g"},
		},
		"repeated definition is one group": {
			givenRe:    "(<g>a){2}",
			wantTree:   "(CONCAT GROUP_CALL:g GROUP_CALL:g)",
			wantGroups: map[string]string{"g": "LITERAL:a"},
			wantOrder:  []string{"g"},
		},
		"nested definitions": {
			givenRe:  "(<o>(<i>a)b)",
			wantTree: "GROUP_CALL:o",
			wantGroups: map[string]string{
				"o": "(CONCAT GROUP_CALL:i LITERAL:b)",
				"i": "LITERAL:a",
			},
			wantOrder: []string{"o", "i"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			s, err := parse(tt.givenRe)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			gotGroups := make(map[string]string)
			for name, body := range s.groups {
				gotGroups[name] = body.String()
			}

			// then
			if d := cmp.Diff(tt.wantTree, s.root.String()); d != "" {
				t.Errorf("tree diff (-want +got):\n%s", d)
			}
			if tt.wantGroups == nil {
				tt.wantGroups = map[string]string{}
			}
			if d := cmp.Diff(tt.wantGroups, gotGroups); d != "" {
				t.Errorf("groups diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantOrder, s.order); d != "" {
				t.Errorf("order diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		givenRe string
		wantErr error
		wantPos int
	}{
		"empty pattern":           {givenRe: "", wantErr: ErrUnexpectedToken, wantPos: 0},
		"dangling alternation":    {givenRe: "a|", wantErr: ErrUnexpectedToken, wantPos: 2},
		"leading operator":        {givenRe: "?a", wantErr: ErrUnexpectedToken, wantPos: 0},
		"stray brace":             {givenRe: "a}", wantErr: ErrUnexpectedToken, wantPos: 1},
		"unopened paren":          {givenRe: "a)", wantErr: ErrUnmatchedParen, wantPos: 1},
		"unclosed paren":          {givenRe: "(ab", wantErr: ErrUnmatchedParen, wantPos: 0},
		"empty group":             {givenRe: "a()", wantErr: ErrEmptyGroup, wantPos: 1},
		"empty named group":       {givenRe: "(<g>)", wantErr: ErrEmptyGroup, wantPos: 0},
		"repeat too large":        {givenRe: "a{1001}", wantErr: ErrBadRepeat, wantPos: 1},
		"nested repeat too large": {givenRe: "(a{100}){200}", wantErr: ErrBadRepeat, wantPos: 8},
		"repeats add up":          {givenRe: "a{999}b{999}" + strings.Repeat("c{999}", 9), wantErr: ErrBadRepeat, wantPos: 61},
		"undefined below {0}":     {givenRe: "a<x>{0}", wantErr: ErrUndefinedGroup, wantPos: 1},
		"undefined reference":     {givenRe: "a<x>", wantErr: ErrUndefinedGroup, wantPos: 1},
		"undefined inside group":  {givenRe: "(<g>a<y>)", wantErr: ErrUndefinedGroup, wantPos: 5},
		"duplicate definition":    {givenRe: "(<a>x)(<a>y)", wantErr: ErrDuplicateGroup, wantPos: 7},
		"self reference":          {givenRe: "(<a>x<a>)", wantErr: ErrRecursiveGroup, wantPos: -1},
		"mutual reference":        {givenRe: "(<a>x<b>)(<b>y<a>)", wantErr: ErrRecursiveGroup, wantPos: -1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			_, err := parse(tt.givenRe)

			// then
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("got %T, want *SyntaxError", err)
			}
			if serr.Pos != tt.wantPos {
				t.Errorf("got position %d, want %d", serr.Pos, tt.wantPos)
			}
		})
	}
}

func TestCompileErrorMessage(t *testing.T) {
	// when
	_, err := Compile("a)")

	// then
	want := `failed to compile "a)": syntax error at 1: unmatched parenthesis: no group to close`
	if err == nil || err.Error() != want {
		t.Errorf("got %v, want %s", err, want)
	}
}

func TestRepeatCopiesAreIndependent(t *testing.T) {
	// when
	s, err := parse("(ab){2}")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := analyze(s.root)

	// then
	if got := len(a.positions) - 1; got != 5 {
		t.Errorf("got %d positions, want 5", got)
	}
}

func TestSelfCallBelowNullRepeat(t *testing.T) {
	// when
	re, err := Compile("(<g>x<g>{0})y")

	// then
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, ok := re.SearchWithGroups("axy")
	if !ok {
		t.Fatalf("no match")
	}
	if d := cmp.Diff(map[string]*Submatch{"g": {Offset: 1, Str: "x"}}, m.Groups()); d != "" {
		t.Errorf("groups diff (-want +got):\n%s", d)
	}
}
