package regex

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLiterals(t *testing.T) {
	tests := map[string]struct {
		givenRe  string
		wantLits []string
		wantOK   bool
	}{
		"alternation": {
			givenRe:  "GET|POST|PUT",
			wantLits: []string{"GET", "POST", "PUT"},
			wantOK:   true,
		},
		"bounded": {
			givenRe:  "a(b|c)?d",
			wantLits: []string{"abd", "acd", "ad"},
			wantOK:   true,
		},
		"prefix is also a literal": {
			givenRe:  "ab(cd)?",
			wantLits: []string{"ab", "abcd"},
			wantOK:   true,
		},
		"infinite": {
			givenRe: "ab...",
			wantOK:  false,
		},
		"empty string": {
			givenRe: "a?",
			wantOK:  false,
		},
		"calls": {
			givenRe: "(<g>a)b",
			wantOK:  false,
		},
		"too many": {
			givenRe: "(a|b){7}",
			wantOK:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			re := MustCompile(tt.givenRe)

			// when
			gotLits, gotOK := literals(re.automata[re.main])

			// then
			if gotOK != tt.wantOK {
				t.Fatalf("got ok %v, want %v", gotOK, tt.wantOK)
			}
			if d := cmp.Diff(tt.wantLits, gotLits); gotOK && d != "" {
				t.Errorf("got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestPrefilterSearchAgreesWithRunner(t *testing.T) {
	patterns := []string{"ab|ba", "abc|b", "a(b|c)d", "bcd|abcdef", "ёж|жё"}
	texts := []string{
		"",
		"xxabxx",
		"babab",
		"zzabcdabcdefzz",
		"acdabd",
		"ёёжёжё",
		strings.Repeat("x", 200) + "ba",
	}
	for _, p := range patterns {
		re := MustCompile(p)
		if re.prefilter == nil {
			t.Fatalf("%q: no prefilter", p)
		}
		plain := *re
		plain.prefilter = nil

		for _, text := range texts {
			// when
			got := re.SearchAll(text, -1)
			want := plain.SearchAll(text, -1)

			// then
			if d := cmp.Diff(want, got, cmp.AllowUnexported(MatchResult{})); d != "" {
				t.Errorf("%q on %q: diff (-runner +prefilter):\n%s", p, text, d)
			}
		}
	}
}
