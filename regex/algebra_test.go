package regex

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func reverseString(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}

func TestIntersect(t *testing.T) {
	tests := map[string]struct {
		givenA     string
		givenB     string
		wantAccept []string
		wantReject []string
	}{
		"disjoint": {
			givenA:     "a",
			givenB:     "b",
			wantReject: []string{"a", "b", ""},
		},
		"identical": {
			givenA:     "a|b",
			givenB:     "a|b",
			wantAccept: []string{"a", "b"},
			wantReject: []string{"c", "ab"},
		},
		"subset": {
			givenA:     "a...",
			givenB:     "aa",
			wantAccept: []string{"aa"},
			wantReject: []string{"a", "aaa", ""},
		},
		"proper overlap": {
			givenA:     "a...",
			givenB:     "a?b",
			wantReject: []string{"a", "aa", "aba", "b", "ab"},
		},
		"even and multiple of three": {
			givenA:     "(aa)...",
			givenB:     "(aaa)...",
			wantAccept: []string{"", "aaaaaa", "aaaaaaaaaaaa"},
			wantReject: []string{"aa", "aaa", "aaaa"},
		},
		"calls only pair with calls": {
			givenA:     "(<g>aa...)b",
			givenB:     "aa?b",
			wantReject: []string{"b", "ab", "aab", "aaab"},
		},
		"calls of the same group pair up": {
			givenA:     "(<d>0|1)...",
			givenB:     "<d>(<d>0|1)",
			wantAccept: []string{"01", "11"},
			wantReject: []string{"0", "011", ""},
		},
		"same group name, different bodies": {
			givenA:     "(<x>a)<x>",
			givenB:     "(<x>b)<x>",
			wantReject: []string{"aa", "bb", "ab", ""},
		},
		"same group name, overlapping bodies": {
			givenA:     "(<x>a|b)<x>...",
			givenB:     "(<x>b|c)<x>",
			wantAccept: []string{"bb"},
			wantReject: []string{"aa", "ab", "cc", "bc", "b", "bbb"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, b := MustCompile(tt.givenA), MustCompile(tt.givenB)

			// when
			got := a.Intersect(b)

			// then
			for _, s := range tt.wantAccept {
				if !got.Match(s) {
					t.Errorf("intersection does not match %q", s)
				}
			}
			for _, s := range tt.wantReject {
				if got.Match(s) {
					t.Errorf("intersection matches %q", s)
				}
			}
		})
	}
}

func TestIntersectIsConjunction(t *testing.T) {
	pairs := [][2]string{
		{"(a|b)...abb", "a...b..."},
		{"(ab|a)(ba|b)", "a?b...a?"},
		{"((a|b)(a|b))...", "a...ba..."},
		{"c?(a|b){2}", "(a|c)..."},
		{"(<x>a)<x>", "(<x>b)<x>"},
		{"(<x>a|b)<x>...", "(<x>b|c)<x>"},
		{"(<x>a|b)...c", "(<x>b|c)...c"},
	}
	for _, p := range pairs {
		a, b := MustCompile(p[0]), MustCompile(p[1])
		both := a.Intersect(b)
		for _, in := range inputs("abc", 6) {
			if want := a.Match(in) && b.Match(in); both.Match(in) != want {
				t.Errorf("%q & %q on %q: got %v, want %v", p[0], p[1], in, !want, want)
			}
		}
	}
}

func TestIntersectKeepsOperands(t *testing.T) {
	a := MustCompile("(<g>a)b")
	before := a.Automata()

	// when
	got := a.Intersect(MustCompile("(<g>a)b|c"))

	// then
	if d := cmp.Diff(before, a.Automata()); d != "" {
		t.Errorf("operand changed (-before +after):\n%s", d)
	}
	if got.NumAutomata() != a.NumAutomata() {
		t.Errorf("got %d automata, want %d", got.NumAutomata(), a.NumAutomata())
	}
	m, ok := got.SearchWithGroups("xab")
	if !ok {
		t.Fatalf("no match")
	}
	if d := cmp.Diff(map[string]*Submatch{"g": {Offset: 1, Str: "a"}}, m.Groups()); d != "" {
		t.Errorf("groups diff (-want +got):\n%s", d)
	}
}

func TestReverse(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		givenInput string
		wantGroups map[string]*Submatch
	}{
		"literal": {
			givenRe:    "abc",
			givenInput: "abc",
			wantGroups: map[string]*Submatch{},
		},
		"groups": {
			givenRe:    "(<g1>a...)(<g2>b)c",
			givenInput: "aaabc",
			wantGroups: map[string]*Submatch{
				"g1": {Offset: 2, Str: "aaa"},
				"g2": {Offset: 1, Str: "b"},
			},
		},
		"kleene inside group": {
			givenRe:    "a(<g>b...)c",
			givenInput: "abbbc",
			wantGroups: map[string]*Submatch{"g": {Offset: 1, Str: "bbb"}},
		},
		"alternation inside group": {
			givenRe:    "(<g>a|b)c",
			givenInput: "ac",
			wantGroups: map[string]*Submatch{"g": {Offset: 1, Str: "a"}},
		},
		"group call": {
			givenRe:    "abc?(<name1>lo|l)(t{3})%?%...<name1>",
			givenInput: "ablottt??lo",
			wantGroups: map[string]*Submatch{"name1": {Offset: 7, Str: "ol"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			re := MustCompile(tt.givenRe)
			reversed := reverseString(tt.givenInput)

			// when
			rev, err := re.Reverse()
			if err != nil {
				t.Fatalf("Reverse: %v", err)
			}

			// then
			if !re.Match(tt.givenInput) || re.Match(reversed) && reversed != tt.givenInput {
				t.Fatalf("%q: unexpected matches for %q and %q", tt.givenRe, tt.givenInput, reversed)
			}
			if !rev.Match(reversed) {
				t.Errorf("reversed regex does not match %q", reversed)
			}
			if rev.Match(tt.givenInput) {
				t.Errorf("reversed regex matches %q", tt.givenInput)
			}
			m, ok := rev.SearchWithGroups(reversed)
			if !ok {
				t.Fatalf("reversed regex finds nothing in %q", reversed)
			}
			if d := cmp.Diff(tt.wantGroups, m.Groups()); d != "" {
				t.Errorf("groups diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestReverseRoundTrip(t *testing.T) {
	patterns := []string{
		"abc",
		"a?b...c",
		"(a|bc)...a",
		"(<g>ab?)c<g>",
		"(<o>(<i>a|b)c)...<i>",
		"a{2}(b|c){0}c",
		"(<x>a)|b(<y>c...)",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			re := MustCompile(p)

			// when
			rev, err := re.Reverse()
			if err != nil {
				t.Fatalf("Reverse: %v", err)
			}

			// then
			for _, in := range inputs("abc", 6) {
				if re.Match(in) != rev.Match(reverseString(in)) {
					t.Errorf("%q: Match(%q) = %v but reversed Match(%q) = %v", p, in, re.Match(in), reverseString(in), !re.Match(in))
				}
			}
		})
	}
}

func TestReverseIntersection(t *testing.T) {
	both := MustCompile("a...b").Intersect(MustCompile("aab|b|c"))

	// when
	rev, err := both.Reverse()
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}

	// then
	for _, s := range []string{"baa", "b"} {
		if !rev.Match(s) {
			t.Errorf("does not match %q", s)
		}
	}
	for _, s := range []string{"aab", "c", "ba"} {
		if rev.Match(s) {
			t.Errorf("matches %q", s)
		}
	}
}

func TestReverseEmptyIntersection(t *testing.T) {
	empty := MustCompile("a").Intersect(MustCompile("b"))

	// when
	rev, err := empty.Reverse()

	// then
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	for _, in := range inputs("ab", 3) {
		if rev.Match(in) {
			t.Errorf("matches %q", in)
		}
	}
}
