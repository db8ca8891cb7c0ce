package regex

import (
	"maps"
	"slices"

	"github.com/coregx/ahocorasick"
)

const (
	maxPrefilterLiterals = 64
	maxPrefilterLen      = 64
)

// prefilter finds candidate match starts for patterns whose language is a
// small finite set of non-empty literals, e.g. "GET|POST|PUT".
type prefilter struct {
	ac     *ahocorasick.Automaton
	maxLen int
}

func newPrefilter(d *DFA) *prefilter {
	lits, ok := literals(d)
	if !ok || len(lits) == 0 {
		return nil
	}

	builder := ahocorasick.NewBuilder()
	maxLen := 0
	for _, l := range lits {
		builder.AddPattern([]byte(l))
		maxLen = max(maxLen, len(l))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &prefilter{ac: auto, maxLen: maxLen}
}

// window returns the range of offsets that may hold the leftmost literal
// occurrence at or after at, or ok=false if there is none. An occurrence
// reported at [start, end) can be preceded only by occurrences that start
// within maxLen of end.
func (p *prefilter) window(haystack []byte, at int) (lo, hi int, ok bool) {
	if at >= len(haystack) {
		return 0, 0, false
	}
	m := p.ac.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return max(at, m.End-p.maxLen), m.Start, true
}

// literals enumerates the language of d when it is finite, has no calls,
// does not contain the empty string and stays within the prefilter limits.
func literals(d *DFA) ([]string, bool) {
	if len(d.States) == 0 || d.States[0].Accept {
		return nil, false
	}

	var out []string
	onPath := make([]bool, len(d.States))
	var walk func(state int, prefix []rune) bool
	walk = func(state int, prefix []rune) bool {
		st := &d.States[state]
		if len(st.Calls) > 0 || onPath[state] || len(string(prefix)) > maxPrefilterLen {
			return false
		}
		if st.Accept {
			if len(out) == maxPrefilterLiterals {
				return false
			}
			out = append(out, string(prefix))
		}
		onPath[state] = true
		defer func() { onPath[state] = false }()
		for _, c := range slices.Sorted(maps.Keys(st.Chars)) {
			if !walk(st.Chars[c], append(prefix, c)) {
				return false
			}
		}
		return true
	}
	if !walk(0, nil) {
		return nil, false
	}
	return out, true
}
