package regex

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Regex is a compiled pattern: one automaton per named group plus the main
// automaton, executed with a call stack. A Regex is immutable and safe for
// concurrent use.
type Regex struct {
	pattern string
	// syntax is nil for intersections, they have no source tree
	syntax    *syntax
	automata  []*DFA
	main      int
	groupIDs  map[string]int
	names     []string
	runner    *runner
	prefilter *prefilter
}

// Submatch is a captured group: its byte offset in the searched text and the
// captured string.
type Submatch struct {
	Offset int
	Str    string
}

// MatchResult is one match, [Start, End) in the searched text, with the
// captures of every named group.
type MatchResult struct {
	Start  int
	End    int
	Str    string
	groups map[string]*Submatch
	names  []string
}

// Group returns the capture of the named group, or nil if the group did not
// take part in the match. Names that the pattern never defines yield a
// *LookupError.
func (m *MatchResult) Group(name string) (*Submatch, error) {
	sm, ok := m.groups[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return sm, nil
}

// Groups returns the captures by name, nil for groups that did not take part.
func (m *MatchResult) Groups() map[string]*Submatch {
	return maps.Clone(m.groups)
}

// Names returns the group names in declaration order.
func (m *MatchResult) Names() []string {
	return slices.Clone(m.names)
}

func Compile(re string) (*Regex, error) {
	s, err := parse(re)
	if err != nil {
		return nil, fmt.Errorf("failed to compile %q: %w", re, err)
	}
	return newRegex(re, s, compileFamily(s)), nil
}

func MustCompile(re string) *Regex {
	r, err := Compile(re)
	if err != nil {
		panic(err)
	}
	return r
}

func newRegex(pattern string, s *syntax, automata []*DFA) *Regex {
	re := &Regex{
		pattern:  pattern,
		syntax:   s,
		automata: automata,
		main:     len(automata) - 1,
		groupIDs: make(map[string]int),
	}
	for i, d := range automata[:re.main] {
		if d.Name != "" {
			re.groupIDs[d.Name] = i
			re.names = append(re.names, d.Name)
		}
	}
	re.runner = newRunner(automata, re.main)
	re.prefilter = newPrefilter(automata[re.main])
	return re
}

// String returns the source pattern. For intersections and reversals it
// describes the operands and is not itself a valid pattern.
func (re *Regex) String() string {
	return re.pattern
}

// GroupNames returns the defined group names in declaration order.
func (re *Regex) GroupNames() []string {
	return slices.Clone(re.names)
}

// NumAutomata returns the size of the automaton family, groups included.
func (re *Regex) NumAutomata() int {
	return len(re.automata)
}

// Automata returns a copy of the automaton family. Group automata come first
// in declaration order, the main automaton is last.
func (re *Regex) Automata() []*DFA {
	out := make([]*DFA, len(re.automata))
	for i, d := range re.automata {
		out[i] = d.clone()
	}
	return out
}

// Match reports whether the whole of s is in the language of the pattern.
func (re *Regex) Match(s string) bool {
	end, _, ok := re.runner.longest(s, 0)
	return ok && end == len(s)
}

// MatchPrefix returns the length of the longest match starting at byte
// offset from.
func (re *Regex) MatchPrefix(s string, from int) (int, bool) {
	if from < 0 || from > len(s) {
		return 0, false
	}
	end, _, ok := re.runner.longest(s, from)
	if !ok {
		return 0, false
	}
	return end - from, true
}

// Search returns the leftmost match in text, preferring the longest at that
// offset.
func (re *Regex) Search(text string) (string, bool) {
	loc := re.SearchIndex(text)
	if loc == nil {
		return "", false
	}
	return text[loc[0]:loc[1]], true
}

// SearchIndex returns the [start, end) byte offsets of the match Search
// finds, or nil.
func (re *Regex) SearchIndex(text string) []int {
	start, end, _, ok := re.searchFrom(text, 0)
	if !ok {
		return nil
	}
	return []int{start, end}
}

// SearchWithGroups is Search with the captures of every named group.
func (re *Regex) SearchWithGroups(text string) (*MatchResult, bool) {
	start, end, caps, ok := re.searchFrom(text, 0)
	if !ok {
		return nil, false
	}
	return re.result(text, start, end, caps), true
}

// SearchAll returns up to n successive non-overlapping matches, all of them
// if n is negative.
func (re *Regex) SearchAll(text string, n int) []*MatchResult {
	var out []*MatchResult
	for at := 0; at <= len(text); {
		if n >= 0 && len(out) >= n {
			break
		}
		start, end, caps, ok := re.searchFrom(text, at)
		if !ok {
			break
		}
		out = append(out, re.result(text, start, end, caps))

		at = end
		if end == start {
			// step over an empty match
			if end >= len(text) {
				break
			}
			_, size := utf8.DecodeRuneInString(text[end:])
			at += size
		}
	}
	return out
}

// Replace replaces the first match in s. In with, $0 expands to the whole
// match and $name to the capture of that group, empty if it did not take
// part.
func (re *Regex) Replace(s string, with string) string {
	m, ok := re.SearchWithGroups(s)
	if !ok {
		return s
	}

	out := strings.Builder{}
	out.WriteString(s[:m.Start])
	for i := 0; i < len(with); i++ {
		if with[i] != '$' || i+1 >= len(with) {
			out.WriteByte(with[i])
			continue
		}

		j := i + 1
		for j < len(with) {
			c, size := utf8.DecodeRuneInString(with[j:])
			if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
				break
			}
			j += size
		}
		name := with[i+1 : j]
		switch {
		case name == "":
			out.WriteByte(with[i])
			continue
		case name == "0":
			out.WriteString(m.Str)
		default:
			if sm, err := m.Group(name); err == nil && sm != nil {
				out.WriteString(sm.Str)
			}
		}
		i = j - 1
	}
	out.WriteString(s[m.End:])
	return out.String()
}

// Intersect returns a regex for strings both re and other match. Calls only
// pair up when both sides call a group of the same name; such a call matches
// the strings both groups match and is captured under that name.
func (re *Regex) Intersect(other *Regex) *Regex {
	return newRegex(fmt.Sprintf("(%s)&(%s)", re.pattern, other.pattern), nil, intersect(re.automata, other.automata))
}

// Reverse returns a regex for the reversed strings of re. Group names carry
// over, so captures of the reversed regex name the same groups.
func (re *Regex) Reverse() (*Regex, error) {
	s := re.syntax
	if s == nil {
		pattern, err := re.ToRegex()
		if err != nil {
			if errors.Is(err, ErrEmptyLanguage) {
				return re, nil
			}
			return nil, err
		}
		if s, err = parse(pattern); err != nil {
			return nil, fmt.Errorf("failed to reparse %q: %w", pattern, err)
		}
	}
	rev := s.reverse()
	return newRegex(fmt.Sprintf("reverse(%s)", re.pattern), rev, compileFamily(rev)), nil
}

// ToRegex reconstructs a pattern for the language of re by state
// elimination. It matches the same strings as re but is rarely the pattern
// re was compiled from.
func (re *Regex) ToRegex() (string, error) {
	return toRegex(re.automata, re.main)
}

// searchFrom finds the leftmost match starting at or after from.
func (re *Regex) searchFrom(text string, from int) (int, int, captures, bool) {
	if re.prefilter != nil {
		return re.searchLiterals(text, from)
	}
	for at := from; at <= len(text); {
		if re.runner.canStart(text, at) {
			if end, caps, ok := re.runner.longest(text, at); ok {
				return at, end, caps, true
			}
		}
		if at == len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[at:])
		at += size
	}
	return 0, 0, nil, false
}

func (re *Regex) searchLiterals(text string, from int) (int, int, captures, bool) {
	haystack := []byte(text)
	for at := from; at < len(text); {
		lo, hi, ok := re.prefilter.window(haystack, at)
		if !ok {
			break
		}
		for at <= hi {
			if at >= lo {
				if end, caps, ok := re.runner.longest(text, at); ok {
					return at, end, caps, true
				}
			}
			_, size := utf8.DecodeRuneInString(text[at:])
			at += size
		}
	}
	return 0, 0, nil, false
}

func (re *Regex) result(text string, start, end int, caps captures) *MatchResult {
	m := &MatchResult{
		Start:  start,
		End:    end,
		Str:    text[start:end],
		groups: make(map[string]*Submatch, len(re.names)),
		names:  re.names,
	}
	for _, name := range re.names {
		sp := caps[re.groupIDs[name]]
		if sp.start < 0 {
			m.groups[name] = nil
			continue
		}
		m.groups[name] = &Submatch{Offset: sp.start, Str: text[sp.start:sp.end]}
	}
	return m
}
