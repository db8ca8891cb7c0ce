package regex

import (
	"strconv"
	"unicode/utf8"
)

type span struct {
	start int
	end   int
}

// captures holds one span per automaton id, start is -1 for groups that did
// not take part. Configurations share it and copy on write.
type captures []span

func (c captures) with(group, start, end int) captures {
	out := make(captures, len(c))
	copy(out, c)
	out[group] = span{start: start, end: end}
	return out
}

// frame is a pending call: once the callee accepts, execution resumes in
// state ret of automaton dfa, and [start, current offset) is recorded for
// group.
type frame struct {
	dfa   int
	ret   int
	group int
	start int
	next  *frame
	key   string
}

func push(c config, e CallEdge, at int) *frame {
	f := &frame{dfa: c.dfa, ret: e.To, group: e.Group, start: at, next: c.stack}
	f.key = strconv.Itoa(f.dfa) + "." + strconv.Itoa(f.ret) + "." + strconv.Itoa(f.group) + "/"
	if c.stack != nil {
		f.key += c.stack.key
	}
	return f
}

// config is one configuration of the pushdown automaton.
type config struct {
	dfa   int
	state int
	stack *frame
	caps  captures
}

func (c config) key() string {
	k := strconv.Itoa(c.dfa) + "." + strconv.Itoa(c.state) + "|"
	if c.stack != nil {
		k += c.stack.key
	}
	return k
}

// runner executes an automaton family. All configurations reachable at an
// offset advance together, so matching never backtracks. Within an offset
// configurations are kept in priority order: consuming a character first,
// then group calls by ascending group id, then returning from a call.
type runner struct {
	automata []*DFA
	main     int

	// first lists the runes a non-empty match can start with, nullable
	// reports whether the empty string matches.
	first    map[rune]bool
	nullable bool
}

func newRunner(automata []*DFA, main int) *runner {
	r := &runner{automata: automata, main: main, first: make(map[rune]bool)}
	for _, c := range r.start(0) {
		st := r.state(c)
		if st.Accept && c.stack == nil {
			r.nullable = true
		}
		for ch := range st.Chars {
			r.first[ch] = true
		}
	}
	return r
}

func (r *runner) state(c config) *State {
	return &r.automata[c.dfa].States[c.state]
}

func (r *runner) start(at int) []config {
	caps := make(captures, len(r.automata))
	for i := range caps {
		caps[i] = span{start: -1, end: -1}
	}
	return r.add(nil, make(map[string]bool), config{dfa: r.main, caps: caps}, at)
}

// add appends c and every configuration reachable from it without consuming
// input. Configurations already in the list keep their earlier, higher
// priority, entry.
func (r *runner) add(list []config, seen map[string]bool, c config, at int) []config {
	k := c.key()
	if seen[k] {
		return list
	}
	seen[k] = true
	list = append(list, c)

	st := r.state(c)
	for _, e := range st.Calls {
		list = r.add(list, seen, config{dfa: e.Group, state: 0, stack: push(c, e, at), caps: c.caps}, at)
	}
	if st.Accept && c.stack != nil {
		f := c.stack
		ret := config{dfa: f.dfa, state: f.ret, stack: f.next, caps: c.caps.with(f.group, f.start, at)}
		list = r.add(list, seen, ret, at)
	}
	return list
}

// canStart reports whether a match may begin at offset at.
func (r *runner) canStart(text string, at int) bool {
	if r.nullable {
		return true
	}
	if at >= len(text) {
		return false
	}
	c, _ := utf8.DecodeRuneInString(text[at:])
	return r.first[c]
}

// longest returns the end of the longest match starting at from, with the
// captures of the highest priority configuration that accepts there.
func (r *runner) longest(text string, from int) (int, captures, bool) {
	end, best, ok := -1, captures(nil), false
	list := r.start(from)
	at := from
	for {
		for _, c := range list {
			if c.stack == nil && r.state(c).Accept {
				end, best, ok = at, c.caps, true
				break
			}
		}
		if at >= len(text) || len(list) == 0 {
			return end, best, ok
		}

		ch, size := utf8.DecodeRuneInString(text[at:])
		at += size
		seen := make(map[string]bool, len(list))
		var next []config
		for _, c := range list {
			if to, ok := r.state(c).Chars[ch]; ok {
				next = r.add(next, seen, config{dfa: c.dfa, state: to, stack: c.stack, caps: c.caps}, at)
			}
		}
		list = next
	}
}
