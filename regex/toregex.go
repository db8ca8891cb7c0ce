package regex

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

type rxKind uint8

const (
	rxEps rxKind = iota
	rxLit
	rxCall
	rxCat
	rxAlt
	rxStar
)

// rx is a regular expression built during state elimination. A nil *rx is
// the empty language.
type rx struct {
	kind  rxKind
	char  rune
	group int
	subs  []*rx
}

var eps = &rx{kind: rxEps}

func lit(c rune) *rx {
	return &rx{kind: rxLit, char: c}
}

func call(group int) *rx {
	return &rx{kind: rxCall, group: group}
}

func cat(xs ...*rx) *rx {
	var subs []*rx
	for _, x := range xs {
		switch {
		case x == nil:
			return nil
		case x.kind == rxEps:
		case x.kind == rxCat:
			subs = append(subs, x.subs...)
		default:
			subs = append(subs, x)
		}
	}
	switch len(subs) {
	case 0:
		return eps
	case 1:
		return subs[0]
	}
	return &rx{kind: rxCat, subs: subs}
}

func alt(a, b *rx) *rx {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}

	var subs []*rx
	seen := make(map[string]bool)
	for _, x := range []*rx{a, b} {
		members := []*rx{x}
		if x.kind == rxAlt {
			members = x.subs
		}
		for _, m := range members {
			if k := m.key(); !seen[k] {
				seen[k] = true
				subs = append(subs, m)
			}
		}
	}

	// ε is redundant next to a member that already matches it
	if seen[eps.key()] && slices.ContainsFunc(subs, func(m *rx) bool { return m.kind == rxStar }) {
		subs = slices.DeleteFunc(subs, func(m *rx) bool { return m.kind == rxEps })
	}
	if len(subs) == 1 {
		return subs[0]
	}
	return &rx{kind: rxAlt, subs: subs}
}

func star(x *rx) *rx {
	switch {
	case x == nil, x.kind == rxEps:
		return eps
	case x.kind == rxStar:
		return x
	case x.kind == rxAlt:
		rest := slices.DeleteFunc(slices.Clone(x.subs), func(m *rx) bool { return m.kind == rxEps })
		if len(rest) < len(x.subs) {
			var inner *rx
			for _, m := range rest {
				inner = alt(inner, m)
			}
			return star(inner)
		}
	}
	return &rx{kind: rxStar, subs: []*rx{x}}
}

func (x *rx) key() string {
	switch x.kind {
	case rxEps:
		return "e"
	case rxLit:
		return "l" + strconv.Itoa(int(x.char))
	case rxCall:
		return "g" + strconv.Itoa(x.group)
	}
	sb := strings.Builder{}
	sb.WriteString(strconv.Itoa(int(x.kind)) + "(")
	for _, s := range x.subs {
		sb.WriteString(s.key())
		sb.WriteString(",")
	}
	sb.WriteString(")")
	return sb.String()
}

// eliminate derives an expression for the language of d by state
// elimination. Two synthetic states are added: a start with an ε edge into
// state 0 and an end reached by ε from every accepting state.
func eliminate(d *DFA) *rx {
	n := len(d.States)
	start, end := n, n+1
	edges := make([][]*rx, n+2)
	for i := range edges {
		edges[i] = make([]*rx, n+2)
	}

	for i, s := range d.States {
		for _, c := range slices.Sorted(maps.Keys(s.Chars)) {
			to := s.Chars[c]
			edges[i][to] = alt(edges[i][to], lit(c))
		}
		for _, e := range s.Calls {
			edges[i][e.To] = alt(edges[i][e.To], call(e.Group))
		}
		if s.Accept {
			edges[i][end] = alt(edges[i][end], eps)
		}
	}
	edges[start][0] = eps

	for s := range n {
		loop := star(edges[s][s])
		for p := range n + 2 {
			if p == s || edges[p][s] == nil {
				continue
			}
			for q := range n + 2 {
				if q == s || edges[s][q] == nil {
					continue
				}
				edges[p][q] = alt(edges[p][q], cat(edges[p][s], loop, edges[s][q]))
			}
		}
		for i := range n + 2 {
			edges[s][i] = nil
			edges[i][s] = nil
		}
	}
	return edges[start][end]
}

// epsilonPattern matches only the empty string.
const epsilonPattern = "a{0}"

// renderer prints expressions in pattern syntax. The first call of a group
// in the output becomes its definition, later calls are references.
type renderer struct {
	automata []*DFA
	bodies   map[int]*rx
	defined  map[int]bool
	err      error
}

func newRenderer(automata []*DFA) *renderer {
	return &renderer{automata: automata, bodies: make(map[int]*rx), defined: make(map[int]bool)}
}

// expr renders x where alternation needs no parentheses.
func (r *renderer) expr(x *rx) string {
	if x.kind != rxAlt {
		return r.concat(x)
	}

	var parts []string
	optional := false
	for _, m := range x.subs {
		if m.kind == rxEps {
			optional = true
			continue
		}
		parts = append(parts, r.concat(m))
	}
	s := strings.Join(parts, "|")
	if !optional {
		return s
	}
	if len(parts) == 1 && isAtomic(x.subs) {
		return s + "?"
	}
	return group(s) + "?"
}

// isAtomic reports whether the single non-ε member of subs renders as one
// atom that a postfix operator can follow.
func isAtomic(subs []*rx) bool {
	for _, m := range subs {
		if m.kind == rxLit || m.kind == rxCall {
			return true
		}
	}
	return false
}

func (r *renderer) concat(x *rx) string {
	switch x.kind {
	case rxCat:
		sb := strings.Builder{}
		for _, s := range x.subs {
			sb.WriteString(r.atom(s))
		}
		return sb.String()
	case rxAlt:
		return group(r.expr(x))
	}
	return r.atom(x)
}

func (r *renderer) atom(x *rx) string {
	switch x.kind {
	case rxEps:
		return epsilonPattern
	case rxLit:
		return escape(x.char)
	case rxCall:
		return r.call(x.group)
	case rxStar:
		inner := x.subs[0]
		if inner.kind == rxLit || inner.kind == rxCall {
			return r.atom(inner) + "..."
		}
		return group(r.expr(inner)) + "..."
	}
	return group(r.expr(x))
}

func (r *renderer) call(g int) string {
	d := r.automata[g]
	if r.defined[g] {
		return "<" + d.Name + ">"
	}
	r.defined[g] = true

	body, ok := r.bodies[g]
	if !ok {
		body = eliminate(d)
		r.bodies[g] = body
	}
	if body == nil {
		r.err = ErrEmptyLanguage
		return ""
	}
	return "(<" + d.Name + ">" + r.expr(body) + ")"
}

// group parenthesizes s. A reference right after '(' would read as a
// definition, so it is preceded by an empty match.
func group(s string) string {
	if strings.HasPrefix(s, "<") {
		s = epsilonPattern + s
	}
	return "(" + s + ")"
}

func escape(c rune) string {
	switch c {
	case '|', '?', '(', ')', '{', '}', '<', '>', '%', '.':
		return "%" + string(c) + "%"
	}
	return string(c)
}

// toRegex reconstructs a pattern for the main automaton of a family.
func toRegex(automata []*DFA, main int) (string, error) {
	x := eliminate(automata[main])
	if x == nil {
		return "", ErrEmptyLanguage
	}
	r := newRenderer(automata)
	s := r.expr(x)
	if r.err != nil {
		return "", r.err
	}
	return s, nil
}
