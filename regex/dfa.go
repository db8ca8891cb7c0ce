package regex

import (
	"maps"
	"slices"
)

// DFA is one automaton of a compiled family. State 0 is the start state.
type DFA struct {
	// Name is the group the automaton implements, empty for the main pattern.
	Name   string
	States []State
}

// State is a DFA state. Chars are consuming transitions, Calls are
// non-consuming transitions into another automaton of the family that resume
// in To once the callee accepts. Calls are sorted by Group.
type State struct {
	Accept bool
	Chars  map[rune]int
	Calls  []CallEdge
}

type CallEdge struct {
	Group int
	To    int
}

func (s *State) call(group int) (int, bool) {
	i, ok := slices.BinarySearchFunc(s.Calls, group, func(e CallEdge, g int) int { return e.Group - g })
	if !ok {
		return 0, false
	}
	return s.Calls[i].To, true
}

func (d *DFA) clone() *DFA {
	c := &DFA{Name: d.Name, States: make([]State, len(d.States))}
	for i, s := range d.States {
		c.States[i] = State{
			Accept: s.Accept,
			Chars:  maps.Clone(s.Chars),
			Calls:  slices.Clone(s.Calls),
		}
	}
	return c
}

// NumTransitions counts character and call edges.
func (d *DFA) NumTransitions() int {
	n := 0
	for _, s := range d.States {
		n += len(s.Chars) + len(s.Calls)
	}
	return n
}

// buildDFA runs the subset construction over the positions of a. Each state
// is identified by its position set. groupIDs maps group names to the
// automaton ids used for call edges.
func buildDFA(a *analysis, groupIDs map[string]int) *DFA {
	start := a.firstPos()
	sets := []*bitset{start}
	ids := map[string]int{start.key(): 0}

	target := func(set *bitset) int {
		k := set.key()
		if id, ok := ids[k]; ok {
			return id
		}
		id := len(sets)
		ids[k] = id
		sets = append(sets, set)
		return id
	}

	d := &DFA{}
	for i := 0; i < len(sets); i++ {
		cur := sets[i]

		chars := make(map[rune]*bitset)
		calls := make(map[int]*bitset)
		cur.forEach(func(p int) {
			pos := a.positions[p]
			var next *bitset
			switch pos.kind {
			case literalNode:
				if next = chars[pos.char]; next == nil {
					next = newBitset(len(a.positions))
					chars[pos.char] = next
				}
			case groupCallNode:
				g := groupIDs[pos.group]
				if next = calls[g]; next == nil {
					next = newBitset(len(a.positions))
					calls[g] = next
				}
			default:
				// the end marker has no successors
				return
			}
			next.or(a.follow[p])
		})

		st := State{Accept: cur.has(a.end), Chars: make(map[rune]int, len(chars))}
		for _, c := range slices.Sorted(maps.Keys(chars)) {
			st.Chars[c] = target(chars[c])
		}
		for _, g := range slices.Sorted(maps.Keys(calls)) {
			st.Calls = append(st.Calls, CallEdge{Group: g, To: target(calls[g])})
		}
		d.States = append(d.States, st)
	}
	return d
}

// compileFamily compiles every group body and then the main tree. Group
// automata take ids in declaration order, the main automaton comes last.
func compileFamily(s *syntax) []*DFA {
	ids := make(map[string]int, len(s.order))
	for i, name := range s.order {
		ids[name] = i
	}

	automata := make([]*DFA, 0, len(s.order)+1)
	for _, name := range s.order {
		d := minimize(buildDFA(analyze(s.groups[name]), ids))
		d.Name = name
		automata = append(automata, d)
	}
	return append(automata, minimize(buildDFA(analyze(s.root), ids)))
}
