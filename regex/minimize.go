package regex

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// minimize merges states that no input can tell apart, refining the
// partition until it is stable. The start state stays state 0.
func minimize(d *DFA) *DFA {
	n := len(d.States)
	if n == 0 {
		return d
	}

	runes := make([][]rune, n)
	for i, s := range d.States {
		runes[i] = slices.Sorted(maps.Keys(s.Chars))
	}

	class := make([]int, n)
	count := 0
	for {
		next, k := refine(d, runes, class)
		class = next
		if k == count {
			break
		}
		count = k
	}

	out := &DFA{Name: d.Name, States: make([]State, count)}
	done := make([]bool, count)
	for i, s := range d.States {
		c := class[i]
		if done[c] {
			continue
		}
		done[c] = true

		st := State{Accept: s.Accept, Chars: make(map[rune]int, len(s.Chars))}
		for r, to := range s.Chars {
			st.Chars[r] = class[to]
		}
		for _, e := range s.Calls {
			st.Calls = append(st.Calls, CallEdge{Group: e.Group, To: class[e.To]})
		}
		out.States[c] = st
	}
	return out
}

// refine splits every class by the classes its states move to. Classes are
// numbered by first appearance so state 0 is always in class 0.
func refine(d *DFA, runes [][]rune, class []int) ([]int, int) {
	next := make([]int, len(class))
	ids := make(map[string]int)
	for i, s := range d.States {
		sb := strings.Builder{}
		sb.WriteString(strconv.Itoa(class[i]))
		if s.Accept {
			sb.WriteString("!")
		}
		for _, r := range runes[i] {
			sb.WriteString(" c")
			sb.WriteString(strconv.Itoa(int(r)))
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(class[s.Chars[r]]))
		}
		for _, e := range s.Calls {
			sb.WriteString(" g")
			sb.WriteString(strconv.Itoa(e.Group))
			sb.WriteString(":")
			sb.WriteString(strconv.Itoa(class[e.To]))
		}

		key := sb.String()
		id, ok := ids[key]
		if !ok {
			id = len(ids)
			ids[key] = id
		}
		next[i] = id
	}
	return next, len(ids)
}
