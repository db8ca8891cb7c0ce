package regex

import (
	"fmt"
	"maps"
	"slices"
)

// intersect builds the product of the main automata of a and b. A character
// edge survives when both sides have it. A call edge survives when both
// sides call a group of the same name; it then calls the product of the two
// group automata, so the called substring is in both group languages. Group
// ids follow a's family. Groups the product never calls, or whose product
// accepts nothing, are left as empty automata.
func intersect(a, b []*DFA) []*DFA {
	byName := make(map[string]int)
	for i, d := range b[:len(b)-1] {
		if d.Name != "" {
			byName[d.Name] = i
		}
	}
	aToB := make(map[int]int)
	for i, d := range a[:len(a)-1] {
		if j, ok := byName[d.Name]; ok && d.Name != "" {
			aToB[i] = j
		}
	}

	family := make([]*DFA, len(a))
	live := make([]bool, len(a)-1)
	var pairCall func(g int) (int, bool)
	pairCall = func(g int) (int, bool) {
		j, ok := aToB[g]
		if !ok {
			return 0, false
		}
		if family[g] == nil {
			family[g] = product(a[g], b[j], pairCall)
			family[g].Name = a[g].Name
			live[g] = !family[g].empty()
		}
		return j, live[g]
	}

	prod := product(a[len(a)-1], b[len(b)-1], pairCall)
	for i, d := range family[:len(family)-1] {
		if d == nil {
			family[i] = &DFA{Name: a[i].Name, States: []State{{}}}
		}
	}
	family[len(family)-1] = prod
	return family
}

// product intersects x and y. pairCall maps a group called by x to the group
// y must call at the same place, and reports whether that pair can match.
func product(x, y *DFA, pairCall func(g int) (int, bool)) *DFA {
	type pair struct{ a, b int }
	ids := map[pair]int{{0, 0}: 0}
	queue := []pair{{0, 0}}
	id := func(p pair) int {
		if i, ok := ids[p]; ok {
			return i
		}
		i := len(queue)
		ids[p] = i
		queue = append(queue, p)
		return i
	}

	prod := &DFA{}
	for i := 0; i < len(queue); i++ {
		p := queue[i]
		sa, sb := &x.States[p.a], &y.States[p.b]

		st := State{Accept: sa.Accept && sb.Accept, Chars: make(map[rune]int)}
		for _, c := range slices.Sorted(maps.Keys(sa.Chars)) {
			if tb, ok := sb.Chars[c]; ok {
				st.Chars[c] = id(pair{sa.Chars[c], tb})
			}
		}
		for _, e := range sa.Calls {
			g, ok := pairCall(e.Group)
			if !ok {
				continue
			}
			if tb, ok := sb.call(g); ok {
				st.Calls = append(st.Calls, CallEdge{Group: e.Group, To: id(pair{e.To, tb})})
			}
		}
		prod.States = append(prod.States, st)
	}
	return minimize(trim(prod))
}

// empty reports whether d accepts nothing. It holds for trimmed automata only.
func (d *DFA) empty() bool {
	s := d.States[0]
	return !s.Accept && len(s.Chars) == 0 && len(s.Calls) == 0
}

// trim drops states from which no accepting state can be reached. The start
// state is always kept.
func trim(d *DFA) *DFA {
	n := len(d.States)
	preds := make([][]int, n)
	for i, s := range d.States {
		for _, to := range s.Chars {
			preds[to] = append(preds[to], i)
		}
		for _, e := range s.Calls {
			preds[e.To] = append(preds[e.To], i)
		}
	}

	live := make([]bool, n)
	var queue []int
	for i, s := range d.States {
		if s.Accept {
			live[i] = true
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, p := range preds[cur] {
			if !live[p] {
				live[p] = true
				queue = append(queue, p)
			}
		}
	}

	renum := make([]int, n)
	out := &DFA{Name: d.Name}
	for i := range d.States {
		renum[i] = -1
		if live[i] || i == 0 {
			renum[i] = len(out.States)
			out.States = append(out.States, State{})
		}
	}
	for i, s := range d.States {
		if renum[i] < 0 {
			continue
		}
		st := State{Accept: s.Accept, Chars: make(map[rune]int)}
		for c, to := range s.Chars {
			if live[to] {
				st.Chars[c] = renum[to]
			}
		}
		for _, e := range s.Calls {
			if live[e.To] {
				st.Calls = append(st.Calls, CallEdge{Group: e.Group, To: renum[e.To]})
			}
		}
		out.States[renum[i]] = st
	}
	return out
}

// reverse returns the syntax of the reversed language: every concatenation
// swaps its operands, in the main tree and in every group body.
func (s *syntax) reverse() *syntax {
	out := &syntax{
		root:   reverseTree(s.root),
		groups: make(map[string]*node, len(s.groups)),
		order:  slices.Clone(s.order),
	}
	for name, body := range s.groups {
		out.groups[name] = reverseTree(body)
	}
	return out
}

func reverseTree(n *node) *node {
	if n == nil {
		return nil
	}
	switch n.kind {
	case literalNode, groupCallNode:
		c := *n
		return &c
	case concatNode:
		return newBinary(concatNode, reverseTree(n.right), reverseTree(n.left))
	case orNode:
		return newBinary(orNode, reverseTree(n.left), reverseTree(n.right))
	case kleeneNode, optionalNode, nullRepeatNode:
		return newUnary(n.kind, reverseTree(n.left))
	}
	panic(fmt.Sprintf("unexpected %s node in reverse", n.kind))
}
