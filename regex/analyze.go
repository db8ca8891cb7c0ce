package regex

import "fmt"

// position is a numbered leaf of one tree: a literal, a group call or the end
// marker.
type position struct {
	kind  nodeKind
	char  rune
	group string
}

type nodeInfo struct {
	nullable bool
	first    *bitset
	last     *bitset
}

// analysis holds nullable/firstpos/lastpos per node and followpos per
// position for one tree. Positions start at 1, index 0 is unused.
type analysis struct {
	root      *node
	positions []position
	follow    []*bitset
	info      map[*node]*nodeInfo
	end       int
}

// analyze appends the end marker to root and computes its position tables.
// root is not modified.
func analyze(root *node) *analysis {
	a := &analysis{
		root:      newBinary(concatNode, root, &node{kind: endNode}),
		positions: make([]position, 1),
		info:      make(map[*node]*nodeInfo),
	}
	a.number(a.root)

	a.follow = make([]*bitset, len(a.positions))
	for i := range a.follow {
		a.follow[i] = newBitset(len(a.positions))
	}
	a.compute(a.root)
	return a
}

func (a *analysis) firstPos() *bitset {
	return a.info[a.root].first
}

// number assigns positions to the leaves in post-order.
func (a *analysis) number(n *node) {
	if n == nil || n.kind == nullRepeatNode {
		return
	}
	a.number(n.left)
	a.number(n.right)

	switch n.kind {
	case literalNode, groupCallNode, endNode:
		pos := len(a.positions)
		a.positions = append(a.positions, position{kind: n.kind, char: n.char, group: n.name})
		if n.kind == endNode {
			a.end = pos
		}
		a.info[n] = &nodeInfo{first: newBitset(pos + 1), last: newBitset(pos + 1)}
		a.info[n].first.set(pos)
		a.info[n].last.set(pos)
	}
}

func (a *analysis) compute(n *node) *nodeInfo {
	if info, ok := a.info[n]; ok {
		// leaves were filled in by number
		return info
	}

	size := len(a.positions)
	info := &nodeInfo{first: newBitset(size), last: newBitset(size)}
	a.info[n] = info

	switch n.kind {
	case nullRepeatNode:
		info.nullable = true
	case concatNode:
		l, r := a.compute(n.left), a.compute(n.right)
		info.nullable = l.nullable && r.nullable
		info.first.or(l.first)
		if l.nullable {
			info.first.or(r.first)
		}
		info.last.or(r.last)
		if r.nullable {
			info.last.or(l.last)
		}
		l.last.forEach(func(p int) {
			a.follow[p].or(r.first)
		})
	case orNode:
		l, r := a.compute(n.left), a.compute(n.right)
		info.nullable = l.nullable || r.nullable
		info.first.or(l.first)
		info.first.or(r.first)
		info.last.or(l.last)
		info.last.or(r.last)
	case kleeneNode:
		c := a.compute(n.left)
		info.nullable = true
		info.first.or(c.first)
		info.last.or(c.last)
		c.last.forEach(func(p int) {
			a.follow[p].or(c.first)
		})
	case optionalNode:
		c := a.compute(n.left)
		info.nullable = true
		info.first.or(c.first)
		info.last.or(c.last)
	default:
		panic(fmt.Sprintf("unexpected %s node in analysis", n.kind))
	}
	return info
}
