package regex

import (
	"strconv"
)

const (
	// maxRepeat bounds {k}, the expansion copies the operand k times.
	maxRepeat = 1000
	// maxLeaves bounds the characters and calls of the expanded tree, since
	// nested repeats multiply.
	maxLeaves = 10000
)

// syntax is a parsed pattern: the main tree, free of group definitions, and
// the table of group bodies by name. order lists the group names in the order
// their definitions appear in the pattern.
type syntax struct {
	root   *node
	groups map[string]*node
	order  []string
}

type parser struct {
	tokens []token
	i      int
	look   token
	leaves int
}

func parse(re string) (*syntax, error) {
	tokens, err := lex(re)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, look: tokens[0]}
	root, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.look.kind {
	case tokEOF:
	case tokRParen:
		return nil, newSyntaxError(p.look.pos, ErrUnmatchedParen, "no group to close")
	default:
		return nil, newSyntaxError(p.look.pos, ErrUnexpectedToken, "%s", p.look)
	}

	s, err := resolveGroups(root)
	if err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *parser) next() {
	if p.i+1 < len(p.tokens) {
		p.i++
	}
	p.look = p.tokens[p.i]
}

// ...|...|...
func (p *parser) parseExpr() (*node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.look.kind == tokOr {
		p.next()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = newBinary(orNode, left, right)
	}
	return left, nil
}

func (p *parser) parseConcat() (*node, error) {
	left, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for canStartAtom(p.look.kind) {
		right, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		left = newBinary(concatNode, left, right)
	}
	return left, nil
}

// a... and a? and a{k}
func (p *parser) parsePostfix() (*node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.look.kind {
		case tokKleene:
			p.next()
			n = newUnary(kleeneNode, n)
		case tokOptional:
			p.next()
			n = newUnary(optionalNode, n)
		case tokRepeat:
			n, err = p.parseRepeat(n)
			if err != nil {
				return nil, err
			}
		default:
			return n, nil
		}
	}
}

func (p *parser) parseRepeat(base *node) (*node, error) {
	t := p.look
	k, err := strconv.Atoi(t.text)
	if err != nil || k < 0 || k > maxRepeat {
		return nil, newSyntaxError(t.pos, ErrBadRepeat, "{%s} must be between 0 and %d", t.text, maxRepeat)
	}
	if k > 1 {
		p.leaves += countLeaves(base) * (k - 1)
		if p.leaves > maxLeaves {
			return nil, newSyntaxError(t.pos, ErrBadRepeat, "{%s} expands the pattern beyond %d characters", t.text, maxLeaves)
		}
	}
	p.next()

	switch k {
	case 0:
		return newUnary(nullRepeatNode, base), nil
	case 1:
		return base, nil
	}
	n := base
	for i := 1; i < k; i++ {
		n = newBinary(concatNode, n, copyTree(base))
	}
	return n, nil
}

func (p *parser) parseAtom() (*node, error) {
	t := p.look
	switch t.kind {
	case tokLiteral:
		p.next()
		p.leaves++
		n := newLiteral(t.char)
		n.offset = t.pos
		return n, nil
	case tokGroupRef:
		p.next()
		p.leaves++
		n := newCall(t.text)
		n.offset = t.pos
		return n, nil
	case tokLParen:
		return p.parseGroup()
	case tokEOF:
		return nil, newSyntaxError(t.pos, ErrUnexpectedToken, "unexpected end of pattern")
	}
	return nil, newSyntaxError(t.pos, ErrUnexpectedToken, "%s", t)
}

// (...) and (<name>...)
func (p *parser) parseGroup() (*node, error) {
	open := p.look
	p.next()

	var name *token
	if p.look.kind == tokGroupName {
		t := p.look
		name = &t
		p.next()
	}

	switch p.look.kind {
	case tokRParen:
		return nil, newSyntaxError(open.pos, ErrEmptyGroup, "")
	case tokEOF:
		return nil, newSyntaxError(open.pos, ErrUnmatchedParen, "missing ')'")
	}

	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	switch p.look.kind {
	case tokRParen:
		p.next()
	case tokEOF:
		return nil, newSyntaxError(open.pos, ErrUnmatchedParen, "missing ')'")
	default:
		return nil, newSyntaxError(p.look.pos, ErrUnexpectedToken, "%s", p.look)
	}

	if name == nil {
		return inner, nil
	}
	return &node{kind: groupDefNode, name: name.text, left: inner, offset: name.pos}, nil
}

func countLeaves(n *node) int {
	if n == nil {
		return 0
	}
	if n.kind == literalNode || n.kind == groupCallNode {
		return 1
	}
	return countLeaves(n.left) + countLeaves(n.right)
}

func canStartAtom(k tokenKind) bool {
	return k == tokLiteral || k == tokGroupRef || k == tokLParen
}

// resolveGroups moves every group body into the group table and rewrites its
// definition into a call, so the tree handed to analysis has no GROUP_DEF.
func resolveGroups(root *node) (*syntax, error) {
	s := &syntax{root: root, groups: make(map[string]*node)}
	offsets := make(map[string]int)

	var visit func(n *node) error
	visit = func(n *node) error {
		if n == nil {
			return nil
		}
		if n.kind != groupDefNode {
			if err := visit(n.left); err != nil {
				return err
			}
			return visit(n.right)
		}

		if off, ok := offsets[n.name]; ok {
			if off != n.offset {
				return newSyntaxError(n.offset, ErrDuplicateGroup, "%q, first defined at %d", n.name, off)
			}
		} else {
			offsets[n.name] = n.offset
			s.groups[n.name] = n.left
			s.order = append(s.order, n.name)
			if err := visit(n.left); err != nil {
				return err
			}
		}
		n.kind = groupCallNode
		n.left = nil
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return s, nil
}

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// validate rejects references to undefined groups and groups that call
// themselves, directly or through other groups.
func (s *syntax) validate() error {
	if err := checkCalls(s.root, s.groups); err != nil {
		return err
	}

	states := make(map[string]visitState, len(s.groups))
	var visit func(name string) error
	visit = func(name string) error {
		switch states[name] {
		case stateVisiting:
			return newSyntaxError(-1, ErrRecursiveGroup, "group %q calls itself", name)
		case stateDone:
			return nil
		}
		states[name] = stateVisiting
		body := s.groups[name]
		if err := checkCalls(body, s.groups); err != nil {
			return err
		}
		for _, callee := range calledGroups(body) {
			if err := visit(callee); err != nil {
				return err
			}
		}
		states[name] = stateDone
		return nil
	}

	for _, name := range s.order {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func checkCalls(n *node, groups map[string]*node) error {
	if n == nil {
		return nil
	}
	if n.kind == groupCallNode {
		if _, ok := groups[n.name]; !ok {
			return newSyntaxError(n.offset, ErrUndefinedGroup, "%q", n.name)
		}
	}
	if err := checkCalls(n.left, groups); err != nil {
		return err
	}
	return checkCalls(n.right, groups)
}

// calledGroups lists the distinct group names called in n, in tree order.
// Calls below {0} never run and are not listed.
func calledGroups(n *node) []string {
	var names []string
	seen := make(map[string]bool)
	var walk func(n *node)
	walk = func(n *node) {
		if n == nil || n.kind == nullRepeatNode {
			return
		}
		if n.kind == groupCallNode && !seen[n.name] {
			seen[n.name] = true
			names = append(names, n.name)
		}
		walk(n.left)
		walk(n.right)
	}
	walk(n)
	return names
}
