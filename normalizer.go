package csgcore

// Normalize destructively rewrites the tree rooted at n bottom-up into
// canonical form: single-child structural nodes are unwrapped,
// associative boolean operators are flattened, and transforms/colors
// are pushed toward the leaves. The rewrite is semantics-preserving and
// idempotent: Normalize(Normalize(n)) produces the same tree as
// Normalize(n).
//
// Tagged nodes (background/highlight/root-mark) are never flattened
// into their parents and never dropped. If any descendant carries the
// root-mark, the result keeps only root-marked subtrees.
func Normalize(n *Node) *Node {
	if n == nil {
		return nil
	}
	if hasRootMark(n) {
		n = pruneToRootMarked(n)
	}
	return normalizeNode(n)
}

func hasRootMark(n *Node) bool {
	if n.Tags.RootMark {
		return true
	}
	for _, c := range n.Children {
		if hasRootMark(c) {
			return true
		}
	}
	return false
}

// pruneToRootMarked keeps only subtrees rooted at a root-marked node
// (or containing one), dropping siblings that carry no root-mark
// anywhere beneath them.
func pruneToRootMarked(n *Node) *Node {
	if n.Tags.RootMark {
		return n
	}
	kept := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if hasRootMark(c) {
			kept = append(kept, pruneToRootMarked(c))
		}
	}
	out := *n
	out.Children = kept
	return &out
}

// normalizeNode applies the rewrite rules post-order: children are
// normalized first, then this node is unwrapped/flattened/pushed as
// applicable.
func normalizeNode(n *Node) *Node {
	children := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = normalizeNode(c)
	}
	out := *n
	out.Children = children

	out = flattenAssociative(out)
	result := &out

	result = unwrapSingleChild(result)
	result = pushTransformDown(result)
	result = pushColorDown(result)

	return result
}

// isUnioningKind reports whether a structural node kind defaults to
// union semantics when it has multiple children (Group, Root, Render).
// It takes a NodeKind, so union CsgOp nodes are not covered; List is
// excluded.
func isUnioningKind(k NodeKind) bool {
	switch k {
	case KindGroup, KindRoot, KindRender:
		return true
	default:
		return false
	}
}

func isUnionOp(n *Node) bool {
	op, ok := n.Payload.(CsgOp)
	return ok && op.Op == OpUnion
}

// flattenAssociative adopts grandchildren of the same associative
// operator: a union's union-children are flattened into it, likewise
// for intersection; List and Group flatten into each other when
// unioning. difference is not flattened (not commutative).
func flattenAssociative(n Node) Node {
	isUnion := isUnionOp(&n) || n.Kind() == KindGroup || n.Kind() == KindRoot || n.Kind() == KindList
	isIntersection := false
	if op, ok := n.Payload.(CsgOp); ok && op.Op == OpIntersection {
		isIntersection = true
	}

	if !isUnion && !isIntersection {
		return n
	}

	var flat []*Node
	for _, c := range n.Children {
		if c.IsTagged() {
			flat = append(flat, c)
			continue
		}
		if isUnion && (isUnionOp(c) || c.Kind() == KindGroup || c.Kind() == KindRoot || c.Kind() == KindList) {
			flat = append(flat, c.Children...)
			continue
		}
		if isIntersection {
			if op, ok := c.Payload.(CsgOp); ok && op.Op == OpIntersection {
				flat = append(flat, c.Children...)
				continue
			}
		}
		flat = append(flat, c)
	}
	n.Children = flat
	return n
}

// unwrapSingleChild replaces a single-child Group/Root/List/CsgOp with
// that child, unless the parent is tagged (in which case the tags are
// preserved by merging them onto the surviving child... but since the
// child is returned directly, tags are instead kept by not unwrapping).
func unwrapSingleChild(n *Node) *Node {
	if len(n.Children) != 1 {
		return n
	}
	if n.IsTagged() {
		return n
	}
	switch n.Kind() {
	case KindGroup, KindRoot, KindList:
		return n.Children[0]
	case KindCsgOp:
		return n.Children[0]
	default:
		return n
	}
}

// pushTransformDown rewrites a Transform(M) with multiple children, or
// whose single child is itself a Transform or Color, so that the
// transform is distributed onto each child (composed with any existing
// transform), moving inside a Color wrapper when present.
func pushTransformDown(n *Node) *Node {
	t, ok := n.Payload.(Transform)
	if !ok {
		return n
	}

	if len(n.Children) == 1 {
		child := n.Children[0]
		switch cp := child.Payload.(type) {
		case Transform:
			merged := Transform{Matrix: t.Matrix.Multiply(cp.Matrix)}
			out := *child
			out.Payload = merged
			return &out
		case Color:
			if len(child.Children) == 1 {
				inner := child.Children[0]
				wrapped := Node{
					Index:    inner.Index,
					Payload:  Transform{Matrix: t.Matrix},
					Children: []*Node{inner},
				}
				out := *child
				out.Payload = cp
				out.Children = []*Node{&wrapped}
				return &out
			}
		}
		return n
	}

	if len(n.Children) > 1 {
		newChildren := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			newChildren[i] = &Node{
				Index:    c.Index,
				Payload:  Transform{Matrix: t.Matrix},
				Children: []*Node{c},
			}
		}
		return &Node{Index: n.Index, Payload: Group{}, Children: newChildren, Tags: n.Tags}
	}

	return n
}

// pushColorDown rewrites a Color(c) with multiple children so that
// Color(c) is pushed onto each child; a nested Color keeps the
// outermost color (first-assigned wins).
func pushColorDown(n *Node) *Node {
	col, ok := n.Payload.(Color)
	if !ok {
		return n
	}

	if len(n.Children) == 1 {
		if cp, ok := n.Children[0].Payload.(Color); ok {
			_ = cp // outermost (n's) color wins; drop the child's color wrapper
			out := *n.Children[0]
			out.Payload = col
			return &out
		}
		return n
	}

	if len(n.Children) > 1 {
		newChildren := make([]*Node, len(n.Children))
		for i, c := range n.Children {
			newChildren[i] = &Node{Index: c.Index, Payload: col, Children: []*Node{c}}
		}
		return &Node{Index: n.Index, Payload: Group{}, Children: newChildren, Tags: n.Tags}
	}

	return n
}
