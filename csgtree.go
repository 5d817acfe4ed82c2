package csgcore

import "fmt"

// CsgLeaf is a single piece of already-evaluated geometry destined for
// preview rasterization: the resolved geometry plus a human-readable
// label (node kind + index) for diagnostics.
type CsgLeaf struct {
	Geom  Geometry
	Label string
}

// CsgOpKind is the boolean combinator a non-leaf CsgNode applies to its
// children, mirroring BooleanOp without coupling this package's preview
// DAG to the evaluator's own node-payload types.
type CsgOpKind uint8

const (
	CsgUnion CsgOpKind = iota
	CsgIntersection
	CsgDifference
)

// CsgNode is the build-phase representation (§4.6): either a resolved
// leaf or a boolean combination of child nodes. Source retains the
// originating tree node so normalization can fall back to its already-
// evaluated geometry when a subtrahend can't be distributed cleanly.
type CsgNode struct {
	Leaf       *CsgLeaf
	Op         CsgOpKind
	Children   []*CsgNode
	Highlight  bool
	Background bool
	Source     *Node
}

// CsgProduct is one term of the normalized sum-of-products: the
// intersection of Positives with every one of Subtractions removed.
type CsgProduct struct {
	Positives    []*CsgLeaf
	Subtractions []*CsgLeaf
	Highlight    bool
}

// CsgTree is the normalized preview representation: a flat disjunction
// of CsgProducts, each independently rasterizable via depth peeling.
type CsgTree struct {
	Products   []*CsgProduct
	Overflowed bool
}

// CsgTreeBuilder runs the build-then-normalize pass (§4.6) over an
// already-evaluated node tree, reading each node's resolved geometry
// from the Evaluator that produced it.
type CsgTreeBuilder struct {
	evaluator  *Evaluator
	termLimit  int // <= 0 means unlimited, matching Config.TermLimit's "zero means unlimited"
	terms      int
	overflowed bool
}

// NewCsgTreeBuilder builds a CsgTreeBuilder against an Evaluator that has
// already run Evaluate/EvaluateParallel over the tree to be rebuilt.
// termLimit <= 0 disables the cap (Config.TermLimit's "zero means
// unlimited" convention).
func NewCsgTreeBuilder(e *Evaluator, termLimit int) *CsgTreeBuilder {
	return &CsgTreeBuilder{evaluator: e, termLimit: termLimit}
}

// Build runs the build phase over tree's root, then normalizes the
// resulting DAG to sum-of-products.
func (b *CsgTreeBuilder) Build(tree *Tree) *CsgTree {
	if tree == nil || tree.Root == nil {
		return &CsgTree{}
	}
	root := b.buildNode(tree.Root)
	products := b.normalize(root)
	if b.overflowed {
		b.evaluator.warn(tree.Root, NormalizerOverflow, "csg tree normalization exceeded %d terms, emitting an un-optimized grouping", b.termLimit)
	}
	return &CsgTree{Products: products, Overflowed: b.overflowed}
}

// buildNode maps a CsgOp node to an Op combining its children's built
// nodes; every other geometry-producing node kind (primitives,
// transforms, extrudes, adv ops, color, grouping) becomes a single
// opaque CsgLeaf carrying its already-evaluated geometry — only the
// explicit boolean operators need to stay visible to the normalizer.
func (b *CsgTreeBuilder) buildNode(n *Node) *CsgNode {
	if op, ok := n.Payload.(CsgOp); ok {
		children := make([]*CsgNode, 0, len(n.Children))
		for _, c := range n.Children {
			children = append(children, b.buildNode(c))
		}
		return &CsgNode{
			Op:         csgOpKindFrom(op.Op),
			Children:   children,
			Highlight:  n.Tags.Highlight,
			Background: n.Tags.Background,
			Source:     n,
		}
	}

	g, _ := b.evaluator.getResult(n)
	return &CsgNode{
		Leaf:       &CsgLeaf{Geom: g, Label: fmt.Sprintf("%s#%d", n.Kind(), n.Index)},
		Highlight:  n.Tags.Highlight,
		Background: n.Tags.Background,
		Source:     n,
	}
}

func csgOpKindFrom(op BooleanOp) CsgOpKind {
	switch op {
	case OpIntersection:
		return CsgIntersection
	case OpDifference:
		return CsgDifference
	default:
		return CsgUnion
	}
}

// normalize converts a build-phase node into a flat sum-of-products,
// applying §4.6's identities: union of sums is concatenation,
// intersection of sums is cross-product distribution, and difference is
// a−b = a∩¬b applied via subtractNode.
func (b *CsgTreeBuilder) normalize(n *CsgNode) []*CsgProduct {
	if n == nil {
		return nil
	}
	if n.Leaf != nil {
		if n.Background {
			return nil
		}
		return []*CsgProduct{{Positives: []*CsgLeaf{n.Leaf}, Highlight: n.Highlight}}
	}
	if n.Background {
		return nil
	}

	switch n.Op {
	case CsgUnion:
		var out []*CsgProduct
		for _, c := range n.Children {
			out = append(out, b.normalize(c)...)
		}
		return out

	case CsgIntersection:
		if len(n.Children) == 0 {
			return nil
		}
		acc := b.normalize(n.Children[0])
		for _, c := range n.Children[1:] {
			acc = b.intersectProducts(acc, b.normalize(c))
		}
		return acc

	case CsgDifference:
		if len(n.Children) == 0 {
			return nil
		}
		acc := b.normalize(n.Children[0])
		for _, c := range n.Children[1:] {
			acc = b.subtractNode(acc, c)
		}
		return acc

	default:
		return nil
	}
}

// intersectProducts distributes a∩(b∪c) → (a∩b)∪(a∩c) across two sums-
// of-products: the cross product of every term in a with every term in
// c. When this step's cross product would have more than termLimit
// terms (or an earlier step already overflowed), falls back to a single
// merged (non-distributed but still correct) product.
func (b *CsgTreeBuilder) intersectProducts(a, c []*CsgProduct) []*CsgProduct {
	exceeds := b.termLimit > 0 && len(a)*len(c) > b.termLimit
	if b.overflowed || exceeds {
		b.overflowed = true
		return []*CsgProduct{mergeAllProducts(append(append([]*CsgProduct{}, a...), c...))}
	}
	out := make([]*CsgProduct, 0, len(a)*len(c))
	for _, pa := range a {
		for _, pc := range c {
			out = append(out, mergeProduct(pa, pc))
		}
	}
	b.terms += len(out)
	return out
}

// subtractNode removes sub's geometry from every product in acc. When
// sub is a plain (possibly nested) union of leaves, each leaf becomes
// its own subtraction entry, so a−(x∪y) is represented the same as
// (a−x)∩(a−y) without actually building the intersection. A subtrahend
// with its own intersection/difference structure is not expanded
// further: its already-evaluated geometry becomes one opaque
// subtraction leaf, the "non-optimal but correct" fallback §4.6 allows.
func (b *CsgTreeBuilder) subtractNode(acc []*CsgProduct, sub *CsgNode) []*CsgProduct {
	leaves := collectUnionLeaves(sub)
	if leaves == nil {
		leaves = []*CsgLeaf{b.opaqueLeaf(sub)}
	}
	out := make([]*CsgProduct, len(acc))
	for i, p := range acc {
		out[i] = &CsgProduct{
			Positives:    p.Positives,
			Subtractions: append(append([]*CsgLeaf{}, p.Subtractions...), leaves...),
			Highlight:    p.Highlight,
		}
	}
	return out
}

func (b *CsgTreeBuilder) opaqueLeaf(n *CsgNode) *CsgLeaf {
	g, _ := b.evaluator.getResult(n.Source)
	return &CsgLeaf{Geom: g, Label: fmt.Sprintf("%s#%d(group)", n.Source.Kind(), n.Source.Index)}
}

// collectUnionLeaves returns n's leaves if n is a leaf or a (possibly
// nested) pure union of leaves, or nil if n contains any intersection/
// difference structure that can't be flattened this way.
func collectUnionLeaves(n *CsgNode) []*CsgLeaf {
	if n.Background {
		return []*CsgLeaf{}
	}
	if n.Leaf != nil {
		return []*CsgLeaf{n.Leaf}
	}
	if n.Op != CsgUnion {
		return nil
	}
	var out []*CsgLeaf
	for _, c := range n.Children {
		sub := collectUnionLeaves(c)
		if sub == nil {
			return nil
		}
		out = append(out, sub...)
	}
	return out
}

func mergeProduct(a, c *CsgProduct) *CsgProduct {
	return &CsgProduct{
		Positives:    append(append([]*CsgLeaf{}, a.Positives...), c.Positives...),
		Subtractions: append(append([]*CsgLeaf{}, a.Subtractions...), c.Subtractions...),
		Highlight:    a.Highlight || c.Highlight,
	}
}

func mergeAllProducts(products []*CsgProduct) *CsgProduct {
	merged := &CsgProduct{}
	for _, p := range products {
		merged.Positives = append(merged.Positives, p.Positives...)
		merged.Subtractions = append(merged.Subtractions, p.Subtractions...)
		merged.Highlight = merged.Highlight || p.Highlight
	}
	return merged
}
