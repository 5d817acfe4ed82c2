package csgcore

// NodeKind identifies the variant payload carried by a Node, mirroring
// the tagged union in the data model: every non-leaf variant is a
// function of its children's geometries only.
type NodeKind uint8

const (
	KindPrimitive3D NodeKind = iota
	KindPrimitive2D
	KindCsgOp
	KindAdvCsgOp
	KindTransform
	KindColor
	KindLinearExtrude
	KindRotateExtrude
	KindProjection
	KindRender
	KindRoot
	KindGroup
	KindList
)

// String returns the kind's name, used by the fingerprint builder and
// by diagnostics.
func (k NodeKind) String() string {
	switch k {
	case KindPrimitive3D:
		return "primitive3d"
	case KindPrimitive2D:
		return "primitive2d"
	case KindCsgOp:
		return "csgop"
	case KindAdvCsgOp:
		return "advcsgop"
	case KindTransform:
		return "transform"
	case KindColor:
		return "color"
	case KindLinearExtrude:
		return "linear_extrude"
	case KindRotateExtrude:
		return "rotate_extrude"
	case KindProjection:
		return "projection"
	case KindRender:
		return "render"
	case KindRoot:
		return "root"
	case KindGroup:
		return "group"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// BooleanOp identifies a boolean CSG operator.
type BooleanOp uint8

const (
	OpUnion BooleanOp = iota
	OpIntersection
	OpDifference
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	default:
		return "unknown"
	}
}

// AdvOp identifies a non-boolean combining operator.
type AdvOp uint8

const (
	OpMinkowski AdvOp = iota
	OpHull
	OpResize
)

func (op AdvOp) String() string {
	switch op {
	case OpMinkowski:
		return "minkowski"
	case OpHull:
		return "hull"
	case OpResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Primitive3DKind identifies which 3D primitive a Primitive3D node
// produces.
type Primitive3DKind uint8

const (
	Cube Primitive3DKind = iota
	Sphere
	Cylinder
	Polyhedron
)

// Primitive2DKind identifies which 2D primitive a Primitive2D node
// produces.
type Primitive2DKind uint8

const (
	Square Primitive2DKind = iota
	Circle
	Polygon
)

// ModInst carries the three user-assignable tags a node may have:
// background (shown in preview, excluded from output), highlight
// (shown with a special preview color), and root-mark (restricts
// output to root-marked subtrees when present anywhere in the tree).
type ModInst struct {
	Background bool
	Highlight  bool
	RootMark   bool
}

// Payload is the sealed interface implemented by every node variant.
// The unexported marker method closes the set of types satisfying it
// to those declared in this package, giving the evaluator an exhaustive
// switch instead of open dynamic dispatch.
type Payload interface {
	nodeKind() NodeKind
}

// Primitive3D is a leaf producing a 3D mesh directly.
type Primitive3D struct {
	Kind   Primitive3DKind
	Params PrimitiveParams
}

func (Primitive3D) nodeKind() NodeKind { return KindPrimitive3D }

// Primitive2D is a leaf producing a 2D polygon set directly.
type Primitive2D struct {
	Kind   Primitive2DKind
	Params PrimitiveParams
}

func (Primitive2D) nodeKind() NodeKind { return KindPrimitive2D }

// PrimitiveParams is the union of parameters needed by any primitive.
// Only the fields relevant to the primitive's Kind are meaningful;
// this keeps the node tree a flat struct tree rather than requiring a
// further variant for every primitive shape, matching the "params"
// field named generically in the data model.
type PrimitiveParams struct {
	// Cube / Square
	Size   Vec3 // square uses X, Y
	Center bool

	// Sphere / Cylinder
	Radius  float64
	Radius2 float64 // cylinder top radius (r2); equals Radius for a plain cylinder
	Height  float64

	// Circle
	// Radius reused.

	// Polygon / Polyhedron
	Points2D [][2]float64
	Points3D []Vec3
	Paths    [][]int // polygon: indices of Points2D forming each outline
	Faces    [][]int // polyhedron: indices of Points3D forming each face

	// Fragment discretization (resolved fa/fs/fn for this node).
	Fn int
	Fa float64
	Fs float64
}

// CsgOp combines its children with a boolean operator.
type CsgOp struct {
	Op BooleanOp
}

func (CsgOp) nodeKind() NodeKind { return KindCsgOp }

// AdvCsgOp combines its children with a non-boolean operator.
type AdvCsgOp struct {
	Op AdvOp

	// Resize
	NewSize  Vec3
	AutoSize [3]bool
}

func (AdvCsgOp) nodeKind() NodeKind { return KindAdvCsgOp }

// Transform applies a 4x4 affine matrix to the union of its children.
type Transform struct {
	Matrix Affine
}

func (Transform) nodeKind() NodeKind { return KindTransform }

// Color tags its children's geometry with an rgba color.
type Color struct {
	RGBA RGBA
}

func (Color) nodeKind() NodeKind { return KindColor }

// LinearExtrude builds a 3D mesh from the 2D union of its children.
// Scale is the top cross-section's X/Y scale factor relative to the
// bottom; 1 means no scaling, and 0 is a genuine degenerate taper to a
// point/line on that axis (the top cap is omitted in that case) — it is
// not a sentinel for "unset". Callers that want "no scaling" must set
// Scale to {1, 1} explicitly.
type LinearExtrude struct {
	Height float64
	Twist  float64 // degrees
	Scale  [2]float64
	Slices int
	Center bool
}

func (LinearExtrude) nodeKind() NodeKind { return KindLinearExtrude }

// RotateExtrude revolves children's 2D union around the Z axis.
type RotateExtrude struct {
	Angle     float64 // degrees, 360 = full revolution
	Fragments int     // resolved fragment count for a full circle
}

func (RotateExtrude) nodeKind() NodeKind { return KindRotateExtrude }

// Projection reduces 3D children's union to a 2D polygon set.
type Projection struct {
	Cut bool
}

func (Projection) nodeKind() NodeKind { return KindProjection }

// Render is a structural union node that additionally requests the
// kernel-preferring evaluation path for its descendants.
type Render struct{}

func (Render) nodeKind() NodeKind { return KindRender }

// Root is the structural root of a tree; defaults to union semantics.
type Root struct{}

func (Root) nodeKind() NodeKind { return KindRoot }

// Group is a structural union node.
type Group struct{}

func (Group) nodeKind() NodeKind { return KindGroup }

// List is a structural flatten point. The evaluator unions its children
// exactly like Group; their geometries are not kept as distinct
// artifacts.
type List struct{}

func (List) nodeKind() NodeKind { return KindList }

// Node is a node in the scene graph. Every node has a stable integer
// index unique within its tree, an ordered list of owned children, an
// optional ModInst, and a variant Payload identifying its kind.
//
// Node indices are consecutive from 1 and must not collide within a
// tree; the tree is a DAG only by de-duplication through caching, never
// through shared ownership in the tree itself.
type Node struct {
	Index    int
	Children []*Node
	Tags     ModInst
	Payload  Payload
}

// Kind returns the node's variant kind.
func (n *Node) Kind() NodeKind {
	return n.Payload.nodeKind()
}

// Is2DPrimitive reports whether n is a leaf that directly produces 2D
// geometry.
func (n *Node) Is2DPrimitive() bool {
	_, ok := n.Payload.(Primitive2D)
	return ok
}

// Is3DPrimitive reports whether n is a leaf that directly produces 3D
// geometry.
func (n *Node) Is3DPrimitive() bool {
	_, ok := n.Payload.(Primitive3D)
	return ok
}

// IsTagged reports whether n carries any of the three user tags. Tagged
// nodes are never flattened into their parents by the normalizer and
// never dropped.
func (n *Node) IsTagged() bool {
	return n.Tags.Background || n.Tags.Highlight || n.Tags.RootMark
}

// Tree owns an immutable node tree rooted at Root. It is constructed by
// an external script evaluator (out of scope here) and discarded
// wholesale on recompile.
type Tree struct {
	Root *Node
}

// NewTree wraps an already-constructed, already-indexed node as a Tree
// handle.
func NewTree(root *Node) *Tree {
	return &Tree{Root: root}
}

// Builder assigns consecutive indices (starting at 1) to nodes as they
// are constructed, matching the invariant that node indices are
// consecutive and collision-free within a tree. It is the idiomatic way
// to build a tree for tests and for the CLI driver's placeholder input
// without a real script evaluator.
type Builder struct {
	next int
}

// NewBuilder creates a fresh index-assigning Builder.
func NewBuilder() *Builder {
	return &Builder{next: 1}
}

// Node constructs a node with the next index, the given payload, and
// children, with no tags.
func (b *Builder) Node(payload Payload, children ...*Node) *Node {
	n := &Node{Index: b.next, Payload: payload, Children: children}
	b.next++
	return n
}

// Tagged constructs a node like Node but with explicit ModInst tags.
func (b *Builder) Tagged(payload Payload, tags ModInst, children ...*Node) *Node {
	n := b.Node(payload, children...)
	n.Tags = tags
	return n
}
