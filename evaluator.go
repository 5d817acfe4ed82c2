package csgcore

import (
	"sync"
	"sync/atomic"

	"github.com/openscad-go/csgcore/cache"
)

// Evaluator is the central visitor (§4.5): for each node kind it defines
// how the node's geometry is computed from its children's geometries,
// consulting the geometry and kernel caches so that repeated evaluation
// of unchanged subtrees (incremental recompiles, instanced children)
// never recomputes a cache-hit subtree.
//
// An Evaluator is not safe to reuse across two concurrent Evaluate calls
// sharing a single Tree (the results map is keyed by node pointer), but
// is safe to drive a single EvaluateParallel traversal, since the node
// tree it operates on is itself immutable.
type Evaluator struct {
	cfg    Config
	kernel BooleanKernel

	geomCache   *cache.Cache[Geometry]
	kernelCache *cache.Cache[Nef3]

	mu      sync.Mutex
	results map[*Node]Geometry

	warnMu   sync.Mutex
	warnings []*EvalError

	cancelled atomic.Bool
	progress  func(nodeIndex int) bool
}

// NewEvaluator builds an Evaluator over the given configuration. A nil
// kernel falls back to the module's reference BSP/Greiner-Hormann
// kernel (kernel_mesh3d.go, kernel_poly2d.go).
func NewEvaluator(cfg Config, kernel BooleanKernel) *Evaluator {
	if kernel == nil {
		kernel = NewReferenceKernel()
	}
	return &Evaluator{
		cfg:         cfg,
		kernel:      kernel,
		geomCache:   cache.New[Geometry](cfg.GeometryCacheBytes),
		kernelCache: cache.New[Nef3](cfg.KernelCacheBytes),
		results:     make(map[*Node]Geometry),
	}
}

// SetProgress installs a cooperative cancellation callback, invoked once
// per node at prefix time with the node's index; returning false aborts
// the traversal (§5's cancellation model).
func (e *Evaluator) SetProgress(fn func(nodeIndex int) bool) {
	e.progress = fn
}

// Warnings returns the non-fatal evaluation warnings accumulated so far
// (§7's degrade-and-continue error kinds, everything but Cancelled).
func (e *Evaluator) Warnings() []*EvalError {
	e.warnMu.Lock()
	defer e.warnMu.Unlock()
	return append([]*EvalError(nil), e.warnings...)
}

// GeometryCacheStats and KernelCacheStats expose the two caches' hit
// rates and occupancy for diagnostics.
func (e *Evaluator) GeometryCacheStats() cache.Stats { return e.geomCache.Stats() }
func (e *Evaluator) KernelCacheStats() cache.Stats   { return e.kernelCache.Stats() }

// Evaluate runs a single-threaded traversal of tree and returns the
// root's geometry, or (Empty, AbortTraversal) if cancelled.
func (e *Evaluator) Evaluate(tree *Tree) (Geometry, TraversalResult) {
	return e.run(tree, func(root *Node, state State) TraversalResult {
		return Walk(root, state, e)
	})
}

// EvaluateParallel runs a parallel-postfix traversal (§5) sized to
// workers (0 or negative means hardware concurrency).
func (e *Evaluator) EvaluateParallel(tree *Tree, workers int) (Geometry, TraversalResult) {
	return e.run(tree, func(root *Node, state State) TraversalResult {
		return WalkParallel(root, state, e, workers)
	})
}

func (e *Evaluator) run(tree *Tree, walk func(*Node, State) TraversalResult) (Geometry, TraversalResult) {
	if tree == nil || tree.Root == nil {
		return Empty, ContinueTraversal
	}
	state := RootState()
	result := walk(tree.Root, state)
	if result == AbortTraversal {
		return Empty, AbortTraversal
	}
	g, _ := e.getResult(tree.Root)
	return g, ContinueTraversal
}

// childResult pairs a child node with its already-evaluated geometry,
// so postfix combination logic can see each child's tags (background,
// highlight) alongside its geometry.
type childResult struct {
	node *Node
	geom Geometry
}

// evalOutcome is a node's computed geometry plus, when the computation
// passed through the boolean kernel, the intermediate Nef3 it produced
// — kept so postfix cache insertion can prefer the kernel cache for
// kernel-form results (§4.5's "smart" insertion rule).
type evalOutcome struct {
	Geom Geometry
	Nef  *Nef3
}

// Visit implements Visitor. Prefix checks both caches and prunes on
// hit; postfix computes the node's geometry from its children's already-
// computed results and installs it into whichever cache fits.
func (e *Evaluator) Visit(state State, n *Node) TraversalResult {
	if state.Phase == PhasePrefix {
		return e.visitPrefix(n)
	}
	return e.visitPostfix(state, n)
}

func (e *Evaluator) visitPrefix(n *Node) TraversalResult {
	if e.cancelled.Load() {
		return AbortTraversal
	}
	if e.progress != nil && !e.progress(n.Index) {
		e.cancelled.Store(true)
		return AbortTraversal
	}

	fp := Fingerprint(n)
	if g, ok := e.geomCache.Get(fp); ok {
		e.setResult(n, g)
		return PruneTraversal
	}
	if nef, ok := e.kernelCache.Get(fp); ok {
		if ps, ok2 := e.kernel.PolySetFromNef(nef); ok2 {
			e.setResult(n, NewPolySet3DGeometry(ps))
			return PruneTraversal
		}
	}
	return ContinueTraversal
}

func (e *Evaluator) visitPostfix(state State, n *Node) TraversalResult {
	children := e.childResults(n)
	outcome := e.evalNode(state, n, children)
	e.setResult(n, outcome.Geom)
	e.installCache(Fingerprint(n), state, n, outcome)
	return ContinueTraversal
}

func (e *Evaluator) childResults(n *Node) []childResult {
	out := make([]childResult, len(n.Children))
	for i, c := range n.Children {
		g, _ := e.getResult(c)
		out[i] = childResult{node: c, geom: g}
	}
	return out
}

func (e *Evaluator) getResult(n *Node) (Geometry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.results[n]
	return g, ok
}

func (e *Evaluator) setResult(n *Node, g Geometry) {
	e.mu.Lock()
	e.results[n] = g
	e.mu.Unlock()
}

// installCache applies the "smart" insertion rule: a kernel-form result
// (the node's computation produced a Nef3 along the way) goes to the
// kernel cache; everything else goes to the geometry cache. Empty
// results are not cached (nothing is gained by a hit on Empty).
func (e *Evaluator) installCache(fp string, state State, n *Node, outcome evalOutcome) {
	if outcome.Nef != nil && !outcome.Nef.IsEmpty() {
		if !e.kernelCache.Insert(fp, *outcome.Nef) {
			e.warn(n, CacheOverflow, "kernel cache entry exceeds budget, not cached")
		}
		return
	}
	if outcome.Geom.IsEmpty() {
		return
	}
	if !e.geomCache.Insert(fp, outcome.Geom) {
		e.warn(n, CacheOverflow, "geometry cache entry exceeds budget, not cached")
	}
}

// evalNode dispatches to the node-kind-specific evaluation rule.
func (e *Evaluator) evalNode(state State, n *Node, children []childResult) evalOutcome {
	switch p := n.Payload.(type) {
	case Primitive2D:
		return evalOutcome{Geom: NewPolygon2DGeometry(evalPrimitive2D(p, e.cfg))}
	case Primitive3D:
		return evalOutcome{Geom: NewPolySet3DGeometry(evalPrimitive3D(p, e.cfg))}
	case CsgOp:
		return e.evalCsgOp(n, p, children)
	case AdvCsgOp:
		return e.evalAdvOp(n, p, children)
	case Transform:
		return e.evalTransform(n, p, children)
	case Color:
		return e.evalColor(n, p, children)
	case LinearExtrude:
		return e.evalLinearExtrude(n, p, children)
	case RotateExtrude:
		return e.evalRotateExtrude(n, p, children)
	case Projection:
		return e.evalProjection(n, p, children)
	case Render:
		g, nef := e.unionChildren(n, children)
		return evalOutcome{Geom: g, Nef: nef}
	case Root, Group, List:
		g, nef := e.unionChildren(n, children)
		return evalOutcome{Geom: g, Nef: nef}
	default:
		return evalOutcome{Geom: Empty}
	}
}

func (e *Evaluator) warn(n *Node, kind ErrorKind, format string, args ...any) {
	err := newEvalError(kind, n.Index, format, args...)
	e.warnMu.Lock()
	e.warnings = append(e.warnings, err)
	e.warnMu.Unlock()
	if kind == KernelFailure {
		Logger().Error(err.Message, "kind", kind.String(), "node", n.Index)
		return
	}
	Logger().Warn(err.Message, "kind", kind.String(), "node", n.Index)
}

func nonBackground(children []childResult) []childResult {
	out := make([]childResult, 0, len(children))
	for _, c := range children {
		if !c.node.Tags.Background {
			out = append(out, c)
		}
	}
	return out
}
