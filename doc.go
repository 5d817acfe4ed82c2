// Package csgcore implements the geometry evaluation engine of a
// constructive-solid-geometry modeler in the OpenSCAD family.
//
// # Overview
//
// csgcore takes an immutable node tree (the parsed scene graph: primitives,
// boolean operators, transforms, extrusions, and grouping nodes) and reduces
// it to concrete 2D polygon sets or 3D polygonal meshes. The pipeline is:
//
//	node tree -> normalizer -> evaluator (traversal + fingerprint + caches + kernel) -> geometry
//
// In parallel, a second visitor builds a CSG product tree (sum-of-products of
// boolean leaves) used for interactive depth-peeling preview.
//
// # Scope
//
// This package owns tree normalization, fingerprinting, caching, traversal,
// and the geometry evaluator. The script parser that produces the initial
// node tree, the GPU rasterizer, and file format importers are external
// collaborators and are not implemented here. The boolean kernel (BooleanKernel)
// is specified as a narrow interface; a reference implementation is provided
// in kernel_poly2d.go and kernel_mesh3d.go but any conforming implementation
// may be substituted by passing it to NewEvaluator.
//
// # Quick Start
//
//	tree := csgcore.NewTree(csgcore.Normalize(root))
//	ev := csgcore.NewEvaluator(csgcore.DefaultConfig(), nil) // nil: reference kernel
//	geom, result := ev.Evaluate(tree)
//	warnings := ev.Warnings()
//
// # Architecture
//
//   - Node tree: node.go
//   - Normalizer: normalizer.go
//   - Fingerprint builder: fingerprint.go
//   - Caches: cache/ (byte-bounded content-addressed LRU)
//   - Traversal framework: traversal.go (sequential), traversal_parallel.go (parallel postfix scheduling)
//   - Geometry evaluator: evaluator.go, eval_*.go
//   - CSG tree builder/normalizer (preview): csgtree.go
//   - Boolean kernel contract: kernel.go
//   - Exporters: export/
package csgcore
