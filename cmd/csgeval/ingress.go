// Command csgeval is the thin external driver described in §6: it
// reads a node tree, runs it through the evaluator, and writes one of
// the egress formats. The core has no script-language frontend (§4.1
// notes trees are "constructed by an external script evaluator, out of
// scope"), so this driver's ingress format is a direct JSON encoding of
// the node tree itself, assembled into real Node values via node.go's
// Builder.
package main

import (
	"encoding/json"
	"fmt"

	csg "github.com/openscad-go/csgcore"
)

// treeDoc is the on-disk JSON shape: a recursive node description
// mirroring the Payload variants in node.go, with only the fields each
// kind actually uses populated.
type treeDoc struct {
	Kind     string          `json:"kind"`
	Tags     tagsDoc         `json:"tags,omitempty"`
	Children []treeDoc       `json:"children,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

type tagsDoc struct {
	Background bool `json:"background,omitempty"`
	Highlight  bool `json:"highlight,omitempty"`
	RootMark   bool `json:"root_mark,omitempty"`
}

func (t tagsDoc) toModInst() csg.ModInst {
	return csg.ModInst{Background: t.Background, Highlight: t.Highlight, RootMark: t.RootMark}
}

// primitiveDoc covers every field any primitive or op might need; only
// the ones relevant to Kind are read.
type primitiveDoc struct {
	Size      [3]float64    `json:"size"`
	Center    bool          `json:"center"`
	Radius    float64       `json:"radius"`
	Radius2   float64       `json:"radius2"`
	Height    float64       `json:"height"`
	Points2D  [][2]float64  `json:"points2d"`
	Points3D  [][3]float64  `json:"points3d"`
	Paths     [][]int       `json:"paths"`
	Faces     [][]int       `json:"faces"`
	Fn        int           `json:"fn"`
	Fa        float64       `json:"fa"`
	Fs        float64       `json:"fs"`
	Op        string        `json:"op"`
	Matrix    [4][4]float64 `json:"matrix"`
	Color     [4]float64    `json:"color"`
	Twist     float64       `json:"twist"`
	Scale     *[2]float64   `json:"scale,omitempty"`
	Slices    int           `json:"slices"`
	Angle     float64       `json:"angle"`
	Fragments int           `json:"fragments"`
	Cut       bool          `json:"cut"`
	NewSize   [3]float64    `json:"new_size"`
	AutoSize  [3]bool       `json:"auto_size"`
}

func decodeParams(raw json.RawMessage) (primitiveDoc, error) {
	var p primitiveDoc
	if len(raw) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("decoding params: %w", err)
	}
	return p, nil
}

// buildTree walks a treeDoc and builds a *csg.Tree, returning a parse
// error (exit code 2 territory) for any unknown kind, matching §4.1's
// "unknown variants are a hard error".
func buildTree(doc *treeDoc) (*csg.Tree, error) {
	b := csg.NewBuilder()
	root, err := buildNode(b, doc)
	if err != nil {
		return nil, err
	}
	return csg.NewTree(root), nil
}

func buildNode(b *csg.Builder, doc *treeDoc) (*csg.Node, error) {
	p, err := decodeParams(doc.Params)
	if err != nil {
		return nil, err
	}

	children := make([]*csg.Node, 0, len(doc.Children))
	for i := range doc.Children {
		c, err := buildNode(b, &doc.Children[i])
		if err != nil {
			return nil, err
		}
		children = append(children, c)
	}

	payload, err := buildPayload(doc.Kind, p)
	if err != nil {
		return nil, err
	}
	return b.Tagged(payload, doc.Tags.toModInst(), children...), nil
}

func buildPayload(kind string, p primitiveDoc) (csg.Payload, error) {
	switch kind {
	case "cube":
		return csg.Primitive3D{Kind: csg.Cube, Params: primParams(p)}, nil
	case "sphere":
		return csg.Primitive3D{Kind: csg.Sphere, Params: primParams(p)}, nil
	case "cylinder":
		return csg.Primitive3D{Kind: csg.Cylinder, Params: primParams(p)}, nil
	case "polyhedron":
		return csg.Primitive3D{Kind: csg.Polyhedron, Params: primParams(p)}, nil
	case "square":
		return csg.Primitive2D{Kind: csg.Square, Params: primParams(p)}, nil
	case "circle":
		return csg.Primitive2D{Kind: csg.Circle, Params: primParams(p)}, nil
	case "polygon":
		return csg.Primitive2D{Kind: csg.Polygon, Params: primParams(p)}, nil
	case "union":
		return csg.CsgOp{Op: csg.OpUnion}, nil
	case "intersection":
		return csg.CsgOp{Op: csg.OpIntersection}, nil
	case "difference":
		return csg.CsgOp{Op: csg.OpDifference}, nil
	case "minkowski":
		return csg.AdvCsgOp{Op: csg.OpMinkowski}, nil
	case "hull":
		return csg.AdvCsgOp{Op: csg.OpHull}, nil
	case "resize":
		return csg.AdvCsgOp{
			Op:       csg.OpResize,
			NewSize:  csg.V3(p.NewSize[0], p.NewSize[1], p.NewSize[2]),
			AutoSize: p.AutoSize,
		}, nil
	case "transform":
		return csg.Transform{Matrix: csg.Affine{M: p.Matrix}}, nil
	case "color":
		return csg.Color{RGBA: csg.RGBA{R: p.Color[0], G: p.Color[1], B: p.Color[2], A: p.Color[3]}}, nil
	case "linear_extrude":
		scale := [2]float64{1, 1}
		if p.Scale != nil {
			scale = *p.Scale
		}
		return csg.LinearExtrude{Height: p.Height, Twist: p.Twist, Scale: scale, Slices: p.Slices, Center: p.Center}, nil
	case "rotate_extrude":
		return csg.RotateExtrude{Angle: p.Angle, Fragments: p.Fragments}, nil
	case "projection":
		return csg.Projection{Cut: p.Cut}, nil
	case "render":
		return csg.Render{}, nil
	case "group":
		return csg.Group{}, nil
	case "list":
		return csg.List{}, nil
	case "root", "":
		return csg.Root{}, nil
	default:
		return nil, fmt.Errorf("unknown node kind %q", kind)
	}
}

func primParams(p primitiveDoc) csg.PrimitiveParams {
	pts3 := make([]csg.Vec3, len(p.Points3D))
	for i, v := range p.Points3D {
		pts3[i] = csg.V3(v[0], v[1], v[2])
	}
	return csg.PrimitiveParams{
		Size:     csg.V3(p.Size[0], p.Size[1], p.Size[2]),
		Center:   p.Center,
		Radius:   p.Radius,
		Radius2:  p.Radius2,
		Height:   p.Height,
		Points2D: p.Points2D,
		Points3D: pts3,
		Paths:    p.Paths,
		Faces:    p.Faces,
		Fn:       p.Fn,
		Fa:       p.Fa,
		Fs:       p.Fs,
	}
}
