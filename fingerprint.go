package csgcore

import (
	"strconv"
	"strings"

	icache "github.com/openscad-go/csgcore/internal/cache"
)

// fpMemo caches fingerprints by node pointer identity so that repeated
// traversals over the same tree (normalizer, evaluator, CSG builder) do
// not recompute a subtree's fingerprint string from scratch. Entries are
// invalidated implicitly: a node's children are never mutated in place
// after construction (the normalizer builds new nodes), so a pointer's
// fingerprint is stable for the node's lifetime.
var fpMemo = icache.New[*Node, string](1 << 16)

// Fingerprint produces a canonical, whitespace-free string for the
// subtree rooted at n, such that structurally equivalent subtrees
// (same node kinds, same parameters, same child fingerprints, in the
// same order) produce equal strings. Node indices, source locations,
// and user-facing identifiers are never included.
//
// fingerprint(a) == fingerprint(b) implies evaluating a and b yields
// equal geometries; the converse need not hold.
func Fingerprint(n *Node) string {
	if n == nil {
		return ""
	}
	if s, ok := fpMemo.Get(n); ok {
		return s
	}
	var b strings.Builder
	writeFingerprint(&b, n)
	s := b.String()
	fpMemo.Set(n, s)
	return s
}

func writeFingerprint(b *strings.Builder, n *Node) {
	b.WriteString(n.Kind().String())
	writePayload(b, n.Payload)
	if n.Tags.Background {
		b.WriteString("!bg")
	}
	if n.Tags.Highlight {
		b.WriteString("!hl")
	}
	if n.Tags.RootMark {
		b.WriteString("!root")
	}
	b.WriteByte('[')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(',')
		}
		writeFingerprint(b, c)
	}
	b.WriteByte(']')
}

func writePayload(b *strings.Builder, p Payload) {
	switch v := p.(type) {
	case Primitive3D:
		b.WriteByte('(')
		writeInt(b, int(v.Kind))
		writeParams(b, v.Params)
		b.WriteByte(')')
	case Primitive2D:
		b.WriteByte('(')
		writeInt(b, int(v.Kind))
		writeParams(b, v.Params)
		b.WriteByte(')')
	case CsgOp:
		b.WriteByte('(')
		b.WriteString(v.Op.String())
		b.WriteByte(')')
	case AdvCsgOp:
		b.WriteByte('(')
		b.WriteString(v.Op.String())
		writeFloat(b, v.NewSize.X)
		writeFloat(b, v.NewSize.Y)
		writeFloat(b, v.NewSize.Z)
		for _, a := range v.AutoSize {
			if a {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte(')')
	case Transform:
		b.WriteByte('(')
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				writeFloat(b, v.Matrix.M[i][j])
			}
		}
		b.WriteByte(')')
	case Color:
		b.WriteByte('(')
		writeFloat(b, v.RGBA.R)
		writeFloat(b, v.RGBA.G)
		writeFloat(b, v.RGBA.B)
		writeFloat(b, v.RGBA.A)
		b.WriteByte(')')
	case LinearExtrude:
		b.WriteByte('(')
		writeFloat(b, v.Height)
		writeFloat(b, v.Twist)
		writeFloat(b, v.Scale[0])
		writeFloat(b, v.Scale[1])
		writeInt(b, v.Slices)
		writeBool(b, v.Center)
		b.WriteByte(')')
	case RotateExtrude:
		b.WriteByte('(')
		writeFloat(b, v.Angle)
		writeInt(b, v.Fragments)
		b.WriteByte(')')
	case Projection:
		b.WriteByte('(')
		writeBool(b, v.Cut)
		b.WriteByte(')')
	default:
		// Render, Root, Group, List: no parameters.
	}
}

func writeParams(b *strings.Builder, p PrimitiveParams) {
	writeFloat(b, p.Size.X)
	writeFloat(b, p.Size.Y)
	writeFloat(b, p.Size.Z)
	writeBool(b, p.Center)
	writeFloat(b, p.Radius)
	writeFloat(b, p.Radius2)
	writeFloat(b, p.Height)
	writeInt(b, p.Fn)
	writeFloat(b, p.Fa)
	writeFloat(b, p.Fs)
	for _, pt := range p.Points2D {
		writeFloat(b, pt[0])
		writeFloat(b, pt[1])
	}
	for _, pt := range p.Points3D {
		writeFloat(b, pt.X)
		writeFloat(b, pt.Y)
		writeFloat(b, pt.Z)
	}
	for _, path := range p.Paths {
		b.WriteByte('{')
		for _, idx := range path {
			writeInt(b, idx)
		}
		b.WriteByte('}')
	}
	for _, face := range p.Faces {
		b.WriteByte('{')
		for _, idx := range face {
			writeInt(b, idx)
		}
		b.WriteByte('}')
	}
}

func writeInt(b *strings.Builder, v int) {
	b.WriteString(strconv.Itoa(v))
	b.WriteByte(';')
}

func writeFloat(b *strings.Builder, v float64) {
	b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	b.WriteByte(';')
}

func writeBool(b *strings.Builder, v bool) {
	if v {
		b.WriteByte('1')
	} else {
		b.WriteByte('0')
	}
	b.WriteByte(';')
}
