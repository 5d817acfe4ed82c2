package csgcore

// RGBA represents a color with red, green, blue, and alpha components.
// Each component is in the range [0, 1]. Tags colors onto faces/outlines
// (node.go's Color payload, geometry.go's Face3D/Outline2D), never
// round-tripped through image/color: the egress writers in export/
// scale components to their own target range directly.
type RGBA struct {
	R, G, B, A float64
}
