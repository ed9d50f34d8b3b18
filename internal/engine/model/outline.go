package model

import "github.com/Faultbox/midgard-mmd/pkg/pmx"

// DefaultOutlineScale converts MMD edge size to model units.
const DefaultOutlineScale = 0.002

// OutlineMaterial is the inverted-hull material for one source material.
// Disabled entries keep their slot so ranges line up, with zero thickness
// and opacity.
type OutlineMaterial struct {
	Index       int
	Enabled     bool
	Color       [3]float32
	Opacity     float32
	Thickness   float32 // extrusion along the vertex normal
	Side        Side
	Transparent bool
}

// Outline is a second draw of the asset geometry, back faces only,
// extruded along normals and drawn before the model.
type Outline struct {
	Geometry    *Geometry // shared with the asset
	Skeleton    *Skeleton // shared with the asset
	Materials   []OutlineMaterial
	RenderOrder int
}

// BuildOutline returns the outline for materials with the edge flag set,
// or nil when none has it.
func BuildOutline(geo *Geometry, skel *Skeleton, src []pmx.Material, scale float32) *Outline {
	materials := make([]OutlineMaterial, len(src))
	hasEdge := false
	for i := range src {
		m := &src[i]
		enabled := m.Flag.Has(pmx.FlagEdge)
		om := OutlineMaterial{
			Index:       i,
			Enabled:     enabled,
			Color:       [3]float32{m.EdgeColor[0], m.EdgeColor[1], m.EdgeColor[2]},
			Side:        SideBack,
			Transparent: true,
		}
		if enabled {
			hasEdge = true
			om.Thickness = m.EdgeSize * scale
			om.Opacity = m.EdgeColor[3]
		}
		materials[i] = om
	}
	if !hasEdge {
		return nil
	}
	return &Outline{
		Geometry:    geo,
		Skeleton:    skel,
		Materials:   materials,
		RenderOrder: -1,
	}
}
