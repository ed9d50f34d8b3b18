// Package model converts parsed MMD models into right-handed skinned-mesh
// assets: geometry, toon materials, a bone tree and an optional outline.
package model

import "sync"

// MaterialRange is a contiguous run of the index buffer drawn with one
// material.
type MaterialRange struct {
	Start         int // first index
	Count         int // index count, three per triangle
	MaterialIndex int
}

// Bounds holds the axis-aligned bounding box of the model.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the midpoint of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Geometry holds flat vertex attribute arrays ready for GPU upload.
type Geometry struct {
	Positions   []float32 // 3 per vertex
	Normals     []float32 // 3 per vertex
	UVs         []float32 // 2 per vertex
	SkinIndices []uint32  // 4 per vertex
	SkinWeights []float32 // 4 per vertex
	Indices     []uint32  // 3 per triangle, counter-clockwise
	Ranges      []MaterialRange
	Bounds      Bounds
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Asset is a fully assembled skinned-mesh model.
type Asset struct {
	Name      string
	Geometry  *Geometry
	Materials []*Material
	Skeleton  *Skeleton
	Outline   *Outline // nil when no material draws an edge

	// Textures delivers asynchronously loaded textures. Hosts call
	// Textures.Apply(asset.Materials) once per tick.
	Textures *TextureResolver

	releaseOnce sync.Once
}

// Release cancels pending texture loads and drops every part of the asset.
// It is safe to call more than once.
func (a *Asset) Release() {
	a.releaseOnce.Do(func() {
		if a.Textures != nil {
			a.Textures.Close()
		}
		a.Geometry = nil
		a.Materials = nil
		a.Skeleton = nil
		a.Outline = nil
	})
}

// Stats summarizes an asset for diagnostics.
type Stats struct {
	Vertices    int
	Triangles   int
	Materials   int
	Bones       int
	DoubleSided int
	Edged       int
	Faces       int // materials classified as face
	Transparent int
}

// Summarize counts the parts of an asset.
func Summarize(a *Asset) Stats {
	var s Stats
	if a.Geometry != nil {
		s.Vertices = a.Geometry.VertexCount()
		s.Triangles = a.Geometry.TriangleCount()
	}
	if a.Skeleton != nil {
		s.Bones = len(a.Skeleton.Bones)
	}
	s.Materials = len(a.Materials)
	for _, m := range a.Materials {
		if m.Side == SideDouble {
			s.DoubleSided++
		}
		if m.Edge {
			s.Edged++
		}
		if m.IsFace {
			s.Faces++
		}
		if m.Transparent {
			s.Transparent++
		}
	}
	return s
}

func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min[0] {
		b.Min[0] = p[0]
	}
	if p[1] < b.Min[1] {
		b.Min[1] = p[1]
	}
	if p[2] < b.Min[2] {
		b.Min[2] = p[2]
	}
	if p[0] > b.Max[0] {
		b.Max[0] = p[0]
	}
	if p[1] > b.Max[1] {
		b.Max[1] = p[1]
	}
	if p[2] > b.Max[2] {
		b.Max[2] = p[2]
	}
}
