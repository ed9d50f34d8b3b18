package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-mmd/pkg/math"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

// ErrMaterialRangeMismatch is returned when material face counts do not
// add up to the index buffer.
var ErrMaterialRangeMismatch = errors.New("material face counts do not cover the index buffer")

// BuildGeometry converts source vertices and faces to right-handed,
// counter-clockwise geometry with normalized skin weights.
//
// Positions and normals have Z negated, UV v becomes 1-v (textures are
// flipped to match), and each face (a, b, c) is emitted as (a, c, b).
func BuildGeometry(m *pmx.Model) (*Geometry, error) {
	n := len(m.Vertices)
	if n == 0 {
		return nil, pmx.ErrNoVertices
	}

	geo := &Geometry{
		Positions:   make([]float32, n*3),
		Normals:     make([]float32, n*3),
		UVs:         make([]float32, n*2),
		SkinIndices: make([]uint32, n*4),
		SkinWeights: make([]float32, n*4),
		Indices:     make([]uint32, 0, len(m.Faces)*3),
		Bounds:      emptyBounds(),
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]

		pos := math.Vec3From(v.Position).FlipZ().Array()
		copy(geo.Positions[i*3:], pos[:])
		updateBounds(&geo.Bounds, pos)

		normal := math.Vec3From(v.Normal).FlipZ().Array()
		copy(geo.Normals[i*3:], normal[:])

		geo.UVs[i*2] = v.UV[0]
		geo.UVs[i*2+1] = 1 - v.UV[1]

		indices, weights, err := SkinWeights(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		copy(geo.SkinIndices[i*4:], indices[:])
		copy(geo.SkinWeights[i*4:], weights[:])
	}

	for i, f := range m.Faces {
		if f[0] >= uint32(n) || f[1] >= uint32(n) || f[2] >= uint32(n) {
			return nil, fmt.Errorf("face %d: %w", i, pmx.ErrFaceIndexOutOfRange)
		}
		geo.Indices = append(geo.Indices, f[0], f[2], f[1])
	}

	ranges, err := BuildRanges(m.Materials, len(geo.Indices))
	if err != nil {
		return nil, err
	}
	geo.Ranges = ranges

	return geo, nil
}

// SkinWeights returns the four bone slots and weights for a vertex.
//
//	BDEF1       -> [w=1, 0, 0, 0]
//	BDEF2, SDEF -> [w, 1-w, 0, 0]; any stored second weight is ignored
//	BDEF4, QDEF -> weights as stored
//
// Unused or absent bone slots get index 0.
func SkinWeights(v *pmx.Vertex) ([4]uint32, [4]float32, error) {
	var (
		indices [4]uint32
		weights [4]float32
	)
	used := v.Skin.Influences()
	if used == 0 {
		return indices, weights, fmt.Errorf("%w (%d)", pmx.ErrUnknownSkinType, v.Skin)
	}
	for j := 0; j < used; j++ {
		if idx := v.BoneIndices[j]; idx > 0 {
			indices[j] = uint32(idx)
		}
	}

	switch used {
	case 1:
		weights[0] = 1
	case 2:
		w := v.BoneWeights[0]
		weights[0] = w
		weights[1] = 1 - w
	default:
		weights = v.BoneWeights
	}
	return indices, weights, nil
}

// BuildRanges lays materials over the index buffer in declaration order,
// FaceCount*3 indices each. The ranges must cover exactly indexCount.
func BuildRanges(materials []pmx.Material, indexCount int) ([]MaterialRange, error) {
	ranges := make([]MaterialRange, 0, len(materials))
	offset := 0
	for i := range materials {
		count := materials[i].FaceCount * 3
		if count < 0 {
			return nil, fmt.Errorf("material %d: negative face count: %w", i, ErrMaterialRangeMismatch)
		}
		ranges = append(ranges, MaterialRange{
			Start:         offset,
			Count:         count,
			MaterialIndex: i,
		})
		offset += count
	}
	if offset != indexCount {
		return nil, fmt.Errorf("materials cover %d of %d indices: %w", offset, indexCount, ErrMaterialRangeMismatch)
	}
	return ranges, nil
}
