package pmx

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Malformed-model errors. Any of these is fatal to a load.
var (
	ErrNoVertices          = errors.New("model has no vertices")
	ErrNoMaterials         = errors.New("model has no materials")
	ErrNoBones             = errors.New("model has no bones")
	ErrFaceIndexOutOfRange = errors.New("face index out of range")
	ErrBoneIndexOutOfRange = errors.New("vertex bone index out of range")
	ErrUnknownSkinType     = errors.New("unknown vertex skin type")
	ErrUnsupportedFormat   = errors.New("unsupported model format")
)

// ParseOptions controls a parse.
type ParseOptions struct {
	Format Format
	// KeepSourceAxes asks the parser to leave vertex data in the source
	// left-handed, clockwise convention instead of converting it. The model
	// assembler performs the handedness conversion itself and always sets
	// this, so a converting parser must not be handed false.
	KeepSourceAxes bool
}

// Parser turns raw model bytes into a Model. Implementations are trusted to
// produce structurally complete data or return an error.
type Parser interface {
	Parse(data []byte, opts ParseOptions) (*Model, error)
}

// FormatFromPath picks the format from a file extension: ".pmd" is PMD,
// anything else is treated as PMX.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pmd") {
		return FormatPMD
	}
	return FormatPMX
}

// Validate checks the structural invariants the mesh builders rely on.
func (m *Model) Validate() error {
	if len(m.Vertices) == 0 {
		return ErrNoVertices
	}
	if len(m.Materials) == 0 {
		return ErrNoMaterials
	}
	if len(m.Bones) == 0 {
		return ErrNoBones
	}

	vertexCount := uint32(len(m.Vertices))
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx >= vertexCount {
				return fmt.Errorf("face %d: index %d >= %d: %w", i, idx, vertexCount, ErrFaceIndexOutOfRange)
			}
		}
	}

	boneCount := int32(len(m.Bones))
	for i := range m.Vertices {
		v := &m.Vertices[i]
		used := v.Skin.Influences()
		if used == 0 {
			return fmt.Errorf("vertex %d: %w (%d)", i, ErrUnknownSkinType, v.Skin)
		}
		for j := 0; j < used; j++ {
			idx := v.BoneIndices[j]
			if idx == NoIndex && (j > 0 || used == 4) {
				// Unused four-bone slot, or missing second bone of a pair.
				continue
			}
			if idx < 0 || idx >= boneCount {
				return fmt.Errorf("vertex %d slot %d: bone %d: %w", i, j, idx, ErrBoneIndexOutOfRange)
			}
		}
	}
	return nil
}

// Influences returns how many bone slots the encoding uses, or 0 for an
// unknown encoding.
func (s SkinType) Influences() int {
	switch s {
	case SkinBDEF1:
		return 1
	case SkinBDEF2, SkinSDEF:
		return 2
	case SkinBDEF4, SkinQDEF:
		return 4
	default:
		return 0
	}
}
