// Package pmx defines the parsed MMD model description (PMX and PMD) that
// the model assembler consumes, and the parser contract that produces it.
//
// All coordinates are in the source convention: left-handed axes and
// clockwise front faces.
package pmx

import "fmt"

// Format identifies the source file format.
type Format int

const (
	FormatPMX Format = iota
	FormatPMD
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatPMX:
		return "PMX"
	case FormatPMD:
		return "PMD"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// SkinType is the bone-influence encoding of a vertex.
type SkinType uint8

const (
	SkinBDEF1 SkinType = 0 // single bone, implicit weight 1
	SkinBDEF2 SkinType = 1 // two bones, weight w and implicit 1-w
	SkinBDEF4 SkinType = 2 // four explicit weights
	SkinSDEF  SkinType = 3 // spherical deform, weighted like BDEF2
	SkinQDEF  SkinType = 4 // dual quaternion, weighted like BDEF4
)

var skinTypeNames = [...]string{"BDEF1", "BDEF2", "BDEF4", "SDEF", "QDEF"}

// String returns the PMX name of the encoding.
func (s SkinType) String() string {
	if int(s) < len(skinTypeNames) {
		return skinTypeNames[s]
	}
	return fmt.Sprintf("Unknown(%d)", s)
}

// MaterialFlag is the PMX material draw-flag bitmask. Bit positions match
// the file format byte for byte.
type MaterialFlag uint8

const (
	FlagDoubleSided   MaterialFlag = 1 << 0
	FlagGroundShadow  MaterialFlag = 1 << 1
	FlagSelfShadowMap MaterialFlag = 1 << 2
	FlagSelfShadow    MaterialFlag = 1 << 3
	FlagEdge          MaterialFlag = 1 << 4
	FlagVertexColor   MaterialFlag = 1 << 5
	FlagPointDraw     MaterialFlag = 1 << 6
	FlagLineDraw      MaterialFlag = 1 << 7
)

// Has reports whether all bits of bit are set.
func (f MaterialFlag) Has(bit MaterialFlag) bool {
	return f&bit == bit
}

// SphereMode selects how a sphere-map texture is blended.
type SphereMode uint8

const (
	SphereOff        SphereMode = 0
	SphereMultiply   SphereMode = 1
	SphereAdd        SphereMode = 2
	SphereSubTexture SphereMode = 3 // PMX 2.0 additional UV sub-texture
)

// String returns a human-readable sphere mode.
func (m SphereMode) String() string {
	switch m {
	case SphereOff:
		return "off"
	case SphereMultiply:
		return "multiply"
	case SphereAdd:
		return "add"
	case SphereSubTexture:
		return "subtexture"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// NoIndex marks an absent texture or parent reference.
const NoIndex int32 = -1

// Metadata describes the source file.
type Metadata struct {
	Format      Format  `yaml:"format"`
	Version     float32 `yaml:"version"`
	Name        string  `yaml:"name"`
	EnglishName string  `yaml:"english_name,omitempty"`
	Comment     string  `yaml:"comment,omitempty"`
}

// Vertex is a single source vertex.
type Vertex struct {
	Position    [3]float32 `yaml:"position"`
	Normal      [3]float32 `yaml:"normal"`
	UV          [2]float32 `yaml:"uv"`
	Skin        SkinType   `yaml:"skin"`
	BoneIndices [4]int32   `yaml:"bones"`
	BoneWeights [4]float32 `yaml:"weights"`
	EdgeScale   float32    `yaml:"edge_scale,omitempty"`
}

// Face is a triangle as three vertex indices in clockwise order.
type Face [3]uint32

// Material is a single source material. Materials cover consecutive runs of
// faces in declaration order.
type Material struct {
	Name         string       `yaml:"name"`
	EnglishName  string       `yaml:"english_name,omitempty"`
	Diffuse      [4]float32   `yaml:"diffuse"`
	Specular     [3]float32   `yaml:"specular"`
	Shininess    float32      `yaml:"shininess"`
	Ambient      [3]float32   `yaml:"ambient"`
	Flag         MaterialFlag `yaml:"flag"`
	EdgeColor    [4]float32   `yaml:"edge_color"`
	EdgeSize     float32      `yaml:"edge_size"`
	TextureIndex int32        `yaml:"texture"`
	SphereIndex  int32        `yaml:"sphere"`
	SphereMode   SphereMode   `yaml:"sphere_mode"`
	ToonShared   bool         `yaml:"toon_shared"`
	ToonIndex    int32        `yaml:"toon"`
	FaceCount    int          `yaml:"faces"` // triangles covered
}

// Bone is a single source bone. Position is absolute (model space).
type Bone struct {
	Name        string     `yaml:"name"`
	EnglishName string     `yaml:"english_name,omitempty"`
	Position    [3]float32 `yaml:"position"`
	ParentIndex int32      `yaml:"parent"`
}

// Model is the complete parsed model description.
type Model struct {
	Metadata  Metadata   `yaml:"metadata"`
	Vertices  []Vertex   `yaml:"vertices"`
	Faces     []Face     `yaml:"faces"`
	Textures  []string   `yaml:"textures"`
	Materials []Material `yaml:"materials"`
	Bones     []Bone     `yaml:"bones"`
}

// TexturePath returns the texture reference at idx, or "" when idx is
// NoIndex or out of range.
func (m *Model) TexturePath(idx int32) string {
	if idx < 0 || int(idx) >= len(m.Textures) {
		return ""
	}
	return m.Textures[idx]
}
