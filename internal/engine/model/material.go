package model

import (
	"fmt"
	"regexp"

	"github.com/Faultbox/midgard-mmd/internal/assets"
	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
	"github.com/Faultbox/midgard-mmd/pkg/encoding"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

// Side selects which triangle faces are drawn.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideBack:
		return "back"
	case SideDouble:
		return "double"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Best-effort classification by material name. Latin words must be
// capitalized or all caps, so "Surface" and "interface" stay plain.
var (
	faceNamePattern = regexp.MustCompile(`Face|FACE|Mouth|MOUTH|Eye|EYE|脸|顔`)
	skinNamePattern = regexp.MustCompile(`Skin|SKIN|皮肤|肌`)
)

// Material is a toon-shaded material descriptor. It is renderable as soon
// as it is built; texture slots start at their fallbacks and are filled in
// place by TextureResolver.Apply.
type Material struct {
	Name        string
	EnglishName string
	Index       int

	Color     [3]float32
	Opacity   float32
	Specular  [3]float32
	Shininess float32
	Ambient   [3]float32

	Side        Side
	Transparent bool
	AlphaTest   float32

	Flag          pmx.MaterialFlag
	GroundShadow  bool
	CastShadow    bool
	ReceiveShadow bool
	Edge          bool
	VertexColor   bool
	PointDraw     bool
	LineDraw      bool

	IsFace        bool
	IsSkin        bool
	PolygonOffset float32 // depth offset factor, -1 pulls face materials forward

	SphereMode pmx.SphereMode

	Map         *texture.Texture // diffuse, nil until loaded
	GradientMap *texture.Texture // toon ramp, starts as the default gradient
	SphereMap   *texture.Texture // nil until loaded

	// Version increases whenever a texture slot changes, so renderers can
	// tell when to rebuild their pipeline state.
	Version int
}

// SphereBlend returns the sphere blend actually applied. Sub-texture
// spheres need a second UV set and do not blend.
func (m *Material) SphereBlend() pmx.SphereMode {
	if m.SphereMap == nil || m.SphereMode == pmx.SphereSubTexture {
		return pmx.SphereOff
	}
	return m.SphereMode
}

// SetTexture stores tex in the given slot.
func (m *Material) SetTexture(slot texture.Slot, tex *texture.Texture) {
	switch slot {
	case texture.SlotDiffuse:
		m.Map = tex
	case texture.SlotToon:
		m.GradientMap = tex
	case texture.SlotSphere:
		m.SphereMap = tex
	default:
		return
	}
	m.Version++
}

// MaterialOptions controls material building.
type MaterialOptions struct {
	Base       string  // directory texture references are relative to
	ToonDir    string  // directory holding shared toonNN.bmp files, Base if empty
	AlphaTest  float32 // alpha cutoff
	Anisotropy int
}

// DefaultMaterialOptions returns options matching MMD viewers.
func DefaultMaterialOptions(base string) MaterialOptions {
	return MaterialOptions{
		Base:       base,
		AlphaTest:  0.1,
		Anisotropy: 16,
	}
}

// BuildMaterial creates the descriptor for source material idx and the
// texture requests that will complete it.
func BuildMaterial(idx int, src *pmx.Material, textures []string, opts MaterialOptions) (*Material, []texture.Request) {
	name := encoding.DecodeName(src.Name)
	flag := src.Flag

	m := &Material{
		Name:        name,
		EnglishName: encoding.DecodeName(src.EnglishName),
		Index:       idx,
		Color:       [3]float32{src.Diffuse[0], src.Diffuse[1], src.Diffuse[2]},
		Opacity:     src.Diffuse[3],
		Specular:    src.Specular,
		Shininess:   src.Shininess,
		Ambient:     src.Ambient,
		Side:        SideFront,
		AlphaTest:   opts.AlphaTest,

		Flag:          flag,
		GroundShadow:  flag.Has(pmx.FlagGroundShadow),
		CastShadow:    flag.Has(pmx.FlagSelfShadowMap),
		ReceiveShadow: flag.Has(pmx.FlagSelfShadow),
		Edge:          flag.Has(pmx.FlagEdge),
		VertexColor:   flag.Has(pmx.FlagVertexColor),
		PointDraw:     flag.Has(pmx.FlagPointDraw),
		LineDraw:      flag.Has(pmx.FlagLineDraw),

		SphereMode:  src.SphereMode,
		GradientMap: texture.DefaultToonGradient(),
	}
	if flag.Has(pmx.FlagDoubleSided) {
		m.Side = SideDouble
	}

	m.IsFace = faceNamePattern.MatchString(name)
	m.IsSkin = m.IsFace || skinNamePattern.MatchString(name)
	m.Transparent = m.Opacity < 1 || m.IsSkin
	if m.IsFace {
		m.CastShadow = false
		m.PolygonOffset = -1
	}

	return m, materialRequests(idx, src, textures, opts)
}

func materialRequests(idx int, src *pmx.Material, textures []string, opts MaterialOptions) []texture.Request {
	var reqs []texture.Request

	base := texture.Sampler{
		Wrap:       texture.WrapRepeat,
		MinFilter:  texture.FilterLinearMipmapLinear,
		MagFilter:  texture.FilterLinear,
		Anisotropy: opts.Anisotropy,
		Mipmaps:    true,
	}
	add := func(slot texture.Slot, dir, ref string, color texture.ColorSpace, sampler texture.Sampler) {
		if ref == "" {
			return
		}
		ref = assets.NormalizePath(ref)
		reqs = append(reqs, texture.Request{
			Material: idx,
			Slot:     slot,
			Base:     dir,
			Ref:      ref,
			Format:   texture.FormatFor(ref),
			FlipY:    true,
			Color:    color,
			Sampler:  sampler,
		})
	}

	add(texture.SlotDiffuse, opts.Base, pathAt(textures, src.TextureIndex), texture.ColorSRGB, base)

	toon := base
	toon.MinFilter = texture.FilterNearest
	toon.MagFilter = texture.FilterNearest
	if src.ToonShared {
		dir := opts.ToonDir
		if dir == "" {
			dir = opts.Base
		}
		add(texture.SlotToon, dir, SharedToonName(src.ToonIndex), texture.ColorLinear, toon)
	} else {
		add(texture.SlotToon, opts.Base, pathAt(textures, src.ToonIndex), texture.ColorLinear, toon)
	}

	if src.SphereMode != pmx.SphereOff {
		add(texture.SlotSphere, opts.Base, pathAt(textures, src.SphereIndex), texture.ColorLinear, base)
	}
	return reqs
}

// SharedToonName returns the file name of a shared toon texture
// (index 0 is toon01.bmp), or "" for a negative index.
func SharedToonName(idx int32) string {
	if idx < 0 {
		return ""
	}
	return fmt.Sprintf("toon%02d.bmp", idx+1)
}

func pathAt(textures []string, idx int32) string {
	if idx < 0 || int(idx) >= len(textures) {
		return ""
	}
	return textures[idx]
}

// BuildMaterials builds descriptors for every source material, in order,
// together with all of their texture requests.
func BuildMaterials(m *pmx.Model, opts MaterialOptions) ([]*Material, []texture.Request) {
	materials := make([]*Material, len(m.Materials))
	var reqs []texture.Request
	for i := range m.Materials {
		mat, r := BuildMaterial(i, &m.Materials[i], m.Textures, opts)
		materials[i] = mat
		reqs = append(reqs, r...)
	}
	return materials, reqs
}
