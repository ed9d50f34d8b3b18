// Package texture resolves and decodes model textures for the renderer.
package texture

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Slot is the material slot a texture feeds.
type Slot int

const (
	SlotDiffuse Slot = iota
	SlotToon
	SlotSphere
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case SlotDiffuse:
		return "diffuse"
	case SlotToon:
		return "toon"
	case SlotSphere:
		return "sphere"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Format is the decoder hint for a texture file.
type Format int

const (
	// FormatStandard covers png, jpeg, gif, bmp and webp, sniffed by magic.
	// MMD sphere maps (.sph, .spa) are bitmaps and use this path.
	FormatStandard Format = iota
	// FormatTGA needs a dedicated decoder since TGA has no magic header.
	FormatTGA
)

// FormatFor picks the decoder hint from a file extension.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		return FormatTGA
	}
	return FormatStandard
}

// Filter is a sampler filter mode.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
	FilterLinearMipmapLinear
)

// Wrap is a sampler wrap mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClamp
)

// ColorSpace tells the renderer how to interpret texel values.
type ColorSpace int

const (
	ColorLinear ColorSpace = iota
	ColorSRGB
)

// Sampler holds the sampling parameters the renderer should upload with.
type Sampler struct {
	Wrap       Wrap
	MinFilter  Filter
	MagFilter  Filter
	Anisotropy int
	Mipmaps    bool
}

// Texture is a decoded texture handle ready for upload.
type Texture struct {
	Path       string
	Image      *image.NRGBA
	ColorSpace ColorSpace
	Sampler    Sampler
	// Flipped is true when rows were reversed at decode time, matching
	// geometry whose UV v was mapped to 1-v.
	Flipped bool
}

// Request asks the loader for one texture on behalf of a material slot.
type Request struct {
	Material int
	Slot     Slot
	Base     string // directory the reference is relative to
	Ref      string // reference as stored in the model
	Format   Format
	FlipY    bool
	Color    ColorSpace
	Sampler  Sampler
}

// Loader is the texture-loading collaborator. Load blocks; callers run it
// off the update tick.
type Loader interface {
	Load(ctx context.Context, req Request) (*Texture, error)
}
