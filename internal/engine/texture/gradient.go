package texture

import (
	"image"
	"image/color"
	"sync"
)

// gradientStop is a grey level at a position along the toon ramp.
type gradientStop struct {
	pos   float32
	level uint8
}

// MMD-style toon ramp: dark shadow band rising to full light.
var toonStops = []gradientStop{
	{0.0, 0x33},
	{0.3, 0x77},
	{0.5, 0x99},
	{0.7, 0xbb},
	{1.0, 0xff},
}

const (
	gradientWidth  = 256
	gradientHeight = 4
)

var (
	defaultToonOnce sync.Once
	defaultToon     *Texture
)

// DefaultToonGradient returns the shared neutral toon ramp used by every
// material until its own toon texture resolves. The result must not be
// modified.
func DefaultToonGradient() *Texture {
	defaultToonOnce.Do(func() {
		defaultToon = &Texture{
			Path:       "builtin:toon-gradient",
			Image:      buildGradient(toonStops),
			ColorSpace: ColorLinear,
			Sampler: Sampler{
				Wrap:      WrapClamp,
				MinFilter: FilterLinear,
				MagFilter: FilterLinear,
			},
		}
	})
	return defaultToon
}

func buildGradient(stops []gradientStop) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, gradientWidth, gradientHeight))
	for x := 0; x < gradientWidth; x++ {
		t := (float32(x) + 0.5) / gradientWidth
		l := sampleStops(stops, t)
		for y := 0; y < gradientHeight; y++ {
			img.SetNRGBA(x, y, color.NRGBA{R: l, G: l, B: l, A: 0xff})
		}
	}
	return img
}

func sampleStops(stops []gradientStop, t float32) uint8 {
	if t <= stops[0].pos {
		return stops[0].level
	}
	for i := 1; i < len(stops); i++ {
		a, b := stops[i-1], stops[i]
		if t <= b.pos {
			f := (t - a.pos) / (b.pos - a.pos)
			return uint8(float32(a.level) + f*(float32(b.level)-float32(a.level)) + 0.5)
		}
	}
	return stops[len(stops)-1].level
}
