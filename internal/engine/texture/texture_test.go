package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Faultbox/midgard-mmd/internal/assets"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// twoRowImage is 2x2: top row red, bottom row blue.
func twoRowImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, red)
	img.SetNRGBA(0, 1, blue)
	img.SetNRGBA(1, 1, blue)
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"body.tga", FormatTGA},
		{"BODY.TGA", FormatTGA},
		{"body.png", FormatStandard},
		{"env.spa", FormatStandard},
		{"env.sph", FormatStandard},
		{"toon01.bmp", FormatStandard},
	}
	for _, tt := range tests {
		if got := FormatFor(tt.path); got != tt.want {
			t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestDecodeStandard(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		img, err := Decode(encodePNG(t, twoRowImage()), FormatStandard)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if got := img.NRGBAAt(0, 1); got.B != 255 || got.R != 0 {
			t.Errorf("pixel (0,1) = %+v, want blue", got)
		}
	})

	t.Run("bmp", func(t *testing.T) {
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, twoRowImage()); err != nil {
			t.Fatalf("bmp encode: %v", err)
		}
		img, err := Decode(buf.Bytes(), FormatStandard)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if got := img.NRGBAAt(0, 0); got.R != 255 {
			t.Errorf("pixel (0,0) = %+v, want red", got)
		}
	})

	t.Run("jpeg", func(t *testing.T) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, solid(8, 8, color.NRGBA{R: 255, A: 255}), nil); err != nil {
			t.Fatalf("jpeg encode: %v", err)
		}
		img, err := Decode(buf.Bytes(), FormatStandard)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if got := img.NRGBAAt(4, 4); got.R < 200 || got.B > 60 {
			t.Errorf("pixel (4,4) = %+v, want red", got)
		}
	})

	t.Run("gif", func(t *testing.T) {
		var buf bytes.Buffer
		pal := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
			color.NRGBA{R: 255, A: 255}, color.NRGBA{B: 255, A: 255},
		})
		pal.SetColorIndex(0, 1, 1)
		pal.SetColorIndex(1, 1, 1)
		if err := gif.Encode(&buf, pal, nil); err != nil {
			t.Fatalf("gif encode: %v", err)
		}
		img, err := Decode(buf.Bytes(), FormatStandard)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if got := img.NRGBAAt(1, 1); got.B != 255 {
			t.Errorf("pixel (1,1) = %+v, want blue", got)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := Decode([]byte("not an image"), FormatStandard); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("tga bytes without hint", func(t *testing.T) {
		if _, err := Decode(tgaImage(4, 4), FormatStandard); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

// tgaImage builds an uncompressed 24-bit true-color TGA with a top-left
// origin: row 0 red, remaining rows blue. Pixels are stored BGR.
func tgaImage(w, h int) []byte {
	data := []byte{
		0, 0, 2, // id length, no color map, type 2
		0, 0, 0, 0, 0, // color map spec
		0, 0, 0, 0, // origin
		byte(w), 0, byte(h), 0,
		24, 0x20, // bpp, top-left origin
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y == 0 {
				data = append(data, 0, 0, 255)
			} else {
				data = append(data, 255, 0, 0)
			}
		}
	}
	return data
}

func TestDecodeTGA(t *testing.T) {
	img, err := Decode(tgaImage(4, 4), FormatTGA)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if img.Rect.Dx() != 4 || img.Rect.Dy() != 4 {
		t.Fatalf("size = %v, want 4x4", img.Rect.Size())
	}
	if got := img.NRGBAAt(3, 0); got.R != 255 || got.B != 0 {
		t.Errorf("pixel (3,0) = %+v, want red", got)
	}
	if got := img.NRGBAAt(0, 3); got.B != 255 || got.R != 0 {
		t.Errorf("pixel (0,3) = %+v, want blue", got)
	}
}

func TestFlipVertical(t *testing.T) {
	img := twoRowImage()
	FlipVertical(img)
	if got := img.NRGBAAt(0, 0); got.B != 255 {
		t.Errorf("top row after flip = %+v, want blue", got)
	}
	if got := img.NRGBAAt(1, 1); got.R != 255 {
		t.Errorf("bottom row after flip = %+v, want red", got)
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	if got := Downscale(img, 0); got != img {
		t.Error("maxSize 0 should return the input")
	}
	if got := Downscale(img, 128); got != img {
		t.Error("image within bounds should be returned unchanged")
	}
	got := Downscale(img, 32)
	if got.Rect.Dx() != 32 || got.Rect.Dy() != 8 {
		t.Errorf("Downscale size = %v, want 32x8", got.Rect.Size())
	}
}

func TestDefaultToonGradient(t *testing.T) {
	g := DefaultToonGradient()
	if g != DefaultToonGradient() {
		t.Error("expected a shared gradient instance")
	}
	if g.Image.Rect.Dx() != 256 || g.Image.Rect.Dy() != 4 {
		t.Fatalf("gradient size = %v, want 256x4", g.Image.Rect.Size())
	}
	if first := g.Image.NRGBAAt(0, 0).R; first != 0x33 {
		t.Errorf("first texel = %#x, want 0x33", first)
	}
	if last := g.Image.NRGBAAt(255, 3).R; last < 0xfe {
		t.Errorf("last texel = %#x, want ~0xff", last)
	}
	prev := uint8(0)
	for x := 0; x < 256; x++ {
		l := g.Image.NRGBAAt(x, 0).R
		if l < prev {
			t.Fatalf("gradient not monotonic at x=%d: %d < %d", x, l, prev)
		}
		prev = l
	}
	if g.Sampler.Wrap != WrapClamp {
		t.Error("expected clamped gradient sampling")
	}
}

func TestEncodeWebPRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeWebP(&buf, DefaultToonGradient().Image); err != nil {
		t.Fatalf("EncodeWebP() error: %v", err)
	}
	img, err := Decode(buf.Bytes(), FormatStandard)
	if err != nil {
		t.Fatalf("Decode(webp) error: %v", err)
	}
	if img.Rect.Dx() != 256 || img.Rect.Dy() != 4 {
		t.Errorf("decoded size = %v", img.Rect.Size())
	}
}

func TestFileLoader(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "tex"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "tex", "body.png"), encodePNG(t, twoRowImage()), 0644); err != nil {
		t.Fatal(err)
	}

	loader := NewFileLoader(assets.NewManager(), 0)
	req := Request{
		Slot:   SlotDiffuse,
		Base:   base,
		Ref:    `tex\body.png`,
		Format: FormatStandard,
		FlipY:  true,
		Color:  ColorSRGB,
	}

	tex, err := loader.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !tex.Flipped || tex.ColorSpace != ColorSRGB {
		t.Errorf("unexpected texture metadata %+v", tex)
	}
	if got := tex.Image.NRGBAAt(0, 0); got.B != 255 {
		t.Errorf("expected flipped image, top-left = %+v", got)
	}

	var sph bytes.Buffer
	if err := bmp.Encode(&sph, solid(4, 4, color.NRGBA{G: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "tex", "env.sph"), sph.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "tex", "hair.tga"), tgaImage(4, 4), 0644); err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{"tex/env.sph", "tex/hair.tga"} {
		r := req
		r.Ref = ref
		r.Format = FormatFor(ref)
		if _, err := loader.Load(context.Background(), r); err != nil {
			t.Errorf("Load(%s) error: %v", ref, err)
		}
	}

	req.Ref = "missing.png"
	if _, err := loader.Load(context.Background(), req); !errors.Is(err, assets.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req.Ref = `tex\body.png`
	if _, err := loader.Load(ctx, req); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
