package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// ErrUnknownFormat is returned when standard texture bytes match no known
// magic number.
var ErrUnknownFormat = errors.New("unknown image format")

// The tga package registers an empty magic string with image.Decode, so
// standard images are dispatched by magic bytes instead.
var decoders = []struct {
	magic  string
	offset int
	decode func(io.Reader) (image.Image, error)
}{
	{"\x89PNG\r\n\x1a\n", 0, png.Decode},
	{"\xff\xd8", 0, jpeg.Decode},
	{"GIF8", 0, gif.Decode},
	{"BM", 0, bmp.Decode},
	{"WEBP", 8, webp.Decode},
}

// Decode decodes texture bytes using the format hint.
func Decode(data []byte, format Format) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatTGA:
		img, err = tga.Decode(bytes.NewReader(data))
	default:
		img, err = decodeStandard(data)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return ToNRGBA(img), nil
}

func decodeStandard(data []byte) (image.Image, error) {
	for _, d := range decoders {
		end := d.offset + len(d.magic)
		if len(data) >= end && string(data[d.offset:end]) == d.magic {
			return d.decode(bytes.NewReader(data))
		}
	}
	return nil, ErrUnknownFormat
}

// ToNRGBA converts any image to *image.NRGBA with bounds starting at 0,0.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// FlipVertical reverses pixel rows in place.
func FlipVertical(img *image.NRGBA) {
	h := img.Rect.Dy()
	rowLen := img.Rect.Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Downscale shrinks img so neither side exceeds maxSize, keeping aspect.
// maxSize <= 0 or an image already within bounds returns img unchanged.
func Downscale(img *image.NRGBA, maxSize int) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	nw, nh := maxSize, maxSize
	if w > h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// EncodeWebP writes img as lossless WebP, for previews and debug dumps.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("texture: encode webp: %w", err)
	}
	return nil
}
