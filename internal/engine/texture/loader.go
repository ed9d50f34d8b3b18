package texture

import (
	"context"
	"fmt"

	"github.com/Faultbox/midgard-mmd/internal/assets"
)

// FileLoader loads textures from disk through an asset manager.
type FileLoader struct {
	assets  *assets.Manager
	maxSize int
}

var _ Loader = (*FileLoader)(nil)

// NewFileLoader creates a loader. maxSize caps the longest texture side
// (0 keeps the source size).
func NewFileLoader(am *assets.Manager, maxSize int) *FileLoader {
	return &FileLoader{assets: am, maxSize: maxSize}
}

// Load resolves, decodes and orients one texture.
func (l *FileLoader) Load(ctx context.Context, req Request) (*Texture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, path, err := l.assets.Load(req.Base, req.Ref)
	if err != nil {
		return nil, fmt.Errorf("texture: %s %s: %w", req.Slot, req.Ref, err)
	}
	img, err := Decode(data, req.Format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img = Downscale(img, l.maxSize)
	if req.FlipY {
		FlipVertical(img)
	}
	return &Texture{
		Path:       path,
		Image:      img,
		ColorSpace: req.Color,
		Sampler:    req.Sampler,
		Flipped:    req.FlipY,
	}, nil
}
