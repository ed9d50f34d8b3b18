package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
	"github.com/Faultbox/midgard-mmd/pkg/encoding"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

// AssemblerOptions configures asset assembly.
type AssemblerOptions struct {
	OutlineScale float32
	AlphaTest    float32
	Anisotropy   int
	ToonDir      string
	Workers      int
	Timeout      time.Duration
}

// DefaultAssemblerOptions returns the standard MMD settings.
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		OutlineScale: DefaultOutlineScale,
		AlphaTest:    0.1,
		Anisotropy:   16,
		Workers:      4,
		Timeout:      10 * time.Second,
	}
}

// Assembler turns parsed models into assets. The loader may be nil, in
// which case materials keep their fallback textures.
type Assembler struct {
	parser pmx.Parser
	loader texture.Loader
	opts   AssemblerOptions
	log    *zap.Logger
}

// NewAssembler creates an assembler.
func NewAssembler(parser pmx.Parser, loader texture.Loader, opts AssemblerOptions, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{parser: parser, loader: loader, opts: opts, log: log}
}

// Load reads, parses and assembles the model at path. Textures are
// resolved relative to the model's directory.
func (a *Assembler) Load(ctx context.Context, path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	format := pmx.FormatFromPath(path)
	m, err := a.parser.Parse(data, pmx.ParseOptions{Format: format, KeepSourceAxes: true})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	asset, err := a.Build(ctx, m, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("assemble %s: %w", filepath.Base(path), err)
	}
	if asset.Name == "" {
		asset.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return asset, nil
}

// Build assembles a parsed model. Any structural error aborts the build
// and no partial asset is returned.
func (a *Assembler) Build(ctx context.Context, m *pmx.Model, base string) (*Asset, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	geo, err := BuildGeometry(m)
	if err != nil {
		return nil, err
	}
	skel, err := BuildSkeleton(m.Bones)
	if err != nil {
		return nil, err
	}

	matOpts := MaterialOptions{
		Base:       base,
		ToonDir:    a.opts.ToonDir,
		AlphaTest:  a.opts.AlphaTest,
		Anisotropy: a.opts.Anisotropy,
	}
	materials, reqs := BuildMaterials(m, matOpts)

	asset := &Asset{
		Name:      encoding.DecodeName(m.Metadata.Name),
		Geometry:  geo,
		Materials: materials,
		Skeleton:  skel,
		Outline:   BuildOutline(geo, skel, m.Materials, a.opts.OutlineScale),
	}

	if a.loader != nil {
		asset.Textures = StartTextureResolver(ctx, a.loader, reqs, ResolverOptions{
			Workers: a.opts.Workers,
			Timeout: a.opts.Timeout,
			Log:     a.log,
		})
	}

	a.log.Debug("model assembled",
		zap.String("name", asset.Name),
		zap.String("format", m.Metadata.Format.String()),
		zap.Int("vertices", geo.VertexCount()),
		zap.Int("triangles", geo.TriangleCount()),
		zap.Int("materials", len(materials)),
		zap.Int("bones", len(skel.Bones)),
		zap.Int("textures", len(reqs)),
		zap.Bool("outline", asset.Outline != nil))
	return asset, nil
}
