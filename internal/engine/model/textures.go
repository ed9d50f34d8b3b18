package model

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
)

type textureResult struct {
	req texture.Request
	tex *texture.Texture
	err error
}

// ResolverOptions bounds texture loading.
type ResolverOptions struct {
	Workers int           // concurrent loads, at least 1
	Timeout time.Duration // per texture, 0 for none
	Log     *zap.Logger
}

// TextureResolver loads material textures in the background. Loads never
// touch materials directly: finished results queue up until the host calls
// Apply from its update tick.
type TextureResolver struct {
	loader  texture.Loader
	timeout time.Duration
	log     *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	results chan textureResult

	mu      sync.Mutex
	pending int
	failed  int
}

// StartTextureResolver starts loading every request. The returned resolver
// stops outstanding loads when ctx is cancelled or Close is called.
func StartTextureResolver(ctx context.Context, loader texture.Loader, reqs []texture.Request, opts ResolverOptions) *TextureResolver {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(ctx)
	r := &TextureResolver{
		loader:  loader,
		timeout: opts.Timeout,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		sem:     make(chan struct{}, workers),
		results: make(chan textureResult, len(reqs)),
		pending: len(reqs),
	}

	for _, req := range reqs {
		r.wg.Add(1)
		go r.load(req)
	}
	return r
}

func (r *TextureResolver) load(req texture.Request) {
	defer r.wg.Done()

	select {
	case r.sem <- struct{}{}:
	case <-r.ctx.Done():
		r.results <- textureResult{req: req, err: r.ctx.Err()}
		return
	}
	defer func() { <-r.sem }()

	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tex, err := r.loader.Load(ctx, req)
	r.results <- textureResult{req: req, tex: tex, err: err}
}

// Apply assigns every finished texture to its owning material and returns
// how many slots changed. It never blocks. Failed loads are logged and the
// material keeps its fallback.
func (r *TextureResolver) Apply(materials []*Material) int {
	if r == nil {
		return 0
	}
	applied := 0
	for {
		select {
		case res := <-r.results:
			r.mu.Lock()
			r.pending--
			r.mu.Unlock()

			if res.err != nil {
				r.mu.Lock()
				r.failed++
				r.mu.Unlock()
				if errors.Is(res.err, context.Canceled) {
					continue
				}
				r.log.Warn("texture load failed",
					zap.Int("material", res.req.Material),
					zap.Stringer("slot", res.req.Slot),
					zap.String("ref", res.req.Ref),
					zap.Error(res.err))
				continue
			}
			if res.req.Material < 0 || res.req.Material >= len(materials) {
				continue
			}
			materials[res.req.Material].SetTexture(res.req.Slot, res.tex)
			r.log.Debug("texture applied",
				zap.Int("material", res.req.Material),
				zap.Stringer("slot", res.req.Slot),
				zap.String("path", res.tex.Path))
			applied++
		default:
			return applied
		}
	}
}

// Pending returns the number of results not yet applied.
// The nil resolver of an asset built without a loader has none.
func (r *TextureResolver) Pending() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Failed returns the number of loads that ended in an error.
func (r *TextureResolver) Failed() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Wait blocks until every load has finished. Results still need Apply.
func (r *TextureResolver) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

// Close cancels outstanding loads and waits for them to stop.
func (r *TextureResolver) Close() {
	if r == nil {
		return
	}
	r.cancel()
	r.wg.Wait()
}
