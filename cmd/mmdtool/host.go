package main

import (
	"context"
	"fmt"

	"github.com/Faultbox/midgard-mmd/internal/assets"
	"github.com/Faultbox/midgard-mmd/internal/config"
	"github.com/Faultbox/midgard-mmd/internal/engine/interaction"
	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/internal/engine/texture"
	"github.com/Faultbox/midgard-mmd/internal/logger"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

// host owns the engine pieces a viewer would hold for one model.
type host struct {
	cfg       *config.Config
	assets    *assets.Manager
	loader    *texture.FileLoader
	assembler *model.Assembler
}

func newHost(cfg *config.Config) *host {
	am := assets.NewManager(cfg.Textures.SearchPaths...)
	loader := texture.NewFileLoader(am, cfg.Textures.MaxSize)
	return &host{
		cfg:       cfg,
		assets:    am,
		loader:    loader,
		assembler: model.NewAssembler(pmx.YAMLParser{}, loader, assemblerOptions(cfg), logger.Named("model")),
	}
}

func assemblerOptions(cfg *config.Config) model.AssemblerOptions {
	return model.AssemblerOptions{
		OutlineScale: cfg.Model.OutlineScale,
		AlphaTest:    cfg.Model.AlphaTest,
		Anisotropy:   cfg.Textures.Anisotropy,
		ToonDir:      cfg.Textures.ToonDir,
		Workers:      cfg.Textures.Workers,
		Timeout:      cfg.Textures.Timeout,
	}
}

func sessionOptions(cfg *config.Config) interaction.SessionOptions {
	g, s := cfg.Gaze, cfg.Sway
	return interaction.SessionOptions{
		Gaze: interaction.GazeConfig{
			HeadScale:      g.HeadScale,
			EyeScale:       g.EyeScale,
			HeadYawLimit:   g.HeadYawLimit,
			HeadPitchLimit: g.HeadPitchLimit,
			EyeYawLimit:    g.EyeYawLimit,
			EyePitchLimit:  g.EyePitchLimit,
			Smoothing:      g.Smoothing,
		},
		Sway: interaction.SwayConfig{
			FrequencyHz: s.FrequencyHz,
			Amplitude:   s.Amplitude,
			ElbowFactor: s.ElbowFactor,
			Smoothing:   s.Smoothing,
		},
		GazeEnabled: g.Enabled,
		SwayEnabled: s.Enabled,
		Log:         logger.Named("interaction"),
	}
}

// load assembles a model and waits for its textures so one-shot commands
// see the final materials.
func (h *host) load(ctx context.Context, path string) (*model.Asset, error) {
	asset, err := h.assembler.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	asset.Textures.Wait()
	asset.Textures.Apply(asset.Materials)
	return asset, nil
}

// attach starts an interaction session on the asset and applies the
// configured resting pose before any animation runs.
func (h *host) attach(asset *model.Asset, src interaction.InputSource) (*interaction.Session, error) {
	s := interaction.NewSession(sessionOptions(h.cfg))
	s.Attach(asset.Skeleton, src)
	if h.cfg.Pose.Default == "" {
		return s, nil
	}
	p, err := interaction.LookupPose(h.cfg.Pose.Default)
	if err != nil {
		return nil, err
	}
	if _, err := s.ApplyPose(p); err != nil {
		return nil, fmt.Errorf("default pose: %w", err)
	}
	return s, nil
}

// posePick picks the pose for the pose command: an explicit argument wins,
// then the configured default, then standing (--pose none clears the default).
func posePick(configured string, args []string) (interaction.Pose, error) {
	name := configured
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	}
	if name == "" {
		name = interaction.Standing.Name
	}
	return interaction.LookupPose(name)
}

func (h *host) close() {
	h.assets.Close()
}
