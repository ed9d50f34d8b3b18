package interaction

import (
	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/pkg/encoding"
	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// Bones turned by the gaze controller.
var (
	HeadBones = []string{"頭", "Head", "首", "Neck"}
	EyeBones  = []string{"両目", "Eyes", "左目", "LeftEye", "右目", "RightEye"}
)

// GazeConfig holds pointer-to-angle scales and limits, in radians.
type GazeConfig struct {
	HeadScale      float32
	EyeScale       float32
	HeadYawLimit   float32
	HeadPitchLimit float32
	EyeYawLimit    float32
	EyePitchLimit  float32
	Smoothing      float32 // slerp factor per update, (0, 1]
}

// DefaultGazeConfig returns the standard head and eye response.
func DefaultGazeConfig() GazeConfig {
	return GazeConfig{
		HeadScale:      0.0003,
		EyeScale:       0.0006,
		HeadYawLimit:   0.3,
		HeadPitchLimit: 0.2,
		EyeYawLimit:    0.15,
		EyePitchLimit:  0.1,
		Smoothing:      0.1,
	}
}

// GazeController turns head and eye bones toward the pointer.
type GazeController struct {
	cfg   GazeConfig
	cache *BindPoseCache
	head  nameSet
	eyes  nameSet
}

// NewGazeController creates a controller sharing cache with other
// controllers of the same skeleton.
func NewGazeController(cfg GazeConfig, cache *BindPoseCache) *GazeController {
	return &GazeController{
		cfg:   cfg,
		cache: cache,
		head:  newNameSet(HeadBones...),
		eyes:  newNameSet(EyeBones...),
	}
}

// Angles returns the clamped (pitch, yaw) targets for heads and eyes.
func (g *GazeController) Angles(in InputState) (headPitch, headYaw, eyePitch, eyeYaw float32) {
	p := in.Pointer.Sanitize()
	headYaw = math.Clamp(p.X*g.cfg.HeadScale, -g.cfg.HeadYawLimit, g.cfg.HeadYawLimit)
	headPitch = math.Clamp(p.Y*g.cfg.HeadScale, -g.cfg.HeadPitchLimit, g.cfg.HeadPitchLimit)
	eyeYaw = math.Clamp(p.X*g.cfg.EyeScale, -g.cfg.EyeYawLimit, g.cfg.EyeYawLimit)
	eyePitch = math.Clamp(p.Y*g.cfg.EyeScale, -g.cfg.EyePitchLimit, g.cfg.EyePitchLimit)
	return headPitch, headYaw, eyePitch, eyeYaw
}

// Update moves every head and eye bone one smoothing step toward the
// pointer and returns how many bones it touched. World matrices are not
// refreshed.
func (g *GazeController) Update(skel *model.Skeleton, in InputState) int {
	headPitch, headYaw, eyePitch, eyeYaw := g.Angles(in)
	headDelta := math.QuatFromEuler(headPitch, headYaw, 0, math.EulerYXZ)
	eyeDelta := math.QuatFromEuler(eyePitch, eyeYaw, 0, math.EulerYXZ)

	touched := 0
	for _, b := range skel.Bones {
		var delta math.Quat
		switch {
		case g.head.has(b):
			delta = headDelta
		case g.eyes.has(b):
			delta = eyeDelta
		default:
			continue
		}
		target := g.cache.Snapshot(b).Mul(delta)
		b.Rotation = b.Rotation.Slerp(target, g.cfg.Smoothing)
		touched++
	}
	return touched
}

// Touches reports whether the controller drives b.
func (g *GazeController) Touches(b *model.Bone) bool {
	return g.head.has(b) || g.eyes.has(b)
}

func foldKey(name string) string {
	return encoding.FoldName(name)
}
