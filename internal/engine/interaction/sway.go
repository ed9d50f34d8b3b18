package interaction

import (
	gomath "math"
	"strings"
	"time"

	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// Bones swung by the sway controller.
var (
	ArmBones   = []string{"左腕", "右腕", "LeftArm", "RightArm"}
	ElbowBones = []string{"左ひじ", "右ひじ", "LeftElbow", "RightElbow"}
)

// leftMarkers identify left-side bones; everything else mirrors as right.
var leftMarkers = []string{"左", "Left", "_L", ".L"}

// SwayConfig shapes the idle arm oscillation.
type SwayConfig struct {
	FrequencyHz float32
	Amplitude   float32 // radians at the arm
	ElbowFactor float32 // elbow amplitude relative to the arm
	Smoothing   float32 // slerp factor per update, (0, 1]
}

// DefaultSwayConfig returns a slow, small breathing sway.
func DefaultSwayConfig() SwayConfig {
	return SwayConfig{
		FrequencyHz: 0.25,
		Amplitude:   0.04,
		ElbowFactor: 0.5,
		Smoothing:   0.1,
	}
}

// SwayController rocks arm and elbow bones about Z over time, mirrored
// between sides.
type SwayController struct {
	cfg    SwayConfig
	cache  *BindPoseCache
	arms   nameSet
	elbows nameSet
}

// NewSwayController creates a controller sharing cache with other
// controllers of the same skeleton.
func NewSwayController(cfg SwayConfig, cache *BindPoseCache) *SwayController {
	return &SwayController{
		cfg:    cfg,
		cache:  cache,
		arms:   newNameSet(ArmBones...),
		elbows: newNameSet(ElbowBones...),
	}
}

// Side returns +1 for left-side bone names and -1 otherwise. Full-width
// names are folded first.
func Side(name string) float32 {
	name = foldKey(name)
	for _, m := range leftMarkers {
		if strings.Contains(name, m) {
			return 1
		}
	}
	return -1
}

// Angle returns the arm sway angle at elapsed, before side and elbow
// scaling. Negative elapsed time counts as zero.
func (s *SwayController) Angle(elapsed time.Duration) float32 {
	t := elapsed.Seconds()
	if t < 0 {
		t = 0
	}
	phase := 2 * gomath.Pi * float64(s.cfg.FrequencyHz) * t
	return math.Finite(s.cfg.Amplitude * float32(gomath.Sin(phase)))
}

// Update moves every arm and elbow bone one smoothing step toward its sway
// target and returns how many bones it touched. World matrices are not
// refreshed.
func (s *SwayController) Update(skel *model.Skeleton, elapsed time.Duration) int {
	base := s.Angle(elapsed)

	touched := 0
	for _, b := range skel.Bones {
		var factor float32
		switch {
		case s.arms.has(b):
			factor = 1
		case s.elbows.has(b):
			factor = s.cfg.ElbowFactor
		default:
			continue
		}
		angle := Side(b.Key()) * base * factor
		delta := math.QuatFromAxisAngle(math.AxisZ, angle)
		target := s.cache.Snapshot(b).Mul(delta)
		b.Rotation = b.Rotation.Slerp(target, s.cfg.Smoothing)
		touched++
	}
	return touched
}

// Touches reports whether the controller drives b.
func (s *SwayController) Touches(b *model.Bone) bool {
	return s.arms.has(b) || s.elbows.has(b)
}
