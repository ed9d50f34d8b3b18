package interaction

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-mmd/internal/engine/model"
)

var (
	// ErrNoSkeleton is returned when a session has nothing attached.
	ErrNoSkeleton = errors.New("no skeleton attached")
	// ErrAnimationEngaged is returned when a pose would overwrite bones
	// whose bind pose was already captured by gaze or sway.
	ErrAnimationEngaged = errors.New("procedural animation already engaged")
)

// SessionOptions configures the controllers of a session.
type SessionOptions struct {
	Gaze        GazeConfig
	Sway        SwayConfig
	GazeEnabled bool
	SwayEnabled bool
	Log         *zap.Logger
}

// DefaultSessionOptions enables gaze and sway with default tuning.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Gaze:        DefaultGazeConfig(),
		Sway:        DefaultSwayConfig(),
		GazeEnabled: true,
		SwayEnabled: true,
	}
}

// Session owns the interaction state of one live skeleton. All bone
// mutation goes through Tick and ApplyPose, serialized by the session.
type Session struct {
	mu    sync.Mutex
	skel  *model.Skeleton
	input InputSource
	cache *BindPoseCache
	gaze  *GazeController
	sway  *SwayController
	opts  SessionOptions
	log   *zap.Logger
}

// NewSession creates a session with nothing attached.
func NewSession(opts SessionOptions) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	cache := NewBindPoseCache()
	return &Session{
		cache: cache,
		gaze:  NewGazeController(opts.Gaze, cache),
		sway:  NewSwayController(opts.Sway, cache),
		opts:  opts,
		log:   log,
	}
}

// Attach binds the session to a skeleton and an input source. Attaching a
// different skeleton clears the bind-pose cache first. A nil skeleton, as
// left by Asset.Release, detaches: the cache is cleared and Tick reports
// ErrNoSkeleton until the next Attach.
func (s *Session) Attach(skel *model.Skeleton, input InputSource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skel != skel || skel == nil {
		s.cache.Reset()
	}
	s.skel = skel
	s.input = input
	if skel == nil {
		s.log.Debug("session detached")
		return
	}
	s.log.Debug("session attached", zap.Int("bones", len(skel.Bones)))
}

// Tick runs gaze then sway against the latest input and refreshes world
// matrices.
func (s *Session) Tick(elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skel == nil {
		return ErrNoSkeleton
	}

	var in InputState
	if s.input != nil {
		in = s.input.State()
	}
	if s.opts.GazeEnabled {
		s.gaze.Update(s.skel, in)
	}
	if s.opts.SwayEnabled {
		s.sway.Update(s.skel, elapsed)
	}
	s.skel.UpdateWorld()
	return nil
}

// ApplyPose sets a static pose. Poses must come before animation: if gaze
// or sway already captured any bone the pose sets, nothing changes and
// ErrAnimationEngaged is returned. Call Reset first to re-pose.
func (s *Session) ApplyPose(p Pose) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skel == nil {
		return 0, ErrNoSkeleton
	}
	for _, b := range p.Targets(s.skel) {
		if s.cache.Has(b) {
			return 0, fmt.Errorf("pose %s: bone %s: %w", p.Name, b.Name, ErrAnimationEngaged)
		}
	}

	n := ApplyPose(s.skel, p)
	s.log.Debug("pose applied", zap.String("pose", p.Name), zap.Int("bones", n))
	return n, nil
}

// Reset clears the bind-pose cache. The next update re-snapshots each
// bone's current rotation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Reset()
}

// CachedBones returns the number of bones with a captured bind pose.
func (s *Session) CachedBones() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Skeleton returns the attached skeleton, or nil.
func (s *Session) Skeleton() *model.Skeleton {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skel
}

// Dispose detaches the input source, clears the cache and drops the
// skeleton in one step.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.input.(interface{ Detach() }); ok {
		d.Detach()
	}
	s.cache.Reset()
	s.skel = nil
	s.input = nil
	s.log.Debug("session disposed")
}
