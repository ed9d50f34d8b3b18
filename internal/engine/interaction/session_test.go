package interaction

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/pkg/math"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

type fixedInput struct {
	mu       sync.Mutex
	state    InputState
	detached bool
}

func (f *fixedInput) State() InputState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fixedInput) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
}

// bodySkeleton has a head chain and both arms.
func bodySkeleton(t *testing.T) *model.Skeleton {
	t.Helper()
	skel, err := model.BuildSkeleton([]pmx.Bone{
		{Name: "上半身", ParentIndex: pmx.NoIndex},
		{Name: "首", Position: [3]float32{0, 1.4, 0}, ParentIndex: 0},
		{Name: "頭", Position: [3]float32{0, 1.5, 0}, ParentIndex: 1},
		{Name: "左腕", Position: [3]float32{0.2, 1.3, 0}, ParentIndex: 0},
		{Name: "右腕", Position: [3]float32{-0.2, 1.3, 0}, ParentIndex: 0},
		{Name: "左足", Position: [3]float32{0.1, 0.9, 0}, ParentIndex: 0},
		{Name: "右足", Position: [3]float32{-0.1, 0.9, 0}, ParentIndex: 0},
	})
	if err != nil {
		t.Fatalf("BuildSkeleton() error: %v", err)
	}
	return skel
}

func TestSession_NoSkeleton(t *testing.T) {
	s := NewSession(DefaultSessionOptions())
	if err := s.Tick(time.Second); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("Tick() = %v, want ErrNoSkeleton", err)
	}
	if _, err := s.ApplyPose(Standing); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("ApplyPose() = %v, want ErrNoSkeleton", err)
	}
}

func TestSession_PoseThenAnimate(t *testing.T) {
	skel := bodySkeleton(t)
	in := &fixedInput{state: InputState{Pointer: math.Vec2{X: 200, Y: 50}}}
	s := NewSession(DefaultSessionOptions())
	s.Attach(skel, in)

	if n, err := s.ApplyPose(Standing); err != nil || n != 4 {
		t.Fatalf("ApplyPose() = %d, %v", n, err)
	}
	posed := skel.Find("左腕").Rotation

	if err := s.Tick(time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	// Gaze touches 首 頭, sway touches both arms.
	if s.CachedBones() != 4 {
		t.Errorf("cached %d bones, want 4", s.CachedBones())
	}
	bind, _ := s.cache.Get(skel.Find("左腕").Key())
	if bind != posed {
		t.Errorf("sway captured %+v, want the applied pose %+v", bind, posed)
	}

	// Arms are engaged now; posing them again must wait for a reset.
	if _, err := s.ApplyPose(Standing); !errors.Is(err, ErrAnimationEngaged) {
		t.Errorf("ApplyPose() after Tick = %v, want ErrAnimationEngaged", err)
	}
	if got := skel.Find("左足").Rotation; !quatApprox(got, (Euler{}).Quat()) {
		t.Errorf("rejected pose changed 左足: %+v", got)
	}

	legs := Pose{Name: "legs", Bones: map[string]Euler{"左足": {-10, 0, 0}}}
	if n, err := s.ApplyPose(legs); err != nil || n != 1 {
		t.Errorf("ApplyPose(legs) = %d, %v", n, err)
	}

	s.Reset()
	if s.CachedBones() != 0 {
		t.Errorf("Reset left %d bones", s.CachedBones())
	}
	if _, err := s.ApplyPose(Sitting); err != nil {
		t.Errorf("ApplyPose() after Reset: %v", err)
	}
}

func TestSession_TickUpdatesWorld(t *testing.T) {
	skel := bodySkeleton(t)
	opts := DefaultSessionOptions()
	opts.Gaze.Smoothing = 1
	opts.SwayEnabled = false
	s := NewSession(opts)
	s.Attach(skel, &fixedInput{state: InputState{Pointer: math.Vec2{X: 1e4}}})

	head := skel.Find("頭")
	before := head.WorldPosition()
	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	// 頭 sits on the neck's Y axis, so a pure yaw leaves its height unchanged.
	if _, yaw, _ := head.Rotation.EulerYXZ(); !approx(yaw, 0.3) {
		t.Errorf("head yaw = %v, want 0.3", yaw)
	}
	if got := head.WorldPosition(); !approx(got.Y, before.Y) {
		t.Errorf("head world moved off axis: %+v -> %+v", before, got)
	}
	if got := skel.Find("左腕").Rotation; got != math.QuatIdentity() {
		t.Errorf("sway disabled but arm moved: %+v", got)
	}
}

func TestSession_GazeDisabled(t *testing.T) {
	skel := bodySkeleton(t)
	opts := DefaultSessionOptions()
	opts.GazeEnabled = false
	s := NewSession(opts)
	s.Attach(skel, &fixedInput{state: InputState{Pointer: math.Vec2{X: 1e4}}})
	if err := s.Tick(time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if got := skel.Find("頭").Rotation; got != math.QuatIdentity() {
		t.Errorf("gaze disabled but head moved: %+v", got)
	}
	if got := skel.Find("左腕").Rotation; got == math.QuatIdentity() {
		t.Error("sway should move the arm")
	}
}

func TestSession_AttachResetsOnSwap(t *testing.T) {
	first := bodySkeleton(t)
	s := NewSession(DefaultSessionOptions())
	s.Attach(first, nil)
	if err := s.Tick(time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	n := s.CachedBones()
	if n == 0 {
		t.Fatal("expected cached bones")
	}

	s.Attach(first, &fixedInput{})
	if s.CachedBones() != n {
		t.Errorf("re-attaching the same skeleton cleared the cache")
	}

	second := bodySkeleton(t)
	second.Find("頭").Rotation = math.QuatFromAxisAngle(math.AxisX, 0.3)
	s.Attach(second, nil)
	if s.CachedBones() != 0 {
		t.Errorf("swap kept %d stale entries", s.CachedBones())
	}
	if err := s.Tick(0); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	bind, _ := s.cache.Get(second.Find("頭").Key())
	if bind != math.QuatFromAxisAngle(math.AxisX, 0.3) {
		t.Errorf("new skeleton bind = %+v, want its own rest rotation", bind)
	}
}

func TestSession_AttachNilDetaches(t *testing.T) {
	skel := bodySkeleton(t)
	s := NewSession(DefaultSessionOptions())
	s.Attach(skel, &fixedInput{state: InputState{Pointer: math.Vec2{X: 1e4}}})
	if err := s.Tick(time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if s.CachedBones() == 0 {
		t.Fatal("expected cached bones after a tick")
	}

	// A released asset leaves a nil skeleton behind.
	s.Attach(nil, nil)
	if s.CachedBones() != 0 {
		t.Errorf("cache kept %d bones after nil attach", s.CachedBones())
	}
	if s.Skeleton() != nil {
		t.Error("expected no skeleton")
	}
	if err := s.Tick(time.Second); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("Tick() = %v, want ErrNoSkeleton", err)
	}
}

func TestSession_Dispose(t *testing.T) {
	skel := bodySkeleton(t)
	in := &fixedInput{}
	s := NewSession(DefaultSessionOptions())
	s.Attach(skel, in)
	if err := s.Tick(time.Second); err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	s.Dispose()
	if !in.detached {
		t.Error("Dispose should detach the input source")
	}
	if s.CachedBones() != 0 || s.Skeleton() != nil {
		t.Error("Dispose should clear the cache and skeleton")
	}
	if err := s.Tick(time.Second); !errors.Is(err, ErrNoSkeleton) {
		t.Errorf("Tick() after Dispose = %v", err)
	}
}

func TestSession_ConcurrentTicks(t *testing.T) {
	skel := bodySkeleton(t)
	in := &fixedInput{}
	s := NewSession(DefaultSessionOptions())
	s.Attach(skel, in)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				in.mu.Lock()
				in.state.Pointer = math.Vec2{X: float32(i * j), Y: float32(j)}
				in.mu.Unlock()
				if err := s.Tick(time.Duration(j) * time.Millisecond); err != nil {
					t.Error(err)
					return
				}
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			s.Reset()
		}
	}()
	wg.Wait()
}
