package interaction

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-mmd/pkg/math"
)

func TestEuler_QuatMatchesOracle(t *testing.T) {
	for name, e := range Sitting.Bones {
		got := e.Quat()
		want := mgl32.AnglesToQuat(mgl32.DegToRad(e.X), mgl32.DegToRad(e.Y), mgl32.DegToRad(e.Z), mgl32.XYZ)
		if !quatApprox(got, math.Quat{X: want.V[0], Y: want.V[1], Z: want.V[2], W: want.W}) {
			t.Errorf("%s: %+v, oracle %+v", name, got, want)
		}
	}
}

func TestApplyPose(t *testing.T) {
	skel := armSkeleton(t)
	elbow := skel.Find("左ひじ")
	before := elbow.WorldPosition()

	n := ApplyPose(skel, Standing)
	// 左腕 左ひじ 右腕 右ひじ 左足; English names are not in the table.
	if n != 5 {
		t.Errorf("ApplyPose() set %d bones, want 5", n)
	}

	if got := skel.Find("左腕").Rotation; got != (Euler{-5, 0, -25}).Quat() {
		t.Errorf("左腕 = %+v", got)
	}
	if got := skel.Find("LeftArm").Rotation; got != math.QuatIdentity() {
		t.Errorf("LeftArm should be untouched, got %+v", got)
	}
	if got := skel.Find("左足").Rotation; !quatApprox(got, math.QuatIdentity()) {
		t.Errorf("zero entry should give identity, got %+v", got)
	}

	// World matrices refreshed: the elbow follows the lowered arm.
	after := elbow.WorldPosition()
	if after.Y >= before.Y {
		t.Errorf("elbow world y %v should drop below %v", after.Y, before.Y)
	}
}

func TestApplyPose_Overwrites(t *testing.T) {
	skel := armSkeleton(t)
	ApplyPose(skel, Sitting)
	ApplyPose(skel, Standing)
	if got := skel.Find("左腕").Rotation; got != (Euler{-5, 0, -25}).Quat() {
		t.Errorf("pose should set absolute rotations, got %+v", got)
	}
}

func TestLookupPose(t *testing.T) {
	p, err := LookupPose(" Sitting ")
	if err != nil || p.Name != "sitting" {
		t.Errorf("LookupPose(sitting) = %v, %v", p.Name, err)
	}
	if _, err := LookupPose("lying"); err == nil {
		t.Error("expected error for unknown pose")
	}
	names := PoseNames()
	if len(names) != 2 || names[0] != "sitting" || names[1] != "standing" {
		t.Errorf("PoseNames() = %v", names)
	}
}
