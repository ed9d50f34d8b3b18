package interaction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// Euler is an XYZ rotation in degrees.
type Euler struct {
	X, Y, Z float32
}

// Quat converts the angles to a rotation.
func (e Euler) Quat() math.Quat {
	return math.QuatFromEulerDegrees(e.X, e.Y, e.Z, math.EulerXYZ)
}

// Pose maps bone names to absolute local rotations.
type Pose struct {
	Name  string
	Bones map[string]Euler
}

// Standing lowers the arms from the T-pose into a wide A and straightens
// the legs.
var Standing = Pose{
	Name: "standing",
	Bones: map[string]Euler{
		"左腕":  {-5, 0, -25},
		"右腕":  {-5, 0, 25},
		"左ひじ": {0, 0, -5},
		"右ひじ": {0, 0, 5},
		"左足":  {0, 0, 0},
		"右足":  {0, 0, 0},
		"左ひざ": {0, 0, 0},
		"右ひざ": {0, 0, 0},
	},
}

// Sitting bends hips and knees and opens the arms a little further.
var Sitting = Pose{
	Name: "sitting",
	Bones: map[string]Euler{
		"左足":  {-85, 10, -5},
		"右足":  {-85, -10, 5},
		"左ひざ": {100, 0, 0},
		"右ひざ": {100, 0, 0},
		"左腕":  {0, 0, -35},
		"右腕":  {0, 0, 35},
	},
}

var poses = map[string]Pose{
	Standing.Name: Standing,
	Sitting.Name:  Sitting,
}

// LookupPose returns a built-in pose by case-insensitive name.
func LookupPose(name string) (Pose, error) {
	p, ok := poses[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Pose{}, fmt.Errorf("unknown pose %q (have %s)", name, strings.Join(PoseNames(), ", "))
	}
	return p, nil
}

// PoseNames lists built-in poses in sorted order.
func PoseNames() []string {
	names := make([]string, 0, len(poses))
	for n := range poses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Targets returns the skeleton bones the pose would set.
func (p Pose) Targets(skel *model.Skeleton) []*model.Bone {
	var bones []*model.Bone
	for name := range p.Bones {
		bones = append(bones, skel.FindAll(name)...)
	}
	return bones
}

// ApplyPose sets the local rotation of every bone named in the pose,
// leaves other bones alone, then refreshes world matrices. It returns the
// number of bones set.
func ApplyPose(skel *model.Skeleton, p Pose) int {
	set := 0
	for name, e := range p.Bones {
		q := e.Quat()
		for _, b := range skel.FindAll(name) {
			b.Rotation = q
			set++
		}
	}
	skel.UpdateWorld()
	return set
}
