// Package camera provides an orbit camera that frames a loaded model.
package camera

import (
	gomath "math"

	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32
	RotationX float32 // pitch, radians
	RotationY float32 // yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera sized for MMD units.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        30,
		RotationX:       0.1,
		MinDistance:     1,
		MaxDistance:     500,
		MinPitch:        -1.2,
		MaxPitch:        1.2,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	pitch, yaw := float64(c.RotationX), float64(c.RotationY)
	offset := math.Vec3{
		X: c.Distance * float32(gomath.Cos(pitch)*gomath.Sin(yaw)),
		Y: c.Distance * float32(gomath.Sin(pitch)),
		Z: c.Distance * float32(gomath.Cos(pitch)*gomath.Cos(yaw)),
	}
	return c.Center.Add(offset)
}

// HandleDrag updates rotation from a pointer drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance from a scroll delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds aims the camera at the upper body of the box and backs off
// far enough to keep its height in view.
func (c *OrbitCamera) FitToBounds(lo, hi math.Vec3) {
	size := hi.Sub(lo)
	c.Center = math.Vec3{
		X: (lo.X + hi.X) / 2,
		Y: lo.Y + size.Y*0.6,
		Z: (lo.Z + hi.Z) / 2,
	}

	extent := size.Y
	if size.X > extent {
		extent = size.X
	}
	c.Distance = math.Clamp(extent*1.5, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.1
	c.RotationY = 0
}
