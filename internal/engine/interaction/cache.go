// Package interaction drives procedural bone animation on an assembled
// skeleton: pointer gaze, idle arm sway and static poses.
//
// Controllers compose their rotations onto a bind pose snapshotted the
// first time they touch a bone, so repeated updates never accumulate.
package interaction

import (
	"github.com/Faultbox/midgard-mmd/internal/engine/model"
	"github.com/Faultbox/midgard-mmd/pkg/math"
)

// InputState is the pointer and viewport reading for one update.
type InputState struct {
	Pointer    math.Vec2 // offset from viewport center, halved
	HalfWidth  float32
	HalfHeight float32
}

// InputSource supplies the latest input snapshot.
type InputSource interface {
	State() InputState
}

// BindPoseCache maps bone names to their rest rotation. The first write
// for a name wins; entries only go away on Reset. It is not safe for
// concurrent use, Session serializes access.
type BindPoseCache struct {
	rest map[string]math.Quat
}

// NewBindPoseCache creates an empty cache.
func NewBindPoseCache() *BindPoseCache {
	return &BindPoseCache{rest: make(map[string]math.Quat)}
}

// Snapshot returns the cached rest rotation for b, recording b's current
// rotation if the bone has not been seen.
func (c *BindPoseCache) Snapshot(b *model.Bone) math.Quat {
	if q, ok := c.rest[b.Key()]; ok {
		return q
	}
	c.rest[b.Key()] = b.Rotation
	return b.Rotation
}

// Get returns the cached rotation for a bone key.
func (c *BindPoseCache) Get(key string) (math.Quat, bool) {
	q, ok := c.rest[key]
	return q, ok
}

// Has reports whether b has a cached rest rotation.
func (c *BindPoseCache) Has(b *model.Bone) bool {
	_, ok := c.rest[b.Key()]
	return ok
}

// Len returns the number of cached bones.
func (c *BindPoseCache) Len() int {
	return len(c.rest)
}

// Reset drops every entry.
func (c *BindPoseCache) Reset() {
	clear(c.rest)
}

// nameSet matches bones by folded name.
type nameSet map[string]bool

func newNameSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[foldKey(n)] = true
	}
	return s
}

func (s nameSet) has(b *model.Bone) bool {
	return s[b.Key()]
}
