package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-mmd/pkg/encoding"
	"github.com/Faultbox/midgard-mmd/pkg/math"
	"github.com/Faultbox/midgard-mmd/pkg/pmx"
)

// RootName is the name of the synthetic bone every parentless bone hangs off.
const RootName = "__root__"

// ErrBoneCycle is returned when bone parent links form a loop.
var ErrBoneCycle = errors.New("bone parent cycle")

// Bone is one joint of the skeleton. Offset is relative to the parent and
// never changes after building; Rotation is the live local rotation that
// animation writes.
type Bone struct {
	Name        string
	EnglishName string
	Index       int // source index, -1 for the root
	Parent      *Bone
	Children    []*Bone
	Offset      math.Vec3
	Rotation    math.Quat
	World       math.Mat4

	key string
}

// Key returns the width-folded name used for lookups.
func (b *Bone) Key() string {
	return b.key
}

// Skeleton is the bone tree of an asset.
type Skeleton struct {
	Root  *Bone
	Bones []*Bone // source order, excludes Root

	byName map[string][]*Bone
}

// BuildSkeleton builds the bone tree from absolute source positions.
//
// Each bone's offset is its Z-negated absolute position minus its parent's,
// both taken from source data, so depth never accumulates error. Bones with
// no valid parent (negative, out of range or self) attach to the synthetic
// root and keep their absolute position as offset.
func BuildSkeleton(src []pmx.Bone) (*Skeleton, error) {
	if len(src) == 0 {
		return nil, pmx.ErrNoBones
	}

	root := &Bone{
		Name:     RootName,
		Index:    -1,
		Rotation: math.QuatIdentity(),
		World:    math.Identity(),
		key:      RootName,
	}
	s := &Skeleton{
		Root:   root,
		Bones:  make([]*Bone, len(src)),
		byName: make(map[string][]*Bone, len(src)),
	}

	absolute := make([]math.Vec3, len(src))
	for i := range src {
		name := encoding.DecodeName(src[i].Name)
		if name == "" {
			name = fmt.Sprintf("bone_%d", i)
		}
		b := &Bone{
			Name:        name,
			EnglishName: encoding.DecodeName(src[i].EnglishName),
			Index:       i,
			Rotation:    math.QuatIdentity(),
			World:       math.Identity(),
			key:         encoding.FoldName(name),
		}
		s.Bones[i] = b
		s.byName[b.key] = append(s.byName[b.key], b)
		absolute[i] = math.Vec3From(src[i].Position).FlipZ()
	}

	if err := checkCycles(src); err != nil {
		return nil, err
	}

	for i, b := range s.Bones {
		p := parentIndex(src, i)
		if p < 0 {
			b.Parent = root
			b.Offset = absolute[i]
		} else {
			b.Parent = s.Bones[p]
			b.Offset = absolute[i].Sub(absolute[p])
		}
		b.Parent.Children = append(b.Parent.Children, b)
	}

	s.UpdateWorld()
	return s, nil
}

// parentIndex returns the usable parent of bone i, or -1 for the root.
func parentIndex(src []pmx.Bone, i int) int {
	p := int(src[i].ParentIndex)
	if p < 0 || p >= len(src) || p == i {
		return -1
	}
	return p
}

// checkCycles walks every parent chain; a chain longer than the bone count
// must revisit a bone.
func checkCycles(src []pmx.Bone) error {
	state := make([]uint8, len(src)) // 0 unvisited, 1 on current chain, 2 done
	for i := range src {
		var chain []int
		for j := i; j >= 0 && state[j] != 2; j = parentIndex(src, j) {
			if state[j] == 1 {
				return fmt.Errorf("bone %d (%s): %w", j, src[j].Name, ErrBoneCycle)
			}
			state[j] = 1
			chain = append(chain, j)
		}
		for _, j := range chain {
			state[j] = 2
		}
	}
	return nil
}

// UpdateWorld recomputes world matrices from the root down.
func (s *Skeleton) UpdateWorld() {
	s.Root.World = math.Compose(s.Root.Offset, s.Root.Rotation)
	stack := append([]*Bone(nil), s.Root.Children...)
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.World = b.Parent.World.Mul(math.Compose(b.Offset, b.Rotation))
		stack = append(stack, b.Children...)
	}
}

// Find returns the first bone whose folded name matches name, or nil.
func (s *Skeleton) Find(name string) *Bone {
	if bones := s.byName[encoding.FoldName(name)]; len(bones) > 0 {
		return bones[0]
	}
	return nil
}

// FindAll returns every bone whose folded name matches name.
func (s *Skeleton) FindAll(name string) []*Bone {
	return s.byName[encoding.FoldName(name)]
}

// WorldPosition returns the bone's model-space origin.
func (b *Bone) WorldPosition() math.Vec3 {
	return b.World.Translation()
}

// Depth returns the number of links to the synthetic root.
func (b *Bone) Depth() int {
	d := 0
	for p := b.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}
