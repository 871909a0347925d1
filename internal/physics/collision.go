package physics

import "math"

type AABB struct {
	Min Vec3
	Max Vec3
}

// BoxAt builds the axis-aligned envelope of a body whose feet rest at origin.
func BoxAt(origin Vec3, width, height float64) AABB {
	half := width / 2.0
	return AABB{
		Min: Vec3{X: origin.X - half, Y: origin.Y, Z: origin.Z - half},
		Max: Vec3{X: origin.X + half, Y: origin.Y + height, Z: origin.Z + half},
	}
}

func (a AABB) Translated(offset Vec3) AABB {
	return AABB{Min: a.Min.Add(offset), Max: a.Max.Add(offset)}
}

func (a AABB) Intersects(b AABB) bool {
	for axis := 0; axis < 3; axis++ {
		if !overlapOnAxis(a, b, axis) {
			return false
		}
	}
	return true
}

func overlapOnAxis(a, b AABB, axis int) bool {
	return a.Min.axis(axis) < b.Max.axis(axis)-CollisionAxisTolerance &&
		a.Max.axis(axis) > b.Min.axis(axis)+CollisionAxisTolerance
}

// Space is a static collision world made of solid boxes.
type Space struct {
	boxes []AABB
}

func NewSpace(boxes ...AABB) *Space {
	s := &Space{}
	for _, b := range boxes {
		s.Add(b)
	}
	return s
}

func (s *Space) Add(box AABB) {
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	s.boxes = append(s.boxes, box)
}

func (s *Space) Collides(box AABB) bool {
	if s == nil {
		return false
	}
	for _, b := range s.boxes {
		if box.Intersects(b) {
			return true
		}
	}
	return false
}

// SweepResult describes a swept move of a box through the space.
type SweepResult struct {
	Hit       bool
	Travel    Vec3 // motion applied before stopping
	Remainder Vec3 // motion that was blocked
	Normal    Vec3 // surface normal of the first obstruction
	Contact   Vec3 // contact point on the first obstruction
	Blocked   [3]bool
}

// Sweep moves box along motion and stops at the first obstruction. Axes are
// resolved vertical first, then X, then Z.
func (s *Space) Sweep(box AABB, motion Vec3) SweepResult {
	return s.sweep(box, motion, false)
}

// Slide moves box along motion, clipping each blocked axis while letting the
// remaining axes continue.
func (s *Space) Slide(box AABB, motion Vec3) SweepResult {
	return s.sweep(box, motion, true)
}

var sweepAxisOrder = [3]int{1, 0, 2}

func (s *Space) sweep(box AABB, motion Vec3, slide bool) SweepResult {
	var result SweepResult
	moved := box

	for _, axis := range sweepAxisOrder {
		delta := motion.axis(axis)
		if result.Hit && !slide {
			result.Remainder.setAxis(axis, delta)
			continue
		}

		allowed, blocker, clipped := s.resolveAxis(moved, axis, delta)
		var offset Vec3
		offset.setAxis(axis, allowed)
		moved = moved.Translated(offset)
		result.Travel.setAxis(axis, allowed)

		if !clipped {
			continue
		}
		result.Remainder.setAxis(axis, delta-allowed)
		result.Blocked[axis] = true
		if !result.Hit {
			result.Hit = true
			result.Normal.setAxis(axis, -math.Copysign(1, delta))
			result.Contact = contactPoint(moved, blocker, axis, delta)
		}
	}

	return result
}

func (s *Space) resolveAxis(box AABB, axis int, delta float64) (float64, AABB, bool) {
	if s == nil || nearlyZero(delta) {
		return delta, AABB{}, false
	}

	allowed := delta
	var blocker AABB
	clipped := false

	for _, b := range s.boxes {
		if !overlapsExcept(box, b, axis) {
			continue
		}
		if delta > 0 {
			gap := b.Min.axis(axis) - box.Max.axis(axis)
			if gap < -CollisionAxisTolerance {
				continue
			}
			gap = math.Max(gap, 0)
			if gap <= allowed {
				allowed = gap
				blocker = b
				clipped = true
			}
		} else {
			gap := b.Max.axis(axis) - box.Min.axis(axis)
			if gap > CollisionAxisTolerance {
				continue
			}
			gap = math.Min(gap, 0)
			if gap >= allowed {
				allowed = gap
				blocker = b
				clipped = true
			}
		}
	}

	return allowed, blocker, clipped
}

func overlapsExcept(a, b AABB, skip int) bool {
	for axis := 0; axis < 3; axis++ {
		if axis == skip {
			continue
		}
		if !overlapOnAxis(a, b, axis) {
			return false
		}
	}
	return true
}

func contactPoint(moved, blocker AABB, axis int, delta float64) Vec3 {
	var p Vec3
	for i := 0; i < 3; i++ {
		if i == axis {
			if delta > 0 {
				p.setAxis(i, blocker.Min.axis(i))
			} else {
				p.setAxis(i, blocker.Max.axis(i))
			}
			continue
		}
		lo := math.Max(moved.Min.axis(i), blocker.Min.axis(i))
		hi := math.Min(moved.Max.axis(i), blocker.Max.axis(i))
		p.setAxis(i, (lo+hi)/2.0)
	}
	return p
}
