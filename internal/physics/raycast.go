package physics

import "math"

// RayHit is the result of a ray query against the space.
type RayHit struct {
	Hit      bool
	Position Vec3
	Normal   Vec3
	Distance float64
}

// RayCast reports the first box surface crossed by the segment origin→target.
// A ray starting inside a box reports no hit for that box.
func (s *Space) RayCast(origin, target Vec3) RayHit {
	if s == nil {
		return RayHit{}
	}
	dir := target.Sub(origin)
	length := dir.Length()
	if length <= CollisionAxisTolerance {
		return RayHit{}
	}

	best := RayHit{Distance: math.Inf(1)}
	for _, b := range s.boxes {
		t, normal, ok := intersectSlab(origin, dir, b)
		if !ok {
			continue
		}
		dist := t * length
		if dist < best.Distance {
			best = RayHit{
				Hit:      true,
				Position: origin.Add(dir.Scale(t)),
				Normal:   normal,
				Distance: dist,
			}
		}
	}
	if !best.Hit {
		return RayHit{}
	}
	return best
}

// intersectSlab returns the entry parameter t in [0,1] of origin+dir*t into box.
func intersectSlab(origin, dir Vec3, box AABB) (float64, Vec3, bool) {
	tMin := 0.0
	tMax := 1.0
	enterAxis := -1
	enterSign := 0.0

	for axis := 0; axis < 3; axis++ {
		o := origin.axis(axis)
		d := dir.axis(axis)
		lo := box.Min.axis(axis)
		hi := box.Max.axis(axis)

		if nearlyZero(d) {
			if o < lo || o > hi {
				return 0, Vec3{}, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}
		if t1 > tMin {
			tMin = t1
			enterAxis = axis
			enterSign = sign
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, Vec3{}, false
		}
	}

	if enterAxis < 0 {
		// Origin already inside the box.
		return 0, Vec3{}, false
	}

	var normal Vec3
	normal.setAxis(enterAxis, enterSign)
	return tMin, normal, true
}
