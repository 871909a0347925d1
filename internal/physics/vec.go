package physics

import "math"

type Vec2 struct {
	X float64
	Y float64
}

type Vec3 struct {
	X float64
	Y float64
	Z float64
}

var (
	Zero3 = Vec3{}
	Up    = Vec3{Y: 1}
	Down  = Vec3{Y: -1}
)

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{X: v.X * s, Y: v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l <= CollisionAxisTolerance {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// AngleTo returns the unsigned angle in radians between v and o.
func (v Vec2) AngleTo(o Vec2) float64 {
	cross := v.X*o.Y - v.Y*o.X
	return math.Abs(math.Atan2(cross, v.Dot(o)))
}

func (v Vec2) Lerp(to Vec2, weight float64) Vec2 {
	return Vec2{X: Lerp(v.X, to.X, weight), Y: Lerp(v.Y, to.Y, weight)}
}

// MoveToward advances v toward target by at most maxStep.
func (v Vec2) MoveToward(target Vec2, maxStep float64) Vec2 {
	delta := target.Sub(v)
	l := delta.Length()
	if l <= maxStep || l <= CollisionAxisTolerance {
		return target
	}
	return v.Add(delta.Scale(maxStep / l))
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(s float64) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 { return math.Sqrt(v.Dot(v)) }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l <= CollisionAxisTolerance {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Horizontal drops the vertical component.
func (v Vec3) Horizontal() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) Lerp(to Vec3, weight float64) Vec3 {
	return Vec3{
		X: Lerp(v.X, to.X, weight),
		Y: Lerp(v.Y, to.Y, weight),
		Z: Lerp(v.Z, to.Z, weight),
	}
}

// AngleTo returns the unsigned angle in radians between v and o.
func (v Vec3) AngleTo(o Vec3) float64 {
	return math.Atan2(v.Cross(o).Length(), v.Dot(o))
}

// RotateY rotates v about the world up axis. Positive angles turn -Z toward -X.
func (v Vec3) RotateY(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

func (v Vec3) axis(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func (v *Vec3) setAxis(i int, value float64) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

// Transform is a body placement: feet origin plus rotation about the up axis.
// Roll and pitch never apply to the body itself.
type Transform struct {
	Origin Vec3
	Yaw    float64
}

func (t Transform) Translated(offset Vec3) Transform {
	return Transform{Origin: t.Origin.Add(offset), Yaw: t.Yaw}
}

// ToWorld maps a body-local offset into world space.
func (t Transform) ToWorld(local Vec3) Vec3 {
	return t.Origin.Add(local.RotateY(t.Yaw))
}

// Forward is the body's facing direction (-Z rotated by yaw).
func (t Transform) Forward() Vec3 {
	return Vec3{Z: -1}.RotateY(t.Yaw)
}

func Lerp(from, to, weight float64) float64 {
	return from + (to-from)*weight
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func MoveToward(from, to, maxStep float64) float64 {
	if math.Abs(to-from) <= maxStep {
		return to
	}
	if to > from {
		return from + maxStep
	}
	return from - maxStep
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// LinearToDB converts a linear amplitude to decibels; silence maps to -Inf.
func LinearToDB(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(linear)
}

func nearlyZero(v float64) bool {
	return math.Abs(v) <= CollisionAxisTolerance
}
