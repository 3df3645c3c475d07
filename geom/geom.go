// Package geom holds the small 2D vector and rectangle types shared by the
// simulations.
package geom

import (
	"fmt"
	"math"

	dmath "github.com/yohamta/donburi/features/math"
)

// Vec2 is a 2D vector in world or screen units. It shares its layout with
// donburi's math.Vec2, so the two convert freely.
type Vec2 dmath.Vec2

// V is shorthand for Vec2{X: x, Y: y}
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromMath converts a donburi vector.
func FromMath(v dmath.Vec2) Vec2 {
	return Vec2(v)
}

// Math returns v as a donburi vector.
func (v Vec2) Math() dmath.Vec2 {
	return dmath.Vec2(v)
}

// XY returns the components narrowed for ebiten's vector API.
func (v Vec2) XY() (float32, float32) {
	return float32(v.X), float32(v.Y)
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns the unit vector in the direction of v, or the zero vector
// if v is zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// ClampLen shortens v to at most limit, keeping its direction.
func (v Vec2) ClampLen(limit float64) Vec2 {
	if l := v.Len(); l > limit && l > 0 {
		return v.Scale(limit / l)
	}
	return v
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

// Rect is an axis-aligned rectangle with Min <= Max on both axes.
type Rect struct {
	Min, Max Vec2
}

// RectFromCorners builds a Rect from two opposite corners given in any order.
func RectFromCorners(a, b Vec2) Rect {
	return Rect{
		Min: Vec2{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Vec2{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Size() Vec2 {
	return r.Max.Sub(r.Min)
}

func (r Rect) Center() Vec2 {
	return r.Min.Add(r.Max).Scale(0.5)
}

// Translate returns r moved by d
func (r Rect) Translate(d Vec2) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}
