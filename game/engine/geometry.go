package engine

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in world units
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// Len returns the Euclidean length
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector, or the zero vector for a zero input
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Overlaps reports whether two rectangles intersect. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Center returns the centre point
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// CollisionPolicy selects how a slime decides it touches the player
type CollisionPolicy string

const (
	CollisionAABB     CollisionPolicy = "aabb"
	CollisionDistance CollisionPolicy = "distance"
)

// Valid reports whether p is a known policy. The empty policy is valid and
// means the default.
func (p CollisionPolicy) Valid() bool {
	switch p {
	case "", CollisionAABB, CollisionDistance:
		return true
	}
	return false
}

// Collider is a pairwise proximity test between two rectangles
type Collider func(a, b Rect) bool

// WithinDistance reports whether the anchors of a and b are closer than
// threshold on both axes
func WithinDistance(a, b Vec2, threshold float64) bool {
	return math.Abs(a.X-b.X) < threshold && math.Abs(a.Y-b.Y) < threshold
}

// Collider returns the test implementing the policy. The distance policy
// compares rectangle anchors against threshold.
func (p CollisionPolicy) Collider(threshold float64) (Collider, error) {
	switch p {
	case CollisionAABB:
		return func(a, b Rect) bool { return a.Overlaps(b) }, nil
	case "", CollisionDistance:
		return func(a, b Rect) bool {
			return WithinDistance(Vec2{a.X, a.Y}, Vec2{b.X, b.Y}, threshold)
		}, nil
	}
	return nil, fmt.Errorf("unknown collision policy %q", string(p))
}
