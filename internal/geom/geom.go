// Package geom holds the planar helpers used by the lasso selection:
// polygon accumulation, point containment and bounding boxes.
//
// Coordinates are whatever space the caller works in (usually screen
// pixels after scale transforms); nothing here transforms them.
package geom

import (
	"math"
	"strconv"
	"strings"
)

// Point is a 2D position.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Rect is an axis-aligned rectangle. Min holds the smallest coordinates.
type Rect struct {
	Min Point
	Max Point
}

// NewRect builds a Rect from two opposite corners in any order.
func NewRect(a, b Point) Rect {
	return Rect{
		Min: Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)},
		Max: Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)},
	}
}

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool { return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y }

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Clamp moves p to the nearest position inside r.
func (r Rect) Clamp(p Point) Point {
	return Point{X: clamp(p.X, r.Min.X, r.Max.X), Y: clamp(p.Y, r.Min.Y, r.Max.Y)}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Polygon is an ordered vertex list. It is treated as implicitly closed:
// the last vertex connects back to the first.
type Polygon []Point

// Append adds pt to the path unless it repeats the last vertex.
// Use it like the builtin append.
func (p Polygon) Append(pt Point) Polygon {
	if n := len(p); n > 0 && p[n-1] == pt {
		return p
	}
	return append(p, pt)
}

// Bounds returns the bounding box of the vertices. A polygon without
// vertices yields the zero Rect.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{Min: p[0], Max: p[0]}
	for _, v := range p[1:] {
		r.Min.X = math.Min(r.Min.X, v.X)
		r.Min.Y = math.Min(r.Min.Y, v.Y)
		r.Max.X = math.Max(r.Max.X, v.X)
		r.Max.Y = math.Max(r.Max.Y, v.Y)
	}
	return r
}

// PathData renders the polygon as SVG path data ("M x,y L x,y ... Z").
func (p Polygon) PathData() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, v := range p {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(strconv.FormatFloat(v.X, 'g', -1, 64))
		b.WriteString(",")
		b.WriteString(strconv.FormatFloat(v.Y, 'g', -1, 64))
	}
	b.WriteString("Z")
	return b.String()
}

// PointInPolygon reports whether pt lies strictly inside poly using the
// even-odd rule. Polygons with fewer than three vertices contain nothing.
//
// Points exactly on an edge or vertex are outside, so two polygons that
// share an edge never both claim a point on it. Vertex order (clockwise or
// counter-clockwise) does not matter.
func PointInPolygon(pt Point, poly Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	if !poly.Bounds().Contains(pt) {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[j], poly[i]
		if onSegment(pt, a, b) {
			return false
		}
		// Half-open in y so a ray through a vertex is counted once.
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether p lies on the closed segment a-b.
func onSegment(p, a, b Point) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
	if cross != 0 {
		return false
	}
	return p.X >= math.Min(a.X, b.X) && p.X <= math.Max(a.X, b.X) &&
		p.Y >= math.Min(a.Y, b.Y) && p.Y <= math.Max(a.Y, b.Y)
}

// PlotArea returns a plotting area that strictly encloses r: each axis is
// padded by 5% of its span (or by 1 when the span is zero) and then widened
// to round tick steps. Data on the edge of r ends up inside the area, so a
// lasso clamped to it can still surround the extreme points.
func PlotArea(r Rect) Rect {
	x0, x1 := niceRange(pad(r.Min.X, r.Max.X))
	y0, y1 := niceRange(pad(r.Min.Y, r.Max.Y))
	return Rect{Min: Point{X: x0, Y: y0}, Max: Point{X: x1, Y: y1}}
}

func pad(lo, hi float64) (float64, float64) {
	d := (hi - lo) * 0.05
	if d <= 0 {
		d = 1
	}
	return lo - d, hi + d
}

// niceRange extends [lo, hi] outwards to multiples of a 1, 2 or 5 step
// giving roughly ten ticks.
func niceRange(lo, hi float64) (float64, float64) {
	if !(hi > lo) || math.IsInf(hi-lo, 0) {
		return lo, hi
	}
	raw := (hi - lo) / 10
	step := math.Pow(10, math.Floor(math.Log10(raw)))
	switch e := raw / step; {
	case e >= math.Sqrt(50):
		step *= 10
	case e >= math.Sqrt(10):
		step *= 5
	case e >= math.Sqrt(2):
		step *= 2
	}
	return math.Floor(lo/step) * step, math.Ceil(hi/step) * step
}
