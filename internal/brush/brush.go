// Package brush turns a freehand pointer drag into a live set of selected
// point identifiers (lasso selection).
//
// An Engine owns at most one in-progress gesture. Pointer events arrive in
// temporal order through Start, Extend, End and Cancel; calls made in the
// wrong order are ignored rather than reported, since pointer devices
// routinely deliver stray or out-of-order events. An Engine is not safe for
// concurrent use.
package brush

import (
	"github.com/KaramelBytes/scatterdiff/internal/geom"
)

// Phase identifies the lifecycle step an Event belongs to.
type Phase int

const (
	Start Phase = iota
	Brushing
	End
)

func (p Phase) String() string {
	switch p {
	case Start:
		return "Start"
	case Brushing:
		return "Brushing"
	case End:
		return "End"
	default:
		return "Unknown"
	}
}

// Candidate is a selectable point in the same coordinate space as the
// brush vertices.
type Candidate struct {
	ID int
	X  float64
	Y  float64
}

// Event is emitted to the Handler on every state change of a gesture.
// PointIDs follow candidate order and never contain duplicates.
type Event struct {
	PointIDs []int
	Phase    Phase
}

// Handler receives brush events synchronously.
type Handler func(Event)

// Option configures an Engine.
type Option func(*Engine)

// WithBounds clamps every vertex of the gesture into r, typically the
// plotting area of the chart.
func WithBounds(r geom.Rect) Option {
	return func(e *Engine) {
		e.bounds = r
		e.bounded = true
	}
}

// Engine tracks one freeform brush gesture.
type Engine struct {
	points  []Candidate
	onBrush Handler
	bounds  geom.Rect
	bounded bool

	poly   geom.Polygon
	active bool
}

// New creates an idle Engine over points. handler may be nil.
func New(points []Candidate, handler Handler, opts ...Option) *Engine {
	e := &Engine{points: points, onBrush: handler}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SetPoints replaces the candidate collection. The next recomputation,
// including one inside an active gesture, uses the new points.
func (e *Engine) SetPoints(points []Candidate) { e.points = points }

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool { return e.active }

// Polygon returns a copy of the in-progress path.
func (e *Engine) Polygon() geom.Polygon {
	if len(e.poly) == 0 {
		return nil
	}
	out := make(geom.Polygon, len(e.poly))
	copy(out, e.poly)
	return out
}

// Start begins a gesture at pt and emits a Start event with no points.
// It does nothing while another gesture is active.
func (e *Engine) Start(pt geom.Point) {
	if e.active {
		return
	}
	e.active = true
	e.poly = geom.Polygon{e.clamp(pt)}
	e.emit(Event{PointIDs: []int{}, Phase: Start})
}

// Extend appends pt to the active gesture and emits a Brushing event
// with the points currently inside the path. Without an active gesture
// it does nothing.
func (e *Engine) Extend(pt geom.Point) {
	if !e.active {
		return
	}
	e.poly = e.poly.Append(e.clamp(pt))
	e.emit(Event{PointIDs: Select(e.points, e.poly), Phase: Brushing})
}

// End closes the active gesture, emits an End event with the final
// selection and leaves the Engine ready for a new Start. Without an
// active gesture it emits nothing.
func (e *Engine) End() {
	if !e.active {
		return
	}
	ids := Select(e.points, e.poly)
	e.reset()
	e.emit(Event{PointIDs: ids, Phase: End})
}

// Cancel abandons the active gesture without emitting anything.
func (e *Engine) Cancel() { e.reset() }

func (e *Engine) reset() {
	e.active = false
	e.poly = nil
}

func (e *Engine) clamp(pt geom.Point) geom.Point {
	if !e.bounded {
		return pt
	}
	return e.bounds.Clamp(pt)
}

func (e *Engine) emit(ev Event) {
	if e.onBrush != nil {
		e.onBrush(ev)
	}
}

// Select returns the IDs of points strictly inside poly, in candidate
// order and without duplicates. It always returns a non-nil slice.
func Select(points []Candidate, poly geom.Polygon) []int {
	ids := []int{}
	if len(poly) < 3 || len(points) == 0 {
		return ids
	}
	seen := make(map[int]struct{})
	for _, c := range points {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if geom.PointInPolygon(geom.Point{X: c.X, Y: c.Y}, poly) {
			seen[c.ID] = struct{}{}
			ids = append(ids, c.ID)
		}
	}
	return ids
}
