package geom

import (
	"fmt"
	"math"

	"github.com/engelsjk/polygol"
)

// Coord is a point in planar degrees. For sky footprints X is right
// ascension and Y is declination.
type Coord struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Ring is a closed loop of coordinates. The closing vertex may be
// omitted; operations treat the ring as implicitly closed.
type Ring []Coord

// Poly is a single polygon: an exterior ring plus optional holes.
type Poly struct {
	Exterior Ring
	Holes    []Ring
}

// Shape is a multipolygon: zero or more non-overlapping polygons.
// The zero value is the empty shape.
type Shape []Poly

// NewShape builds a shape from a list of exterior rings. Degenerate
// rings (fewer than three distinct vertices, or zero area) are dropped.
func NewShape(rings []Ring) Shape {
	var s Shape
	for _, r := range rings {
		if ringDegenerate(r) {
			continue
		}
		s = append(s, Poly{Exterior: r.clone()})
	}
	return s
}

// IsEmpty reports whether the shape contains no non-degenerate polygon.
func (s Shape) IsEmpty() bool {
	for _, p := range s {
		if !ringDegenerate(p.Exterior) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, 0, len(s))
	for _, p := range s {
		np := Poly{Exterior: p.Exterior.clone()}
		for _, h := range p.Holes {
			np.Holes = append(np.Holes, h.clone())
		}
		out = append(out, np)
	}
	return out
}

// Area returns the total area of the shape. Holes subtract.
func (s Shape) Area() float64 {
	var total float64
	for _, p := range s {
		a := math.Abs(ringArea(p.Exterior))
		for _, h := range p.Holes {
			a -= math.Abs(ringArea(h))
		}
		if a > 0 {
			total += a
		}
	}
	return total
}

// Bounds returns the bounding box of all vertices, including vertices
// of degenerate rings. The empty shape has a zero bounding box.
func (s Shape) Bounds() (minX, minY, maxX, maxY float64) {
	first := true
	visit := func(r Ring) {
		for _, c := range r {
			if first {
				minX, maxX = c.X, c.X
				minY, maxY = c.Y, c.Y
				first = false
				continue
			}
			minX = math.Min(minX, c.X)
			maxX = math.Max(maxX, c.X)
			minY = math.Min(minY, c.Y)
			maxY = math.Max(maxY, c.Y)
		}
	}
	for _, p := range s {
		visit(p.Exterior)
		for _, h := range p.Holes {
			visit(h)
		}
	}
	return minX, minY, maxX, maxY
}

// Center returns the center of the bounding box.
func (s Shape) Center() Coord {
	minX, minY, maxX, maxY := s.Bounds()
	return Coord{X: (minX + maxX) / 2, Y: (minY + maxY) / 2}
}

// Centroid returns the area-weighted centroid. A shape with zero area
// falls back to the bounding box center.
func (s Shape) Centroid() Coord {
	var aSum, cxSum, cySum float64
	accumulate := func(r Ring, sign float64) {
		a, cx, cy := ringCentroid(r)
		aSum += sign * a
		cxSum += sign * a * cx
		cySum += sign * a * cy
	}
	for _, p := range s {
		if ringDegenerate(p.Exterior) {
			continue
		}
		accumulate(p.Exterior, 1)
		for _, h := range p.Holes {
			if !ringDegenerate(h) {
				accumulate(h, -1)
			}
		}
	}
	if aSum == 0 {
		return s.Center()
	}
	return Coord{X: cxSum / aSum, Y: cySum / aSum}
}

// Transform applies fn to every vertex and returns the new shape.
func (s Shape) Transform(fn func(Coord) Coord) Shape {
	out := make(Shape, 0, len(s))
	for _, p := range s {
		np := Poly{Exterior: transformRing(p.Exterior, fn)}
		for _, h := range p.Holes {
			np.Holes = append(np.Holes, transformRing(h, fn))
		}
		out = append(out, np)
	}
	return out
}

// Translate shifts every vertex by (dx, dy).
func (s Shape) Translate(dx, dy float64) Shape {
	return s.Transform(func(c Coord) Coord {
		return Coord{X: c.X + dx, Y: c.Y + dy}
	})
}

// Rotate rotates the shape by deg degrees counter-clockwise around the
// given origin.
func (s Shape) Rotate(deg float64, about Coord) Shape {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return s.Transform(func(c Coord) Coord {
		x, y := c.X-about.X, c.Y-about.Y
		return Coord{
			X: about.X + x*cos - y*sin,
			Y: about.Y + x*sin + y*cos,
		}
	})
}

// Union returns the union of two shapes.
func Union(a, b Shape) (Shape, error) {
	if a.IsEmpty() {
		return b.Clone(), nil
	}
	if b.IsEmpty() {
		return a.Clone(), nil
	}
	g, err := polygol.Union(a.geom(), b.geom())
	if err != nil {
		return nil, fmt.Errorf("union: %w", err)
	}
	return fromGeom(g), nil
}

// Intersection returns the intersection of two shapes.
func Intersection(a, b Shape) (Shape, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return nil, nil
	}
	g, err := polygol.Intersection(a.geom(), b.geom())
	if err != nil {
		return nil, fmt.Errorf("intersection: %w", err)
	}
	return fromGeom(g), nil
}

// Difference returns the part of a not covered by b.
func Difference(a, b Shape) (Shape, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	if b.IsEmpty() {
		return a.Clone(), nil
	}
	g, err := polygol.Difference(a.geom(), b.geom())
	if err != nil {
		return nil, fmt.Errorf("difference: %w", err)
	}
	return fromGeom(g), nil
}

// geom converts the shape to polygol's raw multipolygon representation,
// skipping degenerate rings and closing open ones.
func (s Shape) geom() [][][][]float64 {
	g := make([][][][]float64, 0, len(s))
	for _, p := range s {
		if ringDegenerate(p.Exterior) {
			continue
		}
		rings := [][][]float64{ringCoords(p.Exterior)}
		for _, h := range p.Holes {
			if !ringDegenerate(h) {
				rings = append(rings, ringCoords(h))
			}
		}
		g = append(g, rings)
	}
	return g
}

// fromGeom converts a polygol result back to a Shape.
func fromGeom(g [][][][]float64) Shape {
	var s Shape
	for _, rawPoly := range g {
		if len(rawPoly) == 0 {
			continue
		}
		p := Poly{Exterior: coordsRing(rawPoly[0])}
		if ringDegenerate(p.Exterior) {
			continue
		}
		for _, rawHole := range rawPoly[1:] {
			h := coordsRing(rawHole)
			if !ringDegenerate(h) {
				p.Holes = append(p.Holes, h)
			}
		}
		s = append(s, p)
	}
	return s
}

func (r Ring) clone() Ring {
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

func transformRing(r Ring, fn func(Coord) Coord) Ring {
	out := make(Ring, len(r))
	for i, c := range r {
		out[i] = fn(c)
	}
	return out
}

// ringCoords returns the ring as a closed [][2]float64-style slice.
func ringCoords(r Ring) [][]float64 {
	out := make([][]float64, 0, len(r)+1)
	for _, c := range r {
		out = append(out, []float64{c.X, c.Y})
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		out = append(out, []float64{r[0].X, r[0].Y})
	}
	return out
}

func coordsRing(raw [][]float64) Ring {
	r := make(Ring, 0, len(raw))
	for _, pt := range raw {
		if len(pt) < 2 {
			continue
		}
		r = append(r, Coord{X: pt[0], Y: pt[1]})
	}
	// Drop the closing vertex; rings are implicitly closed.
	if len(r) > 1 && r[0] == r[len(r)-1] {
		r = r[:len(r)-1]
	}
	return r
}

// ringArea returns the signed shoelace area of the ring.
func ringArea(r Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// ringCentroid returns the absolute ring area and its centroid.
func ringCentroid(r Ring) (area, cx, cy float64) {
	n := len(r)
	if n < 3 {
		return 0, 0, 0
	}
	var a, sx, sy float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := r[i].X*r[j].Y - r[j].X*r[i].Y
		a += cross
		sx += (r[i].X + r[j].X) * cross
		sy += (r[i].Y + r[j].Y) * cross
	}
	a /= 2
	if a == 0 {
		return 0, 0, 0
	}
	return math.Abs(a), sx / (6 * a), sy / (6 * a)
}

// ringDegenerate reports whether a ring has fewer than three distinct
// vertices or encloses no area.
func ringDegenerate(r Ring) bool {
	distinct := make(map[Coord]struct{}, len(r))
	for _, c := range r {
		distinct[c] = struct{}{}
	}
	if len(distinct) < 3 {
		return true
	}
	return ringArea(r) == 0
}
