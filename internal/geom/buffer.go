package geom

import (
	"fmt"
	"math"
)

// DefaultQuadSegs is the default number of segments used to approximate
// a quarter circle when buffering.
const DefaultQuadSegs = 16

// Disk returns a regular polygon approximating a circle. The polygon
// has 4*quadSegs vertices, so the area converges to pi*r^2 from below
// as quadSegs grows.
func Disk(center Coord, radius float64, quadSegs int) Shape {
	if radius <= 0 {
		return nil
	}
	if quadSegs < 1 {
		quadSegs = DefaultQuadSegs
	}
	n := 4 * quadSegs
	ring := make(Ring, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = Coord{
			X: center.X + radius*math.Cos(theta),
			Y: center.Y + radius*math.Sin(theta),
		}
	}
	return Shape{{Exterior: ring}}
}

// Buffer grows (dist > 0) or shrinks (dist < 0) the shape by dist.
// Dilation is the union of the shape with a quad per boundary edge and
// a disk per boundary vertex; erosion subtracts the dilated boundary.
func (s Shape) Buffer(dist float64, quadSegs int) (Shape, error) {
	if dist == 0 {
		return s.Clone(), nil
	}
	if quadSegs < 1 {
		quadSegs = DefaultQuadSegs
	}
	if dist > 0 {
		return dilate(s.Clone(), s.rings(), dist, quadSegs)
	}
	band, err := dilate(nil, s.rings(), -dist, quadSegs)
	if err != nil {
		return nil, err
	}
	return Difference(s, band)
}

// BufferRings dilates a set of raw rings by dist, ignoring whether they
// enclose area. Degenerate rings contribute their vertex disks, which
// makes buffering a collapsed footprint behave like buffering a point.
func BufferRings(rings []Ring, dist float64, quadSegs int) (Shape, error) {
	if dist <= 0 {
		return nil, fmt.Errorf("buffer rings: distance must be positive, got %v", dist)
	}
	if quadSegs < 1 {
		quadSegs = DefaultQuadSegs
	}
	base := NewShape(rings)
	return dilate(base, rings, dist, quadSegs)
}

// rings collects every ring of the shape, exteriors and holes.
func (s Shape) rings() []Ring {
	var out []Ring
	for _, p := range s {
		out = append(out, p.Exterior)
		out = append(out, p.Holes...)
	}
	return out
}

// dilate unions base with the swept boundary of rings.
func dilate(base Shape, rings []Ring, dist float64, quadSegs int) (Shape, error) {
	result := base
	addPiece := func(piece Shape) error {
		u, err := Union(result, piece)
		if err != nil {
			return err
		}
		result = u
		return nil
	}

	for _, r := range rings {
		seen := make(map[Coord]struct{}, len(r))
		for i, p := range r {
			q := r[(i+1)%len(r)]
			if _, ok := seen[p]; !ok {
				seen[p] = struct{}{}
				if err := addPiece(Disk(p, dist, quadSegs)); err != nil {
					return nil, err
				}
			}
			if p == q {
				continue
			}
			if err := addPiece(edgeQuad(p, q, dist)); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// edgeQuad returns a rectangle covering the edge p-q widened by dist on
// both sides.
func edgeQuad(p, q Coord, dist float64) Shape {
	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}
	nx, ny := -dy/length*dist, dx/length*dist
	ring := Ring{
		{X: p.X + nx, Y: p.Y + ny},
		{X: q.X + nx, Y: q.Y + ny},
		{X: q.X - nx, Y: q.Y - ny},
		{X: p.X - nx, Y: p.Y - ny},
	}
	return Shape{{Exterior: ring}}
}
