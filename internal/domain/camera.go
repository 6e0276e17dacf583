package domain

import (
	"fmt"
	"math"

	"skysight/internal/geom"
)

// CCD is the corner ring of a single detector in (ra, dec) degrees.
type CCD []geom.Coord

// Footprint is the set of CCD corner rings that make up a camera.
// CCDs must not overlap each other.
type Footprint []CCD

// Camera is a camera footprint on the sky. It can be translated,
// rotated and buffered to model dither patterns, and combined with
// other cameras through polygon set operations. All angles and offsets
// are in degrees.
//
// A camera whose footprint has collapsed to zero area reports a single
// degenerate CCD at the origin, so footprints always round-trip.
type Camera struct {
	name   string
	shape  geom.Shape
	coords Footprint
}

// emptyFootprint is what a zero-area camera reports.
func emptyFootprint() Footprint {
	return Footprint{{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}}}
}

// NewCamera builds a camera from a footprint. The footprint needs at
// least one CCD and every CCD needs at least three corners.
func NewCamera(name string, footprint Footprint) (*Camera, error) {
	if len(footprint) == 0 {
		return nil, fmt.Errorf("camera %q: footprint needs at least one CCD", name)
	}
	rings := make([]geom.Ring, 0, len(footprint))
	for i, ccd := range footprint {
		if len(ccd) < 3 {
			return nil, fmt.Errorf("camera %q: CCD %d has %d corners, need at least 3", name, i, len(ccd))
		}
		rings = append(rings, geom.Ring(ccd))
	}

	c := &Camera{name: name}
	c.setShape(geom.NewShape(rings))
	return c, nil
}

// EmptyCamera returns a camera with no area.
func EmptyCamera() *Camera {
	c, _ := NewCamera("", emptyFootprint())
	return c
}

// setShape replaces the geometry and refreshes the reported footprint.
// Holes produced by set operations stay in the shape but are not part
// of the footprint corner list.
func (c *Camera) setShape(s geom.Shape) {
	c.shape = s
	if s.IsEmpty() {
		c.coords = emptyFootprint()
		return
	}
	c.coords = make(Footprint, 0, len(s))
	for _, p := range s {
		c.coords = append(c.coords, CCD(p.Exterior))
	}
}

// Name returns the camera name.
func (c *Camera) Name() string { return c.name }

// Rename sets the camera name.
func (c *Camera) Rename(name string) { c.name = name }

// Footprint returns the CCD corner rings of the current geometry.
func (c *Camera) Footprint() Footprint {
	out := make(Footprint, len(c.coords))
	for i, ccd := range c.coords {
		out[i] = append(CCD(nil), ccd...)
	}
	return out
}

// Copy returns an independent copy of the camera.
func (c *Camera) Copy() *Camera {
	cp := &Camera{name: c.name}
	cp.setShape(c.shape.Clone())
	return cp
}

// IsEmpty reports whether the footprint encloses no area.
func (c *Camera) IsEmpty() bool { return c.shape.IsEmpty() }

// Area returns the total footprint area in square degrees.
func (c *Camera) Area() float64 { return c.shape.Area() }

// Limits returns the (ra, dec) ranges of the smallest box surrounding
// the footprint.
func (c *Camera) Limits() (raLim, decLim [2]float64) {
	minX, minY, maxX, maxY := c.boundShape().Bounds()
	return [2]float64{minX, maxX}, [2]float64{minY, maxY}
}

// Center returns the center of the footprint bounding box.
func (c *Camera) Center() geom.Coord {
	return c.boundShape().Center()
}

// Centroid returns the area-weighted centroid of the footprint.
func (c *Camera) Centroid() geom.Coord {
	if c.shape.IsEmpty() {
		return geom.Coord{}
	}
	return c.shape.Centroid()
}

// Radius returns the distance from the bounding box center to the
// farthest footprint corner, i.e. the radius of the smallest enclosing
// circle centered on the camera.
func (c *Camera) Radius() float64 {
	center := c.Center()
	var max float64
	for _, ccd := range c.coords {
		for _, corner := range ccd {
			r := math.Hypot(corner.X-center.X, corner.Y-center.Y)
			if r > max {
				max = r
			}
		}
	}
	return max
}

// boundShape returns the shape used for bounds. A collapsed camera
// still has its degenerate corner list, which keeps Limits and Center
// at the origin instead of undefined.
func (c *Camera) boundShape() geom.Shape {
	if !c.shape.IsEmpty() {
		return c.shape
	}
	rings := make([]geom.Ring, len(c.coords))
	for i, ccd := range c.coords {
		rings[i] = geom.Ring(ccd)
	}
	s := make(geom.Shape, 0, len(rings))
	for _, r := range rings {
		s = append(s, geom.Poly{Exterior: r})
	}
	return s
}

// collapseRA scales each corner's ra toward the bounding box center by
// the cosine of its own declination. Applied before planar transforms
// so they operate in locally flat coordinates.
func (c *Camera) collapseRA() {
	center := c.Center()
	c.setShape(c.shape.Transform(func(p geom.Coord) geom.Coord {
		x := (p.X - center.X) * math.Cos(p.Y*math.Pi/180)
		return geom.Coord{X: x + center.X, Y: p.Y}
	}))
}

// expandRA is the inverse of collapseRA, applied after transforms.
func (c *Camera) expandRA() {
	center := c.Center()
	c.setShape(c.shape.Transform(func(p geom.Coord) geom.Coord {
		x := (p.X - center.X) / math.Cos(p.Y*math.Pi/180)
		return geom.Coord{X: x + center.X, Y: p.Y}
	}))
}

// Translate shifts the footprint by raOffset and decOffset degrees,
// correcting for spherical distortion at the footprint's declination.
func (c *Camera) Translate(raOffset, decOffset float64) {
	if c.shape.IsEmpty() {
		return
	}
	c.collapseRA()
	c.setShape(c.shape.Translate(raOffset, decOffset))
	c.expandRA()
}

// Rotate rotates the footprint by degrees counter-clockwise around the
// bounding box center, or around (0, 0) when aboutOrigin is set. The
// same spherical correction brackets the rotation.
func (c *Camera) Rotate(degrees float64, aboutOrigin bool) {
	if c.shape.IsEmpty() {
		return
	}
	c.collapseRA()
	origin := c.Center()
	if aboutOrigin {
		origin = geom.Coord{}
	}
	c.setShape(c.shape.Rotate(degrees, origin))
	c.expandRA()
}

// Buffer expands (positive) or shrinks (negative) the footprint
// boundary by dist degrees. quadSegs controls arc fidelity per quarter
// circle; values below 1 use the default. Buffering a collapsed
// footprint produces disks around its corners.
func (c *Camera) Buffer(dist float64, quadSegs int) error {
	if dist == 0 {
		return nil
	}
	if c.shape.IsEmpty() {
		if dist < 0 {
			return nil
		}
		rings := make([]geom.Ring, len(c.coords))
		for i, ccd := range c.coords {
			rings[i] = geom.Ring(ccd)
		}
		s, err := geom.BufferRings(rings, dist, quadSegs)
		if err != nil {
			return fmt.Errorf("buffer camera %q: %w", c.name, err)
		}
		c.setShape(s)
		return nil
	}
	s, err := c.shape.Buffer(dist, quadSegs)
	if err != nil {
		return fmt.Errorf("buffer camera %q: %w", c.name, err)
	}
	c.setShape(s)
	return nil
}

// Intersect returns a new camera covering the area imaged by both
// cameras.
func (c *Camera) Intersect(other *Camera) (*Camera, error) {
	s, err := geom.Intersection(c.shape, other.shape)
	if err != nil {
		return nil, fmt.Errorf("intersect cameras: %w", err)
	}
	out := &Camera{}
	out.setShape(s)
	return out, nil
}

// Union returns a new camera covering the area imaged by either camera.
func (c *Camera) Union(other *Camera) (*Camera, error) {
	s, err := geom.Union(c.shape, other.shape)
	if err != nil {
		return nil, fmt.Errorf("union cameras: %w", err)
	}
	out := &Camera{}
	out.setShape(s)
	return out, nil
}

// Difference returns a new camera covering the area imaged by this
// camera but not by other.
func (c *Camera) Difference(other *Camera) (*Camera, error) {
	s, err := geom.Difference(c.shape, other.shape)
	if err != nil {
		return nil, fmt.Errorf("difference cameras: %w", err)
	}
	out := &Camera{}
	out.setShape(s)
	return out, nil
}
