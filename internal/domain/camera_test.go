package domain

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want, tol float64, what string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (tol %v)", what, got, want, tol)
	}
}

// squareCamera returns a 2x2 degree square footprint centered on the
// origin.
func squareCamera(t *testing.T) *Camera {
	t.Helper()
	cam, err := NewCamera("square", Footprint{{
		{X: -1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: -1},
	}})
	if err != nil {
		t.Fatalf("new camera: %v", err)
	}
	return cam
}

func TestNewCameraValidation(t *testing.T) {
	t.Run("rejects empty footprint", func(t *testing.T) {
		if _, err := NewCamera("bad", Footprint{}); err == nil {
			t.Error("expected error for empty footprint")
		}
	})

	t.Run("rejects CCD with fewer than three corners", func(t *testing.T) {
		if _, err := NewCamera("bad", Footprint{{{X: 0, Y: 0}, {X: 1, Y: 1}}}); err == nil {
			t.Error("expected error for two-corner CCD")
		}
	})

	t.Run("accepts two CCDs", func(t *testing.T) {
		cam, err := NewCamera("pair", Footprint{
			{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}},
			{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}},
		})
		if err != nil {
			t.Fatalf("new camera: %v", err)
		}
		approx(t, cam.Area(), 2.0, 1e-9, "area")
	})
}

func TestEmptyCamera(t *testing.T) {
	empty := EmptyCamera()

	t.Run("footprint round-trips as degenerate CCD", func(t *testing.T) {
		fp := empty.Footprint()
		if len(fp) != 1 || len(fp[0]) != 3 {
			t.Fatalf("unexpected footprint %v", fp)
		}
		for _, c := range fp[0] {
			if c.X != 0 || c.Y != 0 {
				t.Errorf("expected origin corners, got %v", fp[0])
			}
		}
	})

	t.Run("copy preserves footprint", func(t *testing.T) {
		cp := empty.Copy()
		if len(cp.Footprint()) != len(empty.Footprint()) {
			t.Error("copy footprint mismatch")
		}
	})

	t.Run("measures are zero", func(t *testing.T) {
		approx(t, empty.Area(), 0, 0, "area")
		approx(t, empty.Radius(), 0, 0, "radius")
		raLim, decLim := empty.Limits()
		if raLim != [2]float64{0, 0} || decLim != [2]float64{0, 0} {
			t.Errorf("limits = %v, %v", raLim, decLim)
		}
		if c := empty.Center(); c.X != 0 || c.Y != 0 {
			t.Errorf("center = %+v", c)
		}
		if c := empty.Centroid(); c.X != 0 || c.Y != 0 {
			t.Errorf("centroid = %+v", c)
		}
	})

	t.Run("buffer grows a disk", func(t *testing.T) {
		cam := EmptyCamera()
		if err := cam.Buffer(1.0, 128); err != nil {
			t.Fatalf("buffer: %v", err)
		}
		approx(t, cam.Area(), math.Pi, 1e-4, "buffered area")
	})
}

func TestCameraMeasures(t *testing.T) {
	cam := squareCamera(t)

	t.Run("area", func(t *testing.T) {
		approx(t, cam.Area(), 4.0, 1e-12, "area")
	})

	t.Run("radius", func(t *testing.T) {
		approx(t, cam.Radius(), math.Sqrt2, 1e-3, "radius")
	})

	t.Run("limits", func(t *testing.T) {
		raLim, decLim := cam.Limits()
		approx(t, raLim[0], -1, 1e-9, "ra min")
		approx(t, raLim[1], 1, 1e-9, "ra max")
		approx(t, decLim[0], -1, 1e-9, "dec min")
		approx(t, decLim[1], 1, 1e-9, "dec max")
	})
}

func TestCameraTransformsPreserveArea(t *testing.T) {
	cases := []struct {
		ra, dec, deg float64
	}{
		{0, 1, 10},
		{1, 0, 10},
		{0, -1, 45},
		{-1, 0, 45},
		{-1, 1, -120},
		{0, -1, -120},
	}
	for _, tt := range cases {
		cam := squareCamera(t)
		cam.Translate(tt.ra, tt.dec)
		approx(t, cam.Area(), 4.0, 1e-2, "area after translate")
		cam.Rotate(tt.deg, false)
		approx(t, cam.Area(), 4.0, 1e-2, "area after rotate")
		cam.Rotate(tt.deg, true)
		approx(t, cam.Area(), 4.0, 1e-2, "area after rotate about origin")
		approx(t, cam.Radius(), math.Sqrt2, 1e-2, "radius after transforms")
	}
}

func TestCameraTranslate(t *testing.T) {
	t.Run("center follows offsets", func(t *testing.T) {
		cam := squareCamera(t)
		cam.Translate(20, 0)
		c := cam.Center()
		approx(t, c.X, 20, 1e-2, "center ra")
		approx(t, c.Y, 0, 1e-2, "center dec")

		cam.Translate(0, 40)
		c = cam.Center()
		approx(t, c.X, 20, 1e-2, "center ra")
		approx(t, c.Y, 40, 1e-2, "center dec")

		cen := cam.Centroid()
		approx(t, cen.X, 20, 1e-2, "centroid ra")
		approx(t, cen.Y, 40, 1e-2, "centroid dec")
	})

	t.Run("pure ra offset near the equator is planar", func(t *testing.T) {
		cam := squareCamera(t)
		cam.Translate(1, 0)
		raLim, decLim := cam.Limits()
		approx(t, raLim[0], 0, 1e-2, "ra min")
		approx(t, raLim[1], 2, 1e-2, "ra max")
		approx(t, decLim[0], -1, 1e-2, "dec min")
		approx(t, decLim[1], 1, 1e-2, "dec max")
	})
}

func TestCameraSphericalDistortion(t *testing.T) {
	// After translating to declination dec, a corner at (x, y) should
	// sit near ra = raOff + x/cos(dec + y).
	cases := []struct{ ra, dec float64 }{
		{0, 0},
		{60, 0},
		{-60, 0},
		{0, -60},
		{60, -60},
		{-60, -60},
		{0, 60},
		{60, 60},
		{-60, 60},
	}
	for _, tt := range cases {
		cam := squareCamera(t)
		cam.Translate(tt.ra, tt.dec)

		raLim, decLim := cam.Limits()
		wantHalfWidth := 1 / math.Cos((tt.dec+1)*math.Pi/180)
		if tt.dec < 0 {
			wantHalfWidth = 1 / math.Cos((tt.dec-1)*math.Pi/180)
		}
		approx(t, decLim[0], tt.dec-1, 1e-2, "dec min")
		approx(t, decLim[1], tt.dec+1, 1e-2, "dec max")
		approx(t, raLim[1]-tt.ra, wantHalfWidth, 1e-2, "ra half width")
		approx(t, tt.ra-raLim[0], wantHalfWidth, 1e-2, "ra half width")
	}
}

func TestCameraRotate(t *testing.T) {
	t.Run("90 degrees maps the square onto itself", func(t *testing.T) {
		cam := squareCamera(t)
		cam.Rotate(90, false)
		raLim, decLim := cam.Limits()
		approx(t, raLim[0], -1, 1e-2, "ra min")
		approx(t, raLim[1], 1, 1e-2, "ra max")
		approx(t, decLim[0], -1, 1e-2, "dec min")
		approx(t, decLim[1], 1, 1e-2, "dec max")
	})

	t.Run("45 degrees stretches the bounds to sqrt 2", func(t *testing.T) {
		cam := squareCamera(t)
		cam.Rotate(45, false)
		raLim, decLim := cam.Limits()
		approx(t, raLim[1], math.Sqrt2, 1e-2, "ra max")
		approx(t, decLim[1], math.Sqrt2, 1e-2, "dec max")
	})

	t.Run("rotation about the origin moves an offset square", func(t *testing.T) {
		cam := squareCamera(t)
		cam.Translate(10, 0)
		cam.Rotate(90, true)
		c := cam.Center()
		approx(t, c.X, 0, 0.1, "center ra")
		approx(t, c.Y, 10, 0.1, "center dec")
	})
}

func TestCameraBuffer(t *testing.T) {
	t.Run("dilation adds perimeter band and corner arcs", func(t *testing.T) {
		cam := squareCamera(t)
		if err := cam.Buffer(1.0, 128); err != nil {
			t.Fatalf("buffer: %v", err)
		}
		approx(t, cam.Area(), 4.0+8.0+math.Pi, 1e-3, "buffered area")
	})

	t.Run("dilate then erode recovers the square", func(t *testing.T) {
		cam := squareCamera(t)
		if err := cam.Buffer(1.0, 128); err != nil {
			t.Fatalf("buffer: %v", err)
		}
		if err := cam.Buffer(-1.0, 128); err != nil {
			t.Fatalf("buffer: %v", err)
		}
		approx(t, cam.Area(), 4.0, 1e-3, "recovered area")
	})
}

func TestCameraSetOps(t *testing.T) {
	intersectCases := []struct{ ra, dec, area float64 }{
		{0.5, 0, 3.0},
		{-0.5, 0, 3.0},
		{0, 0.5, 3.0},
		{0, -0.5, 3.0},
		{-0.5, 0.5, 2.25},
		{0.5, -0.5, 2.25},
	}
	for _, tt := range intersectCases {
		cam := squareCamera(t)
		other := cam.Copy()
		other.Translate(tt.ra, tt.dec)
		got, err := cam.Intersect(other)
		if err != nil {
			t.Fatalf("intersect: %v", err)
		}
		approx(t, got.Area(), tt.area, 1e-2, "intersection area")
	}

	unionCases := []struct{ ra, dec, area float64 }{
		{0.5, 0, 5.0},
		{-0.5, 0, 5.0},
		{0, 0.5, 5.0},
		{0, -0.5, 5.0},
		{-0.5, 0.5, 5.75},
		{0.5, -0.5, 5.75},
	}
	for _, tt := range unionCases {
		cam := squareCamera(t)
		other := cam.Copy()
		other.Translate(tt.ra, tt.dec)
		got, err := cam.Union(other)
		if err != nil {
			t.Fatalf("union: %v", err)
		}
		approx(t, got.Area(), tt.area, 1e-2, "union area")
	}

	differenceCases := []struct{ ra, dec, area float64 }{
		{0.5, 0, 1.0},
		{-0.5, 0, 1.0},
		{0, 0.5, 1.0},
		{0, -0.5, 1.0},
		{-0.5, 0.5, 1.75},
		{0.5, -0.5, 1.75},
	}
	for _, tt := range differenceCases {
		cam := squareCamera(t)
		other := cam.Copy()
		other.Translate(tt.ra, tt.dec)
		d1, err := cam.Difference(other)
		if err != nil {
			t.Fatalf("difference: %v", err)
		}
		approx(t, d1.Area(), tt.area, 1e-2, "difference area")
		d2, err := other.Difference(cam)
		if err != nil {
			t.Fatalf("difference: %v", err)
		}
		approx(t, d2.Area(), tt.area, 1e-2, "reverse difference area")
	}
}

func TestCameraSetOpsThreeWay(t *testing.T) {
	cases := []struct{ ra, dec, intersect, union float64 }{
		{0.5, 0, 2.0, 6.0},
		{-0.5, 0, 2.0, 6.0},
		{0, 0.5, 2.0, 6.0},
		{0, -0.5, 2.0, 6.0},
		{-0.5, 0.5, 1.0, 7.5},
		{0.5, -0.5, 1.0, 7.5},
	}
	for _, tt := range cases {
		a := squareCamera(t)
		b := a.Copy()
		b.Translate(tt.ra, tt.dec)
		c := a.Copy()
		c.Translate(tt.ra*2, tt.dec*2)

		ab, err := a.Intersect(b)
		if err != nil {
			t.Fatalf("intersect: %v", err)
		}
		abc, err := ab.Intersect(c)
		if err != nil {
			t.Fatalf("intersect: %v", err)
		}
		approx(t, abc.Area(), tt.intersect, 1e-2, "three-way intersection")

		u, err := a.Union(b)
		if err != nil {
			t.Fatalf("union: %v", err)
		}
		u, err = u.Union(c)
		if err != nil {
			t.Fatalf("union: %v", err)
		}
		approx(t, u.Area(), tt.union, 1e-2, "three-way union")
	}
}

func TestCameraCopyIsIndependent(t *testing.T) {
	cam := squareCamera(t)
	cp := cam.Copy()
	cp.Translate(5, 0)
	if c := cam.Center(); math.Abs(c.X) > 1e-9 {
		t.Errorf("copy mutated original: center %+v", c)
	}
}

func TestSlew(t *testing.T) {
	t.Run("zero value does nothing", func(t *testing.T) {
		var s Slew
		if !s.IsZero() {
			t.Error("expected zero slew")
		}
		cam := squareCamera(t)
		s.Apply(cam)
		approx(t, cam.Area(), 4.0, 1e-9, "area")
		if c := cam.Center(); math.Abs(c.X) > 1e-9 || math.Abs(c.Y) > 1e-9 {
			t.Errorf("zero slew moved camera: %+v", c)
		}
	})

	t.Run("matches manual rotate then translate", func(t *testing.T) {
		cases := []Slew{
			{RotationDeg: 10, RAOffsetDeg: 0.5, DecOffsetDeg: 1},
			{RotationDeg: 45, RAOffsetDeg: -1, DecOffsetDeg: 0.5},
			{RotationDeg: -120, RAOffsetDeg: 1, DecOffsetDeg: -1},
		}
		for _, slew := range cases {
			slewed := squareCamera(t)
			slew.Apply(slewed)

			manual := squareCamera(t)
			manual.Rotate(slew.RotationDeg, false)
			manual.Translate(slew.RAOffsetDeg, slew.DecOffsetDeg)

			sc, mc := slewed.Center(), manual.Center()
			approx(t, sc.X, mc.X, 1e-9, "center ra")
			approx(t, sc.Y, mc.Y, 1e-9, "center dec")
			approx(t, slewed.Area(), manual.Area(), 1e-9, "area")
		}
	})
}

func TestStrategyValidate(t *testing.T) {
	valid := NewStrategy("line", "square", []Slew{{RAOffsetDeg: 0.1}})
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if valid.ID == "" {
		t.Error("expected generated ID")
	}
	if valid.Exposures() != 1 {
		t.Errorf("expected 1 exposure, got %d", valid.Exposures())
	}

	cases := []struct {
		name     string
		strategy *Strategy
	}{
		{"missing name", &Strategy{CameraName: "square", Slews: []Slew{{}}}},
		{"missing camera", &Strategy{Name: "x", Slews: []Slew{{}}}},
		{"no slews", &Strategy{Name: "x", CameraName: "square"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.strategy.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFootprintRoundTrip(t *testing.T) {
	fp := Footprint{
		{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}},
		{{X: 2, Y: 2}, {X: 2, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 2}},
	}
	cam, err := NewCamera("pair", fp)
	if err != nil {
		t.Fatalf("new camera: %v", err)
	}
	got := cam.Footprint()
	if len(got) != 2 {
		t.Fatalf("expected 2 CCDs, got %d", len(got))
	}
	rebuilt, err := NewCamera("pair2", got)
	if err != nil {
		t.Fatalf("rebuild camera: %v", err)
	}
	approx(t, rebuilt.Area(), cam.Area(), 1e-9, "rebuilt area")
}
