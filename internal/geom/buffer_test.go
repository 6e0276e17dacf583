package geom

import (
	"math"
	"testing"
)

func TestDisk(t *testing.T) {
	t.Run("area converges to circle", func(t *testing.T) {
		d := Disk(Coord{}, 1.0, 128)
		approx(t, d.Area(), math.Pi, 1e-4, "disk area")
	})

	t.Run("respects center and radius", func(t *testing.T) {
		d := Disk(Coord{X: 3, Y: -2}, 2.0, 16)
		c := d.Center()
		approx(t, c.X, 3, 1e-9, "center X")
		approx(t, c.Y, -2, 1e-9, "center Y")
		approx(t, d.Area(), 4*math.Pi, 0.05, "disk area")
	})

	t.Run("non-positive radius is empty", func(t *testing.T) {
		if d := Disk(Coord{}, 0, 16); !d.IsEmpty() {
			t.Error("expected empty disk")
		}
	})
}

func TestBuffer(t *testing.T) {
	sq := NewShape([]Ring{square(1)})

	t.Run("zero distance copies", func(t *testing.T) {
		got, err := sq.Buffer(0, 16)
		if err != nil {
			t.Fatalf("buffer: %v", err)
		}
		approx(t, got.Area(), 4.0, 1e-12, "area")
	})

	t.Run("dilation of a square", func(t *testing.T) {
		// Expected: 4 + perimeter*d + pi*d^2.
		got, err := sq.Buffer(1.0, 128)
		if err != nil {
			t.Fatalf("buffer: %v", err)
		}
		want := 4.0 + 8.0 + math.Pi
		approx(t, got.Area(), want, 1e-3, "dilated area")
	})

	t.Run("dilate then erode recovers a convex shape", func(t *testing.T) {
		grown, err := sq.Buffer(1.0, 128)
		if err != nil {
			t.Fatalf("buffer: %v", err)
		}
		back, err := grown.Buffer(-1.0, 128)
		if err != nil {
			t.Fatalf("buffer: %v", err)
		}
		approx(t, back.Area(), 4.0, 1e-3, "recovered area")
	})

	t.Run("erosion past the inradius is empty", func(t *testing.T) {
		got, err := sq.Buffer(-1.5, 16)
		if err != nil {
			t.Fatalf("buffer: %v", err)
		}
		if got.Area() > 1e-9 {
			t.Errorf("expected empty shape, got area %v", got.Area())
		}
	})
}

func TestBufferRings(t *testing.T) {
	t.Run("degenerate ring buffers like a point", func(t *testing.T) {
		collapsed := Ring{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}}
		got, err := BufferRings([]Ring{collapsed}, 1.0, 128)
		if err != nil {
			t.Fatalf("buffer rings: %v", err)
		}
		approx(t, got.Area(), math.Pi, 1e-4, "point buffer area")
	})

	t.Run("rejects non-positive distance", func(t *testing.T) {
		if _, err := BufferRings([]Ring{square(1)}, -1, 16); err == nil {
			t.Error("expected error for negative distance")
		}
	})
}
