package footprint

import (
	"math"
	"testing"
)

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"decam", "hsc", "macho"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Run("known camera", func(t *testing.T) {
		cam, err := Lookup("macho")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if cam.Name() != "macho" {
			t.Errorf("expected name macho, got %s", cam.Name())
		}
	})

	t.Run("unknown camera", func(t *testing.T) {
		if _, err := Lookup("jwst"); err == nil {
			t.Error("expected error for unknown camera")
		}
	})

	t.Run("copies are independent", func(t *testing.T) {
		a, _ := Lookup("macho")
		b, _ := Lookup("macho")
		a.Translate(10, 0)
		if c := b.Center(); math.Abs(c.X) > 1e-9 {
			t.Errorf("lookup returned shared camera: center %+v", c)
		}
	})
}

func TestMACHO(t *testing.T) {
	cam := MACHO()

	t.Run("corners at 129/360 degrees", func(t *testing.T) {
		for _, ccd := range cam.Footprint() {
			for _, corner := range ccd {
				if math.Abs(math.Abs(corner.X)-129.0/360.0) > 1e-9 ||
					math.Abs(math.Abs(corner.Y)-129.0/360.0) > 1e-9 {
					t.Errorf("unexpected corner %+v", corner)
				}
			}
		}
	})

	t.Run("square area", func(t *testing.T) {
		side := 2 * 129.0 / 360.0
		if got, want := cam.Area(), side*side; math.Abs(got-want) > 1e-9 {
			t.Errorf("area = %v, want %v", got, want)
		}
	})
}

func TestDECam(t *testing.T) {
	cam := DECam()

	if got := len(cam.Footprint()); got != 62 {
		t.Errorf("expected 62 CCDs, got %d", got)
	}

	// The focal plane spans roughly 2.2 degrees.
	if r := cam.Radius(); r < 0.9 || r > 1.5 {
		t.Errorf("radius = %v, expected about 1.1", r)
	}

	// 62 CCDs of 0.2992 x 0.1496 square degrees each.
	want := 62 * (4096 * 0.263 / 3600) * (2048 * 0.263 / 3600)
	if got := cam.Area(); math.Abs(got-want) > 1e-6 {
		t.Errorf("area = %v, want %v", got, want)
	}
}

func TestHSC(t *testing.T) {
	cam := HSC()
	if got := len(cam.Footprint()); got != 112 {
		t.Errorf("expected 112 CCDs, got %d", got)
	}
	if cam.Area() <= 0 {
		t.Error("expected positive area")
	}
}

func TestMosaic(t *testing.T) {
	t.Run("counts and centering", func(t *testing.T) {
		fp := Mosaic([]int{2, 3, 2}, 0.1, 0.2, 0.01)
		if len(fp) != 7 {
			t.Fatalf("expected 7 CCDs, got %d", len(fp))
		}

		var minX, maxX, minY, maxY float64
		first := true
		for _, ccd := range fp {
			for _, c := range ccd {
				if first {
					minX, maxX, minY, maxY = c.X, c.X, c.Y, c.Y
					first = false
					continue
				}
				minX = math.Min(minX, c.X)
				maxX = math.Max(maxX, c.X)
				minY = math.Min(minY, c.Y)
				maxY = math.Max(maxY, c.Y)
			}
		}
		if math.Abs(minX+maxX) > 1e-9 || math.Abs(minY+maxY) > 1e-9 {
			t.Errorf("mosaic not centered: x [%v,%v] y [%v,%v]", minX, maxX, minY, maxY)
		}
	})

	t.Run("gaps leave CCDs disjoint", func(t *testing.T) {
		fp := Mosaic([]int{2}, 0.1, 0.1, 0.05)
		left, right := fp[0], fp[1]
		var leftMax, rightMin float64 = -math.MaxFloat64, math.MaxFloat64
		for _, c := range left {
			leftMax = math.Max(leftMax, c.X)
		}
		for _, c := range right {
			rightMin = math.Min(rightMin, c.X)
		}
		if rightMin-leftMax < 0.05-1e-9 {
			t.Errorf("expected 0.05 gap, got %v", rightMin-leftMax)
		}
	})
}
