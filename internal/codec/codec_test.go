package codec

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"skysight/internal/domain"
	"skysight/internal/geom"
)

func sampleBundle() *Bundle {
	return &Bundle{
		Cameras: []CameraDef{{
			Name:   "toy",
			Source: "import",
			Footprint: domain.Footprint{{
				{X: -1, Y: -1},
				{X: -1, Y: 1},
				{X: 1, Y: 1},
				{X: 1, Y: -1},
			}},
		}},
		Strategies: []domain.Strategy{{
			ID:         "s-1",
			Name:       "two step",
			CameraName: "toy",
			Slews: []domain.Slew{
				{},
				{RotationDeg: 15, RAOffsetDeg: 0.1, DecOffsetDeg: 0.2},
			},
		}},
	}
}

func assertBundle(t *testing.T, got *Bundle) {
	t.Helper()
	if len(got.Cameras) != 1 || len(got.Strategies) != 1 {
		t.Fatalf("expected 1 camera and 1 strategy, got %d and %d",
			len(got.Cameras), len(got.Strategies))
	}
	cam := got.Cameras[0]
	if cam.Name != "toy" {
		t.Errorf("camera name = %q, want toy", cam.Name)
	}
	if len(cam.Footprint) != 1 || len(cam.Footprint[0]) != 4 {
		t.Fatalf("unexpected footprint shape: %+v", cam.Footprint)
	}
	if c := cam.Footprint[0][2]; math.Abs(c.X-1) > 1e-12 || math.Abs(c.Y-1) > 1e-12 {
		t.Errorf("corner = %+v, want (1, 1)", c)
	}
	strat := got.Strategies[0]
	if strat.CameraName != "toy" || len(strat.Slews) != 2 {
		t.Fatalf("unexpected strategy: %+v", strat)
	}
	if strat.Slews[1].RotationDeg != 15 {
		t.Errorf("rotation = %v, want 15", strat.Slews[1].RotationDeg)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	codec := JSONCodec{}
	if err := codec.Export(sampleBundle(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	assertBundle(t, got)
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	codec := YAMLCodec{}
	if err := codec.Export(sampleBundle(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := codec.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	assertBundle(t, got)
}

func TestParseHandWrittenYAML(t *testing.T) {
	doc := `
cameras:
  - name: toy
    ccds:
      - [[-1, -1], [-1, 1], [1, 1], [1, -1]]
strategies:
  - name: single
    camera: toy
    slews:
      - ra_offset_deg: 0.5
        dec_offset_deg: -0.25
`
	got, err := YAMLCodec{}.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Cameras) != 1 || got.Cameras[0].Name != "toy" {
		t.Fatalf("unexpected cameras: %+v", got.Cameras)
	}
	if got.Strategies[0].Slews[0].RAOffsetDeg != 0.5 {
		t.Errorf("ra offset = %v, want 0.5", got.Strategies[0].Slews[0].RAOffsetDeg)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"nameless camera", `{"cameras": [{"ccds": [[[0,0],[0,1],[1,1]]]}]}`},
		{"short corner", `{"cameras": [{"name": "x", "ccds": [[[0],[0,1],[1,1]]]}]}`},
		{"two corner ccd", `{"cameras": [{"name": "x", "ccds": [[[0,0],[0,1]]]}]}`},
		{"strategy without slews", `{"strategies": [{"name": "s", "camera": "x"}]}`},
		{"not json", `cameras: []`},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (JSONCodec{}).Parse(strings.NewReader(tt.doc)); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestForFormat(t *testing.T) {
	for _, format := range []string{"json", "yaml", "yml"} {
		if _, err := ForFormat(format); err != nil {
			t.Errorf("ForFormat(%q): %v", format, err)
		}
	}
	if _, err := ForFormat("toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestExportEmptyFootprint(t *testing.T) {
	bundle := &Bundle{Cameras: []CameraDef{{
		Name: "pt",
		Footprint: domain.Footprint{{
			{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0},
		}},
	}}}
	var buf bytes.Buffer
	if err := (JSONCodec{}).Export(bundle, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := JSONCodec{}.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := geom.Coord{}
	if got.Cameras[0].Footprint[0][0] != want {
		t.Errorf("corner = %+v, want origin", got.Cameras[0].Footprint[0][0])
	}
}
