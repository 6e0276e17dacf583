// Package codec imports and exports camera footprints and dither
// strategies in JSON and YAML.
package codec

import (
	"fmt"
	"io"

	"skysight/internal/domain"
	"skysight/internal/geom"
)

// Importer parses a bundle of cameras and strategies from a stream.
type Importer interface {
	Parse(r io.Reader) (*Bundle, error)
	Format() string
}

// Exporter writes a bundle of cameras and strategies to a stream.
type Exporter interface {
	Export(bundle *Bundle, w io.Writer) error
	Format() string
}

// CameraDef is a camera definition independent of its geometry state.
type CameraDef struct {
	Name      string
	Source    string
	Footprint domain.Footprint
}

// Bundle is the unit of import and export.
type Bundle struct {
	Cameras    []CameraDef
	Strategies []domain.Strategy
}

// wireBundle is the on-disk structure shared by the JSON and YAML
// codecs. Corners are [ra, dec] pairs.
type wireBundle struct {
	Cameras    []wireCamera   `json:"cameras,omitempty" yaml:"cameras,omitempty"`
	Strategies []wireStrategy `json:"strategies,omitempty" yaml:"strategies,omitempty"`
}

type wireCamera struct {
	Name   string        `json:"name" yaml:"name"`
	Source string        `json:"source,omitempty" yaml:"source,omitempty"`
	CCDs   [][][]float64 `json:"ccds" yaml:"ccds"`
}

type wireStrategy struct {
	ID     string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string     `json:"name" yaml:"name"`
	Camera string     `json:"camera" yaml:"camera"`
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	Slews  []wireSlew `json:"slews" yaml:"slews"`
}

type wireSlew struct {
	RotationDeg  float64 `json:"rotation_deg,omitempty" yaml:"rotation_deg,omitempty"`
	RAOffsetDeg  float64 `json:"ra_offset_deg,omitempty" yaml:"ra_offset_deg,omitempty"`
	DecOffsetDeg float64 `json:"dec_offset_deg,omitempty" yaml:"dec_offset_deg,omitempty"`
}

func toWire(bundle *Bundle) wireBundle {
	var wb wireBundle
	for _, cam := range bundle.Cameras {
		wc := wireCamera{Name: cam.Name, Source: cam.Source}
		for _, ccd := range cam.Footprint {
			ring := make([][]float64, 0, len(ccd))
			for _, corner := range ccd {
				ring = append(ring, []float64{corner.X, corner.Y})
			}
			wc.CCDs = append(wc.CCDs, ring)
		}
		wb.Cameras = append(wb.Cameras, wc)
	}
	for _, strat := range bundle.Strategies {
		ws := wireStrategy{
			ID:     strat.ID,
			Name:   strat.Name,
			Camera: strat.CameraName,
			Source: strat.Source,
		}
		for _, slew := range strat.Slews {
			ws.Slews = append(ws.Slews, wireSlew{
				RotationDeg:  slew.RotationDeg,
				RAOffsetDeg:  slew.RAOffsetDeg,
				DecOffsetDeg: slew.DecOffsetDeg,
			})
		}
		wb.Strategies = append(wb.Strategies, ws)
	}
	return wb
}

func fromWire(wb wireBundle) (*Bundle, error) {
	bundle := &Bundle{}
	for _, wc := range wb.Cameras {
		if wc.Name == "" {
			return nil, fmt.Errorf("camera without a name")
		}
		def := CameraDef{Name: wc.Name, Source: wc.Source}
		for i, ring := range wc.CCDs {
			ccd := make(domain.CCD, 0, len(ring))
			for _, corner := range ring {
				if len(corner) != 2 {
					return nil, fmt.Errorf("camera %q: CCD %d has a corner with %d values, want [ra, dec]",
						wc.Name, i, len(corner))
				}
				ccd = append(ccd, geom.Coord{X: corner[0], Y: corner[1]})
			}
			def.Footprint = append(def.Footprint, ccd)
		}
		// Validate the footprint early so imports fail loudly.
		if _, err := domain.NewCamera(wc.Name, def.Footprint); err != nil {
			return nil, err
		}
		bundle.Cameras = append(bundle.Cameras, def)
	}
	for _, ws := range wb.Strategies {
		strat := domain.Strategy{
			ID:         ws.ID,
			Name:       ws.Name,
			CameraName: ws.Camera,
			Source:     ws.Source,
		}
		for _, slew := range ws.Slews {
			strat.Slews = append(strat.Slews, domain.Slew{
				RotationDeg:  slew.RotationDeg,
				RAOffsetDeg:  slew.RAOffsetDeg,
				DecOffsetDeg: slew.DecOffsetDeg,
			})
		}
		if err := strat.Validate(); err != nil {
			return nil, err
		}
		bundle.Strategies = append(bundle.Strategies, strat)
	}
	return bundle, nil
}
