// Package footprint provides built-in camera footprints and a mosaic
// generator for building custom focal planes.
package footprint

import (
	"fmt"
	"sort"

	"skysight/internal/domain"
)

// Builder constructs one built-in camera.
type Builder func() *domain.Camera

var builtins = map[string]Builder{
	"macho": MACHO,
	"decam": DECam,
	"hsc":   HSC,
}

// Names returns the built-in camera names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a fresh copy of a built-in camera by name.
func Lookup(name string) (*domain.Camera, error) {
	builder, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown camera %q (have %v)", name, Names())
	}
	return builder(), nil
}

// machoHalf is the half-width of the MACHO camera footprint: the
// corner table puts every corner at +-129/360 degrees.
const machoHalf = 129.0 / 360.0

// MACHO returns the MACHO camera: a single square CCD footprint.
func MACHO() *domain.Camera {
	cam, err := domain.NewCamera("macho", domain.Footprint{{
		{X: -machoHalf, Y: -machoHalf},
		{X: -machoHalf, Y: machoHalf},
		{X: machoHalf, Y: machoHalf},
		{X: machoHalf, Y: -machoHalf},
	}})
	if err != nil {
		panic(err) // static data
	}
	return cam
}

// DECam CCDs are 4096x2048 pixels at 0.263 arcsec/pixel, long axis
// along the rows.
const (
	decamCCDWidth  = 4096 * 0.263 / 3600
	decamCCDHeight = 2048 * 0.263 / 3600
	decamGap       = 30.0 / 3600
)

// decamRows approximates the hexagonal packing of the 62 science CCDs.
var decamRows = []int{3, 5, 7, 8, 8, 8, 8, 7, 5, 3}

// DECam returns an approximation of the Dark Energy Camera focal
// plane: 62 CCDs packed into a roughly hexagonal footprint about 2.2
// degrees across.
func DECam() *domain.Camera {
	cam, err := domain.NewCamera("decam",
		Mosaic(decamRows, decamCCDWidth, decamCCDHeight, decamGap))
	if err != nil {
		panic(err) // static data
	}
	return cam
}

// HSC CCDs are 2048x4096 pixels at 0.168 arcsec/pixel, long axis
// along the columns.
const (
	hscCCDWidth  = 2048 * 0.168 / 3600
	hscCCDHeight = 4096 * 0.168 / 3600
	hscGap       = 15.0 / 3600
)

// hscRows approximates the packing of the 112 CCDs in the corner table.
var hscRows = []int{8, 10, 12, 13, 13, 13, 13, 12, 10, 8}

// HSC returns an approximation of the Hyper Suprime-Cam focal plane:
// 112 CCDs in a roughly circular footprint about 1.5 degrees across.
func HSC() *domain.Camera {
	cam, err := domain.NewCamera("hsc",
		Mosaic(hscRows, hscCCDWidth, hscCCDHeight, hscGap))
	if err != nil {
		panic(err) // static data
	}
	return cam
}

// Mosaic builds a footprint of rectangular CCDs packed row by row and
// centered on the origin. rowCounts gives the number of CCDs per row,
// top to bottom; ccdWidth and ccdHeight are the CCD dimensions in
// degrees and gap the spacing between neighbouring CCDs.
func Mosaic(rowCounts []int, ccdWidth, ccdHeight, gap float64) domain.Footprint {
	var fp domain.Footprint
	rows := len(rowCounts)
	totalHeight := float64(rows)*ccdHeight + float64(rows-1)*gap

	for i, count := range rowCounts {
		top := totalHeight/2 - float64(i)*(ccdHeight+gap)
		bottom := top - ccdHeight
		rowWidth := float64(count)*ccdWidth + float64(count-1)*gap
		for j := 0; j < count; j++ {
			left := -rowWidth/2 + float64(j)*(ccdWidth+gap)
			right := left + ccdWidth
			fp = append(fp, domain.CCD{
				{X: left, Y: bottom},
				{X: left, Y: top},
				{X: right, Y: top},
				{X: right, Y: bottom},
			})
		}
	}
	return fp
}
