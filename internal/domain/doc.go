// Package domain defines the core dither model for skysight.
//
// # Core Types
//
// Camera represents a camera footprint on the sky as a set of CCD
// corner polygons in (ra, dec) degrees. Footprints can be translated,
// rotated and buffered, with a cos(dec) spherical correction bracketing
// every geometric transform, and combined through polygon set
// operations (intersect, union, difference).
//
// Slew represents one pointing change in a dither sequence: a rotation
// followed by an (ra, dec) offset.
//
// Strategy bundles a named slew sequence for a camera; evaluating it
// produces a CoverageMap.
//
// CoverageMap maps exposure depth to the sky area covered by exactly
// that many exposures. Its total equals the union area of all
// exposures in the pattern.
//
// Report is the persisted result of one evaluation.
//
// # Design Principles
//
// - Pure computation over internal/geom shapes
// - No database or external dependencies
// - Coverage accounting is exact over exposure combinations, not
//   sampled
package domain
