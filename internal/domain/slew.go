package domain

// Slew is one pointing change in a dither sequence: a rotation followed
// by a translation, all in degrees.
type Slew struct {
	RotationDeg  float64 `json:"rotation_deg" yaml:"rotation_deg"`
	RAOffsetDeg  float64 `json:"ra_offset_deg" yaml:"ra_offset_deg"`
	DecOffsetDeg float64 `json:"dec_offset_deg" yaml:"dec_offset_deg"`
}

// IsZero reports whether the slew leaves the camera where it is.
func (s Slew) IsZero() bool {
	return s.RotationDeg == 0 && s.RAOffsetDeg == 0 && s.DecOffsetDeg == 0
}

// Apply moves the camera: rotate first, then translate.
func (s Slew) Apply(c *Camera) {
	c.Rotate(s.RotationDeg, false)
	c.Translate(s.RAOffsetDeg, s.DecOffsetDeg)
}
