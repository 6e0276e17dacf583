package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Strategy is a named dither sequence for a particular camera. Each
// slew produces one exposure.
type Strategy struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CameraName string    `json:"camera_name"`
	Slews      []Slew    `json:"slews"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewStrategy creates a strategy with a fresh ID.
func NewStrategy(name, cameraName string, slews []Slew) *Strategy {
	now := time.Now()
	return &Strategy{
		ID:         uuid.NewString(),
		Name:       name,
		CameraName: cameraName,
		Slews:      slews,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate checks that the strategy can be evaluated.
func (s *Strategy) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("strategy needs a name")
	}
	if s.CameraName == "" {
		return fmt.Errorf("strategy %q needs a camera", s.Name)
	}
	if len(s.Slews) == 0 {
		return fmt.Errorf("strategy %q needs at least one slew", s.Name)
	}
	return nil
}

// Exposures returns the number of exposures the strategy takes.
func (s *Strategy) Exposures() int { return len(s.Slews) }
