package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is the persisted result of evaluating a strategy.
type Report struct {
	ID         string      `json:"id"`
	StrategyID string      `json:"strategy_id,omitempty"`
	CameraName string      `json:"camera_name"`
	Exposures  int         `json:"exposures"`
	Coverage   CoverageMap `json:"coverage"`
	TotalArea  float64     `json:"total_area"`
	MeanDepth  float64     `json:"mean_depth"`
	Duration   time.Duration `json:"duration_ns"`
	CreatedAt  time.Time   `json:"created_at"`
}

// NewReport builds a report from a computed coverage map.
func NewReport(strategyID, cameraName string, exposures int, coverage CoverageMap, duration time.Duration) *Report {
	return &Report{
		ID:         uuid.NewString(),
		StrategyID: strategyID,
		CameraName: cameraName,
		Exposures:  exposures,
		Coverage:   coverage,
		TotalArea:  coverage.Total(),
		MeanDepth:  coverage.MeanDepth(),
		Duration:   duration,
		CreatedAt:  time.Now(),
	}
}
