package repository

import (
	"context"
	"time"

	"skysight/internal/domain"
)

// CameraRecord is a persisted camera definition. The geometry is
// rebuilt from the footprint on load.
type CameraRecord struct {
	Name      string           `json:"name"`
	Source    string           `json:"source,omitempty"`
	Footprint domain.Footprint `json:"footprint"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Repository defines the interface for dither data access.
// Get methods return (nil, nil) when the entity does not exist.
type Repository interface {
	// Cameras
	ListCameras(ctx context.Context) ([]*CameraRecord, error)
	GetCamera(ctx context.Context, name string) (*CameraRecord, error)
	SaveCamera(ctx context.Context, rec *CameraRecord) error
	DeleteCamera(ctx context.Context, name string) error

	// Strategies
	ListStrategies(ctx context.Context) ([]*domain.Strategy, error)
	GetStrategy(ctx context.Context, id string) (*domain.Strategy, error)
	SaveStrategy(ctx context.Context, strat *domain.Strategy) error
	DeleteStrategy(ctx context.Context, id string) error

	// Reports
	SaveReport(ctx context.Context, report *domain.Report) error
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context, strategyID string) ([]*domain.Report, error)

	// Close releases resources
	Close() error
}
