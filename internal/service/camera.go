package service

import (
	"context"
	"fmt"
	"io"

	"skysight/internal/codec"
	"skysight/internal/domain"
	"skysight/internal/footprint"
	"skysight/internal/repository"
)

// CameraService provides business logic for camera operations
type CameraService struct {
	repo     repository.Repository
	eventBus *EventBus
}

// NewCameraService creates a new camera service
func NewCameraService(repo repository.Repository, eventBus *EventBus) *CameraService {
	return &CameraService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// List returns all persisted camera definitions
func (s *CameraService) List(ctx context.Context) ([]*repository.CameraRecord, error) {
	return s.repo.ListCameras(ctx)
}

// Get retrieves a camera definition by name
func (s *CameraService) Get(ctx context.Context, name string) (*repository.CameraRecord, error) {
	rec, err := s.repo.GetCamera(ctx, name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("camera %s not found", name)
	}
	return rec, nil
}

// Camera builds the geometry for a stored camera. Built-in cameras
// resolve even when they have not been persisted.
func (s *CameraService) Camera(ctx context.Context, name string) (*domain.Camera, error) {
	rec, err := s.repo.GetCamera(ctx, name)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		if cam, err := footprint.Lookup(name); err == nil {
			return cam, nil
		}
		return nil, fmt.Errorf("camera %s not found", name)
	}
	return domain.NewCamera(rec.Name, rec.Footprint)
}

// Save creates or updates a camera definition
func (s *CameraService) Save(ctx context.Context, name, source string, fp domain.Footprint) (*repository.CameraRecord, error) {
	// Build the geometry once so invalid footprints never reach the
	// database.
	if _, err := domain.NewCamera(name, fp); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetCamera(ctx, name)
	if err != nil {
		return nil, err
	}

	rec := &repository.CameraRecord{Name: name, Source: source, Footprint: fp}
	if err := s.repo.SaveCamera(ctx, rec); err != nil {
		return nil, err
	}

	eventType := EventCameraCreated
	if existing != nil {
		eventType = EventCameraUpdated
	}
	s.eventBus.Publish(Event{
		Type:    eventType,
		Payload: map[string]string{"camera": name},
	})

	return s.Get(ctx, name)
}

// Delete removes a camera and its strategies
func (s *CameraService) Delete(ctx context.Context, name string) error {
	if err := s.repo.DeleteCamera(ctx, name); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventCameraDeleted,
		Payload: map[string]string{"camera": name},
	})

	return nil
}

// SeedBuiltins persists the built-in cameras that are not stored yet.
// Existing definitions are left untouched. Returns the number seeded.
func (s *CameraService) SeedBuiltins(ctx context.Context) (int, error) {
	seeded := 0
	for _, name := range footprint.Names() {
		existing, err := s.repo.GetCamera(ctx, name)
		if err != nil {
			return seeded, err
		}
		if existing != nil {
			continue
		}

		cam, err := footprint.Lookup(name)
		if err != nil {
			return seeded, err
		}
		rec := &repository.CameraRecord{
			Name:      name,
			Source:    "builtin",
			Footprint: cam.Footprint(),
		}
		if err := s.repo.SaveCamera(ctx, rec); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Cameras    int `json:"cameras"`
	Strategies int `json:"strategies"`
}

// Import loads cameras and strategies from a bundle
func (s *CameraService) Import(ctx context.Context, r io.Reader, format string) (*ImportResult, error) {
	c, err := codec.ForFormat(format)
	if err != nil {
		return nil, err
	}
	bundle, err := c.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, def := range bundle.Cameras {
		source := def.Source
		if source == "" {
			source = "import"
		}
		if _, err := s.Save(ctx, def.Name, source, def.Footprint); err != nil {
			return nil, err
		}
		result.Cameras++
	}
	for i := range bundle.Strategies {
		strat := bundle.Strategies[i]
		if strat.ID == "" {
			strat = *domain.NewStrategy(strat.Name, strat.CameraName, strat.Slews)
			strat.Source = bundle.Strategies[i].Source
		}
		if strat.Source == "" {
			strat.Source = "import"
		}
		if err := s.repo.SaveStrategy(ctx, &strat); err != nil {
			return nil, err
		}
		s.eventBus.Publish(Event{
			Type:    EventStrategyCreated,
			Payload: map[string]string{"strategy_id": strat.ID, "name": strat.Name},
		})
		result.Strategies++
	}
	return result, nil
}

// Export writes all cameras and strategies as a bundle
func (s *CameraService) Export(ctx context.Context, w io.Writer, format string) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}

	cameras, err := s.repo.ListCameras(ctx)
	if err != nil {
		return err
	}
	strategies, err := s.repo.ListStrategies(ctx)
	if err != nil {
		return err
	}

	bundle := &codec.Bundle{}
	for _, rec := range cameras {
		bundle.Cameras = append(bundle.Cameras, codec.CameraDef{
			Name:      rec.Name,
			Source:    rec.Source,
			Footprint: rec.Footprint,
		})
	}
	for _, strat := range strategies {
		bundle.Strategies = append(bundle.Strategies, *strat)
	}
	return c.Export(bundle, w)
}
