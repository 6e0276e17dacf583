package service

import (
	"context"
	"fmt"
	"time"

	"skysight/internal/domain"
	"skysight/internal/repository"
)

// StrategyService provides business logic for strategy operations
type StrategyService struct {
	repo     repository.Repository
	eventBus *EventBus
}

// NewStrategyService creates a new strategy service
func NewStrategyService(repo repository.Repository, eventBus *EventBus) *StrategyService {
	return &StrategyService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// List returns all strategies
func (s *StrategyService) List(ctx context.Context) ([]*domain.Strategy, error) {
	return s.repo.ListStrategies(ctx)
}

// Get retrieves a strategy by ID
func (s *StrategyService) Get(ctx context.Context, id string) (*domain.Strategy, error) {
	strat, err := s.repo.GetStrategy(ctx, id)
	if err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy %s not found", id)
	}
	return strat, nil
}

// Create stores a new strategy. The camera must already exist.
func (s *StrategyService) Create(ctx context.Context, name, cameraName string, slews []domain.Slew) (*domain.Strategy, error) {
	strat := domain.NewStrategy(name, cameraName, slews)
	if err := strat.Validate(); err != nil {
		return nil, err
	}

	cam, err := s.repo.GetCamera(ctx, cameraName)
	if err != nil {
		return nil, err
	}
	if cam == nil {
		return nil, fmt.Errorf("camera %s not found", cameraName)
	}

	if err := s.repo.SaveStrategy(ctx, strat); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventStrategyCreated,
		Payload: map[string]string{"strategy_id": strat.ID, "name": strat.Name},
	})

	return strat, nil
}

// Update replaces the slews and name of an existing strategy
func (s *StrategyService) Update(ctx context.Context, id, name string, slews []domain.Slew) (*domain.Strategy, error) {
	strat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		strat.Name = name
	}
	if slews != nil {
		strat.Slews = slews
	}
	strat.UpdatedAt = time.Now()
	if err := strat.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.SaveStrategy(ctx, strat); err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventStrategyUpdated,
		Payload: map[string]string{"strategy_id": strat.ID},
	})

	return strat, nil
}

// Delete removes a strategy and its reports
func (s *StrategyService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteStrategy(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventStrategyDeleted,
		Payload: map[string]string{"strategy_id": id},
	})

	return nil
}
