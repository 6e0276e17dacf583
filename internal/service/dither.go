package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"skysight/internal/domain"
	"skysight/internal/metrics"
	"skysight/internal/optimizer"
	"skysight/internal/repository"
)

// Options tunes evaluation and supplies the optimizer defaults applied
// when a request leaves them unset.
type Options struct {
	Workers        int    // parallel coverage workers per evaluation
	BufferQuadSegs int    // circle fidelity for footprint buffering
	Searcher       string // default search algorithm
	Samples        int    // default candidate budget
	SearchWorkers  int    // parallel candidate evaluations
	Seed           int64  // default random seed
}

// DitherService evaluates and optimizes dither strategies
type DitherService struct {
	repo      repository.Repository
	cameras   *CameraService
	eventBus  *EventBus
	metrics   *metrics.Metrics
	searchers *optimizer.Registry
	opts      Options
}

// NewDitherService creates a new dither service
func NewDitherService(repo repository.Repository, cameras *CameraService, eventBus *EventBus,
	m *metrics.Metrics, searchers *optimizer.Registry, opts Options) *DitherService {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.BufferQuadSegs < 1 {
		opts.BufferQuadSegs = 16
	}
	if opts.Searcher == "" {
		opts.Searcher = "grid"
	}
	if opts.SearchWorkers < 1 {
		opts.SearchWorkers = opts.Workers
	}
	return &DitherService{
		repo:      repo,
		cameras:   cameras,
		eventBus:  eventBus,
		metrics:   m,
		searchers: searchers,
		opts:      opts,
	}
}

// EvaluateStrategy computes the coverage map for a stored strategy and
// persists the result as a report.
func (s *DitherService) EvaluateStrategy(ctx context.Context, strategyID string) (*domain.Report, error) {
	strat, err := s.repo.GetStrategy(ctx, strategyID)
	if err != nil {
		return nil, err
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy %s not found", strategyID)
	}
	return s.evaluate(ctx, strat.ID, strat.CameraName, strat.Slews, 0)
}

// EvaluateAdhoc computes the coverage map for a slew sequence that is
// not stored as a strategy. A non-zero bufferDeg grows (or, negative,
// shrinks) the footprint before evaluation.
func (s *DitherService) EvaluateAdhoc(ctx context.Context, cameraName string, slews []domain.Slew, bufferDeg float64) (*domain.Report, error) {
	return s.evaluate(ctx, "", cameraName, slews, bufferDeg)
}

func (s *DitherService) evaluate(ctx context.Context, strategyID, cameraName string, slews []domain.Slew, bufferDeg float64) (*domain.Report, error) {
	cam, err := s.cameras.Camera(ctx, cameraName)
	if err != nil {
		return nil, err
	}
	if bufferDeg != 0 {
		if err := cam.Buffer(bufferDeg, s.opts.BufferQuadSegs); err != nil {
			return nil, fmt.Errorf("failed to buffer footprint: %w", err)
		}
	}

	started := time.Now()
	coverage, err := domain.Coverage(ctx, cam, slews, s.opts.Workers)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)

	report := domain.NewReport(strategyID, cameraName, len(slews), coverage, elapsed)
	if err := s.repo.SaveReport(ctx, report); err != nil {
		return nil, err
	}

	s.metrics.ObserveEvaluation(cameraName, elapsed)
	s.eventBus.Publish(Event{
		Type: EventReportCreated,
		Payload: map[string]interface{}{
			"report_id":  report.ID,
			"camera":     cameraName,
			"total_area": report.TotalArea,
		},
	})

	return report, nil
}

// GetReport retrieves a report by ID
func (s *DitherService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.repo.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("report %s not found", id)
	}
	return report, nil
}

// ListReports returns reports, optionally filtered by strategy
func (s *DitherService) ListReports(ctx context.Context, strategyID string) ([]*domain.Report, error) {
	return s.repo.ListReports(ctx, strategyID)
}

// OptimizeParams describes one optimization run request
type OptimizeParams struct {
	CameraName     string              `json:"camera"`
	Searcher       string              `json:"searcher,omitempty"`
	Exposures      int                 `json:"exposures,omitempty"`
	Objective      optimizer.Objective `json:"objective,omitempty"`
	MaxOffsetDeg   float64             `json:"max_offset_deg,omitempty"`
	MaxRotationDeg float64             `json:"max_rotation_deg,omitempty"`
	Samples        int                 `json:"samples,omitempty"`
	Seed           int64               `json:"seed,omitempty"`
	// SaveAs stores the winning sequence as a named strategy.
	SaveAs string `json:"save_as,omitempty"`
}

// OptimizeResult is the outcome of an optimization run
type OptimizeResult struct {
	RunID    string            `json:"run_id"`
	Result   *optimizer.Result `json:"result"`
	Strategy *domain.Strategy  `json:"strategy,omitempty"`
}

// Optimize runs a searcher over the slew space for a camera, streaming
// progress to the event bus.
func (s *DitherService) Optimize(ctx context.Context, params OptimizeParams) (*OptimizeResult, error) {
	searcherName := params.Searcher
	if searcherName == "" {
		searcherName = s.opts.Searcher
	}
	searcher, err := s.searchers.Get(searcherName)
	if err != nil {
		return nil, err
	}

	cam, err := s.cameras.Camera(ctx, params.CameraName)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	s.eventBus.Publish(Event{
		Type: EventRunStarted,
		Payload: map[string]string{
			"run_id":   runID,
			"camera":   params.CameraName,
			"searcher": searcherName,
		},
	})

	samples := params.Samples
	if samples == 0 {
		samples = s.opts.Samples
	}
	seed := params.Seed
	if seed == 0 {
		seed = s.opts.Seed
	}

	req := optimizer.Request{
		Camera:         cam,
		Exposures:      params.Exposures,
		Objective:      params.Objective,
		MaxOffsetDeg:   params.MaxOffsetDeg,
		MaxRotationDeg: params.MaxRotationDeg,
		Samples:        samples,
		Workers:        s.opts.SearchWorkers,
		Seed:           seed,
	}

	started := time.Now()
	result, err := searcher.Search(ctx, req, func(p optimizer.Progress) {
		// The bus drops events for slow subscribers, so thin the
		// stream at the source instead of flooding it.
		if p.Evaluated%10 != 0 && p.Evaluated != p.Total {
			return
		}
		s.eventBus.Publish(Event{
			Type: EventRunProgress,
			Payload: map[string]interface{}{
				"run_id":     runID,
				"evaluated":  p.Evaluated,
				"total":      p.Total,
				"best_score": p.BestScore,
			},
		})
	})
	if err != nil {
		s.metrics.ObserveOptimizerRun(searcherName, "failed", time.Since(started))
		s.eventBus.Publish(Event{
			Type:    EventRunFailed,
			Payload: map[string]string{"run_id": runID, "error": err.Error()},
		})
		return nil, err
	}

	s.metrics.ObserveOptimizerRun(searcherName, "completed", result.Duration)

	out := &OptimizeResult{RunID: runID, Result: result}
	if params.SaveAs != "" {
		strat := domain.NewStrategy(params.SaveAs, params.CameraName, result.Best.Slews)
		strat.Source = "optimizer"
		if err := s.repo.SaveStrategy(ctx, strat); err != nil {
			return nil, err
		}
		s.eventBus.Publish(Event{
			Type:    EventStrategyCreated,
			Payload: map[string]string{"strategy_id": strat.ID, "name": strat.Name},
		})
		out.Strategy = strat
	}

	s.eventBus.Publish(Event{
		Type: EventRunCompleted,
		Payload: map[string]interface{}{
			"run_id":     runID,
			"evaluated":  result.Evaluated,
			"best_score": result.Best.Score,
		},
	})

	return out, nil
}
