// Package optimizer searches for dither strategies that maximize a
// coverage objective for a given camera.
package optimizer

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"skysight/internal/domain"
)

// Objective selects what a search optimizes for.
type Objective string

const (
	// ObjectiveFootprint maximizes the total area covered at least once.
	ObjectiveFootprint Objective = "footprint"
	// ObjectiveOverlap maximizes the area covered by two or more exposures.
	ObjectiveOverlap Objective = "overlap"
	// ObjectiveDepth maximizes the mean number of exposures over the
	// covered area.
	ObjectiveDepth Objective = "depth"
)

// ParseObjective validates an objective name.
func ParseObjective(s string) (Objective, error) {
	switch Objective(s) {
	case ObjectiveFootprint, ObjectiveOverlap, ObjectiveDepth:
		return Objective(s), nil
	case "":
		return ObjectiveFootprint, nil
	default:
		return "", fmt.Errorf("unknown objective %q (want footprint, overlap or depth)", s)
	}
}

// Score reduces a coverage map to a single number to maximize.
func Score(coverage domain.CoverageMap, objective Objective) float64 {
	switch objective {
	case ObjectiveOverlap:
		var area float64
		for depth, a := range coverage {
			if depth >= 2 {
				area += a
			}
		}
		return area
	case ObjectiveDepth:
		return coverage.MeanDepth()
	default:
		return coverage.Total()
	}
}

// Request describes one optimization run.
type Request struct {
	Camera         *domain.Camera
	Exposures      int
	Objective      Objective
	MaxOffsetDeg   float64
	MaxRotationDeg float64
	Samples        int
	Workers        int
	Seed           int64
}

func (r *Request) applyDefaults() {
	if r.Exposures == 0 {
		r.Exposures = 4
	}
	if r.Objective == "" {
		r.Objective = ObjectiveFootprint
	}
	if r.MaxOffsetDeg == 0 && r.Camera != nil && !r.Camera.IsEmpty() {
		// Half the camera footprint keeps every exposure overlapping
		// the first one.
		r.MaxOffsetDeg = r.Camera.Radius() / 2
	}
	if r.MaxRotationDeg == 0 {
		r.MaxRotationDeg = 90
	}
	if r.Samples == 0 {
		r.Samples = 200
	}
	if r.Workers == 0 {
		r.Workers = 4
	}
}

func (r *Request) validate() error {
	if r.Camera == nil {
		return fmt.Errorf("optimization needs a camera")
	}
	if r.Camera.IsEmpty() {
		return fmt.Errorf("camera %q has no footprint", r.Camera.Name())
	}
	if r.Exposures < 2 {
		return fmt.Errorf("need at least 2 exposures, got %d", r.Exposures)
	}
	if r.MaxOffsetDeg < 0 || r.MaxRotationDeg < 0 {
		return fmt.Errorf("search bounds must not be negative")
	}
	if _, err := ParseObjective(string(r.Objective)); err != nil {
		return err
	}
	return nil
}

// Candidate is one evaluated dither sequence.
type Candidate struct {
	Slews    []domain.Slew      `json:"slews"`
	Coverage domain.CoverageMap `json:"coverage"`
	Score    float64            `json:"score"`
}

// Result is the outcome of a search.
type Result struct {
	Best      Candidate     `json:"best"`
	Evaluated int           `json:"evaluated"`
	Searcher  string        `json:"searcher"`
	Duration  time.Duration `json:"duration_ns"`
}

// Progress reports intermediate search state.
type Progress struct {
	Evaluated int     `json:"evaluated"`
	Total     int     `json:"total"`
	BestScore float64 `json:"best_score"`
}

// ProgressFunc receives progress updates. It is called from the
// searching goroutine and must not block.
type ProgressFunc func(Progress)

// Searcher is one search algorithm over the slew space.
type Searcher interface {
	Name() string
	Search(ctx context.Context, req Request, progress ProgressFunc) (*Result, error)
}

// Registry holds the available searchers by name.
type Registry struct {
	mu        sync.RWMutex
	searchers map[string]Searcher
}

// NewRegistry creates an empty searcher registry.
func NewRegistry() *Registry {
	return &Registry{searchers: make(map[string]Searcher)}
}

// Default returns a registry with all built-in searchers registered.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range []Searcher{NewGrid(), NewRandom(), NewAnneal()} {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a searcher to the registry.
func (r *Registry) Register(s Searcher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := s.Name()
	if _, exists := r.searchers[name]; exists {
		return fmt.Errorf("searcher %s already registered", name)
	}
	r.searchers[name] = s
	return nil
}

// Get returns a searcher by name.
func (r *Registry) Get(name string) (Searcher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.searchers[name]
	if !ok {
		return nil, fmt.Errorf("unknown searcher %q (have %v)", name, r.names())
	}
	return s, nil
}

// Names returns the registered searcher names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.searchers))
	for name := range r.searchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// evaluate scores one slew sequence against the request's camera.
func evaluate(ctx context.Context, req Request, slews []domain.Slew) (*Candidate, error) {
	coverage, err := domain.Coverage(ctx, req.Camera, slews, 1)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		Slews:    slews,
		Coverage: coverage,
		Score:    Score(coverage, req.Objective),
	}, nil
}

// tracker accumulates the best candidate across goroutines.
type tracker struct {
	mu        sync.Mutex
	best      *Candidate
	evaluated int
	total     int
	progress  ProgressFunc
}

func newTracker(total int, progress ProgressFunc) *tracker {
	return &tracker{total: total, progress: progress}
}

func (t *tracker) record(c *Candidate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.evaluated++
	if t.best == nil || c.Score > t.best.Score {
		t.best = c
	}
	if t.progress != nil {
		t.progress(Progress{
			Evaluated: t.evaluated,
			Total:     t.total,
			BestScore: t.best.Score,
		})
	}
}

func (t *tracker) result(searcher string, started time.Time) (*Result, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.best == nil {
		return nil, fmt.Errorf("no candidates evaluated")
	}
	return &Result{
		Best:      *t.best,
		Evaluated: t.evaluated,
		Searcher:  searcher,
		Duration:  time.Since(started),
	}, nil
}
