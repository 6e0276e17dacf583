package optimizer

import (
	"context"
	"math"
	"math/rand"
	"time"

	"skysight/internal/domain"
)

// Anneal refines the best of a short random warm-up by simulated
// annealing: each step perturbs the current sequence and accepts
// worse candidates with a probability that shrinks as the run cools.
type Anneal struct{}

// NewAnneal creates the annealing searcher.
func NewAnneal() *Anneal { return &Anneal{} }

func (*Anneal) Name() string { return "anneal" }

func (s *Anneal) Search(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	rng := rand.New(rand.NewSource(req.Seed))
	warmup := req.Samples / 4
	if warmup < 1 {
		warmup = 1
	}
	steps := req.Samples - warmup

	track := newTracker(req.Samples, progress)

	// Warm-up: take the best of a few uniform draws as the start point.
	var current *Candidate
	for i := 0; i < warmup; i++ {
		c, err := evaluate(ctx, req, randomSlews(rng, req))
		if err != nil {
			return nil, err
		}
		track.record(c)
		if current == nil || c.Score > current.Score {
			current = c
		}
	}

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Linear cooling from 1 to ~0.
		temp := 1 - float64(i)/float64(steps)

		c, err := evaluate(ctx, req, perturb(rng, req, current.Slews, temp))
		if err != nil {
			return nil, err
		}
		track.record(c)

		if accept(rng, current.Score, c.Score, temp) {
			current = c
		}
	}

	return track.result(s.Name(), started)
}

// perturb nudges every non-home slew by a fraction of the search
// bounds scaled by the current temperature.
func perturb(rng *rand.Rand, req Request, slews []domain.Slew, temp float64) []domain.Slew {
	out := make([]domain.Slew, len(slews))
	copy(out, slews)
	for i := 1; i < len(out); i++ {
		out[i].RotationDeg = clamp(out[i].RotationDeg+uniform(rng, temp*req.MaxRotationDeg/2), req.MaxRotationDeg)
		out[i].RAOffsetDeg = clamp(out[i].RAOffsetDeg+uniform(rng, temp*req.MaxOffsetDeg/2), req.MaxOffsetDeg)
		out[i].DecOffsetDeg = clamp(out[i].DecOffsetDeg+uniform(rng, temp*req.MaxOffsetDeg/2), req.MaxOffsetDeg)
	}
	return out
}

// accept implements the Metropolis criterion for a maximization run.
func accept(rng *rand.Rand, current, candidate, temp float64) bool {
	if candidate >= current {
		return true
	}
	if temp <= 0 {
		return false
	}
	// Scores are areas in square degrees, so normalize the gap by the
	// current score before comparing with the temperature.
	gap := (current - candidate) / math.Max(current, 1e-12)
	return rng.Float64() < math.Exp(-gap/temp)
}

func clamp(v, bound float64) float64 {
	if v > bound {
		return bound
	}
	if v < -bound {
		return -bound
	}
	return v
}
