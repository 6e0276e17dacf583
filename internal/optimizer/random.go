package optimizer

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	"skysight/internal/domain"
)

// Random samples slew sequences uniformly within the search bounds.
// Runs with the same seed evaluate the same candidates.
type Random struct{}

// NewRandom creates the random searcher.
func NewRandom() *Random { return &Random{} }

func (*Random) Name() string { return "random" }

func (s *Random) Search(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	// Draw every candidate up front so the sequence is deterministic
	// regardless of evaluation order.
	rng := rand.New(rand.NewSource(req.Seed))
	candidates := make([][]domain.Slew, req.Samples)
	for i := range candidates {
		candidates[i] = randomSlews(rng, req)
	}

	track := newTracker(len(candidates), progress)

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(req.Workers)
	for _, slews := range candidates {
		slews := slews
		grp.Go(func() error {
			c, err := evaluate(gctx, req, slews)
			if err != nil {
				return err
			}
			track.record(c)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	return track.result(s.Name(), started)
}

// randomSlews draws one candidate. The first exposure stays at the
// home pointing.
func randomSlews(rng *rand.Rand, req Request) []domain.Slew {
	slews := make([]domain.Slew, req.Exposures)
	for i := 1; i < req.Exposures; i++ {
		slews[i] = domain.Slew{
			RotationDeg:  uniform(rng, req.MaxRotationDeg),
			RAOffsetDeg:  uniform(rng, req.MaxOffsetDeg),
			DecOffsetDeg: uniform(rng, req.MaxOffsetDeg),
		}
	}
	return slews
}

// uniform draws from [-bound, bound].
func uniform(rng *rand.Rand, bound float64) float64 {
	if bound == 0 {
		return 0
	}
	return (2*rng.Float64() - 1) * bound
}
