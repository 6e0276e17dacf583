package optimizer

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"skysight/internal/domain"
)

// Grid enumerates ladder patterns: each candidate steps the camera by
// the same base offset and rotation between consecutive exposures, and
// the base steps are drawn from a regular grid over the search bounds.
type Grid struct{}

// NewGrid creates the grid searcher.
func NewGrid() *Grid { return &Grid{} }

func (*Grid) Name() string { return "grid" }

func (g *Grid) Search(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	candidates := g.candidates(req)
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

	return track.result(g.Name(), started)
}

// candidates builds the ladder slew sequences for the grid.
func (g *Grid) candidates(req Request) [][]domain.Slew {
	rotations := []float64{0}
	if req.MaxRotationDeg > 0 {
		rotations = linspace(0, req.MaxRotationDeg, 4)
	}

	// Pick the per-axis resolution so the grid stays near the sample
	// budget: candidates = len(rot) * n * n.
	n := int(math.Sqrt(float64(req.Samples) / float64(len(rotations))))
	if n < 3 {
		n = 3
	}
	offsets := linspace(-req.MaxOffsetDeg, req.MaxOffsetDeg, n)

	var out [][]domain.Slew
	for _, rot := range rotations {
		for _, dx := range offsets {
			for _, dy := range offsets {
				if dx == 0 && dy == 0 && rot == 0 {
					continue
				}
				out = append(out, ladder(req.Exposures, dx, dy, rot))
			}
		}
	}
	return out
}

// ladder builds n exposures stepping by the same slew each time. The
// first exposure stays at the home pointing.
func ladder(exposures int, dx, dy, rot float64) []domain.Slew {
	slews := make([]domain.Slew, exposures)
	for i := 1; i < exposures; i++ {
		slews[i] = domain.Slew{
			RotationDeg:  float64(i) * rot,
			RAOffsetDeg:  float64(i) * dx,
			DecOffsetDeg: float64(i) * dy,
		}
	}
	return slews
}

// linspace returns n evenly spaced values from lo to hi inclusive.
func linspace(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
