package domain

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// CoverageMap maps exposure depth to the sky area, in square degrees,
// covered by exactly that many exposures of a dither sequence.
type CoverageMap map[int]float64

// Total returns the area covered by at least one exposure.
func (m CoverageMap) Total() float64 {
	var sum float64
	for _, a := range m {
		sum += a
	}
	return sum
}

// MeanDepth returns the area-weighted mean exposure depth.
func (m CoverageMap) MeanDepth() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	var weighted float64
	for depth, a := range m {
		weighted += float64(depth) * a
	}
	return weighted / total
}

// DepthFraction returns the fraction of the covered area imaged by at
// least min exposures.
func (m CoverageMap) DepthFraction(min int) float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	var deep float64
	for depth, a := range m {
		if depth >= min {
			deep += a
		}
	}
	return deep / total
}

// Intersect folds the cameras into their common intersection. An empty
// list yields an empty camera.
func Intersect(cameras []*Camera) (*Camera, error) {
	if len(cameras) == 0 {
		return EmptyCamera(), nil
	}
	result := cameras[0]
	for _, cam := range cameras[1:] {
		next, err := result.Intersect(cam)
		if err != nil {
			return nil, err
		}
		result = next
	}
	if result == cameras[0] {
		result = result.Copy()
	}
	return result, nil
}

// UnionExcluding unions the cameras, skipping any camera that appears
// in exclude (compared by identity). If everything is excluded the
// result is an empty camera.
func UnionExcluding(cameras, exclude []*Camera) (*Camera, error) {
	excluded := func(c *Camera) bool {
		for _, e := range exclude {
			if c == e {
				return true
			}
		}
		return false
	}

	var result *Camera
	for _, cam := range cameras {
		if excluded(cam) {
			continue
		}
		if result == nil {
			result = cam.Copy()
			continue
		}
		next, err := result.Union(cam)
		if err != nil {
			return nil, err
		}
		result = next
	}
	if result == nil {
		return EmptyCamera(), nil
	}
	return result, nil
}

// Coverage applies each slew to a copy of the camera and accounts the
// dither pattern's area by exposure depth: for every depth k it sums,
// over all k-sized exposure combinations, the area inside every camera
// of the combination and outside every other camera. The sum over all
// depths therefore equals the area of the union of all exposures.
//
// Combinations are evaluated concurrently, bounded by workers (a value
// below one means one).
func Coverage(ctx context.Context, camera *Camera, slews []Slew, workers int) (CoverageMap, error) {
	n := len(slews)
	if n == 0 {
		return nil, fmt.Errorf("coverage needs at least one slew")
	}
	if workers < 1 {
		workers = 1
	}

	exposures := make([]*Camera, n)
	for i, slew := range slews {
		cam := camera.Copy()
		slew.Apply(cam)
		exposures[i] = cam
	}

	result := make(CoverageMap, n)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for depth := 1; depth <= n; depth++ {
		mu.Lock()
		result[depth] = 0
		mu.Unlock()
		combinations(n, depth, func(combo []int) {
			combo = append([]int(nil), combo...)
			depth := depth
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				area, err := exclusiveArea(exposures, combo)
				if err != nil {
					return err
				}
				mu.Lock()
				result[depth] += area
				mu.Unlock()
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// exclusiveArea returns the area covered by every exposure in combo and
// by no exposure outside it.
func exclusiveArea(exposures []*Camera, combo []int) (float64, error) {
	inside := make([]*Camera, len(combo))
	for i, idx := range combo {
		inside[i] = exposures[idx]
	}
	intersection, err := Intersect(inside)
	if err != nil {
		return 0, err
	}
	if intersection.IsEmpty() {
		return 0, nil
	}

	rest, err := UnionExcluding(exposures, inside)
	if err != nil {
		return 0, err
	}
	exclusive, err := intersection.Difference(rest)
	if err != nil {
		return 0, err
	}
	return exclusive.Area(), nil
}

// combinations calls fn with every k-sized index combination of 0..n-1.
// The slice passed to fn is reused between calls.
func combinations(n, k int, fn func([]int)) {
	if k < 1 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		// Advance the rightmost index that can still move.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
