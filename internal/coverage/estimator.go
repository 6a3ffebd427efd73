// Package coverage estimates the covered fraction of the bounded volume.
package coverage

import (
	"sync"

	"sensornet-sim/internal/sensor"
)

// DefaultGridDensity is the number of sample coordinates per axis.
const DefaultGridDensity = 10

// Estimator samples a regular 3D grid over the bounded volume and reports the
// fraction of sample points within range of at least one active sensor.
// The scan is the dominant cost of a simulation step; setting Workers > 1
// parallelizes it across grid slices. Covers is a pure read of sensor state,
// so the scan must not run concurrently with sensor mutation.
type Estimator struct {
	GridDensity int
	Workers     int
}

// New returns an estimator with the given per-axis density, falling back to
// DefaultGridDensity when d <= 0.
func New(d int) Estimator {
	if d <= 0 {
		d = DefaultGridDensity
	}
	return Estimator{GridDensity: d}
}

// Ratio returns the covered fraction in [0,1]. With zero active sensors the
// ratio is 0 without sampling.
func (e Estimator) Ratio(sensors []*sensor.Sensor, bounds sensor.Point) float64 {
	active := make([]*sensor.Sensor, 0, len(sensors))
	for _, s := range sensors {
		if s.Active {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return 0
	}

	d := e.GridDensity
	if d <= 0 {
		d = DefaultGridDensity
	}
	xs := linspace(0, bounds.X, d)
	ys := linspace(0, bounds.Y, d)
	zs := linspace(0, bounds.Z, d)

	var covered int
	if e.Workers > 1 {
		covered = countCoveredParallel(active, xs, ys, zs, e.Workers)
	} else {
		covered = countCovered(active, xs, ys, zs, 0, len(xs))
	}
	return float64(covered) / float64(d*d*d)
}

// countCovered scans x slices in [lo,hi).
func countCovered(active []*sensor.Sensor, xs, ys, zs []float64, lo, hi int) int {
	covered := 0
	for i := lo; i < hi; i++ {
		for _, y := range ys {
			for _, z := range zs {
				p := sensor.Point{X: xs[i], Y: y, Z: z}
				for _, s := range active {
					if s.Covers(p) {
						covered++
						break
					}
				}
			}
		}
	}
	return covered
}

func countCoveredParallel(active []*sensor.Sensor, xs, ys, zs []float64, workers int) int {
	if workers > len(xs) {
		workers = len(xs)
	}
	counts := make([]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			n := 0
			for i := w; i < len(xs); i += workers {
				n += countCovered(active, xs, ys, zs, i, i+1)
			}
			counts[w] = n
		}(w)
	}
	wg.Wait()
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// linspace returns n evenly spaced coordinates spanning [lo,hi], endpoints
// inclusive. n == 1 yields just lo.
func linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	// Pin the last coordinate to avoid drift from repeated addition.
	out[n-1] = hi
	return out
}
