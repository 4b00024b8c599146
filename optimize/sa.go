package optimize

import (
	"math"
	"math/rand"
	"time"

	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

// SAConfig tunes SimulatedAnnealing. Zero values fall back to the defaults
// below, matching the constructor defaults in SimulatedAnnealingOptimizer.h.
type SAConfig struct {
	InitialTemperature float64
	CoolingRate        float64
	Iterations         int
	Cancel             *cancel.Token
	Observer           Observer
	Cache              *ShapeCache
	// PackOptions tunes the strategy.Bin knobs (dive factor, sweep factors,
	// rotation angles, parallel search) every evaluation and the final
	// materialized packing runs with.
	PackOptions strategy.Options
}

const (
	defaultInitialTemperature = 100.0
	defaultCoolingRate        = 0.95
	defaultSAIterations       = 10000
	saInitialPoolSize         = 10
	saProgressEvery           = 1000
)

func (c SAConfig) withDefaults() SAConfig {
	if c.InitialTemperature <= 0 {
		c.InitialTemperature = defaultInitialTemperature
	}
	if c.CoolingRate <= 0 {
		c.CoolingRate = defaultCoolingRate
	}
	if c.Iterations <= 0 {
		c.Iterations = defaultSAIterations
	}
	if c.PackOptions.Cancel == nil {
		c.PackOptions.Cancel = c.Cancel
	}
	return c
}

// SimulatedAnnealing searches over (piece order, piece rotation) using
// simulated annealing: a random-restart initial solution, then iterated
// neighbor proposals accepted unconditionally when they improve fitness and
// probabilistically otherwise (Metropolis criterion), cooling the
// temperature geometrically each iteration. The best solution seen is
// materialized into bins via strategy.PackOrdered once the search ends.
func SimulatedAnnealing(pieces []*piece.Piece, binDim geom.Rect, cfg SAConfig) strategy.Result {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	current := initializeSolution(pieces, binDim, cfg, rng)
	best := current

	temperature := cfg.InitialTemperature

	for i := 0; i < cfg.Iterations; i++ {
		if cfg.Cancel.Cancelled() {
			break
		}

		neighbor := neighborSolution(current, rng)
		evaluate(cfg.Cache, pieces, binDim, &neighbor, true, cfg.PackOptions)

		if neighbor.Fitness > current.Fitness {
			current = neighbor
			if current.Fitness > best.Fitness {
				best = current
				hits, misses := cacheStats(cfg.Cache)
				cfg.Observer.notify(Observation{
					Iteration: i + 1, Total: cfg.Iterations,
					BestFitness: best.Fitness, BestBins: best.NumBins,
					Temperature: temperature, CacheHits: hits, CacheMisses: misses,
				})
			}
		} else if acceptanceProbability(current.Fitness, neighbor.Fitness, temperature) > rng.Float64() {
			current = neighbor
		}

		temperature *= cfg.CoolingRate

		if (i+1)%saProgressEvery == 0 {
			hits, misses := cacheStats(cfg.Cache)
			cfg.Observer.notify(Observation{
				Iteration: i + 1, Total: cfg.Iterations,
				BestFitness: current.Fitness, BestBins: current.NumBins,
				Temperature: temperature, CacheHits: hits, CacheMisses: misses,
			})
		}
	}

	seq := materialize(pieces, best)
	return strategy.PackOrdered(seq, binDim, cfg.PackOptions)
}

// initializeSolution generates saInitialPoolSize random orderings and keeps
// the fittest, matching SimulatedAnnealingOptimizer::initializeSolution.
func initializeSolution(pieces []*piece.Piece, binDim geom.Rect, cfg SAConfig, rng *rand.Rand) Solution {
	best := Solution{Fitness: -1e18}
	for i := 0; i < saInitialPoolSize; i++ {
		candidate := randomSolution(len(pieces), rng)
		evaluate(cfg.Cache, pieces, binDim, &candidate, true, cfg.PackOptions)
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best
}

func randomSolution(n int, rng *rand.Rand) Solution {
	order := rng.Perm(n)
	rotations := make([]float64, n)
	for i := range rotations {
		rotations[i] = RotationChoices[rng.Intn(len(RotationChoices))]
	}
	return Solution{Order: order, Rotations: rotations}
}

// neighborSolution perturbs solution with one of three moves, chosen
// uniformly: swap two positions, re-roll one piece's rotation, or relocate a
// contiguous block elsewhere in the order — the same three move types as
// SimulatedAnnealingOptimizer::getNeighbor.
func neighborSolution(s Solution, rng *rand.Rand) Solution {
	n := len(s.Order)
	neighbor := Solution{
		Order:     append([]int(nil), s.Order...),
		Rotations: append([]float64(nil), s.Rotations...),
	}
	if n < 2 {
		return neighbor
	}

	switch rng.Intn(3) {
	case 0: // swap two pieces
		a, b := rng.Intn(n), rng.Intn(n)
		neighbor.Order[a], neighbor.Order[b] = neighbor.Order[b], neighbor.Order[a]
		neighbor.Rotations[a], neighbor.Rotations[b] = neighbor.Rotations[b], neighbor.Rotations[a]

	case 1: // change one piece's rotation
		pos := rng.Intn(n)
		neighbor.Rotations[pos] = RotationChoices[rng.Intn(len(RotationChoices))]

	default: // move a contiguous block
		maxBlock := n / 4
		if maxBlock < 1 {
			maxBlock = 1
		}
		blockSize := 1 + rng.Intn(maxBlock)
		start := rng.Intn(n - blockSize + 1)
		newPos := rng.Intn(n - blockSize + 1)

		blockOrder := append([]int(nil), neighbor.Order[start:start+blockSize]...)
		blockRot := append([]float64(nil), neighbor.Rotations[start:start+blockSize]...)

		neighbor.Order = append(neighbor.Order[:start], neighbor.Order[start+blockSize:]...)
		neighbor.Rotations = append(neighbor.Rotations[:start], neighbor.Rotations[start+blockSize:]...)

		neighbor.Order = insertSliceInt(neighbor.Order, newPos, blockOrder)
		neighbor.Rotations = insertSliceFloat(neighbor.Rotations, newPos, blockRot)
	}
	return neighbor
}

func insertSliceInt(dst []int, at int, src []int) []int {
	out := make([]int, 0, len(dst)+len(src))
	out = append(out, dst[:at]...)
	out = append(out, src...)
	out = append(out, dst[at:]...)
	return out
}

func insertSliceFloat(dst []float64, at int, src []float64) []float64 {
	out := make([]float64, 0, len(dst)+len(src))
	out = append(out, dst[:at]...)
	out = append(out, src...)
	out = append(out, dst[at:]...)
	return out
}

func acceptanceProbability(oldFitness, newFitness, temperature float64) float64 {
	if newFitness > oldFitness {
		return 1.0
	}
	return math.Exp((newFitness - oldFitness) / temperature)
}

func cacheStats(c *ShapeCache) (hits, misses int) {
	if c == nil {
		return 0, 0
	}
	return c.Stats()
}
