package optimize

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

// GAConfig tunes Genetic. Zero values fall back to the defaults below,
// matching GeneticOptimizer.h's constructor defaults.
type GAConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	CrossoverRate  float64
	Cancel         *cancel.Token
	Observer       Observer
	Cache          *ShapeCache
	// Parallel evaluates every individual in a generation concurrently
	// (spec.md section 5's "independent solution evaluations"). Each
	// goroutine writes only its own population slot, so no locking is
	// needed beyond the ShapeCache's own.
	Parallel bool
	// PackOptions tunes the strategy.Bin knobs every evaluation and the
	// final materialized packing runs with.
	PackOptions strategy.Options
}

const (
	defaultPopulationSize = 30
	defaultGenerations    = 200
	defaultMutationRate   = 0.1
	defaultCrossoverRate  = 0.8
	gaProgressEvery       = 10
)

func (c GAConfig) withDefaults() GAConfig {
	if c.PopulationSize <= 0 {
		c.PopulationSize = defaultPopulationSize
	}
	if c.Generations <= 0 {
		c.Generations = defaultGenerations
	}
	if c.MutationRate <= 0 {
		c.MutationRate = defaultMutationRate
	}
	if c.CrossoverRate <= 0 {
		c.CrossoverRate = defaultCrossoverRate
	}
	if c.PackOptions.Cancel == nil {
		c.PackOptions.Cancel = c.Cancel
	}
	return c
}

// Genetic searches over (piece order, piece rotation) with a standard
// generational GA: a greedy area-sorted seed plus random individuals,
// tournament-style selection with elitism, ordered crossover (preserving
// relative piece order, which a naive single-point crossover would break),
// and swap/rotation mutation. Grounded on GeneticOptimizer.cpp.
func Genetic(pieces []*piece.Piece, binDim geom.Rect, cfg GAConfig) strategy.Result {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	population := initializePopulation(pieces, cfg.PopulationSize, rng)
	bestFitnessSoFar := -1e18

	for gen := 0; gen < cfg.Generations; gen++ {
		if cfg.Cancel.Cancelled() {
			break
		}

		evaluatePopulation(cfg.Cache, pieces, binDim, population, cfg.Parallel, cfg.PackOptions)
		sort.Slice(population, func(i, j int) bool { return population[i].Fitness < population[j].Fitness })
		bestOfGen := population[len(population)-1]

		if bestOfGen.Fitness > bestFitnessSoFar {
			bestFitnessSoFar = bestOfGen.Fitness
			hits, misses := cacheStats(cfg.Cache)
			cfg.Observer.notify(Observation{
				Iteration: gen + 1, Total: cfg.Generations,
				BestFitness: bestFitnessSoFar, BestBins: bestOfGen.NumBins,
				CacheHits: hits, CacheMisses: misses,
			})
		} else if (gen+1)%gaProgressEvery == 0 {
			hits, misses := cacheStats(cfg.Cache)
			cfg.Observer.notify(Observation{
				Iteration: gen + 1, Total: cfg.Generations,
				BestFitness: bestFitnessSoFar, CacheHits: hits, CacheMisses: misses,
			})
		}

		population = selection(population, rng)
		population = crossoverPopulation(population, cfg.CrossoverRate, rng)
		mutatePopulation(population, cfg.MutationRate, rng)
	}

	evaluatePopulation(cfg.Cache, pieces, binDim, population, cfg.Parallel, cfg.PackOptions)
	sort.Slice(population, func(i, j int) bool { return population[i].Fitness < population[j].Fitness })
	best := population[len(population)-1]

	seq := materialize(pieces, best)
	return strategy.PackOrdered(seq, binDim, cfg.PackOptions)
}

func initializePopulation(pieces []*piece.Piece, size int, rng *rand.Rand) []Solution {
	population := make([]Solution, 0, size)

	greedyOrder := make([]int, len(pieces))
	for i := range greedyOrder {
		greedyOrder[i] = i
	}
	sort.Slice(greedyOrder, func(i, j int) bool {
		return pieces[greedyOrder[i]].Area() > pieces[greedyOrder[j]].Area()
	})
	population = append(population, Solution{
		Order:     greedyOrder,
		Rotations: make([]float64, len(pieces)),
	})

	for i := 1; i < size; i++ {
		population = append(population, randomSolution(len(pieces), rng))
	}
	return population
}

// evaluatePopulation scores every individual. When parallel is set, each
// individual is evaluated on its own goroutine; since each writes only its
// own slot in population, no synchronization is needed beyond the
// ShapeCache's own locking.
func evaluatePopulation(cache *ShapeCache, pieces []*piece.Piece, binDim geom.Rect, population []Solution, parallel bool, opts strategy.Options) {
	if !parallel {
		for i := range population {
			evaluate(cache, pieces, binDim, &population[i], false, opts)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(population))
	for i := range population {
		go func(i int) {
			defer wg.Done()
			evaluate(cache, pieces, binDim, &population[i], false, opts)
		}(i)
	}
	wg.Wait()
}

// selection keeps the fittest individual unconditionally (elitism), then
// fills the rest of the new population via binary tournament, matching
// GeneticOptimizer::selection.
func selection(population []Solution, rng *rand.Rand) []Solution {
	n := len(population)
	next := make([]Solution, 0, n)
	next = append(next, population[n-1]) // population is sorted ascending; last is fittest

	for i := 1; i < n; i++ {
		p1 := population[rng.Intn(n)]
		p2 := population[rng.Intn(n)]
		if p1.Fitness > p2.Fitness {
			next = append(next, p1)
		} else {
			next = append(next, p2)
		}
	}
	return next
}

// crossoverPopulation applies ordered crossover between random pairs drawn
// from the population, keeping position 0 (the incumbent elite) untouched,
// matching GeneticOptimizer::crossover.
func crossoverPopulation(population []Solution, crossoverRate float64, rng *rand.Rand) []Solution {
	n := len(population)
	next := make([]Solution, 0, n)
	next = append(next, population[0])

	for len(next) < n {
		p1 := population[1+rng.Intn(n-1)]
		p2 := population[1+rng.Intn(n-1)]
		if rng.Float64() < crossoverRate {
			next = append(next, orderedCrossover(p1, p2, rng))
		} else {
			next = append(next, p1)
		}
	}
	return next
}

// orderedCrossover copies a random contiguous slice of p1 into the child
// verbatim, then fills the remaining positions with p2's genes in their own
// relative order, skipping any piece index already used — the classic
// order-crossover (OX1) operator, preserving permutation validity.
func orderedCrossover(p1, p2 Solution, rng *rand.Rand) Solution {
	n := len(p1.Order)
	child := Solution{
		Order:     make([]int, n),
		Rotations: make([]float64, n),
	}
	for i := range child.Order {
		child.Order[i] = -1
	}

	start, end := rng.Intn(n), rng.Intn(n)
	if start > end {
		start, end = end, start
	}

	used := make(map[int]bool, n)
	for i := start; i <= end; i++ {
		child.Order[i] = p1.Order[i]
		child.Rotations[i] = p1.Rotations[i]
		used[p1.Order[i]] = true
	}

	p2idx := 0
	for i := 0; i < n; i++ {
		if child.Order[i] != -1 {
			continue
		}
		for used[p2.Order[p2idx]] {
			p2idx++
		}
		child.Order[i] = p2.Order[p2idx]
		child.Rotations[i] = p2.Rotations[p2idx]
		p2idx++
	}
	return child
}

// mutatePopulation perturbs every individual but the elite (position 0)
// with probability mutationRate, matching GeneticOptimizer::mutate.
func mutatePopulation(population []Solution, mutationRate float64, rng *rand.Rand) {
	for i := 1; i < len(population); i++ {
		if rng.Float64() < mutationRate {
			mutateIndividual(&population[i], rng)
		}
	}
}

func mutateIndividual(s *Solution, rng *rand.Rand) {
	n := len(s.Order)
	if n == 0 {
		return
	}
	if rng.Intn(2) == 0 {
		a, b := rng.Intn(n), rng.Intn(n)
		s.Order[a], s.Order[b] = s.Order[b], s.Order[a]
		s.Rotations[a], s.Rotations[b] = s.Rotations[b], s.Rotations[a]
	} else {
		pos := rng.Intn(n)
		s.Rotations[pos] = RotationChoices[rng.Intn(len(RotationChoices))]
	}
}
