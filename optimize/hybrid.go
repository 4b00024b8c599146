package optimize

import (
	"math/rand"
	"sort"
	"time"

	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

// HybridConfig tunes Hybrid, matching HybridBinPacking.h's HybridConfig.
type HybridConfig struct {
	InitialTemperature     float64
	CoolingRate            float64
	SAIterationsPerRound   int
	MaxLocalSearchRounds   int
	NoImprovementThreshold int
	PopulationSize         int
	EliteSize              int
	Generations            int
	Cancel                 *cancel.Token
	Observer               Observer
	Cache                  *ShapeCache
	// Parallel evaluates every individual in a generation concurrently,
	// same semantics as GAConfig.Parallel.
	Parallel bool
	// PackOptions tunes the strategy.Bin knobs every evaluation and the
	// final materialized packing runs with.
	PackOptions strategy.Options
}

const (
	defaultHybridTemperature    = 100.0
	defaultHybridCoolingRate    = 0.95
	defaultSAIterationsPerRound = 50
	defaultLocalSearchRounds    = 100
	defaultNoImprovementLimit   = 20
	defaultHybridPopulation     = 10
	defaultEliteSize            = 2
	defaultHybridGenerations    = 50
)

func (c HybridConfig) withDefaults() HybridConfig {
	if c.InitialTemperature <= 0 {
		c.InitialTemperature = defaultHybridTemperature
	}
	if c.CoolingRate <= 0 {
		c.CoolingRate = defaultHybridCoolingRate
	}
	if c.SAIterationsPerRound <= 0 {
		c.SAIterationsPerRound = defaultSAIterationsPerRound
	}
	if c.MaxLocalSearchRounds <= 0 {
		c.MaxLocalSearchRounds = defaultLocalSearchRounds
	}
	if c.NoImprovementThreshold <= 0 {
		c.NoImprovementThreshold = defaultNoImprovementLimit
	}
	if c.PopulationSize <= 0 {
		c.PopulationSize = defaultHybridPopulation
	}
	if c.EliteSize <= 0 {
		c.EliteSize = defaultEliteSize
	}
	if c.Generations <= 0 {
		c.Generations = defaultHybridGenerations
	}
	if c.PackOptions.Cancel == nil {
		c.PackOptions.Cancel = c.Cancel
	}
	return c
}

// Hybrid combines a GA-style population with an SA-style local-search
// refinement applied to each generation's elite: every generation, the
// EliteSize fittest individuals are each polished with a short simulated
// annealing run (bounded by MaxLocalSearchRounds, stopping early after
// NoImprovementThreshold non-improving rounds), while the rest of the
// population is regenerated via tournament selection, ordered crossover,
// and mutation exactly as Genetic does. Grounded on HybridBinPacking.{h,cpp}.
func Hybrid(pieces []*piece.Piece, binDim geom.Rect, cfg HybridConfig) strategy.Result {
	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	population := initializePopulation(pieces, cfg.PopulationSize, rng)
	bestFitnessSoFar := -1e18

	for gen := 0; gen < cfg.Generations; gen++ {
		if cfg.Cancel.Cancelled() {
			break
		}

		evaluatePopulation(cfg.Cache, pieces, binDim, population, cfg.Parallel, cfg.PackOptions)
		sort.Slice(population, func(i, j int) bool { return population[i].Fitness > population[j].Fitness })

		elites := cfg.EliteSize
		if elites > len(population) {
			elites = len(population)
		}
		for i := 0; i < elites; i++ {
			population[i] = localSearch(pieces, binDim, population[i], cfg, rng)
		}

		if population[0].Fitness > bestFitnessSoFar {
			bestFitnessSoFar = population[0].Fitness
			hits, misses := cacheStats(cfg.Cache)
			cfg.Observer.notify(Observation{
				Iteration: gen + 1, Total: cfg.Generations,
				BestFitness: bestFitnessSoFar, BestBins: population[0].NumBins,
				CacheHits: hits, CacheMisses: misses,
			})
		}

		population = replacePopulation(population, elites, rng)
	}

	evaluatePopulation(cfg.Cache, pieces, binDim, population, cfg.Parallel, cfg.PackOptions)
	sort.Slice(population, func(i, j int) bool { return population[i].Fitness > population[j].Fitness })
	best := population[0]

	seq := materialize(pieces, best)
	return strategy.PackOrdered(seq, binDim, cfg.PackOptions)
}

// localSearch runs a bounded simulated-annealing-style hill climb starting
// from solution: propose a neighbor, accept if it improves, cool a
// temperature, and stop early once noImprovementThreshold consecutive
// rounds fail to improve — HybridPacker::simulatedAnnealing's role as a
// refinement pass over a single elite individual, rather than SA's own
// from-scratch search.
func localSearch(pieces []*piece.Piece, binDim geom.Rect, start Solution, cfg HybridConfig, rng *rand.Rand) Solution {
	current := start
	best := start
	temperature := cfg.InitialTemperature
	noImprovement := 0

	for round := 0; round < cfg.MaxLocalSearchRounds; round++ {
		if noImprovement >= cfg.NoImprovementThreshold {
			break
		}

		neighbor := neighborSolution(current, rng)
		evaluate(cfg.Cache, pieces, binDim, &neighbor, true, cfg.PackOptions)

		if neighbor.Fitness > current.Fitness {
			current = neighbor
			noImprovement = 0
			if current.Fitness > best.Fitness {
				best = current
			}
		} else {
			noImprovement++
			if acceptanceProbability(current.Fitness, neighbor.Fitness, temperature) > rng.Float64() {
				current = neighbor
			}
		}
		temperature *= cfg.CoolingRate
	}
	return best
}

// replacePopulation keeps the already-refined elites in place and fills the
// rest via tournament selection, ordered crossover, and mutation, matching
// HybridPacker::replacePopulation's elitism-plus-diversity structure.
func replacePopulation(population []Solution, eliteCount int, rng *rand.Rand) []Solution {
	n := len(population)
	next := make([]Solution, 0, n)
	next = append(next, population[:eliteCount]...)

	for len(next) < n {
		p1 := population[rng.Intn(n)]
		p2 := population[rng.Intn(n)]
		var child Solution
		if rng.Float64() < defaultCrossoverRate {
			child = orderedCrossover(p1, p2, rng)
		} else if p1.Fitness > p2.Fitness {
			child = p1
		} else {
			child = p2
		}
		if rng.Float64() < defaultMutationRate {
			mutateIndividual(&child, rng)
		}
		next = append(next, child)
	}
	return next
}
