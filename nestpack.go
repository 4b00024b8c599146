// Package nestpack is the public entry point of the packing engine: load a
// problem file, pack it with the plain strategy or one of the metaheuristic
// optimizers, and write bins back out. It is a thin façade over geom,
// binengine, strategy, optimize, and ioformat — the teacher's own root
// package (packong.go) played the same role over pak and internal/svg.
package nestpack

import (
	"fmt"
	"math"
	"sync"

	"github.com/pkg/errors"

	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/ioformat"
	"github.com/innermond/nestpack/optimize"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

// Method selects which search OptimizeAndPack runs on top of the plain
// three-stage strategy.
type Method int

const (
	// MethodNone runs only strategy.Pack: the greedy, non-metaheuristic
	// three-stage placement.
	MethodNone Method = iota
	MethodSimulatedAnnealing
	MethodGenetic
	MethodHybrid
	// MethodRace runs SimulatedAnnealing, Genetic, and Hybrid concurrently
	// and keeps whichever reaches the best optimize.Fitness, the teacher's
	// Op.Fit() strategy race generalized from box-packing heuristics to
	// packing methods.
	MethodRace
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodSimulatedAnnealing:
		return "simulated-annealing"
	case MethodGenetic:
		return "genetic"
	case MethodHybrid:
		return "hybrid"
	case MethodRace:
		return "race"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Options tunes both Pack and OptimizeAndPack. The zero value runs the
// plain strategy sequentially with every package default.
type Options struct {
	// RotationAngles overrides strategy's stage-1 rotation set.
	RotationAngles []float64
	// DropAngles overrides strategy's stage-3 drop rotation set.
	DropAngles    []float64
	DiveFactor    float64
	SweepDXFactor float64
	SweepDYFactor float64
	// Parallel opts the free-rectangle search and (for metaheuristic
	// methods) population evaluation into goroutine fan-out. Off by
	// default; see strategy.Options.Parallel.
	Parallel bool
	// Cancel, if set, is polled at every documented boundary (between
	// bins, between SA iterations, between GA/Hybrid generations).
	Cancel *cancel.Token

	// Method selects the search OptimizeAndPack runs. Pack always behaves
	// as MethodNone regardless of this field.
	Method Method

	SA     optimize.SAConfig
	GA     optimize.GAConfig
	Hybrid optimize.HybridConfig

	// Cache, shared across SA/GA/Hybrid sub-configs (and across a Race),
	// avoids re-evaluating a permutation/rotation pair already scored. A
	// nil Cache disables memoization.
	Cache *optimize.ShapeCache

	Observer optimize.Observer
}

func (o Options) strategyOptions() strategy.Options {
	return strategy.Options{
		RotationAngles: o.RotationAngles,
		DropAngles:     o.DropAngles,
		DiveFactor:     o.DiveFactor,
		SweepDX:        o.SweepDXFactor,
		SweepDY:        o.SweepDYFactor,
		Cancel:         o.Cancel,
		Parallel:       o.Parallel,
	}
}

// LoadProblem reads a problem file in spec.md §6's plain-text format; it is
// a re-export of ioformat.LoadProblem so callers need only import this
// package for the common path.
func LoadProblem(path string) (geom.Rect, []*piece.Piece, error) {
	return ioformat.LoadProblem(path)
}

// Pack runs the plain three-stage strategy (no metaheuristic search) over
// pieces into bins of binDim, honoring Options' rotation/dive/sweep/cancel/
// parallel tuning.
func Pack(pieces []*piece.Piece, binDim geom.Rect, opts Options) strategy.Result {
	return strategy.Pack(pieces, binDim, opts.strategyOptions())
}

// OptimizeAndPack runs opts.Method's search over piece order and rotation,
// then materializes the winning solution into bins. MethodNone is
// equivalent to Pack.
func OptimizeAndPack(pieces []*piece.Piece, binDim geom.Rect, opts Options) (strategy.Result, error) {
	switch opts.Method {
	case MethodNone:
		return Pack(pieces, binDim, opts), nil
	case MethodSimulatedAnnealing:
		cfg := opts.SA
		cfg.Cancel, cfg.Cache, cfg.Observer = opts.Cancel, opts.Cache, opts.Observer
		cfg.PackOptions = opts.strategyOptions()
		return optimize.SimulatedAnnealing(pieces, binDim, cfg), nil
	case MethodGenetic:
		cfg := opts.GA
		cfg.Cancel, cfg.Cache, cfg.Observer, cfg.Parallel = opts.Cancel, opts.Cache, opts.Observer, opts.Parallel
		cfg.PackOptions = opts.strategyOptions()
		return optimize.Genetic(pieces, binDim, cfg), nil
	case MethodHybrid:
		cfg := opts.Hybrid
		cfg.Cancel, cfg.Cache, cfg.Observer, cfg.Parallel = opts.Cancel, opts.Cache, opts.Observer, opts.Parallel
		cfg.PackOptions = opts.strategyOptions()
		return optimize.Hybrid(pieces, binDim, cfg), nil
	case MethodRace:
		return race(pieces, binDim, opts)
	default:
		return strategy.Result{}, errors.Errorf("nestpack: unknown method %v", opts.Method)
	}
}

// race runs SimulatedAnnealing, Genetic, and Hybrid concurrently and keeps
// whichever scores best under optimize.Fitness, exactly the shape of the
// teacher's Op.Fit(): a WaitGroup fans the candidates out, a Mutex guards a
// shared results map, and the winner is picked once every goroutine
// reports in.
func race(pieces []*piece.Piece, binDim geom.Rect, opts Options) (strategy.Result, error) {
	cache := opts.Cache
	if cache == nil {
		cache = optimize.NewShapeCache()
	}

	type attempt struct {
		name   string
		result strategy.Result
	}
	results := map[string]strategy.Result{}
	mu := sync.Mutex{}
	var wg sync.WaitGroup

	run := func(name string, fn func() strategy.Result) {
		defer wg.Done()
		r := fn()
		mu.Lock()
		defer mu.Unlock()
		results[name] = r
	}

	wg.Add(3)
	saCfg := opts.SA
	saCfg.Cancel, saCfg.Cache, saCfg.Observer = opts.Cancel, cache, opts.Observer
	saCfg.PackOptions = opts.strategyOptions()
	go run("simulated-annealing", func() strategy.Result {
		return optimize.SimulatedAnnealing(pieces, binDim, saCfg)
	})

	gaCfg := opts.GA
	gaCfg.Cancel, gaCfg.Cache, gaCfg.Observer, gaCfg.Parallel = opts.Cancel, cache, opts.Observer, opts.Parallel
	gaCfg.PackOptions = opts.strategyOptions()
	go run("genetic", func() strategy.Result {
		return optimize.Genetic(pieces, binDim, gaCfg)
	})

	hybridCfg := opts.Hybrid
	hybridCfg.Cancel, hybridCfg.Cache, hybridCfg.Observer, hybridCfg.Parallel = opts.Cancel, cache, opts.Observer, opts.Parallel
	hybridCfg.PackOptions = opts.strategyOptions()
	go run("hybrid", func() strategy.Result {
		return optimize.Hybrid(pieces, binDim, hybridCfg)
	})

	wg.Wait()

	var winner attempt
	bestFitness := math.Inf(-1) // below Fitness's own -1e18 sentinel, so an all-empty race still reports a winner
	for name, r := range results {
		fitness, _ := optimize.Fitness(binDim, r)
		if fitness > bestFitness {
			bestFitness = fitness
			winner = attempt{name: name, result: r}
		}
	}
	if winner.name == "" {
		return strategy.Result{}, errors.New("nestpack: race produced no candidates")
	}
	return winner.result, nil
}
