// Package optimize implements the metaheuristic layer that searches over
// piece orderings and per-piece rotations to reduce the bin count strategy
// alone produces: simulated annealing, a genetic algorithm, and a hybrid of
// the two. Grounded on SimulatedAnnealingOptimizer.cpp, GeneticOptimizer.cpp,
// and HybridBinPacking.{h,cpp}.
package optimize

import (
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

// RotationChoices is the discrete rotation set every optimizer samples
// from when perturbing a piece, matching Constants.h's STAGE1_ROTATION_ANGLES.
var RotationChoices = []float64{0, 90, 180, 270}

// Solution is a candidate packing: a permutation of piece indices into
// allPieces plus a per-position rotation, evaluated lazily via Fitness.
type Solution struct {
	Order     []int
	Rotations []float64
	Fitness   float64
	NumBins   int
}

// materialize builds the rotated piece sequence a Solution describes,
// cloning from allPieces so mutating the sequence never perturbs the
// optimizer's canonical piece set.
func materialize(allPieces []*piece.Piece, s Solution) []*piece.Piece {
	seq := make([]*piece.Piece, len(s.Order))
	for i, idx := range s.Order {
		p := allPieces[idx].Clone()
		if s.Rotations[i] != 0 {
			p.Rotate(s.Rotations[i])
		}
		seq[i] = p
	}
	return seq
}

// evaluate runs pack against the solution's materialized sequence and fills
// in its Fitness/NumBins. fast selects strategy.PackFast (used by SA's
// per-iteration scoring, which needs raw throughput) over the full
// strategy.PackOrdered (used by the GA, which evaluates far fewer
// individuals per generation and wants accurate bin counts). A zero-bin
// result is assigned a large negative fitness so it never wins a comparison.
func evaluate(cache *ShapeCache, allPieces []*piece.Piece, binDim geom.Rect, s *Solution, fast bool, opts strategy.Options) {
	if cache != nil {
		if cached, ok := cache.Lookup(s.Order, s.Rotations); ok {
			s.Fitness = cached.Fitness
			s.NumBins = cached.NumBins
			return
		}
	}

	seq := materialize(allPieces, *s)
	var result strategy.Result
	if fast {
		result = strategy.PackFast(seq, binDim, opts)
	} else {
		result = strategy.PackOrdered(seq, binDim, opts)
	}

	s.Fitness, s.NumBins = Fitness(binDim, result)

	if cache != nil {
		cache.Store(s.Order, s.Rotations, *s)
	}
}

// Fitness scores a packing result: a large per-bin penalty (the bin's own
// area, guaranteed to exceed any single bin's occupied area) plus the total
// occupied area summed across bins, so fewer bins always beats more bins and
// ties are broken by higher utilization. An empty result (nothing placed)
// scores -1e18, matching the original's sentinel for "could not pack at all".
func Fitness(binDim geom.Rect, result strategy.Result) (fitness float64, numBins int) {
	if len(result.Bins) == 0 {
		return -1e18, 0
	}
	binArea := binDim.Area()
	occupied := 0.0
	for _, bin := range result.Bins {
		occupied += bin.OccupiedArea()
	}
	return -binArea*float64(len(result.Bins)) + occupied, len(result.Bins)
}
