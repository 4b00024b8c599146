package optimize

import (
	"math/rand"
	"testing"

	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/strategy"
)

func binRect(w, h float64) geom.Rect {
	return geom.NewRect(geom.Point{X: 0, Y: 0}, geom.Point{X: w, Y: h})
}

func squarePiece(id int, side float64) *piece.Piece {
	return piece.New(id, []geom.Point{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
	})
}

func TestFitnessEmptyResultIsSentinel(t *testing.T) {
	fitness, bins := Fitness(binRect(100, 100), strategy.Result{})
	if fitness != -1e18 || bins != 0 {
		t.Errorf("Fitness(empty) = (%v, %v), want (-1e18, 0)", fitness, bins)
	}
}

func TestFitnessFewerBinsWins(t *testing.T) {
	dim := binRect(100, 100)
	pieces := []*piece.Piece{squarePiece(1, 40), squarePiece(2, 40), squarePiece(3, 40)}

	oneBin := strategy.Pack(pieces, dim, strategy.Options{})
	if len(oneBin.Bins) != 1 {
		t.Fatalf("expected all 3 squares to fit in one 100x100 bin, got %d bins", len(oneBin.Bins))
	}

	// Force a two-bin layout of the same pieces by shrinking the bin so
	// only 2 pieces fit per bin. Both layouts are scored with the same bin
	// area, since Fitness's per-bin penalty is the area of binDim.
	twoBins := strategy.Pack(pieces, binRect(50, 90), strategy.Options{})
	if len(twoBins.Bins) < 2 {
		t.Fatalf("expected the smaller bin to require at least 2 bins, got %d", len(twoBins.Bins))
	}

	f1, _ := Fitness(dim, oneBin)
	f2, _ := Fitness(dim, twoBins)
	if f1 <= f2 {
		t.Errorf("expected a 1-bin result to score higher than a 2-bin result: %v vs %v", f1, f2)
	}
}

func TestShapeCacheHitsAndMisses(t *testing.T) {
	c := NewShapeCache()
	order := []int{0, 1, 2}
	rot := []float64{0, 90, 0}

	if _, ok := c.Lookup(order, rot); ok {
		t.Fatal("expected a miss on an empty cache")
	}
	c.Store(order, rot, Solution{Fitness: 42})
	got, ok := c.Lookup(order, rot)
	if !ok || got.Fitness != 42 {
		t.Fatalf("expected a hit with Fitness 42, got (%+v, %v)", got, ok)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = (%d, %d), want (1, 1)", hits, misses)
	}
}

func TestOrderedCrossoverProducesValidPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 8
	p1 := Solution{Order: rng.Perm(n), Rotations: make([]float64, n)}
	p2 := Solution{Order: rng.Perm(n), Rotations: make([]float64, n)}

	child := orderedCrossover(p1, p2, rng)
	seen := make(map[int]bool, n)
	for _, idx := range child.Order {
		if seen[idx] {
			t.Fatalf("orderedCrossover produced a duplicate index %d: %v", idx, child.Order)
		}
		if idx < 0 || idx >= n {
			t.Fatalf("orderedCrossover produced an out-of-range index %d", idx)
		}
		seen[idx] = true
	}
	if len(seen) != n {
		t.Fatalf("orderedCrossover child covers %d of %d indices", len(seen), n)
	}
}

func TestSimulatedAnnealingProducesValidResult(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(1, 20), squarePiece(2, 30), squarePiece(3, 15)}
	result := SimulatedAnnealing(pieces, binRect(100, 100), SAConfig{Iterations: 25})
	assertValidResult(t, pieces, result)
}

func TestGeneticProducesValidResult(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(1, 20), squarePiece(2, 30), squarePiece(3, 15)}
	result := Genetic(pieces, binRect(100, 100), GAConfig{PopulationSize: 6, Generations: 3})
	assertValidResult(t, pieces, result)
}

func TestHybridProducesValidResult(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(1, 20), squarePiece(2, 30), squarePiece(3, 15)}
	result := Hybrid(pieces, binRect(100, 100), HybridConfig{
		PopulationSize: 6, Generations: 3, MaxLocalSearchRounds: 5,
	})
	assertValidResult(t, pieces, result)
}

// evaluate must pass its opts argument all the way to strategy.PackFast/
// PackOrdered rather than dropping it: a 100x50 piece, left unrotated by
// the Solution itself, only fits a 50x100 bin once strategy tries a 90
// degree placement, so restricting opts.RotationAngles and the stage-3
// opts.DropAngles to {0} must leave it unplaced.
func TestEvaluateHonorsPackOptions(t *testing.T) {
	pieces := []*piece.Piece{piece.New(1, []geom.Point{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50},
	})}

	restricted := Solution{Order: []int{0}, Rotations: []float64{0}}
	evaluate(nil, pieces, binRect(50, 100), &restricted, false, strategy.Options{RotationAngles: []float64{0}, DropAngles: []float64{0}})
	if restricted.NumBins != 0 {
		t.Errorf("expected 0 bins with rotation restricted to 0 degrees, got %d", restricted.NumBins)
	}

	unrestricted := Solution{Order: []int{0}, Rotations: []float64{0}}
	evaluate(nil, pieces, binRect(50, 100), &unrestricted, false, strategy.Options{})
	if unrestricted.NumBins != 1 {
		t.Errorf("expected the default rotation set to place the piece in 1 bin, got %d", unrestricted.NumBins)
	}
}

func assertValidResult(t *testing.T, pieces []*piece.Piece, result strategy.Result) {
	t.Helper()
	seen := map[int]int{}
	for _, b := range result.Bins {
		for _, p := range b.PlacedPieces() {
			seen[p.ID]++
			if seen[p.ID] > 1 {
				t.Errorf("piece %d placed more than once", p.ID)
			}
			if !p.IsInside(b.Dimension()) {
				t.Errorf("piece %d is not within its bin", p.ID)
			}
		}
	}
	for id := range seen {
		found := false
		for _, p := range pieces {
			if p.ID == id {
				found = true
			}
		}
		if !found {
			t.Errorf("placed piece ID %d not among the input pieces", id)
		}
	}
}
