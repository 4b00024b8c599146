// Package strategy orchestrates binengine.Bin across an entire multiset of
// pieces: open a new bin, run the three-stage pack, and repeat until every
// piece is placed or a bin makes no progress. Grounded on
// original_source/src/core/BinPacking.cpp's BinPacking::pack.
package strategy

import (
	"log"
	"sort"

	"github.com/innermond/nestpack/binengine"
	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
)

// Default rotation angle sets, matching Constants.h's STAGE1/STAGE23 tables.
var (
	Stage1Angles = []float64{0, 90, 180, 270}

	// Stage23Angles steps in 5-degree increments, used by dropPieces in
	// stage 3 where a finer fit matters more than raw placement throughput.
	Stage23Angles = buildStage23Angles()
)

func buildStage23Angles() []float64 {
	angles := make([]float64, 0, 72)
	for a := 0; a < 360; a += 5 {
		angles = append(angles, float64(a))
	}
	return angles
}

// Options tunes a Pack run.
type Options struct {
	// RotationAngles overrides Stage1Angles for stage 1's bounding-box pack.
	RotationAngles []float64
	// DropAngles overrides Stage23Angles for stage 3's drop pass.
	DropAngles []float64
	DiveFactor float64
	SweepDX    float64
	SweepDY    float64
	// Cancel, if set, is polled between bins; a cancelled run returns
	// whatever bins/placements were already completed.
	Cancel *cancel.Token
	// Parallel opts each bin's free-rectangle search into goroutine-fanned
	// scanning once the free set grows large (binengine.Bin.SetParallel).
	// Off by default, per spec.md section 5: sequential is usually faster.
	Parallel bool
}

// Result is the outcome of a Pack run: the bins produced, in order, and any
// pieces that could not be placed in any bin.
type Result struct {
	Bins     []*binengine.Bin
	Unplaced []*piece.Piece
}

// Pack implements the three-stage strategy: stage 1 bounding-box pack into
// a fresh bin, stage 2 repeatedly sweep-replace and retry the leftovers
// until a pass makes no further progress, stage 3 compress-drop-compress.
// A bin that ends a pass with no newly placed pieces is discarded and the
// loop stops, on the assumption the largest remaining piece cannot fit any
// bin of this dimension. An unchanging unplaced-count between loop passes
// also aborts, guarding against the same infinite-loop case the original
// handles explicitly.
func Pack(pieces []*piece.Piece, binDim geom.Rect, opts Options) Result {
	dropAngles := opts.DropAngles
	if dropAngles == nil {
		dropAngles = Stage23Angles
	}

	sorted := append([]*piece.Piece(nil), pieces...)
	sort.Sort(piece.ByAreaDescending(sorted))

	var bins []*binengine.Bin
	toPlace := sorted
	lastUnplacedCount := -1

	for len(toPlace) > 0 {
		if opts.Cancel != nil && opts.Cancel.Cancelled() {
			break
		}
		if lastUnplacedCount == len(toPlace) {
			log.Printf("strategy: unplaced count stalled at %d pieces, aborting", len(toPlace))
			break
		}
		lastUnplacedCount = len(toPlace)

		bin := newTunedBin(binDim, opts)
		nBefore := len(bin.PlacedPieces())

		stillNotPlaced := bin.BoundingBoxPack(toPlace)

		if len(bin.PlacedPieces()) > nBefore {
			for {
				piecesBeforeRepack := len(bin.PlacedPieces())
				bin.MoveAndReplace(nBefore)
				if len(stillNotPlaced) > 0 {
					stillNotPlaced = bin.BoundingBoxPack(stillNotPlaced)
				}
				if len(bin.PlacedPieces()) == piecesBeforeRepack {
					break
				}
			}
		}

		bin.Compress()
		if len(stillNotPlaced) > 0 {
			stillNotPlaced = bin.DropPieces(stillNotPlaced, dropAngles)
		}
		bin.Compress()

		if len(bin.PlacedPieces()) == nBefore {
			log.Printf("strategy: could not place any of %d remaining pieces; largest piece may exceed bin dimensions", len(toPlace))
			break
		}

		bins = append(bins, bin)
		toPlace = stillNotPlaced
	}

	return Result{Bins: bins, Unplaced: toPlace}
}

// PackFast runs only stage 1 (bounding-box pack), compress, and a drop pass
// — skipping stage 2's moveAndReplace repack loop. This is the cheap
// evaluation path the optimizer uses to score a great many candidate
// orderings per run.
func PackFast(pieces []*piece.Piece, binDim geom.Rect, opts Options) Result {
	dropAngles := opts.DropAngles
	if dropAngles == nil {
		dropAngles = Stage23Angles
	}

	sorted := append([]*piece.Piece(nil), pieces...)
	var bins []*binengine.Bin
	toPlace := sorted
	lastUnplacedCount := -1

	for len(toPlace) > 0 {
		if opts.Cancel != nil && opts.Cancel.Cancelled() {
			break
		}
		if lastUnplacedCount == len(toPlace) {
			break
		}
		lastUnplacedCount = len(toPlace)

		bin := newTunedBin(binDim, opts)
		nBefore := len(bin.PlacedPieces())

		stillNotPlaced := bin.BoundingBoxPack(toPlace)
		bin.Compress()
		if len(stillNotPlaced) > 0 {
			stillNotPlaced = bin.DropPieces(stillNotPlaced, dropAngles)
		}
		bin.Compress()

		if len(bin.PlacedPieces()) == nBefore {
			break
		}
		bins = append(bins, bin)
		toPlace = stillNotPlaced
	}

	return Result{Bins: bins, Unplaced: toPlace}
}

// PackOrdered runs the full three-stage strategy (identical to Pack) on
// pieces in the exact order given, without the initial area-descending
// sort — used by the optimizer to materialize a candidate solution's
// concrete bin layout from its chosen permutation and rotation set.
func PackOrdered(pieces []*piece.Piece, binDim geom.Rect, opts Options) Result {
	dropAngles := opts.DropAngles
	if dropAngles == nil {
		dropAngles = Stage23Angles
	}

	var bins []*binengine.Bin
	toPlace := pieces
	lastUnplacedCount := -1

	for len(toPlace) > 0 {
		if opts.Cancel != nil && opts.Cancel.Cancelled() {
			break
		}
		if lastUnplacedCount == len(toPlace) {
			break
		}
		lastUnplacedCount = len(toPlace)

		bin := newTunedBin(binDim, opts)
		nBefore := len(bin.PlacedPieces())

		stillNotPlaced := bin.BoundingBoxPack(toPlace)

		if len(bin.PlacedPieces()) > nBefore {
			for {
				piecesBeforeRepack := len(bin.PlacedPieces())
				bin.MoveAndReplace(nBefore)
				if len(stillNotPlaced) > 0 {
					stillNotPlaced = bin.BoundingBoxPack(stillNotPlaced)
				}
				if len(bin.PlacedPieces()) == piecesBeforeRepack {
					break
				}
			}
		}

		bin.Compress()
		if len(stillNotPlaced) > 0 {
			stillNotPlaced = bin.DropPieces(stillNotPlaced, dropAngles)
		}
		bin.Compress()

		if len(bin.PlacedPieces()) == nBefore {
			break
		}

		bins = append(bins, bin)
		toPlace = stillNotPlaced
	}

	return Result{Bins: bins, Unplaced: toPlace}
}

// newTunedBin builds a bin and applies every opts tuning knob that has a
// binengine counterpart: dive factor, sweep factors, parallel search, and
// the stage-1 rotation set BoundingBoxPack searches via FindWhereToPlace.
func newTunedBin(binDim geom.Rect, opts Options) *binengine.Bin {
	bin := binengine.New(binDim)
	if opts.DiveFactor > 0 {
		bin.SetDiveFactor(opts.DiveFactor)
	}
	if opts.SweepDX > 0 || opts.SweepDY > 0 {
		dx, dy := opts.SweepDX, opts.SweepDY
		if dx <= 0 {
			dx = binengine.DefaultSweepDXFactor
		}
		if dy <= 0 {
			dy = binengine.DefaultSweepDYFactor
		}
		bin.SetSweepFactors(dx, dy)
	}
	if opts.Parallel {
		bin.SetParallel(true)
	}
	stage1 := opts.RotationAngles
	if stage1 == nil {
		stage1 = Stage1Angles
	}
	bin.SetRotationAngles(stage1)
	return bin
}
