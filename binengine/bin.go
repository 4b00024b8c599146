// Package binengine implements the single-bin Maximal-Rectangles packer:
// free-rectangle bookkeeping, R-tree-backed collision detection, gravity
// compaction, top-down drop placement, and sweep-replace relocation. It is
// the Go counterpart of original_source/src/core/Bin.{h,cpp}.
package binengine

import (
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
	"github.com/innermond/nestpack/spatial"
)

// parallelFindThreshold is the minimum free-rectangle count before
// FindWhereToPlace bothers fanning the scan out across goroutines; below
// it the synchronization overhead outweighs the win (spec.md section 5).
const parallelFindThreshold = 64

// Default tuning factors, matching Constants.h. A caller (strategy/optimize)
// may override these per Bin via the Set*Factor methods.
const (
	DefaultDiveHorizontalFactor = 3.0
	DefaultSweepDXFactor        = 10.0
	DefaultSweepDYFactor        = 2.0

	// sweepHighVertexThreshold switches to coarser sweep steps for
	// high-vertex pieces, matching Bin::sweep's getVertexCount() > 100 branch.
	sweepHighVertexThreshold = 100
	sweepCoarseDXFactor      = 2.0
	sweepCoarseDYFactor      = 1.0

	epsilon = 1e-9
)

// Bin is a single packing container: a fixed rectangular dimension, the
// pieces placed in it so far, the current maximal free-rectangle set, and
// a broad-phase spatial index over placed pieces keyed by placement index.
type Bin struct {
	dimension geom.Rect
	placed    []*piece.Piece
	free      []geom.Rect
	index     *spatial.Index

	diveFactor     float64
	sweepDX        float64
	sweepDY        float64
	parallel       bool
	rotationAngles []float64
}

// DefaultRotationAngles is the stage-1 orientation set FindWhereToPlace
// tries when SetRotationAngles has not overridden it: the piece as given
// and rotated a quarter turn.
var DefaultRotationAngles = []float64{0, 90}

// New creates an empty bin of the given dimension. The whole bin starts as
// a single free rectangle.
func New(dimension geom.Rect) *Bin {
	return &Bin{
		dimension:  dimension,
		free:       []geom.Rect{dimension},
		index:      spatial.New(),
		diveFactor: DefaultDiveHorizontalFactor,
		sweepDX:    DefaultSweepDXFactor,
		sweepDY:    DefaultSweepDYFactor,
	}
}

// SetDiveFactor overrides the horizontal step divisor used by DropPieces.
func (b *Bin) SetDiveFactor(f float64) { b.diveFactor = f }

// SetSweepFactors overrides the grid step divisors used by MoveAndReplace.
func (b *Bin) SetSweepFactors(dx, dy float64) { b.sweepDX = dx; b.sweepDY = dy }

// SetRotationAngles overrides the orientation set FindWhereToPlace searches
// over, in degrees. A nil or empty set restores DefaultRotationAngles.
func (b *Bin) SetRotationAngles(angles []float64) { b.rotationAngles = angles }

// SetParallel toggles whether FindWhereToPlace fans its free-rectangle scan
// out across goroutines once the free set grows past parallelFindThreshold.
// Off by default: spec.md notes the sequential path is usually faster at
// ordinary free-rectangle counts given synchronization overhead, so
// parallelism here is strictly opt-in.
func (b *Bin) SetParallel(p bool) { b.parallel = p }

// Dimension returns the bin's rectangular boundary.
func (b *Bin) Dimension() geom.Rect { return b.dimension }

// PlacedPieces returns the pieces placed so far, in placement order. The
// returned slice must not be mutated by the caller.
func (b *Bin) PlacedPieces() []*piece.Piece { return b.placed }

// FreeRectangles returns the current maximal free-rectangle set. The
// returned slice must not be mutated by the caller.
func (b *Bin) FreeRectangles() []geom.Rect { return b.free }

// OccupiedArea sums the area of every placed piece.
func (b *Bin) OccupiedArea() float64 {
	sum := 0.0
	for _, p := range b.placed {
		sum += p.Area()
	}
	return sum
}

// EmptyArea is the bin's total area minus OccupiedArea.
func (b *Bin) EmptyArea() float64 {
	return b.dimension.Area() - b.OccupiedArea()
}

// Utilization is OccupiedArea divided by the bin's total area, in [0, 1].
func (b *Bin) Utilization() float64 {
	total := b.dimension.Area()
	if total <= 0 {
		return 0
	}
	return b.OccupiedArea() / total
}

// Collides reports whether p overlaps any already-placed piece other than
// the one at ignoreIndex (pass -1 to check against all placed pieces). The
// R-tree index supplies a broad-phase candidate set; each candidate is then
// confirmed with an exact geometry test.
func (b *Bin) Collides(p *piece.Piece, ignoreIndex int) bool {
	candidates := b.index.QueryIntersects(p.BoundingBox())
	for _, idx := range candidates {
		if idx == ignoreIndex {
			continue
		}
		if p.Intersects(b.placed[idx]) {
			return true
		}
	}
	return false
}

// Placement describes where FindWhereToPlace decided a piece should go.
type Placement struct {
	RectIndex int // index into FreeRectangles, -1 if no fit found
	Angle     float64
}

// FindWhereToPlace scans the free-rectangle set from most-recently-created
// to oldest and returns the placement with the smallest wastage (the
// narrower of the two leftover dimensions), trying every angle in the bin's
// rotation set (SetRotationAngles, defaulting to DefaultRotationAngles).
// When the bin has been put in parallel mode (SetParallel) and the free set
// is large enough to be worth it, the scan is fanned out across goroutines.
func (b *Bin) FindWhereToPlace(p *piece.Piece) Placement {
	angles := b.rotationAngles
	if len(angles) == 0 {
		angles = DefaultRotationAngles
	}
	bb := p.BoundingBox()
	if b.parallel && len(b.free) >= parallelFindThreshold {
		return b.findWhereToPlaceParallel(bb, angles)
	}
	return b.findWhereToPlaceRange(bb, angles, 0, len(b.free))
}

// rotatedEnvelope returns the width and height of the axis-aligned box that
// encloses bb after rotating it angleDeg degrees about its own center. At
// 0/180 degrees this is bb's own dimensions; at 90/270 it is bb's
// dimensions swapped; at any other angle it is the usual rotated-rectangle
// envelope, a conservative stand-in for the (possibly concave) piece's own
// rotated bounding box.
func rotatedEnvelope(bb geom.Rect, angleDeg float64) (w, h float64) {
	rad := angleDeg * math.Pi / 180
	c, s := math.Abs(math.Cos(rad)), math.Abs(math.Sin(rad))
	w0, h0 := bb.Width(), bb.Height()
	return w0*c + h0*s, w0*s + h0*c
}

// findWhereToPlaceRange scans free[start:end] only, returning the best
// placement within that slice using absolute indices into free.
func (b *Bin) findWhereToPlaceRange(bb geom.Rect, angles []float64, start, end int) Placement {
	best := Placement{RectIndex: -1}
	minWastage := maxFloat

	for i := end - 1; i >= start; i-- {
		fr := b.free[i]
		for _, angle := range angles {
			w, h := rotatedEnvelope(bb, angle)
			if w > fr.Width()+epsilon || h > fr.Height()+epsilon {
				continue
			}
			wastage := minf(fr.Width()-w, fr.Height()-h)
			if wastage < minWastage {
				minWastage = wastage
				best = Placement{RectIndex: i, Angle: angle}
			}
		}
	}
	return best
}

// findWhereToPlaceParallel partitions the free set into contiguous chunks,
// one goroutine per chunk, then reduces the per-chunk winners in the same
// newest-to-oldest order the sequential scan uses so ties resolve toward
// the same free rectangle (the strict '<' comparison in findWhereToPlaceRange
// keeps the first-encountered, i.e. higher-index, candidate on a tie).
func (b *Bin) findWhereToPlaceParallel(bb geom.Rect, angles []float64) Placement {
	n := len(b.free)
	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	type chunkResult struct {
		placement Placement
		wastage   float64
	}
	results := make([]chunkResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			results[w] = chunkResult{Placement{RectIndex: -1}, maxFloat}
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			placement := b.findWhereToPlaceRange(bb, angles, start, end)
			wastage := maxFloat
			if placement.RectIndex != -1 {
				fr := b.free[placement.RectIndex]
				envW, envH := rotatedEnvelope(bb, placement.Angle)
				wastage = minf(fr.Width()-envW, fr.Height()-envH)
			}
			results[w] = chunkResult{placement, wastage}
		}(w, start, end)
	}
	wg.Wait()

	best := Placement{RectIndex: -1}
	minWastage := maxFloat
	for w := workers - 1; w >= 0; w-- {
		r := results[w]
		if r.placement.RectIndex == -1 {
			continue
		}
		if r.wastage < minWastage {
			minWastage = r.wastage
			best = r.placement
		}
	}
	return best
}

const maxFloat = 1.7976931348623157e+308

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// commit appends p to the placed set and the spatial index, without
// touching free-rectangle bookkeeping (callers that need the free set kept
// current call computeFreeRectangles/pruneNonMaximal themselves).
func (b *Bin) commit(p *piece.Piece) int {
	idx := len(b.placed)
	b.placed = append(b.placed, p)
	b.index.Insert(p.BoundingBox(), idx)
	return idx
}

// Place commits p at its current position (which the caller has already
// set) and updates the free-rectangle set accordingly. Used by
// BoundingBoxPack once it has positioned a piece, and by callers that
// position a piece themselves.
func (b *Bin) Place(p *piece.Piece) {
	bb := p.BoundingBox()
	b.commit(p)
	b.computeFreeRectangles(bb)
	b.pruneNonMaximal()
}

// BoundingBoxPack places as many of piecesToPlace as fit using the
// Maximal-Rectangles strategy: in the order given, place each in the
// minimal-wastage free rectangle at whichever angle in the bin's rotation
// set (SetRotationAngles) wastes least, and split/prune the free set after
// every commit. It returns the pieces that did not fit, in their input
// order. piecesToPlace is not reordered; strategy.Pack sorts by area
// before calling it.
func (b *Bin) BoundingBoxPack(piecesToPlace []*piece.Piece) []*piece.Piece {
	var notPlaced []*piece.Piece
	for _, p := range piecesToPlace {
		placement := b.FindWhereToPlace(p)
		if placement.RectIndex == -1 {
			notPlaced = append(notPlaced, p)
			continue
		}

		fr := b.free[placement.RectIndex]
		candidate := p.Clone()
		if placement.Angle != 0 {
			candidate.Rotate(placement.Angle)
		}
		candidate.PlaceInPosition(fr.Min.X, fr.Min.Y)

		if b.Collides(candidate, -1) {
			notPlaced = append(notPlaced, p)
			continue
		}

		b.Place(candidate)
	}
	return notPlaced
}

// computeFreeRectangles splits every free rectangle overlapping
// justPlacedBB into the up-to-four maximal leftover slivers (top, bottom,
// left, right) around the intersection, discarding slivers thinner than
// epsilon. Rectangles that do not overlap justPlacedBB are kept unchanged.
func (b *Bin) computeFreeRectangles(justPlacedBB geom.Rect) {
	var next []geom.Rect
	for _, fr := range b.free {
		if !fr.Intersects(justPlacedBB) {
			next = append(next, fr)
			continue
		}
		inter := fr.CreateIntersection(justPlacedBB)

		if top := fr.Max.Y - inter.Max.Y; top > epsilon {
			next = append(next, geom.NewRect(
				geom.Point{X: fr.Min.X, Y: inter.Max.Y},
				geom.Point{X: fr.Max.X, Y: fr.Max.Y},
			))
		}
		if bottom := inter.Min.Y - fr.Min.Y; bottom > epsilon {
			next = append(next, geom.NewRect(
				geom.Point{X: fr.Min.X, Y: fr.Min.Y},
				geom.Point{X: fr.Max.X, Y: inter.Min.Y},
			))
		}
		if left := inter.Min.X - fr.Min.X; left > epsilon {
			next = append(next, geom.NewRect(
				geom.Point{X: fr.Min.X, Y: fr.Min.Y},
				geom.Point{X: inter.Min.X, Y: fr.Max.Y},
			))
		}
		if right := fr.Max.X - inter.Max.X; right > epsilon {
			next = append(next, geom.NewRect(
				geom.Point{X: inter.Max.X, Y: fr.Min.Y},
				geom.Point{X: fr.Max.X, Y: fr.Max.Y},
			))
		}
	}
	b.free = next
}

// pruneNonMaximal removes every free rectangle fully contained in another,
// leaving only the maximal ones, largest area first.
func (b *Bin) pruneNonMaximal() {
	sort.Slice(b.free, func(i, j int) bool {
		return b.free[i].Area() > b.free[j].Area()
	})
	kept := b.free[:0:0]
	for i, r1 := range b.free {
		contained := false
		for j, r2 := range b.free {
			if i == j {
				continue
			}
			// Of two identical rectangles, the earlier one is kept.
			if r2.Contains(r1) && (j < i || !r1.Contains(r2)) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, r1)
		}
	}
	b.free = kept
}

// Compress slides every placed piece towards the bottom-left corner,
// repeating until a full pass makes no further movement.
func (b *Bin) Compress() {
	if len(b.placed) == 0 {
		return
	}
	v := geom.Vector{DX: -1, DY: -1}
	for {
		movedInPass := false
		for i := range b.placed {
			if b.compressPiece(i, v) {
				movedInPass = true
			}
		}
		if !movedInPass {
			return
		}
	}
}

// compressPiece repeatedly nudges the piece at pieceIndex one unit at a
// time along v (vertical step first, then horizontal), accepting each step
// only if the piece stays inside the bin and collision-free, until neither
// axis can move any further. It reports whether any movement occurred.
func (b *Bin) compressPiece(pieceIndex int, v geom.Vector) bool {
	if v.DX == 0 && v.DY == 0 {
		return false
	}

	p := b.placed[pieceIndex]
	b.index.Remove(pieceIndex)

	totalMoves := 0
	movedThisIter := true
	for movedThisIter {
		movedThisIter = false

		if v.DY != 0 {
			step := geom.Vector{DX: 0, DY: v.DY}
			p.Translate(step)
			if p.IsInside(b.dimension) && !b.Collides(p, pieceIndex) {
				movedThisIter = true
				totalMoves++
			} else {
				p.Translate(step.Inverse())
			}
		}

		if v.DX != 0 {
			step := geom.Vector{DX: v.DX, DY: 0}
			p.Translate(step)
			if p.IsInside(b.dimension) && !b.Collides(p, pieceIndex) {
				movedThisIter = true
				totalMoves++
			} else {
				p.Translate(step.Inverse())
			}
		}
	}

	b.index.Insert(p.BoundingBox(), pieceIndex)
	return totalMoves > 0
}

// DropPieces tries, for each piece and each rotation angle in turn, to
// slide it down from the top of the bin via dive; the first angle that
// yields a valid drop wins and the piece is committed. It returns the
// pieces that could not be placed at any angle.
func (b *Bin) DropPieces(piecesToDrop []*piece.Piece, rotationAngles []float64) []*piece.Piece {
	var unplaced []*piece.Piece
	for _, original := range piecesToDrop {
		placedOK := false
		for _, angle := range rotationAngles {
			candidate := original.Clone()
			if angle > 0 {
				candidate.Rotate(angle)
			}
			if final, ok := b.dive(candidate); ok {
				b.commitAndResplit(final)
				placedOK = true
				break
			}
		}
		if !placedOK {
			unplaced = append(unplaced, original)
		}
	}
	return unplaced
}

func (b *Bin) commitAndResplit(p *piece.Piece) {
	bb := p.BoundingBox()
	b.commit(p)
	b.computeFreeRectangles(bb)
	b.pruneNonMaximal()
}

// dive slides toDive down from the top edge of the bin: it scans candidate
// X offsets left to right looking for a collision-free starting slot at the
// top, then lets gravity (compressPiece along (0,-1)) settle it as far down
// as it will go. It returns the settled piece and whether a slot was found.
func (b *Bin) dive(toDive *piece.Piece) (*piece.Piece, bool) {
	bb := toDive.BoundingBox()
	pieceWidth, pieceHeight := bb.Width(), bb.Height()
	binWidth, binHeight := b.dimension.Width(), b.dimension.Height()

	if pieceWidth > binWidth || pieceHeight > binHeight {
		return nil, false
	}

	dx := pieceWidth / b.diveFactor
	if dx < epsilon {
		dx = 1.0
	}

	tryAt := func(x float64) (*piece.Piece, bool) {
		temp := toDive.Clone()
		temp.PlaceInPosition(x, binHeight-pieceHeight)
		if b.Collides(temp, -1) {
			return nil, false
		}
		tempIdx := b.commit(temp)
		b.compressPiece(tempIdx, geom.Vector{DX: 0, DY: -1})
		final := b.placed[tempIdx]
		b.placed = b.placed[:tempIdx]
		b.index.Remove(tempIdx)
		return final, true
	}

	for x := 0.0; x+pieceWidth <= binWidth+epsilon; x += dx {
		if final, ok := tryAt(x); ok {
			return final, true
		}
	}
	if final, ok := tryAt(binWidth - pieceWidth); ok {
		return final, true
	}
	return nil, false
}

// MoveAndReplace scans placed pieces from the end backwards down to
// indexLimit, and for each tries to relocate it inside the leftover free
// area of an earlier, larger piece via sweep (sweep-replace). A successful
// relocation frees the piece's old bounding box as a new free rectangle,
// re-settles the piece by gravity, and re-derives the free-rectangle set
// around its new position. It returns whether any piece was moved.
func (b *Bin) MoveAndReplace(indexLimit int) bool {
	movement := false
	for i := len(b.placed) - 1; i >= indexLimit; i-- {
		current := b.placed[i]

		for j := 0; j < i; j++ {
			container := b.placed[j]
			if container.FreeArea() <= current.Area() {
				continue
			}
			containerBB := container.BoundingBox()

			candidate := current.Clone()
			candidate.PlaceInPosition(containerBB.Min.X, containerBB.Min.Y)
			if swept, ok := b.sweep(container, candidate, i); ok {
				b.applySweepResult(i, current, swept)
				movement = true
				break
			}

			candidate = current.Clone()
			candidate.Rotate(90)
			candidate.PlaceInPosition(containerBB.Min.X, containerBB.Min.Y)
			if swept, ok := b.sweep(container, candidate, i); ok {
				b.applySweepResult(i, current, swept)
				movement = true
				break
			}
		}
	}
	return movement
}

func (b *Bin) applySweepResult(i int, old, swept *piece.Piece) {
	b.free = append(b.free, old.BoundingBox())
	b.placed[i] = swept
	b.index.Insert(swept.BoundingBox(), i)
	b.compressPiece(i, geom.Vector{DX: -1, DY: -1})
	b.computeFreeRectangles(b.placed[i].BoundingBox())
	b.pruneNonMaximal()
}

// sweep grid-searches positions for inside within container's bounding box,
// looking for a spot where inside stays within the bin, does not overlap
// container's own occupied shape, and does not collide with any other
// placed piece (ignoreIndex excludes inside's own former slot). Pieces with
// a high vertex count use a coarser grid for tractability.
func (b *Bin) sweep(container, inside *piece.Piece, ignoreIndex int) (*piece.Piece, bool) {
	if !inside.Intersects(container) && !b.Collides(inside, ignoreIndex) {
		return inside, true
	}

	containerBB := container.BoundingBox()
	insideBB := inside.BoundingBox()

	dxFactor, dyFactor := b.sweepDX, b.sweepDY
	if inside.OuterVertexCount() > sweepHighVertexThreshold {
		dxFactor, dyFactor = sweepCoarseDXFactor, sweepCoarseDYFactor
	}

	dx := insideBB.Width() / dxFactor
	dy := insideBB.Height() / dyFactor
	if dx < epsilon {
		dx = 1.0
	}
	if dy < epsilon {
		dy = 1.0
	}

	startX, startY := containerBB.Min.X, containerBB.Min.Y
	endX, endY := containerBB.Max.X, containerBB.Max.Y

	for y := startY; y+insideBB.Height() <= endY+epsilon; y += dy {
		for x := startX; x+insideBB.Width() <= endX+epsilon; x += dx {
			candidate := inside.Clone()
			candidate.PlaceInPosition(x, y)
			if candidate.IsInside(b.dimension) && !candidate.Intersects(container) && !b.Collides(candidate, ignoreIndex) {
				return candidate, true
			}
		}
	}
	return nil, false
}
