package strategy

import (
	"testing"

	"github.com/innermond/nestpack/cancel"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
)

func newCancelledToken() *cancel.Token {
	tok := cancel.New()
	tok.Cancel()
	return tok
}

func binRect(w, h float64) geom.Rect {
	return geom.NewRect(geom.Point{X: 0, Y: 0}, geom.Point{X: w, Y: h})
}

func squarePiece(id int, side float64) *piece.Piece {
	return piece.New(id, []geom.Point{
		{X: 0, Y: 0}, {X: side, Y: 0}, {X: side, Y: side}, {X: 0, Y: side},
	})
}

func rectPiece(id int, w, h float64) *piece.Piece {
	return piece.New(id, []geom.Point{
		{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h},
	})
}

func TestPackPlacesEverythingThatFits(t *testing.T) {
	pieces := []*piece.Piece{
		squarePiece(1, 20), squarePiece(2, 30), squarePiece(3, 25), squarePiece(4, 10),
	}
	result := Pack(pieces, binRect(100, 100), Options{})
	if len(result.Unplaced) != 0 {
		t.Fatalf("expected all pieces placed, got %d unplaced", len(result.Unplaced))
	}
	total := 0
	for _, b := range result.Bins {
		total += len(b.PlacedPieces())
	}
	if total != len(pieces) {
		t.Errorf("placed %d pieces across bins, want %d", total, len(pieces))
	}
}

func TestPackOversizedPieceGoesToResidual(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(1, 200)}
	result := Pack(pieces, binRect(100, 100), Options{})
	if len(result.Bins) != 0 {
		t.Errorf("expected no bins opened for an unplaceable piece, got %d", len(result.Bins))
	}
	if len(result.Unplaced) != 1 || result.Unplaced[0].ID != 1 {
		t.Errorf("expected piece 1 in Unplaced, got %+v", result.Unplaced)
	}
}

func TestPackOpensMultipleBinsWhenNeeded(t *testing.T) {
	var pieces []*piece.Piece
	for i := 1; i <= 8; i++ {
		pieces = append(pieces, squarePiece(i, 40))
	}
	result := Pack(pieces, binRect(50, 50), Options{})
	if len(result.Unplaced) != 0 {
		t.Fatalf("expected all squares eventually placed, got %d unplaced", len(result.Unplaced))
	}
	if len(result.Bins) != len(pieces) {
		t.Errorf("expected one bin per 40x40 square in a 50x50 bin, got %d bins for %d pieces",
			len(result.Bins), len(pieces))
	}
}

func TestPackPreservesPieceIDs(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(10, 20), squarePiece(20, 15), squarePiece(30, 12)}
	result := Pack(pieces, binRect(100, 100), Options{})

	seen := map[int]int{}
	for _, b := range result.Bins {
		for _, p := range b.PlacedPieces() {
			seen[p.ID]++
		}
	}
	for _, p := range pieces {
		if seen[p.ID] > 1 {
			t.Errorf("piece ID %d placed more than once", p.ID)
		}
	}
}

func TestPackFastSkipsRepackButStillPlaces(t *testing.T) {
	pieces := []*piece.Piece{squarePiece(1, 20), squarePiece(2, 30)}
	result := PackFast(pieces, binRect(100, 100), Options{})
	if len(result.Unplaced) != 0 {
		t.Fatalf("expected PackFast to place both pieces, got %d unplaced", len(result.Unplaced))
	}
}

func TestPackOrderedRespectsGivenOrder(t *testing.T) {
	// Deliberately not sorted by area: PackOrdered must not resort it.
	pieces := []*piece.Piece{squarePiece(1, 10), squarePiece(2, 30), squarePiece(3, 20)}
	result := PackOrdered(pieces, binRect(100, 100), Options{})
	if len(result.Unplaced) != 0 {
		t.Fatalf("expected all pieces placed, got %d unplaced", len(result.Unplaced))
	}
	if len(result.Bins) == 0 || result.Bins[0].PlacedPieces()[0].ID != 1 {
		t.Errorf("expected PackOrdered's first placement to be piece 1 (given order), got bins=%+v", result.Bins)
	}
}

// A 100x50 piece only fits a 50x100 bin once rotated 90 degrees; Options'
// RotationAngles restricted to {0} must reach all the way through
// newTunedBin/FindWhereToPlace, and with the stage-3 DropAngles also
// restricted to {0} no stage can rotate it, so it stays unplaced.
func TestPackRotationAnglesOptionIsHonored(t *testing.T) {
	pieces := []*piece.Piece{rectPiece(1, 100, 50)}

	restricted := Pack(pieces, binRect(50, 100), Options{RotationAngles: []float64{0}, DropAngles: []float64{0}})
	if len(restricted.Unplaced) != 1 {
		t.Fatalf("expected the piece to stay unplaced with rotation restricted to 0 degrees, got %d unplaced", len(restricted.Unplaced))
	}

	unrestricted := Pack(pieces, binRect(50, 100), Options{})
	if len(unrestricted.Unplaced) != 0 {
		t.Fatalf("expected the default rotation set (0, 90, 180, 270) to place the piece, got %d unplaced", len(unrestricted.Unplaced))
	}
}

func TestPackHonorsCancellation(t *testing.T) {
	var pieces []*piece.Piece
	for i := 1; i <= 10; i++ {
		pieces = append(pieces, squarePiece(i, 60))
	}
	// A cancelled token before the first bin is opened should yield an
	// entirely-unplaced result rather than running the strategy loop.
	tok := newCancelledToken()
	result := Pack(pieces, binRect(70, 70), Options{Cancel: tok})
	if len(result.Bins) != 0 {
		t.Errorf("expected a pre-cancelled run to open no bins, got %d", len(result.Bins))
	}
	if len(result.Unplaced) != len(pieces) {
		t.Errorf("expected all pieces to remain unplaced, got %d unplaced", len(result.Unplaced))
	}
}
