// Package ioformat implements the plain-text input and output file formats
// the packing core is deliberately decoupled from (spec.md §6 treats input
// parsing and output serialization as external collaborators). Grounded on
// the teacher's own scan/format style in cmd/cli/input.go and output.go.
package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/innermond/nestpack/binengine"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
)

// ErrInvalidInput is the sentinel wrapped (with context via pkg/errors) for
// every malformed-input condition LoadProblem detects: a missing file,
// truncated piece lists, degenerate (less-than-3-vertex or zero-area)
// polygons, and the like.
var ErrInvalidInput = errors.New("invalid input")

// LoadProblem reads the bin-size-and-piece-list input file format of
// spec.md §6:
//
//	width height
//	n
//	x,y x,y x,y ...        (piece 1, outer ring, counter-clockwise)
//	@x,y x,y x,y ...       (optional hole of piece 1)
//	x,y x,y x,y ...        (piece 2)
//	...
func LoadProblem(path string) (geom.Rect, []*piece.Piece, error) {
	f, err := os.Open(path)
	if err != nil {
		return geom.Rect{}, nil, errors.Wrapf(ErrInvalidInput, "open %q: %v", path, err)
	}
	defer f.Close()

	return parseProblem(f)
}

// ParseProblem reads the same textual format LoadProblem does, but from an
// already-open reader. This lets HTTP handlers and other in-memory callers
// share the exact same parsing rules as the file-based CLI path instead of
// duplicating them.
func ParseProblem(r io.Reader) (geom.Rect, []*piece.Piece, error) {
	return parseProblem(r)
}

func parseProblem(r io.Reader) (geom.Rect, []*piece.Piece, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return geom.Rect{}, nil, errors.Wrap(ErrInvalidInput, "empty input")
	}
	w, h, err := parseDimensionLine(scanner.Text())
	if err != nil {
		return geom.Rect{}, nil, err
	}
	binDim := geom.NewRect(geom.Point{X: 0, Y: 0}, geom.Point{X: w, Y: h})

	if !scanner.Scan() {
		return geom.Rect{}, nil, errors.Wrap(ErrInvalidInput, "missing piece count line")
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || n < 0 {
		return geom.Rect{}, nil, errors.Wrapf(ErrInvalidInput, "bad piece count %q", scanner.Text())
	}

	pieces := make([]*piece.Piece, 0, n)
	id := 0
	var pending []geom.Point // outer ring awaiting commit once we know it has no more holes
	flush := func(holes [][]geom.Point) error {
		if pending == nil {
			return nil
		}
		if len(pending) < 3 {
			return errors.Wrapf(ErrInvalidInput, "piece %d has fewer than 3 vertices", id)
		}
		p := piece.New(id, pending, holes...)
		if p.Area() <= 0 {
			return errors.Wrapf(ErrInvalidInput, "piece %d has zero area", id)
		}
		pieces = append(pieces, p)
		id++
		pending = nil
		return nil
	}

	var holes [][]geom.Point
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			ring, err := parseRing(strings.TrimPrefix(line, "@"))
			if err != nil {
				return geom.Rect{}, nil, err
			}
			holes = append(holes, ring)
			continue
		}
		if err := flush(holes); err != nil {
			return geom.Rect{}, nil, err
		}
		holes = nil
		ring, err := parseRing(line)
		if err != nil {
			return geom.Rect{}, nil, err
		}
		pending = ring
	}
	if err := flush(holes); err != nil {
		return geom.Rect{}, nil, err
	}

	if err := scanner.Err(); err != nil {
		return geom.Rect{}, nil, errors.Wrap(err, "reading input")
	}
	if len(pieces) != n {
		return geom.Rect{}, nil, errors.Wrapf(ErrInvalidInput, "declared %d pieces, found %d", n, len(pieces))
	}

	return binDim, pieces, nil
}

func parseDimensionLine(line string) (w, h float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "bad dimension line %q", line)
	}
	w, err1 := strconv.ParseFloat(fields[0], 64)
	h, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return 0, 0, errors.Wrapf(ErrInvalidInput, "bad dimension line %q", line)
	}
	return w, h, nil
}

func parseRing(line string) ([]geom.Point, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return nil, errors.Wrapf(ErrInvalidInput, "ring has fewer than 3 vertices: %q", line)
	}
	ring := make([]geom.Point, 0, len(fields))
	for _, f := range fields {
		xy := strings.SplitN(f, ",", 2)
		if len(xy) != 2 {
			return nil, errors.Wrapf(ErrInvalidInput, "bad vertex %q", f)
		}
		x, err1 := strconv.ParseFloat(xy[0], 64)
		y, err2 := strconv.ParseFloat(xy[1], 64)
		if err1 != nil || err2 != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "bad vertex %q", f)
		}
		ring = append(ring, geom.Point{X: x, Y: y})
	}
	return ring, nil
}

// WriteBins writes one output file per bin into dir, named bin-<n>.txt,
// following spec.md §6's output format: a piece-count header line, then one
// `id rotation_degrees x,y` line per placed piece (x,y is the bounding
// box's min corner after placement).
func WriteBins(dir string, bins []*binengine.Bin) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output dir %q", dir)
	}
	for i, bin := range bins {
		path := fmt.Sprintf("%s/bin-%d.txt", dir, i+1)
		if err := writeBinFile(path, bin); err != nil {
			return errors.Wrapf(err, "write %q", path)
		}
	}
	return nil
}

func writeBinFile(path string, bin *binengine.Bin) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	placed := bin.PlacedPieces()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, len(placed))
	for _, p := range placed {
		bb := p.BoundingBox()
		fmt.Fprintf(w, "%d %s %s,%s\n",
			p.ID,
			formatFloat(p.Rotation),
			formatFloat(bb.Min.X),
			formatFloat(bb.Min.Y),
		)
	}
	return w.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
