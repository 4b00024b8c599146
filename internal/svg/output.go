package svg

import (
	"errors"
	"fmt"
	"math"

	"github.com/innermond/nestpack/binengine"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/piece"
)

var strokeStyle = "stroke: gray;stroke-width:2;fill:none"

// palette cycles by piece index, generalizing the teacher's fixed
// magenta/red/green/grey scheme (keyed off which box edge a piece touched)
// to an arbitrary count of polygonal pieces with no edge-touching notion.
var palette = []string{
	"fill:magenta;stroke:none",
	"fill:#e74c3c;stroke:none",
	"fill:#2ecc71;stroke:none",
	"fill:#3498db;stroke:none",
	"fill:#e67e22;stroke:none",
	"fill:#9b59b6;stroke:none",
	"fill:#1abc9c;stroke:none",
	"fill:#f1c40f;stroke:none",
}

func style(fill string, outline bool) string {
	if outline {
		return strokeStyle
	}
	return fill
}

// Bin renders one packed bin as the inner content of an SVG document (the
// caller wraps it with Start/End, as cmd/cli does): a "pieces" group with
// one filled polygon per placed piece, cycling palette by placement order,
// and an optional "dimensions" group labeling each piece by id and
// rotation. Generalizes the teacher's Out, which drew only axis-aligned
// boxes, to arbitrary polygons with holes.
func Bin(bin *binengine.Bin, unit string, plain, showDim, outline bool) (string, error) {
	placed := bin.PlacedPieces()
	if len(placed) == 0 {
		return "", errors.New("no placed pieces")
	}

	gp := GroupStart(`id="pieces"`)
	if !plain {
		gp = GroupStart(`id="pieces"`, `inkscape:label="pieces"`, `inkscape:groupmode="layer"`)
	}
	for i, p := range placed {
		fill := palette[i%len(palette)]
		gp += piecePath(p, style(fill, outline))
	}
	gp = GroupEnd(gp)

	gt := ""
	if showDim {
		gt = GroupStart(`id="dimensions"`)
		if !plain {
			gt = GroupStart(`id="dimensions"`, `inkscape:label="dimensions"`, `inkscape:groupmode="layer"`)
		}
		for _, p := range placed {
			gt += pieceLabel(p, unit)
		}
		gt = GroupEnd(gt)
	}

	return gp + gt, nil
}

func piecePath(p *piece.Piece, style string) string {
	d := ""
	for _, poly := range p.Shape.Polygons {
		outer := ringToPoints(poly.Outer)
		holes := make([][][2]float64, len(poly.Holes))
		for i, h := range poly.Holes {
			holes[i] = ringToPoints(h)
		}
		d += Path(outer, holes, style)
	}
	return d
}

func ringToPoints(r geom.Ring) [][2]float64 {
	pts := make([][2]float64, len(r))
	for i, v := range r {
		pts[i] = [2]float64{v.X, v.Y}
	}
	return pts
}

func pieceLabel(p *piece.Piece, unit string) string {
	bb := p.BoundingBox()
	label := fmt.Sprintf("#%d", p.ID)
	if p.Rotation != 0 {
		label += fmt.Sprintf(" %.0f°", p.Rotation)
	}

	xt := bb.Min.X + bb.Width()/2
	yt := bb.Min.Y + bb.Height()/2

	rotation := ""
	lendim := bb.Width()
	if bb.Height() > bb.Width() {
		rotation = fmt.Sprintf(` transform="rotate(90, %.2f,%.2f)" `, xt, yt)
		lendim = bb.Height()
	}
	lenLabel := float64(len(label) + 4)
	fontSize := 0.5 * math.Floor(lendim/lenLabel)

	return Text(xt, yt, rotation, label,
		"text-anchor:middle;font-size:"+fmt.Sprintf("%.2f%s", fontSize, unit)+";fill:#000")
}
