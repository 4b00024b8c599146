package nestpack

import (
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/strategy"
)

// Pricing mirrors the teacher's Op.Price(mu, ml, pp, pd) four-rate pricing
// model, generalized from rectangular box area/perimeter to arbitrary
// placed-piece area/perimeter.
type Pricing struct {
	PerOccupiedArea float64 // mu: price per unit of placed-piece area
	PerLostArea     float64 // ml: price per unit of bin area left empty
	PerPerimeter    float64 // pp: price per unit of cut length (piece perimeter)
	Fixed           float64 // pd: flat fee added regardless of size
}

// Report summarizes a packing run the way the teacher's Report struct
// summarized a box-fit run, generalized from box dimensions to arbitrary
// piece geometry and from a single sheet to however many bins were used.
type Report struct {
	Method           string
	NumBins          int
	Unplaced         int
	BinArea          float64 // area of one bin, times NumBins for total used area
	OccupiedArea     float64 // sum of placed-piece areas across all bins
	LostArea         float64 // (NumBins * BinArea) - OccupiedArea
	UtilizationRatio float64 // OccupiedArea / (NumBins * BinArea), in [0, 1]
	Perimeter        float64 // sum of placed-piece perimeters across all bins
	Price            float64
}

// BuildReport computes a Report from a packing result. A zero Pricing
// contributes no Price.
func BuildReport(method string, binDim geom.Rect, result strategy.Result, pricing Pricing) Report {
	binArea := binDim.Area()
	usedArea := binArea * float64(len(result.Bins))

	occupied, perimeter := 0.0, 0.0
	for _, bin := range result.Bins {
		for _, p := range bin.PlacedPieces() {
			occupied += p.Area()
			perimeter += p.Perimeter()
		}
	}
	lost := usedArea - occupied

	utilization := 0.0
	if usedArea > 0 {
		utilization = occupied / usedArea
	}

	price := occupied*pricing.PerOccupiedArea + lost*pricing.PerLostArea +
		perimeter*pricing.PerPerimeter + pricing.Fixed

	return Report{
		Method:           method,
		NumBins:          len(result.Bins),
		Unplaced:         len(result.Unplaced),
		BinArea:          binArea,
		OccupiedArea:     occupied,
		LostArea:         lost,
		UtilizationRatio: utilization,
		Perimeter:        perimeter,
		Price:            price,
	}
}
