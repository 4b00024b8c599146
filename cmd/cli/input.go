package main

import (
	"fmt"
	"strings"

	"github.com/innermond/nestpack"
	"github.com/innermond/nestpack/cancel"
)

// parseMethod maps the -method flag's value to a nestpack.Method, the way
// the teacher's boxesFromString turned a dimension string into pak.Box
// values: one small parser feeding straight into the Options builder below.
func parseMethod(name string) (nestpack.Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "plain":
		return nestpack.MethodNone, nil
	case "sa", "simulated-annealing":
		return nestpack.MethodSimulatedAnnealing, nil
	case "ga", "genetic":
		return nestpack.MethodGenetic, nil
	case "hybrid":
		return nestpack.MethodHybrid, nil
	case "race":
		return nestpack.MethodRace, nil
	default:
		return nestpack.MethodNone, fmt.Errorf("unknown -method %q", name)
	}
}

// buildOptions assembles nestpack.Options from the flags parsed by param(),
// generalizing the teacher's Op builder chain (Outname/Appearance/Price)
// into a single struct literal instead of a fluent API, since nestpack's
// entry points already take Options directly.
func buildOptions(method nestpack.Method, rotations, dropAngles floatList, diveFactor, sweepDX, sweepDY float64, parallel bool, tok *cancel.Token) nestpack.Options {
	opts := nestpack.Options{
		DiveFactor:    diveFactor,
		SweepDXFactor: sweepDX,
		SweepDYFactor: sweepDY,
		Parallel:      parallel,
		Cancel:        tok,
		Method:        method,
	}
	if len(rotations) > 0 {
		opts.RotationAngles = []float64(rotations)
	}
	if len(dropAngles) > 0 {
		opts.DropAngles = []float64(dropAngles)
	}
	return opts
}

// buildPricing maps the teacher's Op.Price(mu, ml, pp, pd) four rates onto
// Pricing.
func buildPricing(mu, ml, pp, pd float64) nestpack.Pricing {
	return nestpack.Pricing{
		PerOccupiedArea: mu,
		PerLostArea:     ml,
		PerPerimeter:    pp,
		Fixed:           pd,
	}
}
