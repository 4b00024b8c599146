package main

import (
	"testing"

	"github.com/innermond/nestpack"
)

func TestParseMethod(t *testing.T) {
	cases := map[string]nestpack.Method{
		"":                    nestpack.MethodNone,
		"none":                nestpack.MethodNone,
		"sa":                  nestpack.MethodSimulatedAnnealing,
		"simulated-annealing": nestpack.MethodSimulatedAnnealing,
		"GA":                  nestpack.MethodGenetic,
		"hybrid":              nestpack.MethodHybrid,
		"race":                nestpack.MethodRace,
	}
	for in, want := range cases {
		got, err := parseMethod(in)
		if err != nil {
			t.Fatalf("parseMethod(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("parseMethod(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseMethodRejectsUnknown(t *testing.T) {
	if _, err := parseMethod("bogus"); err == nil {
		t.Fatal("expected an error for an unknown method")
	}
}

func TestBuildOptionsAppliesOverrides(t *testing.T) {
	opts := buildOptions(nestpack.MethodGenetic, floatList{0, 90}, floatList{45}, 0.5, 1, 2, true, nil)
	if opts.Method != nestpack.MethodGenetic {
		t.Errorf("Method = %v, want MethodGenetic", opts.Method)
	}
	if len(opts.RotationAngles) != 2 || opts.RotationAngles[1] != 90 {
		t.Errorf("RotationAngles = %v", opts.RotationAngles)
	}
	if len(opts.DropAngles) != 1 || opts.DropAngles[0] != 45 {
		t.Errorf("DropAngles = %v", opts.DropAngles)
	}
	if !opts.Parallel {
		t.Error("expected Parallel to be true")
	}
}

func TestBuildOptionsLeavesAnglesNilWhenUnset(t *testing.T) {
	opts := buildOptions(nestpack.MethodNone, nil, nil, 0, 0, 0, false, nil)
	if opts.RotationAngles != nil || opts.DropAngles != nil {
		t.Errorf("expected nil angle overrides, got %v / %v", opts.RotationAngles, opts.DropAngles)
	}
}

func TestBuildPricing(t *testing.T) {
	p := buildPricing(15, 5, 0.25, 10)
	if p.PerOccupiedArea != 15 || p.PerLostArea != 5 || p.PerPerimeter != 0.25 || p.Fixed != 10 {
		t.Errorf("buildPricing = %+v", p)
	}
}
