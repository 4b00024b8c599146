package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/innermond/nestpack"
	"github.com/innermond/nestpack/cancel"
)

var (
	inpath, outdir, outname, unit string
	method                        string

	rotations, dropAngles floatList

	diveFactor, sweepDX, sweepDY float64
	parallel                     bool

	plain, showDim, outline bool

	mu, ml, pp, pd float64
)

func param() {
	flag.StringVar(&outdir, "o", "out", "output directory for bin-N.txt (and, with -svg, bin SVGs)")
	flag.StringVar(&outname, "svg", "", "when set, also render each bin as <svg>-bin-N.svg using this basename")
	flag.StringVar(&unit, "u", "mm", "unit of measurement used in dimension labels")
	flag.StringVar(&method, "method", "none", "packing method: none, sa, ga, hybrid, race")

	flag.Var(&rotations, "rotations", "comma-separated stage-1 rotation angles in degrees, e.g. 0,90")
	flag.Var(&dropAngles, "drop-angles", "comma-separated stage-3 drop rotation angles in degrees")

	flag.Float64Var(&diveFactor, "dive", 0, "stage-3 dive step divisor: the step is piece width / this value (0 keeps the default, 3)")
	flag.Float64Var(&sweepDX, "sweep-dx", 0, "stage-2 sweep X step divisor: the step is piece width / this value (0 keeps the default, 10)")
	flag.Float64Var(&sweepDY, "sweep-dy", 0, "stage-2 sweep Y step divisor: the step is piece height / this value (0 keeps the default, 2)")
	flag.BoolVar(&parallel, "parallel", false, "fan bin scanning and population evaluation out across goroutines")

	flag.BoolVar(&plain, "inkscape", true, "when false, save SVG with inkscape layer metadata")
	flag.BoolVar(&showDim, "showdim", false, "generate a dimensions layer labeling each placed piece")
	flag.BoolVar(&outline, "outline", false, "render pieces as outlines instead of filled shapes")

	flag.Float64Var(&mu, "mu", 15.0, "used material price per unit area")
	flag.Float64Var(&ml, "ml", 5.0, "lost material price per unit area")
	flag.Float64Var(&pp, "pp", 0.25, "perimeter price per unit length")
	flag.Float64Var(&pd, "pd", 10, "flat fee added to every report")

	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "inkscape" {
			plain = false
		}
	})

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: nestpack-cli [flags] <problem-file>")
		os.Exit(1)
	}
	inpath = args[0]
}

func main() {
	param()

	m, err := parseMethod(method)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	binDim, pieces, err := nestpack.LoadProblem(inpath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load problem:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	tok := cancel.FromContext(ctx)

	opts := buildOptions(m, rotations, dropAngles, diveFactor, sweepDX, sweepDY, parallel, tok)
	result, err := nestpack.OptimizeAndPack(pieces, binDim, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pack:", err)
		os.Exit(1)
	}

	if err := writeOutputs(outdir, outname, unit, plain, showDim, outline, binDim, result.Bins); err != nil {
		log.Println("write outputs:", err)
	}

	report := nestpack.BuildReport(method, binDim, result, buildPricing(mu, ml, pp, pd))
	b, err := json.Marshal(report)
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal report:", err)
		os.Exit(1)
	}
	fmt.Printf("%s\n", b)

	if tok.Cancelled() {
		os.Exit(2)
	}
}
