package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/innermond/nestpack/binengine"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/internal/svg"
	"github.com/innermond/nestpack/ioformat"
)

// writeOutputs replaces the teacher's writeFiles/outsvg pair: it writes the
// plain-text bin files (ioformat.WriteBins, spec.md §6's output format) and,
// when outname is set, one wrapped SVG document per bin via
// internal/svg.Bin, the domain-general polygon renderer that already
// replaced the teacher's axis-aligned-only outsvg.
func writeOutputs(dir, outname, unit string, plain, showDim, outline bool, binDim geom.Rect, bins []*binengine.Bin) error {
	if err := ioformat.WriteBins(dir, bins); err != nil {
		return err
	}
	if outname == "" {
		return nil
	}
	for i, bin := range bins {
		body, err := svg.Bin(bin, unit, plain, showDim, outline)
		if err != nil {
			// A bin with no placed pieces has nothing to render; skip it
			// rather than failing the whole run.
			continue
		}
		doc := svg.End(svg.Start(binDim.Width(), binDim.Height(), unit, plain) + body)
		path := filepath.Join(dir, fmt.Sprintf("%s-bin-%d.svg", outname, i+1))
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			return err
		}
	}
	return nil
}
