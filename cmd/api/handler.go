package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/innermond/nestpack"
	"github.com/innermond/nestpack/geom"
	"github.com/innermond/nestpack/internal/svg"
	"github.com/innermond/nestpack/ioformat"
	"github.com/innermond/nestpack/piece"
)

func fitboxes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
	w.Header().Set("X-Content-Type-Options", "sniff")
	w.Header().Set("Content-Type", "application/json")

	urlpath := strings.TrimRight(r.URL.Path, "/")
	if r.Method == http.MethodGet && urlpath == API_PATH+"/health" {
		defer r.Body.Close()
		fmt.Fprintf(w, "%v", atomic.LoadInt32(&serverHealth) == 1)
		return
	}

	rid := getid(r)
	err := errid{reqid: rid}

	switch r.Method {
	case http.MethodPost, http.MethodOptions:
	default:
		werr(w, err.text("fitboxes: unexpected method used"), 405, "method not allowed")
		return
	}

	if urlpath != API_PATH {
		werr(w, err.text("fitboxes: resource not found"), 404, "not found")
		return
	}

	var resp ResponseData
	{
		dec := json.NewDecoder(r.Body)
		fail := dec.Decode(&resp)
		defer r.Body.Close()
		if fail != nil {
			var (
				msg  string
				code int
			)
			switch fail.(type) {
			case *json.SyntaxError:
				msg, code = "json syntax malformation", 400
			default:
				msg, code = "invalid data", 422
			}
			werr(w, err.wrap(fail, "fail decoding json input"), code, msg)
			return
		}
	}

	if len(resp.Pieces) == 0 {
		werr(w, err.text("fitboxes: pieces required"), 422, "pieces required")
		return
	}
	if resp.Width <= 0 || resp.Height <= 0 {
		werr(w, err.text("fitboxes: width and height must be positive"), 422, "invalid dimensions")
		return
	}

	unit := resp.Unit
	if unit == "" {
		unit = "mm"
	}

	binDim, pieces, fail := problemFromResponse(resp)
	if fail != nil {
		werr(w, err.from(fail), 422, "couldn't figure out pieces; invalid geometry")
		return
	}

	method, fail := parseMethod(resp.Method)
	if fail != nil {
		werr(w, err.from(fail), 422, "unknown method")
		return
	}

	result, fail := nestpack.OptimizeAndPack(pieces, binDim, nestpack.Options{
		Method:   method,
		Parallel: resp.Parallel,
	})
	if fail != nil {
		werr(w, err.from(fail), 500, "packing error")
		return
	}

	svgs := map[string]string{}
	for i, bin := range result.Bins {
		body, ferr := svg.Bin(bin, unit, resp.Plain, resp.ShowDim, false)
		if ferr != nil {
			continue
		}
		doc := svg.End(svg.Start(binDim.Width(), binDim.Height(), unit, resp.Plain) + body)
		svgs[fmt.Sprintf("bin-%d.svg", i+1)] = doc
	}

	report := nestpack.BuildReport(resp.Method, binDim, result, nestpack.Pricing{
		PerOccupiedArea: resp.Mu,
		PerLostArea:     resp.Ml,
		PerPerimeter:    resp.Pp,
		Fixed:           resp.Pd,
	})

	out := struct {
		Rep  nestpack.Report   `json:"rep"`
		Svgs map[string]string `json:"svgs,omitempty"`
	}{report, svgs}

	b, fail := json.Marshal(out)
	if fail != nil {
		werr(w, err.from(fail), 500, "json error")
		return
	}

	if verbose {
		log.Println(string(b))
	}

	w.Write(b)
}

// problemFromResponse reassembles the request's polygon vertex lists into
// the same plain-text problem shape ioformat.ParseProblem already parses,
// so the HTTP path exercises exactly the same ring-parsing and validation
// the CLI's file path does instead of duplicating it.
func problemFromResponse(resp ResponseData) (geom.Rect, []*piece.Piece, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%v %v\n%d\n", resp.Width, resp.Height, len(resp.Pieces))
	for _, p := range resp.Pieces {
		fmt.Fprintln(&b, strings.TrimSpace(p.Outer))
		for _, h := range p.Holes {
			fmt.Fprintln(&b, "@"+strings.TrimSpace(h))
		}
	}
	return ioformat.ParseProblem(strings.NewReader(b.String()))
}

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
		return nestpack.MethodNone, errors.Errorf("unknown method %q", name)
	}
}

func getid(r *http.Request) string {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		return rid
	}
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func werr(w http.ResponseWriter, err error, code int, msg string) bool {
	if err == nil {
		return false
	}
	if debug {
		if x, ok := err.(errid); ok {
			log.Printf("%v\t%+v\n", x.reqid, x.err)
		}
	} else {
		log.Printf("%+v", errors.Cause(err))
	}
	http.Error(w, msg, code)
	return true
}
