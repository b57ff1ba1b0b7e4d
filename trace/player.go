package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/OilyCannelloni/simplex-mesh/grid"
	"github.com/OilyCannelloni/simplex-mesh/ranging"
	"github.com/OilyCannelloni/simplex-mesh/simplex"
)

// Record type tags.
const (
	tagTarget      = "target"
	tagAnchor      = "anchor"
	tagMeasurement = "measurement"
)

// minFixAnchors is how many anchors must hold estimates before a fix.
const minFixAnchors = 3

// ErrRead is returned when the underlying reader fails.
var ErrRead = errors.New("trace: read error")

// Fix is one position estimate emitted during playback.
type Fix struct {
	// Position is the least-squares solution at this point of the trace.
	Position grid.Point2D

	// Anchors is how many anchors contributed.
	Anchors int
}

// Result summarizes a full playback.
type Result struct {
	// Target is the declared ground truth, when the trace carries one.
	Target    grid.Point2D
	HasTarget bool

	// Fixes are the successive position estimates, one per measurement
	// row processed after enough anchors converged.
	Fixes []Fix

	// AnchorOrder lists anchor addresses in order of acquisition (first
	// valid estimate).
	AnchorOrder []string

	// Skipped counts malformed or unusable rows.
	Skipped int
}

// Final returns the last fix of the trace, or false when none was emitted.
func (r *Result) Final() (Fix, bool) {
	if len(r.Fixes) == 0 {
		return Fix{}, false
	}

	return r.Fixes[len(r.Fixes)-1], true
}

// Play consumes a trace stream and returns the playback result. Filter
// options apply to every per-anchor filter. Only reader failures are
// errors; bad rows are skipped and counted.
func Play(r io.Reader, opts ...ranging.Option) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // records differ in arity by tag

	res := &Result{}
	anchors := make(map[string]grid.Point2D)
	filters := make(map[string]*ranging.Filter)
	acquired := make(map[string]bool)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A csv-level parse error is one bad row, not a dead stream.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				res.Skipped++
				continue
			}

			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}

		if !playRow(row, res, anchors, filters, opts) {
			res.Skipped++
		}
		recordAcquisitions(res, anchors, filters, acquired)
		emitFix(row, res, anchors, filters)
	}

	return res, nil
}

// playRow dispatches one record. Returns false when the row is malformed.
func playRow(row []string, res *Result, anchors map[string]grid.Point2D,
	filters map[string]*ranging.Filter, opts []ranging.Option) bool {
	if len(row) == 0 {
		return false
	}
	switch row[0] {
	case tagTarget:
		if len(row) != 3 {
			return false
		}
		x, errX := strconv.ParseFloat(row[1], 64)
		y, errY := strconv.ParseFloat(row[2], 64)
		if errX != nil || errY != nil {
			return false
		}
		res.Target = grid.Point2D{X: x, Y: y}
		res.HasTarget = true

	case tagAnchor:
		if len(row) != 4 {
			return false
		}
		x, errX := strconv.ParseFloat(row[1], 64)
		y, errY := strconv.ParseFloat(row[2], 64)
		if errX != nil || errY != nil {
			return false
		}
		anchors[row[3]] = grid.Point2D{X: x, Y: y}

	case tagMeasurement:
		if len(row) != 3 {
			return false
		}
		d, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return false
		}
		addr := row[2]
		if _, ok := anchors[addr]; !ok {
			// Sample for an undeclared anchor.
			return false
		}
		f, ok := filters[addr]
		if !ok {
			f, err = ranging.New(opts...)
			if err != nil {
				return false
			}
			filters[addr] = f
		}
		f.Add(d)

	default:
		return false
	}

	return true
}

// recordAcquisitions appends anchors whose filter just produced its
// first valid estimate.
func recordAcquisitions(res *Result, anchors map[string]grid.Point2D,
	filters map[string]*ranging.Filter, acquired map[string]bool) {
	for addr, f := range filters {
		if acquired[addr] {
			continue
		}
		if _, ok := f.Value(); ok {
			acquired[addr] = true
			res.AnchorOrder = append(res.AnchorOrder, addr)
		}
	}
}

// emitFix produces a position estimate after a measurement row, once at
// least minFixAnchors anchors hold valid estimates.
func emitFix(row []string, res *Result, anchors map[string]grid.Point2D,
	filters map[string]*ranging.Filter) {
	if len(row) == 0 || row[0] != tagMeasurement {
		return
	}

	positions := make([]grid.Point2D, 0, len(res.AnchorOrder))
	distances := make([]float64, 0, len(res.AnchorOrder))
	for _, addr := range res.AnchorOrder {
		v, ok := filters[addr].Value()
		if !ok {
			continue
		}
		positions = append(positions, anchors[addr])
		distances = append(distances, v)
	}
	if len(positions) < minFixAnchors {
		return
	}

	fix, err := simplex.PositionByAnchors(positions, distances)
	if err != nil {
		return
	}
	res.Fixes = append(res.Fixes, Fix{Position: fix, Anchors: len(positions)})
}
