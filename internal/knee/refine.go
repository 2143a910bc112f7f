// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package knee

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/MKhiriev/go-knee-pipeline/models"
)

// Tolerances used to match degradation factors against evaluated samples.
const (
	MatchTolerance     = 1e-5
	EvaluatedTolerance = 1e-4
)

// Sample is one evaluated resolution of a class curve.
type Sample struct {
	Effective models.Resolution
	Factor    float64
	MAP       float64
}

// StopReason tells why refinement ended.
type StopReason string

const (
	StopNoKnee          StopReason = "no knee"
	StopConverged       StopReason = "degradation factor converged"
	StopMAPConverged    StopReason = "mAP converged"
	StopMaxIterations   StopReason = "max iterations reached"
	StopKneeNotSampled  StopReason = "knee is not an evaluated sample"
	StopNoNeighbour     StopReason = "no neighbour to bisect towards"
	StopAlreadyProbed   StopReason = "bisection point already evaluated"
	StopDetectOnly      StopReason = "refinement disabled"
)

// ProbeFunc evaluates the effective resolution and returns the refreshed
// curve of the class being refined.
type ProbeFunc func(ctx context.Context, effective models.Resolution) ([]Sample, error)

// RefineOptions bound the refinement loop.
type RefineOptions struct {
	MaxIterations        int
	DegradationTolerance float64
	MAPTolerance         float64
	MinMAP               float64
}

// Result is the outcome of knee discovery on one class curve.
type Result struct {
	// Knee is the sample at the final knee; valid only when Found is true.
	Knee  Sample
	Found bool

	// Knees are all knees of the final curve.
	Knees []Point

	Iterations int
	Reason     StopReason
	Curve      []Sample
}

// Detect locates the knee of curve without probing new resolutions. The
// first (lowest factor) knee is the reported one.
func Detect(curve []Sample, minMAP float64) Result {
	res := Result{Curve: curve, Reason: StopDetectOnly}
	res.Knees = Locate(toPoints(curve), minMAP)
	if len(res.Knees) == 0 {
		res.Reason = StopNoKnee
		return res
	}
	res.Knee, res.Found = sampleAt(curve, res.Knees[0].X, MatchTolerance)
	if !res.Found {
		res.Reason = StopKneeNotSampled
	}
	return res
}

// Refine bisects around the knee of curve until its degradation factor or
// its mAP stops moving.
//
// Each iteration picks the neighbour of the knee with the larger mAP change
// (the right one on ties), probes the factor halfway between them and
// locates the knee again on the refreshed curve. The loop also stops when
// the halfway factor was already evaluated, when the knee has no usable
// neighbour, or after MaxIterations probes.
func Refine(ctx context.Context, original models.Resolution, curve []Sample, opts RefineOptions, probe ProbeFunc) (Result, error) {
	res := Result{Curve: curve}

	res.Knees = Locate(toPoints(curve), opts.MinMAP)
	if len(res.Knees) == 0 {
		res.Reason = StopNoKnee
		return res, nil
	}

	current := res.Knees[0].X
	var (
		previous    float64
		previousMAP float64
		haveMAP     bool
	)

	for {
		if res.Iterations > 0 && isClose(current, previous, opts.DegradationTolerance) {
			res.Reason = StopConverged
			break
		}
		if res.Iterations >= opts.MaxIterations {
			res.Reason = StopMaxIterations
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Iterations++
		previous = current

		sorted := sortedByFactor(res.Curve)
		idx := indexOf(sorted, current, MatchTolerance)
		if idx < 0 {
			res.Reason = StopKneeNotSampled
			break
		}

		kneeMAP := sorted[idx].MAP
		if haveMAP && math.Abs(kneeMAP-previousMAP) < opts.MAPTolerance {
			res.Reason = StopMAPConverged
			break
		}
		previousMAP, haveMAP = kneeMAP, true

		lo, hi, ok := bisectionBounds(sorted, idx)
		if !ok {
			res.Reason = StopNoNeighbour
			break
		}

		next := (lo + hi) / 2
		if indexOf(sorted, next, EvaluatedTolerance) >= 0 {
			res.Reason = StopAlreadyProbed
			break
		}

		refreshed, err := probe(ctx, ResolutionForFactor(original, next))
		if err != nil {
			return res, fmt.Errorf("error probing degradation factor %.4f: %w", next, err)
		}
		res.Curve = refreshed

		res.Knees = Locate(toPoints(res.Curve), opts.MinMAP)
		if len(res.Knees) == 0 {
			res.Reason = StopNoKnee
			return res, nil
		}
		current = res.Knees[0].X
	}

	return finish(res, current), nil
}

// bisectionBounds picks the neighbour of sorted[idx] with the larger mAP
// change, preferring the right one on ties.
func bisectionBounds(sorted []Sample, idx int) (lo, hi float64, ok bool) {
	knee := sorted[idx]

	var deltaLeft, deltaRight float64
	if idx > 0 {
		deltaLeft = math.Abs(knee.MAP - sorted[idx-1].MAP)
	}
	if idx < len(sorted)-1 {
		deltaRight = math.Abs(knee.MAP - sorted[idx+1].MAP)
	}

	switch {
	case idx > 0 && deltaLeft > deltaRight:
		return sorted[idx-1].Factor, knee.Factor, true
	case idx < len(sorted)-1:
		return knee.Factor, sorted[idx+1].Factor, true
	default:
		return 0, 0, false
	}
}

func finish(res Result, factor float64) Result {
	res.Knee, res.Found = sampleAt(res.Curve, factor, MatchTolerance)
	return res
}

// NewSample builds the sample of effective evaluated against original.
func NewSample(original, effective models.Resolution, mAP float64) Sample {
	return Sample{
		Effective: effective,
		Factor:    models.DegradationFactor(original, effective),
		MAP:       mAP,
	}
}

func toPoints(curve []Sample) []Point {
	points := make([]Point, len(curve))
	for i, s := range curve {
		points[i] = Point{X: s.Factor, Y: s.MAP}
	}
	return points
}

func sortedByFactor(curve []Sample) []Sample {
	sorted := make([]Sample, len(curve))
	copy(sorted, curve)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Factor < sorted[j].Factor })
	return sorted
}

func indexOf(sorted []Sample, factor, atol float64) int {
	for i, s := range sorted {
		if isClose(s.Factor, factor, atol) {
			return i
		}
	}
	return -1
}

func sampleAt(curve []Sample, factor, atol float64) (Sample, bool) {
	for _, s := range curve {
		if isClose(s.Factor, factor, atol) {
			return s, true
		}
	}
	return Sample{}, false
}

// isClose mirrors the usual |a-b| <= atol + rtol*|b| comparison with a
// relative tolerance of 1e-5.
func isClose(a, b, atol float64) bool {
	const rtol = 1e-5
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}
