// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package knee

import (
	"math"
	"sort"
)

// Sensitivity is the Kneedle S parameter.
const Sensitivity = 1.0

// Point is one point of a curve.
type Point struct {
	X float64
	Y float64
}

// Locate returns every knee of the curve in ascending X order.
//
// Points with Y not above minY are dropped first. The remaining points are
// sorted by X and passed through Kneedle for a concave, increasing curve in
// online mode, so every knee met while walking the difference curve is
// reported, not only the first one.
func Locate(points []Point, minY float64) []Point {
	curve := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Y > minY {
			curve = append(curve, p)
		}
	}
	if len(curve) < 2 {
		return nil
	}
	sort.SliceStable(curve, func(i, j int) bool { return curve[i].X < curve[j].X })

	xn, ok := normalize(curve, func(p Point) float64 { return p.X })
	if !ok {
		return nil
	}
	yn, ok := normalize(curve, func(p Point) float64 { return p.Y })
	if !ok {
		return nil
	}

	diff := make([]float64, len(curve))
	for i := range curve {
		diff[i] = yn[i] - xn[i]
	}

	maxima := relativeExtrema(diff, func(a, b float64) bool { return a >= b })
	minima := relativeExtrema(diff, func(a, b float64) bool { return a <= b })
	if len(maxima) == 0 {
		return nil
	}

	var meanStep float64
	for i := 1; i < len(xn); i++ {
		meanStep += xn[i] - xn[i-1]
	}
	meanStep = math.Abs(meanStep / float64(len(xn)-1))

	isMinimum := make(map[int]bool, len(minima))
	for _, i := range minima {
		isMinimum[i] = true
	}
	isMaximum := make(map[int]bool, len(maxima))
	for _, i := range maxima {
		isMaximum[i] = true
	}

	var (
		knees          []Point
		seen           = make(map[float64]bool)
		threshold      float64
		thresholdIndex int
	)
	for i := maxima[0]; i < len(diff)-1; i++ {
		if isMaximum[i] {
			threshold = diff[i] - Sensitivity*meanStep
			thresholdIndex = i
		}
		if isMinimum[i] {
			threshold = 0
		}
		if diff[i+1] < threshold {
			k := curve[thresholdIndex]
			if !seen[k.X] {
				seen[k.X] = true
				knees = append(knees, k)
			}
		}
	}

	sort.Slice(knees, func(i, j int) bool { return knees[i].X < knees[j].X })
	return knees
}

// normalize scales the selected coordinate into [0, 1]. It reports false
// when the coordinate is constant.
func normalize(curve []Point, coord func(Point) float64) ([]float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range curve {
		v := coord(p)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo == 0 {
		return nil, false
	}

	out := make([]float64, len(curve))
	for i, p := range curve {
		out[i] = (coord(p) - lo) / (hi - lo)
	}
	return out, true
}

// relativeExtrema returns the indices i where cmp(v[i], neighbour) holds for
// both neighbours. Out of range neighbours are clipped to the end points, so
// an end point only has to beat its single inner neighbour.
func relativeExtrema(v []float64, cmp func(a, b float64) bool) []int {
	var idx []int
	last := len(v) - 1
	for i := range v {
		left := v[max(i-1, 0)]
		right := v[min(i+1, last)]
		if cmp(v[i], left) && cmp(v[i], right) {
			idx = append(idx, i)
		}
	}
	return idx
}
