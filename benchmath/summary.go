// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath computes summary statistics over repeated
// benchmark measurements.
//
// A Summary is computed once from a list of samples and is read-only
// afterwards. How the confidence interval is computed is decided by
// an Estimator, which callers choose once (see StudentT and
// DeviationOnly) rather than per summary.
package benchmath

import (
	"fmt"
	"math"
	"sort"
)

// A Summary summarizes a list of samples of one metric.
//
// The zero Summary is the summary of no samples. Its fields carry no
// information; callers must check Defined before using them.
type Summary struct {
	// N is the number of samples.
	N int

	// Average is the arithmetic mean and Deviation the population
	// (divide by N) root-mean-square deviation from it.
	Average, Deviation float64

	// Median is the middle sample, or the mean of the two middle
	// samples if N is even.
	Median float64

	// Perc95 and Perc5 are the samples at sorted index
	// floor((N-1)*0.95) and floor((N-1)*0.05). With two samples both
	// are the lower one, so Perc95 is below Median.
	Perc95, Perc5 float64

	Min, Max float64

	// Confidence is the half-width of the confidence interval
	// around Average.
	Confidence float64

	// Raw holds the samples in ascending order.
	Raw []float64
}

// Defined reports whether s summarizes at least one sample.
func (s *Summary) Defined() bool {
	return s != nil && s.N > 0
}

// Summarize computes the Summary of values. Confidence is the
// confidence level in (0, 1), typically 0.95, and est computes the
// interval half-width. If est is nil, StudentT is used.
//
// Summarize does not modify values.
func Summarize(values []float64, confidence float64, est Estimator) *Summary {
	s := new(Summary)
	if len(values) == 0 {
		return s
	}
	if est == nil {
		est = StudentT
	}

	data := append([]float64(nil), values...)
	sort.Float64s(data)
	n := len(data)

	s.N = n
	s.Raw = data
	s.Min, s.Max = data[0], data[n-1]
	s.Average, s.Deviation = meanDev(data)
	if n%2 == 0 {
		s.Median = (data[n/2] + data[n/2-1]) / 2
	} else {
		s.Median = data[n/2]
	}
	s.Perc95 = data[int(float64(n-1)*0.95)]
	s.Perc5 = data[int(float64(n-1)*0.05)]
	s.Confidence = est.HalfWidth(s, confidence)
	return s
}

// Reported returns a Summary reconstructed from an already rendered
// "average ~ confidence" pair. Only Average and Confidence carry
// information; the order statistics are all set to the average.
func Reported(average, confidence float64) *Summary {
	return &Summary{
		N:          1,
		Average:    average,
		Confidence: confidence,
		Median:     average,
		Perc95:     average,
		Perc5:      average,
		Min:        average,
		Max:        average,
	}
}

func meanDev(xs []float64) (mean, dev float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		dev += (x - mean) * (x - mean)
	}
	dev = math.Sqrt(dev / float64(len(xs)))
	return mean, dev
}

// RoundDeviation rounds center and dev to the precision that dev
// supports: two significant digits of dev, truncated, with center
// truncated to the same decimal position. Deviations below 1e-7 are
// returned unchanged.
func RoundDeviation(center, dev float64) (float64, float64) {
	if dev < 1e-7 {
		return center, dev
	}
	div := math.Pow(10, math.Floor(math.Log10(dev))-1)
	return math.Trunc(center/div) * div, math.Trunc(dev/div) * div
}

// String formats s as "Summary(average ~ deviation)" with both
// values rounded to three significant digits.
func (s *Summary) String() string {
	if !s.Defined() {
		return "Summary(empty)"
	}
	avg, _ := RoundDeviation(s.Average, math.Abs(s.Average)/10)
	dev, _ := RoundDeviation(s.Deviation, s.Deviation/10)
	return fmt.Sprintf("Summary(%v ~ %v)", avg, dev)
}
