// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/stats"
)

// An Estimator computes the half-width of the confidence interval
// around the mean of a summary.
type Estimator interface {
	// Name returns a short name for the estimator, as accepted by
	// EstimatorByName.
	Name() string

	// HalfWidth returns the confidence interval half-width at the
	// given confidence level for a summary whose samples, average
	// and deviation have already been computed.
	HalfWidth(s *Summary, confidence float64) float64
}

// StudentT estimates the confidence interval from Student's
// t-distribution: the standard error of the mean times the
// (1+confidence)/2 quantile of t with N-1 degrees of freedom.
// Below three samples it falls back to the deviation.
var StudentT Estimator = studentT{}

// DeviationOnly uses the population deviation as the interval
// half-width regardless of the sample count.
var DeviationOnly Estimator = deviationOnly{}

type studentT struct{}

func (studentT) Name() string { return "t" }

func (studentT) HalfWidth(s *Summary, confidence float64) float64 {
	if s.N < 3 {
		return s.Deviation
	}
	sample := stats.Sample{Xs: s.Raw, Sorted: true}
	mean, _, hi := sample.MeanCI(confidence)
	if math.IsNaN(hi) || math.IsInf(hi, 0) {
		return s.Deviation
	}
	return hi - mean
}

type deviationOnly struct{}

func (deviationOnly) Name() string { return "dev" }

func (deviationOnly) HalfWidth(s *Summary, confidence float64) float64 {
	return s.Deviation
}

// EstimatorByName returns the Estimator with the given name: "t" for
// StudentT or "dev" for DeviationOnly.
func EstimatorByName(name string) (Estimator, error) {
	for _, e := range []Estimator{StudentT, DeviationOnly} {
		if e.Name() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown confidence estimator %q", name)
}
