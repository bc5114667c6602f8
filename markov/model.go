// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package markov implements the discrete- and continuous-time Markov
// state models that govern transitions between transition sections and
// bound states. Grounded on original_source/include/msm.hpp (msmbase,
// msm, ctmsm) and spec.md §4.4.
package markov

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/katalvlaran/lvlath/matrix"
	"github.com/markovmodel/msmrd2/rng"
)

// Kind distinguishes the two MSM flavors spec.md §4.4 describes.
type Kind int

const (
	// Discrete steps one lagtime at a time against a row-stochastic
	// transition matrix (rows sum to 1).
	Discrete Kind = iota
	// Continuous draws an exponential dwell time from a rate matrix
	// (rows sum to 0).
	Continuous
)

// Model is a Markov state model: a (rate or transition) matrix T, the
// per-state diffusion coefficients it governs, and the bound-state/
// transition-section split (states 1..MaxBoundStates are bound states,
// states above that are transition sections).
type Model struct {
	ID             int
	Kind           Kind
	Lagtime        float64
	T              [][]float64
	D, DRot        []float64
	MaxBoundStates int
}

// NewModel validates T (MalformedInput is fatal, per spec.md §7) and
// returns a Model. D and DRot, one fun.Prm per state ({N: "state<i>", V:
// value}), follow the named-parameter convention
// mdl/solid/t_hyperelast1_test.go uses for per-state constants.
func NewModel(id int, kind Kind, lagtime float64, T [][]float64, dPrm, drotPrm []*fun.Prm, maxBoundStates int) *Model {
	n := len(T)
	validateRateMatrix(kind, T)
	if maxBoundStates < 0 || maxBoundStates > n {
		chk.Panic("NewModel: maxBoundStates=%d out of range for %d states", maxBoundStates, n)
	}
	d := prmValues(dPrm, n)
	drot := prmValues(drotPrm, n)
	return &Model{
		ID:             id,
		Kind:           kind,
		Lagtime:        lagtime,
		T:              T,
		D:              d,
		DRot:           drot,
		MaxBoundStates: maxBoundStates,
	}
}

func prmValues(prms []*fun.Prm, n int) []float64 {
	v := make([]float64, n)
	for i, p := range prms {
		if i >= n {
			break
		}
		v[i] = p.V
	}
	return v
}

// validateRateMatrix checks the row-sum invariant (spec.md §3: rows sum
// to 0 for continuous-time, 1 for discrete-time) using
// github.com/katalvlaran/lvlath/matrix's RowSums, whose own AI-hints call
// this exact check out for "Markov/stochastic normalization". Failure is
// MalformedInput, fatal at construction.
func validateRateMatrix(kind Kind, T [][]float64) {
	n := len(T)
	if n == 0 {
		chk.Panic("NewModel: transition matrix has no rows")
	}
	dense, err := matrix.NewZeros(n, n)
	if err != nil {
		chk.Panic("NewModel: cannot allocate validation matrix: %v", err)
	}
	for i := 0; i < n; i++ {
		if len(T[i]) != n {
			chk.Panic("NewModel: transition matrix row %d has %d columns, want %d", i, len(T[i]), n)
		}
		for j := 0; j < n; j++ {
			if err := dense.Set(i, j, T[i][j]); err != nil {
				chk.Panic("NewModel: cannot set T[%d][%d]: %v", i, j, err)
			}
		}
	}
	sums, err := matrix.RowSums(dense)
	if err != nil {
		chk.Panic("NewModel: row-sum check failed: %v", err)
	}
	want := 1.0
	if kind == Continuous {
		want = 0.0
	}
	for i, s := range sums {
		if math.Abs(s-want) > 1e-9 {
			chk.Panic("NewModel: row %d sums to %v, want %v", i, s, want)
		}
	}
}

// GetMSMIndex maps a global state id (1-based, as used throughout the
// event/particle bookkeeping) to the 0-based row of T that governs it.
func (m *Model) GetMSMIndex(state int) int {
	return state - 1
}

// CalculateTransition samples (τ, next) out of state via Gillespie-style
// exponential-dwell-time + categorical-jump sampling (continuous-time) or
// cumulative-row stepping (discrete-time), per spec.md §4.4. Random draws
// are taken from src in the fixed order: the dwell-time draw first, then
// (for categorical selection) the destination-choice draw.
func (m *Model) CalculateTransition(state int, src rng.Source) (tau float64, next int) {
	row := m.GetMSMIndex(state)
	if row < 0 || row >= len(m.T) {
		chk.Panic("CalculateTransition: state %d out of range", state)
	}
	switch m.Kind {
	case Continuous:
		return m.calculateTransitionCT(row, src)
	default:
		return m.calculateTransitionDT(row, src)
	}
}

func (m *Model) calculateTransitionCT(row int, src rng.Source) (float64, int) {
	rate := -m.T[row][row]
	if rate <= 0 {
		chk.Panic("CalculateTransition: state %d has non-escaping rate %v", row+1, rate)
	}
	u := src.Float64(0, 1)
	tau := -math.Log(1-u) / rate
	target := src.Float64(0, rate)
	acc := 0.0
	for j, tij := range m.T[row] {
		if j == row {
			continue
		}
		acc += tij
		if target <= acc {
			return tau, j + 1
		}
	}
	// rounding fallback: return the last valid candidate
	for j := len(m.T[row]) - 1; j >= 0; j-- {
		if j != row {
			return tau, j + 1
		}
	}
	chk.Panic("CalculateTransition: state %d has no destination", row+1)
	return 0, 0
}

func (m *Model) calculateTransitionDT(row int, src rng.Source) (float64, int) {
	u := src.Float64(0, 1)
	acc := 0.0
	for j, pij := range m.T[row] {
		acc += pij
		if u <= acc {
			return m.Lagtime, j + 1
		}
	}
	return m.Lagtime, len(m.T[row])
}
