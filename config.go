// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msmrd

import "github.com/cpmech/gosl/chk"

// Mode selects how the integrator reports a pair's discrete state while
// it is inside the cutoff but not bound (spec.md §9 Open Question,
// GLOSSARY "CoreMSM mode").
type Mode int

const (
	// CoreMSM reports the previously sampled discrete state rather than
	// recomputing the section id every step, reducing spurious
	// transitions caused by noise near section boundaries.
	CoreMSM Mode = iota
	// FullDiscretization always recomputes the current transition
	// section from the instantaneous relative pose.
	FullDiscretization
)

// Config collects every tunable parameter of a simulation run (spec.md
// §6 "Configurable parameters"). Bound-state membership tolerances are
// constructor parameters rather than hard-coded constants, per Design
// Note §9.
type Config struct {
	Dt                   float64 // integration timestep
	NSteps               int     // total number of steps to run
	Stride               int     // sample every Stride steps
	Seed                 int64   // RNG seed; -1 = nondeterministic
	KbT                  float64 // thermal energy
	CutoffRadius         float64 // r*: bound/transition boundary
	SphereSections       int     // N
	RadialShells         int     // R
	AngularSections      int     // M
	MaxBoundStates       int     // B
	MaxValence           int     // max simultaneous bound peers per particle
	PositionTolerance    float64 // bound-state membership tolerance, position
	OrientationTolerance float64 // bound-state membership tolerance, radians
	Mode                 Mode
	CompactEvery         int // steps between compound-registry compactions
}

// Validate checks Config for the malformed-input conditions spec.md §7
// calls out at construction; callers should invoke this before building
// an Integrator.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return newError(MalformedInput, 0, "Dt must be positive, got %v", c.Dt)
	}
	if c.NSteps < 0 {
		return newError(MalformedInput, 0, "NSteps must be non-negative, got %d", c.NSteps)
	}
	if c.Stride <= 0 {
		return newError(MalformedInput, 0, "Stride must be positive, got %d", c.Stride)
	}
	if c.KbT <= 0 {
		return newError(MalformedInput, 0, "KbT must be positive, got %v", c.KbT)
	}
	if c.CutoffRadius <= 0 {
		return newError(MalformedInput, 0, "CutoffRadius must be positive, got %v", c.CutoffRadius)
	}
	if c.SphereSections < 1 || c.RadialShells < 1 || c.AngularSections < 1 {
		return newError(MalformedInput, 0, "partition sizes must be >= 1 (N=%d R=%d M=%d)",
			c.SphereSections, c.RadialShells, c.AngularSections)
	}
	if c.MaxBoundStates < 0 {
		return newError(MalformedInput, 0, "MaxBoundStates must be non-negative, got %d", c.MaxBoundStates)
	}
	if c.MaxValence < 1 {
		return newError(MalformedInput, 0, "MaxValence must be >= 1, got %d", c.MaxValence)
	}
	if c.CompactEvery <= 0 {
		return newError(MalformedInput, 0, "CompactEvery must be positive, got %d", c.CompactEvery)
	}
	return nil
}

// mustValidate panics (fatal, per spec.md §7) if c is malformed.
func (c *Config) mustValidate() {
	if err := c.Validate(); err != nil {
		chk.Panic("%v", err)
	}
}
