// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msmrd implements the MSM/RD coupling engine: the event-driven
// integrator that advances rigid particles under over-damped Langevin
// dynamics while a discrete Markov state model governs their binding and
// conformational kinetics. Grounded on
// original_source/src/integrators/msmrdMultiParticleIntegrator.cpp and
// fem/fem.go's Run/onexit driving-loop idiom.
package msmrd

import "github.com/cpmech/gosl/chk"

// ErrKind classifies a fatal simulation error (spec.md §7).
type ErrKind int

const (
	// MalformedInput: a rate-matrix row does not sum correctly, partition
	// parameters are incompatible, or an unknown bodytype was supplied.
	MalformedInput ErrKind = iota
	// InvalidGeometry: a particle's orientation drifted outside the
	// renormalization tolerance.
	InvalidGeometry
	// LogicInvariant: bound-state or compound bookkeeping is inconsistent.
	LogicInvariant
	// IOFailure: the trajectory writer reported an error.
	IOFailure
)

func (k ErrKind) String() string {
	switch k {
	case MalformedInput:
		return "malformed input"
	case InvalidGeometry:
		return "invalid geometry"
	case LogicInvariant:
		return "logic invariant violated"
	case IOFailure:
		return "I/O failure"
	}
	return "unknown error"
}

// Error is a fatal simulation error, carrying the step index and (when
// applicable) the offending pair, per spec.md §7's propagation policy:
// the integrator never recovers locally from these.
type Error struct {
	Kind    ErrKind
	Step    int
	I, J    int // offending pair; J == -1 when not pair-specific
	Message string
}

func (e *Error) Error() string {
	if e.J >= 0 {
		return chk.Err("msmrd: %v at step %d (pair %d,%d): %s", e.Kind, e.Step, e.I, e.J, e.Message).Error()
	}
	return chk.Err("msmrd: %v at step %d: %s", e.Kind, e.Step, e.Message).Error()
}

// newError builds an Error not tied to any particular pair.
func newError(kind ErrKind, step int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Step: step, I: -1, J: -1, Message: chk.Err(format, args...).Error()}
}

// newPairError builds an Error tied to pair (i,j).
func newPairError(kind ErrKind, step, i, j int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Step: step, I: i, J: j, Message: chk.Err(format, args...).Error()}
}
