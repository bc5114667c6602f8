// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msmrd

import "github.com/markovmodel/msmrd2/particle"

// Trajectory is the external collaborator that samples and persists
// simulation state (spec.md §6). The core never writes files directly;
// it calls Sample on the configured stride and Flush once when Run
// finishes. Flushing when a buffer fills is left to the implementation.
type Trajectory interface {
	// Sample records one row per particle for the given step. Row layout
	// is fixed-width: 4 doubles (t,x,y,z) for position-only trajectories,
	// 8 doubles (t,x,y,z,qw,qx,qy,qz) when orientation is tracked.
	Sample(step int, t float64, particles []*particle.Particle) error
	// Flush persists any buffered samples. The integrator treats a
	// non-nil error as IOFailure and aborts the run.
	Flush() error
}

// NopTrajectory is a Trajectory that discards every sample; useful for
// tests and for runs that only care about final particle state.
type NopTrajectory struct{}

func (NopTrajectory) Sample(step int, t float64, particles []*particle.Particle) error { return nil }
func (NopTrajectory) Flush() error                                                      { return nil }

// BufferedTrajectory accumulates position+orientation rows in memory and
// "flushes" by moving them from the pending buffer into Rows, mirroring
// the buffer-then-write2H5file contract of spec.md §6 without requiring
// an actual HDF5 dependency (out of scope per spec.md §1).
type BufferedTrajectory struct {
	BufferSize int
	Rows       [][]float64
	pending    [][]float64
}

// NewBufferedTrajectory returns a BufferedTrajectory that flushes once
// bufferSize rows (one per particle per sample) are pending.
func NewBufferedTrajectory(bufferSize int) *BufferedTrajectory {
	return &BufferedTrajectory{BufferSize: bufferSize}
}

// Sample appends one row per particle: t, position xyz, orientation wxyz.
func (bt *BufferedTrajectory) Sample(step int, t float64, particles []*particle.Particle) error {
	for _, p := range particles {
		row := []float64{
			t,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Orientation.W, p.Orientation.X, p.Orientation.Y, p.Orientation.Z,
		}
		bt.pending = append(bt.pending, row)
	}
	if len(bt.pending) >= bt.BufferSize {
		return bt.Flush()
	}
	return nil
}

// Flush moves every pending row into Rows.
func (bt *BufferedTrajectory) Flush() error {
	bt.Rows = append(bt.Rows, bt.pending...)
	bt.pending = nil
	return nil
}
