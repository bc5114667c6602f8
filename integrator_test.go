// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msmrd

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/event"
	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/markov"
	"github.com/markovmodel/msmrd2/particle"
)

func testConfig() Config {
	return Config{
		Dt:                   0.01,
		NSteps:               1,
		Stride:               1,
		Seed:                 7,
		KbT:                  1.0,
		CutoffRadius:         2.0,
		SphereSections:       6,
		RadialShells:         4,
		AngularSections:      5,
		MaxBoundStates:       1,
		MaxValence:           2,
		PositionTolerance:    0.1,
		OrientationTolerance: 0.1 * 2 * math.Pi,
		Mode:                 CoreMSM,
		CompactEvery:         10,
	}
}

func trivialModel(maxBound int) *markov.Model {
	return markov.NewModel(1, markov.Discrete, 0.01, [][]float64{{1}}, nil, nil, maxBound)
}

// TestBindingEventOrdering is end-to-end scenario 3 in spec.md §8: three
// particles (0,1,2 here for 1,2,3) with binding events scheduled at
// different times for pairs (1,2) and (0,1); after firing, all three
// share one compound, its BoundPairs has two entries, and particle 1's
// Bonds record insertion order (2 first, then 0).
func TestBindingEventOrdering(tst *testing.T) {

	chk.PrintTitle("BindingEventOrdering")

	particles := []*particle.Particle{
		particle.New(geom.Vec3{}, 1, 1, particle.Point),
		particle.New(geom.Vec3{X: 1}, 1, 1, particle.Point),
		particle.New(geom.Vec3{X: 2}, 1, 1, particle.Point),
	}
	model := trivialModel(1)
	model.D = []float64{0.5}
	model.DRot = []float64{0.1}

	o := NewIntegrator(testConfig(), particles, model, nil, nil, nil)

	// pair (1,2) scheduled first (smaller remaining time)
	o.events.AddEvent(event.Event{I: 1, J: 2, Kind: event.Binding, Time: -0.2, NextState: 1})
	// pair (0,1) scheduled second
	o.events.AddEvent(event.Event{I: 0, J: 1, Kind: event.Binding, Time: 0, NextState: 1})

	if err := o.fireReadyEvents(); err != nil {
		tst.Fatalf("fireReadyEvents failed: %v", err)
	}

	if particles[0].CompoundID < 0 || particles[0].CompoundID != particles[1].CompoundID || particles[1].CompoundID != particles[2].CompoundID {
		tst.Fatalf("expected all three particles in one compound, got ids %d %d %d",
			particles[0].CompoundID, particles[1].CompoundID, particles[2].CompoundID)
	}
	c := o.compounds.Get(particles[0].CompoundID)
	if c == nil || len(c.Members) != 3 {
		tst.Fatalf("expected a 3-member compound, got %v", c)
	}
	if len(c.BoundPairs) != 2 {
		tst.Fatalf("expected 2 bound pairs, got %d", len(c.BoundPairs))
	}

	if len(particles[1].Bonds) != 2 || particles[1].Bonds[0].Peer != 2 || particles[1].Bonds[1].Peer != 0 {
		tst.Fatalf("expected particle 1's bonds in insertion order [2,0], got %v", particles[1].Bonds)
	}
}

// TestOrientationStaysUnitNorm is the quantified invariant from spec.md
// §8: after every step, every particle's orientation has unit norm.
func TestOrientationStaysUnitNorm(tst *testing.T) {

	chk.PrintTitle("OrientationStaysUnitNorm")

	particles := []*particle.Particle{
		particle.New(geom.Vec3{}, 1, 0.5, particle.Point),
	}
	cfg := testConfig()
	cfg.NSteps = 50 // single particle: no pairs ever scheduled regardless of MaxValence

	particles[0].State = 1 // MSM states are 1-based
	model := trivialModel(0)
	model.D = []float64{1}
	model.DRot = []float64{0.5}
	o := NewIntegrator(cfg, particles, model, nil, nil, nil)

	for step := 0; step < cfg.NSteps; step++ {
		o.Step = step
		if err := o.runOneStep(); err != nil {
			tst.Fatalf("step %d failed: %v", step, err)
		}
		norm := particles[0].Orientation.Norm()
		if math.Abs(norm-1) > 1e-9 {
			tst.Fatalf("step %d: orientation norm=%v, want 1", step, norm)
		}
	}
}

func TestNewIntegratorDefaultsPotentialsAndTrajectory(tst *testing.T) {

	chk.PrintTitle("NewIntegratorDefaultsPotentialsAndTrajectory")

	particles := []*particle.Particle{particle.New(geom.Vec3{}, 1, 1, particle.Point)}
	model := trivialModel(0)
	o := NewIntegrator(testConfig(), particles, model, nil, nil, nil)

	if o.External == nil || o.PairPot == nil || o.Traj == nil {
		tst.Fatal("expected nil potentials/trajectory to be replaced with no-op defaults")
	}
}
