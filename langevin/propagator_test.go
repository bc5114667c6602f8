// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package langevin

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/markov"
	"github.com/markovmodel/msmrd2/particle"
	"github.com/markovmodel/msmrd2/rng"
)

// TestIsotropicDiffusionMSD is end-to-end scenario 1 in spec.md §8: a
// single free particle's mean squared displacement after many independent
// short steps grows as 6*D*t (three translational degrees of freedom).
func TestIsotropicDiffusionMSD(tst *testing.T) {

	chk.PrintTitle("IsotropicDiffusionMSD")

	const D = 0.5
	const kbT = 1.0
	const dt = 0.001
	const nsteps = 200
	const ntrials = 500

	gen := rng.NewGenerator(2718)
	prop := NewPropagator(kbT, false, gen)

	sumSq := 0.0
	for trial := 0; trial < ntrials; trial++ {
		p := particle.New(geom.Vec3{}, D, 0, particle.Point)
		for i := 0; i < nsteps; i++ {
			prop.Step(p, geom.Vec3{}, geom.Vec3{}, dt)
		}
		sumSq += p.Position.Dot(p.Position)
	}
	msd := sumSq / ntrials
	want := 6 * D * dt * nsteps
	if math.Abs(msd-want)/want > 0.15 {
		tst.Errorf("mean squared displacement=%v far from expectation %v", msd, want)
	}
}

// TestLangevinMarkovSwitchSynchronization is end-to-end scenario 6 in
// spec.md §8: with lagtime=0.03 and dt=0.01, the MSM clock fires once
// every three Langevin steps when the model never changes the particle's
// diffusion coefficients (self-transition rate row), so position keeps
// advancing every step while the state id is stable across the window.
func TestLangevinMarkovSwitchSynchronization(tst *testing.T) {

	chk.PrintTitle("LangevinMarkovSwitchSynchronization")

	T := [][]float64{
		{1},
	}
	model := markov.NewModel(1, markov.Discrete, 0.03, T, nil, nil, 0)
	model.D = []float64{0.2}
	model.DRot = []float64{0.0}

	gen := rng.NewGenerator(55)
	prop := NewPropagator(1.0, false, gen)
	sp := NewSwitchPropagator(prop, model)

	p := particle.New(geom.Vec3{}, 0.2, 0, particle.Point)
	p.State = 1
	p.Lagtime = 0.03
	p.PropagateTMSM = true

	const dt = 0.01
	for i := 0; i < 9; i++ {
		sp.Step(p, geom.Vec3{}, geom.Vec3{}, dt, gen)
		if p.State != 1 {
			tst.Fatalf("step %d: expected state to remain 1, got %d", i, p.State)
		}
	}
}
