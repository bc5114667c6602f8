// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package langevin implements over-damped Langevin translation/rotation
// propagation and the Markov-state-switching synchronization that keeps
// a particle's diffusion coefficients in step with its MSM clock.
// Grounded on original_source/src/integrators/odLangevin.cpp and
// odLangevinMarkovSwitch.cpp, spec.md §4.5-§4.6.
package langevin

import (
	"math"

	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/particle"
	"github.com/markovmodel/msmrd2/rng"
)

// Propagator advances one particle's position and orientation by a single
// over-damped Langevin (Euler-Maruyama) step at a fixed temperature.
type Propagator struct {
	KbT      float64
	Rotation bool
	Src      rng.Source
}

// NewPropagator returns a Propagator at thermal energy kbT; rotation
// selects whether orientation is integrated alongside position.
func NewPropagator(kbT float64, rotation bool, src rng.Source) *Propagator {
	return &Propagator{KbT: kbT, Rotation: rotation, Src: src}
}

// Step advances p by dt under the given force and torque, mirroring
// odLangevin::translate/rotate: dr = F·dt·D/kbT + √(2·dt·D)·𝒩(0,1), and
// likewise for orientation via the axis-angle increment dφ.
//
// Draws translational noise before rotational noise for this particle,
// matching odLangevinMarkovSwitch.cpp's integrateList call order
// (translate then rotate, per particle, in a single pass over the list)
// rather than drawing all particles' translational noise before any
// rotational noise. A caller that needs the latter ordering for
// cross-implementation byte reproducibility will not get it from this
// propagator.
func (pr *Propagator) Step(p *particle.Particle, force, torque geom.Vec3, dt float64) {
	pr.translate(p, force, dt)
	if pr.Rotation {
		pr.rotate(p, torque, dt)
	}
}

func (pr *Propagator) translate(p *particle.Particle, force geom.Vec3, dt float64) {
	drift := force.Scale(dt * p.D / pr.KbT)
	noise := pr.Src.Normal3D(0, 1).Scale(math.Sqrt(2 * dt * p.D))
	p.Position = p.Position.Add(drift).Add(noise)
}

func (pr *Propagator) rotate(p *particle.Particle, torque geom.Vec3, dt float64) {
	drift := torque.Scale(dt * p.DRot / pr.KbT)
	noise := pr.Src.Normal3D(0, 1).Scale(math.Sqrt(2 * dt * p.DRot))
	dphi := drift.Add(noise)
	dquat := geom.AxisAngleToQuat(dphi)
	p.Orientation = dquat.Mul(p.Orientation).Normalized()
	if p.BodyType == particle.Rod {
		p.OrientVec = geom.RotateVec(p.OrientVec, dquat)
	}
}
