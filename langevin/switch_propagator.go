// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package langevin

import (
	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/markov"
	"github.com/markovmodel/msmrd2/particle"
	"github.com/markovmodel/msmrd2/rng"
)

// SwitchPropagator couples a Propagator with a markov.Model, keeping a
// particle's diffusion coefficients synchronized with its current MSM
// state across Langevin steps whose dt need not equal (or divide evenly
// into) the model's dwell times. Grounded on
// original_source/src/integrators/odLangevinMarkovSwitch.cpp's
// integrateOne, generalized from its ctmsm-only template instantiation to
// any markov.Model (Design Note §9).
type SwitchPropagator struct {
	Prop  *Propagator
	Model *markov.Model
}

// NewSwitchPropagator returns a SwitchPropagator driving prop's
// translate/rotate steps with model's Markov-switching schedule.
func NewSwitchPropagator(prop *Propagator, model *markov.Model) *SwitchPropagator {
	return &SwitchPropagator{Prop: prop, Model: model}
}

// Step advances p by one integrator timestep dt. If p.Lagtime <= dt, the
// MSM clock may fire one or more times within this step (each firing
// resampling p.Lagtime and p.D/p.DRot from the model); otherwise the full
// step is integrated at the current diffusion coefficients and p.Lagtime
// is simply decremented.
func (sp *SwitchPropagator) Step(p *particle.Particle, force, torque geom.Vec3, dt float64, src rng.Source) {
	if p.Lagtime > dt {
		sp.Prop.Step(p, force, torque, dt)
		p.Lagtime -= dt
		p.PropagateTMSM = p.Lagtime == 0
		return
	}

	tcount := 0.0
	for tcount < dt {
		if p.PropagateTMSM {
			tau, next := sp.Model.CalculateTransition(p.State, src)
			p.State = next
			idx := sp.Model.GetMSMIndex(next)
			p.D = sp.Model.D[idx]
			p.DRot = sp.Model.DRot[idx]
			p.Lagtime = tau
		}
		if tcount+p.Lagtime < dt {
			sp.Prop.Step(p, force, torque, p.Lagtime)
			tcount += p.Lagtime
			p.PropagateTMSM = true
		} else {
			resdt := dt - tcount
			sp.Prop.Step(p, force, torque, resdt)
			p.Lagtime = p.Lagtime + tcount - dt
			tcount += resdt
			p.PropagateTMSM = p.Lagtime == 0
		}
	}
}
