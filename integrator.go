// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msmrd

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/markovmodel/msmrd2/compound"
	"github.com/markovmodel/msmrd2/disc"
	"github.com/markovmodel/msmrd2/event"
	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/langevin"
	"github.com/markovmodel/msmrd2/markov"
	"github.com/markovmodel/msmrd2/particle"
	"github.com/markovmodel/msmrd2/potential"
	"github.com/markovmodel/msmrd2/rng"
)

// Integrator is the MSM/RD control loop: it exclusively owns the particle
// vector, the compound registry, and the event manager (spec.md §3, §5),
// and ties the partition, Markov model and Langevin propagators together
// into the per-step state machine of spec.md §4.8. Grounded on
// original_source/src/integrators/msmrdMultiParticleIntegrator.cpp and
// fem/fem.go's Run/onexit driving-loop idiom.
type Integrator struct {
	Cfg       Config
	Particles []*particle.Particle
	Model     *markov.Model
	Partition *disc.PosOrientPartition
	External  potential.External
	PairPot   potential.Pair

	events    *event.Manager
	compounds *compound.Registry
	prop      *langevin.SwitchPropagator
	src       rng.Source

	// lastTransitionState caches, per unordered pair, the most recently
	// sampled transition-discretization state while the pair is inside
	// the cutoff but unbound. scheduleFromTransitionStates reads it only in
	// CoreMSM mode (spec.md §9 Open Question, GLOSSARY "CoreMSM mode");
	// withinBindingTolerance reads it in every mode.
	lastTransitionState map[pairKey]int

	Clock   float64
	Step    int
	Traj    Trajectory
	ShowMsg bool
}

// NewIntegrator validates cfg and returns a ready Integrator. External
// and pairPot may be nil; nil defaults to potential.NullExternal{} and
// potential.NullPair{} (spec.md §6: "potentials may be absent; absent →
// zero force/torque").
func NewIntegrator(cfg Config, particles []*particle.Particle, model *markov.Model, external potential.External, pairPot potential.Pair, traj Trajectory) *Integrator {
	cfg.mustValidate()

	if external == nil {
		external = potential.NullExternal{}
	}
	if pairPot == nil {
		pairPot = potential.NullPair{}
	}
	if traj == nil {
		traj = NopTrajectory{}
	}

	gen := rng.NewGenerator(cfg.Seed)
	langProp := langevin.NewPropagator(cfg.KbT, true, gen)

	o := &Integrator{
		Cfg:                 cfg,
		Particles:           particles,
		Model:               model,
		Partition:           disc.NewPosOrientPartition(cfg.CutoffRadius, cfg.SphereSections, cfg.RadialShells, cfg.AngularSections),
		External:            external,
		PairPot:             pairPot,
		events:              event.NewManager(),
		compounds:           compound.NewRegistry(),
		prop:                langevin.NewSwitchPropagator(langProp, model),
		src:                 gen,
		lastTransitionState: make(map[pairKey]int),
		Traj:                traj,
	}
	return o
}

// pairKey canonicalizes an unordered particle-index pair for
// o.lastTransitionState.
type pairKey struct{ I, J int }

func canonPair(i, j int) pairKey {
	if i < j {
		return pairKey{i, j}
	}
	return pairKey{j, i}
}

// Run advances the simulation for Cfg.NSteps steps, sampling into Traj on
// the configured stride. Any Error returned is fatal per spec.md §7; the
// integrator never retries.
func (o *Integrator) Run() (err error) {
	if o.ShowMsg {
		io.Pf("> msmrd: starting run: %d steps, dt=%v\n", o.Cfg.NSteps, o.Cfg.Dt)
	}
	defer func() { err = o.onexit(err) }()

	for step := 0; step < o.Cfg.NSteps; step++ {
		o.Step = step
		if serr := o.runOneStep(); serr != nil {
			return serr
		}
		if step%o.Cfg.Stride == 0 {
			if serr := o.Traj.Sample(step, o.Clock, o.Particles); serr != nil {
				return newError(IOFailure, step, "trajectory sample failed: %v", serr)
			}
		}
	}
	return nil
}

func (o *Integrator) onexit(prevErr error) error {
	if ferr := o.Traj.Flush(); ferr != nil && prevErr == nil {
		prevErr = newError(IOFailure, o.Step, "trajectory flush failed: %v", ferr)
	}
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> msmrd: success, %d steps at clock=%v\n", o.Cfg.NSteps, o.Clock)
		} else {
			io.PfRed("> msmrd: failed: %v\n", prevErr)
		}
	}
	return prevErr
}

// runOneStep executes the seven phases of spec.md §4.8 in order.
func (o *Integrator) runOneStep() error {
	o.diffuse()
	o.events.Advance(o.Cfg.Dt)
	if err := o.scheduleFromTransitionStates(); err != nil {
		return err
	}
	if err := o.scheduleFromBoundStates(); err != nil {
		return err
	}
	if err := o.fireReadyEvents(); err != nil {
		return err
	}
	o.pruneUnrealizedEvents()
	if o.Step > 0 && o.Step%o.Cfg.CompactEvery == 0 {
		o.compounds.Compact()
	}
	o.Clock += o.Cfg.Dt
	return nil
}

// diffuse integrates every active particle for Dt (step 1). A bound
// particle moves only if it is its compound's representative; other
// members are pinned to the compound frame, so once the representative
// has moved their absolute pose is reconstructed from the
// representative's new pose plus each member's fixed OffsetPos/
// OffsetOrient (spec.md §4.8 step 1: "other members are pinned to its
// body frame").
func (o *Integrator) diffuse() {
	for idx, p := range o.Particles {
		if p.CompoundID >= 0 {
			c := o.compounds.Get(p.CompoundID)
			p.Active = c == nil || c.Representative == idx
		} else {
			p.Active = true
		}
	}

	for idx, p := range o.Particles {
		if !p.Active {
			continue
		}
		force, torque := o.netForceTorque(idx)
		o.prop.Step(p, force, torque, o.Cfg.Dt, o.src)
	}

	for idx, p := range o.Particles {
		if p.Active || p.CompoundID < 0 {
			continue
		}
		c := o.compounds.Get(p.CompoundID)
		if c == nil {
			continue
		}
		rep := o.Particles[c.Representative]
		p.Position = rep.Position.Add(geom.RotateVec(p.OffsetPos, rep.Orientation))
		p.Orientation = p.OffsetOrient.Mul(rep.Orientation).Normalized()
	}
}

// recomputeCompoundOffsets walks compoundID's bound-pair graph from its
// Representative and records each member's current pose relative to the
// representative's frame as a fixed OffsetPos/OffsetOrient, to be replayed
// every step by diffuse until the next topology change. Uses the
// particles' current absolute poses, which are still physically
// consistent immediately after a bind/unbind (nothing has diffused yet
// this step).
func (o *Integrator) recomputeCompoundOffsets(compoundID int) {
	c := o.compounds.Get(compoundID)
	if c == nil {
		return
	}
	rep := c.Representative
	repP := o.Particles[rep]
	repP.OffsetPos = geom.Vec3{}
	repP.OffsetOrient = geom.Identity

	visited := map[int]bool{rep: true}
	queue := []int{rep}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curP := o.Particles[cur]
		for _, nb := range c.Neighbors(cur) {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			relPos, relQuat := o.relativePose(cur, nb)
			nbP := o.Particles[nb]
			nbP.OffsetPos = curP.OffsetPos.Add(geom.RotateVec(relPos, repP.Orientation.Conj().Mul(curP.Orientation)))
			nbP.OffsetOrient = relQuat.Mul(curP.OffsetOrient).Normalized()
			queue = append(queue, nb)
		}
	}
}

// netForceTorque sums the external potential and every pair potential
// acting on particle idx.
func (o *Integrator) netForceTorque(idx int) (geom.Vec3, geom.Vec3) {
	p := o.Particles[idx]
	force, torque := o.External.ForceTorque(p.Position)
	for j, q := range o.Particles {
		if j == idx {
			continue
		}
		f := o.PairPot.Force(p.Position, q.Position)
		force = force.Add(f)
	}
	return force, torque
}

// relativePose returns the relative position (expressed in particle i's
// frame) and relative orientation of pair (i,j), per spec.md §4.3/§4.8.
func (o *Integrator) relativePose(i, j int) (geom.Vec3, geom.Quat) {
	pi, pj := o.Particles[i], o.Particles[j]
	sep := pj.Position.Sub(pi.Position)
	relPos := geom.RotateVec(sep, pi.Orientation.Conj())
	relQuat := pj.Orientation.Mul(pi.Orientation.Conj())
	return relPos, relQuat
}

// scheduleFromTransitionStates implements spec.md §4.8 step 3. When a pair
// re-enters the cutoff with no pending event, Cfg.Mode decides what
// "current" state drives the next Markov transition: CoreMSM reports the
// last state sampled for this pair (o.lastTransitionState) rather than
// the freshly computed section id, to avoid spurious transitions from
// noise near section boundaries; FullDiscretization always uses the live
// section (GLOSSARY "CoreMSM mode").
func (o *Integrator) scheduleFromTransitionStates() error {
	n := len(o.Particles)
	for i := 0; i < n; i++ {
		pi := o.Particles[i]
		if !pi.HasFreeSlot(o.Cfg.MaxValence) {
			continue
		}
		for j := i + 1; j < n; j++ {
			pj := o.Particles[j]
			if !pj.HasFreeSlot(o.Cfg.MaxValence) {
				continue
			}

			ev, has := o.events.GetEvent(i, j)
			key := canonPair(i, j)
			var current int
			switch {
			case !has:
				relPos, relQuat := o.relativePose(i, j)
				section := o.Partition.SectionOf(relPos, relQuat, o.Cfg.MaxBoundStates)
				if section == 0 {
					delete(o.lastTransitionState, key)
					continue
				}
				if o.Cfg.Mode == CoreMSM {
					if cached, ok := o.lastTransitionState[key]; ok {
						current = cached
					} else {
						current = section
					}
				} else {
					current = section
				}
				o.lastTransitionState[key] = current
			case ev.Kind == event.InTransition:
				current = ev.NextState
				o.events.RemoveEvent(i, j)
				o.lastTransitionState[key] = current
			default:
				continue
			}

			tau, next := o.Model.CalculateTransition(current, o.src)
			kind := event.Transition2Transition
			if next <= o.Cfg.MaxBoundStates {
				kind = event.Binding
			}
			o.events.AddEvent(event.Event{I: i, J: j, Kind: kind, Time: tau, NextState: next})
		}
	}
	return nil
}

// scheduleFromBoundStates implements spec.md §4.8 step 4.
func (o *Integrator) scheduleFromBoundStates() error {
	for i, pi := range o.Particles {
		for _, b := range pi.Bonds {
			j := b.Peer
			if j <= i {
				continue
			}
			if _, has := o.events.GetEvent(i, j); has {
				continue
			}
			tau, next := o.Model.CalculateTransition(b.State, o.src)
			kind := event.Unbinding
			if next <= o.Cfg.MaxBoundStates {
				kind = event.Bound2Bound
			}
			o.events.AddEvent(event.Event{I: i, J: j, Kind: kind, Time: tau, NextState: next})
		}
	}
	return nil
}

// fireReadyEvents implements spec.md §4.8 step 5, dispatching in
// scheduled-time order with (i,j)-lex tiebreak until no event is ready.
func (o *Integrator) fireReadyEvents() error {
	for {
		ev, ok := o.events.NextReady()
		if !ok {
			return nil
		}
		o.events.RemoveEvent(ev.I, ev.J)
		if err := o.fireEvent(ev); err != nil {
			return err
		}
	}
}

func (o *Integrator) fireEvent(ev event.Event) error {
	switch ev.Kind {
	case event.Binding:
		return o.fireBinding(ev)
	case event.Bound2Bound:
		return o.fireBound2Bound(ev)
	case event.Unbinding:
		return o.fireUnbinding(ev)
	case event.Transition2Transition:
		return o.fireTransition2Transition(ev)
	}
	return newPairError(LogicInvariant, o.Step, ev.I, ev.J, "unknown event kind %v", ev.Kind)
}

// withinBindingTolerance reports whether the live relative pose of i,j is
// still within Cfg.PositionTolerance/OrientationTolerance of the
// transition section last sampled for this pair (spec.md §6 "tolerances
// for bound-state membership"). A Binding event is scheduled from that
// sampled section but may not fire until several steps later, by which
// time further diffusion can have carried the pair away from the geometry
// the transition was actually sampled from; this guards fireBinding
// against committing a bond to a pair that no longer plausibly belongs to
// it. No cached section (e.g. the pair briefly left the cutoff) is taken
// as "nothing to compare against" and passes.
func (o *Integrator) withinBindingTolerance(i, j int) bool {
	cached, ok := o.lastTransitionState[canonPair(i, j)]
	if !ok {
		return true
	}
	posSec, quatSec := o.Partition.InverseSection(cached, o.Cfg.MaxBoundStates)

	relPos, relQuat := o.relativePose(i, j)
	norm := relPos.Norm()
	if norm >= o.Cfg.CutoffRadius {
		return false
	}
	center := o.Partition.Sphere().Center(posSec)
	if relPos.Sub(center.Scale(norm)).Norm() > o.Cfg.PositionTolerance {
		return false
	}

	rLo, rHi, _ := o.Partition.Quat().SectionIntervals(quatSec)
	ref := sampleRelQuat(o.Partition, quatSec, 0.5*(rLo+rHi))
	drift := geom.QuatToAxisAngle(relQuat.Mul(ref.Conj())).Norm()
	return drift <= o.Cfg.OrientationTolerance
}

func (o *Integrator) fireBinding(ev event.Event) error {
	pi, pj := o.Particles[ev.I], o.Particles[ev.J]
	if !o.withinBindingTolerance(ev.I, ev.J) {
		return nil
	}
	mergedID, _, _ := o.compounds.Bind(ev.I, ev.J, ev.NextState, pi.CompoundID, pj.CompoundID, pi.Position, pj.Position, pi.Orientation)

	pi.AddBond(ev.J, ev.NextState)
	pj.AddBond(ev.I, ev.NextState)

	idx := o.Model.GetMSMIndex(ev.NextState)
	pi.D, pi.DRot = o.Model.D[idx], o.Model.DRot[idx]
	pj.D, pj.DRot = o.Model.D[idx], o.Model.DRot[idx]

	o.assignCompoundID(mergedID)
	o.recomputeCompoundOffsets(mergedID)
	return nil
}

func (o *Integrator) fireBound2Bound(ev event.Event) error {
	pi, pj := o.Particles[ev.I], o.Particles[ev.J]
	pi.SetBondState(ev.J, ev.NextState)
	pj.SetBondState(ev.I, ev.NextState)
	idx := o.Model.GetMSMIndex(ev.NextState)
	pi.D, pi.DRot = o.Model.D[idx], o.Model.DRot[idx]
	pj.D, pj.DRot = o.Model.D[idx], o.Model.DRot[idx]
	return nil
}

func (o *Integrator) fireTransition2Transition(ev event.Event) error {
	o.events.AddEvent(event.Event{I: ev.I, J: ev.J, Kind: event.InTransition, Time: 0, NextState: ev.NextState})
	return nil
}

func (o *Integrator) fireUnbinding(ev event.Event) error {
	pi, pj := o.Particles[ev.I], o.Particles[ev.J]
	compoundID := pi.CompoundID
	if compoundID < 0 {
		compoundID = pj.CompoundID
	}

	pi.RemoveBond(ev.J)
	pj.RemoveBond(ev.I)

	if compoundID >= 0 {
		splitID, split, soloEmptied := o.compounds.Unbind(compoundID, ev.I, ev.J)
		if split {
			o.assignCompoundID(splitID)
			o.recomputeCompoundOffsets(splitID)
		}
		if soloEmptied {
			o.freeSoloMember(compoundID, splitID, ev.I, ev.J)
		}
	}

	// reposition particle j relative to i at a geometry consistent with
	// the exit transition section, per spec.md §4.8 step 5 "unbinding".
	posSec, quatSec := o.Partition.InverseSection(ev.NextState, o.Cfg.MaxBoundStates)
	dir := o.Partition.Sphere().Center(posSec)
	radius := o.src.Float64(0, o.Cfg.CutoffRadius)
	relPos := dir.Scale(radius)

	rLo, rHi, _ := o.Partition.Quat().SectionIntervals(quatSec)
	relQuat := sampleRelQuat(o.Partition, quatSec, 0.5*(rLo+rHi))

	pj.Position = pi.Position.Add(geom.RotateVec(relPos, pi.Orientation))
	pj.Orientation = relQuat.Mul(pi.Orientation).Normalized()
	pj.State = ev.NextState

	o.events.AddEvent(event.Event{I: ev.I, J: ev.J, Kind: event.InTransition, Time: 0, NextState: ev.NextState})
	return nil
}

// sampleRelQuat picks a representative relative quaternion for quatSec at
// radial coordinate rMid, the same construction
// disc.TestPartitionInverse uses to round-trip a section id.
func sampleRelQuat(po *disc.PosOrientPartition, quatSec int, rMid float64) geom.Quat {
	_, _, angSec := po.Quat().SectionIntervals(quatSec)
	axis := po.Quat().Angular().Center(angSec)
	vec := axis.Scale(rMid)
	w := 1 - vec.Dot(vec)
	if w < 0 {
		w = 0
	}
	return geom.Quat{W: math.Sqrt(w), X: vec.X, Y: vec.Y, Z: vec.Z}
}

// assignCompoundID rewrites CompoundID on every particle the registry
// currently lists as a member of compoundID.
func (o *Integrator) assignCompoundID(compoundID int) {
	c := o.compounds.Get(compoundID)
	if c == nil {
		return
	}
	for _, m := range c.Members {
		o.Particles[m].CompoundID = compoundID
		o.Particles[m].Active = c.Representative == m
	}
}

// freeSoloMember resets CompoundID/Active for whichever of i, j is no
// longer part of any compound after an unbind that emptied one side down
// to a single particle.
func (o *Integrator) freeSoloMember(originalCompoundID, splitID, i, j int) {
	for _, idx := range [...]int{i, j} {
		p := o.Particles[idx]
		stillIn := false
		if c := o.compounds.Get(originalCompoundID); c != nil && c.Has(idx) {
			stillIn = true
		}
		if c := o.compounds.Get(splitID); c != nil && c.Has(idx) {
			stillIn = true
		}
		if !stillIn {
			p.CompoundID = -1
			p.Active = true
			p.OffsetPos = geom.Vec3{}
			p.OffsetOrient = geom.Identity
		}
	}
}

// pruneUnrealizedEvents implements spec.md §4.8 step 6: discard any
// scheduled binding whose precondition (both particles still have a free
// binding slot) no longer holds after this step's firings.
func (o *Integrator) pruneUnrealizedEvents() {
	n := len(o.Particles)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ev, has := o.events.GetEvent(i, j)
			if !has || ev.Kind != event.Binding {
				continue
			}
			if !o.Particles[i].HasFreeSlot(o.Cfg.MaxValence) || !o.Particles[j].HasFreeSlot(o.Cfg.MaxValence) {
				o.events.RemoveEvent(i, j)
			}
		}
	}
}
