// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package particle holds the per-particle state the integrator mutates:
// position, orientation, diffusion coefficients, MSM state and the
// bound-pair list. Grounded on original_source/include/msm.hpp's
// particleMS and the boundList/boundStates bookkeeping in
// original_source/src/integrators/msmrdMultiParticleIntegrator.cpp,
// collapsed per Design Note §9 into one structurally-consistent slice.
package particle

import "github.com/markovmodel/msmrd2/geom"

// BodyType selects which force/torque contract (package potential) a
// particle routes through.
type BodyType int

const (
	Point BodyType = iota
	Rod
	RigidSolid
)

func (t BodyType) String() string {
	switch t {
	case Point:
		return "point"
	case Rod:
		return "rod"
	case RigidSolid:
		return "rigidsolid"
	}
	return "unknown"
}

// Bond is one entry of a particle's bound-pair list: the peer particle
// index and the bound-state id shared with that peer. Replacing the
// spec's parallel boundList/boundStates with one slice of pairs makes the
// "same length" invariant structural instead of something callers must
// maintain by hand.
type Bond struct {
	Peer  int
	State int
}

// Particle is one rigid body tracked by the integrator.
type Particle struct {
	Position    geom.Vec3
	Orientation geom.Quat
	OrientVec   geom.Vec3 // rod axis, meaningful only when BodyType == Rod
	D, DRot     float64
	State       int // current MSM state index
	BodyType    BodyType
	Active      bool // false while the particle is a non-representative compound member
	Bonds       []Bond
	CompoundID  int // -1 when the particle belongs to no compound

	// OffsetPos/OffsetOrient are this particle's pose relative to its
	// compound representative's frame (identity for the representative
	// itself, and meaningless while CompoundID < 0). Fixed in the body
	// frame between topology changes; a non-representative member is
	// "pinned" to the compound by reconstructing its absolute pose from
	// the representative's current pose plus this fixed offset every step
	// (spec.md §4.8 step 1: "other members are pinned to its body frame").
	OffsetPos    geom.Vec3
	OffsetOrient geom.Quat

	// Markov-switching bookkeeping (spec.md §4.6)
	Lagtime       float64
	PropagateTMSM bool
}

// New returns an active, unbound particle with identity orientation.
func New(pos geom.Vec3, d, drot float64, bt BodyType) *Particle {
	return &Particle{
		Position:     pos,
		Orientation:  geom.Identity,
		D:            d,
		DRot:         drot,
		BodyType:     bt,
		Active:       true,
		CompoundID:   -1,
		OffsetOrient: geom.Identity,
	}
}

// IsBound reports whether the particle currently has any bound peer.
func (p *Particle) IsBound() bool {
	return len(p.Bonds) > 0
}

// HasFreeSlot reports whether the particle can accept another bond, given
// maxValence simultaneous bound peers (spec.md §4.8 step 3: "less than the
// particle's max binding valence").
func (p *Particle) HasFreeSlot(maxValence int) bool {
	return len(p.Bonds) < maxValence
}

// BondTo returns the Bond to peer, and whether one exists.
func (p *Particle) BondTo(peer int) (Bond, bool) {
	for _, b := range p.Bonds {
		if b.Peer == peer {
			return b, true
		}
	}
	return Bond{}, false
}

// AddBond appends a new bond to peer in the given bound state.
func (p *Particle) AddBond(peer, state int) {
	p.Bonds = append(p.Bonds, Bond{Peer: peer, State: state})
}

// RemoveBond deletes the bond to peer, if any.
func (p *Particle) RemoveBond(peer int) {
	for i, b := range p.Bonds {
		if b.Peer == peer {
			p.Bonds = append(p.Bonds[:i], p.Bonds[i+1:]...)
			return
		}
	}
}

// SetBondState updates the bound-state id recorded for the bond to peer.
func (p *Particle) SetBondState(peer, state int) {
	for i := range p.Bonds {
		if p.Bonds[i].Peer == peer {
			p.Bonds[i].State = state
			return
		}
	}
}
