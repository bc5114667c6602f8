// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

// PosOrientPartition discretizes the relative position (direction only,
// via an inner SpherePartition) and relative orientation (via an inner
// QuatPartition) of a particle pair, with a hard cutoff radius beyond
// which the pair is reported unbound (section 0). Grounded on
// original_source/include/discretizations/positionOrientationPartition.hpp,
// spec.md §4.3.
type PosOrientPartition struct {
	Cutoff  float64
	NumPos  int // N: number of spherical sections for relative position
	R, M    int // radial shells x angular sections for relative quaternion
	sphere  *SpherePartition
	quat    *QuatPartition
}

// NewPosOrientPartition builds the composed partition. base is the bound
// states already occupy 1..B, so section numbers returned by SectionOf
// start at B+1; callers pass B in via baseIndex.
func NewPosOrientPartition(cutoff float64, numPos, R, M int) *PosOrientPartition {
	if cutoff <= 0 {
		chk.Panic("NewPosOrientPartition: cutoff must be positive, got %v", cutoff)
	}
	return &PosOrientPartition{
		Cutoff: cutoff,
		NumPos: numPos,
		R:      R,
		M:      M,
		sphere: NewSpherePartition(numPos),
		quat:   NewQuatPartition(R, M),
	}
}

// NumSections returns the total number of transition sections (excluding
// the unbound sentinel 0), N*R*M.
func (o *PosOrientPartition) NumSections() int {
	return o.NumPos * o.R * o.M
}

// SectionOf returns the section number for a relative position vector
// relPos (already rotated into particle 1's reference frame by the caller,
// i.e. relPos = particle1.Orientation.Conj() rotating the lab-frame
// separation) and a relative quaternion relQuat = q_j * q_i.Conj().
// baseIndex is the number of bound states B; the returned section is
// offset so indices start at B+1. ‖relPos‖ >= cutoff returns 0 (unbound).
func (o *PosOrientPartition) SectionOf(relPos geom.Vec3, relQuat geom.Quat, baseIndex int) int {
	if relPos.Norm() >= o.Cutoff {
		return 0
	}
	posSec := o.sphere.SectionOf(relPos)
	quatSec := o.quat.SectionOf(relQuat)
	return baseIndex + (quatSec-1)*o.NumPos + posSec
}

// InverseSection decomposes a section number k (baseIndex+1 ..
// baseIndex+NumSections()) back into (posSec, quatSec), the pure
// arithmetic inverse of SectionOf's offset combination.
func (o *PosOrientPartition) InverseSection(k, baseIndex int) (posSec, quatSec int) {
	local := k - baseIndex
	if local < 1 || local > o.NumSections() {
		chk.Panic("PosOrientPartition.InverseSection: section %d out of range", k)
	}
	posSec = (local-1)%o.NumPos + 1
	quatSec = (local-1)/o.NumPos + 1
	return
}

// Sphere exposes the inner sphere partition (for bounds lookups and
// sampling a geometry consistent with an exit section after unbinding).
func (o *PosOrientPartition) Sphere() *SpherePartition { return o.sphere }

// Quat exposes the inner quaternion partition.
func (o *PosOrientPartition) Quat() *QuatPartition { return o.quat }
