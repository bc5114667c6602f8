// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

// QuatPartition identifies unit quaternions with points of the 3-ball via
// the vector part (the scalar part is recovered as √(1-‖v‖²) with the
// convention that the scalar is non-negative, so antipodal quaternions
// collapse onto the same point). The ball is partitioned into R radial
// shells of equal thickness, each divided into M angular sections by an
// inner SpherePartition(M). Section index = (shell-1)*M + angular index,
// spec.md §4.2.
type QuatPartition struct {
	R, M    int
	angular *SpherePartition
}

// NewQuatPartition builds a partition with R radial shells and M angular
// sections per shell.
func NewQuatPartition(R, M int) *QuatPartition {
	if R < 1 || M < 1 {
		chk.Panic("NewQuatPartition: R and M must be >= 1, got R=%d M=%d", R, M)
	}
	return &QuatPartition{R: R, M: M, angular: NewSpherePartition(M)}
}

// canonicalVector returns the vector part of q with the sign convention
// that collapses antipodal quaternions: if the scalar part is negative,
// use -q instead.
func canonicalVector(q geom.Quat) geom.Vec3 {
	q = q.Normalized()
	if q.W < 0 {
		q = geom.Quat{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
	}
	return q.Vector()
}

// SectionOf returns the 1..(R*M) section containing q.
func (o *QuatPartition) SectionOf(q geom.Quat) int {
	v := canonicalVector(q)
	r := v.Norm()
	if r >= 1 {
		r = 1 - 1e-12
	}
	shell := int(math.Floor(r * float64(o.R)))
	if shell >= o.R {
		shell = o.R - 1
	}
	var angSec int
	if v.IsZero() {
		angSec = 1
	} else {
		angSec = o.angular.SectionOf(v)
	}
	return shell*o.M + angSec
}

// SectionIntervals returns the radial bounds (rLo, rHi) and the angular
// section index (1..M) for section k (1..R*M).
func (o *QuatPartition) SectionIntervals(k int) (rLo, rHi float64, angSec int) {
	if k < 1 || k > o.R*o.M {
		chk.Panic("QuatPartition.SectionIntervals: section %d out of range 1..%d", k, o.R*o.M)
	}
	shell := (k - 1) / o.M
	angSec = (k-1)%o.M + 1
	rLo = float64(shell) / float64(o.R)
	rHi = float64(shell+1) / float64(o.R)
	return
}

// Angular exposes the inner SpherePartition(M) used to discretize the
// angular component of each radial shell, for callers that need to
// reconstruct a representative direction for an angular section (e.g.
// sampling a concrete quaternion for a given section after unbinding).
func (o *QuatPartition) Angular() *SpherePartition { return o.angular }
