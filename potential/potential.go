// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package potential declares the force/torque contracts the Langevin
// propagator evaluates each step, and the zero-force defaults used when a
// simulation declares no explicit interaction. Grounded on
// original_source/include/potentials/potentials.hpp's externalPotential /
// pairPotential / rodPairPotential hierarchy and spec.md §4.5's
// orientation-parameterized capability split (Design Note §9: one general
// orientation-aware interface rather than the original's three
// template-variadic forms).
package potential

import "github.com/markovmodel/msmrd2/geom"

// External is a single-particle potential with no orientation dependence
// (point particles).
type External interface {
	Evaluate(pos geom.Vec3) float64
	ForceTorque(pos geom.Vec3) (force, torque geom.Vec3)
}

// RodExternal is a single-particle potential whose particle carries a rod
// axis u instead of a full quaternion orientation.
type RodExternal interface {
	Evaluate(pos geom.Vec3, u geom.Vec3) float64
	ForceTorque(pos geom.Vec3, u geom.Vec3) (force, torque geom.Vec3)
}

// Pair is a two-particle potential with no orientation dependence.
type Pair interface {
	Evaluate(pos1, pos2 geom.Vec3) float64
	Force(pos1, pos2 geom.Vec3) geom.Vec3
}

// RodPair is a two-particle potential between particles each carrying a
// rod axis.
type RodPair interface {
	Evaluate(pos1, pos2, u1, u2 geom.Vec3) float64
	ForceTorque(pos1, pos2, u1, u2 geom.Vec3) (force1, torque1, force2, torque2 geom.Vec3)
}

// NullExternal is the zero-force, zero-torque External default.
type NullExternal struct{}

func (NullExternal) Evaluate(pos geom.Vec3) float64 { return 0 }
func (NullExternal) ForceTorque(pos geom.Vec3) (geom.Vec3, geom.Vec3) {
	return geom.Vec3{}, geom.Vec3{}
}

// NullRodExternal is the zero-force, zero-torque RodExternal default.
type NullRodExternal struct{}

func (NullRodExternal) Evaluate(pos, u geom.Vec3) float64 { return 0 }
func (NullRodExternal) ForceTorque(pos, u geom.Vec3) (geom.Vec3, geom.Vec3) {
	return geom.Vec3{}, geom.Vec3{}
}

// NullPair is the zero-force Pair default.
type NullPair struct{}

func (NullPair) Evaluate(pos1, pos2 geom.Vec3) float64 { return 0 }
func (NullPair) Force(pos1, pos2 geom.Vec3) geom.Vec3  { return geom.Vec3{} }

// NullRodPair is the zero-force, zero-torque RodPair default.
type NullRodPair struct{}

func (NullRodPair) Evaluate(pos1, pos2, u1, u2 geom.Vec3) float64 { return 0 }
func (NullRodPair) ForceTorque(pos1, pos2, u1, u2 geom.Vec3) (geom.Vec3, geom.Vec3, geom.Vec3, geom.Vec3) {
	return geom.Vec3{}, geom.Vec3{}, geom.Vec3{}, geom.Vec3{}
}
