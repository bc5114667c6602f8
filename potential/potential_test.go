// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package potential

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

func TestHarmonicRepulsionVanishesBeyondRadius(tst *testing.T) {

	chk.PrintTitle("HarmonicRepulsionVanishesBeyondRadius")

	h := NewHarmonicRepulsion(1.0, 10.0)
	pos1 := geom.Vec3{X: 0}
	pos2 := geom.Vec3{X: 2.0}
	if h.Evaluate(pos1, pos2) != 0 {
		tst.Error("expected zero potential beyond the repulsion radius")
	}
	if f := h.Force(pos1, pos2); !f.IsZero() {
		tst.Errorf("expected zero force beyond the repulsion radius, got %v", f)
	}
}

func TestHarmonicRepulsionPushesApart(tst *testing.T) {

	chk.PrintTitle("HarmonicRepulsionPushesApart")

	h := NewHarmonicRepulsion(1.0, 10.0)
	pos1 := geom.Vec3{X: 0}
	pos2 := geom.Vec3{X: 0.5}
	if v := h.Evaluate(pos1, pos2); v <= 0 {
		tst.Errorf("expected positive potential energy inside the repulsion radius, got %v", v)
	}
	f := h.Force(pos1, pos2)
	if f.X >= 0 {
		tst.Errorf("expected particle 1 pushed away from particle 2 (negative X), got %v", f.X)
	}
}

func TestNullPotentialsAreZero(tst *testing.T) {

	chk.PrintTitle("NullPotentialsAreZero")

	var ext External = NullExternal{}
	if ext.Evaluate(geom.Vec3{X: 1, Y: 2, Z: 3}) != 0 {
		tst.Error("expected NullExternal.Evaluate to be zero")
	}
	f, tq := ext.ForceTorque(geom.Vec3{})
	if !f.IsZero() || !tq.IsZero() {
		tst.Error("expected NullExternal.ForceTorque to be zero")
	}

	var pair Pair = NullPair{}
	if pair.Evaluate(geom.Vec3{}, geom.Vec3{X: 1}) != 0 {
		tst.Error("expected NullPair.Evaluate to be zero")
	}
}
