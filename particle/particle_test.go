// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package particle

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

func TestBondAddRemoveRoundTrip(tst *testing.T) {

	chk.PrintTitle("BondAddRemoveRoundTrip")

	p := New(geom.Vec3{}, 1, 1, Point)
	p.AddBond(3, 7)
	p.AddBond(1, 2)
	if len(p.Bonds) != 2 {
		tst.Fatalf("expected 2 bonds, got %d", len(p.Bonds))
	}
	p.RemoveBond(3)
	if len(p.Bonds) != 1 || p.Bonds[0].Peer != 1 {
		tst.Fatalf("unexpected bonds after removal: %v", p.Bonds)
	}
	p.RemoveBond(1)
	if len(p.Bonds) != 0 {
		tst.Fatalf("expected no bonds left, got %v", p.Bonds)
	}
}

func TestHasFreeSlot(tst *testing.T) {

	chk.PrintTitle("HasFreeSlot")

	p := New(geom.Vec3{}, 1, 1, Point)
	if !p.HasFreeSlot(2) {
		tst.Error("fresh particle should have a free slot")
	}
	p.AddBond(1, 1)
	if !p.HasFreeSlot(2) {
		tst.Error("particle with 1/2 bonds should have a free slot")
	}
	p.AddBond(2, 1)
	if p.HasFreeSlot(2) {
		tst.Error("particle with 2/2 bonds should not have a free slot")
	}
}
