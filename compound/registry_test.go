// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compound

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

var zeroQuat = geom.Identity

// TestUnbindPreservesChainConnectivity is end-to-end scenario 4 in
// spec.md §8: particles 1-2-3-4 bound in a chain; cutting the 2-3 bond
// splits the compound into {1,2} and {3,4}, each still internally
// connected.
func TestUnbindPreservesChainConnectivity(tst *testing.T) {

	chk.PrintTitle("UnbindPreservesChainConnectivity")

	r := NewRegistry()
	id, _, _ := r.Bind(1, 2, 1, -1, -1, geom.Vec3{}, geom.Vec3{X: 1}, zeroQuat)
	id, _, _ = r.Bind(2, 3, 1, id, -1, geom.Vec3{X: 1}, geom.Vec3{X: 2}, zeroQuat)
	id, _, _ = r.Bind(3, 4, 1, id, -1, geom.Vec3{X: 2}, geom.Vec3{X: 3}, zeroQuat)

	c := r.Get(id)
	if len(c.Members) != 4 {
		tst.Fatalf("expected 4 members before split, got %d", len(c.Members))
	}

	splitID, ok, _ := r.Unbind(id, 2, 3)
	if !ok {
		tst.Fatal("expected the chain to split after cutting the middle bond")
	}

	stay := r.Get(id)
	split := r.Get(splitID)
	if stay == nil || split == nil {
		tst.Fatal("expected both resulting compounds to exist")
	}
	if len(stay.Members) != 2 || len(split.Members) != 2 {
		tst.Fatalf("expected a 2/2 split, got %d/%d", len(stay.Members), len(split.Members))
	}

	checkConnected(tst, stay)
	checkConnected(tst, split)
}

func checkConnected(tst *testing.T, c *Compound) {
	tst.Helper()
	reachable := bfs(c, c.Members[0])
	if len(reachable) != len(c.Members) {
		tst.Fatalf("compound %d is not fully connected from its first member: reachable=%v members=%v", c.ID, reachable, c.Members)
	}
}

func TestBindMergesTwoCompounds(tst *testing.T) {

	chk.PrintTitle("BindMergesTwoCompounds")

	r := NewRegistry()
	id1, _, _ := r.Bind(1, 2, 1, -1, -1, geom.Vec3{}, geom.Vec3{X: 1}, zeroQuat)
	id2, _, _ := r.Bind(3, 4, 1, -1, -1, geom.Vec3{X: 2}, geom.Vec3{X: 3}, zeroQuat)

	merged, absorbed, hadAbsorb := r.Bind(2, 3, 1, id1, id2, geom.Vec3{X: 1}, geom.Vec3{X: 2}, zeroQuat)
	if !hadAbsorb {
		tst.Fatal("expected merging two distinct compounds")
	}
	if merged != id1 || absorbed != id2 {
		tst.Fatalf("expected merged=%d absorbed=%d, got merged=%d absorbed=%d", id1, id2, merged, absorbed)
	}
	if r.Get(id2) != nil {
		tst.Fatal("absorbed compound should no longer exist")
	}
	c := r.Get(merged)
	if len(c.Members) != 4 {
		tst.Fatalf("expected 4 members after merge, got %d", len(c.Members))
	}
	// {1,2} averaged to X=0.5, {3,4} averaged to X=2.5; merging 2 parts of
	// equal size into one should land on their midpoint, X=1.5.
	if math.Abs(c.Position.X-1.5) > 1e-12 {
		tst.Fatalf("expected merged compound position X=1.5, got %v", c.Position.X)
	}
}

func TestCompactDropsEmptiedCompounds(tst *testing.T) {

	chk.PrintTitle("CompactDropsEmptiedCompounds")

	r := NewRegistry()
	id, _, _ := r.Bind(1, 2, 1, -1, -1, geom.Vec3{}, geom.Vec3{X: 1}, zeroQuat)
	c := r.Get(id)
	c.Members = []int{1}
	r.Compact()
	if r.Get(id) != nil {
		tst.Fatal("expected single-member compound to be compacted away")
	}
}
