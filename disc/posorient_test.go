// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

// TestPartitionInverse is end-to-end scenario 5 in spec.md §8: for
// N=6, R=4, M=5, cutoff=2.0, every section id k in 1..(6*4*5) satisfies
// sectionOf(centerFromInverse(k)) = k.
func TestPartitionInverse(tst *testing.T) {

	chk.PrintTitle("PartitionInverse")

	const baseIndex = 0 // no bound states offset for this isolated test
	po := NewPosOrientPartition(2.0, 6, 4, 5)
	total := po.NumSections()
	if total != 6*4*5 {
		tst.Fatalf("expected %d sections, got %d", 6*4*5, total)
	}

	for k := baseIndex + 1; k <= baseIndex+total; k++ {
		posSec, quatSec := po.InverseSection(k, baseIndex)

		dir := po.Sphere().Center(posSec)
		relPos := dir.Scale(1.0) // any radius within cutoff maps to the same posSec

		rLo, rHi, angSec := po.Quat().SectionIntervals(quatSec)
		rMid := 0.5 * (rLo + rHi)
		axis := po.Quat().angular.Center(angSec)
		vec := axis.Scale(rMid)
		w := 1 - vec.Dot(vec)
		if w < 0 {
			w = 0
		}
		relQuat := geom.Quat{W: math.Sqrt(w), X: vec.X, Y: vec.Y, Z: vec.Z}

		got := po.SectionOf(relPos, relQuat, baseIndex)
		if got != k {
			tst.Errorf("section %d: round trip gave %d (posSec=%d quatSec=%d)", k, got, posSec, quatSec)
		}
	}
}
