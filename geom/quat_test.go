// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func TestAxisAngleRoundTrip(tst *testing.T) {

	chk.PrintTitle("AxisAngleRoundTrip")

	cases := []Vec3{
		{0.3, 0, 0},
		{0, 0.7, 0},
		{0, 0, 1.2},
		{0.5, -0.4, 0.9},
	}
	for _, dphi := range cases {
		q := AxisAngleToQuat(dphi)
		back := QuatToAxisAngle(q)
		chk.AnaNum(tst, "‖dphi‖", 1e-9, dphi.Norm(), back.Norm(), false)
		// axis recovered up to sign only when angle>0, so compare normalized
		// axes by absolute dot product
		a := dphi.Normalized()
		b := back.Normalized()
		dot := math.Abs(a.Dot(b))
		if dot < 1-1e-9 {
			tst.Errorf("axis mismatch: dphi=%v back=%v dot=%v", dphi, back, dot)
		}
	}
}

func TestQuatMulConjIsIdentity(tst *testing.T) {

	chk.PrintTitle("QuatMulConjIsIdentity")

	q := AxisAngleToQuat(Vec3{0.4, 0.1, -0.2}).Normalized()
	r := q.Mul(q.Conj())
	chk.AnaNum(tst, "W", 1e-12, r.W, 1, false)
	chk.AnaNum(tst, "X", 1e-12, r.X, 0, false)
	chk.AnaNum(tst, "Y", 1e-12, r.Y, 0, false)
	chk.AnaNum(tst, "Z", 1e-12, r.Z, 0, false)
}

func TestRotateVecPreservesNorm(tst *testing.T) {

	chk.PrintTitle("RotateVecPreservesNorm")

	q := AxisAngleToQuat(Vec3{0.2, 0.9, -0.3}).Normalized()
	v := Vec3{1, 2, 3}
	rv := RotateVec(v, q)
	chk.AnaNum(tst, "norm", 1e-9, v.Norm(), rv.Norm(), false)
}
