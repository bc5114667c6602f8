// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package potential

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
	"github.com/markovmodel/msmrd2/rng"
)

// Gaussians3D is an External potential built from a sum of Gaussian wells
// with per-axis standard deviations, placed randomly inside a sphere of
// radius maxrad,
// grounded on original_source/include/potentials/gaussians3D.hpp.
type Gaussians3D struct {
	ScaleFactor float64
	Minima      []geom.Vec3
	StdDevs     []geom.Vec3
}

// NewGaussians3D draws nminima well centers uniformly inside a sphere of
// radius maxrad from src, each with a per-axis standard-deviation vector
// drawn from the same shell-uniform distribution scaled down by a factor
// of 10 (components enter as absolute values)
// (mirroring the stddevs construction the original performs at
// construction time from the same random stream).
func NewGaussians3D(nminima int, maxrad, scaleFactor float64, src rng.Source) *Gaussians3D {
	if nminima < 1 {
		chk.Panic("NewGaussians3D: nminima must be >= 1, got %d", nminima)
	}
	g := &Gaussians3D{ScaleFactor: scaleFactor}
	for i := 0; i < nminima; i++ {
		g.Minima = append(g.Minima, src.UniformInShell(0, maxrad))
		g.StdDevs = append(g.StdDevs, src.UniformInShell(0, maxrad).Scale(0.1))
	}
	return g
}

// Evaluate returns the summed Gaussian-well potential at pos.
func (g *Gaussians3D) Evaluate(pos geom.Vec3) float64 {
	v := 0.0
	for i, mu := range g.Minima {
		v += g.wellValue(pos, mu, g.StdDevs[i])
	}
	return v
}

func (g *Gaussians3D) wellValue(pos, mu, sigma geom.Vec3) float64 {
	dx, dy, dz := pos.X-mu.X, pos.Y-mu.Y, pos.Z-mu.Z
	sx, sy, sz := absOrFloor(sigma.X), absOrFloor(sigma.Y), absOrFloor(sigma.Z)
	exponent := -(dx*dx/(2*sx*sx) + dy*dy/(2*sy*sy) + dz*dz/(2*sz*sz))
	return -g.ScaleFactor * math.Exp(exponent)
}

func absOrFloor(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1e-8
	}
	return math.Abs(x)
}

// ForceTorque returns the negative gradient of Evaluate as the force, and
// zero torque (Gaussians3D particles carry no orientation).
func (g *Gaussians3D) ForceTorque(pos geom.Vec3) (geom.Vec3, geom.Vec3) {
	const h = 1e-6
	fx := -(g.Evaluate(pos.Add(geom.Vec3{X: h})) - g.Evaluate(pos.Add(geom.Vec3{X: -h}))) / (2 * h)
	fy := -(g.Evaluate(pos.Add(geom.Vec3{Y: h})) - g.Evaluate(pos.Add(geom.Vec3{Y: -h}))) / (2 * h)
	fz := -(g.Evaluate(pos.Add(geom.Vec3{Z: h})) - g.Evaluate(pos.Add(geom.Vec3{Z: -h}))) / (2 * h)
	return geom.Vec3{X: fx, Y: fy, Z: fz}, geom.Vec3{}
}
