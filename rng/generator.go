// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng implements the seedable Gaussian/uniform source the core
// consumes. Seed = -1 requests a nondeterministic device seed; any other
// seed gives byte-reproducible draws, which is why the generator is an
// explicit object borrowed by callers rather than package-level state (see
// DESIGN.md).
package rng

import (
	"math"
	"math/rand"
	"time"

	"github.com/markovmodel/msmrd2/geom"
)

// Source is the draw interface the integrator and propagators consume.
type Source interface {
	Normal3D(mean, sigma float64) geom.Vec3
	Float64(lo, hi float64) float64
	UniformInShell(innerRadius, outerRadius float64) geom.Vec3
	UniformOnSphere() geom.Vec3
}

// Generator is the concrete, explicitly-seeded Source implementation.
type Generator struct {
	r *rand.Rand
}

// NewGenerator returns a Generator seeded with seed; seed == -1 uses a
// device/time-based seed (nondeterministic).
func NewGenerator(seed int64) *Generator {
	if seed == -1 {
		seed = time.Now().UnixNano()
	}
	return &Generator{r: rand.New(rand.NewSource(seed))}
}

// Normal3D draws three independent samples from 𝒩(mean, sigma²), one per
// component, in x,y,z order.
func (g *Generator) Normal3D(mean, sigma float64) geom.Vec3 {
	x := mean + sigma*g.r.NormFloat64()
	y := mean + sigma*g.r.NormFloat64()
	z := mean + sigma*g.r.NormFloat64()
	return geom.Vec3{X: x, Y: y, Z: z}
}

// Float64 draws a uniform sample in [lo, hi).
func (g *Generator) Float64(lo, hi float64) float64 {
	return lo + (hi-lo)*g.r.Float64()
}

// UniformOnSphere draws a point uniformly distributed on the unit sphere
// via normalized Gaussian coordinates (Marsaglia's method).
func (g *Generator) UniformOnSphere() geom.Vec3 {
	for {
		v := g.Normal3D(0, 1)
		if !v.IsZero() {
			return v.Normalized()
		}
	}
}

// UniformInShell draws a point uniformly distributed by volume inside the
// spherical shell innerRadius ≤ ‖v‖ ≤ outerRadius.
func (g *Generator) UniformInShell(innerRadius, outerRadius float64) geom.Vec3 {
	dir := g.UniformOnSphere()
	u := g.Float64(0, 1)
	r3 := innerRadius*innerRadius*innerRadius + u*(outerRadius*outerRadius*outerRadius-innerRadius*innerRadius*innerRadius)
	r := math.Cbrt(r3)
	return dir.Scale(r)
}
