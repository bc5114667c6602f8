// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compound tracks groups of bound particles as single rigid
// aggregates. Grounded on
// original_source/src/integrators/msmrdMultiParticleIntegrator.cpp's
// particleCompoundsVector/updateParticleComplexesVector bookkeeping and
// spec.md §4.9. Connectivity on unbind is resolved with a plain-Go BFS
// over each compound's bound-pair map rather than
// github.com/katalvlaran/lvlath/core's graph type, because only that
// package's matrix facade was retrieved into the example pack; using an
// unretrieved core.Graph traversal API here would be guessing at a
// signature never seen (see DESIGN.md).
package compound

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/markovmodel/msmrd2/geom"
)

// PairKey canonicalizes an unordered member pair within a compound.
type PairKey struct{ I, J int }

func canon(i, j int) PairKey {
	if i < j {
		return PairKey{i, j}
	}
	return PairKey{j, i}
}

// Compound is one rigid aggregate of bound particles.
type Compound struct {
	ID             int
	Members        []int // particle indices, in join order
	BoundPairs     map[PairKey]int
	Representative int // particle index whose frame the compound reports position/orientation in
	Active         bool

	// Position is the size-weighted average position of the compound's
	// parts, recomputed on every merge/growth (spec.md §4.9: "compute the
	// new compound's position as the size-weighted average of the merging
	// parts"). RefPosition/RefOrientation are set once, at creation, to
	// particle[i].position - 1/2*Δr/|Δr| and particle[i].orientation, and
	// are what a caller reconstructing individual member poses anchors to.
	Position       geom.Vec3
	RefPosition    geom.Vec3
	RefOrientation geom.Quat
}

// weightedAverage returns the size-weighted average of two positions, each
// representing na and nb underlying particles respectively. Uses
// la.VecAdd2 (res = a*u + b*v) the way driver.go accumulates strain
// increments, scratch-allocated via la.MatAlloc.
func weightedAverage(pa geom.Vec3, na int, pb geom.Vec3, nb int) geom.Vec3 {
	total := float64(na + nb)
	u := []float64{pa.X, pa.Y, pa.Z}
	v := []float64{pb.X, pb.Y, pb.Z}
	scratch := la.MatAlloc(1, 3)
	la.VecAdd2(scratch[0], float64(na)/total, u, float64(nb)/total, v)
	return geom.Vec3{X: scratch[0][0], Y: scratch[0][1], Z: scratch[0][2]}
}

func newCompound(id int) *Compound {
	return &Compound{
		ID:         id,
		BoundPairs: make(map[PairKey]int),
		Active:     true,
	}
}

func (c *Compound) hasMember(p int) bool {
	for _, m := range c.Members {
		if m == p {
			return true
		}
	}
	return false
}

// Has reports whether particle p is currently a member of c.
func (c *Compound) Has(p int) bool {
	return c.hasMember(p)
}

func (c *Compound) addMember(p int) {
	if !c.hasMember(p) {
		c.Members = append(c.Members, p)
	}
}

func (c *Compound) removeMember(p int) {
	for i, m := range c.Members {
		if m == p {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return
		}
	}
}

// Neighbors returns every member bound to p within c.
func (c *Compound) Neighbors(p int) []int {
	return c.neighbors(p)
}

// neighbors returns every member bound to p within this compound.
func (c *Compound) neighbors(p int) []int {
	var out []int
	for k := range c.BoundPairs {
		if k.I == p {
			out = append(out, k.J)
		} else if k.J == p {
			out = append(out, k.I)
		}
	}
	return out
}

// Registry owns every live Compound, indexed by the CompoundID stored on
// each particle.
type Registry struct {
	compounds map[int]*Compound
	nextID    int
}

// NewRegistry returns an empty compound registry.
func NewRegistry() *Registry {
	return &Registry{compounds: make(map[int]*Compound)}
}

// Get returns the compound with id, or nil if none exists (or it has been
// compacted away).
func (r *Registry) Get(id int) *Compound {
	return r.compounds[id]
}

// Bind records a new bond between particles i and j in bound state
// endState, creating, growing or merging compounds as needed (spec.md
// §4.9): if neither particle belongs to a compound, a new one is formed;
// if exactly one does, the other joins it; if both already belong to
// distinct compounds, the two are merged into one.
func (r *Registry) Bind(i, j, endState, iCompoundID, jCompoundID int, posI, posJ geom.Vec3, orientI geom.Quat) (mergedID int, absorbedID int, hadAbsorb bool) {
	switch {
	case iCompoundID < 0 && jCompoundID < 0:
		id := r.nextID
		r.nextID++
		c := newCompound(id)
		c.addMember(i)
		c.addMember(j)
		c.Representative = i
		c.BoundPairs[canon(i, j)] = endState
		c.Position = weightedAverage(posI, 1, posJ, 1)
		dr := posJ.Sub(posI)
		c.RefPosition = posI.Sub(dr.Normalized().Scale(0.5))
		c.RefOrientation = orientI
		r.compounds[id] = c
		return id, -1, false

	case iCompoundID >= 0 && jCompoundID < 0:
		c := r.compounds[iCompoundID]
		n := len(c.Members)
		c.addMember(j)
		c.BoundPairs[canon(i, j)] = endState
		c.Position = weightedAverage(c.Position, n, posJ, 1)
		return iCompoundID, -1, false

	case iCompoundID < 0 && jCompoundID >= 0:
		c := r.compounds[jCompoundID]
		n := len(c.Members)
		c.addMember(i)
		c.BoundPairs[canon(i, j)] = endState
		c.Position = weightedAverage(c.Position, n, posI, 1)
		return jCompoundID, -1, false

	default:
		if iCompoundID == jCompoundID {
			c := r.compounds[iCompoundID]
			c.BoundPairs[canon(i, j)] = endState
			return iCompoundID, -1, false
		}
		keep := r.compounds[iCompoundID]
		absorbed := r.compounds[jCompoundID]
		keep.Position = weightedAverage(keep.Position, len(keep.Members), absorbed.Position, len(absorbed.Members))
		for _, m := range absorbed.Members {
			keep.addMember(m)
		}
		for k, s := range absorbed.BoundPairs {
			keep.BoundPairs[k] = s
		}
		keep.BoundPairs[canon(i, j)] = endState
		delete(r.compounds, jCompoundID)
		return iCompoundID, jCompoundID, true
	}
}

// Unbind removes the bond between i and j from their shared compound. If
// doing so splits the compound into two connected components, a fresh
// compound is created to hold the component that no longer contains the
// representative, and its id is returned as splitID (ok=true, splitID
// >= 0). If either resulting component is left with a single member, that
// side's compound is deleted entirely and soloEmptied is true; the caller
// must reset CompoundID to -1 on whichever particle(s) ended up without a
// live compound. splitID is -1 whenever ok is false.
func (r *Registry) Unbind(compoundID, i, j int) (splitID int, ok bool, soloEmptied bool) {
	c := r.compounds[compoundID]
	if c == nil {
		chk.Panic("Unbind: no such compound %d", compoundID)
	}
	delete(c.BoundPairs, canon(i, j))

	reachable := bfs(c, c.Representative)
	if len(reachable) == len(c.Members) {
		// still one connected component
		if len(c.Members) == 1 {
			delete(r.compounds, compoundID)
			return -1, false, true
		}
		return -1, false, false
	}

	// split: carve out the component not containing the representative,
	// snapshotting its bond pairs before pruning c's own map
	var stay, leave []int
	for _, m := range c.Members {
		if reachable[m] {
			stay = append(stay, m)
		} else {
			leave = append(leave, m)
		}
	}
	leavePairs := make(map[PairKey]int)
	for k, s := range c.BoundPairs {
		if !reachable[k.I] && !reachable[k.J] {
			leavePairs[k] = s
		}
	}
	for k := range c.BoundPairs {
		if !reachable[k.I] || !reachable[k.J] {
			delete(c.BoundPairs, k)
		}
	}
	c.Members = stay

	staySolo := len(stay) == 1
	if staySolo {
		delete(r.compounds, compoundID)
	}

	if len(leave) == 1 {
		return -1, false, true
	}

	id := r.nextID
	r.nextID++
	nc := newCompound(id)
	nc.Members = leave
	nc.Representative = leave[0]
	nc.BoundPairs = leavePairs
	r.compounds[id] = nc
	return id, true, len(stay) == 1
}

// bfs returns the set of members reachable from start within c, using its
// current BoundPairs as edges.
func bfs(c *Compound, start int) map[int]bool {
	visited := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range c.neighbors(cur) {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return visited
}

// Compact sweeps every compound and drops any whose Members slice has
// shrunk to zero or one entry, a periodic cleanup mirroring
// updateParticleComplexesVector's compaction pass (spec.md §4.9).
func (r *Registry) Compact() {
	for id, c := range r.compounds {
		if len(c.Members) <= 1 {
			delete(r.compounds, id)
		}
	}
}

// Len returns the number of live compounds.
func (r *Registry) Len() int {
	return len(r.compounds)
}
