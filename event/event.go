// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event tracks the scheduled per-pair Markov events the
// integrator fires against: one event slot per unordered particle pair,
// time-indexed so the next event to fire can be found without scanning
// every pair twice. Grounded on
// original_source/src/integrators/msmrdMultiParticleIntegrator.cpp's
// event bookkeeping (eventMgr) and spec.md §4.7.
package event

import "github.com/cpmech/gosl/chk"

// Kind classifies a scheduled event.
type Kind int

const (
	// Empty marks a pair slot with nothing scheduled.
	Empty Kind = iota
	// InTransition: one particle of the pair is mid-transition-section
	// dwell and its MSM clock is about to fire.
	InTransition
	// Binding: the pair is about to enter a bound state.
	Binding
	// Bound2Bound: the pair transitions between two bound states.
	Bound2Bound
	// Transition2Transition: the pair moves between transition
	// sections without becoming bound.
	Transition2Transition
	// Unbinding: the pair is about to leave a bound state.
	Unbinding
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case InTransition:
		return "inTransition"
	case Binding:
		return "binding"
	case Bound2Bound:
		return "bound2bound"
	case Transition2Transition:
		return "transition2transition"
	case Unbinding:
		return "unbinding"
	}
	return "unknown"
}

// Event is one scheduled occurrence: fire in Time units, ending in
// NextState, for the pair (I,J) with I<J.
type Event struct {
	I, J      int
	Kind      Kind
	Time      float64
	NextState int
}

// pairKey canonicalizes an unordered pair, i<j, for map indexing.
type pairKey struct{ i, j int }

func canon(i, j int) pairKey {
	if i < j {
		return pairKey{i, j}
	}
	return pairKey{j, i}
}

// Manager holds exactly one Event per unordered particle pair that has
// something scheduled.
type Manager struct {
	events map[pairKey]Event
}

// NewManager returns an empty event table.
func NewManager() *Manager {
	return &Manager{events: make(map[pairKey]Event)}
}

// AddEvent schedules ev for pair (ev.I, ev.J), replacing whatever was
// previously scheduled for that pair (spec.md §4.7: "a newly computed
// event for a pair always supersedes the pair's existing entry").
func (m *Manager) AddEvent(ev Event) {
	if ev.I == ev.J {
		chk.Panic("AddEvent: particle %d cannot pair with itself", ev.I)
	}
	key := canon(ev.I, ev.J)
	ev.I, ev.J = key.i, key.j
	m.events[key] = ev
}

// GetEvent returns the event scheduled for pair (i,j) and whether one
// exists.
func (m *Manager) GetEvent(i, j int) (Event, bool) {
	ev, ok := m.events[canon(i, j)]
	return ev, ok
}

// RemoveEvent clears whatever is scheduled for pair (i,j).
func (m *Manager) RemoveEvent(i, j int) {
	delete(m.events, canon(i, j))
}

// Advance decrements every scheduled event's remaining time by dt, as the
// integrator does once per diffusion step before checking for fired
// events (spec.md §4.8 step 2).
func (m *Manager) Advance(dt float64) {
	for k, ev := range m.events {
		ev.Time -= dt
		m.events[k] = ev
	}
}

// NextReady returns the event with the smallest Time at or below zero,
// breaking ties by (I,J) lexicographic order (spec.md §4.7's tie-break
// rule so firing order is deterministic given a seed), and whether any
// such event exists.
func (m *Manager) NextReady() (Event, bool) {
	var best Event
	found := false
	for _, ev := range m.events {
		if ev.Time > 0 {
			continue
		}
		if !found || less(ev, best) {
			best = ev
			found = true
		}
	}
	return best, found
}

func less(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	if a.I != b.I {
		return a.I < b.I
	}
	return a.J < b.J
}

// Len returns the number of pairs with something scheduled.
func (m *Manager) Len() int {
	return len(m.events)
}
