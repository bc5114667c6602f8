// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// TestSimultaneousEventOrdering is end-to-end scenario 3 in spec.md §8:
// with three particles and two pairs firing at the same time, the
// (I,J)-lexicographic tiebreak picks the lower-indexed pair first, and
// after it is removed the remaining pair is still ready.
func TestSimultaneousEventOrdering(tst *testing.T) {

	chk.PrintTitle("SimultaneousEventOrdering")

	m := NewManager()
	m.AddEvent(Event{I: 2, J: 3, Kind: Binding, Time: 0, NextState: 1})
	m.AddEvent(Event{I: 1, J: 2, Kind: Binding, Time: 0, NextState: 1})

	first, ok := m.NextReady()
	if !ok {
		tst.Fatal("expected a ready event")
	}
	if first.I != 1 || first.J != 2 {
		tst.Fatalf("expected pair (1,2) to fire first, got (%d,%d)", first.I, first.J)
	}

	m.RemoveEvent(first.I, first.J)
	second, ok := m.NextReady()
	if !ok {
		tst.Fatal("expected the second pair still ready")
	}
	if second.I != 2 || second.J != 3 {
		tst.Fatalf("expected pair (2,3) to fire second, got (%d,%d)", second.I, second.J)
	}
}

func TestAddEventSupersedesExisting(tst *testing.T) {

	chk.PrintTitle("AddEventSupersedesExisting")

	m := NewManager()
	m.AddEvent(Event{I: 1, J: 2, Kind: Binding, Time: 1.0, NextState: 1})
	m.AddEvent(Event{I: 2, J: 1, Kind: Unbinding, Time: 0.5, NextState: 0})

	if m.Len() != 1 {
		tst.Fatalf("expected 1 scheduled pair, got %d", m.Len())
	}
	ev, ok := m.GetEvent(1, 2)
	if !ok {
		tst.Fatal("expected pair (1,2) to have an event")
	}
	if ev.Kind != Unbinding || ev.Time != 0.5 {
		tst.Fatalf("expected superseding event, got %+v", ev)
	}
}

func TestAdvanceDecrementsTime(tst *testing.T) {

	chk.PrintTitle("AdvanceDecrementsTime")

	m := NewManager()
	m.AddEvent(Event{I: 1, J: 2, Kind: Binding, Time: 1.0, NextState: 1})
	m.Advance(0.4)
	ev, _ := m.GetEvent(1, 2)
	if diff := ev.Time - 0.6; diff > 1e-12 || diff < -1e-12 {
		tst.Fatalf("expected time 0.6, got %v", ev.Time)
	}
}
