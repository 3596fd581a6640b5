// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package noncemonitor implements the per-day nonce-reuse guard: within a
// single day counter, the same sequence number must never be handed to the
// bearer twice, including across a single wraparound of the 10-bit
// sequence space.
package noncemonitor

// MaxSeq is the largest valid sequence number (10 bits).
const MaxSeq = 1023

// Monitor holds the lazily-initialised per-day state. The zero value is
// ready to use, with the guard enabled. It is not safe for concurrent use,
// the BLE and satellite builders that own it document themselves as
// single-threaded.
type Monitor struct {
	initialised   bool
	lastDay       uint32
	firstSeqOfDay uint16
	lastSeq       uint16
	wrapped       bool
	disabled      bool
}

// Enabled toggles the guard via SetEnabled. Passing false makes Check the
// identity predicate, always accepting regardless of (day, seq), for
// builds that turn the guard off entirely rather than compile it out.
type Enabled bool

// SetEnabled switches the guard on or off. A freshly constructed Monitor
// starts enabled; SetEnabled(false) makes every later Check call accept
// unconditionally until re-enabled.
func (m *Monitor) SetEnabled(e Enabled) {
	m.disabled = !bool(e)
}

// Check returns true if (day, seq) may be used, updating internal state as
// a side effect. A rejected pair leaves state unchanged, except that the
// first seq below the last one accepted that day sets the wrapped flag even
// when that seq is then rejected for having lapped the day's first seq.
// When the guard has been disabled with SetEnabled(false), Check always
// returns true and never touches the stored state.
func (m *Monitor) Check(day uint32, seq uint16) bool {
	if m.disabled {
		return true
	}

	if seq > MaxSeq {
		return false
	}

	if !m.initialised || day != m.lastDay {
		m.initialised = true
		m.lastDay = day
		m.firstSeqOfDay = seq
		m.lastSeq = seq
		m.wrapped = false
		return true
	}

	if seq == m.lastSeq {
		return false
	}

	if m.wrapped && seq >= m.firstSeqOfDay {
		return false
	}

	if seq < m.lastSeq && !m.wrapped {
		m.wrapped = true
		if seq >= m.firstSeqOfDay {
			return false
		}
	}

	m.lastSeq = seq
	return true
}

// Reset clears all state, as if the monitor had never observed a broadcast.
// It does not change whether the guard is enabled.
func (m *Monitor) Reset() {
	disabled := m.disabled
	*m = Monitor{disabled: disabled}
}

// State is a snapshot of a Monitor's internal fields, exported so a host can
// persist the monitor across process restarts (see internal/store). The
// monitor itself holds no storage capability of its own; persistence is
// strictly optional and owned by the caller.
type State struct {
	Initialised   bool
	LastDay       uint32
	FirstSeqOfDay uint16
	LastSeq       uint16
	Wrapped       bool
}

// Snapshot returns the Monitor's current state for persistence.
func (m *Monitor) Snapshot() State {
	return State{
		Initialised:   m.initialised,
		LastDay:       m.lastDay,
		FirstSeqOfDay: m.firstSeqOfDay,
		LastSeq:       m.lastSeq,
		Wrapped:       m.wrapped,
	}
}

// Restore replaces the Monitor's state with a previously-snapshotted one, as
// read back from persistent storage at startup.
func (m *Monitor) Restore(s State) {
	m.initialised = s.Initialised
	m.lastDay = s.LastDay
	m.firstSeqOfDay = s.FirstSeqOfDay
	m.lastSeq = s.LastSeq
	m.wrapped = s.Wrapped
}
