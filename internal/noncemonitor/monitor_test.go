// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package noncemonitor

import "testing"

func TestCheckStateMachineVector(t *testing.T) {
	var m Monitor
	seqs := []uint16{10, 10, 11, 1023, 1024, 0, 8, 10}
	want := []bool{true, false, true, true, false, true, true, false}

	for i, s := range seqs {
		got := m.Check(1, s)
		if got != want[i] {
			t.Fatalf("step %d: Check(1, %d) = %v, want %v", i, s, got, want[i])
		}
	}
}

func TestCheckAcceptsNewDayUnconditionally(t *testing.T) {
	var m Monitor
	if !m.Check(1, 500) {
		t.Fatalf("Check(1, 500) should accept as first call")
	}
	if m.Check(1, 500) {
		t.Fatalf("Check(1, 500) repeat should reject")
	}
	if !m.Check(2, 500) {
		t.Fatalf("Check(2, 500) should accept: new day resets state")
	}
}

func TestCheckRejectsOutOfRangeSequence(t *testing.T) {
	var m Monitor
	if m.Check(1, MaxSeq+1) {
		t.Fatalf("Check should reject seq > MaxSeq")
	}
}

func TestReset(t *testing.T) {
	var m Monitor
	m.Check(1, 5)
	m.Reset()
	if !m.Check(1, 5) {
		t.Fatalf("Check after Reset should accept as if new")
	}
}

func TestSetEnabledFalseBypassesGuard(t *testing.T) {
	var m Monitor
	if !m.Check(1, 5) {
		t.Fatalf("Check(1, 5) should accept as first call")
	}

	m.SetEnabled(false)
	if !m.Check(1, 5) {
		t.Fatalf("Check(1, 5) repeat should accept once the guard is disabled")
	}
	if !m.Check(1, MaxSeq+1) {
		t.Fatalf("Check with an out-of-range sequence should accept once the guard is disabled")
	}

	m.SetEnabled(true)
	if m.Check(1, 5) {
		t.Fatalf("Check(1, 5) should reject again once the guard is re-enabled, state was untouched while disabled")
	}
}

func TestResetPreservesEnabledState(t *testing.T) {
	var m Monitor
	m.SetEnabled(false)
	m.Reset()
	if !m.Check(1, MaxSeq+1) {
		t.Fatalf("Reset should not re-enable a disabled guard")
	}
}
