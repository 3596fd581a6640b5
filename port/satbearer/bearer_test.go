// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package satbearer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	hubble "github.com/hubblenetwork/hubble-sdk"
	"github.com/hubblenetwork/hubble-sdk/sat"
)

type fakeTransmitter struct {
	failUntil int32
	calls     int32
}

func (f *fakeTransmitter) Transmit(_ context.Context, _ *sat.Packet) error {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= f.failUntil {
		return errors.New("simulated radio failure")
	}
	return nil
}

func TestSendSucceedsOnFirstAttempt(t *testing.T) {
	tx := &fakeTransmitter{}
	b := New(tx)
	pkt := &sat.Packet{Symbols: []int{1, 2, 3}}

	if err := b.Send(context.Background(), pkt, hubble.RetryPlan{Retries: 1, GapSecs: 0}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if tx.calls != 1 {
		t.Fatalf("calls = %d, want 1", tx.calls)
	}
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	tx := &fakeTransmitter{failUntil: 2}
	b := New(tx)
	pkt := &sat.Packet{Symbols: []int{1}}

	if err := b.Send(context.Background(), pkt, hubble.RetryPlan{Retries: 3, GapSecs: 0}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if tx.calls != 3 {
		t.Fatalf("calls = %d, want 3", tx.calls)
	}
}

func TestSendExhaustsRetriesAndFails(t *testing.T) {
	tx := &fakeTransmitter{failUntil: 100}
	b := New(tx)
	pkt := &sat.Packet{Symbols: []int{1}}

	if err := b.Send(context.Background(), pkt, hubble.RetryPlan{Retries: 2, GapSecs: 0}); err == nil {
		t.Fatalf("Send: want error after exhausting retries")
	}
	if tx.calls != 2 {
		t.Fatalf("calls = %d, want 2", tx.calls)
	}
}

func TestSendRejectsEmptyRetryPlan(t *testing.T) {
	tx := &fakeTransmitter{}
	b := New(tx)
	pkt := &sat.Packet{Symbols: []int{1}}

	if err := b.Send(context.Background(), pkt, hubble.RetryPlan{Retries: 0}); err == nil {
		t.Fatalf("Send: want error for zero-retry plan")
	}
}

func TestSendSerialisesConcurrentSenders(t *testing.T) {
	tx := &fakeTransmitter{}
	b := New(tx)
	pkt := &sat.Packet{Symbols: []int{1}}

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			done <- b.Send(context.Background(), pkt, hubble.RetryPlan{Retries: 1, GapSecs: 0})
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if tx.calls != 4 {
		t.Fatalf("calls = %d, want 4", tx.calls)
	}
}
