// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package hubble

import (
	"context"
	"errors"
	"testing"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
)

var testKey = []byte("0123456789abcdef")

func TestNewRequiresSuccessfulProviderInit(t *testing.T) {
	want := errors.New("boom")
	_, err := New(context.Background(), &failingProvider{initErr: want}, 1000, testKey)
	if err == nil || !errors.Is(err, want) {
		t.Fatalf("New() err = %v, want wrapping %v", err, want)
	}
}

func TestBLEAdvertiseGetRequiresKey(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.BLEAdvertiseGet(1000, nil); !errors.Is(err, ErrNotInitialised) {
		t.Fatalf("BLEAdvertiseGet() err = %v, want ErrNotInitialised", err)
	}
}

func TestBLEAdvertiseGetRejectsOversizePayload(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.BLEAdvertiseGet(1000, make([]byte, 14)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("BLEAdvertiseGet() err = %v, want ErrInvalidArgument", err)
	}
}

func TestBLEAdvertiseGetWrapsCryptoFailure(t *testing.T) {
	want := errors.New("provider exploded")
	c, err := New(context.Background(), &failingProvider{ctrErr: want}, 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.BLEAdvertiseGet(1000, []byte("hi")); !errors.Is(err, ErrUnderlyingCrypto) {
		t.Fatalf("BLEAdvertiseGet() err = %v, want wrapping ErrUnderlyingCrypto", err)
	}
}

func TestBLEAdvertiseGetIsDeterministicAcrossCalls(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.sequence = &fixedCounter{}
	first, err := c.BLEAdvertiseGet(1000, []byte("hi"))
	if err != nil {
		t.Fatalf("BLEAdvertiseGet: %v", err)
	}

	c2, _ := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	c2.sequence = &fixedCounter{}
	second, err := c2.BLEAdvertiseGet(1000, []byte("hi"))
	if err != nil {
		t.Fatalf("BLEAdvertiseGet: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("BLEAdvertiseGet diverged across fresh contexts: %x vs %x", first, second)
	}
}

func TestSatPacketGetV0RequiresDeprecatedOption(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.SatPacketGetV0(nil); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("SatPacketGetV0() err = %v, want ErrUnsupported", err)
	}
}

func TestSatSendPlanReliabilityMapping(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		r       Reliability
		retries int
	}{
		{ReliabilityNone, 1},
		{ReliabilityNormal, 8},
		{ReliabilityHigh, 16},
	}
	for _, tc := range cases {
		plan, err := c.SatSendPlan(tc.r, 1000)
		if err != nil {
			t.Fatalf("SatSendPlan(%v): %v", tc.r, err)
		}
		if plan.Retries != tc.retries {
			t.Fatalf("SatSendPlan(%v).Retries = %d, want %d", tc.r, plan.Retries, tc.retries)
		}
	}

	if _, err := c.SatSendPlan(Reliability(255), 1000); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SatSendPlan(255) err = %v, want ErrInvalidArgument", err)
	}
}

func TestBLENonceStateRoundTrip(t *testing.T) {
	c, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.BLEAdvertiseGet(dayMillis, nil); err != nil {
		t.Fatalf("BLEAdvertiseGet: %v", err)
	}
	snap := c.BLENonceState()

	c2, err := New(context.Background(), hcrypto.NewDefault(), 1000, testKey)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c2.RestoreBLENonceState(snap)

	if _, err := c2.ble.Build(testKey, Day(dayMillis), 0, nil); err == nil {
		t.Fatalf("restored monitor should reject the already-used (day, seq) pair")
	}
}

func TestDayCounter(t *testing.T) {
	if got := Day(0); got != 0 {
		t.Fatalf("Day(0) = %d, want 0", got)
	}
	if got := Day(dayMillis); got != 1 {
		t.Fatalf("Day(dayMillis) = %d, want 1", got)
	}
	if got := Day(dayMillis*20 + 12345); got != 20 {
		t.Fatalf("Day(20 days + remainder) = %d, want 20", got)
	}
}

type fixedCounter struct{ n uint16 }

func (f *fixedCounter) Next() uint16 { return f.n }

// failingProvider is a hcrypto.Provider whose individual methods can be
// made to fail on demand, for exercising the facade's error-wrapping
// without a real crypto backend.
type failingProvider struct {
	hcrypto.Default
	initErr error
	ctrErr  error
}

func (f *failingProvider) Init(ctx context.Context) error {
	if f.initErr != nil {
		return f.initErr
	}
	return f.Default.Init(ctx)
}

func (f *failingProvider) AESCTR(key, counterBlock, input, output []byte) error {
	if f.ctrErr != nil {
		return f.ctrErr
	}
	return f.Default.AESCTR(key, counterBlock, input, output)
}
