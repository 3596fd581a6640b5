// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package kdf

import (
	"bytes"
	"testing"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
)

func TestCounterDeterministic(t *testing.T) {
	key := make([]byte, 16)
	provider := &hcrypto.Default{}

	a, err := Counter(provider, key, "DeviceKey", "20", 4)
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	b, err := Counter(provider, key, "DeviceKey", "20", 4)
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("Counter not deterministic: %x vs %x", a, b)
	}
}

func TestCounterVariesWithContext(t *testing.T) {
	key := make([]byte, 16)
	provider := &hcrypto.Default{}

	a, err := Counter(provider, key, "DeviceKey", "20", 4)
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	b, err := Counter(provider, key, "DeviceKey", "21", 4)
	if err != nil {
		t.Fatalf("Counter: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("Counter produced identical output for different contexts")
	}
}

func TestCounterProducesRequestedLength(t *testing.T) {
	key := make([]byte, 16)
	provider := &hcrypto.Default{}

	for _, n := range []int{1, 4, 12, 16, 17, 32} {
		out, err := Counter(provider, key, "Nonce", "7", n)
		if err != nil {
			t.Fatalf("Counter(n=%d): %v", n, err)
		}
		if len(out) != n {
			t.Fatalf("Counter(n=%d) returned %d bytes", n, len(out))
		}
	}
}

func TestCounterRejectsOversizeFixedInput(t *testing.T) {
	key := make([]byte, 16)
	provider := &hcrypto.Default{}
	longLabel := make([]byte, 64)
	if _, err := Counter(provider, key, string(longLabel), "0", 16); err == nil {
		t.Fatalf("Counter should reject a label that overflows the message buffer")
	}
}
