// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package bitarray

import "testing"

func TestAppendGetBitRoundTrip(t *testing.T) {
	var ba BitArray
	ba.Init()

	// A single byte 0b10110100, appended 8 bits: last-byte-first (only one
	// byte here) but MSB-first within it.
	if err := ba.Append([]byte{0b10110100}, 8); err != nil {
		t.Fatalf("Append: %v", err)
	}

	want := []uint8{1, 0, 1, 1, 0, 1, 0, 0}
	for i, w := range want {
		got, err := ba.GetBit(i)
		if err != nil {
			t.Fatalf("GetBit(%d): %v", i, err)
		}
		if got != w {
			t.Fatalf("GetBit(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestAppendMultiByteIsLastByteFirst(t *testing.T) {
	var ba BitArray
	ba.Init()

	// Two bytes, little-endian value layout: byte[0]=0x00, byte[1]=0xFF.
	// Appending all 16 bits should yield byte[1]'s bits (all 1) before
	// byte[0]'s bits (all 0).
	if err := ba.Append([]byte{0x00, 0xFF}, 16); err != nil {
		t.Fatalf("Append: %v", err)
	}

	for i := 0; i < 8; i++ {
		got, err := ba.GetBit(i)
		if err != nil {
			t.Fatalf("GetBit(%d): %v", i, err)
		}
		if got != 1 {
			t.Fatalf("GetBit(%d) = %d, want 1 (from last byte first)", i, got)
		}
	}
	for i := 8; i < 16; i++ {
		got, err := ba.GetBit(i)
		if err != nil {
			t.Fatalf("GetBit(%d): %v", i, err)
		}
		if got != 0 {
			t.Fatalf("GetBit(%d) = %d, want 0 (from first byte last)", i, got)
		}
	}
}

func TestAppendRejectsOverflow(t *testing.T) {
	var ba BitArray
	ba.Init()

	big := make([]byte, MaxSymbols+1)
	if err := ba.Append(big, MaxSymbols*8+8); err == nil {
		t.Fatalf("Append should reject a request exceeding capacity")
	}
}

func TestSetBitOutOfRange(t *testing.T) {
	var ba BitArray
	ba.Init()
	if err := ba.Append([]byte{0xFF}, 4); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := ba.SetBit(4, 1); err == nil {
		t.Fatalf("SetBit should reject an index beyond the appended length")
	}
	if err := ba.SetBit(0, 0); err != nil {
		t.Fatalf("SetBit(0): %v", err)
	}
	got, err := ba.GetBit(0)
	if err != nil {
		t.Fatalf("GetBit(0): %v", err)
	}
	if got != 0 {
		t.Fatalf("GetBit(0) after SetBit(0,0) = %d, want 0", got)
	}
}

func TestToSymbolsPacksSixBitsMSBFirst(t *testing.T) {
	var ba BitArray
	ba.Init()
	// Append the 6-bit pattern 0b101100 directly as the low 6 bits of one
	// byte, using Append's own convention to place it, then check
	// ToSymbols reproduces the same 6-bit value.
	if err := ba.Append([]byte{0b101100}, 6); err != nil {
		t.Fatalf("Append: %v", err)
	}
	symbols, err := ba.ToSymbols(4)
	if err != nil {
		t.Fatalf("ToSymbols: %v", err)
	}
	if len(symbols) != 1 || symbols[0] != 0b101100 {
		t.Fatalf("ToSymbols() = %v, want [0b101100]", symbols)
	}
}

func TestToSymbolsRejectsOverCapacity(t *testing.T) {
	var ba BitArray
	ba.Init()
	if err := ba.Append([]byte{0xFF, 0xFF}, 16); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := ba.ToSymbols(2); err == nil {
		t.Fatalf("ToSymbols(2) should reject 16 bits (3 symbols needed)")
	}
}
