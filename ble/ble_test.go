// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package ble

import (
	"bytes"
	"encoding/hex"
	"testing"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/noncemonitor"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

const masterKeyHex = "cd15a5abc060b67288a61e44e995ba77d140bd46564b88de41c15a9273b0ce85"

func TestBuildVectors(t *testing.T) {
	key := mustHex(t, masterKeyHex)

	cases := []struct {
		name    string
		day     uint32
		seq     uint16
		payload string
		want    string
	}{
		{"empty payload", 20, 0, "", "a6fc000060db85958fd7439c"},
		{"one byte payload", 20, 1, "aa", "a6fc000160db8595d21bb5718 2"},
		{"hello payload", 20, 100, "48656c6c6f", "a6fc006460db8595a2a4c7708a6dc72a6b"},
		{"four byte payload", 20, 255, "deadbeef", "a6fc00ff60db859575e693ea756f587d"},
		{"max payload", 20, 1023, "48656c6c6f20576f726c642121", "a6fc03ff60db85958b21172fb4b985359ae4ce1aa08be5e373"},
		{"day one", 1, 0, "000102030405060708090a0b0c", "a6fc0000c9f309bc4beb66b6eff3090ddc7b389493f8405328"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := mustHex(t, stripSpaces(tc.want))
			payload := mustHex(t, tc.payload)

			b := NewBuilder(&hcrypto.Default{})
			got, err := b.Build(key, tc.day, tc.seq, payload)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("Build() = %x, want %x", got, want)
			}
		})
	}
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for _, c := range []byte(s) {
		if c != ' ' {
			out = append(out, c)
		}
	}
	return string(out)
}

func TestBuildRejectsOversizePayload(t *testing.T) {
	key := mustHex(t, masterKeyHex)[:16]
	b := NewBuilder(&hcrypto.Default{})
	if _, err := b.Build(key, 1, 0, make([]byte, MaxPayload+1)); err != ErrPayloadTooLarge {
		t.Fatalf("Build() err = %v, want ErrPayloadTooLarge", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	key := mustHex(t, masterKeyHex)[:16]
	payload := mustHex(t, "48656c6c6f")

	first := NewBuilder(&hcrypto.Default{})
	a, err := first.Build(key, 42, 5, payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	second := NewBuilder(&hcrypto.Default{})
	b, err := second.Build(key, 42, 5, payload)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !bytes.Equal(a, b) {
		t.Fatalf("repeated Build() with identical inputs diverged: %x vs %x", a, b)
	}
}

func TestBuildPrefixIsServiceUUID(t *testing.T) {
	key := mustHex(t, masterKeyHex)[:16]
	b := NewBuilder(&hcrypto.Default{})
	got, err := b.Build(key, 7, 0, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got[0] != 0xA6 || got[1] != 0xFC {
		t.Fatalf("service UUID bytes = %02x %02x, want a6 fc", got[0], got[1])
	}
}

func TestBuildLengthMatchesHeaderPlusPayload(t *testing.T) {
	key := mustHex(t, masterKeyHex)[:16]
	b := NewBuilder(&hcrypto.Default{})
	for n := 0; n <= MaxPayload; n++ {
		got, err := b.Build(key, 3, uint16(n), make([]byte, n))
		if err != nil {
			t.Fatalf("Build(len=%d): %v", n, err)
		}
		if len(got) != HeaderLen+n {
			t.Fatalf("Build(len=%d) total length = %d, want %d", n, len(got), HeaderLen+n)
		}
	}
}

func TestNonceMonitorRejectsReuse(t *testing.T) {
	key := mustHex(t, masterKeyHex)[:16]
	b := NewBuilder(&hcrypto.Default{})

	seqs := []uint16{10, 10, 11, 1023, 1024, 0, 8, 10}
	want := []bool{true, false, true, true, false, true, true, false}

	for i, s := range seqs {
		_, err := b.Build(key, 9, s, nil)
		accepted := err == nil
		if s > noncemonitor.MaxSeq {
			if accepted {
				t.Fatalf("step %d: seq %d > max should always be rejected", i, s)
			}
			continue
		}
		if accepted != want[i] {
			t.Fatalf("step %d: seq %d accepted=%v, want %v", i, s, accepted, want[i])
		}
	}
}
