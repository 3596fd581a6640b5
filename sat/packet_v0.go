// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package sat

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hubblenetwork/hubble-sdk/internal/bitarray"
	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/rs"
)

// frameMaxSize is the largest symbol buffer the deprecated protocol's
// length-code table can require.
const frameMaxSize = 25

const (
	v0DeviceIDBits = 34
	v0SeqBits      = 10
	v0AuthTagBits  = 16
	v0MACHeaderLen = 10 // symbols: (34 + 10 + 16) bits / 6
)

// v0FrameSymbols, v0ErrorControlSymbols and v0TotalSymbols are the
// deprecated protocol's length-code tables, indexed 0..7.
var (
	v0FrameSymbols        = [8]int{11, 13, 15, 17, 19, 21, 23, 25}
	v0ErrorControlSymbols = [8]int{10, 10, 12, 12, 14, 14, 16, 16}
	v0TotalSymbols        = [8]int{24, 26, 30, 32, 36, 38, 42, 44}
)

// v0MaxPayload is the largest payload the largest length code can carry:
// floor((25 - 10) * 6 / 8) bytes.
const v0MaxPayload = (25 - v0MACHeaderLen) * 6 / 8

// ErrV0PayloadTooLarge is returned when a v0 payload exceeds v0MaxPayload.
var ErrV0PayloadTooLarge = errors.New("sat: v0 payload exceeds the deprecated protocol's frame capacity")

// DeprecatedBuilder assembles v0 (deprecated) satellite packets: a static,
// caller-supplied device id and an unauthenticated, unencrypted payload, no
// KDF or AEAD scaffolding involved. Kept for devices that have not migrated
// to the v1 protocol.
type DeprecatedBuilder struct {
	Provider hcrypto.Provider

	// DeviceID is the caller-set static identifier (low 34 bits used).
	DeviceID uint64

	nextSeq uint16
}

// NewDeprecatedBuilder returns a DeprecatedBuilder with the given static
// device id.
func NewDeprecatedBuilder(provider hcrypto.Provider, deviceID uint64) *DeprecatedBuilder {
	return &DeprecatedBuilder{Provider: provider, DeviceID: deviceID}
}

// Build assembles one v0 packet carrying payload, which must fit within
// v0MaxPayload bytes. The sequence number is an internal counter that
// advances on every successful call and wraps at 1023.
func (b *DeprecatedBuilder) Build(payload []byte) (*Packet, error) {
	if len(payload) > v0MaxPayload {
		return nil, ErrV0PayloadTooLarge
	}

	var ba bitarray.BitArray
	ba.Init()

	deviceIDBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(deviceIDBytes, b.DeviceID)
	if err := ba.Append(deviceIDBytes, v0DeviceIDBits); err != nil {
		return nil, err
	}

	seq := b.nextSeq
	if err := ba.Append(leUint16(seq), v0SeqBits); err != nil {
		return nil, err
	}
	b.nextSeq = (seq + 1) % (noncemonitorMaxSeq + 1)

	if err := ba.Append([]byte{0, 0}, v0AuthTagBits); err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		if err := ba.Append(payload, len(payload)*8); err != nil {
			return nil, err
		}
	}

	// Alignment bit, then zero-pad to the next symbol boundary. If the
	// array is already aligned this appends a full extra zero symbol,
	// unconditionally.
	if err := ba.Append([]byte{1}, 1); err != nil {
		return nil, err
	}
	remainder := ba.Len() % 6
	if err := appendZeroBits(&ba, 6-remainder); err != nil {
		return nil, err
	}

	numSymbols := ba.Len() / 6
	idx, err := v0FrameIndexFor(numSymbols)
	if err != nil {
		return nil, err
	}

	if pad := v0FrameSymbols[idx] - numSymbols; pad > 0 {
		if err := appendZeroBits(&ba, pad*6); err != nil {
			return nil, err
		}
	}

	dataSymbols, err := ba.ToSymbols(frameMaxSize)
	if err != nil {
		return nil, err
	}
	dataSymbols = dataSymbols[:v0FrameSymbols[idx]]

	encoded := rs.Encode(dataSymbols, v0ErrorControlSymbols[idx])

	total := v0TotalSymbols[idx]
	symbols := make([]int, total)
	lengthCode := idx
	cursor := 0
	for i := 0; i < total; i++ {
		if i == 0 || i == 9 || i == 18 {
			symbols[i] = lengthCode
			continue
		}
		symbols[i] = encoded[cursor]
		cursor++
	}

	channel, _ := pickChannel(b.Provider)

	return &Packet{Symbols: symbols, Channel: channel}, nil
}

func v0FrameIndexFor(numSymbols int) (int, error) {
	for i, frame := range v0FrameSymbols {
		if numSymbols <= frame {
			return i, nil
		}
	}
	return 0, fmt.Errorf("sat: v0 payload needs %d symbols, exceeds largest frame", numSymbols)
}

func appendZeroBits(ba *bitarray.BitArray, n int) error {
	if n <= 0 {
		return nil
	}
	zeros := make([]byte, (n+7)/8)
	return ba.Append(zeros, n)
}

// noncemonitorMaxSeq mirrors noncemonitor.MaxSeq without importing the
// package purely for a constant (v0 does not use the nonce-reuse monitor).
const noncemonitorMaxSeq = 1023
