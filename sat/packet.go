// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package sat assembles the satellite uplink packet: bit-packed header and
// payload fields expanded to 6-bit symbols, Reed-Solomon parity appended,
// the payload block and its parity whitened with a 7-bit LFSR, and a
// frequency-hopping channel and sequence chosen per transmission.
//
// Two protocol variants are supported: v1 (packet.go), the current
// KDF-backed protocol, and v0 (packet_v0.go), a deprecated static-device-id
// protocol kept only for devices that have not migrated.
package sat

import (
	"errors"
	"fmt"
	"time"

	"github.com/hubblenetwork/hubble-sdk/internal/bitarray"
	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/derive"
	"github.com/hubblenetwork/hubble-sdk/internal/noncemonitor"
	"github.com/hubblenetwork/hubble-sdk/internal/rs"
)

// MaxSize is the largest symbol count any packet variant can produce: 6
// header/parity symbols plus up to 46 payload/parity symbols.
const MaxSize = 52

const (
	phyProtocolVersion = 1
	headerSymbols      = 2
	headerParity       = 4 // 2t, t=2

	payloadProtocolVersion = 0
	authTagBits            = 32
	seqNoBits              = 10
	deviceIDBits           = 32
)

// Preamble and timing constants for bearers. The core never transmits
// them itself; a bearer sends PreambleSequence ahead of a packet's symbols.
var PreambleSequence = [8]int{0, -1, 0, -1, 0, -1, 0, 0}

const (
	SymbolDuration    = 8000 * time.Microsecond // reference-frequency symbol
	GapDuration       = 1600 * time.Microsecond
	PreambleExtraWait = 9600 * time.Microsecond
)

var (
	errInvalidHopSequence = errors.New("sat: hopping sequence out of range")
	errInvalidChannel     = errors.New("sat: channel out of range")
	// ErrPayloadLength is returned when the caller's payload length is not
	// one of the four supported v1 sizes.
	ErrPayloadLength = errors.New("sat: payload length must be one of {0, 4, 9, 13}")
	// ErrNonceReuse is returned when the nonce-reuse monitor vetoes this
	// (day, seq) pair.
	ErrNonceReuse = errors.New("sat: nonce-reuse monitor rejected this (day, seq) pair")
	// ErrKeyUnset is returned when no master key has been configured.
	ErrKeyUnset = errors.New("sat: key not set")
	// ErrSeqOutOfRange is returned when seq exceeds noncemonitor.MaxSeq.
	ErrSeqOutOfRange = errors.New("sat: sequence number out of range")
)

// payloadSizeCode maps a payload length to (data-symbol count, size code).
var payloadSizeCode = map[int]struct {
	symbols int
	code    uint8
}{
	0:  {13, 0b00},
	4:  {18, 0b01},
	9:  {25, 0b10},
	13: {30, 0b11},
}

// payloadECC maps a payload length to its 2t parity-symbol count.
var payloadECC = map[int]int{
	0:  10,
	4:  12,
	9:  14,
	13: 16,
}

// Packet is the assembled satellite transmission: symbols (each in the low
// six bits of an int), plus the channel and hopping sequence the bearer
// should transmit on.
type Packet struct {
	Symbols         []int
	Channel         uint8
	HoppingSequence uint8
}

// Builder assembles v1 satellite packets for a single device. Like
// ble.Builder, it owns a nonce monitor and is not safe for concurrent use.
type Builder struct {
	Provider hcrypto.Provider
	Monitor  *noncemonitor.Monitor
}

// NewBuilder returns a Builder backed by provider, with a fresh nonce
// monitor.
func NewBuilder(provider hcrypto.Provider) *Builder {
	return &Builder{Provider: provider, Monitor: &noncemonitor.Monitor{}}
}

// Build assembles one v1 satellite packet for (day, seq, payload) under
// key. len(payload) must be one of {0, 4, 9, 13}.
func (b *Builder) Build(key []byte, day uint32, seq uint16, payload []byte) (*Packet, error) {
	if len(key) == 0 {
		return nil, ErrKeyUnset
	}
	size, ok := payloadSizeCode[len(payload)]
	if !ok {
		return nil, ErrPayloadLength
	}
	ecc := payloadECC[len(payload)]

	if seq > noncemonitor.MaxSeq {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrSeqOutOfRange, seq, noncemonitor.MaxSeq)
	}
	if !b.Monitor.Check(day, seq) {
		return nil, ErrNonceReuse
	}

	channel, hop := pickChannel(b.Provider)

	headerSyms, err := buildHeader(size.code, hop, channel)
	if err != nil {
		return nil, err
	}

	deviceID, err := derive.DeviceID(b.Provider, key, day)
	if err != nil {
		return nil, fmt.Errorf("sat: derive device id: %w", err)
	}

	nonce, err := derive.Nonce(b.Provider, key, day, seq)
	if err != nil {
		return nil, fmt.Errorf("sat: derive nonce: %w", err)
	}
	defer b.Provider.Zeroize(nonce)

	var ctrBlock [hcrypto.BlockSize]byte
	copy(ctrBlock[:], nonce)
	defer b.Provider.Zeroize(ctrBlock[:])

	encKey, err := derive.EncryptionKey(b.Provider, key, day, seq)
	if err != nil {
		return nil, fmt.Errorf("sat: derive encryption key: %w", err)
	}
	defer b.Provider.Zeroize(encKey)

	ciphertext := make([]byte, len(payload))
	if err := b.Provider.AESCTR(encKey, ctrBlock[:], payload, ciphertext); err != nil {
		return nil, fmt.Errorf("sat: aes-ctr: %w", err)
	}

	var tag [hcrypto.BlockSize]byte
	defer b.Provider.Zeroize(tag[:])
	if err := b.Provider.CMAC(encKey, ciphertext, tag[:]); err != nil {
		return nil, fmt.Errorf("sat: cmac: %w", err)
	}

	payloadSyms, err := buildPayloadBlock(seq, deviceID, tag[:4], ciphertext, size.symbols)
	if err != nil {
		return nil, err
	}

	payloadAndParity := rs.Encode(payloadSyms, ecc)
	whiten(channel, payloadAndParity)

	symbols := make([]int, 0, len(headerSyms)+len(payloadAndParity))
	symbols = append(symbols, headerSyms...)
	symbols = append(symbols, payloadAndParity...)

	return &Packet{Symbols: symbols, Channel: channel, HoppingSequence: hop}, nil
}

// pickChannel draws a random byte from the provider and reduces it modulo
// the channel and hopping-sequence counts; it falls back to channel 5 (and
// hop sequence 0) if the RNG call fails.
func pickChannel(provider hcrypto.Provider) (channel uint8, hop uint8) {
	var b [1]byte
	if err := provider.Rand(b[:]); err != nil {
		return 5, 0
	}
	return b[0] % NumChannels, b[0] % NumHopSequences
}

func buildHeader(sizeCode uint8, hop uint8, channel uint8) ([]int, error) {
	var ba bitarray.BitArray
	ba.Init()
	if err := ba.Append([]byte{phyProtocolVersion}, 4); err != nil {
		return nil, err
	}
	if err := ba.Append([]byte{sizeCode}, 2); err != nil {
		return nil, err
	}
	if err := ba.Append([]byte{hop}, 2); err != nil {
		return nil, err
	}
	if err := ba.Append([]byte{channel}, 4); err != nil {
		return nil, err
	}

	syms, err := ba.ToSymbols(headerSymbols)
	if err != nil {
		return nil, err
	}
	return rs.Encode(syms, headerParity), nil
}

func buildPayloadBlock(seq uint16, deviceID []byte, authTag []byte, ciphertext []byte, wantSymbols int) ([]int, error) {
	var ba bitarray.BitArray
	ba.Init()
	if err := ba.Append([]byte{payloadProtocolVersion}, 2); err != nil {
		return nil, err
	}
	if err := ba.Append(leUint16(seq), seqNoBits); err != nil {
		return nil, err
	}
	if err := ba.Append(deviceID, deviceIDBits); err != nil {
		return nil, err
	}
	if err := ba.Append(authTag, authTagBits); err != nil {
		return nil, err
	}
	if len(ciphertext) > 0 {
		if err := ba.Append(ciphertext, len(ciphertext)*8); err != nil {
			return nil, err
		}
	}

	syms, err := ba.ToSymbols(wantSymbols)
	if err != nil {
		return nil, err
	}
	if len(syms) != wantSymbols {
		return nil, fmt.Errorf("sat: payload block encoded to %d symbols, expected %d", len(syms), wantSymbols)
	}
	return syms, nil
}

func leUint16(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}
