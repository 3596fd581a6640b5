// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package ble assembles the Service-Data blob carried in a non-connectable
// BLE advertisement under service UUID 0xFCA6: a 12-byte header (UUID,
// sequence/version byte pair, ephemeral device id, truncated CMAC tag)
// followed by up to 13 bytes of AES-CTR ciphertext.
package ble

import (
	"errors"
	"fmt"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/derive"
	"github.com/hubblenetwork/hubble-sdk/internal/noncemonitor"
)

// MaxPayload is the largest payload, in bytes, Build accepts; a full
// advertisement is HeaderLen+MaxPayload = 25 bytes.
const MaxPayload = 13

// HeaderLen is the fixed portion of the advertisement ahead of the
// ciphertext: 2 UUID bytes, 2 version/sequence bytes, 4 device-id bytes, 4
// tag bytes.
const HeaderLen = 12

const protocolVersion = 0

// ErrPayloadTooLarge is returned when the caller's payload exceeds
// MaxPayload.
var ErrPayloadTooLarge = errors.New("ble: payload exceeds 13 bytes")

// ErrNonceReuse is returned when the nonce-reuse monitor vetoes the
// (day, seq) pair this build would have used.
var ErrNonceReuse = errors.New("ble: nonce-reuse monitor rejected this (day, seq) pair")

// ErrSeqOutOfRange is returned when seq exceeds noncemonitor.MaxSeq.
var ErrSeqOutOfRange = errors.New("ble: sequence number out of range")

// Builder assembles BLE advertisements for a single device. It is not safe
// for concurrent use: the embedded nonce monitor is mutable, unsynchronised
// state, matching the single-threaded-cooperative model the rest of the SDK
// assumes.
type Builder struct {
	Provider hcrypto.Provider
	Monitor  *noncemonitor.Monitor
}

// NewBuilder returns a Builder backed by provider, with a fresh nonce
// monitor.
func NewBuilder(provider hcrypto.Provider) *Builder {
	return &Builder{Provider: provider, Monitor: &noncemonitor.Monitor{}}
}

// Build assembles one advertisement for (day, seq, payload) under key,
// returning the 12+len(payload) byte blob. All derived key material is
// zeroised before returning on every path.
func (b *Builder) Build(key []byte, day uint32, seq uint16, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, ErrPayloadTooLarge
	}
	if seq > noncemonitor.MaxSeq {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrSeqOutOfRange, seq, noncemonitor.MaxSeq)
	}
	if !b.Monitor.Check(day, seq) {
		return nil, ErrNonceReuse
	}

	out := make([]byte, HeaderLen+len(payload))
	out[0] = 0xA6
	out[1] = 0xFC
	out[2] = byte(protocolVersion<<6) | byte((seq>>8)&0x03)
	out[3] = byte(seq & 0xFF)

	deviceID, err := derive.DeviceID(b.Provider, key, day)
	if err != nil {
		return nil, fmt.Errorf("ble: derive device id: %w", err)
	}
	copy(out[4:8], deviceID)

	nonce, err := derive.Nonce(b.Provider, key, day, seq)
	if err != nil {
		return nil, fmt.Errorf("ble: derive nonce: %w", err)
	}
	defer b.Provider.Zeroize(nonce)

	var ctrBlock [hcrypto.BlockSize]byte
	copy(ctrBlock[:], nonce)
	defer b.Provider.Zeroize(ctrBlock[:])

	encKey, err := derive.EncryptionKey(b.Provider, key, day, seq)
	if err != nil {
		return nil, fmt.Errorf("ble: derive encryption key: %w", err)
	}
	defer b.Provider.Zeroize(encKey)

	ciphertext := out[HeaderLen:]
	if err := b.Provider.AESCTR(encKey, ctrBlock[:], payload, ciphertext); err != nil {
		return nil, fmt.Errorf("ble: aes-ctr: %w", err)
	}

	var tag [hcrypto.BlockSize]byte
	defer b.Provider.Zeroize(tag[:])
	if err := b.Provider.CMAC(encKey, ciphertext, tag[:]); err != nil {
		return nil, fmt.Errorf("ble: cmac: %w", err)
	}
	copy(out[8:12], tag[:4])

	return out, nil
}
