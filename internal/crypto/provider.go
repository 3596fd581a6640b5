// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package crypto defines the capability set the Hubble beacon core needs
// from its host: AES-CTR, AES-CMAC, constant-time zeroisation and a
// cryptographic RNG. The core never implements a cipher primitive itself;
// it only consumes this interface, so any PSA/mbedTLS/vendor driver can be
// swapped in without touching KDF, derivation or packet-builder code.
package crypto

import "context"

// Provider is the capability set a crypto backend must implement. All
// methods must be safe to call from the single goroutine the core runs on;
// none are required to be reentrant.
type Provider interface {
	// Init performs one-shot provider initialisation. It must be called
	// before any other method and must be idempotent.
	Init(ctx context.Context) error

	// AESCTR encrypts input into output using AES-CTR with the supplied
	// 16-byte initial counter block. The counter block is the caller's;
	// implementations must not mutate it for any other purpose than
	// stream generation. len(output) must equal len(input).
	AESCTR(key, counterBlock, input, output []byte) error

	// CMAC computes AES-CMAC(key, input) into a 16-byte output.
	CMAC(key, input, output []byte) error

	// Zeroize overwrites buf with zeros. Implementations should avoid
	// the write being optimised away; the default provider clears buf
	// with a plain byte loop.
	Zeroize(buf []byte)

	// Rand fills buf with cryptographically secure random bytes. It is
	// only ever used to pick a starting satellite channel, never for
	// IVs or keys.
	Rand(buf []byte) error
}

// BlockSize is the AES block size in bytes, and therefore also the CMAC
// tag size and KBKDF PRF output size.
const BlockSize = 16
