// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package kdf implements NIST SP 800-108 key derivation in counter mode
// with AES-CMAC as the PRF, the single building block every derived value
// in the SDK (ephemeral device id, AES-CTR nonce, ephemeral encryption key)
// is built from.
package kdf

import (
	"encoding/binary"
	"fmt"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
)

// messageCap is the fixed stack-sized message buffer capacity. A
// label+context pair that would not fit is a caller programming error, not
// a runtime condition to recover from gracefully.
const messageCap = 64

// Counter derives outputLen bytes from key using label and context as the
// SP 800-108 counter-mode KDF fixed input, with provider as the AES-CMAC
// PRF. The message laid out per round is:
//
//	BE32(round) || label || 0x00 || context || BE32(outputLen*8)
//
// and must be strictly smaller than the 64-byte scratch buffer.
func Counter(provider hcrypto.Provider, key []byte, label, context string, outputLen int) ([]byte, error) {
	fixedLen := 4 + len(label) + 1 + len(context) + 4
	if fixedLen >= messageCap {
		return nil, fmt.Errorf("kdf: label+context too long for message buffer (%d >= %d)", fixedLen, messageCap)
	}

	var message [messageCap]byte
	msg := message[:fixedLen]
	copy(msg[4:], label)
	msg[4+len(label)] = 0x00
	copy(msg[4+len(label)+1:], context)
	binary.BigEndian.PutUint32(msg[fixedLen-4:], uint32(outputLen*8))

	defer provider.Zeroize(msg)

	out := make([]byte, 0, ((outputLen+hcrypto.BlockSize-1)/hcrypto.BlockSize)*hcrypto.BlockSize)
	var block [hcrypto.BlockSize]byte
	defer provider.Zeroize(block[:])

	for round := uint32(1); len(out) < outputLen; round++ {
		binary.BigEndian.PutUint32(msg[0:4], round)
		if err := provider.CMAC(key, msg, block[:]); err != nil {
			return nil, fmt.Errorf("kdf: cmac: %w", err)
		}
		out = append(out, block[:]...)
	}

	return out[:outputLen], nil
}
