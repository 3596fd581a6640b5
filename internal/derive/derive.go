// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package derive implements the three labelled two-stage derivations that
// sit on top of the counter-mode KBKDF: the ephemeral device id, the
// AES-CTR nonce, and the ephemeral encryption key, each rotated daily by a
// per-day subkey and, for nonce and key, further rotated per broadcast by
// the sequence number. Stage 1 derives a per-day subkey from the master
// key; stage 2 derives the per-broadcast value from that subkey.
package derive

import (
	"strconv"

	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/kdf"
)

const (
	deviceIDLen = 4
	nonceLen    = 12
)

// two performs the stage-1/stage-2 labelled derivation shared by all three
// values: a per-day subkey is derived from masterKey under stage1Label,
// then the final value is derived from that subkey under stage2Label.
func two(provider hcrypto.Provider, masterKey []byte, stage1Label string, day uint32, stage2Label string, stage2Ctx uint32, outputLen int) ([]byte, error) {
	subkey, err := kdf.Counter(provider, masterKey, stage1Label, strconv.FormatUint(uint64(day), 10), len(masterKey))
	if err != nil {
		return nil, err
	}
	defer provider.Zeroize(subkey)

	return kdf.Counter(provider, subkey, stage2Label, strconv.FormatUint(uint64(stage2Ctx), 10), outputLen)
}

// DeviceID derives the 4-byte ephemeral device id for the given day. It
// uses stage-2 context 0 so the device id rotates once per day rather than
// per broadcast.
func DeviceID(provider hcrypto.Provider, masterKey []byte, day uint32) ([]byte, error) {
	return two(provider, masterKey, "DeviceKey", day, "DeviceID", 0, deviceIDLen)
}

// Nonce derives the 12-byte AES-CTR nonce for the given (day, seq) pair.
func Nonce(provider hcrypto.Provider, masterKey []byte, day uint32, seq uint16) ([]byte, error) {
	return two(provider, masterKey, "NonceKey", day, "Nonce", uint32(seq), nonceLen)
}

// EncryptionKey derives the ephemeral AES/CMAC key (same length as
// masterKey) for the given (day, seq) pair.
func EncryptionKey(provider hcrypto.Provider, masterKey []byte, day uint32, seq uint16) ([]byte, error) {
	return two(provider, masterKey, "EncryptionKey", day, "Key", uint32(seq), len(masterKey))
}
