// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package keyring stores and retrieves a device's long-term Hubble key in
// the host OS's credential store (macOS Keychain, Windows Credential
// Manager, the Secret Service API on Linux), via
// github.com/zalando/go-keyring. Key ownership has two acceptable shapes:
// a trait backed by a platform key handle, or an owned copy zeroised on
// drop. This package is the former for the CLI/developer-workstation
// bearer: the key never touches disk in plaintext outside the OS
// credential store.
package keyring

import (
	"encoding/hex"
	"fmt"

	"github.com/zalando/go-keyring"
)

// service is the keyring service name every hubble-cli key is stored
// under; entries are distinguished by device id (the keyring "user").
const service = "hubble-sdk"

// Store saves key (hex-encoded) in the OS credential store under deviceID.
func Store(deviceID string, key []byte) error {
	if len(key) != 16 && len(key) != 32 {
		return fmt.Errorf("keyring: key must be 16 or 32 bytes, got %d", len(key))
	}
	if err := keyring.Set(service, deviceID, hex.EncodeToString(key)); err != nil {
		return fmt.Errorf("keyring: store key for %q: %w", deviceID, err)
	}
	return nil
}

// Load retrieves the key previously stored under deviceID.
func Load(deviceID string) ([]byte, error) {
	encoded, err := keyring.Get(service, deviceID)
	if err != nil {
		return nil, fmt.Errorf("keyring: load key for %q: %w", deviceID, err)
	}
	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("keyring: stored key for %q is not valid hex: %w", deviceID, err)
	}
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("keyring: stored key for %q has invalid length %d", deviceID, len(key))
	}
	return key, nil
}

// Delete removes the key stored under deviceID, ignoring a not-found error
// (deleting an already-absent key is not itself a failure).
func Delete(deviceID string) error {
	if err := keyring.Delete(service, deviceID); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("keyring: delete key for %q: %w", deviceID, err)
	}
	return nil
}
