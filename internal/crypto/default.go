// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/aead/cmac"
)

// Default is the reference Provider backed entirely by the Go standard
// library plus github.com/aead/cmac for AES-CMAC (the standard library has
// no CMAC implementation). It is adequate for hosts that are not routing
// crypto through a hardware keystore or a PSA/mbedTLS driver; production
// firmware builds are expected to supply their own Provider.
type Default struct{}

// NewDefault returns the stdlib-backed Provider.
func NewDefault() *Default { return &Default{} }

// Init is a no-op: crypto/aes and github.com/aead/cmac need no setup.
func (d *Default) Init(_ context.Context) error { return nil }

// AESCTR implements Provider.AESCTR using crypto/cipher's CTR stream mode.
// The 16-byte counterBlock is used verbatim as the initial counter value:
// bytes 0..11 are the derived nonce, bytes 12..15 are the counter (zero at
// the first call).
func (d *Default) AESCTR(key, counterBlock, input, output []byte) error {
	if len(counterBlock) != BlockSize {
		return fmt.Errorf("crypto: counter block must be %d bytes, got %d", BlockSize, len(counterBlock))
	}
	if len(input) != len(output) {
		return fmt.Errorf("crypto: input/output length mismatch: %d != %d", len(input), len(output))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("crypto: aes.NewCipher: %w", err)
	}
	stream := cipher.NewCTR(block, counterBlock)
	stream.XORKeyStream(output, input)
	return nil
}

// CMAC implements Provider.CMAC using github.com/aead/cmac over crypto/aes.
func (d *Default) CMAC(key, input, output []byte) error {
	if len(output) != BlockSize {
		return fmt.Errorf("crypto: cmac output must be %d bytes, got %d", BlockSize, len(output))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("crypto: aes.NewCipher: %w", err)
	}
	mac, err := cmac.New(block)
	if err != nil {
		return fmt.Errorf("crypto: cmac.New: %w", err)
	}
	if _, err := mac.Write(input); err != nil {
		return fmt.Errorf("crypto: cmac write: %w", err)
	}
	copy(output, mac.Sum(nil))
	return nil
}

// Zeroize overwrites buf with zeros.
func (d *Default) Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// Rand fills buf using crypto/rand.
func (d *Default) Rand(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}
