// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package hubble

import "errors"

// Sentinel errors shared across every public entry point. They are stable
// across bearers: callers should compare against these, not against
// bearer-internal errors wrapped underneath them.
var (
	// ErrInvalidArgument covers a null/undersized output buffer, an
	// oversized payload, an invalid reliability enum, or an invalid
	// channel/sequence index.
	ErrInvalidArgument = errors.New("hubble: invalid argument")

	// ErrPermissionDenied is returned when the nonce-reuse monitor vetoes
	// a (day, seq) pair.
	ErrPermissionDenied = errors.New("hubble: nonce reuse detected")

	// ErrNotInitialised is returned when a broadcast is requested before a
	// key has been set.
	ErrNotInitialised = errors.New("hubble: key not set")

	// ErrUnsupported is returned when a deprecated-only operation is
	// called against a context that was not configured for it (e.g. the
	// v0 satellite path without a static device id).
	ErrUnsupported = errors.New("hubble: operation not supported by this build")

	// ErrUnderlyingCrypto wraps an opaque failure returned by the
	// crypto.Provider (AES-CTR, CMAC, or provider init). The core never
	// retries these; they propagate unchanged except for this wrapping.
	// An RNG failure is not reported: the satellite builder falls back to
	// a fixed channel instead.
	ErrUnderlyingCrypto = errors.New("hubble: underlying crypto provider error")
)
