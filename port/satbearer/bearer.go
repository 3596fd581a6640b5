// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package satbearer is a reference implementation of the satellite bearer,
// kept external to the core: it owns the retry loop (retry count times
// inter-retry gap), serialises concurrent senders behind a binary
// semaphore released on every exit path, and paces retries with
// golang.org/x/time/rate rather than a bare time.Sleep.
//
// The actual radio transmission is delegated to a Transmitter the caller
// supplies, this package never touches RF hardware; bearer-specific radio
// drivers are out of scope.
package satbearer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	hubble "github.com/hubblenetwork/hubble-sdk"
	"github.com/hubblenetwork/hubble-sdk/sat"
)

// Transmitter is the host-supplied radio driver: it puts one satellite
// packet on the air at the given channel and hopping sequence. Bearers
// implement this outside the SDK (vendor RF front-end, simulator, etc).
type Transmitter interface {
	// Transmit sends one physical-layer frame built from pkt. It may block
	// for the duration of one symbol burst but must respect ctx
	// cancellation between retries.
	Transmit(ctx context.Context, pkt *sat.Packet) error
}

// Bearer drives Transmitter with the retry/backoff policy a Reliability
// resolves to, holding a binary semaphore to serialise concurrent senders
// and releasing it on every exit path.
type Bearer struct {
	tx  Transmitter
	sem chan struct{}
}

// New returns a Bearer that transmits through tx.
func New(tx Transmitter) *Bearer {
	return &Bearer{tx: tx, sem: make(chan struct{}, 1)}
}

// Init performs one-shot bearer setup. The reference bearer has none
// beyond readying the semaphore, which New already does; Init exists so
// callers have a single lifecycle hook to call regardless of which
// Transmitter they inject.
func (b *Bearer) Init(_ context.Context) error { return nil }

// Send transmits pkt up to plan.Retries times, spaced by plan.GapSecs,
// stopping at the first successful Transmit. It acquires the bearer's
// semaphore for the duration of the whole retry loop and always releases
// it, even on context cancellation or a Transmit error.
func (b *Bearer) Send(ctx context.Context, pkt *sat.Packet, plan hubble.RetryPlan) error {
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-b.sem }()

	if plan.Retries <= 0 {
		return fmt.Errorf("satbearer: retry plan has no transmissions (retries=%d)", plan.Retries)
	}

	var limiter *rate.Limiter
	if plan.GapSecs > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(plan.GapSecs)*time.Second), 1)
		// Consume the initial burst token so the first retry gap is paced
		// the same as every subsequent one.
		_ = limiter.Wait(ctx)
	}

	var lastErr error
	for attempt := 0; attempt < plan.Retries; attempt++ {
		if attempt > 0 && limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("satbearer: retry wait: %w", err)
			}
		}
		if err := b.tx.Transmit(ctx, pkt); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("satbearer: all %d attempts failed, last error: %w", plan.Retries, lastErr)
}
