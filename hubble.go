// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package hubble is the public facade for the beacon SDK: it wires the
// crypto provider, key, UTC base, sequence counter, and the BLE/satellite
// builders behind the small set of entry points a device application
// calls. What would otherwise be process-wide singleton state is
// encapsulated in a single Context value instead.
//
// The Context is not safe for concurrent use: callers must serialise their
// own access, matching the single-threaded-cooperative model the rest of
// the SDK assumes.
package hubble

import (
	"context"
	"errors"
	"fmt"

	"github.com/hubblenetwork/hubble-sdk/ble"
	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/noncemonitor"
	"github.com/hubblenetwork/hubble-sdk/orbit"
	"github.com/hubblenetwork/hubble-sdk/sat"
)

const dayMillis = 86_400_000

// SequenceCounter is a host-overridable capability that supplies the next
// sequence number for a broadcast. If unset, Context falls back to an
// internal wrapping counter in [0, 1023].
type SequenceCounter interface {
	Next() uint16
}

type wrappingCounter struct{ next uint16 }

func (w *wrappingCounter) Next() uint16 {
	v := w.next
	w.next = (w.next + 1) % 1024
	return v
}

// Context holds everything a running device needs: the borrowed key, the
// UTC base, the sequence counter, and the BLE/satellite builders. The zero
// value is not ready to use; construct one with New.
type Context struct {
	provider hcrypto.Provider
	key      []byte

	utcBaseMs    int64
	lastSyncMs   int64
	driftPPM     int64

	sequence SequenceCounter

	ble      *ble.Builder
	sat      *sat.Builder
	deprecated *sat.DeprecatedBuilder
}

// Option configures a Context at construction time.
type Option func(*Context)

// WithSequenceCounter overrides the default wrapping sequence counter.
func WithSequenceCounter(sc SequenceCounter) Option {
	return func(c *Context) { c.sequence = sc }
}

// WithDriftPPM sets the host clock's drift budget in parts-per-million,
// used to grow the satellite retry count as time-since-sync grows. The
// default is 0 (no drift compensation).
func WithDriftPPM(ppm int64) Option {
	return func(c *Context) { c.driftPPM = ppm }
}

// WithDeprecatedDeviceID enables the v0 (deprecated) satellite protocol
// with the given static device id. Calling SatPacketGetV0 without this
// option returns ErrUnsupported.
func WithDeprecatedDeviceID(deviceID uint64) Option {
	return func(c *Context) { c.deprecated = sat.NewDeprecatedBuilder(c.provider, deviceID) }
}

// New initialises a Context: it calls provider.Init, sets the UTC base,
// and records key (which may be nil to defer key configuration to a later
// KeySet call).
func New(ctx context.Context, provider hcrypto.Provider, utcMs int64, key []byte, opts ...Option) (*Context, error) {
	if err := provider.Init(ctx); err != nil {
		return nil, fmt.Errorf("%w: provider init: %w", ErrUnderlyingCrypto, err)
	}

	c := &Context{
		provider:  provider,
		key:       key,
		utcBaseMs: utcMs,
		sequence:  &wrappingCounter{},
	}
	c.ble = ble.NewBuilder(provider)
	c.sat = sat.NewBuilder(provider)

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// UTCSet resets the UTC base and records the sync instant. utcMs == 0 is
// rejected.
func (c *Context) UTCSet(utcMs int64) error {
	if utcMs == 0 {
		return fmt.Errorf("%w: utc_ms must be non-zero", ErrInvalidArgument)
	}
	c.utcBaseMs = utcMs
	c.lastSyncMs = utcMs
	return nil
}

// KeySet replaces the borrowed key. A nil key is rejected, leaving the
// prior key (if any) in place.
func (c *Context) KeySet(key []byte) error {
	if key == nil {
		return fmt.Errorf("%w: key must be non-nil", ErrInvalidArgument)
	}
	c.key = key
	return nil
}

// nowMs returns the current wall-clock estimate. Real devices derive this
// from utc_base + uptime_ms(); this reference implementation treats utcMs
// as already reflecting the caller's current time, since the core has no
// host uptime clock of its own.
func (c *Context) nowMs(utcMs int64) int64 { return utcMs }

// Day returns the day counter for utcMs.
func Day(utcMs int64) uint32 { return uint32(utcMs / dayMillis) }

// SequenceCounterGet returns the next sequence number from the configured
// counter (or the default wrapping counter).
func (c *Context) SequenceCounterGet() uint16 { return c.sequence.Next() }

// BLEAdvertiseGet builds one BLE service-data blob for payload at the
// current UTC time.
func (c *Context) BLEAdvertiseGet(utcMs int64, payload []byte) ([]byte, error) {
	if c.key == nil {
		return nil, ErrNotInitialised
	}
	day := Day(c.nowMs(utcMs))
	seq := c.SequenceCounterGet()

	out, err := c.ble.Build(c.key, day, seq, payload)
	if err != nil {
		switch {
		case errors.Is(err, ble.ErrNonceReuse):
			return nil, ErrPermissionDenied
		case errors.Is(err, ble.ErrPayloadTooLarge), errors.Is(err, ble.ErrSeqOutOfRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrUnderlyingCrypto, err)
		}
	}
	return out, nil
}

// SatPacketGet builds one v1 satellite packet for payload at the current
// UTC time.
func (c *Context) SatPacketGet(utcMs int64, payload []byte) (*sat.Packet, error) {
	if c.key == nil {
		return nil, ErrNotInitialised
	}
	day := Day(c.nowMs(utcMs))
	seq := c.SequenceCounterGet()

	pkt, err := c.sat.Build(c.key, day, seq, payload)
	if err != nil {
		switch {
		case errors.Is(err, sat.ErrNonceReuse):
			return nil, ErrPermissionDenied
		case errors.Is(err, sat.ErrPayloadLength), errors.Is(err, sat.ErrSeqOutOfRange):
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		default:
			return nil, fmt.Errorf("%w: %w", ErrUnderlyingCrypto, err)
		}
	}
	return pkt, nil
}

// SatPacketGetV0 builds one v0 (deprecated) satellite packet, if
// WithDeprecatedDeviceID was supplied at construction.
func (c *Context) SatPacketGetV0(payload []byte) (*sat.Packet, error) {
	if c.deprecated == nil {
		return nil, ErrUnsupported
	}
	pkt, err := c.deprecated.Build(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return pkt, nil
}

// SatSendPlan resolves a Reliability into the retry plan the satellite
// bearer should use, including drift-based additional retries computed
// from time elapsed since the last UTC sync.
func (c *Context) SatSendPlan(reliability Reliability, utcMs int64) (RetryPlan, error) {
	plan, err := planFor(reliability)
	if err != nil {
		return RetryPlan{}, err
	}
	if c.lastSyncMs > 0 && c.driftPPM > 0 {
		sinceSync := utcMs - c.lastSyncMs
		plan.Retries += driftRetries(sinceSync, c.driftPPM, plan.GapSecs)
	}
	return plan, nil
}

// NextPassGet computes the next time the satellite described by el passes
// over point, searching forward from utcMs.
func (c *Context) NextPassGet(el *orbit.Elements, utcMs int64, point orbit.Point) (orbit.Pass, error) {
	return orbit.NextPass(el, utcMs/1000, point)
}

// NextPassRegionGet computes the next pass window during which any part of
// region is within the satellite's footprint.
func (c *Context) NextPassRegionGet(el *orbit.Elements, utcMs int64, region orbit.Region) (orbit.Pass, error) {
	return orbit.NextPassRegion(el, utcMs/1000, region)
}

// BLENonceState returns a snapshot of the BLE builder's nonce-monitor state,
// for a host that wants to persist it across process restarts (see
// internal/store). RestoreBLENonceState reloads it.
func (c *Context) BLENonceState() noncemonitor.State { return c.ble.Monitor.Snapshot() }

// RestoreBLENonceState replaces the BLE builder's nonce-monitor state with a
// previously-persisted snapshot, read back at startup before any broadcast
// has been built this process.
func (c *Context) RestoreBLENonceState(s noncemonitor.State) { c.ble.Monitor.Restore(s) }

// SatNonceState returns a snapshot of the v1 satellite builder's nonce-
// monitor state. See BLENonceState.
func (c *Context) SatNonceState() noncemonitor.State { return c.sat.Monitor.Snapshot() }

// RestoreSatNonceState replaces the v1 satellite builder's nonce-monitor
// state with a previously-persisted snapshot.
func (c *Context) RestoreSatNonceState(s noncemonitor.State) { c.sat.Monitor.Restore(s) }

// SatChannelNextHopGet returns the next channel in the pre-computed hop
// table for the given hopping sequence.
func SatChannelNextHopGet(sequence uint8, channel uint8) (uint8, error) {
	next, err := sat.NextHop(sequence, channel)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return next, nil
}
