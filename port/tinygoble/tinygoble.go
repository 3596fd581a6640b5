// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

//go:build hubble_tinygoble

// Package tinygoble is a BLE bearer built on tinygo.org/x/bluetooth: it
// takes the Service-Data blob ble.Builder produces and drives a
// non-connectable advertisement carrying it under service UUID 0xFCA6.
// Bearer-specific radio drivers live outside the core SDK, and this
// package is exactly that kind of out-of-scope collaborator.
//
// Build-tag gated behind hubble_tinygoble rather than always compiled: it
// pulls in tinygo's adapter layer (and, on embedded targets, the
// soypat/cyw43439 driver beneath it), which is only meaningful on a host
// that actually has a BLE radio tinygo can drive.
package tinygoble

import (
	"fmt"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/hubblenetwork/hubble-sdk/ble"
)

// ServiceUUID is the 16-bit Hubble service UUID (0xFCA6) advertisements are
// carried under.
var ServiceUUID = bluetooth.New16BitUUID(0xFCA6)

// Bearer advertises Hubble BLE frames via the default local Bluetooth
// adapter.
type Bearer struct {
	adapter *bluetooth.Adapter
}

// New returns a Bearer driving the host's default Bluetooth adapter. The
// adapter is not enabled until Init is called.
func New() *Bearer {
	return &Bearer{adapter: bluetooth.DefaultAdapter}
}

// Init enables the local Bluetooth adapter.
func (b *Bearer) Init() error {
	if err := b.adapter.Enable(); err != nil {
		return fmt.Errorf("tinygoble: enable adapter: %w", err)
	}
	return nil
}

// Advertise starts a non-connectable advertisement carrying frame (the
// output of ble.Builder.Build) in the Service-Data field under
// ServiceUUID, and returns a function that stops it. frame must be a
// complete 12+N byte blob; only bytes [2:] (version/sequence, device id,
// tag, ciphertext) are placed in the service-data payload, since the
// leading two UUID bytes are represented by the BLE stack's own
// ServiceDataElement.UUID field rather than duplicated into the payload.
func (b *Bearer) Advertise(frame []byte) (stop func() error, err error) {
	if len(frame) < ble.HeaderLen {
		return nil, fmt.Errorf("tinygoble: frame shorter than BLE header (%d < %d)", len(frame), ble.HeaderLen)
	}

	adv := b.adapter.DefaultAdvertisement()
	err = adv.Configure(bluetooth.AdvertisementOptions{
		ServiceData: []bluetooth.ServiceDataElement{
			{UUID: ServiceUUID, Data: frame[2:]},
		},
		Interval: bluetooth.NewDuration(100 * time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("tinygoble: configure advertisement: %w", err)
	}
	if err := adv.Start(); err != nil {
		return nil, fmt.Errorf("tinygoble: start advertisement: %w", err)
	}

	return adv.Stop, nil
}
