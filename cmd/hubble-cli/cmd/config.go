// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"errors"

	"github.com/mitchellh/mapstructure"

	"github.com/hubblenetwork/hubble-sdk/internal/store"
	"github.com/hubblenetwork/hubble-sdk/orbit"
)

// LogConfig controls the devlog handler's verbosity.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// KeyConfig identifies which device's long-term key to operate on and, for
// commands that need the raw bytes rather than a keyring lookup, an
// inline hex override (development/testing only, the keyring is the
// supported path for anything resembling a real device).
type KeyConfig struct {
	DeviceID string `mapstructure:"device_id"`
	HexKey   string `mapstructure:"hex_key"`
}

func (k *KeyConfig) validate() error {
	if k.DeviceID == "" {
		return errors.New("key.device_id is required")
	}
	return nil
}

// OrbitConfig carries a named set of satellite elements read from the
// config file. Keeping it as a raw map (rather than a typed field) lets
// the config file describe several satellites' elements under arbitrary
// keys without HubbleCLIConfig knowing their names in advance; ElementsFor
// decodes the selected entry on demand, once the name picks which entry
// applies.
type OrbitConfig struct {
	RawElements map[string]map[string]interface{} `mapstructure:"elements"`
}

// ElementsFor decodes the named entry of orbit.elements into orbit.Elements.
// A missing name is not an error: callers fall back to flag-supplied values.
func (o *OrbitConfig) ElementsFor(name string) (*orbit.Elements, bool, error) {
	raw, ok := o.RawElements[name]
	if !ok {
		return nil, false, nil
	}
	var el orbit.Elements
	if err := mapstructure.Decode(raw, &el); err != nil {
		return nil, false, err
	}
	return &el, true, nil
}

// HubbleCLIConfig is the root configuration structure layered from flags,
// environment variables and an optional config file by viper.
type HubbleCLIConfig struct {
	Log   LogConfig    `mapstructure:"log"`
	Key   KeyConfig    `mapstructure:"key"`
	Store store.Config `mapstructure:"store"`
	Orbit OrbitConfig  `mapstructure:"orbit"`
}

func (c *HubbleCLIConfig) validate() error {
	if err := c.Key.validate(); err != nil {
		return err
	}
	if c.Store.DSN != "" {
		if err := c.Store.Validate(); err != nil {
			return err
		}
	}
	return nil
}
