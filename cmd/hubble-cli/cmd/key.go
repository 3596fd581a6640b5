// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hubblenetwork/hubble-sdk/port/keyring"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage a device's long-term key in the OS keyring",
}

var keyStoreCmd = &cobra.Command{
	Use:   "store hex-key",
	Short: "Store a 16- or 32-byte hex-encoded key under key.device_id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := decodeHexKey(args[0])
		if err != nil {
			return err
		}
		if err := keyring.Store(cfg.Key.DeviceID, key); err != nil {
			return err
		}
		slog.Info("key stored", "device_id", cfg.Key.DeviceID)
		return nil
	},
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the key stored under key.device_id",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keyring.Delete(cfg.Key.DeviceID); err != nil {
			return err
		}
		slog.Info("key deleted", "device_id", cfg.Key.DeviceID)
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyStoreCmd, keyDeleteCmd)
	rootCmd.AddCommand(keyCmd)
}

func decodeHexKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("key must be hex-encoded: %w", err)
	}
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("key must be 16 or 32 bytes, got %d", len(key))
	}
	return key, nil
}
