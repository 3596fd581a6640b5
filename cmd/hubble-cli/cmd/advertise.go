// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var advertiseCmd = &cobra.Command{
	Use:   "advertise [payload-hex]",
	Short: "Build one BLE service-data advertisement and print it as hex",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload []byte
		if len(args) == 1 {
			p, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("payload must be hex-encoded: %w", err)
			}
			payload = p
		}

		hc, closer, err := newContext(cmd.Context())
		if err != nil {
			return err
		}
		defer closer()

		out, err := hc.BLEAdvertiseGet(nowUTCMillis(), payload)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(advertiseCmd)
}
