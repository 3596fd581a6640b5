// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

var satCmd = &cobra.Command{
	Use:   "sat [payload-hex]",
	Short: "Build one v1 satellite packet and print its symbols, channel and hopping sequence",
	Long: `Builds one v1 satellite packet. Payload length must be one of
	{0, 4, 9, 13} bytes once hex-decoded, per the frame sizes the protocol
	supports.
`,
	Args: cobra.MaximumNArgs(1),
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

		pkt, err := hc.SatPacketGet(nowUTCMillis(), payload)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "channel=%d hopping_sequence=%d symbols=%d\n", pkt.Channel, pkt.HoppingSequence, len(pkt.Symbols))
		for i, s := range pkt.Symbols {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprintf(out, "%02x", s)
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(satCmd)
}
