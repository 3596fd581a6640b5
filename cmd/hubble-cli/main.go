// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Command hubble-cli is a developer-workstation harness for the Hubble
// beacon SDK: it builds BLE and satellite packets from the command line,
// manages a device's long-term key in the OS keyring, and watches upcoming
// satellite passes in a small terminal UI. It is a sample application, not
// part of the core SDK the rest of this module implements.
package main

import "github.com/hubblenetwork/hubble-sdk/cmd/hubble-cli/cmd"

func main() {
	cmd.Execute()
}
