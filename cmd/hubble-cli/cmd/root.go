// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	hubble "github.com/hubblenetwork/hubble-sdk"
	hcrypto "github.com/hubblenetwork/hubble-sdk/internal/crypto"
	"github.com/hubblenetwork/hubble-sdk/internal/store"
	"github.com/hubblenetwork/hubble-sdk/port/keyring"
)

var (
	logLevel slog.LevelVar
	cfgFile  string
	cfg      HubbleCLIConfig
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "hubble-cli",
	Short: "Build and inspect Hubble beacon SDK broadcasts from the command line",
	Long: `hubble-cli is a sample application for the Hubble beacon SDK. It
	builds BLE and satellite packets for a payload, manages a device's
	long-term key in the OS keyring, and watches upcoming satellite passes.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional; none is read unless this is set)")
	rootCmd.PersistentFlags().Bool("debug", false, "print debug logging")
	rootCmd.PersistentFlags().String("key-device-id", "", "device id identifying the key in the OS keyring")
	rootCmd.PersistentFlags().String("key-hex", "", "long-term key as hex, bypassing the keyring (development use only)")
	rootCmd.PersistentFlags().String("store-type", "", "sequence/nonce persistence backend: sqlite or postgres (unset disables persistence)")
	rootCmd.PersistentFlags().String("store-dsn", "", "persistence backend DSN")

	_ = viper.BindPFlag("key.device_id", rootCmd.PersistentFlags().Lookup("key-device-id"))
	_ = viper.BindPFlag("key.hex_key", rootCmd.PersistentFlags().Lookup("key-hex"))
	_ = viper.BindPFlag("store.type", rootCmd.PersistentFlags().Lookup("store-type"))
	_ = viper.BindPFlag("store.dsn", rootCmd.PersistentFlags().Lookup("store-dsn"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetEnvPrefix("HUBBLE")
	viper.AutomaticEnv()
}

// loadConfig reads the config file (if any), binds flags/env, and
// unmarshals into cfg, validating the result.
func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", cfgFile, err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}

	if viper.GetBool("debug") {
		logLevel.Set(slog.LevelDebug)
	}

	return cfg.validate()
}

// resolveKey returns the device's long-term key: the inline hex override
// if set, otherwise a keyring lookup under key.device_id.
func resolveKey() ([]byte, error) {
	if cfg.Key.HexKey != "" {
		return decodeHexKey(cfg.Key.HexKey)
	}
	key, err := keyring.Load(cfg.Key.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("no key available for device %q (set key.hex_key or run 'hubble-cli key store'): %w", cfg.Key.DeviceID, err)
	}
	return key, nil
}

// nowUTCMillis is the CLI's wall clock: the resolution the core deals in.
func nowUTCMillis() int64 { return time.Now().UnixMilli() }

// newContext builds a hubble.Context wired to the default crypto provider
// and the resolved key, with the UTC base set to the current wall clock.
// If store.type/store.dsn are configured, the BLE and satellite builders'
// nonce-monitor state is restored from the last run; the returned closer
// persists it again and must be called (via defer) after the last build
// call, so a restarted CLI process does not risk reusing a (day, seq) pair
// from before the restart.
func newContext(ctx context.Context) (hc *hubble.Context, closer func() error, err error) {
	key, err := resolveKey()
	if err != nil {
		return nil, nil, err
	}
	now := time.Now().UnixMilli()

	opts := []hubble.Option{}
	closer = func() error { return nil }

	var st *store.Store
	if cfg.Store.DSN != "" {
		st, err = cfg.Store.Open()
		if err != nil {
			return nil, nil, fmt.Errorf("opening persistence store: %w", err)
		}
		counter, err := st.SequenceCounter(cfg.Key.DeviceID)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, hubble.WithSequenceCounter(counter))
	}

	hc, err = hubble.New(ctx, hcrypto.NewDefault(), now, key, opts...)
	if err != nil {
		return nil, nil, err
	}

	if st != nil {
		bleState, err := st.LoadNonceState(cfg.Key.DeviceID, "ble")
		if err != nil {
			return nil, nil, err
		}
		hc.RestoreBLENonceState(bleState)
		satState, err := st.LoadNonceState(cfg.Key.DeviceID, "sat")
		if err != nil {
			return nil, nil, err
		}
		hc.RestoreSatNonceState(satState)

		closer = func() error {
			if err := st.SaveNonceState(cfg.Key.DeviceID, "ble", hc.BLENonceState()); err != nil {
				return err
			}
			if err := st.SaveNonceState(cfg.Key.DeviceID, "sat", hc.SatNonceState()); err != nil {
				return err
			}
			return st.Close()
		}
	}

	return hc, closer, nil
}
