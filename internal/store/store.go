// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package store provides optional, host-side persistence for the sequence
// counter and nonce-monitor state, which are otherwise process-wide
// singletons with no storage of their own. It is consumed by
// cmd/hubble-cli and is not imported by the core packages (ble, sat,
// hubble) themselves, preserving the core's invariant that no files are
// persisted on its own.
package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hubblenetwork/hubble-sdk/internal/noncemonitor"
)

// Config selects and configures the backing database, with a Type/DSN
// mapstructure shape so it can be embedded directly in a layered viper
// config.
type Config struct {
	Type string `mapstructure:"type"`
	DSN  string `mapstructure:"dsn"`
}

// Validate checks that Type is a supported driver and DSN is non-empty.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return errors.New("store configuration error: dsn is required")
	}
	c.Type = strings.ToLower(c.Type)
	if c.Type != "sqlite" && c.Type != "postgres" {
		return fmt.Errorf("unsupported store type: %s (must be 'sqlite' or 'postgres')", c.Type)
	}
	return nil
}

// Open validates c and opens the corresponding gorm.DB, auto-migrating the
// sequence and nonce-state tables.
func (c *Config) Open() (*Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch c.Type {
	case "sqlite":
		dialector = sqlite.Open(c.DSN)
	case "postgres":
		dialector = postgres.Open(c.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", c.Type, err)
	}

	if err := db.AutoMigrate(&sequenceRow{}, &nonceStateRow{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// sequenceRow persists the next sequence number to hand out for one device.
type sequenceRow struct {
	DeviceID string `gorm:"primaryKey"`
	Next     uint16
}

// nonceStateRow persists one Monitor's State for one device and bearer
// (distinct rows for "ble" and "sat", since each builder owns its own
// monitor).
type nonceStateRow struct {
	DeviceID      string `gorm:"primaryKey"`
	Bearer        string `gorm:"primaryKey"`
	Initialised   bool
	LastDay       uint32
	FirstSeqOfDay uint16
	LastSeq       uint16
	Wrapped       bool
}

// Store is a gorm-backed persister for one or more devices' sequence
// counters and nonce-monitor state. It is safe for concurrent use only to
// the extent gorm's connection pool is; callers within a single device's
// build loop must still serialise access themselves.
type Store struct {
	db *gorm.DB
}

// SequenceCounter returns a hubble.SequenceCounter-compatible counter
// backed by row deviceID, creating it at 0 if absent. A failure to load or
// create the row is returned as an error.
func (s *Store) SequenceCounter(deviceID string) (*PersistentSequenceCounter, error) {
	row := sequenceRow{DeviceID: deviceID}
	if err := s.db.FirstOrCreate(&row, sequenceRow{DeviceID: deviceID}).Error; err != nil {
		return nil, fmt.Errorf("store: load sequence counter for %q: %w", deviceID, err)
	}
	return &PersistentSequenceCounter{db: s.db, deviceID: deviceID, next: row.Next}, nil
}

// PersistentSequenceCounter implements hubble.SequenceCounter, persisting
// the counter to the Store after every Next() call. It wraps at 1023.
type PersistentSequenceCounter struct {
	db       *gorm.DB
	deviceID string
	next     uint16
}

// Next returns the next sequence number and advances the persisted counter.
// A write failure is swallowed (the in-memory counter still advances) since
// the public SequenceCounter.Next contract has no error return. A failed
// write is not retried or reported.
func (p *PersistentSequenceCounter) Next() uint16 {
	v := p.next
	p.next = (p.next + 1) % (noncemonitor.MaxSeq + 1)
	_ = p.db.Model(&sequenceRow{}).Where("device_id = ?", p.deviceID).Update("next", p.next).Error
	return v
}

// LoadNonceState reads back a previously-persisted Monitor snapshot for
// (deviceID, bearer), returning the zero State (an uninitialised monitor)
// if none has been saved yet.
func (s *Store) LoadNonceState(deviceID, bearer string) (noncemonitor.State, error) {
	var row nonceStateRow
	err := s.db.Where("device_id = ? AND bearer = ?", deviceID, bearer).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return noncemonitor.State{}, nil
	}
	if err != nil {
		return noncemonitor.State{}, fmt.Errorf("store: load nonce state for %q/%q: %w", deviceID, bearer, err)
	}
	return noncemonitor.State{
		Initialised:   row.Initialised,
		LastDay:       row.LastDay,
		FirstSeqOfDay: row.FirstSeqOfDay,
		LastSeq:       row.LastSeq,
		Wrapped:       row.Wrapped,
	}, nil
}

// SaveNonceState persists a Monitor snapshot for (deviceID, bearer),
// overwriting any prior row.
func (s *Store) SaveNonceState(deviceID, bearer string, state noncemonitor.State) error {
	row := nonceStateRow{
		DeviceID:      deviceID,
		Bearer:        bearer,
		Initialised:   state.Initialised,
		LastDay:       state.LastDay,
		FirstSeqOfDay: state.FirstSeqOfDay,
		LastSeq:       state.LastSeq,
		Wrapped:       state.Wrapped,
	}
	if err := s.db.Save(&row).Error; err != nil {
		return fmt.Errorf("store: save nonce state for %q/%q: %w", deviceID, bearer, err)
	}
	return nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
