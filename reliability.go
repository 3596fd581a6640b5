// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package hubble

import "fmt"

// Reliability selects the satellite bearer's retry budget for one
// transmission.
type Reliability int

const (
	ReliabilityNone Reliability = iota
	ReliabilityNormal
	ReliabilityHigh
)

// RetryPlan is the (retry count, inter-retry gap) pair a Reliability maps
// to, before any drift-based adjustment.
type RetryPlan struct {
	Retries int
	GapSecs int
}

var retryPlans = map[Reliability]RetryPlan{
	ReliabilityNone:   {Retries: 1, GapSecs: 0},
	ReliabilityNormal: {Retries: 8, GapSecs: 20},
	ReliabilityHigh:   {Retries: 16, GapSecs: 10},
}

// planFor returns the base retry plan for r, before drift compensation.
func planFor(r Reliability) (RetryPlan, error) {
	plan, ok := retryPlans[r]
	if !ok {
		return RetryPlan{}, fmt.Errorf("%w: reliability %d", ErrInvalidArgument, r)
	}
	return plan, nil
}

// driftRetries computes the additional retries the satellite bearer adds
// to compensate for clock drift since the last UTC sync:
//
//	floor((sinceSyncMs/1000 * driftPPM) / (1e6 * gapSecs))
//
// capped at 255 additional retries.
func driftRetries(sinceSyncMs int64, driftPPM int64, gapSecs int) int {
	if gapSecs <= 0 {
		return 0
	}
	extra := (sinceSyncMs / 1000 * driftPPM) / (1_000_000 * int64(gapSecs))
	if extra < 0 {
		return 0
	}
	if extra > 255 {
		return 255
	}
	return int(extra)
}
