// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

//go:build !smallmath

package orbit

import "math"

// This build uses the standard library's libm-backed transcendental
// functions. The "smallmath" build tag swaps in minimax polynomial
// approximations instead (see mathops_small.go), for targets where pulling
// in the full libm is not worth the flash footprint.
var (
	sinFn  = math.Sin
	cosFn  = math.Cos
	tanFn  = math.Tan
	atanFn = math.Atan
	asinFn = math.Asin
	sqrtFn = math.Sqrt
	fmodFn = math.Mod
)
