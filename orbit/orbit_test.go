// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package orbit

import "testing"

// sampleElements approximates a low-Earth-orbit sun-synchronous satellite:
// ~90 minute period, ~97 degree (retrograde, near-polar) inclination.
func sampleElements() *Elements {
	return &Elements{
		Epoch:          1_798_000_000,
		MeanMotion:     0.0011671, // ~90 minutes
		MeanMotionDot:  1e-13,
		RAAN:           0.4,
		RAANDot:        -1.4e-10,
		ArgPerigee:     0.2,
		ArgPerigeeDot:  5e-11,
		InclinationDeg: 97.5,
		Eccentricity:   0.001,
	}
}

func TestNextPassReturnsFutureTime(t *testing.T) {
	el := sampleElements()
	point := Point{LatDeg: 37.4, LonDeg: -122.1}

	pass, err := NextPass(el, el.Epoch+1000, point)
	if err != nil {
		t.Fatalf("NextPass: %v", err)
	}
	if pass.Time <= el.Epoch+1000 {
		t.Fatalf("NextPass returned t=%d, want > %d", pass.Time, el.Epoch+1000)
	}
}

func TestNextPassLongitudeWithinTolerance(t *testing.T) {
	el := sampleElements()
	point := Point{LatDeg: 10, LonDeg: 50}

	pass, err := NextPass(el, el.Epoch, point)
	if err != nil {
		t.Fatalf("NextPass: %v", err)
	}
	tol := lonTolerance(point.LatDeg)
	diff := minus180To180(pass.LonDeg - point.LonDeg)
	if diff < -tol-1e-6 || diff > tol+1e-6 {
		t.Fatalf("pass longitude %f outside tolerance %f of target %f", pass.LonDeg, tol, point.LonDeg)
	}
}

func TestNextPassRegionBracketsCorners(t *testing.T) {
	el := sampleElements()
	region := Region{LatMidDeg: 20, LonMidDeg: 30, LatRangeDeg: 4, LonRangeDeg: 4}

	pass, err := NextPassRegion(el, el.Epoch, region)
	if err != nil {
		t.Fatalf("NextPassRegion: %v", err)
	}
	if pass.Time <= el.Epoch {
		t.Fatalf("NextPassRegion returned t=%d, want > %d", pass.Time, el.Epoch)
	}
	if pass.Duration < 0 {
		t.Fatalf("NextPassRegion duration = %d, want >= 0", pass.Duration)
	}
}

func TestLonToleranceWidensNearPoles(t *testing.T) {
	equator := lonTolerance(0)
	highLat := lonTolerance(70)
	if highLat <= equator {
		t.Fatalf("lonTolerance(70) = %f, want > lonTolerance(0) = %f", highLat, equator)
	}
}
