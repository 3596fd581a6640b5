// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package orbit

// Region is a rectangular ground region, expressed as a midpoint plus a
// full width/height in degrees.
type Region struct {
	LatMidDeg   float64
	LonMidDeg   float64
	LatRangeDeg float64
	LonRangeDeg float64
}

// corners returns the four corner points of the region. The point predictor
// is latitude/longitude-tolerance based, so the region's min/max latitude
// bounds bracket every point that could be the first or last to enter view;
// scanning all four corners (rather than only the two extreme latitudes)
// also bounds the case where the region spans a longitude range wide
// enough that the satellite's footprint enters and leaves at different
// corners.
func (r Region) corners() [4]Point {
	halfLat := r.LatRangeDeg / 2
	halfLon := r.LonRangeDeg / 2
	return [4]Point{
		{LatDeg: r.LatMidDeg - halfLat, LonDeg: r.LonMidDeg - halfLon},
		{LatDeg: r.LatMidDeg - halfLat, LonDeg: r.LonMidDeg + halfLon},
		{LatDeg: r.LatMidDeg + halfLat, LonDeg: r.LonMidDeg - halfLon},
		{LatDeg: r.LatMidDeg + halfLat, LonDeg: r.LonMidDeg + halfLon},
	}
}

// NextPassRegion returns the midpoint time and duration of the window
// during which any part of region is within the satellite's footprint,
// searching forward from t. It runs NextPass from t for each corner and
// derives the window from the span between the earliest and latest of those
// corner passes; the corner passes are not required to fall in the same
// pass cycle.
func NextPassRegion(el *Elements, t int64, region Region) (Pass, error) {
	corners := region.corners()

	var earliest, latest Pass
	found := false

	for _, c := range corners {
		p, err := NextPass(el, t, c)
		if err != nil {
			continue
		}
		if !found || p.Time < earliest.Time {
			earliest = p
		}
		if !found || p.Time > latest.Time {
			latest = p
		}
		found = true
	}

	if !found {
		return Pass{}, ErrNoPass
	}

	duration := latest.Time - earliest.Time
	mid := earliest.Time + duration/2

	return Pass{
		LonDeg:    earliest.LonDeg,
		Time:      mid,
		Duration:  duration,
		Ascending: earliest.Ascending,
	}, nil
}
