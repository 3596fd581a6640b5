// SPDX-FileCopyrightText: (C) 2024 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Package orbit predicts the next time a satellite following a Keplerian
// orbit, given as elements plus secular rates, passes over a ground point
// or region within line-of-sight elevation. This is pure numerical domain
// math with no natural third-party analogue, so it is built directly on
// the standard library's math package.
package orbit

import (
	"errors"
	"math"
)

const (
	earthRadius        = 6_378_136.999954619 // m, equatorial
	earthRotationRate  = 7.292115855377074e-05 // rad/s
	satElevationRadius = 6_892_550.590445475   // m
	temeRefEpoch       = 1_798_761_600         // Unix seconds
	temeAngle          = 1.7526971469712507    // rad
	elevationToleranceDeg = 30
	twoPiDeg           = 360.0
	piDeg              = 180.0
)

// Elements is a satellite's Keplerian orbit at a reference epoch plus the
// secular rates the predictor propagates forward in time.
type Elements struct {
	Epoch            int64   // t0, Unix seconds
	MeanMotion       float64 // n0, rad/s
	MeanMotionDot    float64 // ndot, rad/s^2
	RAAN             float64 // raan0, rad
	RAANDot          float64 // rad/s
	ArgPerigee       float64 // aop0, rad
	ArgPerigeeDot    float64 // rad/s
	InclinationDeg   float64 // degrees
	Eccentricity     float64
}

// Point is a ground location expressed in degrees, East/North positive.
type Point struct {
	LatDeg float64
	LonDeg float64
}

// Pass describes one predicted overhead pass.
type Pass struct {
	LonDeg    float64
	Time      int64 // Unix seconds
	Duration  int64 // seconds; 0 for a point target
	Ascending bool
}

// ErrNoPass is returned when the search exhausts a reasonable horizon
// without finding a qualifying crossing (a malformed or degenerate orbit).
var ErrNoPass = errors.New("orbit: no qualifying pass found")

type crossing struct {
	t   int64
	lon float64
}

func deg2rad(d float64) float64 { return d * (math.Pi / piDeg) }
func rad2deg(r float64) float64 { return r * (piDeg / math.Pi) }

func signedFmod(x, y float64) float64 {
	if y == 0 {
		return math.NaN()
	}
	r := fmodFn(x, y)
	if r != 0 && ((y < 0 && r > 0) || (y > 0 && r < 0)) {
		r += y
	}
	return r
}

func zeroTo2Pi(angle float64) float64 {
	if angle < 0 {
		return angle + 2*math.Pi
	}
	return fmodFn(angle, 2*math.Pi)
}

func minus180To180(angle float64) float64 {
	return signedFmod(angle+piDeg, twoPiDeg) - piDeg
}

func zeroTo360(angle float64) float64 {
	return signedFmod(angle, twoPiDeg)
}

func meanAnomalyFromTrue(e, theta float64) float64 {
	if e == 0 {
		return theta
	}
	eAnom := 2 * atanFn(sqrtFn((1-e)/(1+e))*tanFn(theta/2))
	m := eAnom - e*sinFn(eAnom)
	return zeroTo2Pi(m)
}

func anodeTime(el *Elements, count int) int64 {
	var dt float64
	if el.MeanMotionDot == 0 {
		dt = float64(count) / el.MeanMotion
	} else {
		dt = (sqrtFn(el.MeanMotion*el.MeanMotion+2*el.MeanMotionDot*float64(count)) - el.MeanMotion) / el.MeanMotionDot
	}
	return el.Epoch + int64(math.Round(dt))
}

func orbitCount(el *Elements, t int64) int {
	dt := float64(t - el.Epoch)
	return int(el.MeanMotion*dt + 0.5*el.MeanMotionDot*dt*dt)
}

func longitudeAt(raRad float64, t int64) float64 {
	dt := float64(t - temeRefEpoch)
	lonRad := raRad - temeAngle - earthRotationRate*dt
	return minus180To180(rad2deg(lonRad))
}

// tllCrossings returns the ascending (index 0) and descending (index 1)
// crossings of latitude latDeg during the given orbit count.
func tllCrossings(el *Elements, latDeg float64, count int) ([2]crossing, bool) {
	var out [2]crossing

	latRad := deg2rad(latDeg)
	inclination := deg2rad(el.InclinationDeg)

	if inclination < 0 || inclination > math.Pi {
		return out, false
	}
	if math.Abs(sinFn(inclination)) <= math.Abs(sinFn(latRad)) {
		return out, false
	}

	anode := anodeTime(el, count)
	dtAnode := float64(anode - el.Epoch)
	raan := el.RAAN + el.RAANDot*dtAnode
	aop := el.ArgPerigee + el.ArgPerigeeDot*dtAnode
	period := 1.0 / (el.MeanMotion + el.MeanMotionDot*dtAnode)

	var ra1, ra2, lam1, lam2 float64
	if latRad >= 0 {
		ra1 = raan + asinFn(tanFn(latRad)/tanFn(inclination))
		ra2 = raan + math.Pi - asinFn(tanFn(latRad)/tanFn(inclination))
		lam1 = asinFn(sinFn(latRad) / sinFn(inclination))
		lam2 = math.Pi - lam1
	} else {
		ra2 = raan + asinFn(tanFn(latRad)/tanFn(inclination))
		ra1 = raan + math.Pi - asinFn(tanFn(latRad)/tanFn(inclination))
		lam1 = math.Pi - asinFn(sinFn(latRad)/sinFn(inclination))
		lam2 = 3*math.Pi - lam1
	}

	if lam1 < 0 || lam1 >= 2*math.Pi {
		return out, false
	}
	if lam2 < 0 || lam2 >= 2*math.Pi {
		return out, false
	}
	if lam1 >= lam2 {
		return out, false
	}

	me0 := meanAnomalyFromTrue(el.Eccentricity, -aop)
	me1 := meanAnomalyFromTrue(el.Eccentricity, lam1-aop)
	me2 := meanAnomalyFromTrue(el.Eccentricity, lam2-aop)

	out[0].t = anode + int64(math.Round(signedFmod(period*(me1-me0)/(2*math.Pi), period)))
	out[0].lon = longitudeAt(ra1, out[0].t)
	out[1].t = anode + int64(math.Round(signedFmod(period*(me2-me0)/(2*math.Pi), period)))
	out[1].lon = longitudeAt(ra2, out[1].t)

	return out, true
}

// lonTolerance is the longitude half-width, in degrees, within which the
// satellite is above the elevation-angle floor for a target at latDeg.
func lonTolerance(latDeg float64) float64 {
	a := deg2rad(elevationToleranceDeg + 90)
	c := asinFn(earthRadius * sinFn(a) / satElevationRadius)
	b := earthRadius*cosFn(math.Pi-asinFn(satElevationRadius*(sinFn(c)/earthRadius))) + satElevationRadius*cosFn(c)
	bb := asinFn(b * sinFn(c) / earthRadius)
	return rad2deg(asinFn((earthRadius * sinFn(bb)) / (earthRadius * cosFn(deg2rad(latDeg)))))
}

// advanceCrossing advances the ascending- or descending-crossing search
// until a qualifying pass is found or the longitude sweep passes the
// target without one. It always returns the last crossing pair it
// computed, whether or not a pass was found, so the caller can resume the
// outer search from fresh state.
func advanceCrossing(el *Elements, ascending bool, deltaLonDeg, lonTol float64, point Point, crossings [2]crossing, after int64) (Pass, [2]crossing, error) {
	idx := 1
	if ascending {
		idx = 0
	}

	dt := deg2rad(deltaLonDeg) / earthRotationRate
	count := orbitCount(el, crossings[idx].t+int64(math.Round(dt)))

	cur, ok := tllCrossings(el, point.LatDeg, count)
	if !ok {
		return Pass{}, cur, ErrNoPass
	}

	for twoPiDeg-zeroTo360(point.LonDeg-lonTol-cur[idx].lon) < piDeg {
		if math.Abs(minus180To180(cur[idx].lon-point.LonDeg)) <= lonTol && cur[idx].t > after {
			ascendingAtPass := point.LatDeg > 0
			if !ascending {
				ascendingAtPass = point.LatDeg <= 0
			}
			return Pass{LonDeg: cur[idx].lon, Time: cur[idx].t, Ascending: ascendingAtPass}, cur, nil
		}
		count++
		cur, ok = tllCrossings(el, point.LatDeg, count)
		if !ok {
			return Pass{}, cur, ErrNoPass
		}
	}

	return Pass{}, cur, nil
}

// NextPass returns the next time the satellite passes within elevation
// range of point, searching forward from t (Unix seconds).
func NextPass(el *Elements, t int64, point Point) (Pass, error) {
	lonTol := lonTolerance(point.LatDeg)

	count := orbitCount(el, t)
	if count < 0 {
		return Pass{}, ErrNoPass
	}

	crossings, ok := tllCrossings(el, point.LatDeg, count)
	if !ok {
		return Pass{}, ErrNoPass
	}

	for crossings[0].t <= t {
		count++
		crossings, ok = tllCrossings(el, point.LatDeg, count)
		if !ok {
			return Pass{}, ErrNoPass
		}
	}

	if math.Abs(minus180To180(crossings[0].lon-point.LonDeg)) <= lonTol && crossings[0].t > t {
		return Pass{LonDeg: crossings[0].lon, Time: crossings[0].t, Ascending: point.LatDeg > 0}, nil
	}
	if math.Abs(minus180To180(crossings[1].lon-point.LonDeg)) <= lonTol && crossings[1].t > t {
		return Pass{LonDeg: crossings[1].lon, Time: crossings[1].t, Ascending: point.LatDeg <= 0}, nil
	}

	for {
		deltaLonA := twoPiDeg - zeroTo360(point.LonDeg+lonTol-crossings[0].lon)
		deltaLonD := twoPiDeg - zeroTo360(point.LonDeg+lonTol-crossings[1].lon)

		var (
			pass    Pass
			updated [2]crossing
			err     error
		)
		if deltaLonA < deltaLonD {
			pass, updated, err = advanceCrossing(el, true, deltaLonA, lonTol, point, crossings, t)
			t = crossings[0].t
		} else {
			pass, updated, err = advanceCrossing(el, false, deltaLonD, lonTol, point, crossings, t)
			t = crossings[1].t
		}
		if err != nil {
			return Pass{}, err
		}
		if pass.Time != 0 {
			return pass, nil
		}
		crossings = updated
	}
}
