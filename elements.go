// Package orrery computes heliocentric positions and orbit traces for solar
// system bodies and near-Earth objects from osculating Keplerian elements.
package orrery

import (
	"fmt"
	"math"
)

const (
	// J2000 is the reference epoch as a Julian Date.
	J2000 = 2451545.0
	// julianCentury is the number of days in a Julian century.
	julianCentury = 36525.0
)

// RateUnit selects the time base against which secular rates apply.
type RateUnit uint8

const (
	// RateCenturies applies rates per Julian century elapsed since J2000.0,
	// the convention of planetary element tables.
	RateCenturies RateUnit = iota
	// RateDays applies rates per day elapsed since the element epoch,
	// the convention of asteroid osculating elements.
	RateDays
)

// Rates holds the secular drift of each element per RateUnit of time.
// M is the drift of the mean anomaly, i.e. the mean motion.
type Rates struct {
	A, E, I, M, Peri, Node float64
}

// Elements holds osculating Keplerian elements in canonical form: mean
// anomaly at a reference epoch plus linear secular rates. Distances are in
// AU and angles in degrees. Values are immutable inputs to the engine; all
// computations on them are pure.
type Elements struct {
	A     float64 // semi-major axis
	E     float64 // eccentricity
	I     float64 // inclination
	M0    float64 // mean anomaly at Epoch
	Peri  float64 // longitude of perihelion ϖ = Ω + ω
	Node  float64 // longitude of ascending node Ω
	Epoch float64 // reference Julian Date

	Rates Rates
	Unit  RateUnit
}

// NewElementsFromMeanLongitude builds canonical elements from the
// mean-longitude parameterization of planetary tables, where L = M + ϖ and
// rates are per Julian century since J2000.0. The M fields of rates carry
// dL/dT and are converted to a mean anomaly drift.
func NewElementsFromMeanLongitude(a, e, i, L, peri, node float64, rates Rates) (Elements, error) {
	el := Elements{
		A:     a,
		E:     e,
		I:     i,
		M0:    L - peri,
		Peri:  peri,
		Node:  node,
		Epoch: J2000,
		Rates: rates,
		Unit:  RateCenturies,
	}
	el.Rates.M = rates.M - rates.Peri
	return el, el.validate()
}

// NewElementsFromMeanAnomaly builds canonical elements from the
// mean-anomaly parameterization of asteroid records: argument of perihelion
// ω instead of ϖ, a mean motion in degrees per day, and the osculation epoch
// as a Julian Date. Node and perihelion drifts are taken as zero over the
// short arcs such elements are valid for.
func NewElementsFromMeanAnomaly(a, e, i, m0, argPeri, node, meanMotion, epoch float64) (Elements, error) {
	el := Elements{
		A:     a,
		E:     e,
		I:     i,
		M0:    m0,
		Peri:  argPeri + node,
		Node:  node,
		Epoch: epoch,
		Rates: Rates{M: meanMotion},
		Unit:  RateDays,
	}
	return el, el.validate()
}

// validate rejects degenerate elements so that NaNs and non-physical values
// cannot leak into the geometry pipeline.
func (el Elements) validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"semi-major axis", el.A},
		{"eccentricity", el.E},
		{"inclination", el.I},
		{"mean anomaly", el.M0},
		{"perihelion", el.Peri},
		{"ascending node", el.Node},
		{"epoch", el.Epoch},
		{"mean motion", el.Rates.M},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s is not finite: %v", f.name, f.v)
		}
	}
	if el.A <= 0 {
		return fmt.Errorf("semi-major axis must be positive, got %f", el.A)
	}
	if el.E < 0 || el.E >= 1 {
		return fmt.Errorf("eccentricity must be in [0,1) for bound orbits, got %f", el.E)
	}
	return nil
}

// At advances the elements to the provided Julian Date by applying each
// secular rate linearly over the elapsed time in the unit the rates are
// expressed in.
func (el Elements) At(jd float64) Elements {
	var T float64
	switch el.Unit {
	case RateDays:
		T = jd - el.Epoch
	default:
		T = (jd - J2000) / julianCentury
	}
	out := el
	out.A += el.Rates.A * T
	out.E += el.Rates.E * T
	out.I += el.Rates.I * T
	out.M0 += el.Rates.M * T
	out.Peri += el.Rates.Peri * T
	out.Node += el.Rates.Node * T
	return out
}

// ArgPeri returns the argument of perihelion ω = ϖ − Ω in degrees.
func (el Elements) ArgPeri() float64 {
	return el.Peri - el.Node
}

// Perihelion returns the perihelion distance a(1−e).
func (el Elements) Perihelion() float64 {
	return el.A * (1 - el.E)
}

// Aphelion returns the aphelion distance a(1+e).
func (el Elements) Aphelion() float64 {
	return el.A * (1 + el.E)
}

// String implements the Stringer interface.
func (el Elements) String() string {
	return fmt.Sprintf("a=%.4f e=%.4f i=%.3f M0=%.3f ϖ=%.3f Ω=%.3f @ JD %.1f",
		el.A, el.E, el.I, el.M0, el.Peri, el.Node, el.Epoch)
}
