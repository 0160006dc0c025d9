package orrery

import "math"

const (
	// keplerε is the convergence tolerance on the eccentric anomaly, in radians.
	keplerε = 1e-8
	// keplerMaxIter caps the Newton-Raphson iterations. Convergence is not
	// re-checked beyond the cap; for bound-orbit eccentricities the scheme
	// converges well within it.
	keplerMaxIter = 10
)

// NormalizeMeanAnomaly brings a mean anomaly in degrees into (−180°, 180°],
// the range that keeps the Newton-Raphson initial guess well-conditioned.
func NormalizeMeanAnomaly(m float64) float64 {
	m = math.Mod(m, 360)
	if m <= -180 {
		m += 360
	} else if m > 180 {
		m -= 360
	}
	return m
}

// SolveKepler returns the eccentric anomaly E in degrees satisfying
// E − e·sin(E) = M for the given mean anomaly M in degrees and eccentricity
// e in [0,1). The equation is solved in radians by Newton-Raphson with
// initial guess E₀ = M + e·sin(M), stopping at |ΔE| < 1e-8 rad or after 10
// iterations, whichever comes first.
func SolveKepler(M, e float64) float64 {
	Mr := NormalizeMeanAnomaly(M) * deg2rad
	E := Mr + e*math.Sin(Mr)
	for iter := 0; iter < keplerMaxIter; iter++ {
		ΔE := (Mr - (E - e*math.Sin(E))) / (1 - e*math.Cos(E))
		E += ΔE
		if math.Abs(ΔE) < keplerε {
			break
		}
	}
	return E / deg2rad
}
