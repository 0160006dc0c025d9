package orrery

import (
	"math"
	"testing"
)

func TestSolveKeplerPerihelion(t *testing.T) {
	// M=0 is a fixed point of the iteration for any eccentricity.
	if E := SolveKepler(0, 0.9); E != 0 {
		t.Fatalf("E(M=0, e=0.9) = %g, want exactly 0", E)
	}
	if E := SolveKepler(0, 0); E != 0 {
		t.Fatalf("E(M=0, e=0) = %g, want exactly 0", E)
	}
}

func TestSolveKeplerCircular(t *testing.T) {
	// With e=0, E equals M for the whole normalized range.
	for m := -179.0; m <= 180; m++ {
		if ok, err := floatEqual(SolveKepler(m, 0), m); !ok {
			t.Fatalf("E(M=%f, e=0): %s", m, err)
		}
	}
}

func TestSolveKeplerRoundTrip(t *testing.T) {
	// Round-trip: M' = E − e·sin(E) must recover the normalized M within
	// 1e-7 radians across the full grid, which also proves the solver
	// converged inside its iteration cap.
	for ei := 0; ei <= 19; ei++ {
		e := float64(ei) * 0.05
		for m := -179.0; m <= 180; m++ {
			E := SolveKepler(m, e) * deg2rad
			back := E - e*math.Sin(E)
			if diff := math.Abs(back - m*deg2rad); diff > 1e-7 {
				t.Fatalf("round trip failed for M=%f e=%f: off by %g rad", m, e, diff)
			}
		}
	}
}

func TestSolveKeplerNormalizes(t *testing.T) {
	// Mean anomalies outside (−180°, 180°] are brought back before solving.
	if ok, err := anglesEqual(Deg2rad(SolveKepler(360+45, 0.1)), Deg2rad(SolveKepler(45, 0.1))); !ok {
		t.Fatalf("M=405° and M=45° must agree: %s", err)
	}
	if ok, err := anglesEqual(Deg2rad(SolveKepler(-270, 0.1)), Deg2rad(SolveKepler(90, 0.1))); !ok {
		t.Fatalf("M=−270° and M=90° must agree: %s", err)
	}
}

func TestNormalizeMeanAnomaly(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{180, 180},
		{-180, 180},
		{181, -179},
		{360, 0},
		{-360, 0},
		{540, 180},
		{725, 5},
		{-725, -5},
	}
	for _, c := range cases {
		if got := NormalizeMeanAnomaly(c.in); math.Abs(got-c.want) > testε {
			t.Fatalf("NormalizeMeanAnomaly(%f) = %f, want %f", c.in, got, c.want)
		}
	}
}
