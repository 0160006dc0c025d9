package orrery

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat.Dense, v []float64) (o []float64) {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(len(v), v))
	return []float64{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// Orbital2Ecliptic converts a vector from the orbital plane frame to the
// ecliptic frame via the composed rotation Rz(Ω)·Rx(i)·Rz(ω).
// All angles are in radians.
func Orbital2Ecliptic(ω, i, Ω float64, vI []float64) []float64 {
	var mulM mat.Dense
	mulM.Mul(R1(-i), R3(-ω))
	mulM.Mul(R3(-Ω), &mulM)
	return MxV33(&mulM, vI)
}
