package orrery

import "math"

// Default sample counts for orbit traces.
const (
	// DefaultTrajectorySamples is used for general orbit paths.
	DefaultTrajectorySamples = 100
	// FocusedTrajectorySamples is used when a single asteroid is rendered
	// up close and a smoother curve is wanted.
	FocusedTrajectorySamples = 300
)

// State is a resolved heliocentric state: ecliptic-frame Cartesian
// coordinates in AU and the scalar distance from the orbit focus.
type State struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Distance float64 `json:"distance"`
}

// planePosition returns the orbital-plane coordinates for an eccentric
// anomaly in radians.
func planePosition(a, e, E float64) (xp, yp float64) {
	sinE, cosE := math.Sincos(E)
	xp = a * (cosE - e)
	yp = a * math.Sqrt(1-e*e) * sinE
	return
}

// Position resolves the ecliptic position of the body at the given Julian
// Date: the elements are advanced to jd, the mean anomaly normalized and
// converted to an eccentric anomaly, and the orbital-plane position rotated
// into the ecliptic frame. The same composition serves planets and
// asteroids alike.
func (el Elements) Position(jd float64) State {
	cur := el.At(jd)
	E := SolveKepler(cur.M0, cur.E)
	xp, yp := planePosition(cur.A, cur.E, E*deg2rad)
	r := Orbital2Ecliptic(Deg2rad(cur.ArgPeri()), Deg2rad(cur.I), Deg2rad(cur.Node), []float64{xp, yp, 0})
	return State{X: r[0], Y: r[1], Z: r[2], Distance: norm(r)}
}

// Trajectory samples the full orbit as a closed polyline of n+1 points, the
// last point repeating the first. The eccentric anomaly is swept uniformly
// over [0, 2π), which is uniform in geometry rather than in time, and the
// anomaly solver is bypassed since E is prescribed. The elements' base
// values are used: the sampled shape does not precess, only the moving body
// does. A non-positive n falls back to DefaultTrajectorySamples.
func (el Elements) Trajectory(n int) []State {
	if n <= 0 {
		n = DefaultTrajectorySamples
	}
	ω := Deg2rad(el.ArgPeri())
	i := Deg2rad(el.I)
	Ω := Deg2rad(el.Node)
	pts := make([]State, n+1)
	for k := 0; k < n; k++ {
		E := 2 * math.Pi * float64(k) / float64(n)
		xp, yp := planePosition(el.A, el.E, E)
		r := Orbital2Ecliptic(ω, i, Ω, []float64{xp, yp, 0})
		pts[k] = State{X: r[0], Y: r[1], Z: r[2], Distance: norm(r)}
	}
	pts[n] = pts[0]
	return pts
}
