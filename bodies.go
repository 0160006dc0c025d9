package orrery

import (
	"fmt"
	"strings"
)

// Body is a catalog solar-system body whose heliocentric motion is driven by
// the shared element engine.
type Body struct {
	Name   string
	Radius float64 // equatorial radius in km, for display scaling only
	Orbit  Elements
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name + " body"
}

// mustElements builds planet-table elements and panics on invalid input.
// Only used for the static catalog below, where a failure is a programmer
// error in the table itself.
func mustElements(a, e, i, L, peri, node float64, rates Rates) Elements {
	el, err := NewElementsFromMeanLongitude(a, e, i, L, peri, node, rates)
	if err != nil {
		panic(err)
	}
	return el
}

/* Definitions. Osculating elements and per-century rates at J2000.0 from the
JPL approximate ephemeris tables, valid 1800 AD - 2050 AD. */

// Mercury is the innermost planet.
var Mercury = Body{"Mercury", 2439.7, mustElements(0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
	Rates{0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081})}

// Venus is poisonous.
var Venus = Body{"Venus", 6051.8, mustElements(0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
	Rates{0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418})}

// Earth is home. The elements are those of the Earth-Moon barycenter.
var Earth = Body{"Earth", 6378.1363, mustElements(1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0.0,
	Rates{0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0.0})}

// Mars is the vacation place.
var Mars = Body{"Mars", 3396.19, mustElements(1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
	Rates{0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343})}

// Jupiter is big.
var Jupiter = Body{"Jupiter", 71492.0, mustElements(5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
	Rates{-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106})}

// Saturn floats and that's really cool.
var Saturn = Body{"Saturn", 60268.0, mustElements(9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
	Rates{-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794})}

// Uranus is no joke.
var Uranus = Body{"Uranus", 25559.0, mustElements(19.18916464, 0.04725744, 0.77263783, 313.23810451, 170.95427630, 74.01692503,
	Rates{-0.00196176, -0.00004397, -0.00242939, 428.48202785, 0.40805281, 0.04240589})}

// Neptune is the outermost planet.
var Neptune = Body{"Neptune", 24764.0, mustElements(30.06992276, 0.00859048, 1.77004347, -55.12002969, 44.96476227, 131.78422574,
	Rates{0.00026291, 0.00005105, 0.00035372, 218.45945325, -0.32241464, -0.00508664})}

// Pluto is not a planet anymore but stays in the catalog.
var Pluto = Body{"Pluto", 1151.0, mustElements(39.48211675, 0.24882730, 17.14001206, 238.92903833, 224.06891629, 110.30393684,
	Rates{-0.00031596, 0.00005170, 0.00004818, 145.20780515, -0.04062942, -0.01183482})}

// Catalog returns the solar system bodies in heliocentric distance order.
func Catalog() []Body {
	return []Body{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto}
}

// BodyFromString returns the catalog body from its name.
func BodyFromString(name string) (Body, error) {
	for _, b := range Catalog() {
		if strings.EqualFold(name, b.Name) {
			return b, nil
		}
	}
	return Body{}, fmt.Errorf("undefined body '%s'", name)
}
