package orrery

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// gaussianMeanMotion is the heliocentric mean motion constant in degrees per
// day for a semi-major axis of 1 AU, used when a record carries no mean
// motion of its own.
const gaussianMeanMotion = 0.9856076686

// NeoFeed is the NeoWs feed response: objects grouped by close-approach
// date.
type NeoFeed struct {
	ElementCount     int              `json:"element_count"`
	NearEarthObjects map[string][]NEO `json:"near_earth_objects"`
}

// All flattens the per-date groups into a single slice.
func (f *NeoFeed) All() []NEO {
	var out []NEO
	for _, objs := range f.NearEarthObjects {
		out = append(out, objs...)
	}
	return out
}

// NEO is a near-Earth object record from the NeoWs API.
type NEO struct {
	ID                     string            `json:"id"`
	NeoReferenceID         string            `json:"neo_reference_id"`
	Name                   string            `json:"name"`
	AbsoluteMagnitudeH     float64           `json:"absolute_magnitude_h"`
	EstimatedDiameter      EstimatedDiameter `json:"estimated_diameter"`
	IsPotentiallyHazardous bool              `json:"is_potentially_hazardous_asteroid"`
	CloseApproachData      []CloseApproach   `json:"close_approach_data"`
	OrbitalData            *OrbitalData      `json:"orbital_data,omitempty"`
}

// MeanDiameterM returns the mean of the estimated diameter bounds in meters,
// or zero when the record carries none.
func (n NEO) MeanDiameterM() float64 {
	d := n.EstimatedDiameter.Meters
	return (d.Min + d.Max) / 2
}

// DiameterRange bounds an estimated diameter in one unit.
type DiameterRange struct {
	Min float64 `json:"estimated_diameter_min"`
	Max float64 `json:"estimated_diameter_max"`
}

// EstimatedDiameter carries the API's per-unit diameter estimates.
type EstimatedDiameter struct {
	Kilometers DiameterRange `json:"kilometers"`
	Meters     DiameterRange `json:"meters"`
}

// CloseApproach is a single close-approach event. Numeric fields arrive
// string-encoded, as everywhere in this API.
type CloseApproach struct {
	Date             string `json:"close_approach_date"`
	EpochDateMillis  int64  `json:"epoch_date_close_approach"`
	RelativeVelocity struct {
		KmPerSec string `json:"kilometers_per_second"`
		KmPerH   string `json:"kilometers_per_hour"`
	} `json:"relative_velocity"`
	MissDistance struct {
		Astronomical string `json:"astronomical"`
		Kilometers   string `json:"kilometers"`
	} `json:"miss_distance"`
	OrbitingBody string `json:"orbiting_body"`
}

// VelocityKmS parses the relative velocity of the approach.
func (ca CloseApproach) VelocityKmS() (float64, error) {
	return parseField("relative velocity", ca.RelativeVelocity.KmPerSec)
}

// OrbitClass describes the orbit family of an object.
type OrbitClass struct {
	Type        string `json:"orbit_class_type"`
	Description string `json:"orbit_class_description"`
	Range       string `json:"orbit_class_range"`
}

// OrbitalData carries the string-encoded osculating elements of a NEO
// record, exactly as served by the per-object NeoWs endpoint.
type OrbitalData struct {
	OrbitID                   string     `json:"orbit_id"`
	OrbitDeterminationDate    string     `json:"orbit_determination_date"`
	FirstObservationDate      string     `json:"first_observation_date"`
	LastObservationDate       string     `json:"last_observation_date"`
	DataArcInDays             int        `json:"data_arc_in_days"`
	ObservationsUsed          int        `json:"observations_used"`
	OrbitUncertainty          string     `json:"orbit_uncertainty"`
	MinimumOrbitIntersection  string     `json:"minimum_orbit_intersection"`
	JupiterTisserandInvariant string     `json:"jupiter_tisserand_invariant"`
	EpochOsculation           string     `json:"epoch_osculation"`
	Eccentricity              string     `json:"eccentricity"`
	SemiMajorAxis             string     `json:"semi_major_axis"`
	Inclination               string     `json:"inclination"`
	AscendingNodeLongitude    string     `json:"ascending_node_longitude"`
	OrbitalPeriod             string     `json:"orbital_period"`
	PerihelionDistance        string     `json:"perihelion_distance"`
	PerihelionArgument        string     `json:"perihelion_argument"`
	AphelionDistance          string     `json:"aphelion_distance"`
	PerihelionTime            string     `json:"perihelion_time"`
	MeanAnomaly               string     `json:"mean_anomaly"`
	MeanMotion                string     `json:"mean_motion"`
	Equinox                   string     `json:"equinox"`
	OrbitClass                OrbitClass `json:"orbit_class"`
}

// parseField converts a string-encoded numeric API field, failing with a
// descriptive error instead of letting a NaN corrupt downstream geometry.
func parseField(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q: %w", name, raw, err)
	}
	return v, nil
}

// Elements converts the record into canonical engine elements. Every numeric
// field is validated at this boundary. A missing or zero mean motion is
// derived from the orbital period when present, and from Kepler's third law
// otherwise.
func (od *OrbitalData) Elements() (Elements, error) {
	a, err := parseField("semi_major_axis", od.SemiMajorAxis)
	if err != nil {
		return Elements{}, err
	}
	e, err := parseField("eccentricity", od.Eccentricity)
	if err != nil {
		return Elements{}, err
	}
	i, err := parseField("inclination", od.Inclination)
	if err != nil {
		return Elements{}, err
	}
	node, err := parseField("ascending_node_longitude", od.AscendingNodeLongitude)
	if err != nil {
		return Elements{}, err
	}
	argPeri, err := parseField("perihelion_argument", od.PerihelionArgument)
	if err != nil {
		return Elements{}, err
	}
	m0, err := parseField("mean_anomaly", od.MeanAnomaly)
	if err != nil {
		return Elements{}, err
	}
	epoch, err := parseField("epoch_osculation", od.EpochOsculation)
	if err != nil {
		return Elements{}, err
	}

	var n float64
	if strings.TrimSpace(od.MeanMotion) != "" {
		if n, err = parseField("mean_motion", od.MeanMotion); err != nil {
			return Elements{}, err
		}
	}
	if n == 0 && strings.TrimSpace(od.OrbitalPeriod) != "" {
		period, err := parseField("orbital_period", od.OrbitalPeriod)
		if err != nil {
			return Elements{}, err
		}
		if period > 0 {
			n = 360 / period
		}
	}
	if n == 0 && a > 0 {
		n = gaussianMeanMotion / (a * math.Sqrt(a))
	}

	return NewElementsFromMeanAnomaly(a, e, i, m0, argPeri, node, n, epoch)
}
