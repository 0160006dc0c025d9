package orrery

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

// sampleOrbitalData mirrors the per-object NeoWs payload with its
// string-encoded numerics.
func sampleOrbitalData() *OrbitalData {
	return &OrbitalData{
		OrbitID:                "37",
		EpochOsculation:        "2460200.5",
		Eccentricity:           ".2225889",
		SemiMajorAxis:          "1.4581",
		Inclination:            "4.406",
		AscendingNodeLongitude: "306.5",
		OrbitalPeriod:          "643.1",
		PerihelionArgument:     "350.4",
		MeanAnomaly:            "110.7",
		MeanMotion:             ".5597",
		Equinox:                "J2000",
	}
}

func TestOrbitalDataElements(t *testing.T) {
	el, err := sampleOrbitalData().Elements()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(el.A, 1.4581, testε) {
		t.Fatalf("a = %f", el.A)
	}
	if !scalar.EqualWithinAbs(el.E, 0.2225889, testε) {
		t.Fatalf("e = %f", el.E)
	}
	if el.Unit != RateDays {
		t.Fatal("asteroid elements must use day rates")
	}
	if !scalar.EqualWithinAbs(el.Rates.M, 0.5597, testε) {
		t.Fatalf("mean motion %f", el.Rates.M)
	}
	if !scalar.EqualWithinAbs(el.Epoch, 2460200.5, testε) {
		t.Fatalf("epoch %f", el.Epoch)
	}
	// ϖ = ω + Ω.
	if !scalar.EqualWithinAbs(el.Peri, 350.4+306.5, testε) {
		t.Fatalf("ϖ = %f", el.Peri)
	}
	// The resulting elements must resolve without blowing up.
	s := el.Position(el.Epoch + 100)
	if s.Distance < el.Perihelion() || s.Distance > el.Aphelion() {
		t.Fatalf("resolved distance %f outside [%f, %f]", s.Distance, el.Perihelion(), el.Aphelion())
	}
}

func TestOrbitalDataMalformedField(t *testing.T) {
	od := sampleOrbitalData()
	od.Eccentricity = "not-a-number"
	if _, err := od.Elements(); err == nil {
		t.Fatal("malformed eccentricity must fail fast, not propagate NaN")
	} else if !strings.Contains(err.Error(), "eccentricity") {
		t.Fatalf("error %q does not name the offending field", err)
	}

	od = sampleOrbitalData()
	od.SemiMajorAxis = ""
	if _, err := od.Elements(); err == nil {
		t.Fatal("empty semi-major axis must fail")
	}
}

func TestOrbitalDataMeanMotionDefaulting(t *testing.T) {
	// Missing mean motion falls back to 360/period.
	od := sampleOrbitalData()
	od.MeanMotion = ""
	el, err := od.Elements()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(el.Rates.M, 360/643.1, testε) {
		t.Fatalf("derived mean motion %f, want %f", el.Rates.M, 360/643.1)
	}

	// Missing both falls back to Kepler's third law.
	od.OrbitalPeriod = ""
	el, err = od.Elements()
	if err != nil {
		t.Fatal(err)
	}
	want := gaussianMeanMotion / math.Pow(1.4581, 1.5)
	if !scalar.EqualWithinAbs(el.Rates.M, want, 1e-9) {
		t.Fatalf("Keplerian mean motion %f, want %f", el.Rates.M, want)
	}
}

func TestNeoFeedDecodeAndFlatten(t *testing.T) {
	payload := `{
		"element_count": 2,
		"near_earth_objects": {
			"2026-01-01": [{"id": "1", "name": "(2026 AA)"}],
			"2026-01-02": [{"id": "2", "name": "(2026 AB)",
				"estimated_diameter": {"meters": {"estimated_diameter_min": 100, "estimated_diameter_max": 300}}}]
		}
	}`
	var feed NeoFeed
	if err := json.Unmarshal([]byte(payload), &feed); err != nil {
		t.Fatal(err)
	}
	all := feed.All()
	if len(all) != 2 {
		t.Fatalf("flattened %d objects, want 2", len(all))
	}
	for _, n := range all {
		if n.ID == "2" && n.MeanDiameterM() != 200 {
			t.Fatalf("mean diameter %f, want 200", n.MeanDiameterM())
		}
	}
}

func TestCloseApproachVelocity(t *testing.T) {
	var ca CloseApproach
	ca.RelativeVelocity.KmPerSec = " 18.127 "
	v, err := ca.VelocityKmS()
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(v, 18.127, testε) {
		t.Fatalf("v = %f", v)
	}
	ca.RelativeVelocity.KmPerSec = "fast"
	if _, err := ca.VelocityKmS(); err == nil {
		t.Fatal("malformed velocity must fail")
	}
}
