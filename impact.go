package orrery

import (
	"fmt"
	"math"
)

// Impact scenario defaults and conversion constants.
const (
	// StonyDensity is the assumed bulk density for stony asteroids, kg/m³.
	StonyDensity = 3000.0
	// joulesPerMegaton converts impact energy to megatons of TNT.
	joulesPerMegaton = 4.184e15
)

// ImpactScenario describes an impactor and the area it strikes. A zero
// density selects the stony default.
type ImpactScenario struct {
	DiameterM        float64 `json:"diameter_m"`
	DensityKgM3      float64 `json:"density_kg_m3,omitempty"`
	VelocityKmS      float64 `json:"velocity_km_s"`
	PopulationPerKm2 float64 `json:"population_per_km2"`
}

// ImpactEstimate is the consequence estimate for a scenario. All of this is
// parametric heuristics for visualization, not a physical simulation.
type ImpactEstimate struct {
	MassKg              float64 `json:"mass_kg"`
	EnergyJ             float64 `json:"energy_j"`
	EnergyMt            float64 `json:"energy_mt"`
	CraterDiameterKm    float64 `json:"crater_diameter_km"`
	SevereRadiusKm      float64 `json:"severe_radius_km"`
	ModerateRadiusKm    float64 `json:"moderate_radius_km"`
	AffectedPopulation  float64 `json:"affected_population"`
	EstimatedCasualties float64 `json:"estimated_casualties"`
}

// EstimateImpact computes consequence heuristics for the scenario: kinetic
// energy from a spherical impactor, cube-root blast scaling for the damage
// rings, and casualty counts from the mean population density.
func EstimateImpact(s ImpactScenario) (ImpactEstimate, error) {
	if s.DiameterM <= 0 || math.IsNaN(s.DiameterM) {
		return ImpactEstimate{}, fmt.Errorf("impactor diameter must be positive, got %f", s.DiameterM)
	}
	if s.VelocityKmS <= 0 || math.IsNaN(s.VelocityKmS) {
		return ImpactEstimate{}, fmt.Errorf("impact velocity must be positive, got %f", s.VelocityKmS)
	}
	if s.PopulationPerKm2 < 0 || math.IsNaN(s.PopulationPerKm2) {
		return ImpactEstimate{}, fmt.Errorf("population density must be non-negative, got %f", s.PopulationPerKm2)
	}
	density := s.DensityKgM3
	if density == 0 {
		density = StonyDensity
	}
	if density < 0 || math.IsNaN(density) {
		return ImpactEstimate{}, fmt.Errorf("impactor density must be positive, got %f", density)
	}

	mass := density * math.Pi / 6 * math.Pow(s.DiameterM, 3)
	v := s.VelocityKmS * 1000
	energy := 0.5 * mass * v * v
	mt := energy / joulesPerMegaton

	est := ImpactEstimate{
		MassKg:   mass,
		EnergyJ:  energy,
		EnergyMt: mt,
		// Transient crater scaling, tuned to give ~1 km at 1 Mt.
		CraterDiameterKm: 1.2 * math.Pow(mt, 0.294),
		SevereRadiusKm:   2.2 * math.Cbrt(mt),
		ModerateRadiusKm: 4.6 * math.Cbrt(mt),
	}

	severeArea := math.Pi * est.SevereRadiusKm * est.SevereRadiusKm
	moderateArea := math.Pi*est.ModerateRadiusKm*est.ModerateRadiusKm - severeArea
	est.AffectedPopulation = (severeArea + moderateArea) * s.PopulationPerKm2
	est.EstimatedCasualties = severeArea*s.PopulationPerKm2*0.7 + moderateArea*s.PopulationPerKm2*0.15
	return est, nil
}

// EstimateImpactForNEO builds a scenario from a NEO record and an assumed
// population density, using the mean estimated diameter and the relative
// velocity of the first close approach.
func EstimateImpactForNEO(n NEO, populationPerKm2 float64) (ImpactEstimate, error) {
	if len(n.CloseApproachData) == 0 {
		return ImpactEstimate{}, fmt.Errorf("NEO %s has no close approach data", n.ID)
	}
	v, err := n.CloseApproachData[0].VelocityKmS()
	if err != nil {
		return ImpactEstimate{}, err
	}
	return EstimateImpact(ImpactScenario{
		DiameterM:        n.MeanDiameterM(),
		VelocityKmS:      v,
		PopulationPerKm2: populationPerKm2,
	})
}
