package models

// ImpactParameters are the inputs to an impact simulation.
type ImpactParameters struct {
	DiameterM   float64 `json:"diameter"`
	VelocityKmS float64 `json:"velocity"`
	DensityKgM3 float64 `json:"density"`
	DeltaVKmS   float64 `json:"delta_v"` // velocity reduction from a deflection
}

// ImpactResult is recomputed on every request and never stored.
type ImpactResult struct {
	KineticEnergyJ     float64 `json:"kinetic_energy_j"`
	TNTEquivalentTons  float64 `json:"tnt_equivalent_tons"`
	CraterDiameterM    float64 `json:"crater_diameter_m"`
	SeismicMagnitudeMw float64 `json:"seismic_magnitude_mw"`
	ImpactVelocityKmS  float64 `json:"impact_velocity_kms"`
	MassKg             float64 `json:"mass_kg"`
}
