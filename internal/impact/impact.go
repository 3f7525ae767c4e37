// Package impact estimates the consequences of an object striking Earth.
//
// The chain is closed-form and deliberately simple: a uniform sphere, plain
// kinetic energy, and power-law crater and seismic relations. The crater and
// magnitude formulas are illustrative, order-of-magnitude approximations for
// an Earth surface; they are not a validated planetary-science model and the
// constants are kept as they are. There is no atmospheric entry and no
// trajectory integration.
package impact

import (
	"errors"
	"fmt"
	"math"

	"github.com/mr1hm/go-neo-impact/internal/models"
)

const (
	// VelocityFloorKmS keeps a heavily deflected impactor from reaching zero
	// or negative speed. It is a clamp, not a measurement.
	VelocityFloorKmS = 0.1

	// JoulesPerTonTNT is the energy released by one ton of TNT.
	JoulesPerTonTNT = 4.184e9

	craterCoefficient = 1.8
	craterExponent    = 0.25
	craterEnergyScale = 1e9

	seismicSlope  = 2.0 / 3.0
	seismicOffset = 3.2
)

// Defaults used when a caller omits a parameter.
const (
	DefaultDiameterM   = 100.0
	DefaultVelocityKmS = 20.0
	DefaultDensityKgM3 = 3000.0
	DefaultDeltaVKmS   = 0.0
)

var ErrInvalidInput = errors.New("invalid impact parameters")

func DefaultParameters() models.ImpactParameters {
	return models.ImpactParameters{
		DiameterM:   DefaultDiameterM,
		VelocityKmS: DefaultVelocityKmS,
		DensityKgM3: DefaultDensityKgM3,
		DeltaVKmS:   DefaultDeltaVKmS,
	}
}

// Simulate runs the full pipeline. Errors wrap ErrInvalidInput.
func Simulate(p models.ImpactParameters) (models.ImpactResult, error) {
	if err := Validate(p); err != nil {
		return models.ImpactResult{}, err
	}

	v := ImpactVelocity(p.VelocityKmS, p.DeltaVKmS)
	mass := Mass(p.DiameterM, p.DensityKgM3)
	ke := KineticEnergy(mass, v)

	// log10 is undefined at or below zero; diameters small enough to
	// underflow the mass land here too.
	if !(ke > 0) || math.IsInf(ke, 0) {
		return models.ImpactResult{}, fmt.Errorf("%w: kinetic energy must be a positive finite number, got %g J", ErrInvalidInput, ke)
	}

	return models.ImpactResult{
		KineticEnergyJ:     ke,
		TNTEquivalentTons:  TNTEquivalent(ke),
		CraterDiameterM:    CraterDiameter(ke),
		SeismicMagnitudeMw: SeismicMagnitude(ke),
		ImpactVelocityKmS:  v,
		MassKg:             mass,
	}, nil
}

// Validate checks the domain of every parameter: diameter, velocity and
// density must be positive and finite, delta-v zero or positive.
func Validate(p models.ImpactParameters) error {
	checks := []struct {
		name  string
		value float64
		zero  bool
	}{
		{"diameter", p.DiameterM, false},
		{"velocity", p.VelocityKmS, false},
		{"density", p.DensityKgM3, false},
		{"delta_v", p.DeltaVKmS, true},
	}

	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidInput, c.name)
		}
		if c.value < 0 || (c.value == 0 && !c.zero) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidInput, c.name, c.value)
		}
	}
	return nil
}

// ImpactVelocity applies the deflection and clamps to VelocityFloorKmS.
func ImpactVelocity(velocityKmS, deltaVKmS float64) float64 {
	return math.Max(velocityKmS-deltaVKmS, VelocityFloorKmS)
}

// Mass of a uniform sphere, in kg.
func Mass(diameterM, densityKgM3 float64) float64 {
	r := diameterM / 2
	return (4.0 / 3.0) * math.Pi * r * r * r * densityKgM3
}

// KineticEnergy in joules for a velocity given in km/s.
func KineticEnergy(massKg, velocityKmS float64) float64 {
	vms := velocityKmS * 1000
	return 0.5 * massKg * vms * vms
}

func TNTEquivalent(keJ float64) float64 {
	return keJ / JoulesPerTonTNT
}

// CraterDiameter in meters: D = 1.8 * (E/1e9)^0.25.
func CraterDiameter(keJ float64) float64 {
	return craterCoefficient * math.Pow(keJ/craterEnergyScale, craterExponent)
}

// SeismicMagnitude as moment magnitude: Mw = (2/3) log10(E) - 3.2.
// Callers must ensure keJ > 0.
func SeismicMagnitude(keJ float64) float64 {
	return seismicSlope*math.Log10(keJ) - seismicOffset
}
