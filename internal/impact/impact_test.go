package impact

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-neo-impact/internal/models"
)

func params(d, v, rho, dv float64) models.ImpactParameters {
	return models.ImpactParameters{DiameterM: d, VelocityKmS: v, DensityKgM3: rho, DeltaVKmS: dv}
}

func TestSimulate_ReferenceImpactor(t *testing.T) {
	res, err := Simulate(params(180, 21, 2800, 0))
	require.NoError(t, err)

	for name, v := range map[string]float64{
		"kinetic_energy_j":     res.KineticEnergyJ,
		"tnt_equivalent_tons":  res.TNTEquivalentTons,
		"crater_diameter_m":    res.CraterDiameterM,
		"seismic_magnitude_mw": res.SeismicMagnitudeMw,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s not finite", name)
		assert.Positive(t, v, name)
	}

	assert.InEpsilon(t, 8.550158566e9, res.MassKg, 1e-9)
	assert.InEpsilon(t, 1.8853099638e18, res.KineticEnergyJ, 1e-9)
	assert.InEpsilon(t, 4.505998957e8, res.TNTEquivalentTons, 1e-9)
	assert.InEpsilon(t, 375.0750672, res.CraterDiameterM, 1e-9)
	assert.InEpsilon(t, 8.9835885085, res.SeismicMagnitudeMw, 1e-9)
	assert.Equal(t, 21.0, res.ImpactVelocityKmS)
}

func TestSimulate_Defaults(t *testing.T) {
	res, err := Simulate(DefaultParameters())
	require.NoError(t, err)
	assert.InEpsilon(t, 3.14159265359e17, res.KineticEnergyJ, 1e-9)
}

func TestSimulate_DeltaVClampsToFloor(t *testing.T) {
	for _, dv := range []float64{20, 25, 1000} {
		res, err := Simulate(params(100, 20, 3000, dv))
		require.NoError(t, err)
		assert.Equal(t, VelocityFloorKmS, res.ImpactVelocityKmS)
		assert.Positive(t, res.KineticEnergyJ)
		assert.InEpsilon(t, 7.853981634e12, res.KineticEnergyJ, 1e-9)
	}
}

func TestSimulate_ClampedEnergyIsMinimal(t *testing.T) {
	clamped, err := Simulate(params(100, 20, 3000, 20))
	require.NoError(t, err)

	for _, dv := range []float64{0, 5, 10, 19.8} {
		res, err := Simulate(params(100, 20, 3000, dv))
		require.NoError(t, err)
		assert.Greater(t, res.KineticEnergyJ, clamped.KineticEnergyJ, "delta_v=%g", dv)
	}
}

func TestSimulate_MonotonicInEffectiveVelocity(t *testing.T) {
	prev := 0.0
	for _, v := range []float64{0.2, 0.5, 1, 5, 11.2, 20, 30, 72} {
		res, err := Simulate(params(50, v, 2600, 0))
		require.NoError(t, err)
		assert.Greater(t, res.KineticEnergyJ, prev, "velocity=%g", v)
		prev = res.KineticEnergyJ
	}
}

func TestSimulate_CraterAndTNTDependOnEnergyOnly(t *testing.T) {
	// Same effective velocity reached through different delta_v.
	a, err := Simulate(params(100, 20, 3000, 0))
	require.NoError(t, err)
	b, err := Simulate(params(100, 25, 3000, 5))
	require.NoError(t, err)

	require.Equal(t, a.KineticEnergyJ, b.KineticEnergyJ)
	assert.Equal(t, a.CraterDiameterM, b.CraterDiameterM)
	assert.Equal(t, a.TNTEquivalentTons, b.TNTEquivalentTons)
	assert.Equal(t, CraterDiameter(a.KineticEnergyJ), a.CraterDiameterM)
	assert.Equal(t, TNTEquivalent(a.KineticEnergyJ), a.TNTEquivalentTons)
}

func TestSimulate_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		p    models.ImpactParameters
	}{
		{"zero diameter", params(0, 20, 3000, 0)},
		{"negative diameter", params(-1, 20, 3000, 0)},
		{"zero velocity", params(100, 0, 3000, 0)},
		{"zero density", params(100, 20, 0, 0)},
		{"negative delta_v", params(100, 20, 3000, -1)},
		{"NaN diameter", params(math.NaN(), 20, 3000, 0)},
		{"infinite velocity", params(100, math.Inf(1), 3000, 0)},
		{"underflowing mass", params(1e-120, 20, 3000, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Simulate(tt.p)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, models.ImpactResult{}, res)
		})
	}
}

func TestFormulaSteps(t *testing.T) {
	assert.InEpsilon(t, 4.0/3.0*math.Pi, Mass(2, 1), 1e-12)
	assert.Equal(t, 0.5*1e6, KineticEnergy(1, 1))
	assert.Equal(t, 1.0, TNTEquivalent(JoulesPerTonTNT))
	assert.Equal(t, 1.8, CraterDiameter(1e9))
	assert.InDelta(t, 2.0/3.0*18-3.2, SeismicMagnitude(1e18), 1e-12)
	assert.Equal(t, 15.0, ImpactVelocity(20, 5))
	assert.Equal(t, VelocityFloorKmS, ImpactVelocity(20, 20))
}
