package resolver

import "github.com/mr1hm/go-neo-impact/internal/models"

// Synthetic placeholder values. They describe no real object.
const (
	syntheticID           = "2025-AB"
	syntheticName         = "Mock Asteroid"
	syntheticDiameterM    = 150.0
	syntheticVelocityKmS  = 22.5
	syntheticDensityKgM3  = 3200.0
	syntheticApproachDate = "2025-10-01"
	syntheticSemiMajorAU  = 1.2
	syntheticEccentricity = 0.15
	syntheticInclination  = 5.2
)

// Synthetic returns the fixed placeholder record, tagged with the requested
// id, a diagnostic message and the upstream status (0 when there was none).
func Synthetic(requestedID, message string, upstreamStatus int) models.NEORecord {
	return models.NEORecord{
		ID:                    syntheticID,
		Name:                  syntheticName,
		EstimatedDiameterM:    ptr(syntheticDiameterM),
		EstimatedDiameterMinM: ptr(syntheticDiameterM),
		EstimatedDiameterMaxM: ptr(syntheticDiameterM),
		VelocityKmS:           ptr(syntheticVelocityKmS),
		RelativeVelocityKph:   ptr(syntheticVelocityKmS * 3600),
		CloseApproachDate:     ptr(syntheticApproachDate),
		DensityKgM3:           syntheticDensityKgM3,
		Orbit: models.Orbit{
			SemiMajorAxisAU: ptr(syntheticSemiMajorAU),
			Eccentricity:    ptr(syntheticEccentricity),
			InclinationDeg:  ptr(syntheticInclination),
		},
		Source:         models.SourceSynthetic,
		RequestedID:    requestedID,
		Message:        message,
		UpstreamStatus: upstreamStatus,
	}
}

func ptr[T any](v T) *T {
	return &v
}
