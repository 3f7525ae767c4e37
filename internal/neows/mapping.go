package neows

import (
	"strconv"
	"strings"

	"github.com/mr1hm/go-neo-impact/internal/models"
	"github.com/mr1hm/go-neo-impact/internal/numparse"
)

// toRecord is the only place NeoWs field names meet the normalized schema.
func toRecord(candidate string, data neoResponse) models.NEORecord {
	rec := models.NEORecord{
		ID:                   firstNonEmpty(data.ID, data.NeoReferenceID, candidate),
		Name:                 data.Name,
		PotentiallyHazardous: flag(data.IsPotentiallyHazardous),
		AbsoluteMagnitudeH:   numparse.Float(data.AbsoluteMagnitudeH),
		DensityKgM3:          models.DefaultDensityKgM3,
		Source:               models.SourceCatalog,
	}

	if data.EstimatedDiameter != nil && data.EstimatedDiameter.Meters != nil {
		rec.EstimatedDiameterMinM = numparse.Float(data.EstimatedDiameter.Meters.Min)
		rec.EstimatedDiameterMaxM = numparse.Float(data.EstimatedDiameter.Meters.Max)
	}
	rec.EstimatedDiameterM = rec.EstimatedDiameterMaxM
	if rec.EstimatedDiameterM == nil {
		rec.EstimatedDiameterM = rec.EstimatedDiameterMinM
	}

	if ca := firstApproach(data.CloseApproachData); ca != nil {
		rec.CloseApproachDate = optionalString(ca.CloseApproachDate)
		rec.OrbitingBody = optionalString(ca.OrbitingBody)
		if ca.RelativeVelocity != nil {
			rec.VelocityKmS = numparse.Float(ca.RelativeVelocity.KilometersPerSecond)
			rec.RelativeVelocityKph = numparse.Float(ca.RelativeVelocity.KilometersPerHour)
		}
		if ca.MissDistance != nil {
			rec.MissDistanceKm = numparse.Float(ca.MissDistance.Kilometers)
		}
	}

	if od := data.OrbitalData; od != nil {
		rec.Orbit = models.Orbit{
			SemiMajorAxisAU:           numparse.Float(od.SemiMajorAxis),
			Eccentricity:              numparse.Float(od.Eccentricity),
			InclinationDeg:            numparse.Float(od.Inclination),
			MeanAnomalyDeg:            numparse.Float(od.MeanAnomaly),
			AscendingNodeLongitudeDeg: numparse.Float(od.AscendingNodeLongitude),
			OrbitalPeriodDays:         numparse.Float(od.OrbitalPeriod),
			MeanMotionDegDay:          numparse.Float(od.MeanMotion),
			PerihelionDistanceAU:      numparse.Float(od.PerihelionDistance),
			AphelionDistanceAU:        numparse.Float(od.AphelionDistance),
			EpochOsculation:           numparse.Float(od.EpochOsculation),
		}
	}

	return rec
}

// flag accepts a JSON boolean or a boolean string ("true", "False", "1").
// Anything else, including null, is treated as not hazardous.
func flag(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}

// firstApproach skips null entries in close_approach_data.
func firstApproach(events []*closeApproach) *closeApproach {
	for _, ca := range events {
		if ca != nil {
			return ca
		}
	}
	return nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
