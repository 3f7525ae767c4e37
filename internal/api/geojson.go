package api

import (
	"github.com/mr1hm/go-neo-impact/internal/models"
)

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry is a GeoJSON Polygon: a single exterior ring of [lng, lat].
type Geometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

func toFootprintFeature(ring [][2]float64, lat, lng float64, res models.ImpactResult) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Polygon",
			Coordinates: [][][2]float64{ring},
		},
		Properties: map[string]any{
			"lat":                 lat,
			"lng":                 lng,
			"crater_diameter_m":   res.CraterDiameterM,
			"tnt_equivalent_tons": res.TNTEquivalentTons,
		},
	}
}
