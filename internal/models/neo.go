package models

// Record sources.
const (
	SourceCatalog   = "catalog"
	SourceSynthetic = "synthetic"
)

// DefaultDensityKgM3 is the bulk density assumed for every catalog object.
// NeoWs carries no density, so this is a modeling assumption rather than a
// measurement; it is filled in even though unknown numerics elsewhere stay nil.
const DefaultDensityKgM3 = 3000.0

// NEORecord is the normalized near-Earth object returned by the service.
// Pointer fields are nil (JSON null) when the source could not supply a value.
type NEORecord struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	EstimatedDiameterM    *float64 `json:"estimated_diameter_m"` // max, falling back to min
	EstimatedDiameterMinM *float64 `json:"estimated_diameter_min_m"`
	EstimatedDiameterMaxM *float64 `json:"estimated_diameter_max_m"`
	VelocityKmS           *float64 `json:"velocity_kms"`
	RelativeVelocityKph   *float64 `json:"relative_velocity_kph"`
	CloseApproachDate     *string  `json:"close_approach_date"`
	MissDistanceKm        *float64 `json:"miss_distance_km"`
	OrbitingBody          *string  `json:"orbiting_body"`
	PotentiallyHazardous  bool     `json:"potentially_hazardous"`
	AbsoluteMagnitudeH    *float64 `json:"absolute_magnitude_h"`
	DensityKgM3           float64  `json:"density_kgm3"`
	Orbit                 Orbit    `json:"orbit"`

	Source      string  `json:"source"`
	RequestedID string  `json:"requested_id"`
	ResolvedID  *string `json:"resolved_id"`

	// Set on synthetic records only.
	Message        string `json:"message,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

type Orbit struct {
	SemiMajorAxisAU           *float64 `json:"semi_major_axis_au"`
	Eccentricity              *float64 `json:"eccentricity"`
	InclinationDeg            *float64 `json:"inclination_deg"`
	MeanAnomalyDeg            *float64 `json:"mean_anomaly_deg"`
	AscendingNodeLongitudeDeg *float64 `json:"ascending_node_longitude_deg"`
	OrbitalPeriodDays         *float64 `json:"orbital_period_days"`
	MeanMotionDegDay          *float64 `json:"mean_motion_deg_day"`
	PerihelionDistanceAU      *float64 `json:"perihelion_distance_au"`
	AphelionDistanceAU        *float64 `json:"aphelion_distance_au"`
	EpochOsculation           *float64 `json:"epoch_osculation"`
}

func (r *NEORecord) IsSynthetic() bool {
	return r.Source == SourceSynthetic
}
