package model

import "time"

// LocationObservation is a single timestamped position reading for a
// target. Observations are assembled by the caller (login records, DNS
// history, social posts); the movement analyzer only reads them.
type LocationObservation struct {
	// Latitude in WGS-84 degrees, positive north.
	Latitude float64 `json:"latitude"`

	// Longitude in WGS-84 degrees, positive east.
	Longitude float64 `json:"longitude"`

	// Timestamp is when the position was observed.
	Timestamp time.Time `json:"timestamp"`

	// Source tags where the observation came from (e.g. "login", "dns",
	// "social").
	Source string `json:"source"`

	// AccuracyKm is the reported positional accuracy in kilometers.
	// Zero means unreported.
	AccuracyKm float64 `json:"accuracy_km,omitempty"`

	// Confidence is the reporting source's own confidence in [0, 1].
	// Zero means unreported.
	Confidence float64 `json:"confidence,omitempty"`
}

// LocationCluster is a recurring location derived from density-based
// grouping of observations. Clusters are recomputed on every analysis
// call and never persisted independently of a movement report.
type LocationCluster struct {
	// CenterLatitude and CenterLongitude are the mean position of the
	// cluster members.
	CenterLatitude  float64 `json:"center_latitude"`
	CenterLongitude float64 `json:"center_longitude"`

	// Size is the number of member observations.
	Size int `json:"size"`

	// MemberIndices are the indices of member observations in the
	// time-sorted input sequence.
	MemberIndices []int `json:"member_indices"`

	// Frequent is true when the cluster holds more than 10% of all
	// observations, marking a recurring location.
	Frequent bool `json:"frequent"`
}

// TravelSegment describes movement between two consecutive observations.
type TravelSegment struct {
	// From and To are the indices of the segment endpoints in the
	// time-sorted input sequence.
	From int `json:"from"`
	To   int `json:"to"`

	// DistanceKm is the great-circle distance between the endpoints.
	DistanceKm float64 `json:"distance_km"`

	// DurationHours is the elapsed time between the endpoints.
	DurationHours float64 `json:"duration_hours"`

	// SpeedKmh is DistanceKm / DurationHours.
	SpeedKmh float64 `json:"speed_kmh"`
}

// SpeedAnomaly flags a travel segment whose speed deviates from the
// target's typical movement by more than the configured number of
// standard deviations.
type SpeedAnomaly struct {
	// ObservationIndex is the index of the segment's end observation.
	ObservationIndex int `json:"observation_index"`

	// Latitude and Longitude locate the anomalous observation.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Timestamp is when the anomalous observation was made.
	Timestamp time.Time `json:"timestamp"`

	// SpeedKmh is the computed travel speed of the flagged segment.
	SpeedKmh float64 `json:"speed_kmh"`

	// Deviation is |speed - mean| / stddev, reported as confidence:
	// the larger the deviation, the more certain the anomaly.
	Deviation float64 `json:"deviation"`
}

// MovementReport is the immutable output of one movement analysis:
// recurring locations, travel segments, and speed anomalies.
type MovementReport struct {
	// Target names the subject the observations belong to.
	Target string `json:"target"`

	// AnalyzedAt is the analysis timestamp.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// ObservationCount is the number of observations analyzed.
	ObservationCount int `json:"observation_count"`

	// Clusters are the recurring locations in discovery order.
	Clusters []LocationCluster `json:"clusters"`

	// Segments are the consecutive travel segments in time order.
	// Pairs with zero elapsed time are skipped.
	Segments []TravelSegment `json:"segments"`

	// Anomalies are the flagged speed outliers in time order.
	Anomalies []SpeedAnomaly `json:"anomalies"`
}

// FrequentLocations returns the clusters marked as recurring.
func (r *MovementReport) FrequentLocations() []LocationCluster {
	frequent := make([]LocationCluster, 0, len(r.Clusters))
	for _, c := range r.Clusters {
		if c.Frequent {
			frequent = append(frequent, c)
		}
	}
	return frequent
}
