package geo

import (
	"math"
	"sort"
	"time"

	"github.com/golang/geo/s2"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// earthRadiusKm is the mean Earth radius used to convert great-circle
// angles to kilometers.
const earthRadiusKm = 6371.0

// frequentShare is the fraction of all observations a cluster must hold
// to count as a recurring location.
const frequentShare = 0.10

// Analyzer computes movement reports from location observations. It is
// immutable after construction and safe for concurrent use.
type Analyzer struct {
	epsilonKm    float64
	minPoints    int
	anomalySigma float64
	now          func() time.Time
}

// NewAnalyzer creates an analyzer with the given clustering and anomaly
// parameters. The settings are assumed validated by config.
func NewAnalyzer(settings config.GeoSettings) *Analyzer {
	return &Analyzer{
		epsilonKm:    settings.EpsilonKm,
		minPoints:    settings.MinPoints,
		anomalySigma: settings.AnomalySigma,
		now:          time.Now,
	}
}

// Analyze builds the movement report for a target's observations. The
// input may arrive in any order; analysis works on a time-sorted copy.
// Zero observations yield an empty report, not an error.
func (a *Analyzer) Analyze(target string, observations []model.LocationObservation) *model.MovementReport {
	obs := make([]model.LocationObservation, len(observations))
	copy(obs, observations)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	report := &model.MovementReport{
		Target:           target,
		AnalyzedAt:       a.now().UTC(),
		ObservationCount: len(obs),
		Clusters:         a.cluster(obs),
		Segments:         segments(obs),
	}
	report.Anomalies = a.anomalies(obs, report.Segments)
	return report
}

// distanceKm returns the great-circle distance between two observations.
func distanceKm(a, b model.LocationObservation) float64 {
	p := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	q := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p.Distance(q).Radians() * earthRadiusKm
}

// Cluster labels used during density-based grouping.
const (
	labelUnvisited = 0
	labelNoise     = -1
)

// cluster groups observations into recurring locations with DBSCAN:
// a point with at least minPoints neighbors within epsilonKm seeds a
// cluster, which grows through every density-reachable point. Isolated
// points are noise and belong to no cluster.
func (a *Analyzer) cluster(obs []model.LocationObservation) []model.LocationCluster {
	if len(obs) == 0 {
		return []model.LocationCluster{}
	}

	labels := make([]int, len(obs))
	clusterID := 0

	for i := range obs {
		if labels[i] != labelUnvisited {
			continue
		}
		neighbors := a.neighbors(obs, i)
		if len(neighbors) < a.minPoints {
			labels[i] = labelNoise
			continue
		}

		clusterID++
		labels[i] = clusterID

		// Expand the cluster through density-reachable points. The
		// frontier grows as new core points contribute their neighbors.
		frontier := neighbors
		for k := 0; k < len(frontier); k++ {
			j := frontier[k]
			if labels[j] == labelNoise {
				labels[j] = clusterID // border point
			}
			if labels[j] != labelUnvisited {
				continue
			}
			labels[j] = clusterID
			jNeighbors := a.neighbors(obs, j)
			if len(jNeighbors) >= a.minPoints {
				frontier = append(frontier, jNeighbors...)
			}
		}
	}

	return buildClusters(obs, labels, clusterID)
}

// neighbors returns the indices within epsilonKm of obs[i], including i
// itself.
func (a *Analyzer) neighbors(obs []model.LocationObservation, i int) []int {
	var result []int
	for j := range obs {
		if distanceKm(obs[i], obs[j]) <= a.epsilonKm {
			result = append(result, j)
		}
	}
	return result
}

// buildClusters assembles cluster records from point labels.
func buildClusters(obs []model.LocationObservation, labels []int, count int) []model.LocationCluster {
	clusters := make([]model.LocationCluster, count)
	for i, label := range labels {
		if label <= 0 {
			continue
		}
		c := &clusters[label-1]
		c.CenterLatitude += obs[i].Latitude
		c.CenterLongitude += obs[i].Longitude
		c.Size++
		c.MemberIndices = append(c.MemberIndices, i)
	}

	for i := range clusters {
		if clusters[i].Size > 0 {
			clusters[i].CenterLatitude /= float64(clusters[i].Size)
			clusters[i].CenterLongitude /= float64(clusters[i].Size)
		}
		clusters[i].Frequent = float64(clusters[i].Size) > frequentShare*float64(len(obs))
	}
	return clusters
}

// segments derives travel segments between consecutive observations.
// Pairs with no elapsed time are skipped: speed is undefined for them
// and simultaneous readings from different sources are common.
func segments(obs []model.LocationObservation) []model.TravelSegment {
	result := []model.TravelSegment{}
	for i := 1; i < len(obs); i++ {
		elapsed := obs[i].Timestamp.Sub(obs[i-1].Timestamp)
		if elapsed <= 0 {
			continue
		}
		dist := distanceKm(obs[i-1], obs[i])
		hours := elapsed.Hours()
		result = append(result, model.TravelSegment{
			From:          i - 1,
			To:            i,
			DistanceKm:    dist,
			DurationHours: hours,
			SpeedKmh:      dist / hours,
		})
	}
	return result
}

// anomalies flags segments whose speed deviates from the mean by more
// than the configured number of standard deviations. A flat speed
// profile has zero deviation everywhere and produces no anomalies.
func (a *Analyzer) anomalies(obs []model.LocationObservation, segs []model.TravelSegment) []model.SpeedAnomaly {
	result := []model.SpeedAnomaly{}
	if len(segs) == 0 {
		return result
	}

	mean := 0.0
	for _, s := range segs {
		mean += s.SpeedKmh
	}
	mean /= float64(len(segs))

	variance := 0.0
	for _, s := range segs {
		d := s.SpeedKmh - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(segs)))
	if stddev == 0 {
		return result
	}

	for _, s := range segs {
		deviation := math.Abs(s.SpeedKmh-mean) / stddev
		if deviation <= a.anomalySigma {
			continue
		}
		end := obs[s.To]
		result = append(result, model.SpeedAnomaly{
			ObservationIndex: s.To,
			Latitude:         end.Latitude,
			Longitude:        end.Longitude,
			Timestamp:        end.Timestamp,
			SpeedKmh:         s.SpeedKmh,
			Deviation:        deviation,
		})
	}
	return result
}
