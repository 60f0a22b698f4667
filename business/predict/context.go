package predict

import (
	"math"
	"sort"

	"github.com/OpenBikeTools/bikecast/business/data/gbfs"
)

const earthRadiusMeters = 6371000

// StationDistance pairs a live station snapshot with its distance from the
// rider's location.
type StationDistance struct {
	gbfs.StationSnapshot
	DistanceMeters float64 `json:"distance_meters"`
}

// LocationContext holds the stations nearest a single configured location,
// ordered closest first and capped at the display set size.
type LocationContext struct {
	Lat      float64
	Lon      float64
	stations []StationDistance

	predictionSetSize int
}

// MakeLocationContext ranks snapshots by distance from (lat, lon) and keeps
// the cfg.DisplaySetSize closest. Ties on distance break on station id so
// the ordering is deterministic.
func MakeLocationContext(cfg Config, lat float64, lon float64,
	snapshots []gbfs.StationSnapshot) *LocationContext {

	ranked := make([]StationDistance, 0, len(snapshots))
	for _, snapshot := range snapshots {
		ranked = append(ranked, StationDistance{
			StationSnapshot: snapshot,
			DistanceMeters:  haversineMeters(lat, lon, snapshot.Lat, snapshot.Lon),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].DistanceMeters != ranked[j].DistanceMeters {
			return ranked[i].DistanceMeters < ranked[j].DistanceMeters
		}
		return ranked[i].StationId < ranked[j].StationId
	})
	if len(ranked) > cfg.DisplaySetSize {
		ranked = ranked[:cfg.DisplaySetSize]
	}
	return &LocationContext{
		Lat:               lat,
		Lon:               lon,
		stations:          ranked,
		predictionSetSize: cfg.PredictionSetSize,
	}
}

// DisplaySet returns the nearest stations for presentation, closest first.
func (c *LocationContext) DisplaySet() []StationDistance {
	return c.stations
}

// PredictionSet returns the prefix of the display set used for
// classification and warnings.
func (c *LocationContext) PredictionSet() []StationDistance {
	if len(c.stations) <= c.predictionSetSize {
		return c.stations
	}
	return c.stations[:c.predictionSetSize]
}

//haversineMeters computes the great circle distance between two coordinates
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlat := (lat2 - lat1) * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
