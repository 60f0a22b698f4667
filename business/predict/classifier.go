package predict

import (
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/profiles"
)

// Availability is the classified state of a prediction set at one moment.
type Availability struct {
	Bikes Likelihood `json:"bike_likelihood"`
	Docks Likelihood `json:"dock_likelihood"`

	BikePct float64 `json:"bike_pct"`
	DockPct float64 `json:"dock_pct"`

	// NetFlow is the summed historical bikes-per-hour trend for the
	// prediction set at this day and hour. Negative means draining.
	NetFlow float64 `json:"net_flow"`

	TotalBikes    int `json:"total_bikes"`
	TotalEBikes   int `json:"total_ebikes"`
	TotalDocks    int `json:"total_docks"`
	TotalCapacity int `json:"total_capacity"`
}

// ClassifyAvailability aggregates the prediction set and grades bike and
// dock availability. An empty prediction set grades LOW on both sides. When
// lookup is nil or carries no profile for a station that station contributes
// zero trend.
func ClassifyAvailability(cfg Config, lookup *profiles.Lookup,
	predictionSet []StationDistance, at time.Time) Availability {

	availability := Availability{Bikes: Low, Docks: Low}
	for _, station := range predictionSet {
		availability.TotalBikes += station.BikesAvailable
		availability.TotalEBikes += station.EBikesAvailable
		availability.TotalDocks += station.DocksAvailable
		availability.TotalCapacity += station.Capacity
		if lookup != nil {
			if netFlow, present := lookup.NetFlowAt(station.StationId,
				at.Weekday(), at.Hour()); present {
				availability.NetFlow += netFlow
			}
		}
	}
	if len(predictionSet) == 0 {
		return availability
	}

	// zero capacity classifies at 0%, the absolute floor can still apply
	if availability.TotalCapacity > 0 {
		availability.BikePct = 100 * float64(availability.TotalBikes) /
			float64(availability.TotalCapacity)
		availability.DockPct = 100 * float64(availability.TotalDocks) /
			float64(availability.TotalCapacity)
	}

	// dock availability moves opposite to bike flow, arrivals consume docks
	availability.Bikes = classifyLevel(cfg, availability.BikePct,
		availability.NetFlow, availability.TotalBikes)
	availability.Docks = classifyLevel(cfg, availability.DockPct,
		-availability.NetFlow, availability.TotalDocks)
	return availability
}

// classifyLevel grades one side (bikes or docks) from its percentage of
// capacity, its trend and the absolute count on hand. The absolute floor
// only ever raises LOW to MEDIUM, never to HIGH.
func classifyLevel(cfg Config, pct float64, netFlow float64, count int) Likelihood {
	level := Low
	switch {
	case pct >= cfg.HighPctThreshold && netFlow >= cfg.HighNetFlowFloor:
		level = High
	case pct >= cfg.MediumPctThreshold:
		level = Medium
	case pct >= cfg.LowTrendPct && netFlow > 0:
		level = Medium
	}
	if level == Low && count >= cfg.AbsoluteFloor {
		level = Medium
	}
	return level
}
