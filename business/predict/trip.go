package predict

import (
	"fmt"
	"time"
)

// TripVerdict is the fused recommendation for the morning or evening ride.
type TripVerdict struct {
	Confidence Likelihood `json:"confidence"`
	Message    string     `json:"message"`
	// LeaveBy is only populated when the deadline is still ahead and
	// inside the visibility window.
	LeaveBy *time.Time `json:"leave_by,omitempty"`
}

// FuseTrip combines origin bike availability with destination dock
// availability into a single confidence. A LOW origin gates the whole trip
// to LOW regardless of the destination, otherwise the two sides are
// weighted with bikes counting more than docks.
func FuseTrip(cfg Config, origin Availability, destination Availability,
	at time.Time) TripVerdict {

	if origin.Bikes == Low {
		return TripVerdict{
			Confidence: Low,
			Message:    "Consider transit or walking",
		}
	}

	score := cfg.BikeWeight*origin.Bikes.score() +
		cfg.DockWeight*destination.Docks.score()
	confidence := Low
	switch {
	case score >= cfg.HighScoreThreshold:
		confidence = High
	case score >= cfg.MediumScoreThreshold:
		confidence = Medium
	}

	leaveBy := leaveByTime(cfg, origin, at)
	verdict := TripVerdict{
		Confidence: confidence,
		LeaveBy:    leaveBy,
		Message:    "Safe to bike",
	}
	switch {
	case confidence == Low:
		verdict.Message = "Consider transit or walking"
	case confidence == Medium && origin.Bikes == High && destination.Docks == Low:
		verdict.Message = "Docks may be tight at the destination"
	case confidence == Medium && leaveBy != nil:
		verdict.Message = fmt.Sprintf("Safe to bike, but leave by %s",
			leaveBy.Format("3:04 PM"))
	}
	return verdict
}

// leaveByTime projects when the origin prediction set drains to the
// absolute floor at its historical loss rate and backs off the buffer.
// Deadlines already passed, or further out than the visibility window,
// return nil.
func leaveByTime(cfg Config, origin Availability, at time.Time) *time.Time {
	if origin.NetFlow >= 0 {
		return nil
	}
	bikesAboveFloor := float64(origin.TotalBikes - cfg.AbsoluteFloor)
	if bikesAboveFloor < 0 {
		bikesAboveFloor = 0
	}
	hoursUntilFloor := bikesAboveFloor / -origin.NetFlow
	leaveBy := at.
		Add(time.Duration(hoursUntilFloor * float64(time.Hour))).
		Add(-cfg.LeaveByBuffer)
	if !leaveBy.After(at) || leaveBy.Sub(at) > cfg.LeaveByWindow {
		return nil
	}
	return &leaveBy
}
