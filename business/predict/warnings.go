package predict

import (
	"encoding/json"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/profiles"
)

// WarningKind discriminates the two anticipatory warnings.
type WarningKind int

const (
	Depletion WarningKind = iota
	Fill
)

// String - Stringer interface for WarningKind
func (k WarningKind) String() string {
	if k == Fill {
		return "FILL"
	}
	return "DEPLETION"
}

// MarshalJSON presents a WarningKind as its string form
func (k WarningKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Warning is an anticipatory alert tied to one station in a prediction set.
type Warning struct {
	Kind        WarningKind `json:"kind"`
	Hour        int         `json:"hour"`
	Severity    float64     `json:"severity"`
	StationId   string      `json:"station_id"`
	StationName string      `json:"station_name"`
}

// depletionWarning scans the prediction set for a historical depletion
// window opening within the horizon. Only severities above the threshold
// qualify, and when several stations qualify the one whose window opens
// soonest wins. Stations are scanned in distance order so equal offsets
// break toward the closer station.
func depletionWarning(cfg Config, lookup *profiles.Lookup,
	predictionSet []StationDistance, at time.Time) *Warning {

	if lookup == nil {
		return nil
	}
	var warning *Warning
	bestOffset := 0
	for _, station := range predictionSet {
		summary := lookup.DepletionFor(station.StationId, at.Weekday())
		if summary == nil || summary.Severity <= cfg.SeverityThreshold {
			continue
		}
		offset := hourOffset(at.Hour(), summary.Hour)
		if offset <= 0 || offset > cfg.WarningHorizonHours {
			continue
		}
		if warning == nil || offset < bestOffset {
			warning = &Warning{
				Kind:        Depletion,
				Hour:        summary.Hour,
				Severity:    summary.Severity,
				StationId:   station.StationId,
				StationName: station.Name,
			}
			bestOffset = offset
		}
	}
	return warning
}

// fillWarning fires when the prediction set is already trending full
// (aggregate net flow above the gate) and a station's profile shows a
// strong inbound hour within the horizon. The earliest qualifying hour
// wins, severity comes from the day's fill summary when one exists.
func fillWarning(cfg Config, lookup *profiles.Lookup,
	predictionSet []StationDistance, at time.Time, aggregateNetFlow float64) *Warning {

	if lookup == nil || aggregateNetFlow <= cfg.FillAggregateNetFlow {
		return nil
	}
	var warning *Warning
	bestOffset := 0
	for _, station := range predictionSet {
		for offset := 1; offset <= cfg.WarningHorizonHours; offset++ {
			hour := (at.Hour() + offset) % 24
			netFlow, present := lookup.NetFlowAt(station.StationId,
				at.Weekday(), hour)
			if !present || netFlow <= cfg.FillStationNetFlow {
				continue
			}
			if warning == nil || offset < bestOffset {
				severity := netFlow
				if summary := lookup.FillFor(station.StationId,
					at.Weekday()); summary != nil {
					severity = summary.Magnitude
				}
				warning = &Warning{
					Kind:        Fill,
					Hour:        hour,
					Severity:    severity,
					StationId:   station.StationId,
					StationName: station.Name,
				}
				bestOffset = offset
			}
			break
		}
	}
	return warning
}

//hourOffset is the forward distance in hours from now to target on a 24 hour clock
func hourOffset(now int, target int) int {
	return ((target - now) % 24 + 24) % 24
}
