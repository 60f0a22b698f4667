package predict

import (
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/gbfs"
	"github.com/OpenBikeTools/bikecast/business/data/profiles"
)

// Place is a configured rider location, typically home or work.
type Place struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
}

// LocationReport is the classified view around one configured place.
type LocationReport struct {
	Name             string            `json:"name"`
	Address          string            `json:"address,omitempty"`
	Stations         []StationDistance `json:"stations"`
	Availability     Availability      `json:"availability"`
	DepletionWarning *Warning          `json:"depletion_warning,omitempty"`
	FillWarning      *Warning          `json:"fill_warning,omitempty"`
}

// Report is the full engine output for one moment in time. Before noon the
// trip runs home to work, after noon the reverse.
type Report struct {
	Timestamp      time.Time                  `json:"timestamp"`
	Morning        bool                       `json:"is_morning"`
	Origin         string                     `json:"origin"`
	Destination    string                     `json:"destination"`
	Trip           TripVerdict                `json:"trip"`
	Locations      map[string]*LocationReport `json:"locations"`
	ActiveStations int                        `json:"active_stations"`
	ProfileWeeks   int                        `json:"profile_weeks,omitempty"`
}

// BuildReport runs the whole engine once: ranks stations around home and
// work, classifies both prediction sets, raises warnings and fuses the
// trip for the current direction of travel.
func BuildReport(cfg Config, lookup *profiles.Lookup,
	snapshots []gbfs.StationSnapshot, home Place, work Place,
	at time.Time) *Report {

	report := Report{
		Timestamp:      at,
		Morning:        at.Hour() < 12,
		Locations:      make(map[string]*LocationReport, 2),
		ActiveStations: len(snapshots),
	}
	if lookup != nil {
		report.ProfileWeeks = lookup.Metadata.WeekCount
	}

	availabilities := make(map[string]Availability, 2)
	for _, place := range []Place{home, work} {
		context := MakeLocationContext(cfg, place.Lat, place.Lon, snapshots)
		predictionSet := context.PredictionSet()
		availability := ClassifyAvailability(cfg, lookup, predictionSet, at)
		report.Locations[place.Name] = &LocationReport{
			Name:         place.Name,
			Address:      place.Address,
			Stations:     context.DisplaySet(),
			Availability: availability,
			DepletionWarning: depletionWarning(cfg, lookup,
				predictionSet, at),
			FillWarning: fillWarning(cfg, lookup, predictionSet, at,
				availability.NetFlow),
		}
		availabilities[place.Name] = availability
	}

	report.Origin, report.Destination = home.Name, work.Name
	if !report.Morning {
		report.Origin, report.Destination = work.Name, home.Name
	}
	report.Trip = FuseTrip(cfg, availabilities[report.Origin],
		availabilities[report.Destination], at)
	return &report
}
