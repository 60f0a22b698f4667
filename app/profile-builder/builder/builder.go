// Package builder aggregates historical trip records into per station flow
// profiles and their daily depletion and fill summaries.
package builder

import (
	"fmt"
	"log"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/profiles"
	"github.com/OpenBikeTools/bikecast/business/data/trips"
	"github.com/jmoiron/sqlx"
)

type stationDay struct {
	stationId string
	dayOfWeek int
}

// BuildLookup streams every trip record through a flow accumulator and
// assembles the resulting profiles.Lookup. Fails when no usable trip
// records are present since a lookup normalized over zero weeks is
// meaningless.
func BuildLookup(log *log.Logger, db *sqlx.DB, dataSource string,
	holidaysAsSunday bool) (*profiles.Lookup, error) {

	accumulator := makeFlowAccumulator(holidaysAsSunday)
	if err := trips.ForEachTripRecord(db, accumulator.addTrip); err != nil {
		return nil, fmt.Errorf("streaming trip records: %w", err)
	}
	log.Printf("builder: accumulated %d trips over %d weeks, discarded %d",
		accumulator.tripCount, accumulator.weekCount(), accumulator.discardedCount)
	return buildLookupFromAccumulator(accumulator, dataSource, time.Now())
}

// buildLookupFromAccumulator normalizes raw tallies into per week rates and
// runs the daily cumulative scans that produce depletion and fill summaries.
func buildLookupFromAccumulator(accumulator *flowAccumulator, dataSource string,
	generatedAt time.Time) (*profiles.Lookup, error) {

	weekCount := accumulator.weekCount()
	if weekCount == 0 {
		return nil, fmt.Errorf("no usable trip records to build profiles from")
	}

	lookup := profiles.MakeLookup(profiles.Metadata{
		GeneratedAt:    generatedAt,
		WeekCount:      weekCount,
		TripCount:      accumulator.tripCount,
		DiscardedCount: accumulator.discardedCount,
		DataSource:     dataSource,
	})

	stationDays := make(map[stationDay]bool)
	for slot := range accumulator.departures {
		addProfile(lookup, accumulator, slot, weekCount)
		stationDays[stationDay{slot.stationId, slot.dayOfWeek}] = true
	}
	for slot := range accumulator.arrivals {
		// departure slots are already in place, only fill the gaps
		if _, present := lookup.ProfileAt(slot.stationId,
			time.Weekday(slot.dayOfWeek), slot.hour); !present {
			addProfile(lookup, accumulator, slot, weekCount)
		}
		stationDays[stationDay{slot.stationId, slot.dayOfWeek}] = true
	}

	for day := range stationDays {
		addDaySummaries(lookup, day)
	}
	return lookup, nil
}

func addProfile(lookup *profiles.Lookup, accumulator *flowAccumulator,
	slot flowSlot, weekCount int) {

	arrivals := float64(accumulator.arrivals[slot]) / float64(weekCount)
	departures := float64(accumulator.departures[slot]) / float64(weekCount)
	lookup.AddProfile(&profiles.FlowProfile{
		StationId:         slot.stationId,
		DayOfWeek:         slot.dayOfWeek,
		Hour:              slot.hour,
		ArrivalsPerWeek:   arrivals,
		DeparturesPerWeek: departures,
		NetFlow:           arrivals - departures,
	})
}

// addDaySummaries runs a single cumulative scan over the 24 hours of one
// station day. The depletion summary marks the hour the running balance
// bottoms out, the fill summary the hour it peaks. Strict comparisons keep
// the earliest hour when the extreme repeats.
func addDaySummaries(lookup *profiles.Lookup, day stationDay) {
	cumulative := 0.0
	lowest, lowestHour := 0.0, 0
	highest, highestHour := 0.0, 0
	for hour := 0; hour < 24; hour++ {
		if netFlow, present := lookup.NetFlowAt(day.stationId,
			time.Weekday(day.dayOfWeek), hour); present {
			cumulative += netFlow
		}
		if cumulative < lowest {
			lowest, lowestHour = cumulative, hour
		}
		if cumulative > highest {
			highest, highestHour = cumulative, hour
		}
	}
	if lowest < 0 {
		lookup.AddDepletionSummary(&profiles.DepletionSummary{
			StationId: day.stationId,
			DayOfWeek: day.dayOfWeek,
			Hour:      lowestHour,
			Severity:  -lowest,
		})
	}
	if highest > 0 {
		lookup.AddFillSummary(&profiles.FillSummary{
			StationId: day.stationId,
			DayOfWeek: day.dayOfWeek,
			Hour:      highestHour,
			Magnitude: highest,
		})
	}
}
