package builder

import (
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/trips"
)

type flowSlot struct {
	stationId string
	dayOfWeek int
	hour      int
}

type calendarWeek struct {
	year int
	week int
}

// flowAccumulator tallies departures and arrivals per station, day of week
// and hour while streaming trip records, and tracks the distinct calendar
// weeks seen so counts can later be normalized to per week rates.
type flowAccumulator struct {
	departures map[flowSlot]int64
	arrivals   map[flowSlot]int64
	weeks      map[calendarWeek]bool

	tripCount      int64
	discardedCount int64

	holidays         *ridershipHolidayCalendar
	holidaysAsSunday bool
}

// makeFlowAccumulator flowAccumulator factory. When holidaysAsSunday is set,
// trips taken on an observed holiday count toward the Sunday profile since
// commute patterns collapse on those days.
func makeFlowAccumulator(holidaysAsSunday bool) *flowAccumulator {
	return &flowAccumulator{
		departures:       make(map[flowSlot]int64),
		arrivals:         make(map[flowSlot]int64),
		weeks:            make(map[calendarWeek]bool),
		holidays:         makeRidershipHolidayCalendar(),
		holidaysAsSunday: holidaysAsSunday,
	}
}

// addTrip tallies one trip record. The departure counts against the origin
// station at the trip's start slot, the arrival against the destination at
// the end slot. Records with zero timestamps or empty station ids are
// counted as discarded.
func (a *flowAccumulator) addTrip(record *trips.TripRecord) {
	if record.StartTime.IsZero() || record.EndTime.IsZero() ||
		record.OriginStationId == "" || record.DestinationStationId == "" {
		a.discardedCount++
		return
	}
	a.tripCount++

	year, week := record.StartTime.ISOWeek()
	a.weeks[calendarWeek{year, week}] = true

	a.departures[flowSlot{
		stationId: record.OriginStationId,
		dayOfWeek: a.dayOfWeek(record.StartTime),
		hour:      record.StartTime.Hour(),
	}]++
	a.arrivals[flowSlot{
		stationId: record.DestinationStationId,
		dayOfWeek: a.dayOfWeek(record.EndTime),
		hour:      record.EndTime.Hour(),
	}]++
}

// weekCount is the number of distinct calendar weeks seen across all trips
func (a *flowAccumulator) weekCount() int {
	return len(a.weeks)
}

func (a *flowAccumulator) dayOfWeek(at time.Time) int {
	if a.holidaysAsSunday && a.holidays.isHoliday(at) {
		return int(time.Sunday)
	}
	return int(at.Weekday())
}
