// Package profiles provides per station temporal flow profile and
// depletion/fill summary data produced by the profile builder, and the read
// only lookup artifact the availability engine classifies against.
package profiles

import (
	"fmt"
	"time"
)

// FlowProfile holds the mean weekly arrival and departure rates for one
// station during one (day of week, hour of day) slot.
// DayOfWeek follows time.Weekday numbering, 0 = Sunday.
// A missing (station, day, hour) combination means "no data", never zero flow.
type FlowProfile struct {
	StationId         string  `db:"station_id" json:"station_id"`
	DayOfWeek         int     `db:"day_of_week" json:"day_of_week"`
	Hour              int     `db:"hour" json:"hour"`
	ArrivalsPerWeek   float64 `db:"arrivals_per_week" json:"arrivals_per_week"`
	DeparturesPerWeek float64 `db:"departures_per_week" json:"departures_per_week"`
	NetFlow           float64 `db:"net_flow" json:"net_flow"`
}

func (f *FlowProfile) String() string {
	return fmt.Sprintf("FlowProfile station:%s day:%d hour:%d arrivals:%.2f departures:%.2f net:%.2f",
		f.StationId, f.DayOfWeek, f.Hour, f.ArrivalsPerWeek, f.DeparturesPerWeek, f.NetFlow)
}

// DepletionSummary identifies the hour a station's cumulative net flow from
// midnight historically bottoms out on a given day of week. Hour is the
// earliest hour achieving the minimum. Severity is the magnitude of that
// minimum in bikes per week, >= 0 when the station is loss dominant.
type DepletionSummary struct {
	StationId string  `db:"station_id" json:"station_id"`
	DayOfWeek int     `db:"day_of_week" json:"day_of_week"`
	Hour      int     `db:"hour" json:"hour"`
	Severity  float64 `db:"severity" json:"severity"`
}

// FillSummary is the mirror of DepletionSummary: the earliest hour the
// cumulative net flow peaks, with the magnitude of that peak.
type FillSummary struct {
	StationId string  `db:"station_id" json:"station_id"`
	DayOfWeek int     `db:"day_of_week" json:"day_of_week"`
	Hour      int     `db:"hour" json:"hour"`
	Magnitude float64 `db:"magnitude" json:"magnitude"`
}

// Metadata describes the build that produced a Lookup
type Metadata struct {
	GeneratedAt    time.Time `db:"generated_at" json:"generated_at"`
	WeekCount      int       `db:"week_count" json:"week_count"`
	TripCount      int64     `db:"trip_count" json:"trip_count"`
	DiscardedCount int64     `db:"discarded_count" json:"discarded_count"`
	DataSource     string    `db:"data_source" json:"data_source"`
}

type slotKey struct {
	stationId string
	dayOfWeek int
	hour      int
}

type dayKey struct {
	stationId string
	dayOfWeek int
}

// Lookup is the read only artifact joining flow profiles with depletion and
// fill summaries, keyed for O(1) retrieval. The profile builder populates it
// once; afterwards it is safe for concurrent readers without locking.
type Lookup struct {
	Metadata   Metadata
	profiles   map[slotKey]*FlowProfile
	depletions map[dayKey]*DepletionSummary
	fills      map[dayKey]*FillSummary
	stationIds map[string]bool
}

// MakeLookup Lookup factory
func MakeLookup(metadata Metadata) *Lookup {
	return &Lookup{
		Metadata:   metadata,
		profiles:   make(map[slotKey]*FlowProfile),
		depletions: make(map[dayKey]*DepletionSummary),
		fills:      make(map[dayKey]*FillSummary),
		stationIds: make(map[string]bool),
	}
}

// AddProfile places profile into the lookup, replacing any previous entry for its slot
func (l *Lookup) AddProfile(profile *FlowProfile) {
	l.profiles[slotKey{profile.StationId, profile.DayOfWeek, profile.Hour}] = profile
	l.stationIds[profile.StationId] = true
}

// AddDepletionSummary places summary into the lookup
func (l *Lookup) AddDepletionSummary(summary *DepletionSummary) {
	l.depletions[dayKey{summary.StationId, summary.DayOfWeek}] = summary
	l.stationIds[summary.StationId] = true
}

// AddFillSummary places summary into the lookup
func (l *Lookup) AddFillSummary(summary *FillSummary) {
	l.fills[dayKey{summary.StationId, summary.DayOfWeek}] = summary
	l.stationIds[summary.StationId] = true
}

// ProfileAt retrieves the FlowProfile for (stationId, day, hour).
// The second return is false when the slot has no data.
func (l *Lookup) ProfileAt(stationId string, day time.Weekday, hour int) (*FlowProfile, bool) {
	profile, present := l.profiles[slotKey{stationId, int(day), hour}]
	return profile, present
}

// NetFlowAt retrieves the net flow for (stationId, day, hour).
// Returns 0 and false when the slot has no data, so callers degrade to a
// zero contribution rather than failing.
func (l *Lookup) NetFlowAt(stationId string, day time.Weekday, hour int) (float64, bool) {
	profile, present := l.profiles[slotKey{stationId, int(day), hour}]
	if !present {
		return 0, false
	}
	return profile.NetFlow, true
}

// DepletionFor retrieves the DepletionSummary for (stationId, day), nil when absent
func (l *Lookup) DepletionFor(stationId string, day time.Weekday) *DepletionSummary {
	return l.depletions[dayKey{stationId, int(day)}]
}

// FillFor retrieves the FillSummary for (stationId, day), nil when absent
func (l *Lookup) FillFor(stationId string, day time.Weekday) *FillSummary {
	return l.fills[dayKey{stationId, int(day)}]
}

// StationCount returns the number of stations with at least one entry
func (l *Lookup) StationCount() int {
	return len(l.stationIds)
}

// ProfileCount returns the number of populated (station, day, hour) slots
func (l *Lookup) ProfileCount() int {
	return len(l.profiles)
}

// Profiles returns every flow profile ordered by station, day and hour
func (l *Lookup) Profiles() []*FlowProfile {
	return l.sortedProfiles()
}
