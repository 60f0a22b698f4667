package builder

import (
	"math"
	"testing"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/profiles"
	"github.com/OpenBikeTools/bikecast/business/data/trips"
)

func tripAt(origin, destination string, start time.Time, minutes int) *trips.TripRecord {
	return &trips.TripRecord{
		OriginStationId:      origin,
		DestinationStationId: destination,
		StartTime:            start,
		EndTime:              start.Add(time.Duration(minutes) * time.Minute),
	}
}

func Test_buildLookupFromAccumulator_normalization(t *testing.T) {
	accumulator := makeFlowAccumulator(false)

	// four trips out of station 100 at 8am across two distinct mondays
	week1 := time.Date(2018, 1, 8, 8, 15, 0, 0, time.UTC)
	week2 := time.Date(2018, 1, 15, 8, 15, 0, 0, time.UTC)
	for _, start := range []time.Time{week1, week1.Add(10 * time.Minute), week2, week2.Add(10 * time.Minute)} {
		accumulator.addTrip(tripAt("100", "200", start, 20))
	}

	lookup, err := buildLookupFromAccumulator(accumulator, "test", time.Now())
	if err != nil {
		t.Fatalf("buildLookupFromAccumulator() error = %v", err)
	}
	if lookup.Metadata.WeekCount != 2 {
		t.Errorf("WeekCount = %d, expected 2", lookup.Metadata.WeekCount)
	}
	if lookup.Metadata.TripCount != 4 {
		t.Errorf("TripCount = %d, expected 4", lookup.Metadata.TripCount)
	}

	profile, present := lookup.ProfileAt("100", time.Monday, 8)
	if !present {
		t.Fatal("expected a profile for station 100 monday 8am")
	}
	if profile.DeparturesPerWeek != 2 {
		t.Errorf("DeparturesPerWeek = %v, expected 2", profile.DeparturesPerWeek)
	}
	if profile.NetFlow != -2 {
		t.Errorf("NetFlow = %v, expected -2", profile.NetFlow)
	}

	// the arrivals land at the destination in the same slot
	profile, present = lookup.ProfileAt("200", time.Monday, 8)
	if !present {
		t.Fatal("expected a profile for station 200 monday 8am")
	}
	if profile.ArrivalsPerWeek != 2 || profile.NetFlow != 2 {
		t.Errorf("unexpected destination profile %+v", profile)
	}
}

// every departure somewhere is an arrival somewhere else, so net flow summed
// over every profile cancels out
func Test_buildLookupFromAccumulator_netFlowIdentity(t *testing.T) {
	accumulator := makeFlowAccumulator(false)
	starts := []time.Time{
		time.Date(2018, 1, 8, 8, 15, 0, 0, time.UTC),
		time.Date(2018, 1, 9, 17, 40, 0, 0, time.UTC),
		time.Date(2018, 1, 16, 12, 5, 0, 0, time.UTC),
		time.Date(2018, 1, 20, 23, 45, 0, 0, time.UTC), // crosses midnight
	}
	stations := []string{"100", "200", "300"}
	for i, start := range starts {
		accumulator.addTrip(tripAt(stations[i%3], stations[(i+1)%3], start, 30))
	}

	lookup, err := buildLookupFromAccumulator(accumulator, "test", time.Now())
	if err != nil {
		t.Fatalf("buildLookupFromAccumulator() error = %v", err)
	}
	total := 0.0
	for _, profile := range lookup.Profiles() {
		total += profile.NetFlow
	}
	if math.Abs(total) > 1e-9 {
		t.Errorf("net flow over all profiles = %v, expected 0", total)
	}
}

func Test_addDaySummaries(t *testing.T) {
	tests := []struct {
		name              string
		netFlowByHour     map[int]float64
		expectedDepletion *profiles.DepletionSummary
		expectedFill      *profiles.FillSummary
	}{
		{
			name:          "single drain hour",
			netFlowByHour: map[int]float64{8: -5},
			expectedDepletion: &profiles.DepletionSummary{
				StationId: "100", DayOfWeek: 1, Hour: 8, Severity: 5,
			},
		},
		{
			name:          "repeated extreme keeps earliest hour",
			netFlowByHour: map[int]float64{8: -5, 10: 5, 12: -5},
			expectedDepletion: &profiles.DepletionSummary{
				StationId: "100", DayOfWeek: 1, Hour: 8, Severity: 5,
			},
		},
		{
			name:          "morning drain evening refill",
			netFlowByHour: map[int]float64{8: -4, 9: -2, 17: 3, 18: 6},
			expectedDepletion: &profiles.DepletionSummary{
				StationId: "100", DayOfWeek: 1, Hour: 9, Severity: 6,
			},
			expectedFill: &profiles.FillSummary{
				StationId: "100", DayOfWeek: 1, Hour: 18, Magnitude: 3,
			},
		},
		{
			name:          "pure inflow produces only a fill summary",
			netFlowByHour: map[int]float64{7: 2, 8: 7},
			expectedFill: &profiles.FillSummary{
				StationId: "100", DayOfWeek: 1, Hour: 8, Magnitude: 9,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := profiles.MakeLookup(profiles.Metadata{})
			for hour, netFlow := range tt.netFlowByHour {
				lookup.AddProfile(&profiles.FlowProfile{
					StationId: "100", DayOfWeek: 1, Hour: hour, NetFlow: netFlow,
				})
			}
			addDaySummaries(lookup, stationDay{"100", 1})

			depletion := lookup.DepletionFor("100", time.Monday)
			if tt.expectedDepletion == nil {
				if depletion != nil {
					t.Errorf("expected no depletion summary, got %+v", depletion)
				}
			} else if depletion == nil {
				t.Error("expected a depletion summary")
			} else if *depletion != *tt.expectedDepletion {
				t.Errorf("depletion = %+v, expected %+v", depletion, tt.expectedDepletion)
			}

			fill := lookup.FillFor("100", time.Monday)
			if tt.expectedFill == nil {
				if fill != nil {
					t.Errorf("expected no fill summary, got %+v", fill)
				}
			} else if fill == nil {
				t.Error("expected a fill summary")
			} else if *fill != *tt.expectedFill {
				t.Errorf("fill = %+v, expected %+v", fill, tt.expectedFill)
			}
		})
	}
}

func Test_flowAccumulator_discards(t *testing.T) {
	accumulator := makeFlowAccumulator(false)
	start := time.Date(2018, 1, 8, 8, 15, 0, 0, time.UTC)
	accumulator.addTrip(tripAt("100", "200", start, 20))
	accumulator.addTrip(tripAt("", "200", start, 20))
	accumulator.addTrip(&trips.TripRecord{OriginStationId: "100", DestinationStationId: "200"})

	if accumulator.tripCount != 1 {
		t.Errorf("tripCount = %d, expected 1", accumulator.tripCount)
	}
	if accumulator.discardedCount != 2 {
		t.Errorf("discardedCount = %d, expected 2", accumulator.discardedCount)
	}
}

func Test_flowAccumulator_holidayBucketing(t *testing.T) {
	// Independence Day 2018 fell on a Wednesday
	holiday := time.Date(2018, 7, 4, 8, 15, 0, 0, time.UTC)

	bucketed := makeFlowAccumulator(true)
	bucketed.addTrip(tripAt("100", "200", holiday, 20))
	if count := bucketed.departures[flowSlot{"100", int(time.Sunday), 8}]; count != 1 {
		t.Errorf("holiday trip should bucket under Sunday, got %d", count)
	}

	plain := makeFlowAccumulator(false)
	plain.addTrip(tripAt("100", "200", holiday, 20))
	if count := plain.departures[flowSlot{"100", int(time.Wednesday), 8}]; count != 1 {
		t.Errorf("without bucketing the trip should stay on Wednesday, got %d", count)
	}
}
