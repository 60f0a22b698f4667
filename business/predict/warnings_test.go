package predict

import (
	"testing"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/gbfs"
	"github.com/OpenBikeTools/bikecast/business/data/profiles"
)

func stationSet(ids ...string) []StationDistance {
	set := make([]StationDistance, 0, len(ids))
	for _, id := range ids {
		set = append(set, StationDistance{
			StationSnapshot: gbfs.StationSnapshot{
				StationId: id,
				Name:      "Station " + id,
			},
		})
	}
	return set
}

func Test_depletionWarning(t *testing.T) {
	cfg := DefaultConfig()
	monday7 := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		summaries  []*profiles.DepletionSummary
		expectedId string
		expectNone bool
	}{
		{
			name: "severe window inside horizon fires",
			summaries: []*profiles.DepletionSummary{
				{StationId: "100", DayOfWeek: int(time.Monday),
					Hour: 9, Severity: 20},
			},
			expectedId: "100",
		},
		{
			name: "severity at threshold is suppressed",
			summaries: []*profiles.DepletionSummary{
				{StationId: "100", DayOfWeek: int(time.Monday),
					Hour: 9, Severity: 15},
			},
			expectNone: true,
		},
		{
			name: "severe window beyond horizon is suppressed",
			summaries: []*profiles.DepletionSummary{
				{StationId: "100", DayOfWeek: int(time.Monday),
					Hour: 12, Severity: 16},
			},
			expectNone: true,
		},
		{
			name: "window already open is suppressed",
			summaries: []*profiles.DepletionSummary{
				{StationId: "100", DayOfWeek: int(time.Monday),
					Hour: 7, Severity: 30},
			},
			expectNone: true,
		},
		{
			name: "soonest window wins",
			summaries: []*profiles.DepletionSummary{
				{StationId: "100", DayOfWeek: int(time.Monday),
					Hour: 10, Severity: 40},
				{StationId: "200", DayOfWeek: int(time.Monday),
					Hour: 8, Severity: 16},
			},
			expectedId: "200",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := profiles.MakeLookup(profiles.Metadata{})
			for _, summary := range tt.summaries {
				lookup.AddDepletionSummary(summary)
			}
			warning := depletionWarning(cfg, lookup,
				stationSet("100", "200"), monday7)
			if tt.expectNone {
				if warning != nil {
					t.Errorf("expected no warning, got %+v", warning)
				}
				return
			}
			if warning == nil {
				t.Fatal("expected a warning")
			}
			if warning.Kind != Depletion || warning.StationId != tt.expectedId {
				t.Errorf("unexpected warning %+v", warning)
			}
		})
	}
}

func Test_depletionWarning_nilLookup(t *testing.T) {
	cfg := DefaultConfig()
	if warning := depletionWarning(cfg, nil, stationSet("100"),
		time.Now()); warning != nil {
		t.Errorf("nil lookup should produce no warning, got %+v", warning)
	}
}

func Test_fillWarning(t *testing.T) {
	cfg := DefaultConfig()
	monday7 := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	lookup := profiles.MakeLookup(profiles.Metadata{})
	lookup.AddProfile(&profiles.FlowProfile{
		StationId: "100", DayOfWeek: int(time.Monday), Hour: 9, NetFlow: 9,
	})
	lookup.AddFillSummary(&profiles.FillSummary{
		StationId: "100", DayOfWeek: int(time.Monday), Hour: 9, Magnitude: 12,
	})

	warning := fillWarning(cfg, lookup, stationSet("100"), monday7, 6)
	if warning == nil {
		t.Fatal("expected a fill warning")
	}
	if warning.Kind != Fill || warning.Hour != 9 || warning.Severity != 12 {
		t.Errorf("unexpected warning %+v", warning)
	}

	// the aggregate gate suppresses the warning even with a strong profile
	if warning := fillWarning(cfg, lookup, stationSet("100"),
		monday7, 5); warning != nil {
		t.Errorf("aggregate at the gate should suppress, got %+v", warning)
	}
}

func Test_fillWarning_weakStationProfile(t *testing.T) {
	cfg := DefaultConfig()
	monday7 := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

	lookup := profiles.MakeLookup(profiles.Metadata{})
	lookup.AddProfile(&profiles.FlowProfile{
		StationId: "100", DayOfWeek: int(time.Monday), Hour: 9, NetFlow: 8,
	})
	if warning := fillWarning(cfg, lookup, stationSet("100"),
		monday7, 10); warning != nil {
		t.Errorf("net flow at the station gate should suppress, got %+v", warning)
	}
}

func Test_hourOffset(t *testing.T) {
	tests := []struct {
		now      int
		target   int
		expected int
	}{
		{7, 9, 2},
		{7, 7, 0},
		{23, 2, 3},
		{2, 23, 21},
	}
	for _, tt := range tests {
		if got := hourOffset(tt.now, tt.target); got != tt.expected {
			t.Errorf("hourOffset(%d, %d) = %d, expected %d",
				tt.now, tt.target, got, tt.expected)
		}
	}
}
