package profiles

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func testLookup() *Lookup {
	lookup := MakeLookup(Metadata{
		GeneratedAt: time.Date(2018, 4, 1, 12, 0, 0, 0, time.UTC),
		WeekCount:   13,
		TripCount:   250000,
		DataSource:  "ridership",
	})
	lookup.AddProfile(&FlowProfile{
		StationId: "7021", DayOfWeek: 1, Hour: 8,
		ArrivalsPerWeek: 1.5, DeparturesPerWeek: 6.5, NetFlow: -5,
	})
	lookup.AddProfile(&FlowProfile{
		StationId: "7021", DayOfWeek: 1, Hour: 17,
		ArrivalsPerWeek: 7, DeparturesPerWeek: 2, NetFlow: 5,
	})
	lookup.AddDepletionSummary(&DepletionSummary{
		StationId: "7021", DayOfWeek: 1, Hour: 8, Severity: 5,
	})
	lookup.AddFillSummary(&FillSummary{
		StationId: "7021", DayOfWeek: 1, Hour: 17, Magnitude: 5,
	})
	return lookup
}

func Test_Lookup_retrieval(t *testing.T) {
	is := is.New(t)
	lookup := testLookup()

	netFlow, present := lookup.NetFlowAt("7021", time.Monday, 8)
	is.True(present)
	is.Equal(netFlow, -5.0)

	// an absent slot means no data, not zero flow
	_, present = lookup.NetFlowAt("7021", time.Monday, 9)
	is.True(!present)
	_, present = lookup.NetFlowAt("9999", time.Monday, 8)
	is.True(!present)

	depletion := lookup.DepletionFor("7021", time.Monday)
	is.True(depletion != nil)
	is.Equal(depletion.Hour, 8)
	is.True(lookup.DepletionFor("7021", time.Tuesday) == nil)

	fill := lookup.FillFor("7021", time.Monday)
	is.True(fill != nil)
	is.Equal(fill.Magnitude, 5.0)

	is.Equal(lookup.StationCount(), 1)
	is.Equal(lookup.ProfileCount(), 2)
}

func Test_Lookup_artifactRoundTrip(t *testing.T) {
	is := is.New(t)
	lookup := testLookup()
	path := filepath.Join(t.TempDir(), "lookup.json")

	is.NoErr(lookup.WriteFile(path))

	loaded, err := LoadLookupFile(path)
	is.NoErr(err)
	is.Equal(loaded.Metadata, lookup.Metadata)
	is.Equal(loaded.ProfileCount(), lookup.ProfileCount())

	netFlow, present := loaded.NetFlowAt("7021", time.Monday, 17)
	is.True(present)
	is.Equal(netFlow, 5.0)
	depletion := loaded.DepletionFor("7021", time.Monday)
	is.True(depletion != nil)
	is.Equal(depletion.Severity, 5.0)
}

func Test_LoadLookupFile_missing(t *testing.T) {
	is := is.New(t)
	_, err := LoadLookupFile(filepath.Join(t.TempDir(), "absent.json"))
	is.True(err != nil)
}
