package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// lookupArtifact is the wire shape of a Lookup written to disk
type lookupArtifact struct {
	Metadata   Metadata            `json:"metadata"`
	Profiles   []*FlowProfile      `json:"profiles"`
	Depletions []*DepletionSummary `json:"depletion_summaries"`
	Fills      []*FillSummary      `json:"fill_summaries"`
}

// sortedProfiles returns lookup profiles ordered by station, day, hour so the
// artifact is deterministic between identical builds
func (l *Lookup) sortedProfiles() []*FlowProfile {
	results := make([]*FlowProfile, 0, len(l.profiles))
	for _, profile := range l.profiles {
		results = append(results, profile)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.StationId != b.StationId {
			return a.StationId < b.StationId
		}
		if a.DayOfWeek != b.DayOfWeek {
			return a.DayOfWeek < b.DayOfWeek
		}
		return a.Hour < b.Hour
	})
	return results
}

func (l *Lookup) sortedDepletions() []*DepletionSummary {
	results := make([]*DepletionSummary, 0, len(l.depletions))
	for _, summary := range l.depletions {
		results = append(results, summary)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.StationId != b.StationId {
			return a.StationId < b.StationId
		}
		return a.DayOfWeek < b.DayOfWeek
	})
	return results
}

func (l *Lookup) sortedFills() []*FillSummary {
	results := make([]*FillSummary, 0, len(l.fills))
	for _, summary := range l.fills {
		results = append(results, summary)
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.StationId != b.StationId {
			return a.StationId < b.StationId
		}
		return a.DayOfWeek < b.DayOfWeek
	})
	return results
}

// WriteFile writes the lookup as a json artifact at path
func (l *Lookup) WriteFile(path string) error {
	artifact := lookupArtifact{
		Metadata:   l.Metadata,
		Profiles:   l.sortedProfiles(),
		Depletions: l.sortedDepletions(),
		Fills:      l.sortedFills(),
	}
	jsonData, err := json.MarshalIndent(&artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal lookup artifact: %w", err)
	}
	return os.WriteFile(path, jsonData, 0644)
}

// LoadLookupFile reads a json lookup artifact from path
func LoadLookupFile(path string) (*Lookup, error) {
	jsonData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read lookup artifact at %s: %w", path, err)
	}
	artifact := lookupArtifact{}
	err = json.Unmarshal(jsonData, &artifact)
	if err != nil {
		return nil, fmt.Errorf("unable to parse lookup artifact at %s: %w", path, err)
	}
	lookup := MakeLookup(artifact.Metadata)
	for _, profile := range artifact.Profiles {
		lookup.AddProfile(profile)
	}
	for _, summary := range artifact.Depletions {
		lookup.AddDepletionSummary(summary)
	}
	for _, summary := range artifact.Fills {
		lookup.AddFillSummary(summary)
	}
	return lookup, nil
}
