package predict

import "time"

// Config carries all tunable thresholds for classification, warnings and
// trip fusion. Use DefaultConfig for the standard values, callers may
// override individual fields before handing the config to the engine.
type Config struct {
	// PredictionSetSize is how many nearest stations feed the classifier
	// and warning scans. It is always a prefix of the display set.
	PredictionSetSize int
	// DisplaySetSize is how many nearest stations appear in reports.
	DisplaySetSize int

	// availability classifier thresholds, percentages of capacity
	HighPctThreshold   float64
	MediumPctThreshold float64
	LowTrendPct        float64
	HighNetFlowFloor   float64

	// AbsoluteFloor raises a LOW rating to MEDIUM when at least this many
	// bikes or docks are physically present regardless of percentage.
	AbsoluteFloor int

	// depletion and fill warning parameters
	SeverityThreshold    float64
	WarningHorizonHours  int
	FillAggregateNetFlow float64
	FillStationNetFlow   float64

	// trip confidence fusion weights and cutoffs
	BikeWeight           float64
	DockWeight           float64
	HighScoreThreshold   float64
	MediumScoreThreshold float64

	// LeaveByBuffer is subtracted from the projected depletion time, the
	// deadline only surfaces when it lands inside LeaveByWindow.
	LeaveByBuffer time.Duration
	LeaveByWindow time.Duration
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{
		PredictionSetSize:    2,
		DisplaySetSize:       5,
		HighPctThreshold:     40,
		MediumPctThreshold:   25,
		LowTrendPct:          15,
		HighNetFlowFloor:     -2,
		AbsoluteFloor:        5,
		SeverityThreshold:    15,
		WarningHorizonHours:  4,
		FillAggregateNetFlow: 5,
		FillStationNetFlow:   8,
		BikeWeight:           0.6,
		DockWeight:           0.4,
		HighScoreThreshold:   2.5,
		MediumScoreThreshold: 1.8,
		LeaveByBuffer:        30 * time.Minute,
		LeaveByWindow:        time.Hour,
	}
}
