package availability

import (
	"sync"
	"time"

	"github.com/OpenBikeTools/bikecast/business/predict"
)

// reportContainer holds the latest engine report behind a mutex so the
// refresh loop and web service can share it
type reportContainer struct {
	mu      sync.Mutex
	report  *predict.Report
	builtAt time.Time
}

// makeReportContainer builds an empty reportContainer
func makeReportContainer() *reportContainer {
	return &reportContainer{}
}

// setReport replaces the current report
func (c *reportContainer) setReport(report *predict.Report, builtAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	c.builtAt = builtAt
}

// currentReport retrieves the current report, nil until the first refresh
// completes
func (c *reportContainer) currentReport() (*predict.Report, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.report, c.builtAt
}
