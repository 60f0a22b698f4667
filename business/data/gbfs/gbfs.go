// Package gbfs reads live station data from a GBFS bike share feed
package gbfs

import (
	"fmt"
	"log"
	"time"

	"github.com/OpenBikeTools/bikecast/foundation/httpclient"
)

// statusInService is the GBFS station status accepted for classification,
// anything else is a station riders cannot use right now
const statusInService = "IN_SERVICE"

// StationSnapshot is the live state of one station at one moment, joined from
// the feed's station_information and station_status files. Snapshots are
// treated as immutable values, the engine never retains them across calls.
type StationSnapshot struct {
	StationId       string  `json:"station_id"`
	Name            string  `json:"name"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Capacity        int     `json:"capacity"`
	BikesAvailable  int     `json:"bikes_available"`
	EBikesAvailable int     `json:"ebikes_available"`
	DocksAvailable  int     `json:"docks_available"`
	IsCharging      bool    `json:"is_charging"`
}

func (s *StationSnapshot) String() string {
	return fmt.Sprintf("StationSnapshot id:%s name:%q bikes:%d ebikes:%d docks:%d capacity:%d",
		s.StationId, s.Name, s.BikesAvailable, s.EBikesAvailable, s.DocksAvailable, s.Capacity)
}

//stationInformation contains fields read from a GBFS station_information file
type stationInformation struct {
	StationId         string  `json:"station_id"`
	Name              string  `json:"name"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	Capacity          int     `json:"capacity"`
	IsChargingStation bool    `json:"is_charging_station"`
}

//stationStatus contains fields read from a GBFS station_status file
type stationStatus struct {
	StationId          string `json:"station_id"`
	Status             string `json:"status"`
	NumBikesAvailable  int    `json:"num_bikes_available"`
	NumEBikesAvailable int    `json:"num_ebikes_available"`
	NumDocksAvailable  int    `json:"num_docks_available"`
}

//informationResponse is the GBFS envelope around station_information
type informationResponse struct {
	LastUpdated int64 `json:"last_updated"`
	Data        struct {
		Stations []stationInformation `json:"stations"`
	} `json:"data"`
}

//statusResponse is the GBFS envelope around station_status
type statusResponse struct {
	LastUpdated int64 `json:"last_updated"`
	Data        struct {
		Stations []stationStatus `json:"stations"`
	} `json:"data"`
}

// Feed retrieves live station snapshots from a GBFS source
type Feed struct {
	log            *log.Logger
	informationURL string
	statusURL      string
	lastUpdated    time.Time
}

// MakeFeed Feed factory
func MakeFeed(log *log.Logger, informationURL string, statusURL string) *Feed {
	return &Feed{
		log:            log,
		informationURL: informationURL,
		statusURL:      statusURL,
	}
}

// LastUpdated returns the feed timestamp of the most recent successful retrieval
func (f *Feed) LastUpdated() time.Time {
	return f.lastUpdated
}

// GetStationSnapshots retrieves both GBFS files and joins them into snapshots
// of every in service station. Stations missing from either file are skipped.
func (f *Feed) GetStationSnapshots() ([]StationSnapshot, error) {
	information := informationResponse{}
	err := httpclient.GetJSON(f.informationURL, "", &information)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve station information: %w", err)
	}
	status := statusResponse{}
	err = httpclient.GetJSON(f.statusURL, "", &status)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve station status: %w", err)
	}
	f.lastUpdated = time.Unix(status.LastUpdated, 0)
	return joinStationFeeds(information.Data.Stations, status.Data.Stations), nil
}

//joinStationFeeds merges information and status rows by station id, keeping
//only stations present in both files and currently in service
func joinStationFeeds(information []stationInformation, status []stationStatus) []StationSnapshot {
	statusById := make(map[string]*stationStatus, len(status))
	for i := range status {
		statusById[status[i].StationId] = &status[i]
	}

	results := make([]StationSnapshot, 0, len(information))
	for _, info := range information {
		current, present := statusById[info.StationId]
		if !present {
			continue
		}
		if current.Status != statusInService {
			continue
		}
		results = append(results, StationSnapshot{
			StationId:       info.StationId,
			Name:            info.Name,
			Lat:             info.Lat,
			Lon:             info.Lon,
			Capacity:        info.Capacity,
			BikesAvailable:  current.NumBikesAvailable,
			EBikesAvailable: current.NumEBikesAvailable,
			DocksAvailable:  current.NumDocksAvailable,
			IsCharging:      info.IsChargingStation,
		})
	}
	return results
}
