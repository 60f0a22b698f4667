// Package geocode resolves user entered addresses to coordinates using the
// OpenStreetMap Nominatim search api
package geocode

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/OpenBikeTools/bikecast/foundation/httpclient"
)

// Config holds the Nominatim endpoint and the bounding box results are
// restricted to. Nominatim requires an identifying user agent.
type Config struct {
	URL       string
	UserAgent string
	// ViewBox is "lonMin,latMin,lonMax,latMax", results outside it are rejected
	ViewBox string
}

//nominatimResult contains fields read from a Nominatim search response
type nominatimResult struct {
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	DisplayName string           `json:"display_name"`
	Address     nominatimAddress `json:"address"`
}

//nominatimAddress is the structured address block of a Nominatim result
type nominatimAddress struct {
	Building    string `json:"building"`
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	Postcode    string `json:"postcode"`
}

// Result is a resolved address
type Result struct {
	Lat     float64
	Lon     float64
	Address string
}

// Search resolves query to a single best Result.
// Returns nil without error when the address is unknown.
func Search(cfg Config, query string) (*Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")
	if len(cfg.ViewBox) > 0 {
		params.Set("viewbox", cfg.ViewBox)
		params.Set("bounded", "1")
	}

	var results []nominatimResult
	err := httpclient.GetJSON(cfg.URL+"?"+params.Encode(), cfg.UserAgent, &results)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse latitude in geocode result for %q: %w", query, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("unable to parse longitude in geocode result for %q: %w", query, err)
	}
	return &Result{
		Lat:     lat,
		Lon:     lon,
		Address: formatAddress(&results[0]),
	}, nil
}

//formatAddress produces a short human readable address from a Nominatim
//result, preferring building, house number and road over the verbose
//display name
func formatAddress(result *nominatimResult) string {
	address := result.Address
	var parts []string

	if len(address.Building) > 0 {
		parts = append(parts, address.Building)
	}
	if len(address.HouseNumber) > 0 && len(address.Road) > 0 {
		parts = append(parts, address.HouseNumber+" "+address.Road)
	} else if len(address.Road) > 0 {
		parts = append(parts, address.Road)
	} else if len(result.DisplayName) > 0 {
		displayParts := strings.SplitN(result.DisplayName, ", ", 3)
		if len(displayParts) > 2 {
			displayParts = displayParts[:2]
		}
		return strings.Join(displayParts, ", ")
	}
	if len(address.Postcode) > 0 {
		parts = append(parts, address.Postcode)
	}
	if len(parts) == 0 {
		return result.DisplayName
	}
	return strings.Join(parts, ", ")
}
