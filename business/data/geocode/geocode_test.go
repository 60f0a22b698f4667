package geocode

import (
	"testing"
)

func Test_formatAddress(t *testing.T) {
	tests := []struct {
		name   string
		result nominatimResult
		want   string
	}{
		{
			name: "house number and road",
			result: nominatimResult{
				Address: nominatimAddress{
					HouseNumber: "215",
					Road:        "Fort York Boulevard",
					Postcode:    "M5V 4A2",
				},
			},
			want: "215 Fort York Boulevard, M5V 4A2",
		},
		{
			name: "building takes the lead",
			result: nominatimResult{
				Address: nominatimAddress{
					Building:    "RBC Centre",
					HouseNumber: "155",
					Road:        "Wellington Street West",
				},
			},
			want: "RBC Centre, 155 Wellington Street West",
		},
		{
			name: "road only",
			result: nominatimResult{
				Address: nominatimAddress{
					Road: "Queens Quay West",
				},
			},
			want: "Queens Quay West",
		},
		{
			name: "falls back to the first display name segments",
			result: nominatimResult{
				DisplayName: "Harbourfront Centre, 235, Queens Quay West, Toronto, Ontario",
			},
			want: "Harbourfront Centre, 235",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAddress(&tt.result); got != tt.want {
				t.Errorf("formatAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}
