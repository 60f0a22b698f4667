package tripmanager

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/OpenBikeTools/bikecast/business/data/trips"
)

const tripHeader = "Trip Id,Trip  Duration,Start Station Id,Start Time,Start Station Name," +
	"End Station Id,End Time,End Station Name,Bike Id,User Type\n"

func Test_buildTripRecord(t *testing.T) {

	tests := []struct {
		name       string
		csvContent string
		want       *trips.TripRecord
		wantErr    bool
	}{
		{
			name: "trip record parsed",
			csvContent: tripHeader +
				"712382,1384,7021,01/03/2018 08:15,Front St,7233,01/03/2018 08:38,Bay St,2247,Member",
			want: &trips.TripRecord{
				OriginStationId:      "7021",
				DestinationStationId: "7233",
				StartTime:            time.Date(2018, 1, 3, 8, 15, 0, 0, time.Local),
				EndTime:              time.Date(2018, 1, 3, 8, 38, 0, 0, time.Local),
			},
			wantErr: false,
		},
		{
			name: "iso timestamps parsed",
			csvContent: tripHeader +
				"712383,900,7021,2018-01-03 17:05:30,Front St,7233,2018-01-03 17:20:30,Bay St,2247,Member",
			want: &trips.TripRecord{
				OriginStationId:      "7021",
				DestinationStationId: "7233",
				StartTime:            time.Date(2018, 1, 3, 17, 5, 30, 0, time.Local),
				EndTime:              time.Date(2018, 1, 3, 17, 20, 30, 0, time.Local),
			},
			wantErr: false,
		},
		{
			name: "error on missing station id",
			csvContent: tripHeader +
				"712384,1384,,01/03/2018 08:15,Front St,7233,01/03/2018 08:38,Bay St,2247,Member",
			wantErr: true,
		},
		{
			name: "error on unparsable timestamp",
			csvContent: tripHeader +
				"712385,1384,7021,not a time,Front St,7233,01/03/2018 08:38,Bay St,2247,Member",
			wantErr: true,
		},
		{
			name: "error on trip ending before it starts",
			csvContent: tripHeader +
				"712386,1384,7021,01/03/2018 08:38,Front St,7233,01/03/2018 08:15,Bay St,2247,Member",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser, err := makeTripFileParser(strings.NewReader(tt.csvContent), "test.csv")
			if err != nil {
				t.Errorf("Unable to make tripFileParser %s", err)
			}
			err = parser.nextLine()
			if err != nil {
				t.Errorf("Unable to move tripFileParser to first line %s", err)
			}
			got, err := buildTripRecord(parser)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%v: buildTripRecord() produced no error, but we want one", tt.name)
				}
				return
			} else if err != nil {
				t.Errorf("%v: buildTripRecord() error = %v, wantErr %v", tt.name, err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildTripRecord() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func Test_makeTripFileParser_stripsBOM(t *testing.T) {
	csvContent := "\ufeff" + tripHeader +
		"712382,1384,7021,01/03/2018 08:15,Front St,7233,01/03/2018 08:38,Bay St,2247,Member"

	parser, err := makeTripFileParser(strings.NewReader(csvContent), "test.csv")
	if err != nil {
		t.Fatalf("Unable to make tripFileParser %s", err)
	}
	if parser.headers[0] != "Trip Id" {
		t.Errorf("first header = %q, expected BOM stripped", parser.headers[0])
	}
	if err = parser.nextLine(); err != nil {
		t.Fatalf("Unable to move tripFileParser to first line %s", err)
	}
	if got := parser.getString("Trip Id"); got != "712382" {
		t.Errorf("getString(Trip Id) = %q, expected 712382", got)
	}
}

func Test_tripRowReader_discardsMalformedRows(t *testing.T) {
	csvContent := tripHeader +
		"1,100,7021,01/03/2018 08:15,Front St,7233,01/03/2018 08:38,Bay St,2247,Member\n" +
		"2,100,,01/03/2018 08:15,Front St,7233,01/03/2018 08:38,Bay St,2247,Member\n" +
		"3,100,7021,01/03/2018 09:15,Front St,7233,01/03/2018 09:38,Bay St,2247,Member"

	parser, err := makeTripFileParser(strings.NewReader(csvContent), "test.csv")
	if err != nil {
		t.Fatalf("Unable to make tripFileParser %s", err)
	}
	reader := tripRowReader{}
	for {
		if err = parser.nextLine(); err != nil {
			break
		}
		// nil tx is safe below the batch size, nothing flushes
		if err := reader.addRow(parser, nil); err != nil {
			t.Fatalf("addRow() error = %v", err)
		}
	}
	if reader.loaded != 2 {
		t.Errorf("loaded = %d, expected 2", reader.loaded)
	}
	if reader.discarded != 1 {
		t.Errorf("discarded = %d, expected 1", reader.discarded)
	}
	if len(reader.batchedRecords) != 2 {
		t.Errorf("batchedRecords = %d, expected 2", len(reader.batchedRecords))
	}
}
