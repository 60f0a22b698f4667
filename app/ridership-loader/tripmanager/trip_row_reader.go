package tripmanager

import (
	"github.com/OpenBikeTools/bikecast/business/data/trips"
	"github.com/jmoiron/sqlx"
)

const batchedTripRecordCount = 250

// tripRowReader builds trips.TripRecords from parsed csv rows and batches
// inserts. Malformed rows are counted and discarded rather than failing the
// whole file.
type tripRowReader struct {
	batchedRecords []*trips.TripRecord
	loaded         int
	discarded      int
}

func (r *tripRowReader) addRow(parser *tripFileParser, tx *sqlx.Tx) error {
	record, err := buildTripRecord(parser)
	if err != nil {
		parser.clearErrors()
		r.discarded++
		return nil
	}

	r.batchedRecords = append(r.batchedRecords, record)
	r.loaded++

	//check if its time to save the batch
	if len(r.batchedRecords) == batchedTripRecordCount {
		return r.flush(tx)
	}
	return nil
}

func (r *tripRowReader) flush(tx *sqlx.Tx) error {
	//check if there's something to do
	if len(r.batchedRecords) == 0 {
		return nil
	}

	err := trips.RecordTripRecords(tx, r.batchedRecords)
	if err != nil {
		return err
	}
	//truncate batch
	r.batchedRecords = make([]*trips.TripRecord, 0)
	return nil
}

func buildTripRecord(parser *tripFileParser) (*trips.TripRecord, error) {
	record := trips.TripRecord{
		OriginStationId:      parser.getString("Start Station Id"),
		DestinationStationId: parser.getString("End Station Id"),
		StartTime:            parser.getTripTime("Start Time"),
		EndTime:              parser.getTripTime("End Time"),
	}
	if err := parser.getError(); err != nil {
		return nil, err
	}
	if record.EndTime.Before(record.StartTime) {
		parser.addRowError("trip ends before it starts")
		return nil, parser.getError()
	}
	return &record, nil
}
