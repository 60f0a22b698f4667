// Package trips provides historical bike share trip record CRUD functionality
package trips

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// TripRecord is a single historical bike share trip between two stations.
// Records are read only after ingestion, the profile builder only ever
// aggregates over them.
type TripRecord struct {
	TripRecordId         int64     `db:"trip_record_id"`
	OriginStationId      string    `db:"origin_station_id"`
	DestinationStationId string    `db:"destination_station_id"`
	StartTime            time.Time `db:"start_time"`
	EndTime              time.Time `db:"end_time"`
	CreatedAt            time.Time `db:"created_at"`
}

func (t *TripRecord) String() string {
	return fmt.Sprintf("TripRecord origin:%s destination:%s start:%s",
		t.OriginStationId, t.DestinationStationId, t.StartTime.Format("2006-01-02T15:04:05"))
}

// RecordTripRecords saves a batch of TripRecords inside tx
func RecordTripRecords(tx *sqlx.Tx, records []*TripRecord) error {
	if len(records) == 0 {
		return nil
	}
	now := time.Now()
	for _, record := range records {
		record.CreatedAt = now
	}
	statementString := "insert into trip_record ( " +
		"origin_station_id, " +
		"destination_station_id, " +
		"start_time, " +
		"end_time, " +
		"created_at) " +
		"values (" +
		":origin_station_id, " +
		":destination_station_id, " +
		":start_time, " +
		":end_time, " +
		":created_at)"
	statementString = tx.Rebind(statementString)
	_, err := tx.NamedExec(statementString, records)
	return err
}

// ForEachTripRecord streams every TripRecord ordered by start_time through callback,
// avoiding loading a multi month trip history into memory at once
func ForEachTripRecord(db *sqlx.DB, callback func(record *TripRecord)) error {
	rows, err := db.Queryx("select * from trip_record order by start_time")
	if err != nil {
		return err
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		record := TripRecord{}
		err = rows.StructScan(&record)
		if err != nil {
			return err
		}
		callback(&record)
	}
	return rows.Err()
}

// GetTripRecordCount retrieves the number of TripRecords currently loaded
func GetTripRecordCount(db *sqlx.DB) (int64, error) {
	var count int64
	err := db.Get(&count, "select count(*) from trip_record")
	return count, err
}
