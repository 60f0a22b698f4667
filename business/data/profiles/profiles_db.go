package profiles

import (
	"github.com/jmoiron/sqlx"
)

const insertBatchSize = 250

// RecordLookup replaces the stored profile tables with the contents of lookup
// inside a single transaction, so concurrent readers never observe a half
// written rebuild.
func RecordLookup(db *sqlx.DB, lookup *Lookup) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	err = recordLookupInTx(tx, lookup)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func recordLookupInTx(tx *sqlx.Tx, lookup *Lookup) error {
	for _, table := range []string{"flow_profile", "depletion_summary", "fill_summary", "profile_build"} {
		_, err := tx.Exec("delete from " + table)
		if err != nil {
			return err
		}
	}

	statementString := tx.Rebind("insert into profile_build " +
		"(generated_at, week_count, trip_count, discarded_count, data_source) " +
		"values (:generated_at, :week_count, :trip_count, :discarded_count, :data_source)")
	_, err := tx.NamedExec(statementString, &lookup.Metadata)
	if err != nil {
		return err
	}

	err = insertProfileBatches(tx, lookup.sortedProfiles())
	if err != nil {
		return err
	}

	statementString = tx.Rebind("insert into depletion_summary " +
		"(station_id, day_of_week, hour, severity) " +
		"values (:station_id, :day_of_week, :hour, :severity)")
	for _, summary := range lookup.sortedDepletions() {
		_, err = tx.NamedExec(statementString, summary)
		if err != nil {
			return err
		}
	}

	statementString = tx.Rebind("insert into fill_summary " +
		"(station_id, day_of_week, hour, magnitude) " +
		"values (:station_id, :day_of_week, :hour, :magnitude)")
	for _, summary := range lookup.sortedFills() {
		_, err = tx.NamedExec(statementString, summary)
		if err != nil {
			return err
		}
	}
	return nil
}

// insertProfileBatches inserts flow profiles in batches, a full rebuild can
// carry tens of thousands of slots
func insertProfileBatches(tx *sqlx.Tx, allProfiles []*FlowProfile) error {
	statementString := tx.Rebind("insert into flow_profile " +
		"(station_id, " +
		"day_of_week, " +
		"hour, " +
		"arrivals_per_week, " +
		"departures_per_week, " +
		"net_flow) " +
		"values " +
		"(:station_id, " +
		":day_of_week, " +
		":hour, " +
		":arrivals_per_week, " +
		":departures_per_week, " +
		":net_flow)")
	for start := 0; start < len(allProfiles); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(allProfiles) {
			end = len(allProfiles)
		}
		_, err := tx.NamedExec(statementString, allProfiles[start:end])
		if err != nil {
			return err
		}
	}
	return nil
}

// GetLookup loads the stored profile tables into a Lookup
func GetLookup(db *sqlx.DB) (*Lookup, error) {
	metadata := Metadata{}
	err := db.Get(&metadata, "select * from profile_build order by generated_at desc limit 1")
	if err != nil {
		return nil, err
	}
	lookup := MakeLookup(metadata)

	rows, err := db.Queryx("select * from flow_profile")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		profile := FlowProfile{}
		err = rows.StructScan(&profile)
		if err != nil {
			return nil, err
		}
		lookup.AddProfile(&profile)
	}

	rows, err = db.Queryx("select * from depletion_summary")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		summary := DepletionSummary{}
		err = rows.StructScan(&summary)
		if err != nil {
			return nil, err
		}
		lookup.AddDepletionSummary(&summary)
	}

	rows, err = db.Queryx("select * from fill_summary")
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		summary := FillSummary{}
		err = rows.StructScan(&summary)
		if err != nil {
			return nil, err
		}
		lookup.AddFillSummary(&summary)
	}
	return lookup, nil
}
