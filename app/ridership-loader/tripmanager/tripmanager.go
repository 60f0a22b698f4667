// Package tripmanager loads historical bike share ridership csv exports
// into the trip_record table.
package tripmanager

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/OpenBikeTools/bikecast/business/data/trips"
	"github.com/jmoiron/sqlx"
)

// LoadTripFiles loads every csv file matching pattern into the database.
// Each file commits in its own transaction so a bad export late in the run
// does not roll back the files already loaded. Returns the total number of
// rows loaded and discarded.
func LoadTripFiles(log *log.Logger, db *sqlx.DB, pattern string) (int, int, error) {
	filenames, err := filepath.Glob(pattern)
	if err != nil {
		return 0, 0, fmt.Errorf("bad file pattern %s: %w", pattern, err)
	}
	if len(filenames) == 0 {
		return 0, 0, fmt.Errorf("no files match pattern %s", pattern)
	}

	totalLoaded := 0
	totalDiscarded := 0
	for _, filename := range filenames {
		loaded, discarded, err := loadTripFile(log, db, filename)
		if err != nil {
			return totalLoaded, totalDiscarded, fmt.Errorf("loading %s: %w", filename, err)
		}
		log.Printf("loaded %d trip records from %s, discarded %d malformed rows",
			loaded, filename, discarded)
		totalLoaded += loaded
		totalDiscarded += discarded
	}
	return totalLoaded, totalDiscarded, nil
}

// ListTripRecordCount logs how many trip records are currently loaded
func ListTripRecordCount(log *log.Logger, db *sqlx.DB) error {
	count, err := trips.GetTripRecordCount(db)
	if err != nil {
		return err
	}
	log.Printf("%d trip records loaded", count)
	return nil
}

func loadTripFile(log *log.Logger, db *sqlx.DB, filename string) (int, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = file.Close()
	}()

	reader := tripRowReader{}
	err = transact(log, db, func(tx *sqlx.Tx) error {
		parser, err := makeTripFileParser(file, filename)
		if err != nil {
			return err
		}
		for {
			err = parser.nextLine()
			if err == io.EOF {
				break
			}
			if err != nil {
				// a structurally broken line, skip it
				reader.discarded++
				continue
			}
			if err = reader.addRow(parser, tx); err != nil {
				return err
			}
		}
		return reader.flush(tx)
	})
	return reader.loaded, reader.discarded, err
}

/*
transact starts a Transaction on sqlx.DB, calls txFunc and commits or rolls back the transaction depending on the
return code of the txFunc result
*/
func transact(log *log.Logger, db *sqlx.DB, txFunc func(*sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback() // err is non-nil; don't change it
			if rollbackErr != nil {
				log.Printf("Received error while attempting to rollback transaction. error:%v", rollbackErr)
			}
			return
		}
		err = tx.Commit() // err is nil; if Commit returns error update err
	}()
	err = txFunc(tx)
	return err
}
