package tripmanager

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"
)

// ridership exports use a couple of different timestamp conventions
// depending on the year of the export
var tripTimeFormats = []string{
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
}

// tripFileParser reads a ridership csv export line by line. Errors while
// extracting values are stored per row so a malformed row can be discarded
// without abandoning the rest of the file.
type tripFileParser struct {
	Filename       string
	line           int
	csvReader      *csv.Reader
	headers        []string
	currentRecords []string
	errors         []error
}

// makeTripFileParser creates a new tripFileParser from io.Reader
func makeTripFileParser(r io.Reader, filename string) (*tripFileParser, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("unable to load header in %s: %v", filename, err)
	}
	removeBOMIfPresent(headers)

	return &tripFileParser{
		Filename:       filename,
		line:           1,
		csvReader:      csvReader,
		headers:        headers,
		currentRecords: headers,
	}, nil
}

func removeBOMIfPresent(headers []string) {
	if len(headers) < 1 {
		return
	}
	firstHeader := headers[0]
	if len(firstHeader) < 1 {
		return
	}
	runes := []rune(firstHeader)
	if runes[0] == '\uFEFF' { //check for BOM
		headers[0] = string(runes[1:])
	}
}

// getString retrieves string
// returns empty string if missing
func (p *tripFileParser) getString(name string) string {
	result, err := findValue(name, p.currentRecords, p.headers)
	if err != nil {
		p.errors = append(p.errors, err)
		return ""
	}
	return result
}

// getTripTime retrieves a timestamp, trying each known export format
// returns zero time if missing or unparsable
func (p *tripFileParser) getTripTime(name string) time.Time {
	value, err := findValue(name, p.currentRecords, p.headers)
	if err != nil {
		p.errors = append(p.errors, err)
		return time.Time{}
	}
	for _, format := range tripTimeFormats {
		if result, err := time.ParseInLocation(format, value, time.Local); err == nil {
			return result
		}
	}
	p.errors = append(p.errors, fmt.Errorf("unable to parse timestamp %q in column %s", value, name))
	return time.Time{}
}

// getError retrieves the errors encountered on the current row, if any
func (p *tripFileParser) getError() error {
	if len(p.errors) > 0 {
		return fmt.Errorf("in file %v, line %v: %v", p.Filename, p.line, p.errors)
	}
	return nil
}

// clearErrors discards the current row's errors so the next row starts clean
func (p *tripFileParser) clearErrors() {
	p.errors = nil
}

// addRowError appends a validation error for the current row
func (p *tripFileParser) addRowError(message string) {
	p.errors = append(p.errors, errors.New(message))
}

// nextLine moves csvReader one line forward
func (p *tripFileParser) nextLine() error {
	var err error
	p.currentRecords, err = p.csvReader.Read()
	p.line += 1
	return err
}

// find index of element that matches name string. returns -1 if not found
func indexOf(name string, elements []string) int {
	for i, value := range elements {
		if name == value {
			return i
		}
	}
	return -1
}

// findValue retrieves string value from csv records
func findValue(name string, records []string, headers []string) (string, error) {
	index := indexOf(name, headers)
	if index < 0 {
		return "", fmt.Errorf("unable to find header: %s", name)
	}
	if len(records) <= index {
		return "", fmt.Errorf("records are too short to find header at %v named %s", index, name)
	}
	value := records[index]
	if len(value) == 0 {
		return "", fmt.Errorf("missing required value in column %v", name)
	}
	return value, nil
}
