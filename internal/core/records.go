package core

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// EligibilityRecord is one normalized member eligibility entry.
type EligibilityRecord struct {
	ExternalID  string `json:"external_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Dob         string `json:"dob"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	PartnerCode string `json:"partner_code"`
}

// Materialize converts canonical rows keyed by column name into records.
// A row missing any canonical column is a schema mismatch.
func Materialize(rows []map[string]string) ([]EligibilityRecord, error) {
	records := make([]EligibilityRecord, 0, len(rows))

	for i, m := range rows {
		var row Row
		for f, name := range fieldNames {
			v, ok := m[name]
			if !ok {
				return nil, fmt.Errorf("%w: row %d missing column %q", ErrSchemaMismatch, i, name)
			}
			row[f] = v
		}
		records = append(records, RecordFromRow(row))
	}

	return records, nil
}

// RecordFromRow builds a record from a canonical row.
func RecordFromRow(r Row) EligibilityRecord {
	return EligibilityRecord{
		ExternalID:  r[FieldExternalID],
		FirstName:   r[FieldFirstName],
		LastName:    r[FieldLastName],
		Dob:         r[FieldDob],
		Email:       r[FieldEmail],
		Phone:       r[FieldPhone],
		PartnerCode: r[FieldPartnerCode],
	}
}

// Records materializes the unified rows in dataset order.
func (d *Dataset) Records() ([]EligibilityRecord, error) {
	if d == nil {
		return nil, nil
	}
	maps := make([]map[string]string, len(d.Rows))
	for i, r := range d.Rows {
		maps[i] = r.Map()
	}
	return Materialize(maps)
}

// ReadUnified parses a unified artifact written by WriteCSV back into
// records. Extra columns are ignored; a missing canonical column is a
// schema mismatch.
func ReadUnified(r io.Reader) ([]EligibilityRecord, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty artifact", ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
	}

	var rows []map[string]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSource, err)
		}
		m := make(map[string]string, len(header))
		for i, h := range header {
			m[h] = rec[i]
		}
		rows = append(rows, m)
	}

	if rows == nil {
		// Still validate the header of an artifact with no data rows.
		m := make(map[string]string, len(header))
		for _, h := range header {
			m[h] = ""
		}
		if _, err := Materialize([]map[string]string{m}); err != nil {
			return nil, err
		}
		return []EligibilityRecord{}, nil
	}

	return Materialize(rows)
}
