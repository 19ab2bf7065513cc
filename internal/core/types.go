package core

import (
	"fmt"
	"strings"
	"time"
)

// Field identifies a column of the canonical eligibility schema.
type Field int

const (
	FieldExternalID Field = iota
	FieldFirstName
	FieldLastName
	FieldDob
	FieldEmail
	FieldPhone
	FieldPartnerCode

	// FieldCount is the number of canonical columns.
	FieldCount = int(FieldPartnerCode) + 1
)

var fieldNames = [FieldCount]string{
	"external_id",
	"first_name",
	"last_name",
	"dob",
	"email",
	"phone",
	"partner_code",
}

// String returns the canonical column name.
func (f Field) String() string {
	if f < 0 || int(f) >= FieldCount {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// ParseField resolves a canonical column name. Matching is exact.
func ParseField(name string) (Field, bool) {
	for i, n := range fieldNames {
		if n == name {
			return Field(i), true
		}
	}
	return 0, false
}

// CanonicalColumns returns the canonical header in output order.
func CanonicalColumns() []string {
	cols := make([]string, FieldCount)
	copy(cols, fieldNames[:])
	return cols
}

// Row is one normalized record in canonical column order.
type Row [FieldCount]string

// Get returns the value of a canonical field.
func (r Row) Get(f Field) string { return r[f] }

// Values returns the row as a slice in canonical order.
func (r Row) Values() []string {
	out := make([]string, FieldCount)
	copy(out, r[:])
	return out
}

// Map returns the row keyed by canonical column name.
func (r Row) Map() map[string]string {
	m := make(map[string]string, FieldCount)
	for i, v := range r {
		m[fieldNames[i]] = v
	}
	return m
}

// FieldSpec binds a canonical field to the normalizer applied during ingest.
type FieldSpec struct {
	Field      Field
	Normalizer func(string) string // nil: value is written by the pipeline itself
}

// FieldSpecs lists every canonical field in output order.
// external_id is trimmed before the drop check; partner_code is injected.
var FieldSpecs = []FieldSpec{
	{Field: FieldExternalID, Normalizer: strings.TrimSpace},
	{Field: FieldFirstName, Normalizer: NormalizeName},
	{Field: FieldLastName, Normalizer: NormalizeName},
	{Field: FieldDob, Normalizer: NormalizeDob},
	{Field: FieldEmail, Normalizer: NormalizeEmail},
	{Field: FieldPhone, Normalizer: NormalizePhone},
	{Field: FieldPartnerCode},
}

// ColumnRename renames one source header to a canonical field.
type ColumnRename struct {
	Source string
	Target Field
}

// ColumnMapping is a partner's declarative rename table.
type ColumnMapping []ColumnRename

// Lookup returns the canonical target for a source header.
func (m ColumnMapping) Lookup(source string) (Field, bool) {
	for _, rn := range m {
		if rn.Source == source {
			return rn.Target, true
		}
	}
	return 0, false
}

// PartnerConfig is the fully resolved configuration of one partner source.
type PartnerConfig struct {
	Name        string        // Key under which the partner was declared
	FilePath    string        // Source file location
	Delimiter   rune          // Field delimiter
	Mapping     ColumnMapping // Source header -> canonical field
	PartnerCode string        // Written to every row of this partner
	Encoding    string        // Optional charset label (e.g. "windows-1252"); empty means UTF-8
	NullValues  []string      // Optional cell values read as missing (e.g. "NULL", "N/A")
}

// PartnerStats summarizes one partner's ingest.
type PartnerStats struct {
	Partner     string        `json:"partner"`
	PartnerCode string        `json:"partner_code"`
	Read        int           `json:"read"`
	Dropped     int           `json:"dropped"`
	Emitted     int           `json:"emitted"`
	Duration    time.Duration `json:"-"`
}

// PartnerResult holds the canonical rows produced for a single partner.
type PartnerResult struct {
	Stats PartnerStats
	Rows  []Row
}

// Dataset is the unified output of one run.
type Dataset struct {
	RunID    string
	Rows     []Row
	Partners []PartnerStats
}

// Len returns the number of unified rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
