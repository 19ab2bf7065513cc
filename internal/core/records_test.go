package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMaterialize(t *testing.T) {
	row := Row{"A1", "John", "Doe", "1980-03-15", "j@x.com", "555-123-4567", "ACME"}

	got, err := Materialize([]map[string]string{row.Map()})
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	want := EligibilityRecord{
		ExternalID: "A1", FirstName: "John", LastName: "Doe", Dob: "1980-03-15",
		Email: "j@x.com", Phone: "555-123-4567", PartnerCode: "ACME",
	}
	if len(got) != 1 || got[0] != want {
		t.Errorf("Materialize() = %+v, want %+v", got, want)
	}
}

func TestMaterialize_MissingColumn(t *testing.T) {
	m := Row{"A1"}.Map()
	delete(m, "email")

	_, err := Materialize([]map[string]string{Row{"A0"}.Map(), m})
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("error = %v, want ErrSchemaMismatch", err)
	}
	if !strings.Contains(err.Error(), "row 1") || !strings.Contains(err.Error(), `"email"`) {
		t.Errorf("error %q should name row and column", err)
	}
}

func TestMaterialize_EmptyStringsAreValid(t *testing.T) {
	got, err := Materialize([]map[string]string{Row{}.Map()})
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	if got[0] != (EligibilityRecord{}) {
		t.Errorf("record = %+v, want zero value", got[0])
	}
}

func TestDatasetRecords(t *testing.T) {
	ds := &Dataset{Rows: []Row{
		{"A1", "", "", "", "", "", "X"},
		{"B2", "", "", "", "", "", "Y"},
	}}

	got, err := ds.Records()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ExternalID != "A1" || got[1].PartnerCode != "Y" {
		t.Errorf("Records() = %+v", got)
	}

	var nilDS *Dataset
	if recs, err := nilDS.Records(); err != nil || recs != nil {
		t.Errorf("nil dataset Records() = %v, %v", recs, err)
	}
}

func TestReadUnified(t *testing.T) {
	ds := &Dataset{Rows: []Row{
		{"A1", "John", "Doe", "1980-03-15", "j@x.com", "555-123-4567", "ACME"},
		{"B1", "Ann, Jr", "", "", "", "", "BETT"},
	}}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, ds); err != nil {
		t.Fatal(err)
	}

	got, err := ReadUnified(&buf)
	if err != nil {
		t.Fatalf("ReadUnified() error = %v", err)
	}
	want, _ := ds.Records()
	if len(got) != len(want) {
		t.Fatalf("records = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadUnified_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"empty artifact", "", ErrSchemaMismatch},
		{"missing column with rows", "external_id,first_name\nA1,x\n", ErrSchemaMismatch},
		{"missing column header only", "external_id\n", ErrSchemaMismatch},
		{"ragged row", "external_id,first_name,last_name,dob,email,phone,partner_code\nA1\n", ErrMalformedSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadUnified(strings.NewReader(tt.input))
			if !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestReadUnified_HeaderOnlyAndExtraColumns(t *testing.T) {
	header := strings.Join(CanonicalColumns(), ",")

	got, err := ReadUnified(strings.NewReader(header + "\n"))
	if err != nil || len(got) != 0 {
		t.Errorf("header-only: %v, %v", got, err)
	}

	got, err = ReadUnified(strings.NewReader("note," + header + "\nhi,A1,,,,,,X\n"))
	if err != nil {
		t.Fatalf("extra column: %v", err)
	}
	if got[0].ExternalID != "A1" || got[0].PartnerCode != "X" {
		t.Errorf("extra column record = %+v", got[0])
	}
}
