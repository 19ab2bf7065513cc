package partners

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/eligibility/internal/core"
)

const sampleConfig = `
partners:
  zeta:
    file_path: data/zeta.csv
    delimiter: ","
    partner_code: ZETA
    column_mapping:
      MemberID: external_id
      First: first_name
      Last: last_name
  alpha:
    file_path: /abs/alpha.txt
    delimiter: "|"
    partner_code: ALPH
    encoding: windows-1252
    null_values: ["NULL", "N/A"]
    column_mapping:
      id: external_id
  tabbed:
    file_path: tabbed.tsv
    delimiter: '\t'
    partner_code: TAB
    column_mapping:
      id: external_id
`

func TestParse_PreservesDeclarationOrder(t *testing.T) {
	got, err := Parse([]byte(sampleConfig), "/etc/elig")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	names := make([]string, len(got))
	for i, p := range got {
		names[i] = p.Name
	}
	want := []string{"zeta", "alpha", "tabbed"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("partner order = %v, want %v", names, want)
	}
}

func TestParse_Fields(t *testing.T) {
	got, err := Parse([]byte(sampleConfig), "/etc/elig")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	zeta := got[0]
	if zeta.FilePath != filepath.Join("/etc/elig", "data/zeta.csv") {
		t.Errorf("zeta.FilePath = %q, want resolved against base dir", zeta.FilePath)
	}
	if zeta.Delimiter != ',' {
		t.Errorf("zeta.Delimiter = %q, want ','", zeta.Delimiter)
	}
	if zeta.PartnerCode != "ZETA" {
		t.Errorf("zeta.PartnerCode = %q, want %q", zeta.PartnerCode, "ZETA")
	}
	if f, ok := zeta.Mapping.Lookup("MemberID"); !ok || f != core.FieldExternalID {
		t.Errorf("zeta mapping MemberID = %v, %v; want external_id", f, ok)
	}
	if f, ok := zeta.Mapping.Lookup("Last"); !ok || f != core.FieldLastName {
		t.Errorf("zeta mapping Last = %v, %v; want last_name", f, ok)
	}

	alpha := got[1]
	if alpha.FilePath != "/abs/alpha.txt" {
		t.Errorf("alpha.FilePath = %q, absolute paths must be kept", alpha.FilePath)
	}
	if alpha.Delimiter != '|' {
		t.Errorf("alpha.Delimiter = %q, want '|'", alpha.Delimiter)
	}
	if alpha.Encoding != "windows-1252" {
		t.Errorf("alpha.Encoding = %q", alpha.Encoding)
	}
	if len(alpha.NullValues) != 2 || alpha.NullValues[0] != "NULL" {
		t.Errorf("alpha.NullValues = %v", alpha.NullValues)
	}

	if got[2].Delimiter != '\t' {
		t.Errorf("tabbed.Delimiter = %q, want tab", got[2].Delimiter)
	}
}

func TestParse_ValidationCollectsErrors(t *testing.T) {
	data := `
partners:
  broken:
    delimiter: ";;"
    encoding: klingon
    column_mapping:
      id: member_number
      code: partner_code
`
	_, err := Parse([]byte(data), "")
	if err == nil {
		t.Fatal("Parse() expected validation error")
	}

	msg := err.Error()
	for _, want := range []string{
		"partner config",
		"file_path is required",
		"partner_code is required",
		`delimiter ";;"`,
		"klingon",
		"member_number",
		"partner_code is set from the configuration",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should mention %q:\n%s", want, msg)
		}
	}
}

func TestParse_PartnerShape(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"numeric name", "partners:\n  123:\n    file_path: a.csv\n    partner_code: N\n", "123: partner names must be strings"},
		{"scalar definition", "partners:\n  acme: 5\n", "acme: definition must be a mapping"},
		{"list definition", "partners:\n  acme: [a, b]\n", "acme: definition must be a mapping"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestParse_NoPartners(t *testing.T) {
	for _, data := range []string{"", "partners: {}\n", "other: 1\n"} {
		if _, err := Parse([]byte(data), ""); err == nil {
			t.Errorf("Parse(%q) expected error", data)
		}
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("partners: [unclosed"), ""); err == nil {
		t.Error("Parse() expected YAML error")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got[2].FilePath != filepath.Join(dir, "tabbed.tsv") {
		t.Errorf("FilePath = %q, want resolved against %s", got[2].FilePath, dir)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error")
	}
	if got := core.MapError(err).Code; got != "CFG002" {
		t.Errorf("MapError code = %q, want CFG002", got)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{"|", '|', false},
		{";", ';', false},
		{"\t", '\t', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"§", '§', false},
		{"||", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
