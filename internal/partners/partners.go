// Package partners loads partner source definitions from a YAML file.
//
// The file maps partner names to their source settings:
//
//	partners:
//	  acme:
//	    file_path: data/acme.csv
//	    delimiter: ","
//	    partner_code: ACME
//	    column_mapping:
//	      MemberID: external_id
//	      First: first_name
//	  globex:
//	    file_path: data/globex.txt
//	    delimiter: "|"
//	    partner_code: GLBX
//	    encoding: windows-1252
//	    null_values: ["NULL", "N/A"]
//	    column_mapping:
//	      id: external_id
//
// Partners are returned in declaration order, which is the order of the
// unified output.
package partners

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"

	"github.com/JonMunkholm/eligibility/internal/core"
)

// entry is one partner as written in the file.
type entry struct {
	FilePath      string            `yaml:"file_path"`
	Delimiter     string            `yaml:"delimiter"`
	ColumnMapping map[string]string `yaml:"column_mapping"`
	PartnerCode   string            `yaml:"partner_code"`
	Encoding      string            `yaml:"encoding"`
	NullValues    []string          `yaml:"null_values"`
}

// Load reads and validates the partner file at path. Relative file_path
// values are resolved against the file's directory.
func Load(path string) ([]core.PartnerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("partner config: read %s: %w", path, err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes and validates partner definitions. baseDir anchors
// relative file paths; pass "" to leave them as written.
func Parse(data []byte, baseDir string) ([]core.PartnerConfig, error) {
	var doc struct {
		Partners yaml.MapSlice `yaml:"partners"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("partner config: %w", err)
	}

	if len(doc.Partners) == 0 {
		return nil, fmt.Errorf("partner config: no partners declared")
	}

	var (
		out  = make([]core.PartnerConfig, 0, len(doc.Partners))
		errs []string
	)
	for _, item := range doc.Partners {
		name, ok := item.Key.(string)
		if !ok {
			errs = append(errs, fmt.Sprintf("%v: partner names must be strings", item.Key))
			continue
		}
		e, err := decodeEntry(item.Value)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: definition must be a mapping", name))
			continue
		}

		cfg, problems := build(name, e, baseDir)
		errs = append(errs, problems...)
		out = append(out, cfg)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("partner config: validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return out, nil
}

// decodeEntry re-decodes one partner's value into its typed form.
func decodeEntry(v any) (entry, error) {
	var e entry
	raw, err := yaml.Marshal(v)
	if err != nil {
		return e, err
	}
	err = yaml.Unmarshal(raw, &e)
	return e, err
}

// build converts one entry, returning every problem found.
func build(name string, e entry, baseDir string) (core.PartnerConfig, []string) {
	var errs []string

	cfg := core.PartnerConfig{
		Name:        name,
		FilePath:    strings.TrimSpace(e.FilePath),
		PartnerCode: strings.TrimSpace(e.PartnerCode),
		Encoding:    strings.TrimSpace(e.Encoding),
		NullValues:  e.NullValues,
	}

	if cfg.FilePath == "" {
		errs = append(errs, fmt.Sprintf("%s: file_path is required", name))
	} else if baseDir != "" && !filepath.IsAbs(cfg.FilePath) {
		cfg.FilePath = filepath.Join(baseDir, cfg.FilePath)
	}

	if cfg.PartnerCode == "" {
		errs = append(errs, fmt.Sprintf("%s: partner_code is required", name))
	}

	delim, err := ParseDelimiter(e.Delimiter)
	if err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
	}
	cfg.Delimiter = delim

	if _, err := core.LookupEncoding(cfg.Encoding); err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", name, err))
	}

	mapping, problems := buildMapping(e.ColumnMapping)
	for _, p := range problems {
		errs = append(errs, fmt.Sprintf("%s: %s", name, p))
	}
	cfg.Mapping = mapping

	return cfg, errs
}

// buildMapping validates targets against the canonical schema.
// Sources are sorted so the result does not depend on map iteration.
func buildMapping(raw map[string]string) (core.ColumnMapping, []string) {
	sources := make([]string, 0, len(raw))
	for src := range raw {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var (
		mapping = make(core.ColumnMapping, 0, len(raw))
		errs    []string
	)
	for _, src := range sources {
		target := strings.TrimSpace(raw[src])
		f, ok := core.ParseField(target)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("column_mapping %q -> %q: unknown canonical column (want one of %s)",
				src, target, strings.Join(core.CanonicalColumns(), ", ")))
		case f == core.FieldPartnerCode:
			errs = append(errs, fmt.Sprintf("column_mapping %q -> partner_code: partner_code is set from the configuration", src))
		default:
			mapping = append(mapping, core.ColumnRename{Source: strings.TrimSpace(src), Target: f})
		}
	}

	return mapping, errs
}

// ParseDelimiter accepts a single character, a literal `\t` or "tab".
// An empty value means comma.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case `\t`, "tab":
		return '\t', nil
	}

	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if !core.ValidDelimiter(r) {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}
