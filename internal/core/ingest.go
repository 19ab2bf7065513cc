package core

import (
	"context"
	"strings"
	"time"

	"github.com/JonMunkholm/eligibility/internal/logging"
)

// Ingest loads one partner source and returns its rows in canonical form.
//
// Columns are renamed through the partner's mapping; a header that already
// carries a canonical name is used as-is. Canonical columns the source does
// not provide are empty. partner_code always comes from the configuration.
// Rows whose trimmed external_id is empty are dropped; every other cell goes
// through its field normalizer and never fails the row.
func (s *Service) Ingest(ctx context.Context, p PartnerConfig) (*PartnerResult, error) {
	start := time.Now()
	logger := logging.WithFields(ctx, "partner", p.Name, "path", p.FilePath)

	table, err := readSource(ctx, p, s.maxFileSize)
	if err != nil {
		return nil, err
	}

	cols := resolveColumns(table.header, p.Mapping)
	if cols[FieldExternalID] < 0 {
		logger.Warn("no external_id column resolved, all rows will be dropped",
			"header", table.header)
	}

	nulls := make(map[string]bool, len(p.NullValues))
	for _, v := range p.NullValues {
		nulls[v] = true
	}

	result := &PartnerResult{
		Stats: PartnerStats{
			Partner:     p.Name,
			PartnerCode: p.PartnerCode,
			Read:        len(table.records),
		},
		Rows: make([]Row, 0, len(table.records)),
	}

	for _, rec := range table.records {
		var row Row
		for f, pos := range cols {
			if pos < 0 || pos >= len(rec) {
				continue
			}
			if v := rec[pos]; !nulls[v] {
				row[f] = v
			}
		}
		row[FieldPartnerCode] = p.PartnerCode

		row[FieldExternalID] = strings.TrimSpace(row[FieldExternalID])
		if row[FieldExternalID] == "" {
			result.Stats.Dropped++
			continue
		}

		for _, spec := range FieldSpecs {
			if spec.Normalizer == nil || spec.Field == FieldExternalID {
				continue
			}
			row[spec.Field] = spec.Normalizer(row[spec.Field])
		}

		result.Rows = append(result.Rows, row)
	}

	result.Stats.Emitted = len(result.Rows)
	result.Stats.Duration = time.Since(start)
	s.recorder.ObservePartner(result.Stats)

	logger.Debug("partner ingested",
		"read", result.Stats.Read,
		"dropped", result.Stats.Dropped,
		"emitted", result.Stats.Emitted,
		"duration_ms", result.Stats.Duration.Milliseconds(),
	)

	return result, nil
}

// resolveColumns maps each canonical field to its source column index, or -1.
// Mapped headers take precedence over headers already named canonically;
// within each group the first header wins. partner_code is never read
// from the source.
func resolveColumns(header []string, mapping ColumnMapping) [FieldCount]int {
	var cols [FieldCount]int
	for i := range cols {
		cols[i] = -1
	}

	for i, h := range header {
		if f, ok := mapping.Lookup(h); ok && cols[f] < 0 {
			cols[f] = i
		}
	}

	for i, h := range header {
		if _, mapped := mapping.Lookup(h); mapped {
			continue
		}
		if f, ok := ParseField(h); ok && cols[f] < 0 {
			cols[f] = i
		}
	}

	cols[FieldPartnerCode] = -1
	return cols
}
