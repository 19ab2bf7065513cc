// Package core provides the normalization and unification pipeline for
// partner eligibility files.
//
// The package holds all domain logic, independent of the CLI and HTTP
// layers, and can be driven by either or by tests directly.
//
// # Canonical Schema
//
// Every output row has the same seven text columns in a fixed order:
//
//	external_id, first_name, last_name, dob, email, phone, partner_code
//
// [Row] is a fixed-size array indexed by [Field], so later stages never
// handle loosely shaped tables.
//
// # Pipeline
//
//  1. [Service.Ingest] reads one partner file as text with its declared
//     delimiter and charset, renames columns through the partner's
//     [ColumnMapping], injects partner_code, drops rows with an empty
//     external_id and normalizes the remaining fields.
//  2. [Service.Unify] ingests every partner and concatenates the rows in
//     partner order, then source order. Partners may be read concurrently;
//     the output order does not change.
//  3. [Dataset.Records] materializes typed [EligibilityRecord] values.
//  4. [WriteFile] writes the comma-separated artifact atomically.
//
// # Normalization
//
// [NormalizeName], [NormalizeEmail], [NormalizePhone] and [NormalizeDob]
// never fail: bad input becomes "" or passes through trimmed.
//
// # Errors
//
// A run fails with [ErrSourceUnavailable] or [ErrMalformedSource] (wrapped
// in a [SourceError] naming the partner), or [ErrSchemaMismatch]. Any
// failure aborts the whole run; there is no per-partner isolation.
// [MapError] turns these into coded user messages.
package core
