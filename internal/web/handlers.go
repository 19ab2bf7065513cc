package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/eligibility/internal/core"
)

// PartnerSummary describes one configured partner.
type PartnerSummary struct {
	Name        string            `json:"name"`
	PartnerCode string            `json:"partner_code"`
	FilePath    string            `json:"file_path"`
	Delimiter   string            `json:"delimiter"`
	Encoding    string            `json:"encoding,omitempty"`
	Mapping     map[string]string `json:"column_mapping"`
}

// RecordsResponse is the body of /api/records.
type RecordsResponse struct {
	RunID    string                   `json:"run_id"`
	Count    int                      `json:"count"`
	Partners []core.PartnerStats      `json:"partners"`
	Records  []core.EligibilityRecord `json:"records"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := s.partners()
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]PartnerSummary, len(partners))
	for i, p := range partners {
		mapping := make(map[string]string, len(p.Mapping))
		for _, m := range p.Mapping {
			mapping[m.Source] = m.Target.String()
		}
		out[i] = PartnerSummary{
			Name:        p.Name,
			PartnerCode: p.PartnerCode,
			FilePath:    p.FilePath,
			Delimiter:   string(p.Delimiter),
			Encoding:    p.Encoding,
			Mapping:     mapping,
		}
	}
	writeJSON(w, r, out)
}

// handleUnifiedCSV streams the unified artifact. The body is rendered into
// memory first so a failed run never produces a partial 200.
func (s *Server) handleUnifiedCSV(w http.ResponseWriter, r *http.Request) {
	dataset, ok := s.unify(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := core.WriteCSV(&buf, dataset); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="unified_output.csv"`)
	w.Header().Set("X-Run-ID", dataset.RunID)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	dataset, ok := s.unify(w, r)
	if !ok {
		return
	}

	records, err := dataset.Records()
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", dataset.RunID)
	writeJSON(w, r, RecordsResponse{
		RunID:    dataset.RunID,
		Count:    len(records),
		Partners: dataset.Partners,
		Records:  records,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "rows", core.DefaultPreviewRows)

	dataset, ok := s.unify(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := core.Preview(&buf, dataset, limit); err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-ID", dataset.RunID)
	_, _ = buf.WriteTo(w)
}

// unify loads the partners, applies any ?partner= filter and runs the
// pipeline. On failure the error response has been written and ok is false.
func (s *Server) unify(w http.ResponseWriter, r *http.Request) (*core.Dataset, bool) {
	partners, err := s.partners()
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}

	if names := r.URL.Query()["partner"]; len(names) > 0 {
		var unknown string
		partners, unknown = selectPartners(partners, names)
		if unknown != "" {
			respondUnknownPartner(w, r, unknown)
			return nil, false
		}
	}

	dataset, err := s.service.Unify(r.Context(), partners)
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	return dataset, true
}

// selectPartners keeps the named partners in configuration order. It
// returns the first name that matches nothing.
func selectPartners(partners []core.PartnerConfig, names []string) ([]core.PartnerConfig, string) {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}

	var out []core.PartnerConfig
	for _, p := range partners {
		if want[p.Name] {
			out = append(out, p)
			delete(want, p.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, n
		}
	}
	return out, ""
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return defaultVal
	}
	return v
}
