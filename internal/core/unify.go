package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/eligibility/internal/logging"
)

// Unify ingests every partner and concatenates the results.
//
// Output order is partner order as declared, then source order within a
// partner, regardless of how many partners are ingested concurrently.
// Rows are not de-duplicated across partners. The run is all-or-nothing:
// the first failing partner aborts it and no dataset is returned.
func (s *Service) Unify(ctx context.Context, partners []PartnerConfig) (*Dataset, error) {
	start := time.Now()
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)

	logger.Info("unification started",
		"partners", len(partners),
		"max_concurrent", s.maxConcurrent,
	)

	results := make([]*PartnerResult, len(partners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for i, p := range partners {
		g.Go(func() error {
			// Skip remaining partners once the run has failed.
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Ingest(gctx, p)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.recorder.ObserveRun(time.Since(start), err)
		logger.Error("unification failed",
			"partner", PartnerOf(err),
			"kind", KindOf(err),
			"error", err,
		)
		return nil, err
	}

	total := 0
	for _, res := range results {
		total += len(res.Rows)
	}

	ds := &Dataset{
		RunID:    runID,
		Rows:     make([]Row, 0, total),
		Partners: make([]PartnerStats, 0, len(results)),
	}
	for _, res := range results {
		ds.Rows = append(ds.Rows, res.Rows...)
		ds.Partners = append(ds.Partners, res.Stats)
	}

	s.recorder.ObserveRun(time.Since(start), nil)
	logger.Info("unification completed",
		"rows", ds.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return ds, nil
}
