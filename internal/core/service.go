package core

import "time"

// Recorder receives pipeline observations. Implementations must be safe
// for concurrent use; partners may be ingested in parallel.
type Recorder interface {
	ObservePartner(stats PartnerStats)
	ObserveRun(d time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) ObservePartner(PartnerStats)     {}
func (nopRecorder) ObserveRun(time.Duration, error) {}

// Options configures a Service.
type Options struct {
	// MaxConcurrent bounds how many partners are ingested at once.
	// Values below 1 mean strictly sequential.
	MaxConcurrent int

	// MaxFileSize caps the raw size of a partner file in bytes (0 = no cap).
	MaxFileSize int64

	// Recorder is notified after every partner and run. Optional.
	Recorder Recorder
}

// Service runs partner ingestion and unification.
type Service struct {
	maxConcurrent int
	maxFileSize   int64
	recorder      Recorder
}

// NewService creates a Service from opts.
func NewService(opts Options) *Service {
	s := &Service{
		maxConcurrent: opts.MaxConcurrent,
		maxFileSize:   opts.MaxFileSize,
		recorder:      opts.Recorder,
	}
	if s.maxConcurrent < 1 {
		s.maxConcurrent = 1
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	return s
}
