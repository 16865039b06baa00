package service

import (
	"context"
	"errors"
	"university-results/internal/components/telemetry"
	"university-results/internal/scrapers/beup"

	"github.com/google/uuid"
)

const (
	report_batch_registration = "batch.registration"
	report_batch_found        = "batch.found"
	report_handler_encode     = "handler.encode"
)

var ErrMissingRegNo = errors.New("missing 'reg_no' query parameter")

// ResultFetcher is implemented by beup.Client.
//
// note: fault injection point
type ResultFetcher interface {
	FetchStudent(ctx context.Context, sem, regNo string) beup.FetchResult
}

type Options struct {
	// BatchSize is how many consecutive registration numbers one lookup
	// probes, it defaults to 5.
	BatchSize int
	// DefaultSemester is used when a lookup does not name a semester, it
	// defaults to "I".
	DefaultSemester string
}

const (
	DefaultBatchSize = 5
	DefaultSemester  = "I"
)

type Service struct {
	fetcher ResultFetcher
	opts    Options
	tel     telemetry.API
}

func NewService(fetcher ResultFetcher, opts Options, tel telemetry.API) Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.DefaultSemester == "" {
		opts.DefaultSemester = DefaultSemester
	}
	return Service{
		fetcher: fetcher,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("service", tel),
	}
}

// Lookup fetches and parses the batch of registration numbers starting at
// `regNo` one after another. Candidates without a published result or
// whose fetch failed are left out, so the returned slice holds between 0
// and BatchSize records in registration order. The only error returned is
// ErrMissingRegNo, candidate failures never surface.
func (s Service) Lookup(ctx context.Context, regNo, sem string) ([]beup.StudentResult, error) {
	if regNo == "" {
		return nil, ErrMissingRegNo
	}
	if sem == "" {
		sem = s.opts.DefaultSemester
	}

	batchId := uuid.NewString()
	s.tel.ReportDebug("lookup", batchId, regNo, sem, s.opts.BatchSize)

	results := []beup.StudentResult{}

	candidates, err := RegistrationRange(regNo, s.opts.BatchSize)
	if err != nil {
		s.tel.ReportWarning(report_batch_registration, err, batchId)
		return results, nil
	}

	for _, candidate := range candidates {
		res := s.fetcher.FetchStudent(ctx, sem, candidate)
		s.tel.ReportDebug(
			"candidate",
			batchId,
			candidate,
			res.Status.String(),
			res.Attempts,
		)

		record, ok := beup.ParseFetched(res, candidate)
		if !ok {
			continue
		}
		results = append(results, record)
	}

	s.tel.ReportCount(report_batch_found, int64(len(results)))
	return results, nil
}
