package beup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	report_client_fetch = "client.fetch"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	errNoRecord         = errors.New("no record found")
)

type FetchStatus int

const (
	// FetchFound means the page contains a published result.
	FetchFound FetchStatus = iota
	// FetchNotFound means the portal answered but has no result for the
	// registration number.
	FetchNotFound
	// FetchFailed means every attempt failed.
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case FetchFound:
		return "found"
	case FetchNotFound:
		return "not_found"
	case FetchFailed:
		return "failed"
	}
	return fmt.Sprintf("FetchStatus(%d)", int(s))
}

// FetchResult is the outcome of Client.Fetch. HTML is only set for
// FetchFound and Err only for FetchFailed.
type FetchResult struct {
	Status   FetchStatus
	HTML     string
	Err      error
	Attempts int
}

func Found(html string) FetchResult {
	return FetchResult{Status: FetchFound, HTML: html}
}

func NotFound() FetchResult {
	return FetchResult{Status: FetchNotFound}
}

func Failed(err error) FetchResult {
	return FetchResult{Status: FetchFailed, Err: err}
}

// Fetch requests a result page, retrying transport errors and non-200
// responses with exponential backoff. A 200 response containing
// NoRecordMarker ends the retries with FetchNotFound unless RetryNoRecord
// is set.
func (c Client) Fetch(ctx context.Context, link string) FetchResult {
	var (
		attempts int
		html     string
		notFound bool
	)

	operation := func() error {
		attempts++
		notFound = false

		res, err := c.http.R().
			SetContext(ctx).
			Get(link)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		if res.StatusCode() != http.StatusOK {
			return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status())
		}

		body := string(res.Body())
		if strings.Contains(body, NoRecordMarker) {
			notFound = true
			if c.retryNoRecord {
				return errNoRecord
			}
			return nil
		}

		html = body
		return nil
	}

	notify := func(err error, wait time.Duration) {
		c.tel.ReportWarning(
			report_client_fetch,
			fmt.Errorf("attempt %d: %w", attempts, err),
			link,
			wait.String(),
		)
	}

	var timer backoff.Timer
	if c.timer != nil {
		timer = c.timer()
	}

	err := backoff.RetryNotifyWithTimer(
		operation,
		backoff.WithContext(c.retry.backOff(), ctx),
		notify,
		timer,
	)

	switch {
	case notFound:
		c.tel.ReportDebug("no record", link, attempts)
		result := NotFound()
		result.Attempts = attempts
		return result
	case err != nil:
		c.tel.ReportBroken(report_client_fetch, err, link, attempts)
		result := Failed(err)
		result.Attempts = attempts
		return result
	}

	result := Found(html)
	result.Attempts = attempts
	return result
}

// FetchStudent fetches the result page of `regNo` for semester `sem`.
func (c Client) FetchStudent(ctx context.Context, sem, regNo string) FetchResult {
	return c.Fetch(ctx, c.ResultURL(sem, regNo))
}
