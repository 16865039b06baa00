package beup

import (
	"fmt"
	"math"
	"net/url"
	"time"
	"university-results/internal/components/telemetry"
	"university-results/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseUrl   = "http://results.beup.ac.in/ResultsBTech1stSem2023_B2023Pub.aspx"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// RetryPolicy controls how many times a result page is requested and how
// long to wait in between.
type RetryPolicy struct {
	MaxAttempts int
	// InitialDelay is the wait after the first failed attempt, every
	// following wait is the previous one multiplied by BackoffFactor.
	InitialDelay  time.Duration
	BackoffFactor float64
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:   3,
	InitialDelay:  time.Second,
	BackoffFactor: 2.0,
}

func (p RetryPolicy) normalize() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.BackoffFactor < 1 {
		p.BackoffFactor = 1
	}
	return p
}

// backOff builds a jitter-free exponential backoff that stops after
// MaxAttempts-1 retries.
func (p RetryPolicy) backOff() backoff.BackOff {
	exp := &backoff.ExponentialBackOff{
		InitialInterval:     p.InitialDelay,
		RandomizationFactor: 0,
		Multiplier:          p.BackoffFactor,
		MaxInterval:         time.Duration(math.MaxInt64),
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(p.MaxAttempts-1))
}

type ClientOptions struct {
	// BaseUrl is the result page, Sem and RegNo are added as query parameters.
	BaseUrl   string
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass routes requests through a transport that mimics a
	// browser TLS handshake.
	CloudflareBypass bool
	Retry            RetryPolicy
	// RetryNoRecord treats a page showing NoRecordMarker as a failed attempt
	// until the attempts run out.
	RetryNoRecord bool
	// Timer creates the timer used to wait between attempts, nil uses the
	// system clock.
	Timer func() backoff.Timer
	// Tracer can be nil, it defaults to the global tracer provider.
	Tracer trace.Tracer
	// Output can be nil, when set every HTTP exchange is written to it.
	Output restyutil.Output
}

type Client struct {
	http          *resty.Client
	baseUrl       *url.URL
	retry         RetryPolicy
	retryNoRecord bool
	timer         func() backoff.Timer
	tel           telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (Client, error) {
	tel = telemetry.NewScopedAPI("beup_scraper", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return Client{}, fmt.Errorf("parse base url: %w", err)
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return Client{}, fmt.Errorf("base url %q must be absolute", opts.BaseUrl)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer("university-results/scrapers/beup")
	}

	httpClient := resty.New()
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	telemetry.InstrumentResty(httpClient, tel, opts.Tracer, opts.Output)

	return Client{
		http:          httpClient,
		baseUrl:       baseUrl,
		retry:         opts.Retry.normalize(),
		retryNoRecord: opts.RetryNoRecord,
		timer:         opts.Timer,
		tel:           tel,
	}, nil
}

// ResultURL is the result page of a single registration number.
func (c Client) ResultURL(sem, regNo string) string {
	link := *c.baseUrl
	query := link.Query()
	query.Set("Sem", sem)
	query.Set("RegNo", regNo)
	link.RawQuery = query.Encode()
	return link.String()
}
