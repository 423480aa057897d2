package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"time"
	"umddining-backend/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl           = "https://nutrition.umd.edu"
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 2
)

// FetchError is returned for any page that couldn't be retrieved, StatusCode
// is 0 when no response was received at all.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Options struct {
	// if unspecified, DefaultBaseUrl
	BaseUrl string
	// if unspecified, DefaultTimeout
	Timeout time.Duration
	// if unspecified, DefaultRequestsPerSecond
	RequestsPerSecond float64
}

type Fetcher struct {
	BaseUrl *url.URL
	Http    *resty.Client
}

func New(opts Options) (*Fetcher, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(opts.Timeout)

	// burst >= 1 so that no request is ever dropped, only delayed
	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Fetcher{
		BaseUrl: baseUrl,
		Http:    client,
	}, nil
}

// Fetch gets the body of a page, path is relative to the base url.
func (f *Fetcher) Fetch(ctx context.Context, path string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	fullUrl := f.Http.BaseURL + path
	span.SetAttributes(attribute.String("url", fullUrl))

	res, err := f.Http.R().
		SetContext(ctx).
		Get(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", &FetchError{URL: fullUrl, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		err := &FetchError{
			URL:        fullUrl,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status '%s'", res.Status()),
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "non-2xx status")
		return "", err
	}

	return string(res.Body()), nil
}

// MenuPage gets the menu of a dining hall on a date, date is in the site's
// M/D/YYYY format.
func (f *Fetcher) MenuPage(ctx context.Context, hallId, date string) (string, error) {
	ctx, span := tracer.Start(ctx, "MenuPage")
	defer span.End()

	span.SetAttributes(
		attribute.String("dining_hall_id", hallId),
		attribute.String("date", date),
	)

	query := url.Values{}
	query.Set("locationNum", hallId)
	query.Set("dtdate", date)
	return f.Fetch(ctx, "/?"+query.Encode())
}

// LabelPage gets the nutrition label of a food.
func (f *Fetcher) LabelPage(ctx context.Context, recNum string) (string, error) {
	ctx, span := tracer.Start(ctx, "LabelPage")
	defer span.End()

	span.SetAttributes(attribute.String("rec_num", recNum))

	query := url.Values{}
	query.Set("RecNumAndPort", recNum)
	return f.Fetch(ctx, "/label.aspx?"+query.Encode())
}
