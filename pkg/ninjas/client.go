// Package ninjas provides a client for the API Ninjas earnings-calendar
// and earnings-transcript endpoints.
package ninjas

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/tone-cli/internal/resilience"
)

// Client defines the API Ninjas earnings operations.
type Client interface {
	// CalendarDay returns the earnings events announced for one calendar date.
	CalendarDay(ctx context.Context, date string) ([]CalendarEvent, error)
	// Transcript fetches the earnings-call transcript for one fiscal quarter.
	Transcript(ctx context.Context, ticker string, year, quarter int) (*RawTranscript, error)
}

// CalendarEvent is one row of the earnings calendar.
type CalendarEvent struct {
	Ticker string `json:"ticker"`
	Date   string `json:"date"`
}

// RawTranscript is the provider-shaped transcript response. Premium
// responses carry TranscriptSplit; the free tier only fills Transcript.
type RawTranscript struct {
	Ticker          string       `json:"ticker"`
	Date            string       `json:"date"`
	Transcript      string       `json:"transcript"`
	TranscriptSplit []SplitEntry `json:"transcript_split"`
}

// SplitEntry is one speaker turn in a premium transcript_split response.
type SplitEntry struct {
	Speaker     string `json:"speaker"`
	SpeakerType string `json:"speaker_type"`
	Role        string `json:"role"`
	Text        string `json:"text"`
}

// Option configures the client.
type Option func(*httpClient)

// WithCalendarURL overrides the earnings-calendar endpoint (for testing).
func WithCalendarURL(u string) Option {
	return func(c *httpClient) {
		c.calendarURL = u
	}
}

// WithTranscriptURL overrides the earnings-transcript endpoint (for testing).
func WithTranscriptURL(u string) Option {
	return func(c *httpClient) {
		c.transcriptURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRequestsPerSecond caps the outbound request rate. API Ninjas
// throttles free keys aggressively, so the default is 1 rps.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

type httpClient struct {
	apiKey        string
	calendarURL   string
	transcriptURL string
	limiter       *rate.Limiter
	http          *http.Client
}

// NewClient creates an API Ninjas earnings client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		calendarURL:   "https://api.api-ninjas.com/v1/earningscalendar",
		transcriptURL: "https://api.api-ninjas.com/v1/earningstranscript",
		limiter:       rate.NewLimiter(rate.Limit(1), 1),
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one rate-limited GET and returns the body. Throttling and
// server-side failures come back as transient errors so callers can
// route them through the shared retry helper.
func (c *httpClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "ninjas: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "ninjas: create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "ninjas: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "ninjas: read response body")
	}

	if resilience.IsTransientHTTPStatus(resp.StatusCode) {
		return nil, resilience.NewTransientError(
			eris.Errorf("ninjas: status %d: %s", resp.StatusCode, string(body)),
			resp.StatusCode,
		)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("ninjas: unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *httpClient) CalendarDay(ctx context.Context, date string) ([]CalendarEvent, error) {
	params := url.Values{}
	params.Set("date", date)

	body, err := c.get(ctx, c.calendarURL, params)
	if err != nil {
		return nil, err
	}

	var events []CalendarEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, eris.Wrapf(err, "ninjas: unmarshal calendar for %s", date)
	}
	return events, nil
}

func (c *httpClient) Transcript(ctx context.Context, ticker string, year, quarter int) (*RawTranscript, error) {
	params := url.Values{}
	params.Set("ticker", ticker)
	params.Set("year", strconv.Itoa(year))
	params.Set("quarter", strconv.Itoa(quarter))

	body, err := c.get(ctx, c.transcriptURL, params)
	if err != nil {
		return nil, err
	}

	// The endpoint sometimes wraps the payload in a single-element array.
	var raw RawTranscript
	if err := json.Unmarshal(body, &raw); err != nil {
		var list []RawTranscript
		if listErr := json.Unmarshal(body, &list); listErr != nil {
			return nil, eris.Wrapf(err, "ninjas: unmarshal transcript for %s %dQ%d", ticker, year, quarter)
		}
		if len(list) == 0 {
			return nil, eris.Errorf("ninjas: empty transcript response for %s %dQ%d", ticker, year, quarter)
		}
		raw = list[0]
	}
	return &raw, nil
}
