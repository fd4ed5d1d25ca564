// Package discovery pulls recent earnings events from the API Ninjas
// calendar, fetches each company's call transcript, and writes it to
// data/transcripts/<ticker>/<call_date>.json in the local segment
// schema so the scoring pipeline can pick it up.
package discovery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tone-cli/internal/model"
	"github.com/sells-group/tone-cli/internal/resilience"
	"github.com/sells-group/tone-cli/pkg/ninjas"
)

// Discoverer fetches and stores transcripts for recent earnings calls.
type Discoverer struct {
	client     ninjas.Client
	dataDir    string
	windowDays int
	now        func() time.Time
}

// Stats summarizes one discovery run.
type Stats struct {
	Events  int `json:"events"`
	Unique  int `json:"unique_tickers"`
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// New creates a Discoverer writing under dataDir.
func New(client ninjas.Client, dataDir string, windowDays int) *Discoverer {
	if windowDays <= 0 {
		windowDays = 7
	}
	return &Discoverer{client: client, dataDir: dataDir, windowDays: windowDays, now: time.Now}
}

// dateWindow returns the ISO dates from windowDays ago through today,
// inclusive on both ends.
func (d *Discoverer) dateWindow(now time.Time) []string {
	dates := make([]string, 0, d.windowDays+1)
	for i := d.windowDays; i >= 0; i-- {
		dates = append(dates, now.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return dates
}

// yearQuarter maps a call date to the fiscal quarter the call reports
// on. Calls happen after the quarter closes, so a January call covers
// Q4 of the prior year, an April call covers Q1, and so on.
func yearQuarter(callDate string) (int, int, error) {
	d, err := time.Parse("2006-01-02", callDate)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "discovery: parse call date %q", callDate)
	}
	switch {
	case d.Month() <= 3:
		return d.Year() - 1, 4, nil
	case d.Month() <= 6:
		return d.Year(), 1, nil
	case d.Month() <= 9:
		return d.Year(), 2, nil
	default:
		return d.Year(), 3, nil
	}
}

// Run discovers the window's earnings events, de-duplicates them by
// ticker keeping the earliest date, and fetches each transcript that is
// not already on disk. Individual transcript failures are logged and
// counted, not fatal.
func (d *Discoverer) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	seen := map[string]string{}
	for _, day := range d.dateWindow(d.now()) {
		events, err := d.fetchCalendarDay(ctx, day)
		if err != nil {
			return nil, eris.Wrapf(err, "discovery: calendar for %s", day)
		}
		stats.Events += len(events)
		for _, ev := range events {
			if ev.Ticker == "" || ev.Date == "" {
				continue
			}
			if prev, ok := seen[ev.Ticker]; !ok || ev.Date < prev {
				seen[ev.Ticker] = ev.Date
			}
		}
	}

	tickers := make([]string, 0, len(seen))
	for sym := range seen {
		tickers = append(tickers, sym)
	}
	sort.Strings(tickers)
	stats.Unique = len(tickers)

	zap.L().Info("discovery: earnings window scanned",
		zap.Int("events", stats.Events),
		zap.Int("unique_tickers", stats.Unique),
	)

	for _, rawSym := range tickers {
		callDate := seen[rawSym]
		ticker := NormalizeSymbol(rawSym)
		target := filepath.Join(d.dataDir, ticker, callDate+".json")

		if _, err := os.Stat(target); err == nil {
			stats.Skipped++
			continue
		}

		if err := d.fetchAndSave(ctx, rawSym, ticker, callDate, target); err != nil {
			stats.Failed++
			zap.L().Warn("discovery: transcript fetch failed",
				zap.String("ticker", ticker),
				zap.String("call_date", callDate),
				zap.Error(err),
			)
			continue
		}
		stats.Saved++
	}

	zap.L().Info("discovery: run complete",
		zap.Int("saved", stats.Saved),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
	)
	return stats, nil
}

func (d *Discoverer) fetchCalendarDay(ctx context.Context, day string) ([]ninjas.CalendarEvent, error) {
	return resilience.DoVal(ctx, resilience.RetryConfig{
		ShouldRetry: resilience.IsTransient,
		OnRetry:     resilience.RetryLogger("ninjas", "earnings calendar"),
	}, func(ctx context.Context) ([]ninjas.CalendarEvent, error) {
		return d.client.CalendarDay(ctx, day)
	})
}

func (d *Discoverer) fetchAndSave(ctx context.Context, rawSym, ticker, callDate, target string) error {
	year, quarter, err := yearQuarter(callDate)
	if err != nil {
		return err
	}

	raw, err := resilience.DoVal(ctx, resilience.RetryConfig{
		ShouldRetry: resilience.IsTransient,
		OnRetry:     resilience.RetryLogger("ninjas", "earnings transcript"),
	}, func(ctx context.Context) (*ninjas.RawTranscript, error) {
		return d.client.Transcript(ctx, rawSym, year, quarter)
	})
	if err != nil {
		return err
	}

	t, err := Adapt(raw, ticker, callDate)
	if err != nil {
		return err
	}
	return saveTranscript(target, t)
}

// saveTranscript writes the transcript JSON, creating parent
// directories as needed. Existing files are never overwritten.
func saveTranscript(target string, t *model.Transcript) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return eris.Wrapf(err, "discovery: create dir for %s", target)
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return eris.Wrap(err, "discovery: marshal transcript")
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return eris.Wrapf(err, "discovery: write %s", target)
	}
	return nil
}
