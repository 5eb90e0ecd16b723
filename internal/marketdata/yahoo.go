package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fxrhxn/risk-var/internal/models"
)

const defaultYahooBaseURL = "https://query2.finance.yahoo.com"

// YahooSource implements PriceSource using the Yahoo Finance chart API
type YahooSource struct {
	client  *http.Client
	baseURL string
}

// NewYahooSource creates a Yahoo Finance source. An empty baseURL uses
// the public endpoint.
func NewYahooSource(baseURL string, timeout time.Duration) *YahooSource {
	if baseURL == "" {
		baseURL = defaultYahooBaseURL
	}
	return &YahooSource{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (s *YahooSource) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo chart API
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Adjclose []struct {
					Adjclose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily requests adjusted daily closes for symbol over [start, end].
// Timestamps and closes are zipped positionally; pairs missing a close
// are dropped.
func (s *YahooSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&includePrePost=false&events=history",
		s.baseURL, url.PathEscape(symbol), start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo: build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo: decode: %w", ErrDecode)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: api error %s: %s: %w",
			chart.Chart.Error.Code, chart.Chart.Error.Description, ErrUpstream)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Adjclose) == 0 {
		return nil, fmt.Errorf("yahoo: empty chart result: %w", ErrDecode)
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Adjclose[0].Adjclose
	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue // null bars (holidays etc.)
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		points = append(points, models.PricePoint{Date: day, Price: *closes[i]})
	}
	return points, nil
}
