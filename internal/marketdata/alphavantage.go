package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fxrhxn/risk-var/internal/models"
)

const defaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageSource implements PriceSource using the Alpha Vantage
// TIME_SERIES_DAILY endpoint. It requires an API key; a fetch without
// one fails with ErrConfiguration.
type AlphaVantageSource struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewAlphaVantageSource creates an Alpha Vantage source. An empty
// baseURL uses the public endpoint.
func NewAlphaVantageSource(baseURL, apiKey string, timeout time.Duration) *AlphaVantageSource {
	if baseURL == "" {
		baseURL = defaultAlphaVantageBaseURL
	}
	return &AlphaVantageSource{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (s *AlphaVantageSource) Name() string { return "alphavantage" }

type alphaVantagePayload struct {
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
	ErrorMessage string                       `json:"Error Message"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
}

// FetchDaily requests the compact daily series for symbol. A rate-limit
// note or error marker in the payload is surfaced as ErrUpstream, never
// treated as an empty series.
func (s *AlphaVantageSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: ALPHA_VANTAGE_KEY is not set", ErrConfiguration)
	}

	u := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s&datatype=json",
		s.baseURL, url.QueryEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alphavantage: status %d: %w", resp.StatusCode, ErrUpstream)
	}

	var payload alphaVantagePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("alphavantage: decode: %w", ErrDecode)
	}

	if msg := firstNonEmpty(payload.Note, payload.Information, payload.ErrorMessage); msg != "" {
		return nil, fmt.Errorf("alphavantage: %s: %w", msg, ErrUpstream)
	}
	if len(payload.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage: missing daily time series: %w", ErrDecode)
	}

	points := make([]models.PricePoint, 0, len(payload.TimeSeries))
	for day, fields := range payload.TimeSeries {
		date, err := time.ParseInLocation(dateLayout, day, time.UTC)
		if err != nil {
			continue
		}
		closeStr, ok := fields["4. close"]
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(closeStr)
		if err != nil {
			continue
		}
		points = append(points, models.PricePoint{Date: date, Price: price.InexactFloat64()})
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
