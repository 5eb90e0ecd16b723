package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fxrhxn/risk-var/internal/models"
)

// Fetch errors. Sources tag their failures with one of these so callers
// can classify them with errors.Is.
var (
	ErrUpstream      = errors.New("upstream price source failed")
	ErrConfiguration = errors.New("missing configuration")
	ErrDecode        = errors.New("malformed upstream payload")
)

// PriceSource fetches a daily closing-price series for a symbol
type PriceSource interface {
	Name() string
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error)
}

const (
	historyWindow = 365 * 24 * time.Hour
	previewRows   = 5
	dateLayout    = "2006-01-02"
)

// Provider derives a daily return series for a ticker from an ordered
// list of price sources. Sources are tried sequentially and the first
// success wins; a later source is only contacted after the earlier
// attempt has concluded.
type Provider struct {
	sources []PriceSource
	log     *logrus.Logger
	now     func() time.Time
}

// NewProvider creates a Provider over the given sources, in fallback order
func NewProvider(log *logrus.Logger, sources ...PriceSource) *Provider {
	return &Provider{
		sources: sources,
		log:     log,
		now:     time.Now,
	}
}

// FetchReturns fetches the trailing-year daily price series for ticker
// and converts it to simple daily returns plus a short recent-history
// preview. An empty or singleton price series yields an empty return
// series without error.
func (p *Provider) FetchReturns(ctx context.Context, ticker string) ([]float64, []models.PreviewRow, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	end := p.now().UTC()
	start := end.Add(-historyWindow)

	prices, err := p.fetchPrices(ctx, symbol, start, end)
	if err != nil {
		return nil, nil, err
	}

	prices = normalizePrices(prices)
	returns, preview := deriveReturns(prices)

	p.log.WithFields(logrus.Fields{
		"symbol":  symbol,
		"returns": len(returns),
	}).Info("derived return series")

	return returns, preview, nil
}

func (p *Provider) fetchPrices(ctx context.Context, symbol string, start, end time.Time) ([]models.PricePoint, error) {
	var lastErr error
	for _, src := range p.sources {
		prices, err := src.FetchDaily(ctx, symbol, start, end)
		if err == nil {
			p.log.WithFields(logrus.Fields{
				"source": src.Name(),
				"symbol": symbol,
				"points": len(prices),
			}).Info("fetched price series")
			return prices, nil
		}

		p.log.WithFields(logrus.Fields{
			"source": src.Name(),
			"symbol": symbol,
		}).WithError(err).Warn("price source failed")
		lastErr = err
	}

	if lastErr == nil {
		return nil, fmt.Errorf("%w: no price sources configured", ErrConfiguration)
	}
	if errors.Is(lastErr, ErrConfiguration) || errors.Is(lastErr, ErrDecode) || errors.Is(lastErr, ErrUpstream) {
		return nil, lastErr
	}
	// Transport-level failures from the last source
	return nil, fmt.Errorf("%w: %v", ErrUpstream, lastErr)
}

// normalizePrices sorts the series ascending by date and keeps the last
// point seen for each calendar day.
func normalizePrices(prices []models.PricePoint) []models.PricePoint {
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Date.Before(prices[j].Date)
	})

	deduped := make([]models.PricePoint, 0, len(prices))
	for _, pt := range prices {
		if n := len(deduped); n > 0 && sameDay(deduped[n-1].Date, pt.Date) {
			deduped[n-1] = pt
			continue
		}
		deduped = append(deduped, pt)
	}
	return deduped
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// deriveReturns computes simple returns (p1-p0)/p0 over consecutive
// price pairs, chronological, plus the last up-to-5 (date, return) rows.
func deriveReturns(prices []models.PricePoint) ([]float64, []models.PreviewRow) {
	returns := make([]float64, 0)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, (prices[i].Price-prices[i-1].Price)/prices[i-1].Price)
	}

	first := len(returns) - previewRows
	if first < 0 {
		first = 0
	}
	preview := make([]models.PreviewRow, 0, len(returns)-first)
	for i := first; i < len(returns); i++ {
		preview = append(preview, models.PreviewRow{
			Date:   prices[i+1].Date.UTC().Format(dateLayout),
			Return: returns[i],
		})
	}
	return returns, preview
}
