package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fxrhxn/risk-var/internal/models"
)

type fakeSource struct {
	name    string
	prices  []models.PricePoint
	err     error
	calls   int
	symbols []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchDaily(_ context.Context, symbol string, _, _ time.Time) ([]models.PricePoint, error) {
	f.calls++
	f.symbols = append(f.symbols, symbol)
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func pricesFrom(startDay int, values ...float64) []models.PricePoint {
	points := make([]models.PricePoint, len(values))
	for i, v := range values {
		points[i] = models.PricePoint{Date: day(startDay + i), Price: v}
	}
	return points
}

func TestProviderFetchReturns(t *testing.T) {
	ctx := context.Background()

	t.Run("derives returns and preview", func(t *testing.T) {
		src := &fakeSource{name: "primary", prices: pricesFrom(1, 100, 105, 103)}
		provider := NewProvider(testLogger(), src)

		returns, preview, err := provider.FetchReturns(ctx, "AAPL")
		require.NoError(t, err)

		require.Len(t, returns, 2)
		assert.InDelta(t, 0.05, returns[0], 1e-12)
		assert.InDelta(t, -0.01904761904761905, returns[1], 1e-12)

		require.Len(t, preview, 2)
		assert.Equal(t, "2024-01-02", preview[0].Date)
		assert.InDelta(t, returns[0], preview[0].Return, 1e-12)
		assert.Equal(t, "2024-01-03", preview[1].Date)
		assert.InDelta(t, returns[1], preview[1].Return, 1e-12)
	})

	t.Run("preview keeps the last five rows in order", func(t *testing.T) {
		src := &fakeSource{name: "primary", prices: pricesFrom(1, 100, 101, 102, 103, 104, 105, 106, 107)}
		provider := NewProvider(testLogger(), src)

		returns, preview, err := provider.FetchReturns(ctx, "AAPL")
		require.NoError(t, err)
		require.Len(t, returns, 7)
		require.Len(t, preview, 5)

		// Oldest of the five first, dates follow the price series
		for i := 0; i < 5; i++ {
			assert.Equal(t, day(4+i).Format(dateLayout), preview[i].Date)
			assert.InDelta(t, returns[2+i], preview[i].Return, 1e-12)
		}
	})

	t.Run("uppercases the ticker", func(t *testing.T) {
		src := &fakeSource{name: "primary", prices: pricesFrom(1, 100, 101)}
		provider := NewProvider(testLogger(), src)

		_, _, err := provider.FetchReturns(ctx, " aapl ")
		require.NoError(t, err)
		require.Len(t, src.symbols, 1)
		assert.Equal(t, "AAPL", src.symbols[0])
	})

	t.Run("falls back to secondary when primary fails", func(t *testing.T) {
		primary := &fakeSource{name: "primary", err: errors.New("connection refused")}
		secondary := &fakeSource{name: "secondary", prices: pricesFrom(1, 100, 110)}
		provider := NewProvider(testLogger(), primary, secondary)

		returns, _, err := provider.FetchReturns(ctx, "AAPL")
		require.NoError(t, err)
		require.Len(t, returns, 1)
		assert.InDelta(t, 0.1, returns[0], 1e-12)

		assert.Equal(t, 1, primary.calls)
		assert.Equal(t, 1, secondary.calls)
	})

	t.Run("secondary error is final and primary is not retried", func(t *testing.T) {
		primary := &fakeSource{name: "primary", err: errors.New("connection refused")}
		secondary := &fakeSource{name: "secondary", err: fmt.Errorf("rate limited: %w", ErrUpstream)}
		provider := NewProvider(testLogger(), primary, secondary)

		_, _, err := provider.FetchReturns(ctx, "AAPL")
		assert.ErrorIs(t, err, ErrUpstream)
		assert.Equal(t, 1, primary.calls)
		assert.Equal(t, 1, secondary.calls)
	})

	t.Run("transport failures classified as upstream", func(t *testing.T) {
		primary := &fakeSource{name: "primary", err: errors.New("timeout")}
		secondary := &fakeSource{name: "secondary", err: errors.New("refused")}
		provider := NewProvider(testLogger(), primary, secondary)

		_, _, err := provider.FetchReturns(ctx, "AAPL")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("configuration error surfaces as such", func(t *testing.T) {
		primary := &fakeSource{name: "primary", err: errors.New("timeout")}
		secondary := &fakeSource{name: "secondary", err: fmt.Errorf("%w: key not set", ErrConfiguration)}
		provider := NewProvider(testLogger(), primary, secondary)

		_, _, err := provider.FetchReturns(ctx, "AAPL")
		assert.ErrorIs(t, err, ErrConfiguration)
		assert.NotErrorIs(t, err, ErrUpstream)
	})

	t.Run("empty and singleton series yield empty returns", func(t *testing.T) {
		for _, prices := range [][]models.PricePoint{nil, pricesFrom(1, 100)} {
			src := &fakeSource{name: "primary", prices: prices}
			provider := NewProvider(testLogger(), src)

			returns, preview, err := provider.FetchReturns(ctx, "AAPL")
			require.NoError(t, err)
			assert.Empty(t, returns)
			assert.Empty(t, preview)
		}
	})

	t.Run("sorts and dedupes the price series by date", func(t *testing.T) {
		src := &fakeSource{name: "primary", prices: []models.PricePoint{
			{Date: day(2), Price: 105},
			{Date: day(1), Price: 100},
			{Date: day(2), Price: 103},
		}}
		provider := NewProvider(testLogger(), src)

		returns, preview, err := provider.FetchReturns(ctx, "AAPL")
		require.NoError(t, err)
		require.Len(t, returns, 1)
		assert.InDelta(t, 0.03, returns[0], 1e-12)
		require.Len(t, preview, 1)
		assert.Equal(t, "2024-01-02", preview[0].Date)
	})

	t.Run("no sources configured", func(t *testing.T) {
		provider := NewProvider(testLogger())
		_, _, err := provider.FetchReturns(ctx, "AAPL")
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}
