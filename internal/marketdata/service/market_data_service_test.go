package service

import (
	"context"
	"testing"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturingCandleRepo struct {
	stored []entity.Candle
	found  []entity.Candle
	latest *entity.Candle
}

func (f *capturingCandleRepo) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	f.stored = append(f.stored, candles...)
	return nil
}

func (f *capturingCandleRepo) Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error) {
	if limit < len(f.found) {
		return f.found[:limit], nil
	}
	return f.found, nil
}

func (f *capturingCandleRepo) LatestClose(ctx context.Context, symbol string) (*entity.Candle, error) {
	if f.latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.latest, nil
}

func (f *capturingCandleRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.stored)), nil
}

type capturingChainRepo struct {
	stored []entity.OptionQuote
}

func (f *capturingChainRepo) StoreBatch(ctx context.Context, quotes []entity.OptionQuote) error {
	f.stored = append(f.stored, quotes...)
	return nil
}

func (f *capturingChainRepo) FindChain(ctx context.Context, symbol string, expiry *time.Time) ([]entity.OptionQuote, error) {
	return f.stored, nil
}

func (f *capturingChainRepo) Expiries(ctx context.Context, symbol string, after time.Time) ([]time.Time, error) {
	return nil, nil
}

func (f *capturingChainRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.stored)), nil
}

func newMarketDataService(t *testing.T, candles *capturingCandleRepo, chain *capturingChainRepo) MarketDataService {
	t.Helper()
	return NewMarketDataService(candles, chain, newFakeSignalRepo(), testLogger(t))
}

func TestStoreCandles_Validation(t *testing.T) {
	svc := newMarketDataService(t, &capturingCandleRepo{}, &capturingChainRepo{})
	ctx := context.Background()
	ts := time.Date(2026, 8, 21, 9, 15, 0, 0, time.UTC)

	_, err := svc.StoreCandles(ctx, &dto.StoreCandlesRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.StoreCandles(ctx, &dto.StoreCandlesRequest{Candles: []dto.CandleDTO{
		{Symbol: "NIFTY", Timeframe: "2min", Timestamp: ts},
	}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.StoreCandles(ctx, &dto.StoreCandlesRequest{Candles: []dto.CandleDTO{
		{Symbol: "NIFTY", Timeframe: "5min"},
	}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStoreCandles_NormalizesToUTC(t *testing.T) {
	repo := &capturingCandleRepo{}
	svc := newMarketDataService(t, repo, &capturingChainRepo{})

	ist := time.FixedZone("IST", 5*3600+1800)
	ts := time.Date(2026, 8, 21, 9, 15, 0, 0, ist)

	resp, err := svc.StoreCandles(context.Background(), &dto.StoreCandlesRequest{Candles: []dto.CandleDTO{
		{Symbol: "NIFTY", Timeframe: "5min", Timestamp: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Stored)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, time.UTC, repo.stored[0].Timestamp.Location())
	assert.True(t, ts.Equal(repo.stored[0].Timestamp))
}

func TestStoreChain_SharedCapturedAt(t *testing.T) {
	repo := &capturingChainRepo{}
	svc := newMarketDataService(t, &capturingCandleRepo{}, repo)

	resp, err := svc.StoreChain(context.Background(), &dto.StoreChainRequest{Quotes: []dto.OptionQuoteDTO{
		{Symbol: "NIFTY", Expiry: "2026-08-27", Strike: 24500, OptionType: "CE", OI: 1000},
		{Symbol: "NIFTY", Expiry: "2026-08-27", Strike: 24500, OptionType: "PE", OI: 1500},
	}})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stored)
	assert.Equal(t, int64(2500), resp.TotalOI)

	require.Len(t, repo.stored, 2)
	assert.True(t, repo.stored[0].CapturedAt.Equal(repo.stored[1].CapturedAt))
	assert.Equal(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), repo.stored[0].Expiry)
}

func TestStoreChain_Validation(t *testing.T) {
	svc := newMarketDataService(t, &capturingCandleRepo{}, &capturingChainRepo{})
	ctx := context.Background()

	tests := []struct {
		name  string
		quote dto.OptionQuoteDTO
	}{
		{"bad option type", dto.OptionQuoteDTO{Symbol: "NIFTY", Expiry: "2026-08-27", Strike: 24500, OptionType: "CALL"}},
		{"zero strike", dto.OptionQuoteDTO{Symbol: "NIFTY", Expiry: "2026-08-27", OptionType: "CE"}},
		{"bad expiry", dto.OptionQuoteDTO{Symbol: "NIFTY", Expiry: "27-08-2026", Strike: 24500, OptionType: "CE"}},
		{"missing symbol", dto.OptionQuoteDTO{Expiry: "2026-08-27", Strike: 24500, OptionType: "CE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.StoreChain(ctx, &dto.StoreChainRequest{Quotes: []dto.OptionQuoteDTO{tt.quote}})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestGetCandles_LimitClamping(t *testing.T) {
	repo := &capturingCandleRepo{found: []entity.Candle{{Symbol: "NIFTY", Timeframe: "5min", Close: 24500}}}
	svc := newMarketDataService(t, repo, &capturingChainRepo{})

	out, err := svc.GetCandles(context.Background(), "NIFTY", "5min", 0)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	_, err = svc.GetCandles(context.Background(), "NIFTY", "weekly", 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetCurrentPrice_NotFound(t *testing.T) {
	svc := newMarketDataService(t, &capturingCandleRepo{}, &capturingChainRepo{})

	_, err := svc.GetCurrentPrice(context.Background(), "NIFTY")
	assert.ErrorIs(t, err, ErrNotFound)
}
