package service

import (
	"context"
	"testing"
	"time"

	"options-trading-backend/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChainRepo struct {
	quotes []entity.OptionQuote
	err    error
	calls  int
}

func (f *fakeChainRepo) StoreBatch(ctx context.Context, quotes []entity.OptionQuote) error {
	return nil
}

func (f *fakeChainRepo) FindChain(ctx context.Context, symbol string, expiry *time.Time) ([]entity.OptionQuote, error) {
	f.calls++
	return f.quotes, f.err
}

func (f *fakeChainRepo) Expiries(ctx context.Context, symbol string, after time.Time) ([]time.Time, error) {
	return nil, nil
}

func (f *fakeChainRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.quotes)), nil
}

type fakeCandleRepo struct {
	close float64
	err   error
}

func (f *fakeCandleRepo) UpsertBatch(ctx context.Context, candles []entity.Candle) error {
	return nil
}

func (f *fakeCandleRepo) Find(ctx context.Context, symbol, timeframe string, limit int) ([]entity.Candle, error) {
	return nil, nil
}

func (f *fakeCandleRepo) LatestClose(ctx context.Context, symbol string) (*entity.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entity.Candle{Symbol: symbol, Close: f.close}, nil
}

func (f *fakeCandleRepo) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func quote(strike float64, typ entity.OptionType, oi, volume int64) entity.OptionQuote {
	return entity.OptionQuote{
		Symbol:     "NIFTY",
		Strike:     strike,
		OptionType: typ,
		OI:         oi,
		Volume:     volume,
	}
}

// A chain with put writing concentrated above and call writing below pins
// max pain at the middle strike.
func pinnedChain() []entity.OptionQuote {
	return []entity.OptionQuote{
		quote(100, entity.OptionTypeCall, 1000, 100),
		quote(110, entity.OptionTypeCall, 500, 50),
		quote(120, entity.OptionTypeCall, 200, 20),
		quote(100, entity.OptionTypePut, 200, 20),
		quote(110, entity.OptionTypePut, 500, 50),
		quote(120, entity.OptionTypePut, 1000, 100),
	}
}

func TestMaxPain_PinnedChain(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: pinnedChain()}
	candleRepo := &fakeCandleRepo{close: 110}
	svc := NewOIAnalysisService(chainRepo, candleRepo, time.Minute, testLogger(t))

	result, err := svc.MaxPain(context.Background(), "NIFTY", nil)
	require.NoError(t, err)

	// Pain at 100: 25000, at 110: 20000, at 120: 25000.
	assert.Equal(t, 110.0, result.MaxPainStrike)
	assert.Equal(t, 20000.0, result.MinPainValue)
	assert.Equal(t, 110.0, result.CurrentSpot)
	assert.Equal(t, "NEUTRAL_EXPIRY", result.Signal)
	assert.Equal(t, "HIGH", result.Probability)
	assert.NotEmpty(t, result.Implications)
	assert.Contains(t, result.LikelyExpiryZones, 110.0)
}

func TestMaxPain_Memoized(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: pinnedChain()}
	svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 110}, time.Minute, testLogger(t))

	_, err := svc.MaxPain(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	_, err = svc.MaxPain(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, chainRepo.calls)
}

func TestMaxPain_SpotFallsBackToMedianStrike(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: pinnedChain()}
	candleRepo := &fakeCandleRepo{err: gorm.ErrRecordNotFound}
	svc := NewOIAnalysisService(chainRepo, candleRepo, time.Minute, testLogger(t))

	result, err := svc.MaxPain(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Equal(t, 110.0, result.CurrentSpot)
}

func TestMaxPain_EmptyChain(t *testing.T) {
	svc := NewOIAnalysisService(&fakeChainRepo{}, &fakeCandleRepo{close: 110}, time.Minute, testLogger(t))

	_, err := svc.MaxPain(context.Background(), "NIFTY", nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestPutCallRatio_Bands(t *testing.T) {
	tests := []struct {
		name      string
		putOI     int64
		callOI    int64
		sentiment string
	}{
		{"extremely bearish", 1600, 1000, "EXTREMELY_BEARISH"},
		{"bearish", 1300, 1000, "BEARISH"},
		{"neutral", 1000, 1000, "NEUTRAL"},
		{"bullish", 700, 1000, "BULLISH"},
		{"extremely bullish", 500, 1000, "EXTREMELY_BULLISH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chainRepo := &fakeChainRepo{quotes: []entity.OptionQuote{
				quote(110, entity.OptionTypeCall, tt.callOI, 10),
				quote(110, entity.OptionTypePut, tt.putOI, 10),
			}}
			svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 110}, time.Minute, testLogger(t))

			result, err := svc.PutCallRatio(context.Background(), "NIFTY", nil)
			require.NoError(t, err)
			assert.Equal(t, tt.sentiment, result.Sentiment)
			assert.Equal(t, tt.putOI, result.TotalPutOI)
			assert.Equal(t, tt.callOI, result.TotalCallOI)
		})
	}
}

func TestPutCallRatio_ZeroCallOI(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: []entity.OptionQuote{
		quote(110, entity.OptionTypePut, 1000, 10),
	}}
	svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 110}, time.Minute, testLogger(t))

	result, err := svc.PutCallRatio(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Zero(t, result.PCROI)
	assert.Zero(t, result.PCRVolume)
}

func TestOIBuildup_CallHeavy(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: []entity.OptionQuote{
		quote(24600, entity.OptionTypeCall, 5000, 100),
		quote(24700, entity.OptionTypeCall, 3000, 100),
		quote(24400, entity.OptionTypePut, 2000, 100),
	}}
	svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 24500}, time.Minute, testLogger(t))

	result, err := svc.OIBuildup(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Equal(t, "CALL_HEAVY_BUILDUP", result.BuildupSignal)
	assert.Equal(t, 24600.0, result.CallResistance)
	assert.Equal(t, 24400.0, result.PutSupport)
	assert.Len(t, result.TopCallStrikes, 2)
	assert.Equal(t, int64(5000), result.TopCallStrikes[0].OI)
}

func TestComprehensive_SentimentVote(t *testing.T) {
	// Heavy put OI everywhere: PCR bearish, buildup put-heavy.
	chainRepo := &fakeChainRepo{quotes: []entity.OptionQuote{
		quote(24400, entity.OptionTypeCall, 1000, 100),
		quote(24500, entity.OptionTypeCall, 1000, 100),
		quote(24400, entity.OptionTypePut, 4000, 400),
		quote(24500, entity.OptionTypePut, 4000, 400),
	}}
	svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 24500}, time.Minute, testLogger(t))

	report, err := svc.Comprehensive(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	require.NotNil(t, report.Sentiment)
	assert.Equal(t, "BEARISH", report.Sentiment.OverallSentiment)
	assert.Equal(t, 4, report.TotalContracts)
	assert.Greater(t, report.Sentiment.BearishSignals, report.Sentiment.BullishSignals)
	assert.NotEmpty(t, report.Sentiment.Recommendations)
	assert.Equal(t, "NIFTY", report.PCR.Symbol)
	assert.Equal(t, "NIFTY", report.MaxPain.Symbol)
}

func TestComprehensive_MemoizedAndSharedWithSingleAnalyses(t *testing.T) {
	chainRepo := &fakeChainRepo{quotes: pinnedChain()}
	svc := NewOIAnalysisService(chainRepo, &fakeCandleRepo{close: 110}, time.Minute, testLogger(t))

	first, err := svc.Comprehensive(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	second, err := svc.Comprehensive(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, chainRepo.calls)

	// A comprehensive run answers the single-analysis lookups too.
	maxPain, err := svc.MaxPain(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Equal(t, 110.0, maxPain.MaxPainStrike)
	_, err = svc.PutCallRatio(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	_, err = svc.OIBuildup(context.Background(), "NIFTY", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, chainRepo.calls)
}
