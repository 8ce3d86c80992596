package service

import (
	"context"
	"math"
	"testing"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "console")
	require.NoError(t, err)
	return l
}

func TestGreeksCompute_KnownValues(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))

	// Textbook Black-Scholes case: S=100, K=100, T=1y, r=5%, vol=20%.
	call, err := svc.Compute(context.Background(), &dto.GreeksRequest{
		SpotPrice:    100,
		StrikePrice:  100,
		TimeToExpiry: 1,
		Volatility:   0.2,
		RiskFreeRate: 0.05,
		OptionType:   "CE",
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.4506, call.Price, 0.001)
	assert.InDelta(t, 0.6368, call.Delta, 0.001)
	assert.Greater(t, call.Gamma, 0.0)
	assert.Less(t, call.Theta, 0.0)
	assert.Greater(t, call.Vega, 0.0)

	put, err := svc.Compute(context.Background(), &dto.GreeksRequest{
		SpotPrice:    100,
		StrikePrice:  100,
		TimeToExpiry: 1,
		Volatility:   0.2,
		RiskFreeRate: 0.05,
		OptionType:   "PE",
	})
	require.NoError(t, err)
	assert.InDelta(t, 5.5735, put.Price, 0.001)
	assert.InDelta(t, -0.3632, put.Delta, 0.001)
}

func TestGreeksCompute_PutCallParity(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))
	req := dto.GreeksRequest{
		SpotPrice:    24500,
		StrikePrice:  24700,
		TimeToExpiry: 14.0 / 365,
		Volatility:   0.18,
		RiskFreeRate: 0.065,
	}

	callReq, putReq := req, req
	callReq.OptionType = "CE"
	putReq.OptionType = "PE"

	call, err := svc.Compute(context.Background(), &callReq)
	require.NoError(t, err)
	put, err := svc.Compute(context.Background(), &putReq)
	require.NoError(t, err)

	// C - P = S - K*e^(-rT)
	parity := req.SpotPrice - req.StrikePrice*math.Exp(-req.RiskFreeRate*req.TimeToExpiry)
	assert.InDelta(t, parity, call.Price-put.Price, 0.01)
}

func TestGreeksCompute_ExpiredOption(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))

	itm, err := svc.Compute(context.Background(), &dto.GreeksRequest{
		SpotPrice: 110, StrikePrice: 100, TimeToExpiry: 0, Volatility: 0.2, OptionType: "CE",
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, itm.Price)
	assert.Equal(t, 1.0, itm.Delta)
	assert.Zero(t, itm.Gamma)
	assert.Zero(t, itm.Theta)
	assert.Zero(t, itm.Vega)

	otm, err := svc.Compute(context.Background(), &dto.GreeksRequest{
		SpotPrice: 90, StrikePrice: 100, TimeToExpiry: 0, Volatility: 0.2, OptionType: "CE",
	})
	require.NoError(t, err)
	assert.Zero(t, otm.Price)
	assert.Zero(t, otm.Delta)

	put, err := svc.Compute(context.Background(), &dto.GreeksRequest{
		SpotPrice: 90, StrikePrice: 100, TimeToExpiry: 0, Volatility: 0.2, OptionType: "PE",
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, put.Price)
	assert.Equal(t, -1.0, put.Delta)
}

func TestGreeksCompute_Validation(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))

	tests := []struct {
		name string
		req  dto.GreeksRequest
	}{
		{"zero spot", dto.GreeksRequest{StrikePrice: 100, TimeToExpiry: 1, Volatility: 0.2, OptionType: "CE"}},
		{"zero strike", dto.GreeksRequest{SpotPrice: 100, TimeToExpiry: 1, Volatility: 0.2, OptionType: "CE"}},
		{"negative expiry", dto.GreeksRequest{SpotPrice: 100, StrikePrice: 100, TimeToExpiry: -1, Volatility: 0.2, OptionType: "CE"}},
		{"bad option type", dto.GreeksRequest{SpotPrice: 100, StrikePrice: 100, TimeToExpiry: 1, Volatility: 0.2, OptionType: "CALL"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Compute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestImpliedVolatility_RoundTrip(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))

	req := dto.GreeksRequest{
		SpotPrice:    100,
		StrikePrice:  105,
		TimeToExpiry: 0.5,
		Volatility:   0.25,
		RiskFreeRate: 0.05,
		OptionType:   "CE",
	}
	priced, err := svc.Compute(context.Background(), &req)
	require.NoError(t, err)

	iv, err := svc.ImpliedVolatility(context.Background(), &req, priced.Price)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, iv, 0.01)
}

func TestImpliedVolatility_Bounds(t *testing.T) {
	svc := NewGreeksService(nil, nil, testLogger(t))
	req := dto.GreeksRequest{
		SpotPrice: 100, StrikePrice: 100, TimeToExpiry: 0.1,
		Volatility: 0.2, RiskFreeRate: 0.05, OptionType: "CE",
	}

	// An absurdly high price clamps at the search ceiling.
	iv, err := svc.ImpliedVolatility(context.Background(), &req, 99)
	require.NoError(t, err)
	assert.Equal(t, 3.0, iv)

	_, err = svc.ImpliedVolatility(context.Background(), &req, -1)
	assert.ErrorIs(t, err, ErrValidation)
}
