package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"

	"gorm.io/gorm"
)

const (
	daysPerYear = 365.0

	// ivLow/ivHigh bound the implied volatility bisection search.
	ivLow  = 0.01
	ivHigh = 3.0
	ivTol  = 1e-6
)

// GreeksService prices options and computes Greeks with Black-Scholes.
type GreeksService interface {
	Compute(ctx context.Context, req *dto.GreeksRequest) (*dto.GreeksResponse, error)
	ImpliedVolatility(ctx context.Context, req *dto.GreeksRequest, marketPrice float64) (float64, error)
	ChainGreeks(ctx context.Context, symbol string, expiry *time.Time, riskFreeRate float64) (*dto.ChainGreeksResponse, error)
}

// NewGreeksService creates a new Greeks service.
func NewGreeksService(
	chainRepo repository.OptionChainRepository,
	candleRepo repository.CandleRepository,
	logger *logger.Logger,
) GreeksService {
	return &greeksService{
		chainRepo:  chainRepo,
		candleRepo: candleRepo,
		logger:     logger,
	}
}

type greeksService struct {
	chainRepo  repository.OptionChainRepository
	candleRepo repository.CandleRepository
	logger     *logger.Logger
}

func (s *greeksService) Compute(ctx context.Context, req *dto.GreeksRequest) (*dto.GreeksResponse, error) {
	if err := validateGreeksRequest(req); err != nil {
		return nil, err
	}
	g := blackScholes(req.SpotPrice, req.StrikePrice, req.TimeToExpiry, req.Volatility, req.RiskFreeRate, req.OptionType)
	return g, nil
}

// ImpliedVolatility inverts Black-Scholes for the volatility matching a
// market price, by bisection over [ivLow, ivHigh].
func (s *greeksService) ImpliedVolatility(ctx context.Context, req *dto.GreeksRequest, marketPrice float64) (float64, error) {
	if err := validateGreeksRequest(req); err != nil {
		return 0, err
	}
	if marketPrice <= 0 {
		return 0, fmt.Errorf("%w: market price must be positive", ErrValidation)
	}

	lo, hi := ivLow, ivHigh
	priceAt := func(vol float64) float64 {
		return blackScholes(req.SpotPrice, req.StrikePrice, req.TimeToExpiry, vol, req.RiskFreeRate, req.OptionType).Price
	}
	if marketPrice <= priceAt(lo) {
		return lo, nil
	}
	if marketPrice >= priceAt(hi) {
		return hi, nil
	}

	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		diff := priceAt(mid) - marketPrice
		if math.Abs(diff) < ivTol {
			return mid, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2, nil
}

// ChainGreeks recomputes Greeks for every contract in the latest stored
// snapshot, using each contract's stored IV and the latest close as spot.
func (s *greeksService) ChainGreeks(ctx context.Context, symbol string, expiry *time.Time, riskFreeRate float64) (*dto.ChainGreeksResponse, error) {
	quotes, err := s.chainRepo.FindChain(ctx, symbol, expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to load options chain: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no options chain for %s", ErrNoData, symbol)
	}

	candle, err := s.candleRepo.LatestClose(ctx, symbol)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no spot price for %s", ErrNoData, symbol)
		}
		return nil, fmt.Errorf("failed to resolve spot price: %w", err)
	}
	spot := candle.Close

	now := time.Now().UTC()
	contracts := make([]dto.ContractGreeks, 0, len(quotes))
	for _, q := range quotes {
		tte := q.Expiry.Sub(now).Hours() / 24 / daysPerYear
		if tte < 0 {
			tte = 0
		}
		iv := q.IV
		if iv <= 0 {
			iv = 0.2
		}
		g := blackScholes(spot, q.Strike, tte, iv, riskFreeRate, string(q.OptionType))
		contracts = append(contracts, dto.ContractGreeks{
			Strike:     q.Strike,
			OptionType: string(q.OptionType),
			LTP:        q.LTP,
			IV:         iv,
			Price:      g.Price,
			Delta:      g.Delta,
			Gamma:      g.Gamma,
			Theta:      g.Theta,
			Vega:       g.Vega,
			Rho:        g.Rho,
		})
	}

	s.logger.Debug("chain greeks computed",
		logger.Field("symbol", symbol),
		logger.Field("contracts", len(contracts)))

	return &dto.ChainGreeksResponse{
		Symbol:       symbol,
		Expiry:       formatExpiry(expiry),
		SpotPrice:    spot,
		RiskFreeRate: riskFreeRate,
		Contracts:    contracts,
	}, nil
}

func validateGreeksRequest(req *dto.GreeksRequest) error {
	if req.SpotPrice <= 0 {
		return fmt.Errorf("%w: spot price must be positive", ErrValidation)
	}
	if req.StrikePrice <= 0 {
		return fmt.Errorf("%w: strike price must be positive", ErrValidation)
	}
	if req.TimeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry cannot be negative", ErrValidation)
	}
	if req.Volatility < 0 {
		return fmt.Errorf("%w: volatility cannot be negative", ErrValidation)
	}
	if req.OptionType != string(entity.OptionTypeCall) && req.OptionType != string(entity.OptionTypePut) {
		return fmt.Errorf("%w: option type must be CE or PE", ErrValidation)
	}
	return nil
}

// blackScholes prices a European option and its Greeks. Theta is quoted per
// calendar day, vega and rho per 1% move. At expiry (t<=0) it degrades to
// intrinsic value with step deltas.
func blackScholes(spot, strike, t, vol, rate float64, optionType string) *dto.GreeksResponse {
	isCall := optionType == string(entity.OptionTypeCall)

	if t <= 0 || vol <= 0 {
		intrinsic := math.Max(spot-strike, 0)
		delta := 0.0
		if !isCall {
			intrinsic = math.Max(strike-spot, 0)
		}
		if intrinsic > 0 {
			if isCall {
				delta = 1
			} else {
				delta = -1
			}
		}
		return &dto.GreeksResponse{Price: intrinsic, Delta: delta}
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+vol*vol/2)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT

	discount := math.Exp(-rate * t)
	pdfD1 := normPDF(d1)

	var price, delta, theta, rho float64
	if isCall {
		price = spot*normCDF(d1) - strike*discount*normCDF(d2)
		delta = normCDF(d1)
		theta = (-spot*pdfD1*vol/(2*sqrtT) - rate*strike*discount*normCDF(d2)) / daysPerYear
		rho = strike * t * discount * normCDF(d2) / 100
	} else {
		price = strike*discount*normCDF(-d2) - spot*normCDF(-d1)
		delta = normCDF(d1) - 1
		theta = (-spot*pdfD1*vol/(2*sqrtT) + rate*strike*discount*normCDF(-d2)) / daysPerYear
		rho = -strike * t * discount * normCDF(-d2) / 100
	}

	gamma := pdfD1 / (spot * vol * sqrtT)
	vega := spot * pdfD1 * sqrtT / 100

	return &dto.GreeksResponse{
		Price: round4(price),
		Delta: round4(delta),
		Gamma: round4(gamma),
		Theta: round4(theta),
		Vega:  round4(vega),
		Rho:   round4(rho),
	}
}

func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
