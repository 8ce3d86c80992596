// Package seed generates realistic sample market data for local development.
// OI clusters at the ATM strike and at round-number strikes, the way a real
// NIFTY chain looks.
package seed

import (
	"math"
	"math/rand"
	"time"

	"options-trading-backend/internal/entity"
)

const (
	strikeStep   = 50
	strikeSpan   = 20 // strikes on each side of ATM
	baseOI       = 1000
	baseIV       = 0.15
	ivOTMSlope   = 0.5
	timeValuePct = 0.001
)

// GenerateChain builds a full CE+PE chain snapshot around the given spot.
func GenerateChain(symbol string, spot float64, expiry time.Time, capturedAt time.Time, rng *rand.Rand) []entity.OptionQuote {
	atm := math.Round(spot/strikeStep) * strikeStep
	expiryDays := expiry.Sub(capturedAt).Hours() / 24
	if expiryDays < 1 {
		expiryDays = 1
	}

	quotes := make([]entity.OptionQuote, 0, (2*strikeSpan+1)*2)
	for i := -strikeSpan; i <= strikeSpan; i++ {
		strike := atm + float64(i)*strikeStep
		if strike <= 0 {
			continue
		}
		quotes = append(quotes,
			generateQuote(symbol, strike, entity.OptionTypeCall, spot, expiry, expiryDays, capturedAt, rng),
			generateQuote(symbol, strike, entity.OptionTypePut, spot, expiry, expiryDays, capturedAt, rng),
		)
	}
	return quotes
}

func generateQuote(symbol string, strike float64, optType entity.OptionType, spot float64,
	expiry time.Time, expiryDays float64, capturedAt time.Time, rng *rand.Rand) entity.OptionQuote {

	distance := math.Abs(strike - spot)

	// OI concentrates at and near the money.
	oiMultiplier := 0.5
	switch {
	case distance < 50:
		oiMultiplier = 4.0
	case distance < 150:
		oiMultiplier = 2.5
	case distance < 300:
		oiMultiplier = 1.5
	}

	// Round-number strikes attract writers.
	switch {
	case math.Mod(strike, 500) == 0:
		oiMultiplier *= 2.0
	case math.Mod(strike, 200) == 0:
		oiMultiplier *= 1.8
	case math.Mod(strike, 100) == 0:
		oiMultiplier *= 1.5
	}

	oiMultiplier *= uniform(rng, 0.7, 1.3)
	oi := int64(baseOI * oiMultiplier)
	volume := int64(float64(oi) * uniform(rng, 0.1, 0.3))

	timeFactor := math.Max(0.1, expiryDays/30)
	var intrinsic float64
	if optType == entity.OptionTypeCall {
		intrinsic = math.Max(0, spot-strike)
	} else {
		intrinsic = math.Max(0, strike-spot)
	}
	timeValue := strike * timeValuePct * timeFactor * uniform(rng, 0.5, 1.5)
	ltp := intrinsic + timeValue

	spread := math.Max(0.05, ltp*0.01)
	bid := math.Max(0.05, ltp-spread/2)
	ask := ltp + spread/2

	var delta float64
	if optType == entity.OptionTypeCall {
		switch {
		case distance < 25:
			delta = 0.5
		case strike < spot:
			delta = 0.8
		default:
			delta = 0.2
		}
	} else {
		switch {
		case distance < 25:
			delta = -0.5
		case strike > spot:
			delta = -0.8
		default:
			delta = -0.2
		}
	}

	iv := baseIV + (distance/spot)*ivOTMSlope

	return entity.OptionQuote{
		Symbol:         symbol,
		Expiry:         expiry,
		Strike:         strike,
		OptionType:     optType,
		LTP:            round2(ltp),
		Bid:            round2(bid),
		Ask:            round2(ask),
		Volume:         volume,
		OI:             oi,
		Delta:          delta,
		Gamma:          0.001,
		Theta:          round2(-ltp * 0.1),
		Vega:           round2(ltp * 0.1),
		IV:             math.Round(iv*1000) / 1000,
		IntrinsicValue: round2(intrinsic),
		TimeValue:      round2(timeValue),
		CapturedAt:     capturedAt,
	}
}

// GenerateCandles builds a random-walk OHLCV series ending at `end` with the
// last close equal to spot.
func GenerateCandles(symbol, timeframe string, spot float64, count int, end time.Time, rng *rand.Rand) []entity.Candle {
	if count <= 0 {
		return nil
	}
	step := timeframeDuration(timeframe)
	candles := make([]entity.Candle, 0, count)

	// Walk backwards from the final close so the series ends at spot.
	closes := make([]float64, count)
	closes[count-1] = spot
	for i := count - 2; i >= 0; i-- {
		drift := spot * 0.001 * (rng.Float64()*2 - 1)
		closes[i] = closes[i+1] - drift
	}

	for i := 0; i < count; i++ {
		close := closes[i]
		open := close * uniform(rng, 0.998, 1.002)
		high := math.Max(open, close) * uniform(rng, 1.0, 1.002)
		low := math.Min(open, close) * uniform(rng, 0.998, 1.0)
		ts := end.Add(-time.Duration(count-1-i) * step)
		candles = append(candles, entity.Candle{
			Symbol:    symbol,
			Timeframe: timeframe,
			Timestamp: ts,
			Open:      round2(open),
			High:      round2(high),
			Low:       round2(low),
			Close:     round2(close),
			Volume:    int64(uniform(rng, 100000, 500000)),
		})
	}
	return candles
}

func timeframeDuration(timeframe string) time.Duration {
	switch timeframe {
	case "1min":
		return time.Minute
	case "5min":
		return 5 * time.Minute
	case "15min":
		return 15 * time.Minute
	case "1hr":
		return time.Hour
	default:
		return 24 * time.Hour
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
