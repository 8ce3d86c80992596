package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"options-trading-backend/internal/analytics/dto"
	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// atmRange is the strike distance (points) counted as at-the-money for PCR.
const atmRange = 100

// oiDominanceRatio is the OI imbalance that flags a directional buildup.
const oiDominanceRatio = 1.3

// OIAnalysisService derives Max Pain, PCR and OI buildup from the stored
// options chain.
type OIAnalysisService interface {
	MaxPain(ctx context.Context, symbol string, expiry *time.Time) (*dto.MaxPainAnalysis, error)
	PutCallRatio(ctx context.Context, symbol string, expiry *time.Time) (*dto.PCRAnalysis, error)
	OIBuildup(ctx context.Context, symbol string, expiry *time.Time) (*dto.OIBuildupAnalysis, error)
	Comprehensive(ctx context.Context, symbol string, expiry *time.Time) (*dto.OIAnalysisReport, error)
}

// NewOIAnalysisService creates a new OI analysis service. Results are
// memoized in-process for cacheTTL since chains only change on snapshot
// ingestion.
func NewOIAnalysisService(
	chainRepo repository.OptionChainRepository,
	candleRepo repository.CandleRepository,
	cacheTTL time.Duration,
	logger *logger.Logger,
) OIAnalysisService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &oiAnalysisService{
		chainRepo:  chainRepo,
		candleRepo: candleRepo,
		memo:       gocache.New(cacheTTL, 2*cacheTTL),
		logger:     logger,
	}
}

type oiAnalysisService struct {
	chainRepo  repository.OptionChainRepository
	candleRepo repository.CandleRepository
	memo       *gocache.Cache
	logger     *logger.Logger
}

// MaxPain sweeps every strike as a hypothetical expiry settlement and returns
// the strike minimizing aggregate option-writer payout, weighted by OI.
func (s *oiAnalysisService) MaxPain(ctx context.Context, symbol string, expiry *time.Time) (*dto.MaxPainAnalysis, error) {
	key := memoKey("maxpain", symbol, expiry)
	if v, ok := s.memo.Get(key); ok {
		return v.(*dto.MaxPainAnalysis), nil
	}

	quotes, spot, err := s.loadChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}

	result := computeMaxPain(quotes, spot)
	result.Symbol = symbol
	result.Expiry = formatExpiry(expiry)

	s.memo.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// PutCallRatio computes OI, volume and ATM PCR with sentiment bands.
func (s *oiAnalysisService) PutCallRatio(ctx context.Context, symbol string, expiry *time.Time) (*dto.PCRAnalysis, error) {
	key := memoKey("pcr", symbol, expiry)
	if v, ok := s.memo.Get(key); ok {
		return v.(*dto.PCRAnalysis), nil
	}

	quotes, spot, err := s.loadChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}

	result := computePCR(quotes, spot)
	result.Symbol = symbol
	result.Expiry = formatExpiry(expiry)

	s.memo.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// OIBuildup locates OI-derived resistance and support levels.
func (s *oiAnalysisService) OIBuildup(ctx context.Context, symbol string, expiry *time.Time) (*dto.OIBuildupAnalysis, error) {
	key := memoKey("buildup", symbol, expiry)
	if v, ok := s.memo.Get(key); ok {
		return v.(*dto.OIBuildupAnalysis), nil
	}

	quotes, spot, err := s.loadChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}

	result := computeOIBuildup(quotes, spot)
	result.Symbol = symbol
	result.Expiry = formatExpiry(expiry)

	s.memo.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// Comprehensive combines PCR, Max Pain and buildup into a sentiment vote.
// The report is memoized like the single analyses, and a run also fills their
// memo entries since everything derives from the same chain load.
func (s *oiAnalysisService) Comprehensive(ctx context.Context, symbol string, expiry *time.Time) (*dto.OIAnalysisReport, error) {
	key := memoKey("oi", symbol, expiry)
	if v, ok := s.memo.Get(key); ok {
		return v.(*dto.OIAnalysisReport), nil
	}

	quotes, spot, err := s.loadChain(ctx, symbol, expiry)
	if err != nil {
		return nil, err
	}

	report := &dto.OIAnalysisReport{
		Symbol:         symbol,
		Expiry:         formatExpiry(expiry),
		SpotPrice:      spot,
		AnalysisTime:   time.Now().UTC(),
		TotalContracts: len(quotes),
		PCR:            computePCR(quotes, spot),
		MaxPain:        computeMaxPain(quotes, spot),
		OIBuildup:      computeOIBuildup(quotes, spot),
	}
	report.PCR.Symbol, report.MaxPain.Symbol, report.OIBuildup.Symbol = symbol, symbol, symbol
	report.PCR.Expiry, report.MaxPain.Expiry, report.OIBuildup.Expiry = report.Expiry, report.Expiry, report.Expiry
	report.Sentiment = deriveSentiment(report)

	s.memo.Set(memoKey("pcr", symbol, expiry), report.PCR, gocache.DefaultExpiration)
	s.memo.Set(memoKey("maxpain", symbol, expiry), report.MaxPain, gocache.DefaultExpiration)
	s.memo.Set(memoKey("buildup", symbol, expiry), report.OIBuildup, gocache.DefaultExpiration)
	s.memo.Set(key, report, gocache.DefaultExpiration)

	s.logger.Info("OI analysis completed",
		logger.Field("symbol", symbol),
		logger.Field("contracts", len(quotes)),
		logger.Field("sentiment", report.Sentiment.OverallSentiment))
	return report, nil
}

// loadChain fetches the latest snapshot and resolves the spot price. When no
// candle data exists the median strike stands in for spot.
func (s *oiAnalysisService) loadChain(ctx context.Context, symbol string, expiry *time.Time) ([]entity.OptionQuote, float64, error) {
	quotes, err := s.chainRepo.FindChain(ctx, symbol, expiry)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load options chain: %w", err)
	}
	if len(quotes) == 0 {
		return nil, 0, fmt.Errorf("%w: no options chain for %s", ErrNoData, symbol)
	}

	spot := medianStrike(quotes)
	candle, err := s.candleRepo.LatestClose(ctx, symbol)
	if err == nil {
		spot = candle.Close
	} else if err != gorm.ErrRecordNotFound {
		return nil, 0, fmt.Errorf("failed to resolve spot price: %w", err)
	}
	return quotes, spot, nil
}

func computeMaxPain(quotes []entity.OptionQuote, spot float64) *dto.MaxPainAnalysis {
	strikes := uniqueStrikes(quotes)

	type pain struct {
		strike float64
		total  float64
	}
	pains := make([]pain, 0, len(strikes))
	for _, test := range strikes {
		var total float64
		for _, q := range quotes {
			if q.OptionType == entity.OptionTypeCall && test > q.Strike {
				total += (test - q.Strike) * float64(q.OI)
			} else if q.OptionType == entity.OptionTypePut && test < q.Strike {
				total += (q.Strike - test) * float64(q.OI)
			}
		}
		pains = append(pains, pain{strike: test, total: total})
	}

	sort.Slice(pains, func(i, j int) bool { return pains[i].total < pains[j].total })
	best := pains[0]

	zones := make([]float64, 0, 5)
	for i := 0; i < len(pains) && i < 5; i++ {
		zones = append(zones, pains[i].strike)
	}

	distance := best.strike - spot
	distancePct := 0.0
	if spot > 0 {
		distancePct = distance / spot * 100
	}

	var signal, probability, interpretation string
	switch {
	case math.Abs(distancePct) < 1:
		signal = "NEUTRAL_EXPIRY"
		probability = "HIGH"
		interpretation = fmt.Sprintf("Max Pain at %.0f is very close to spot - neutral expiry expected", best.strike)
	case distancePct > 2:
		signal = "BULLISH_EXPIRY_BIAS"
		probability = "MODERATE"
		interpretation = fmt.Sprintf("Max Pain at %.0f suggests upward pressure towards expiry", best.strike)
	case distancePct < -2:
		signal = "BEARISH_EXPIRY_BIAS"
		probability = "MODERATE"
		interpretation = fmt.Sprintf("Max Pain at %.0f suggests downward pressure towards expiry", best.strike)
	default:
		signal = "MILD_DIRECTIONAL_BIAS"
		probability = "LOW"
		interpretation = fmt.Sprintf("Max Pain at %.0f shows mild directional bias", best.strike)
	}

	return &dto.MaxPainAnalysis{
		MaxPainStrike:     best.strike,
		CurrentSpot:       spot,
		DistancePoints:    math.Round(distance*10) / 10,
		DistancePercent:   math.Round(distancePct*100) / 100,
		MinPainValue:      best.total,
		Signal:            signal,
		Probability:       probability,
		Interpretation:    interpretation,
		LikelyExpiryZones: zones,
		Implications:      maxPainImplications(signal),
	}
}

func maxPainImplications(signal string) []string {
	switch signal {
	case "NEUTRAL_EXPIRY":
		return []string{
			"Short straddles/strangles around current levels",
			"Iron condors with wide strikes",
			"Time decay strategies",
		}
	case "BULLISH_EXPIRY_BIAS":
		return []string{
			"Bull call spreads targeting the max pain level",
			"Cash-secured puts below current levels",
			"Covered calls above max pain",
		}
	case "BEARISH_EXPIRY_BIAS":
		return []string{
			"Bear put spreads targeting the max pain level",
			"Covered calls at current levels",
			"Protective puts for long positions",
		}
	default:
		return []string{
			"Balanced spreads in direction of bias",
			"Moderate position sizing",
			"Quick profit taking on directional moves",
		}
	}
}

func computePCR(quotes []entity.OptionQuote, spot float64) *dto.PCRAnalysis {
	var callOI, putOI, callVol, putVol, atmCallOI, atmPutOI int64
	for _, q := range quotes {
		atm := math.Abs(q.Strike-spot) <= atmRange
		if q.OptionType == entity.OptionTypeCall {
			callOI += q.OI
			callVol += q.Volume
			if atm {
				atmCallOI += q.OI
			}
		} else {
			putOI += q.OI
			putVol += q.Volume
			if atm {
				atmPutOI += q.OI
			}
		}
	}

	pcrOI := ratio(putOI, callOI)
	pcrVol := ratio(putVol, callVol)
	atmPCR := ratio(atmPutOI, atmCallOI)

	var sentiment, signal, action string
	switch {
	case pcrOI > 1.5:
		sentiment, signal, action = "EXTREMELY_BEARISH", "OVERSOLD_BOUNCE_EXPECTED", "CONSIDER_CONTRARIAN_BULLISH"
	case pcrOI > 1.2:
		sentiment, signal, action = "BEARISH", "PUT_HEAVY_ACTIVITY", "CAUTIOUS_BULLISH"
	case pcrOI > 0.8:
		sentiment, signal, action = "NEUTRAL", "BALANCED_SENTIMENT", "FOLLOW_TREND"
	case pcrOI > 0.6:
		sentiment, signal, action = "BULLISH", "CALL_HEAVY_ACTIVITY", "CAUTIOUS_BEARISH"
	default:
		sentiment, signal, action = "EXTREMELY_BULLISH", "OVERBOUGHT_CORRECTION_EXPECTED", "CONSIDER_CONTRARIAN_BEARISH"
	}

	return &dto.PCRAnalysis{
		PCROI:           round3(pcrOI),
		PCRVolume:       round3(pcrVol),
		ATMPCR:          round3(atmPCR),
		TotalCallOI:     callOI,
		TotalPutOI:      putOI,
		TotalCallVolume: callVol,
		TotalPutVolume:  putVol,
		Sentiment:       sentiment,
		Signal:          signal,
		Action:          action,
		Interpretation:  fmt.Sprintf("PCR of %.2f indicates %s sentiment", pcrOI, sentiment),
		Implications:    pcrImplications(pcrOI),
	}
}

func pcrImplications(pcr float64) []string {
	switch {
	case pcr > 1.3:
		return []string{
			"Buy calls on oversold bounces",
			"Sell puts for premium collection",
			"Wait for reversal confirmation before entering",
		}
	case pcr < 0.7:
		return []string{
			"Buy puts on overbought corrections",
			"Sell calls for premium collection",
			"Market may continue higher despite overbought conditions",
		}
	default:
		return []string{
			"Follow the underlying trend direction",
			"Balanced spreads and straddles",
			"Look for breakout confirmation",
		}
	}
}

func computeOIBuildup(quotes []entity.OptionQuote, spot float64) *dto.OIBuildupAnalysis {
	var calls, puts []entity.OptionQuote
	var callOI, putOI int64
	for _, q := range quotes {
		if q.OptionType == entity.OptionTypeCall {
			calls = append(calls, q)
			callOI += q.OI
		} else {
			puts = append(puts, q)
			putOI += q.OI
		}
	}

	topCalls := topStrikesByOI(calls, 5)
	topPuts := topStrikesByOI(puts, 5)

	var resistance, support float64
	if len(topCalls) > 0 {
		resistance = topCalls[0].Strike
	}
	if len(topPuts) > 0 {
		support = topPuts[0].Strike
	}

	var signal, interpretation, action string
	switch {
	case float64(callOI) > float64(putOI)*oiDominanceRatio:
		signal = "CALL_HEAVY_BUILDUP"
		interpretation = "Bullish sentiment with call accumulation"
		action = "WATCH_FOR_BREAKOUT_ABOVE_RESISTANCE"
	case float64(putOI) > float64(callOI)*oiDominanceRatio:
		signal = "PUT_HEAVY_BUILDUP"
		interpretation = "Bearish sentiment with put accumulation"
		action = "WATCH_FOR_BREAKDOWN_BELOW_SUPPORT"
	default:
		signal = "BALANCED_BUILDUP"
		interpretation = "Balanced OI suggests range-bound movement"
		action = "RANGE_TRADING_STRATEGIES"
	}

	return &dto.OIBuildupAnalysis{
		CurrentSpot:    spot,
		TopCallStrikes: topCalls,
		TopPutStrikes:  topPuts,
		CallResistance: resistance,
		PutSupport:     support,
		BuildupSignal:  signal,
		Interpretation: interpretation,
		Action:         action,
		TotalCallOI:    callOI,
		TotalPutOI:     putOI,
	}
}

// deriveSentiment tallies one vote per analysis and reports the majority.
func deriveSentiment(report *dto.OIAnalysisReport) *dto.SentimentSummary {
	var votes []string

	switch {
	case strings.Contains(report.PCR.Sentiment, "BULLISH"):
		votes = append(votes, "BULLISH")
	case strings.Contains(report.PCR.Sentiment, "BEARISH"):
		votes = append(votes, "BEARISH")
	default:
		votes = append(votes, "NEUTRAL")
	}

	if strings.Contains(report.MaxPain.Signal, "BULLISH") {
		votes = append(votes, "BULLISH")
	} else if strings.Contains(report.MaxPain.Signal, "BEARISH") {
		votes = append(votes, "BEARISH")
	}

	if strings.Contains(report.OIBuildup.BuildupSignal, "CALL_HEAVY") {
		votes = append(votes, "BULLISH")
	} else if strings.Contains(report.OIBuildup.BuildupSignal, "PUT_HEAVY") {
		votes = append(votes, "BEARISH")
	}

	bullish, bearish, neutral := 0, 0, 0
	for _, v := range votes {
		switch v {
		case "BULLISH":
			bullish++
		case "BEARISH":
			bearish++
		default:
			neutral++
		}
	}

	overall := "NEUTRAL"
	confidence := 50.0
	switch {
	case bullish > bearish:
		overall = "BULLISH"
		confidence = math.Min(90, float64(bullish)/float64(len(votes))*100)
	case bearish > bullish:
		overall = "BEARISH"
		confidence = math.Min(90, float64(bearish)/float64(len(votes))*100)
	}

	var recommendations []string
	switch {
	case overall == "BULLISH" && confidence > 70:
		recommendations = []string{
			"Consider bullish strategies: long calls, bull call spreads",
			"Sell puts for premium collection",
			"Watch for breakout above resistance levels",
		}
	case overall == "BEARISH" && confidence > 70:
		recommendations = []string{
			"Consider bearish strategies: long puts, bear put spreads",
			"Sell calls for premium collection",
			"Watch for breakdown below support levels",
		}
	default:
		recommendations = []string{
			"Range-bound strategies: iron condors, straddles",
			"Time decay strategies if low volatility",
			"Wait for clearer directional signals",
		}
	}

	return &dto.SentimentSummary{
		OverallSentiment:  overall,
		ConfidencePercent: math.Round(confidence*10) / 10,
		BullishSignals:    bullish,
		BearishSignals:    bearish,
		NeutralSignals:    neutral,
		Recommendations:   recommendations,
		KeyMessage:        fmt.Sprintf("%s sentiment with %.0f%% confidence based on OI analysis", overall, confidence),
	}
}

func topStrikesByOI(quotes []entity.OptionQuote, n int) []dto.StrikeOI {
	sorted := make([]entity.OptionQuote, len(quotes))
	copy(sorted, quotes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OI > sorted[j].OI })

	out := make([]dto.StrikeOI, 0, n)
	for i := 0; i < len(sorted) && i < n; i++ {
		out = append(out, dto.StrikeOI{Strike: sorted[i].Strike, OI: sorted[i].OI})
	}
	return out
}

func uniqueStrikes(quotes []entity.OptionQuote) []float64 {
	seen := map[float64]struct{}{}
	var strikes []float64
	for _, q := range quotes {
		if _, ok := seen[q.Strike]; !ok {
			seen[q.Strike] = struct{}{}
			strikes = append(strikes, q.Strike)
		}
	}
	sort.Float64s(strikes)
	return strikes
}

func medianStrike(quotes []entity.OptionQuote) float64 {
	strikes := uniqueStrikes(quotes)
	return strikes[len(strikes)/2]
}

func ratio(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}


func memoKey(kind, symbol string, expiry *time.Time) string {
	return fmt.Sprintf("%s:%s:%s", kind, symbol, formatExpiry(expiry))
}

func formatExpiry(expiry *time.Time) string {
	if expiry == nil {
		return ""
	}
	return expiry.Format("2006-01-02")
}
