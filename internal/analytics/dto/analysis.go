package dto

import "time"

// StrikeOI is one strike with its open interest.
type StrikeOI struct {
	Strike float64 `json:"strike"`
	OI     int64   `json:"oi"`
}

// MaxPainAnalysis is the result of a Max Pain sweep over a chain.
type MaxPainAnalysis struct {
	Symbol            string    `json:"symbol"`
	Expiry            string    `json:"expiry,omitempty"`
	MaxPainStrike     float64   `json:"max_pain_strike"`
	CurrentSpot       float64   `json:"current_spot"`
	DistancePoints    float64   `json:"distance_points"`
	DistancePercent   float64   `json:"distance_percent"`
	MinPainValue      float64   `json:"min_pain_value"`
	Signal            string    `json:"signal"`
	Probability       string    `json:"probability"`
	Interpretation    string    `json:"interpretation"`
	LikelyExpiryZones []float64 `json:"likely_expiry_zones"`
	Implications      []string  `json:"implications"`
}

// PCRAnalysis is the Put-Call Ratio breakdown for a chain.
type PCRAnalysis struct {
	Symbol          string   `json:"symbol"`
	Expiry          string   `json:"expiry,omitempty"`
	PCROI           float64  `json:"pcr_oi"`
	PCRVolume       float64  `json:"pcr_volume"`
	ATMPCR          float64  `json:"atm_pcr"`
	TotalCallOI     int64    `json:"total_call_oi"`
	TotalPutOI      int64    `json:"total_put_oi"`
	TotalCallVolume int64    `json:"total_call_volume"`
	TotalPutVolume  int64    `json:"total_put_volume"`
	Sentiment       string   `json:"sentiment"`
	Signal          string   `json:"signal"`
	Action          string   `json:"action"`
	Interpretation  string   `json:"interpretation"`
	Implications    []string `json:"implications"`
}

// OIBuildupAnalysis locates support/resistance from OI concentration.
type OIBuildupAnalysis struct {
	Symbol         string     `json:"symbol"`
	Expiry         string     `json:"expiry,omitempty"`
	CurrentSpot    float64    `json:"current_spot"`
	TopCallStrikes []StrikeOI `json:"top_call_strikes"`
	TopPutStrikes  []StrikeOI `json:"top_put_strikes"`
	CallResistance float64    `json:"call_resistance"`
	PutSupport     float64    `json:"put_support"`
	BuildupSignal  string     `json:"buildup_signal"`
	Interpretation string     `json:"interpretation"`
	Action         string     `json:"action"`
	TotalCallOI    int64      `json:"total_call_oi"`
	TotalPutOI     int64      `json:"total_put_oi"`
}

// SentimentSummary is the composite vote across all OI analyses.
type SentimentSummary struct {
	OverallSentiment  string   `json:"overall_sentiment"`
	ConfidencePercent float64  `json:"confidence_percent"`
	BullishSignals    int      `json:"bullish_signals"`
	BearishSignals    int      `json:"bearish_signals"`
	NeutralSignals    int      `json:"neutral_signals"`
	Recommendations   []string `json:"recommendations"`
	KeyMessage        string   `json:"key_message"`
}

// OIAnalysisReport combines every OI analysis for a symbol.
type OIAnalysisReport struct {
	Symbol         string             `json:"symbol"`
	Expiry         string             `json:"expiry,omitempty"`
	SpotPrice      float64            `json:"spot_price"`
	AnalysisTime   time.Time          `json:"analysis_time"`
	TotalContracts int                `json:"total_contracts"`
	PCR            *PCRAnalysis       `json:"pcr_analysis"`
	MaxPain        *MaxPainAnalysis   `json:"max_pain_analysis"`
	OIBuildup      *OIBuildupAnalysis `json:"oi_buildup_analysis"`
	Sentiment      *SentimentSummary  `json:"overall_sentiment"`
}
