package dto

// GreeksRequest holds Black-Scholes inputs for a single contract.
type GreeksRequest struct {
	SpotPrice    float64 `json:"spot_price"`
	StrikePrice  float64 `json:"strike_price"`
	TimeToExpiry float64 `json:"time_to_expiry"` // years
	Volatility   float64 `json:"volatility"`     // annualized, e.g. 0.18
	RiskFreeRate float64 `json:"risk_free_rate"` // e.g. 0.065
	OptionType   string  `json:"option_type"`    // CE or PE
}

// GreeksResponse is a priced contract with its full Greeks set.
type GreeksResponse struct {
	Price float64 `json:"price"`
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"` // per day
	Vega  float64 `json:"vega"`  // per 1% vol move
	Rho   float64 `json:"rho"`   // per 1% rate move
	IV    float64 `json:"iv,omitempty"`
}

// ContractGreeks is one chain row with recomputed Greeks.
type ContractGreeks struct {
	Strike     float64 `json:"strike"`
	OptionType string  `json:"option_type"`
	LTP        float64 `json:"ltp"`
	IV         float64 `json:"iv"`
	Price      float64 `json:"price"`
	Delta      float64 `json:"delta"`
	Gamma      float64 `json:"gamma"`
	Theta      float64 `json:"theta"`
	Vega       float64 `json:"vega"`
	Rho        float64 `json:"rho"`
}

// ChainGreeksResponse is the recomputed Greeks across a chain snapshot.
type ChainGreeksResponse struct {
	Symbol       string           `json:"symbol"`
	Expiry       string           `json:"expiry"`
	SpotPrice    float64          `json:"spot_price"`
	RiskFreeRate float64          `json:"risk_free_rate"`
	Contracts    []ContractGreeks `json:"contracts"`
}
