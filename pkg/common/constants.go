package common

const (
	RedisKeyCandleCache = "cache:candles"
	RedisChannelHealth  = "monitor.service.health"
)

// Timeframes accepted by the candle store and the indicators endpoints.
var ValidTimeframes = []string{"1min", "5min", "15min", "1hr", "daily"}

// IsValidTimeframe reports whether tf is one of the supported timeframes.
func IsValidTimeframe(tf string) bool {
	for _, v := range ValidTimeframes {
		if v == tf {
			return true
		}
	}
	return false
}
