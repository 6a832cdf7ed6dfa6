package prom

import (
	"time"

	"github.com/dafage00/MHXYPro/infrastructures/market"
)

// InstallMarketHooks wires Prometheus metrics with analyzer observability callbacks.
func InstallMarketHooks(a *market.Analyzer) {
	a.InstallHooks(market.Hooks{
		OnLine: func() {
			MarketLinesTotal.Inc()
		},
		OnRecord: func(rec *market.TradeRecord) {
			MarketRecordsTotal.WithLabelValues(string(rec.TradeType)).Inc()
			if rec.Price == 0 {
				MarketUnpricedRecordsTotal.Inc()
			}
		},
		OnLatency: func(d time.Duration) {
			MarketAnalyzeSeconds.Observe(d.Seconds())
		},
	})
	MarketDictionarySize.Set(float64(a.Dictionary().Len()))
}
