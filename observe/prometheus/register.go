package prom

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var regOnce sync.Once

// MustRegisterAll registers all Prometheus collectors exactly once.
func MustRegisterAll() {
	regOnce.Do(func() {
		prometheus.MustRegister(
			// market
			MarketLinesTotal,
			MarketRecordsTotal,
			MarketUnpricedRecordsTotal,
			MarketAnalyzeSeconds,

			// learning
			MarketCorrectionsTotal,
			MarketDictionarySize,

			// store
			MarketStoreInsertRowsTotal,
			MarketStoreErrorsTotal,
		)
	})
}
