package prom

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ===== Analyzer metrics =====
	MarketLinesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "lines_total",
			Help:      "Chat lines fed into the analyzer.",
		},
	)

	MarketRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "records_total",
			Help:      "Trade records emitted, by trade type.",
		},
		[]string{"trade_type"},
	)

	MarketUnpricedRecordsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "unpriced_records_total",
			Help:      "Records for items spotted without an explicit price.",
		},
	)

	MarketAnalyzeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "analyze_seconds",
			Help:      "Latency of one Analyze call over a batch of lines.",
			Buckets:   []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1},
		},
	)

	// ===== Learning metrics =====
	MarketCorrectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "corrections_total",
			Help:      "Learning-feedback corrections by result.",
		},
		[]string{"result"}, // ok|error
	)

	MarketDictionarySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "dictionary_size",
			Help:      "Canonical items currently in the alias dictionary.",
		},
	)

	// ===== Store metrics =====
	MarketStoreInsertRowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "store_insert_rows_total",
			Help:      "Trade records persisted to the record store.",
		},
	)

	MarketStoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mhxy",
			Subsystem: "market",
			Name:      "store_errors_total",
			Help:      "Record store failures by operation.",
		},
		[]string{"op"}, // insert|relabel|cleanup
	)
)
