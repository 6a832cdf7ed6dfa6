package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dafage00/MHXYPro/controllers"
	"github.com/dafage00/MHXYPro/infrastructures/cache"
	"github.com/dafage00/MHXYPro/infrastructures/config"
	"github.com/dafage00/MHXYPro/infrastructures/log"
	"github.com/dafage00/MHXYPro/infrastructures/market"
	"github.com/dafage00/MHXYPro/infrastructures/store"
	prom "github.com/dafage00/MHXYPro/observe/prometheus"
)

var serverHealthGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "mhxy",
	Subsystem: "market",
	Name:      "health_status",
	Help:      "Health status of the market service (1=healthy).",
})

func main() {
	cfg := config.GetInstance()
	logger := log.GetInstance().Sugar
	defer log.Sync()

	logger.Infof("market service starting, PID=%d", os.Getpid())

	prom.MustRegisterAll()
	serverHealthGauge.Set(1)

	// 词典：用户文件叠在内置默认之上，文件缺失只是回退不致命
	var provider market.PhoneticProvider
	if cfg.Analyzer.EnablePhonetic {
		provider = market.NewPinyinProvider()
	}
	dict := market.LoadDictionary(cfg.Dictionary.Path, provider)
	logger.Infof("dictionary loaded, %d items", dict.Len())

	var seg *market.ItemSegmenter
	if cfg.Analyzer.EnableSegmenter {
		seg = market.NewItemSegmenter(dict)
	}

	analyzer := market.NewAnalyzer(dict, seg, market.AnalyzerConfig{
		FuzzyThreshold:   cfg.Analyzer.FuzzyThreshold,
		ConfidenceFloor:  cfg.Analyzer.ConfidenceFloor,
		RawCoinCutoff:    cfg.Analyzer.RawCoinCutoff,
		RecentWindow:     cfg.Analyzer.RecentWindow,
		RawLogWindow:     cfg.Analyzer.RawLogWindow,
		DefaultTradeType: market.TradeType(cfg.Analyzer.DefaultTradeType),
	})
	prom.InstallMarketHooks(analyzer)

	recordStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatalf("open record store failed: %v", err)
	}
	defer recordStore.Close()
	if deleted, err := recordStore.Cleanup(cfg.Store.RetentionMonths, time.Now()); err != nil {
		prom.MarketStoreErrorsTotal.WithLabelValues("cleanup").Inc()
		logger.Warnf("cleanup old records failed: %v", err)
	} else if deleted > 0 {
		logger.Infof("cleaned up %d expired records", deleted)
	}

	var quotes *cache.QuoteCache
	if cfg.Redis.Enabled {
		quotes, err = cache.New(cfg)
		if err != nil {
			// 缓存是加速层，连不上继续跑
			logger.Warnf("quote cache unavailable: %v", err)
		} else {
			defer quotes.Close()
		}
	}

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mc := controllers.NewMarketController(analyzer, recordStore, quotes, cfg.Dictionary.Path, cfg.Dictionary.AutoSave)
	mc.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("listening on %s", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server exited: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Info("shutdown signal received")
	serverHealthGauge.Set(0)

	// 退出前把学到的词典落盘
	if err := dict.Save(cfg.Dictionary.Path); err != nil {
		logger.Errorf("save dictionary on shutdown: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown http server: %v", err)
	}
}
