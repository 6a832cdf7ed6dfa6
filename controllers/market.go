package controllers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/dafage00/MHXYPro/infrastructures/cache"
	"github.com/dafage00/MHXYPro/infrastructures/log"
	"github.com/dafage00/MHXYPro/infrastructures/market"
	"github.com/dafage00/MHXYPro/infrastructures/store"
	prom "github.com/dafage00/MHXYPro/observe/prometheus"
)

// MarketController 行情解析服务的HTTP入口。store和quotes都可以缺席，
// 缺席时相应能力退化但解析本身照常工作。
type MarketController struct {
	analyzer *market.Analyzer
	store    *store.RecordStore
	quotes   *cache.QuoteCache
	dictPath string
	autoSave bool
}

// NewMarketController 组装控制器
func NewMarketController(analyzer *market.Analyzer, recordStore *store.RecordStore, quotes *cache.QuoteCache, dictPath string, autoSave bool) *MarketController {
	return &MarketController{
		analyzer: analyzer,
		store:    recordStore,
		quotes:   quotes,
		dictPath: dictPath,
		autoSave: autoSave,
	}
}

// RegisterRoutes 挂载全部路由
func (mc *MarketController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/analyze", mc.Analyze)
	api.POST("/learn", mc.Learn)
	api.GET("/dictionary", mc.Dictionary)
	api.PUT("/dictionary", mc.UpdateDictionary)
	api.GET("/records/recent", mc.RecentRecords)
	api.GET("/records/raw", mc.RawLines)
	api.GET("/items/stats", mc.AllItemStats)
	api.GET("/items/:name/stats", mc.ItemStats)
	api.GET("/items/:name/records", mc.ItemRecords)
	api.GET("/quote/:name", mc.Quote)
}

type analyzeRequest struct {
	Lines []string `json:"lines" binding:"required"`
}

// Analyze 解析一批聊天行并落盘
func (mc *MarketController) Analyze(ctx *gin.Context) {
	req := &analyzeRequest{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		replyWithError(ctx, 400, "invalid request: "+err.Error())
		return
	}

	records := mc.analyzer.Analyze(req.Lines)

	if mc.store != nil && len(records) > 0 {
		if err := mc.store.Insert(records); err != nil {
			prom.MarketStoreErrorsTotal.WithLabelValues("insert").Inc()
			log.Errorf("persist records failed: %v", err)
		} else {
			prom.MarketStoreInsertRowsTotal.Add(float64(len(records)))
		}
	}
	if mc.quotes != nil && len(records) > 0 {
		if err := mc.quotes.StoreRecords(context.Background(), records); err != nil {
			log.Warnf("refresh quote cache failed: %v", err)
		}
	}

	replyWithData(ctx, gin.H{
		"count":   len(records),
		"records": records,
	})
}

// Learn 学习反馈：纠正一条记录并扩充词典
func (mc *MarketController) Learn(ctx *gin.Context) {
	correction := &market.Correction{}
	if err := ctx.ShouldBindJSON(correction); err != nil {
		replyWithError(ctx, 400, "invalid request: "+err.Error())
		return
	}
	if correction.StandardName == "" {
		replyWithError(ctx, 400, "standard_name is required")
		return
	}

	applyErr := mc.analyzer.ApplyCorrection(*correction)
	if applyErr != nil && errors.Cause(applyErr) != market.ErrRecordNotFound {
		prom.MarketCorrectionsTotal.WithLabelValues("error").Inc()
		replyWithError(ctx, 400, applyErr.Error())
		return
	}

	// 记录滚出内存窗口后词典端学习仍然生效，回填走库补救
	var storeErr error
	if mc.store != nil {
		item, _ := mc.analyzer.Dictionary().Lookup(correction.StandardName)
		storeErr = mc.store.Relabel(correction.RecordID, item.Name, item.Category, item.Subcategory)
		if storeErr != nil && errors.Cause(storeErr) != market.ErrRecordNotFound {
			prom.MarketStoreErrorsTotal.WithLabelValues("relabel").Inc()
			log.Warnf("relabel stored record failed: %v", storeErr)
		}
	}
	if applyErr != nil && (mc.store == nil || storeErr != nil) {
		prom.MarketCorrectionsTotal.WithLabelValues("error").Inc()
		replyWithError(ctx, 404, applyErr.Error())
		return
	}
	prom.MarketCorrectionsTotal.WithLabelValues("ok").Inc()
	prom.MarketDictionarySize.Set(float64(mc.analyzer.Dictionary().Len()))
	if mc.autoSave && mc.dictPath != "" {
		if err := mc.analyzer.Dictionary().Save(mc.dictPath); err != nil {
			log.Errorf("save dictionary failed: %v", err)
		}
	}

	replyWithData(ctx, gin.H{"learned": correction.StandardName})
}

// Dictionary 导出当前词典
func (mc *MarketController) Dictionary(ctx *gin.Context) {
	replyWithData(ctx, mc.analyzer.Dictionary().Items())
}

type updateDictionaryRequest struct {
	Items map[string]market.ItemConfig `json:"items" binding:"required"`
}

// UpdateDictionary 整体覆盖用户词典（内置默认仍然打底）
func (mc *MarketController) UpdateDictionary(ctx *gin.Context) {
	req := &updateDictionaryRequest{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		replyWithError(ctx, 400, "invalid request: "+err.Error())
		return
	}

	mc.analyzer.Dictionary().UpdateAliases(req.Items)
	prom.MarketDictionarySize.Set(float64(mc.analyzer.Dictionary().Len()))

	if mc.autoSave && mc.dictPath != "" {
		if err := mc.analyzer.Dictionary().Save(mc.dictPath); err != nil {
			log.Errorf("save dictionary failed: %v", err)
		}
	}
	replyWithData(ctx, gin.H{"size": mc.analyzer.Dictionary().Len()})
}

// RecentRecords 近期记录，优先走库，没库时退回内存窗口
func (mc *MarketController) RecentRecords(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	if mc.store != nil {
		records, err := mc.store.Recent(limit)
		if err != nil {
			replyWithError(ctx, 500, err.Error())
			return
		}
		replyWithData(ctx, records)
		return
	}

	records := mc.analyzer.Recent()
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	replyWithData(ctx, records)
}

// RawLines 最近进入解析器的原始行，排查误判用
func (mc *MarketController) RawLines(ctx *gin.Context) {
	replyWithData(ctx, mc.analyzer.RawLines())
}

// ItemRecords 单物品历史记录，时间倒序
func (mc *MarketController) ItemRecords(ctx *gin.Context) {
	if mc.store == nil {
		replyWithError(ctx, 503, "record store disabled")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	records, err := mc.store.QueryByItem(ctx.Param("name"), limit)
	if err != nil {
		replyWithError(ctx, 500, err.Error())
		return
	}
	replyWithData(ctx, records)
}

// AllItemStats 全量物品行情统计
func (mc *MarketController) AllItemStats(ctx *gin.Context) {
	if mc.store == nil {
		replyWithError(ctx, 503, "record store disabled")
		return
	}
	stats, err := mc.store.AllItemStats()
	if err != nil {
		replyWithError(ctx, 500, err.Error())
		return
	}
	replyWithData(ctx, stats)
}

// ItemStats 单物品行情统计
func (mc *MarketController) ItemStats(ctx *gin.Context) {
	if mc.store == nil {
		replyWithError(ctx, 503, "record store disabled")
		return
	}
	st, err := mc.store.ItemStats(ctx.Param("name"))
	if err == market.ErrRecordNotFound {
		replyWithError(ctx, 404, "no priced records for item")
		return
	}
	if err != nil {
		replyWithError(ctx, 500, err.Error())
		return
	}
	replyWithData(ctx, st)
}

// Quote 最新报价，type取buy或sell，默认sell
func (mc *MarketController) Quote(ctx *gin.Context) {
	if mc.quotes == nil {
		replyWithError(ctx, 503, "quote cache disabled")
		return
	}
	tradeType := market.TradeType(ctx.DefaultQuery("type", string(market.TradeSell)))
	rec, err := mc.quotes.LatestQuote(ctx.Request.Context(), ctx.Param("name"), tradeType)
	if err == cache.ErrQuoteNotFound {
		replyWithError(ctx, 404, "no cached quote")
		return
	}
	if err != nil {
		replyWithError(ctx, 500, err.Error())
		return
	}
	replyWithData(ctx, rec)
}
