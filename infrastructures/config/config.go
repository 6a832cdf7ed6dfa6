package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

var (
	instance *MhxyConfig
	once     sync.Once
)

// 配置文件查找顺序：环境变量MHXY_CONF > 当前目录 > /etc/mhxypro
const confEnvKey = "MHXY_CONF"

var confSearchPaths = []string{"config.toml", "/etc/mhxypro/config.toml"}

type logConfig struct {
	LogRootDir       string `toml:"logRootDir"`       // 日志根目录
	LogLevel         int    `toml:"logLevel"`         // 默认log级别
	EnableStacktrace bool   `toml:"enableStacktrace"` // 是否打印调用堆栈
}

type serverConfig struct {
	HTTPAddr        string `toml:"httpAddr"`        // 监听地址，默认:8080
	ShutdownTimeout int    `toml:"shutdownTimeout"` // 优雅退出超时（秒），默认10
}

// dictionaryConfig 词典持久化配置
type dictionaryConfig struct {
	Path     string `toml:"path"`     // 用户词典文件，默认items.json
	AutoSave bool   `toml:"autoSave"` // 学习反馈后是否立即落盘
}

// analyzerConfig 行情解析配置
type analyzerConfig struct {
	FuzzyThreshold   float64 `toml:"fuzzyThreshold"`   // 模糊匹配门槛，默认0.85
	ConfidenceFloor  float64 `toml:"confidenceFloor"`  // 记录置信度下限，默认0.6
	RawCoinCutoff    float64 `toml:"rawCoinCutoff"`    // 裸数字原值判定线，默认10000
	RecentWindow     int     `toml:"recentWindow"`     // 近期记录窗口，默认500
	RawLogWindow     int     `toml:"rawLogWindow"`     // 原始行窗口，默认100
	DefaultTradeType string  `toml:"defaultTradeType"` // 兜底交易方向，默认sell
	EnablePhonetic   bool    `toml:"enablePhonetic"`   // 是否启用拼音档
	EnableSegmenter  bool    `toml:"enableSegmenter"`  // 是否启用分词补刀
}

// storeConfig 记录落盘配置
type storeConfig struct {
	Path            string `toml:"path"`            // sqlite文件，默认market.db
	RetentionMonths int    `toml:"retentionMonths"` // 历史保留月数，默认3
}

// redisConfig 最新报价缓存配置
type redisConfig struct {
	Enabled  bool   `toml:"enabled"`  // 默认false，不影响核心功能
	Addr     string `toml:"addr"`     // redis服务器IP地址+端口号
	User     string `toml:"user"`     // 登录用户名
	Password string `toml:"password"` // 登录密码
	DB       int    `toml:"db"`       // 数据库号，默认0

	PoolSize     int `toml:"poolSize"`     // 连接池大小，默认10
	MinIdleConns int `toml:"minIdleConns"` // 最小空闲连接数，默认0
	DialTimeout  int `toml:"dialTimeout"`  // 连接超时（秒），默认5
	ReadTimeout  int `toml:"readTimeout"`  // 读超时（秒），默认3
	WriteTimeout int `toml:"writeTimeout"` // 写超时（秒），默认3
	QuoteTTL     int `toml:"quoteTTL"`     // 报价缓存有效期（秒），默认3600
}

type MhxyConfig struct {
	Environment string           `toml:"environment"` // 环境配置 [dev, prod, container]
	LogConfig   logConfig        `toml:"log"`
	Server      serverConfig     `toml:"server"`
	Dictionary  dictionaryConfig `toml:"dictionary"`
	Analyzer    analyzerConfig   `toml:"analyzer"`
	Store       storeConfig      `toml:"store"`
	Redis       redisConfig      `toml:"redis"`
}

func GetInstance() *MhxyConfig {
	once.Do(func() {
		var err error
		instance, err = parseConfig(resolvePath())
		if err != nil {
			// 配置缺失不致命，全部走默认值
			fmt.Println("load config failed, use defaults:", err)
			instance = &MhxyConfig{}
			instance.setDefaults()
		}
	})
	return instance
}

func resolvePath() string {
	if p := os.Getenv(confEnvKey); p != "" {
		return p
	}
	for _, p := range confSearchPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return confSearchPaths[0]
}

func parseConfig(path string) (*MhxyConfig, error) {
	if len(path) == 0 {
		return nil, errors.New("config file path is null")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file met error: %w", err)
	}

	conf := &MhxyConfig{}
	if _, err = toml.Decode(string(data), conf); err != nil {
		return nil, err
	}
	conf.setDefaults()
	return conf, nil
}

func (c *MhxyConfig) setDefaults() {
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = ":8080"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Dictionary.Path == "" {
		c.Dictionary.Path = "items.json"
	}
	if c.Analyzer.FuzzyThreshold <= 0 {
		c.Analyzer.FuzzyThreshold = 0.85
	}
	if c.Analyzer.ConfidenceFloor <= 0 {
		c.Analyzer.ConfidenceFloor = 0.6
	}
	if c.Analyzer.RawCoinCutoff <= 0 {
		c.Analyzer.RawCoinCutoff = 10000
	}
	if c.Analyzer.RecentWindow <= 0 {
		c.Analyzer.RecentWindow = 500
	}
	if c.Analyzer.RawLogWindow <= 0 {
		c.Analyzer.RawLogWindow = 100
	}
	if c.Analyzer.DefaultTradeType == "" {
		c.Analyzer.DefaultTradeType = "sell"
	}
	if c.Store.Path == "" {
		c.Store.Path = "market.db"
	}
	if c.Store.RetentionMonths <= 0 {
		c.Store.RetentionMonths = 3
	}
	if c.Redis.PoolSize <= 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout <= 0 {
		c.Redis.DialTimeout = 5
	}
	if c.Redis.ReadTimeout <= 0 {
		c.Redis.ReadTimeout = 3
	}
	if c.Redis.WriteTimeout <= 0 {
		c.Redis.WriteTimeout = 3
	}
	if c.Redis.QuoteTTL <= 0 {
		c.Redis.QuoteTTL = 3600
	}
}
