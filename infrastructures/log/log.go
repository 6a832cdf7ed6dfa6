package log

import (
	"fmt"
	"sync"

	"github.com/dafage00/MHXYPro/infrastructures/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int8

const (
	LogLevelNull    LogLevel = LogLevel(zap.FatalLevel)
	LogLevelDebug            = LogLevel(zap.DebugLevel)
	LogLevelInfo             = LogLevel(zap.InfoLevel)
	LogLevelWarning          = LogLevel(zap.WarnLevel)
	LogLevelError            = LogLevel(zap.ErrorLevel)
	LogLevelPanic            = LogLevel(zap.PanicLevel)
	LogLevelFatal            = LogLevel(zap.FatalLevel)
)

// Logger
type Logger struct {
	logger *zap.Logger
	Sugar  *zap.SugaredLogger
}

var (
	instance *Logger
	once     sync.Once

	// 默认log级别
	logLevel = LogLevelNull

	// 是否打印调用堆栈
	enableStacktrace = false
)

// SetStacktrace 是否开启堆栈打印
func SetStacktrace(enable bool) {
	enableStacktrace = enable
}

// InitLogLevel InitLogLevel
func InitLogLevel(l LogLevel) {
	logLevel = l
}

// GetInstance GetInstance
func GetInstance() *Logger {
	once.Do(func() {
		instance = createLogger()
	})
	return instance
}

func createLogger() *Logger {
	ret := &Logger{}
	var logConf zap.Config

	cfg := config.GetInstance()
	if cfg.Environment == "prod" {
		logConf = zap.NewProductionConfig()
		logConf.Encoding = "json"
		if dir := cfg.LogConfig.LogRootDir; dir != "" {
			logPath := fmt.Sprintf("%s/mhxypro.log", dir)
			logConf.OutputPaths = []string{logPath}
			logConf.ErrorOutputPaths = []string{logPath}
		}
	} else {
		// 开发和容器环境输出到stderr
		logConf = zap.NewDevelopmentConfig()
		logConf.OutputPaths = []string{"stderr"}
		logConf.ErrorOutputPaths = []string{"stderr"}
	}

	logConf.DisableStacktrace = !enableStacktrace

	if logLevel == LogLevelNull {
		// 没有被显式指定，从配置文件中加载默认值
		logLevel = LogLevel(cfg.LogConfig.LogLevel)
	}
	logConf.Level = zap.NewAtomicLevelAt(zapcore.Level(logLevel))

	var err error
	ret.logger, err = logConf.Build(zap.AddCallerSkip(1))
	if err != nil {
		fmt.Println("logConf.Build err:", err)
		ret.logger = zap.NewNop()
	}
	ret.Sugar = ret.logger.Sugar()
	return ret
}

// Sync 落盘缓冲日志，进程退出前调用
func Sync() {
	if instance != nil && instance.logger != nil {
		_ = instance.logger.Sync()
	}
}

// Debugf uses fmt.Sprintf to log a templated message.
func Debugf(template string, args ...interface{}) {
	GetInstance().Sugar.Debugf(template, args...)
}

// Infof uses fmt.Sprintf to log a templated message.
func Infof(template string, args ...interface{}) {
	GetInstance().Sugar.Infof(template, args...)
}

// Warnf uses fmt.Sprintf to log a templated message.
func Warnf(template string, args ...interface{}) {
	GetInstance().Sugar.Warnf(template, args...)
}

// Errorf uses fmt.Sprintf to log a templated message.
func Errorf(template string, args ...interface{}) {
	GetInstance().Sugar.Errorf(template, args...)
}

// Panicf uses fmt.Sprintf to log a templated message, then panics.
func Panicf(template string, args ...interface{}) {
	GetInstance().Sugar.Panicf(template, args...)
}

// Fatalf uses fmt.Sprintf to log a templated message, then calls os.Exit.
func Fatalf(template string, args ...interface{}) {
	GetInstance().Sugar.Fatalf(template, args...)
}
