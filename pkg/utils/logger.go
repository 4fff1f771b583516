package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// 日志级别常量
const (
	LogLevelVerbose = "VERBOSE"
	LogLevelNormal  = "INFO"
	LogLevelQuiet   = "WARN"
	LogLevelError   = "ERROR"
)

var (
	// Log 全局日志实例
	Log *logrus.Logger
	// 是否启用了终端进度条，启用后日志只写文件
	terminalProgressEnabled bool
	currentLevel            = LogLevelNormal
)

// InitLogger 初始化日志系统
// level: 日志级别 (VERBOSE/INFO/WARN/ERROR)
// logFile: 日志文件路径，空字符串表示仅输出到控制台
func InitLogger(level string, logFile string) error {
	Log = logrus.New()
	currentLevel = level

	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if terminalProgressEnabled {
		// 进度条占用终端，日志改写到文件
		if logFile == "" {
			logFile = filepath.Join(os.TempDir(), "speaker-transcriber.log")
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			Log.SetOutput(file)
		}
	} else if logFile != "" {
		logDir := filepath.Dir(logFile)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}

		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}

		// 同时输出到文件和控制台
		Log.SetOutput(io.MultiWriter(os.Stdout, file))
	} else {
		Log.SetOutput(os.Stdout)
	}

	switch level {
	case LogLevelVerbose:
		Log.SetLevel(logrus.DebugLevel)
	case LogLevelNormal:
		Log.SetLevel(logrus.InfoLevel)
	case LogLevelQuiet:
		Log.SetLevel(logrus.WarnLevel)
	case LogLevelError:
		Log.SetLevel(logrus.ErrorLevel)
	default:
		Log.SetLevel(logrus.InfoLevel)
	}

	return nil
}

// EnableTerminalProgress 启用终端进度条模式，之后日志不再输出到终端
func EnableTerminalProgress() {
	terminalProgressEnabled = true
	InitLogger(currentLevel, "")
}

// DisableTerminalProgress 禁用终端进度条模式，日志恢复到终端输出
func DisableTerminalProgress() {
	terminalProgressEnabled = false
	if Log != nil {
		Log.SetOutput(os.Stdout)
	}
}

// Debug 输出调试日志
func Debug(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Debugf(format, args...)
		} else {
			Log.Debug(format)
		}
	}
}

// Info 输出信息日志
func Info(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Infof(format, args...)
		} else {
			Log.Info(format)
		}
	}
}

// Warn 输出警告日志
func Warn(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Warnf(format, args...)
		} else {
			Log.Warn(format)
		}
	}
}

// Error 输出错误日志
func Error(format string, args ...interface{}) {
	if Log != nil {
		if len(args) > 0 {
			Log.Errorf(format, args...)
		} else {
			Log.Error(format)
		}
	}
}

// WithField 创建带字段的日志条目，未初始化时使用 logrus 标准实例
func WithField(key string, value interface{}) *logrus.Entry {
	if Log != nil {
		return Log.WithField(key, value)
	}
	return logrus.WithField(key, value)
}

// WithFields 创建带多个字段的日志条目
func WithFields(fields logrus.Fields) *logrus.Entry {
	if Log != nil {
		return Log.WithFields(fields)
	}
	return logrus.WithFields(fields)
}

// ForFile 单个文件处理过程使用的日志条目
func ForFile(runID, file string) *logrus.Entry {
	return WithFields(logrus.Fields{
		"run_id": runID,
		"file":   filepath.Base(file),
	})
}
