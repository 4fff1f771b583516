package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	// 测试控制台日志
	err := InitLogger(LogLevelNormal, "")
	assert.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	// 测试文件日志
	tempLogFile := filepath.Join(t.TempDir(), "logs", "test.log")

	err = InitLogger(LogLevelVerbose, tempLogFile)
	assert.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	// 验证日志文件是否创建
	_, err = os.Stat(tempLogFile)
	assert.NoError(t, err)
}

func TestLogLevels(t *testing.T) {
	tempLogFile := filepath.Join(t.TempDir(), "level_test.log")

	// 初始化日志到文件
	err := InitLogger(LogLevelQuiet, tempLogFile)
	assert.NoError(t, err)

	Debug("Debug message")
	Info("Info message")
	Warn("Warning message")
	Error("Error %s", "message")

	content, err := os.ReadFile(tempLogFile)
	assert.NoError(t, err)
	assert.NotContains(t, string(content), "Info message")
	assert.Contains(t, string(content), "Warning message")
	assert.Contains(t, string(content), "Error message")

	assert.NoError(t, InitLogger(LogLevelError, ""))
	assert.Equal(t, logrus.ErrorLevel, Log.GetLevel())
}

func TestWithFieldLogging(t *testing.T) {
	// 设置日志
	err := InitLogger(LogLevelNormal, "")
	assert.NoError(t, err)

	// 测试WithField和WithFields
	WithField("key", "value").Info("Test with field")
	WithFields(logrus.Fields{
		"key1": "value1",
		"key2": "value2",
	}).Info("Test with fields")

	entry := ForFile("run-1", "/data/audio/meeting.wav")
	assert.Equal(t, "run-1", entry.Data["run_id"])
	assert.Equal(t, "meeting.wav", entry.Data["file"])
}
