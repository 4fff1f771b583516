package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	// 验证默认值是否正确设置
	assert.Equal(t, "./audio_input", config.InputFolder)
	assert.Equal(t, "./output", config.OutputFolder)
	assert.Equal(t, 3, config.MaxRetries)
	assert.Equal(t, 4, config.MaxWorkers)
	assert.Equal(t, StrategySentence, config.Strategy)
	assert.Equal(t, 2.0, config.GapThreshold)
	assert.Equal(t, 10, config.MinUnitChars)
	assert.Equal(t, 5, config.MaxRepetitions)
	assert.True(t, config.CleanText)
	assert.True(t, config.ExcludeCommonWords)
	assert.False(t, config.SpeakerAttribution)
	assert.False(t, config.ExportSRT)
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	// 测试有效配置
	config := NewDefaultConfig()
	config.OutputFolder = filepath.Join(dir, "out")
	err := config.Validate()
	assert.NoError(t, err)
	assert.DirExists(t, config.OutputFolder)

	// 测试无效的MaxRetries
	config.MaxRetries = 0
	err = config.Validate()
	assert.Error(t, err)
	configErr, ok := err.(*ConfigValidationError)
	assert.True(t, ok)
	assert.Equal(t, "MaxRetries", configErr.Field)

	// 恢复有效值并测试策略字段
	config.MaxRetries = 3
	config.Strategy = "paragraph"
	err = config.Validate()
	assert.Error(t, err)
	configErr, ok = err.(*ConfigValidationError)
	assert.True(t, ok)
	assert.Equal(t, "Strategy", configErr.Field)

	config.Strategy = StrategyWord
	config.GapThreshold = -1
	err = config.Validate()
	configErr, ok = err.(*ConfigValidationError)
	assert.True(t, ok)
	assert.Equal(t, "GapThreshold", configErr.Field)
}

func TestConfigSaveAndLoadJSON(t *testing.T) {
	dir := t.TempDir()
	tempFile := filepath.Join(dir, "config.json")

	// 创建并保存配置
	originalConfig := NewDefaultConfig()
	originalConfig.OutputFolder = filepath.Join(dir, "out")
	originalConfig.InputFolder = "./test_audio"
	originalConfig.MaxRetries = 5
	originalConfig.ExportSRT = true
	originalConfig.ExcludedNames = []string{"Paris", "Jordan"}

	err := originalConfig.SaveToFile(tempFile)
	require.NoError(t, err)

	// 从文件加载配置
	loadedConfig := NewDefaultConfig()
	err = loadedConfig.LoadFromFile(tempFile)
	require.NoError(t, err)

	assert.Equal(t, originalConfig.InputFolder, loadedConfig.InputFolder)
	assert.Equal(t, originalConfig.MaxRetries, loadedConfig.MaxRetries)
	assert.Equal(t, originalConfig.ExportSRT, loadedConfig.ExportSRT)
	assert.Equal(t, originalConfig.ExcludedNames, loadedConfig.ExcludedNames)
}

func TestConfigLoadYAML(t *testing.T) {
	dir := t.TempDir()
	tempFile := filepath.Join(dir, "config.yaml")

	content := "output_folder: " + filepath.Join(dir, "out") + "\n" +
		"strategy: word\n" +
		"gap_threshold: 1.5\n" +
		"speaker_attribution: true\n" +
		"excluded_names:\n  - Victoria\n"
	require.NoError(t, os.WriteFile(tempFile, []byte(content), 0644))

	config := NewDefaultConfig()
	require.NoError(t, config.LoadFromFile(tempFile))

	assert.Equal(t, StrategyWord, config.Strategy)
	assert.Equal(t, 1.5, config.GapThreshold)
	assert.True(t, config.SpeakerAttribution)
	assert.Equal(t, []string{"Victoria"}, config.ExcludedNames)
	// 未出现的字段保持默认值
	assert.Equal(t, 4, config.MaxWorkers)
}

func TestConfigLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()

	config := NewDefaultConfig()
	assert.Error(t, config.LoadFromFile(filepath.Join(dir, "missing.json")))

	badFile := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badFile, []byte("{not json"), 0644))
	assert.Error(t, config.LoadFromFile(badFile))
}

func TestConfigUpdate(t *testing.T) {
	dir := t.TempDir()
	config := NewDefaultConfig()
	config.OutputFolder = filepath.Join(dir, "out")

	// 有效更新
	updates := map[string]interface{}{
		"input_folder":  "./updated_audio",
		"max_retries":   4,
		"gap_threshold": 3.0,
	}
	err := config.Update(updates)
	assert.NoError(t, err)
	assert.Equal(t, "./updated_audio", config.InputFolder)
	assert.Equal(t, 4, config.MaxRetries)
	assert.Equal(t, 3.0, config.GapThreshold)

	// 无效更新应回滚
	invalidUpdates := map[string]interface{}{
		"max_retries": 20,
		"strategy":    StrategyWord,
	}
	err = config.Update(invalidUpdates)
	assert.Error(t, err)
	assert.Equal(t, 4, config.MaxRetries)
	assert.Equal(t, StrategySentence, config.Strategy)
}

func TestConfigReset(t *testing.T) {
	config := NewDefaultConfig()
	config.InputFolder = "./custom"
	config.MaskNames = true

	config.Reset()

	assert.Equal(t, "./audio_input", config.InputFolder)
	assert.False(t, config.MaskNames)
}
