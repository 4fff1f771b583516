package models

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// 归属策略名称
const (
	StrategySentence = "sentence"
	StrategyWord     = "word"
)

// Config 表示应用程序的配置
type Config struct {
	InputFolder  string `json:"input_folder" yaml:"input_folder"`   // 音频文件所在文件夹
	OutputFolder string `json:"output_folder" yaml:"output_folder"` // 输出结果文件夹
	TempDir      string `json:"temp_dir" yaml:"temp_dir"`           // 临时目录

	MaxWorkers int     `json:"max_workers" yaml:"max_workers"` // 并发处理的文件数
	MaxRetries int     `json:"max_retries" yaml:"max_retries"` // 外部服务最大重试次数
	RetryDelay float64 `json:"retry_delay" yaml:"retry_delay"` // 重试延迟（秒）

	// 说话人归属
	SpeakerAttribution    bool    `json:"speaker_attribution" yaml:"speaker_attribution"`         // 是否启用说话人归属
	Strategy              string  `json:"strategy" yaml:"strategy"`                               // sentence 或 word
	GapThreshold          float64 `json:"gap_threshold" yaml:"gap_threshold"`                     // 合并相邻片段的最大间隔（秒）
	MinUnitChars          int     `json:"min_unit_chars" yaml:"min_unit_chars"`                   // 句子单元最小字符数
	IncludeRawDiarization bool    `json:"include_raw_diarization" yaml:"include_raw_diarization"` // 输出原始分离结果

	// 音频增强
	EnhanceAudio      bool `json:"enhance_audio" yaml:"enhance_audio"`             // 转录前增强音频
	SaveEnhancedAudio bool `json:"save_enhanced_audio" yaml:"save_enhanced_audio"` // 保留增强后的音频

	// 文本处理
	CleanText      bool `json:"clean_text" yaml:"clean_text"`           // 拼写和标点修正
	FixRepetitions bool `json:"fix_repetitions" yaml:"fix_repetitions"` // 去除异常重复
	MaxRepetitions int  `json:"max_repetitions" yaml:"max_repetitions"` // 允许的最大重复次数

	// 姓名遮蔽
	MaskNames          bool     `json:"mask_names" yaml:"mask_names"`                     // 是否遮蔽人名
	NameLanguages      []string `json:"name_languages" yaml:"name_languages"`             // 内置名字库语言，空为全部
	NamesFile          string   `json:"names_file" yaml:"names_file"`                     // 自定义名字库（每行一个）
	SurnamesFile       string   `json:"surnames_file" yaml:"surnames_file"`               // 自定义姓氏库（每行一个）
	ExcludedNames      []string `json:"excluded_names" yaml:"excluded_names"`             // 不遮蔽的名字
	ExcludeNamesFile   string   `json:"exclude_names_file" yaml:"exclude_names_file"`     // 不遮蔽的名字文件
	ExcludeCommonWords bool     `json:"exclude_common_words" yaml:"exclude_common_words"` // 排除常见英文单词
	PhoneticNameMatch  bool     `json:"phonetic_name_match" yaml:"phonetic_name_match"`   // 读音近似匹配
	SaveMaskingLogs    bool     `json:"save_masking_logs" yaml:"save_masking_logs"`       // 保存替换记录

	// 导出
	ExportSRT  bool `json:"export_srt" yaml:"export_srt"`   // 是否导出SRT字幕文件
	ExportJSON bool `json:"export_json" yaml:"export_json"` // 是否导出JSON文件

	// 外部服务
	TranscriptDir     string `json:"transcript_dir" yaml:"transcript_dir"`         // 预先生成的转录文本目录
	TranscriberCmd    string `json:"transcriber_cmd" yaml:"transcriber_cmd"`       // 转录命令模板
	DiarizerCmd       string `json:"diarizer_cmd" yaml:"diarizer_cmd"`             // 说话人分离命令模板
	Model             string `json:"model" yaml:"model"`                           // 识别模型
	Language          string `json:"language" yaml:"language"`                     // 识别语言，空为自动
	TranscribeTimeout int    `json:"transcribe_timeout" yaml:"transcribe_timeout"` // 转录超时（秒）
	DiarizeTimeout    int    `json:"diarize_timeout" yaml:"diarize_timeout"`       // 分离超时（秒）

	WatchMode    bool   `json:"watch_mode" yaml:"watch_mode"`       // 是否启用监听模式
	ShowProgress bool   `json:"show_progress" yaml:"show_progress"` // 显示进度条
	LogLevel     string `json:"log_level" yaml:"log_level"`         // 日志级别
	LogFile      string `json:"log_file" yaml:"log_file"`           // 日志文件
}

// ConfigValidationError 表示配置验证错误
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("配置验证错误: %s - %s", e.Field, e.Message)
}

// NewDefaultConfig 创建默认配置
func NewDefaultConfig() *Config {
	return &Config{
		InputFolder:           "./audio_input",
		OutputFolder:          "./output",
		TempDir:               "",
		MaxWorkers:            4,
		MaxRetries:            3,
		RetryDelay:            1.0,
		SpeakerAttribution:    false,
		Strategy:              StrategySentence,
		GapThreshold:          2.0,
		MinUnitChars:          10,
		IncludeRawDiarization: true,
		EnhanceAudio:          false,
		SaveEnhancedAudio:     false,
		CleanText:             true,
		FixRepetitions:        false,
		MaxRepetitions:        5,
		MaskNames:             false,
		ExcludeCommonWords:    true,
		PhoneticNameMatch:     false,
		SaveMaskingLogs:       false,
		ExportSRT:             false,
		ExportJSON:            false,
		Model:                 "openai/whisper-large-v3",
		TranscribeTimeout:     1800,
		DiarizeTimeout:        1800,
		WatchMode:             false,
		ShowProgress:          true,
		LogLevel:              "INFO",
		LogFile:               "",
	}
}

// Validate 验证配置是否有效
func (c *Config) Validate() error {
	if err := ensureDirExists(c.OutputFolder); err != nil {
		return &ConfigValidationError{"OutputFolder", err.Error()}
	}

	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return &ConfigValidationError{"MaxRetries", "必须在1-10之间"}
	}

	if c.MaxWorkers < 1 || c.MaxWorkers > 16 {
		return &ConfigValidationError{"MaxWorkers", "必须在1-16之间"}
	}

	if c.RetryDelay < 0 || c.RetryDelay > 10.0 {
		return &ConfigValidationError{"RetryDelay", "必须在0-10.0秒之间"}
	}

	if c.Strategy != StrategySentence && c.Strategy != StrategyWord {
		return &ConfigValidationError{"Strategy", "必须是 sentence 或 word"}
	}

	if c.GapThreshold < 0 || c.GapThreshold > 60 {
		return &ConfigValidationError{"GapThreshold", "必须在0-60秒之间"}
	}

	if c.MinUnitChars < 0 || c.MinUnitChars > 200 {
		return &ConfigValidationError{"MinUnitChars", "必须在0-200之间"}
	}

	if c.MaxRepetitions < 1 || c.MaxRepetitions > 100 {
		return &ConfigValidationError{"MaxRepetitions", "必须在1-100之间"}
	}

	if c.TranscribeTimeout < 0 || c.DiarizeTimeout < 0 {
		return &ConfigValidationError{"Timeout", "不能为负数"}
	}

	return nil
}

// LoadFromFile 从文件加载配置，按扩展名选择JSON或YAML
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("读取配置文件失败: %v", err)
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		logrus.Errorf("解析配置文件失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// SaveToFile 保存配置到文件
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logrus.Errorf("创建目录失败: %v", err)
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logrus.Errorf("写入配置文件失败: %v", err)
		return err
	}

	return nil
}

// Update 批量更新配置，失败时回滚
func (c *Config) Update(updates map[string]interface{}) error {
	tempConfig := *c

	// 将更新序列化为JSON再反序列化到结构体中
	updateBytes, err := json.Marshal(updates)
	if err != nil {
		logrus.Errorf("序列化更新数据失败: %v", err)
		return err
	}

	if err := json.Unmarshal(updateBytes, c); err != nil {
		*c = tempConfig
		logrus.Errorf("应用配置更新失败: %v", err)
		return err
	}

	if err := c.Validate(); err != nil {
		*c = tempConfig
		logrus.Errorf("配置验证失败: %v", err)
		return err
	}

	return nil
}

// Reset 重置为默认配置
func (c *Config) Reset() {
	*c = *NewDefaultConfig()
}

// PrintConfig 打印当前配置
func (c *Config) PrintConfig() {
	logrus.Info("当前配置:")
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		logrus.Errorf("序列化配置失败: %v", err)
		return
	}
	logrus.Info(string(bytes))
}

// 确保目录存在，如果不存在则创建
func ensureDirExists(path string) error {
	if path == "" {
		return nil // 空路径视为可选
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0755)
	}

	return nil
}
