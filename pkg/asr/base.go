package asr

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// Fingerprint 计算音频文件的CRC32校验和（十六进制）
func Fingerprint(audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("无效的音频路径: %w", err)
	}
	defer file.Close()

	hash := crc32.NewIEEE()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("读取音频文件失败: %w", err)
	}
	return fmt.Sprintf("%08x", hash.Sum32()), nil
}

// cacheEntry 缓存文件内容
type cacheEntry struct {
	Service   string    `json:"service"`
	Model     string    `json:"model"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CachedTranscriber 按音频校验和缓存转录结果，相同文件不重复识别
type CachedTranscriber struct {
	Inner    Transcriber
	CacheDir string
	Model    string
}

// NewCachedTranscriber 包装一个转录服务
func NewCachedTranscriber(inner Transcriber, cacheDir, model string) *CachedTranscriber {
	return &CachedTranscriber{Inner: inner, CacheDir: cacheDir, Model: model}
}

// Name 服务名称
func (c *CachedTranscriber) Name() string {
	return c.Inner.Name()
}

// GetCacheKey 获取缓存键名
func (c *CachedTranscriber) GetCacheKey(fingerprint string) string {
	model := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(c.Model)
	return fmt.Sprintf("%s-%s-%s.json", c.Inner.Name(), model, fingerprint)
}

// Transcribe 命中缓存时直接返回，否则调用内部服务并写入缓存
func (c *CachedTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	fingerprint, err := Fingerprint(audioPath)
	if err != nil {
		return "", err
	}
	cacheFile := filepath.Join(c.CacheDir, c.GetCacheKey(fingerprint))

	var entry cacheEntry
	if found, err := utils.LoadJSONFile(cacheFile, &entry); err != nil {
		utils.Warn("读取转录缓存失败: %v", err)
	} else if found && entry.Text != "" {
		utils.Debug("使用转录缓存: %s", cacheFile)
		return entry.Text, nil
	}

	text, err := c.Inner.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}

	entry = cacheEntry{Service: c.Inner.Name(), Model: c.Model, Text: text, CreatedAt: time.Now()}
	if err := utils.SaveJSONFile(cacheFile, entry); err != nil {
		utils.Warn("保存转录缓存失败: %v", err)
	}
	return text, nil
}
