package asr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// SidecarTranscriber 读取预先生成的转录文本文件
//
// 对 <dir>/<base>.txt 或 <dir>/<base>.transcript.txt 查找，dir 为空时使用音频所在目录。
type SidecarTranscriber struct {
	Dir string
}

// NewSidecarTranscriber 创建旁路转录服务
func NewSidecarTranscriber(dir string) *SidecarTranscriber {
	return &SidecarTranscriber{Dir: dir}
}

// Name 服务名称
func (s *SidecarTranscriber) Name() string {
	return "sidecar"
}

// Candidates 按优先级列出可能的转录文件路径
func (s *SidecarTranscriber) Candidates(audioPath string) []string {
	dir := s.Dir
	if dir == "" {
		dir = filepath.Dir(audioPath)
	}
	base := utils.BaseName(audioPath)
	return []string{
		filepath.Join(dir, base+".txt"),
		filepath.Join(dir, base+".transcript.txt"),
	}
}

// Transcribe 返回找到的第一个转录文件内容
func (s *SidecarTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, path := range s.Candidates(audioPath) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("读取转录文件失败: %w", err)
		}

		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", fmt.Errorf("%s: %w", path, ErrNoTranscript)
		}
		utils.Debug("读取转录文件: %s", path)
		return text, nil
	}
	return "", fmt.Errorf("未找到 %s 的转录文件: %w", filepath.Base(audioPath), ErrNoTranscript)
}
