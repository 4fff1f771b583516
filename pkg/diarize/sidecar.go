package diarize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// SidecarDiarizer 读取预先生成的发言区间文件
type SidecarDiarizer struct {
	Dir string
}

// NewSidecarDiarizer 创建旁路分离服务，dir 为空时使用音频所在目录
func NewSidecarDiarizer(dir string) *SidecarDiarizer {
	return &SidecarDiarizer{Dir: dir}
}

// Name 服务名称
func (s *SidecarDiarizer) Name() string {
	return "sidecar"
}

// Candidates 按优先级列出可能的文件路径
func (s *SidecarDiarizer) Candidates(audioPath string) []string {
	dir := s.Dir
	if dir == "" {
		dir = filepath.Dir(audioPath)
	}
	base := utils.BaseName(audioPath)
	return []string{
		filepath.Join(dir, base+".rttm"),
		filepath.Join(dir, base+".turns.json"),
		filepath.Join(dir, base+".diarization.txt"),
	}
}

// Diarize 解析找到的第一个文件
func (s *SidecarDiarizer) Diarize(ctx context.Context, audioPath string) ([]models.DiarizationTurn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, path := range s.Candidates(audioPath) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("读取发言区间文件失败: %w", err)
		}

		turns, err := Parse(data, DetectFormat(path, data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if len(turns) == 0 {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNoTurns)
		}
		utils.Debug("读取发言区间文件: %s (%d 个区间)", path, len(turns))
		return turns, nil
	}
	return nil, fmt.Errorf("未找到 %s 的发言区间文件: %w", filepath.Base(audioPath), ErrNoTurns)
}
