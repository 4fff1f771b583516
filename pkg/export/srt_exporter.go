package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// SRTExporter 负责将转录片段导出为SRT字幕文件
type SRTExporter struct {
	OutputFolder string
}

// NewSRTExporter 创建一个新的SRT导出器
func NewSRTExporter(outputFolder string) *SRTExporter {
	return &SRTExporter{
		OutputFolder: outputFolder,
	}
}

// FormatSRTTime 将秒数格式化为SRT时间格式 (HH:MM:SS,mmm)
func (e *SRTExporter) FormatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Round(seconds * 1000))
	hours := total / 3600000
	minutes := total % 3600000 / 60000
	secs := total % 60000 / 1000
	milliseconds := total % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, milliseconds)
}

// GenerateSRTContent 生成SRT格式内容，有说话人时加前缀
func (e *SRTExporter) GenerateSRTContent(segments []models.AttributedSegment) string {
	var srtLines []string

	index := 0
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		if segment.Speaker != models.Unattributed {
			text = fmt.Sprintf("%s: %s", segment.Speaker, text)
		}

		startTime := segment.Start
		endTime := segment.End
		if endTime <= startTime {
			// 估计时长为零时给一个最短显示时间
			endTime = startTime + 1.0
		}

		index++
		srtLines = append(srtLines, fmt.Sprintf("%d", index))
		srtLines = append(srtLines, fmt.Sprintf("%s --> %s", e.FormatSRTTime(startTime), e.FormatSRTTime(endTime)))
		srtLines = append(srtLines, text)
		srtLines = append(srtLines, "") // 空行分隔
	}

	return strings.Join(srtLines, "\n")
}

// ExportSRT 导出SRT格式字幕文件
func (e *SRTExporter) ExportSRT(segments []models.AttributedSegment, filename string) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s.srt", utils.BaseName(filename)))

	if err := os.WriteFile(outputFile, []byte(e.GenerateSRTContent(segments)), 0644); err != nil {
		return "", fmt.Errorf("写入SRT文件失败: %w", err)
	}

	utils.Info("已导出SRT字幕: %s", outputFile)
	return outputFile, nil
}
