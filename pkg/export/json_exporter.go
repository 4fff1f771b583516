package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/align"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// SpeakerSummary 单个说话人的统计
type SpeakerSummary struct {
	Speaker       models.SpeakerLabel `json:"speaker"`
	SegmentCount  int                 `json:"segment_count"`
	TotalDuration float64             `json:"total_duration"`
}

// TranscriptResult 表示整个转录结果
type TranscriptResult struct {
	RunID      string                     `json:"run_id"`
	File       string                     `json:"file"`
	Model      string                     `json:"model,omitempty"`
	Language   string                     `json:"language,omitempty"`
	Strategy   string                     `json:"strategy,omitempty"`
	Attributed bool                       `json:"attributed"`
	Duration   float64                    `json:"duration"`
	FullText   string                     `json:"full_text"`
	Segments   []models.AttributedSegment `json:"segments"`
	Speakers   []SpeakerSummary           `json:"speakers,omitempty"`
	CreatedAt  time.Time                  `json:"created_at"`
}

// TranscriptInput 生成JSON所需的数据
type TranscriptInput struct {
	RunID      string
	File       string
	Model      string
	Language   string
	Strategy   string
	Attributed bool
	Duration   float64
	FullText   string
	Segments   []models.AttributedSegment
}

// JSONExporter 负责将转录结果导出为JSON文件
type JSONExporter struct {
	OutputFolder string
	now          func() time.Time
}

// NewJSONExporter 创建一个新的JSON导出器
func NewJSONExporter(outputFolder string) *JSONExporter {
	return &JSONExporter{
		OutputFolder: outputFolder,
		now:          time.Now,
	}
}

// GenerateJSONContent 生成 TranscriptResult，未提供运行ID时生成新的
func (e *JSONExporter) GenerateJSONContent(in TranscriptInput) TranscriptResult {
	runID := in.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	segments := make([]models.AttributedSegment, 0, len(in.Segments))
	for _, seg := range in.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" {
			continue
		}
		segments = append(segments, seg)
	}

	result := TranscriptResult{
		RunID:      runID,
		File:       filepath.Base(in.File),
		Model:      in.Model,
		Language:   in.Language,
		Strategy:   in.Strategy,
		Attributed: in.Attributed,
		Duration:   in.Duration,
		FullText:   strings.TrimSpace(in.FullText),
		Segments:   segments,
		CreatedAt:  e.now(),
	}

	if in.Attributed {
		summary := align.Summarize(segments)
		for _, speaker := range align.SortedSpeakers(summary) {
			stats := summary[speaker]
			result.Speakers = append(result.Speakers, SpeakerSummary{
				Speaker:       speaker,
				SegmentCount:  stats.SegmentCount,
				TotalDuration: stats.TotalDuration,
			})
		}
	}

	return result
}

// ExportJSON 导出 <base>_transcript.json
func (e *JSONExporter) ExportJSON(in TranscriptInput) (string, error) {
	if err := os.MkdirAll(e.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	outputFile := filepath.Join(e.OutputFolder, fmt.Sprintf("%s_transcript.json", utils.BaseName(in.File)))

	jsonData, err := json.MarshalIndent(e.GenerateJSONContent(in), "", "  ")
	if err != nil {
		return "", fmt.Errorf("JSON编码失败: %w", err)
	}

	if err := os.WriteFile(outputFile, jsonData, 0644); err != nil {
		return "", fmt.Errorf("写入JSON文件失败: %w", err)
	}

	utils.Info("已导出JSON文件: %s", outputFile)
	return outputFile, nil
}
