package adapters

import (
	"context"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/audio"
)

// MediaProcessor 是处理媒体文件的接口
type MediaProcessor interface {
	ProcessFile(ctx context.Context, filePath string) bool
	IsRecognizedFile(filePath string) bool
}

// BatchProcessorAdapter 批处理器适配器，实现MediaProcessor接口
type BatchProcessorAdapter struct {
	Processor *audio.BatchProcessor
	RunID     string
	OnResult  func(result audio.BatchResult) // 每个文件处理完成后调用，可为空
}

// NewBatchProcessorAdapter 创建新的批处理器适配器
func NewBatchProcessorAdapter(processor *audio.BatchProcessor, runID string) *BatchProcessorAdapter {
	return &BatchProcessorAdapter{
		Processor: processor,
		RunID:     runID,
	}
}

// ProcessFile 处理单个文件
func (a *BatchProcessorAdapter) ProcessFile(ctx context.Context, filePath string) bool {
	results, err := a.Processor.ProcessFiles(ctx, a.RunID, []string{filePath})
	if err != nil || len(results) == 0 {
		return false
	}
	if a.OnResult != nil {
		a.OnResult(results[0])
	}
	return results[0].Success
}

// IsRecognizedFile 检查文件是否已处理
func (a *BatchProcessorAdapter) IsRecognizedFile(filePath string) bool {
	return a.Processor.IsProcessed(filePath)
}
