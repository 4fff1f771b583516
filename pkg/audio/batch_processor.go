package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/ui"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// RecordFileName 已处理文件记录，保存在输出目录
const RecordFileName = "processed_record.json"

// FileHandler 处理单个文件，processor.FileProcessor 实现了该接口
type FileHandler interface {
	Process(ctx context.Context, runID, filePath string) (*models.Result, error)
}

// BatchResult 存储批处理结果
type BatchResult struct {
	FilePath    string
	Success     bool
	Result      *models.Result
	Error       error
	ProcessTime time.Duration
}

// BatchProgressCallback 批处理进度回调，开始时 result 为 nil
type BatchProgressCallback func(current, total int, filename string, result *BatchResult)

// RecordEntry 已处理文件记录项
type RecordEntry struct {
	RunID       string            `json:"run_id"`
	ProcessedAt time.Time         `json:"processed_at"`
	OutputFiles map[string]string `json:"output_files"`
}

// BatchProcessor 批量处理器，按配置的并发数同时处理多个文件
type BatchProcessor struct {
	Handler          FileHandler
	MaxConcurrency   int
	RecordPath       string
	ProgressCallback BatchProgressCallback
	ProgressManager  *ui.ProgressManager

	mu        sync.Mutex
	processed map[string]RecordEntry
}

// NewBatchProcessor 创建批处理器
func NewBatchProcessor(handler FileHandler, config *models.Config, callback BatchProgressCallback) *BatchProcessor {
	concurrency := config.MaxWorkers
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		Handler:          handler,
		MaxConcurrency:   concurrency,
		RecordPath:       filepath.Join(config.OutputFolder, RecordFileName),
		ProgressCallback: callback,
		processed:        make(map[string]RecordEntry),
	}
}

// SetProgressManager 设置进度管理器
func (p *BatchProcessor) SetProgressManager(manager *ui.ProgressManager) {
	p.ProgressManager = manager
}

// LoadRecord 读取已处理记录，文件不存在时视为空
func (p *BatchProcessor) LoadRecord() error {
	record := make(map[string]RecordEntry)
	if _, err := utils.LoadJSONFile(p.RecordPath, &record); err != nil {
		return fmt.Errorf("加载处理记录失败: %w", err)
	}

	p.mu.Lock()
	p.processed = record
	p.mu.Unlock()
	utils.Debug("已加载 %d 条处理记录", len(record))
	return nil
}

// SaveRecord 保存已处理记录
func (p *BatchProcessor) SaveRecord() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return utils.SaveJSONFile(p.RecordPath, p.processed)
}

// IsProcessed 文件是否已处理
func (p *BatchProcessor) IsProcessed(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.processed[path]
	return ok
}

// ProcessedPaths 已处理文件路径集合，供扫描器过滤
func (p *BatchProcessor) ProcessedPaths() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	paths := make(map[string]bool, len(p.processed))
	for path := range p.processed {
		paths[path] = true
	}
	return paths
}

func (p *BatchProcessor) markProcessed(result *models.Result) {
	p.mu.Lock()
	p.processed[result.FilePath] = RecordEntry{
		RunID:       result.RunID,
		ProcessedAt: time.Now(),
		OutputFiles: result.OutputFiles,
	}
	p.mu.Unlock()

	if err := p.SaveRecord(); err != nil {
		utils.Warn("保存处理记录失败: %v", err)
	}
}

// ProcessFiles 并发处理文件，结果与输入顺序一致
//
// 单个文件失败不影响其他文件，只有 ctx 取消时返回错误。
func (p *BatchProcessor) ProcessFiles(ctx context.Context, runID string, files []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	if p.ProgressManager != nil {
		p.ProgressManager.CreateProgressBar("batch_overall", len(files),
			"总体进度", fmt.Sprintf("0/%d 文件已处理", len(files)))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.MaxConcurrency)

	var doneMu sync.Mutex
	done := 0

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = BatchResult{FilePath: path, Error: err}
				return err
			}

			filename := filepath.Base(path)
			if p.ProgressCallback != nil {
				p.ProgressCallback(i+1, len(files), filename, nil)
			}

			startTime := time.Now()
			result, err := p.Handler.Process(gctx, runID, path)
			br := BatchResult{
				FilePath:    path,
				Success:     err == nil,
				Result:      result,
				Error:       err,
				ProcessTime: time.Since(startTime),
			}
			results[i] = br

			if err == nil && result != nil {
				p.markProcessed(result)
			}

			doneMu.Lock()
			done++
			current := done
			doneMu.Unlock()

			if p.ProgressCallback != nil {
				p.ProgressCallback(i+1, len(files), filename, &br)
			}
			if p.ProgressManager != nil {
				p.ProgressManager.UpdateProgressBar("batch_overall", current,
					fmt.Sprintf("%d/%d 文件已处理", current, len(files)))
			}
			return nil
		})
	}

	err := g.Wait()

	if p.ProgressManager != nil {
		p.ProgressManager.CompleteProgressBar("batch_overall", "所有文件处理完成")
	}
	return results, err
}
