package controller

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/adapters"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/ui"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/watcher"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/asr"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/audio"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/diarize"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/processor"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// CacheDirName 转录缓存目录，位于输出目录下
const CacheDirName = ".transcript_cache"

// ProcessorController 处理器控制器，协调各个组件工作
type ProcessorController struct {
	Config *models.Config
	RunID  string

	// UI组件
	ProgressManager *ui.ProgressManager
	Reporter        *ui.Reporter

	// 处理组件
	Scanner        *scanner.MediaScanner
	Selector       *asr.Selector
	Diarizer       diarize.Diarizer
	Media          *processor.MediaProcessor
	FileProcessor  *processor.FileProcessor
	BatchProcessor *audio.BatchProcessor

	// 上下文控制
	ctx        context.Context
	cancelFunc context.CancelFunc

	// 资源管理
	TempDir string
	cleanup []func()
	mu      sync.Mutex
}

// NewProcessorController 根据已验证的配置创建控制器
func NewProcessorController(config *models.Config) (*ProcessorController, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pc := &ProcessorController{
		Config:     config,
		RunID:      uuid.NewString(),
		Scanner:    scanner.NewMediaScanner(),
		Reporter:   ui.NewReporter(nil),
		ctx:        ctx,
		cancelFunc: cancel,
	}

	if config.TempDir != "" {
		if err := utils.EnsureDirExists(config.TempDir); err != nil {
			cancel()
			return nil, fmt.Errorf("创建临时目录失败: %w", err)
		}
		pc.TempDir = config.TempDir
	} else {
		tempDir, err := os.MkdirTemp("", "speaker-transcriber")
		if err != nil {
			cancel()
			return nil, fmt.Errorf("创建临时目录失败: %w", err)
		}
		pc.TempDir = tempDir
		pc.addCleanup(func() { os.RemoveAll(tempDir) })
	}

	if err := pc.initComponents(); err != nil {
		pc.Cleanup()
		return nil, err
	}
	return pc, nil
}

// 初始化所有组件
func (pc *ProcessorController) initComponents() error {
	pc.ProgressManager = ui.NewProgressManager(pc.Config.ShowProgress)

	pc.Media = processor.NewMediaProcessor(pc.TempDir, time.Duration(pc.Config.TranscribeTimeout)*time.Second)
	if !pc.Media.CheckFFmpeg() {
		utils.Warn("未找到 ffmpeg/ffprobe，视频提取和音频增强不可用")
	}

	pc.Selector = BuildSelector(pc.Config)
	pc.Diarizer = BuildDiarizer(pc.Config)

	fp, err := processor.NewFileProcessor(pc.Config, pc.Media, pc.Selector, pc.Diarizer)
	if err != nil {
		return fmt.Errorf("初始化文件处理器失败: %w", err)
	}
	pc.FileProcessor = fp

	pc.BatchProcessor = audio.NewBatchProcessor(fp, pc.Config, pc.batchProgressCallback)
	pc.BatchProcessor.SetProgressManager(pc.ProgressManager)
	if err := pc.BatchProcessor.LoadRecord(); err != nil {
		utils.Warn("%v，将重新处理所有文件", err)
	}
	return nil
}

// BuildSelector 按配置注册转录服务，已有转录文本优先
func BuildSelector(config *models.Config) *asr.Selector {
	selector := asr.NewSelector()
	selector.Register(asr.NewSidecarTranscriber(config.TranscriptDir))

	if config.TranscriberCmd != "" {
		command := asr.NewCommandTranscriber(config.TranscriberCmd, config.Model, config.Language,
			time.Duration(config.TranscribeTimeout)*time.Second)
		cacheDir := filepath.Join(config.OutputFolder, CacheDirName)
		selector.Register(asr.NewCachedTranscriber(command, cacheDir, config.Model))
	}
	return selector
}

// BuildDiarizer 按配置选择说话人分离来源
func BuildDiarizer(config *models.Config) diarize.Diarizer {
	switch {
	case !config.SpeakerAttribution:
		return diarize.Noop{}
	case config.DiarizerCmd != "":
		return diarize.NewCommandDiarizer(config.DiarizerCmd, time.Duration(config.DiarizeTimeout)*time.Second)
	default:
		return diarize.NewSidecarDiarizer(config.TranscriptDir)
	}
}

// Context 控制器的上下文，收到中断信号后取消
func (pc *ProcessorController) Context() context.Context {
	return pc.ctx
}

// Stop 取消所有正在进行的处理
func (pc *ProcessorController) Stop() {
	pc.cancelFunc()
}

// PrintBanner 打印本次运行的配置摘要
func (pc *ProcessorController) PrintBanner(title string) {
	mode := "纯文本"
	if pc.Config.SpeakerAttribution {
		mode = fmt.Sprintf("说话人标注 (%s)", pc.Config.Strategy)
	}
	names := make([]string, 0, pc.Selector.Len())
	for name := range pc.Selector.GetStats() {
		names = append(names, name)
	}
	sort.Strings(names)

	pc.Reporter.PrintBanner(title,
		fmt.Sprintf("批次: %s", pc.RunID),
		fmt.Sprintf("输入目录: %s", pc.Config.InputFolder),
		fmt.Sprintf("输出目录: %s", pc.Config.OutputFolder),
		fmt.Sprintf("模式: %s", mode),
		fmt.Sprintf("转录服务: %v", names),
		fmt.Sprintf("说话人分离: %s", pc.Diarizer.Name()),
	)
}

func (pc *ProcessorController) batchProgressCallback(current, total int, filename string, result *audio.BatchResult) {
	if result == nil {
		utils.Info("[%d/%d] 开始处理: %s", current, total, filename)
		return
	}
	pc.Reporter.PrintFileResult(FileReport(*result))
}

// FileReport 转换为界面展示用的结构
func FileReport(r audio.BatchResult) ui.FileReport {
	report := ui.FileReport{
		Name:        filepath.Base(r.FilePath),
		Success:     r.Success,
		ProcessTime: r.ProcessTime,
	}
	if r.Error != nil {
		report.Error = r.Error.Error()
	}
	if r.Result != nil {
		report.Attributed = r.Result.Attributed
		report.OutputFiles = r.Result.OutputFiles
	}
	return report
}

// BatchReport 转换为界面展示用的统计
func BatchReport(s audio.BatchStats) ui.BatchReport {
	return ui.BatchReport{
		Total:        s.Total,
		Succeeded:    s.Succeeded,
		Failed:       s.Failed,
		Attributed:   s.Attributed,
		AudioSeconds: s.AudioSeconds,
		SuccessRate:  s.SuccessRate(),
		WallTime:     s.WallTime,
		RTF:          s.RealTimeFactor(),
	}
}

// PendingFiles 扫描输入目录中尚未处理的媒体文件
func (pc *ProcessorController) PendingFiles() ([]string, error) {
	if err := utils.EnsureDirExists(pc.Config.InputFolder); err != nil {
		return nil, fmt.Errorf("创建输入目录失败: %w", err)
	}

	files, err := pc.Scanner.ScanDirectory(pc.Config.InputFolder)
	if err != nil {
		return nil, fmt.Errorf("扫描输入目录失败: %w", err)
	}
	files = pc.Scanner.FilterNewFiles(files, pc.BatchProcessor.ProcessedPaths())

	paths := make([]string, len(files))
	for i, f := range files {
		kind := "音频"
		if f.IsVideo {
			kind = "视频"
		}
		utils.Debug("%d. [%s] %s (%s)", i+1, kind, f.Name, utils.FormatFileSize(f.Size))
		paths[i] = f.Path
	}
	return paths, nil
}

// ProcessMedia 处理输入目录中所有新文件
func (pc *ProcessorController) ProcessMedia() ([]audio.BatchResult, audio.BatchStats, error) {
	start := time.Now()

	paths, err := pc.PendingFiles()
	if err != nil {
		return nil, audio.BatchStats{}, err
	}
	if len(paths) == 0 {
		utils.Info("没有需要处理的新文件")
		return nil, audio.BatchStats{}, nil
	}

	results, err := pc.BatchProcessor.ProcessFiles(pc.ctx, pc.RunID, paths)
	stats := audio.Summarize(results, time.Since(start))
	pc.Reporter.PrintBatchSummary(BatchReport(stats))
	pc.logServiceStats()
	return results, stats, err
}

// StartWatchMode 先处理已有文件，然后监控输入目录直到上下文取消
func (pc *ProcessorController) StartWatchMode() error {
	if _, _, err := pc.ProcessMedia(); err != nil {
		return err
	}

	adapter := adapters.NewBatchProcessorAdapter(pc.BatchProcessor, pc.RunID)
	mediaWatcher := watcher.NewMediaWatcher(pc.Config.InputFolder, adapter, watcher.DefaultDebounce)
	if err := mediaWatcher.Start(pc.ctx); err != nil {
		return err
	}
	pc.addCleanup(mediaWatcher.Stop)

	utils.Info("监控已启动，按Ctrl+C退出...")
	<-pc.ctx.Done()
	return nil
}

func (pc *ProcessorController) logServiceStats() {
	stats := pc.Selector.GetStats()
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stat := stats[name]
		utils.Info("转录服务 %s: 调用次数=%v, 成功率=%v, 可用=%v",
			name, stat["count"], stat["success_rate"], stat["available"])
	}
	pc.FileProcessor.ErrorHandler().PrintErrorStats()
}

// 添加清理函数
func (pc *ProcessorController) addCleanup(cleanup func()) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.cleanup = append(pc.cleanup, cleanup)
}

// Cleanup 逆序执行所有清理函数
func (pc *ProcessorController) Cleanup() {
	pc.cancelFunc()

	pc.mu.Lock()
	cleanup := pc.cleanup
	pc.cleanup = nil
	pc.mu.Unlock()

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}

	if pc.ProgressManager != nil {
		pc.ProgressManager.CloseAll("已完成")
	}
	utils.DisableTerminalProgress()
}

// HandleSignals 收到中断信号后取消上下文
func (pc *ProcessorController) HandleSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			utils.Info("接收到中断信号，正在停止...")
			pc.cancelFunc()
		case <-pc.ctx.Done():
		}
		signal.Stop(c)
	}()
}
