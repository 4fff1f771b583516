package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/internal/adapters"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// DefaultDebounce 文件最后一次写入后等待的时间
const DefaultDebounce = 3 * time.Second

// MediaWatcher 监控输入目录，新媒体文件写入完成后处理一次
type MediaWatcher struct {
	folder    string
	processor adapters.MediaProcessor
	scanner   *scanner.MediaScanner
	debounce  time.Duration

	ctx      context.Context
	monitor  *FolderMonitor
	mu       sync.Mutex
	inflight map[string]bool
	stopped  bool
	wg       sync.WaitGroup
}

// NewMediaWatcher 创建媒体文件监控器
func NewMediaWatcher(folder string, processor adapters.MediaProcessor, debounce time.Duration) *MediaWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &MediaWatcher{
		folder:    folder,
		processor: processor,
		scanner:   scanner.NewMediaScanner(),
		debounce:  debounce,
		ctx:       context.Background(),
		inflight:  make(map[string]bool),
	}
}

// Start 启动监控，ctx 取消后不再处理新文件
func (w *MediaWatcher) Start(ctx context.Context) error {
	monitor, err := NewFolderMonitor(w.folder, w.isCandidate, w, w.debounce)
	if err != nil {
		return err
	}
	if err := monitor.Start(); err != nil {
		monitor.Stop()
		return err
	}

	w.mu.Lock()
	w.ctx = ctx
	w.monitor = monitor
	w.mu.Unlock()

	utils.Info("媒体文件监控已启动: %s", w.folder)
	return nil
}

// Stop 停止监控并等待正在处理的文件，之后到达的文件被忽略
func (w *MediaWatcher) Stop() {
	w.mu.Lock()
	monitor := w.monitor
	w.stopped = true
	w.mu.Unlock()

	if monitor != nil {
		monitor.Stop()
	}
	w.wg.Wait()
	utils.Info("媒体文件监控已停止")
}

// 隐藏文件不处理
func (w *MediaWatcher) isCandidate(filePath string) bool {
	return !strings.HasPrefix(filepath.Base(filePath), ".") && w.scanner.IsMedia(filePath)
}

// OnFileReady 实现 FileEventHandler
func (w *MediaWatcher) OnFileReady(filePath string) {
	w.mu.Lock()
	ctx := w.ctx
	if w.stopped || ctx.Err() != nil || w.inflight[filePath] {
		w.mu.Unlock()
		return
	}
	if w.processor.IsRecognizedFile(filePath) {
		w.mu.Unlock()
		utils.Debug("文件已处理，跳过: %s", filePath)
		return
	}
	w.inflight[filePath] = true
	w.wg.Add(1)
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		delete(w.inflight, filePath)
		w.mu.Unlock()
		w.wg.Done()
	}()

	if !w.processor.ProcessFile(ctx, filePath) {
		utils.Warn("处理文件失败: %s", filePath)
	}
}
