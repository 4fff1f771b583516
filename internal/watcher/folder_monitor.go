package watcher

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// FileEventHandler 处理写入完成的文件
type FileEventHandler interface {
	OnFileReady(filePath string)
}

// FileFilter 判断文件是否需要关注
type FileFilter func(filePath string) bool

// FolderMonitor 监控文件夹变化，文件在 debounceTime 内无新写入才交给 handler
type FolderMonitor struct {
	watcher      *fsnotify.Watcher
	folderPath   string
	filter       FileFilter
	handler      FileEventHandler
	debounceTime time.Duration
	pendingFiles map[string]*time.Timer
	mutex        sync.Mutex
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewFolderMonitor 创建新的文件夹监控器
func NewFolderMonitor(folderPath string, filter FileFilter, handler FileEventHandler, debounceTime time.Duration) (*FolderMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监控器失败: %w", err)
	}

	return &FolderMonitor{
		watcher:      watcher,
		folderPath:   folderPath,
		filter:       filter,
		handler:      handler,
		debounceTime: debounceTime,
		pendingFiles: make(map[string]*time.Timer),
		stopChan:     make(chan struct{}),
	}, nil
}

// Start 开始监控文件夹
func (m *FolderMonitor) Start() error {
	if err := os.MkdirAll(m.folderPath, 0755); err != nil {
		return fmt.Errorf("创建文件夹失败: %w", err)
	}

	if err := m.watcher.Add(m.folderPath); err != nil {
		return fmt.Errorf("添加监控文件夹失败: %w", err)
	}

	go m.watchLoop()

	utils.Info("开始监控文件夹: %s", m.folderPath)
	return nil
}

// Stop 停止监控，可重复调用
func (m *FolderMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.watcher.Close()

		m.mutex.Lock()
		for path, timer := range m.pendingFiles {
			timer.Stop()
			delete(m.pendingFiles, path)
		}
		m.mutex.Unlock()

		utils.Info("停止监控文件夹: %s", m.folderPath)
	})
}

// Pending 等待中的文件数
func (m *FolderMonitor) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.pendingFiles)
}

func (m *FolderMonitor) watchLoop() {
	for {
		select {
		case <-m.stopChan:
			return
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleFileEvent(event)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			utils.Error("监控文件夹时出错: %v", err)
		}
	}
}

func (m *FolderMonitor) handleFileEvent(event fsnotify.Event) {
	// 重命名进来的文件表现为 Create
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	filePath := event.Name
	if !m.isTargetFile(filePath) {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	select {
	case <-m.stopChan:
		return
	default:
	}

	if timer, exists := m.pendingFiles[filePath]; exists {
		timer.Stop()
	}
	m.pendingFiles[filePath] = time.AfterFunc(m.debounceTime, func() {
		m.processFile(filePath)
	})

	utils.Debug("检测到文件变化: %s", filePath)
}

func (m *FolderMonitor) isTargetFile(filePath string) bool {
	fileInfo, err := os.Stat(filePath)
	if err != nil || fileInfo.IsDir() {
		return false
	}
	return m.filter == nil || m.filter(filePath)
}

func (m *FolderMonitor) processFile(filePath string) {
	m.mutex.Lock()
	delete(m.pendingFiles, filePath)
	m.mutex.Unlock()

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return
	}

	utils.Info("准备处理文件: %s", filePath)
	if m.handler != nil {
		m.handler.OnFileReady(filePath)
	}
}
