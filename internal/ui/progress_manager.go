package ui

import (
	"sort"
	"sync"
)

// ProgressManager 管理多个进度条，禁用时所有操作为空
type ProgressManager struct {
	progressBars map[string]*ProgressBar
	mutex        sync.Mutex
	enabled      bool
	term         *TerminalManager
}

// NewProgressManager 创建写到标准输出的进度管理器
func NewProgressManager(enabled bool) *ProgressManager {
	return NewProgressManagerWithTerminal(enabled, GetTerminalManager())
}

// NewProgressManagerWithTerminal 指定输出的进度管理器
func NewProgressManagerWithTerminal(enabled bool, term *TerminalManager) *ProgressManager {
	return &ProgressManager{
		progressBars: make(map[string]*ProgressBar),
		enabled:      enabled,
		term:         term,
	}
}

// Enabled 是否显示进度条
func (pm *ProgressManager) Enabled() bool {
	return pm.enabled
}

// CreateProgressBar 创建并注册一个新的进度条，同名进度条会先被完成
func (pm *ProgressManager) CreateProgressBar(id string, total int, prefix string, suffix string) *ProgressBar {
	if !pm.enabled {
		return nil
	}

	pm.mutex.Lock()
	old, exists := pm.progressBars[id]
	bar := newProgressBar(pm.term, total, prefix, suffix)
	pm.progressBars[id] = bar
	pm.mutex.Unlock()

	if exists {
		old.Complete("已被替换")
	}
	return bar
}

// GetProgressBar 获取已存在的进度条
func (pm *ProgressManager) GetProgressBar(id string) *ProgressBar {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	return pm.progressBars[id]
}

// UpdateProgressBar 更新进度条
func (pm *ProgressManager) UpdateProgressBar(id string, current int, suffix string) {
	if bar := pm.GetProgressBar(id); bar != nil {
		bar.Update(current, suffix)
	}
}

// CompleteProgressBar 完成并移除进度条
func (pm *ProgressManager) CompleteProgressBar(id string, suffix string) {
	pm.mutex.Lock()
	bar, exists := pm.progressBars[id]
	delete(pm.progressBars, id)
	pm.mutex.Unlock()

	if exists {
		bar.Complete(suffix)
	}
}

// CloseAll 完成所有进度条
func (pm *ProgressManager) CloseAll(suffix string) {
	pm.mutex.Lock()
	ids := make([]string, 0, len(pm.progressBars))
	for id := range pm.progressBars {
		ids = append(ids, id)
	}
	pm.mutex.Unlock()

	sort.Strings(ids)
	for _, id := range ids {
		pm.CompleteProgressBar(id, suffix)
	}
}
