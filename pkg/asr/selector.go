package asr

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// ServiceStats 服务统计数据
type ServiceStats struct {
	SuccessCount int
	TotalCount   int
	Available    bool
}

// Selector 转录服务选择器，按注册顺序尝试，失败时回退到下一个服务
type Selector struct {
	mu          sync.RWMutex
	services    map[string]Transcriber
	counters    map[string]int
	stats       map[string]*ServiceStats
	serviceList []string
}

// NewSelector 创建新的服务选择器
func NewSelector() *Selector {
	return &Selector{
		services:    make(map[string]Transcriber),
		counters:    make(map[string]int),
		stats:       make(map[string]*ServiceStats),
		serviceList: make([]string, 0),
	}
}

// Register 注册转录服务，先注册的优先级更高
func (s *Selector) Register(service Transcriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := service.Name()
	if _, exists := s.services[name]; !exists {
		s.serviceList = append(s.serviceList, name)
	}
	s.services[name] = service
	s.counters[name] = 0
	s.stats[name] = &ServiceStats{Available: true}

	utils.Info("注册转录服务: %s, 优先级: %d", name, len(s.serviceList))
}

// Len 已注册的服务数量
func (s *Selector) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.serviceList)
}

// ReportResult 报告服务调用结果
func (s *Selector) ReportResult(serviceName string, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stat, exists := s.stats[serviceName]; exists {
		if success {
			stat.SuccessCount++
		}
		stat.TotalCount++

		// 更新服务可用性
		if !success && stat.TotalCount > 5 && float64(stat.SuccessCount)/float64(stat.TotalCount) < 0.2 {
			stat.Available = false
			utils.Warn("转录服务 %s 成功率过低，临时禁用", serviceName)
		} else if success && !stat.Available {
			stat.Available = true
			utils.Info("转录服务 %s 恢复可用", serviceName)
		}
	}
}

// candidates 按优先级返回可用服务；全部被禁用时退回到全部服务
func (s *Selector) candidates() []Transcriber {
	s.mu.RLock()
	defer s.mu.RUnlock()

	available := make([]Transcriber, 0, len(s.serviceList))
	for _, name := range s.serviceList {
		if s.stats[name].Available {
			available = append(available, s.services[name])
		}
	}
	if len(available) > 0 {
		return available
	}

	all := make([]Transcriber, 0, len(s.serviceList))
	for _, name := range s.serviceList {
		all = append(all, s.services[name])
	}
	return all
}

// Transcribe 依次尝试服务，返回文本和实际使用的服务名
func (s *Selector) Transcribe(ctx context.Context, audioPath string) (string, string, error) {
	services := s.candidates()
	if len(services) == 0 {
		return "", "", fmt.Errorf("没有可用的转录服务")
	}

	var errs []error
	for _, service := range services {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		name := service.Name()
		s.mu.Lock()
		s.counters[name]++
		s.mu.Unlock()

		text, err := service.Transcribe(ctx, audioPath)
		s.ReportResult(name, err == nil && text != "")
		if err == nil && text != "" {
			return text, name, nil
		}
		if err == nil {
			err = ErrNoTranscript
		}

		utils.Warn("转录服务 %s 失败: %v", name, err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return "", "", errors.Join(errs...)
}

// GetStats 获取服务使用统计信息
func (s *Selector) GetStats() map[string]map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]map[string]interface{})
	for i, name := range s.serviceList {
		stat := s.stats[name]
		successRate := 0.0
		if stat.TotalCount > 0 {
			successRate = float64(stat.SuccessCount) / float64(stat.TotalCount) * 100
		}

		result[name] = map[string]interface{}{
			"count":        s.counters[name],
			"success_rate": fmt.Sprintf("%.1f%%", successRate),
			"available":    stat.Available,
			"priority":     i + 1,
		}
	}

	return result
}
