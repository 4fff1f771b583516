package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ProgressBar 进度条结构，可以被多个 worker 同时更新
type ProgressBar struct {
	mu         sync.Mutex
	Total      int       // 总步数
	Current    int       // 当前进度
	Prefix     string    // 前缀
	Suffix     string    // 后缀
	Width      int       // 进度条宽度
	StartTime  time.Time // 开始时间
	LastUpdate time.Time // 上次更新时间

	term *TerminalManager
}

// NewProgressBar 创建写到标准输出的进度条
func NewProgressBar(total int, prefix string, suffix string) *ProgressBar {
	return newProgressBar(GetTerminalManager(), total, prefix, suffix)
}

func newProgressBar(term *TerminalManager, total int, prefix, suffix string) *ProgressBar {
	now := time.Now()
	return &ProgressBar{
		Total:      total,
		Prefix:     prefix,
		Suffix:     suffix,
		Width:      30,
		StartTime:  now,
		LastUpdate: now,
		term:       term,
	}
}

// Update 更新进度，超出范围时截断
func (p *ProgressBar) Update(current int, suffix string) {
	p.mu.Lock()
	if current < 0 {
		p.mu.Unlock()
		return
	}
	if current > p.Total {
		current = p.Total
	}
	p.Current = current
	if suffix != "" {
		p.Suffix = suffix
	}
	p.LastUpdate = time.Now()
	line := p.render(true)
	p.mu.Unlock()

	if current >= p.Total {
		p.term.UpdateProgress(color.GreenString(line))
	} else {
		p.term.UpdateProgress(color.CyanString(line))
	}
}

// Increment 增加进度
func (p *ProgressBar) Increment(suffix string) {
	p.mu.Lock()
	next := p.Current + 1
	p.mu.Unlock()
	p.Update(next, suffix)
}

// Complete 完成进度条并换行
func (p *ProgressBar) Complete(suffix string) {
	p.Update(p.Total, suffix)
	p.term.Newline()
}

func (p *ProgressBar) percent() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Current) / float64(p.Total)
}

// render 调用方持有锁
func (p *ProgressBar) render(withTimes bool) string {
	percent := p.percent()
	line := fmt.Sprintf("%s %s %3.0f%% | %d/%d", p.Prefix, renderProgressBar(percent, p.Width), percent*100, p.Current, p.Total)
	if !withTimes {
		return line
	}

	elapsed := time.Since(p.StartTime)
	var remaining time.Duration
	if p.Current > 0 && percent < 1 {
		remaining = time.Duration(float64(elapsed) / percent * (1 - percent))
	}
	return fmt.Sprintf("%s | %s<%s | %s", line, formatDuration(elapsed), formatDuration(remaining), p.Suffix)
}

// 格式化持续时间为 MM:SS 格式
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// String 返回进度条的字符串表示
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render(false)
}

func renderProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
