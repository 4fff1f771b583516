package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// FileReport 单个文件的处理结果
type FileReport struct {
	Name        string
	Success     bool
	Attributed  bool
	Error       string
	ProcessTime time.Duration
	OutputFiles map[string]string
}

// BatchReport 整批处理结果
type BatchReport struct {
	Total        int
	Succeeded    int
	Failed       int
	Attributed   int
	AudioSeconds float64
	SuccessRate  float64
	WallTime     time.Duration
	RTF          float64
}

// Reporter 输出彩色的处理报告
type Reporter struct {
	term *TerminalManager
}

// NewReporter 创建报告输出器，term 为 nil 时使用标准输出
func NewReporter(term *TerminalManager) *Reporter {
	if term == nil {
		term = GetTerminalManager()
	}
	return &Reporter{term: term}
}

// PrintBanner 打印启动信息
func (r *Reporter) PrintBanner(title string, lines ...string) {
	rule := strings.Repeat("=", 50)
	r.term.PrintMsg(color.CyanString(rule))
	r.term.PrintMsg(color.New(color.FgCyan, color.Bold).Sprint(title))
	for _, line := range lines {
		r.term.PrintMsg(line)
	}
	r.term.PrintMsg(color.CyanString(rule))
}

// PrintFileResult 打印单个文件的结果
func (r *Reporter) PrintFileResult(f FileReport) {
	if !f.Success {
		r.term.PrintMsg("%s %s: %s", color.RedString("✗"), f.Name, f.Error)
		return
	}

	mode := "纯文本"
	if f.Attributed {
		mode = "说话人标注"
	}
	r.term.PrintMsg("%s %s (%s, 用时 %.1f秒)", color.GreenString("✓"), f.Name, mode, f.ProcessTime.Seconds())

	keys := make([]string, 0, len(f.OutputFiles))
	for k := range f.OutputFiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.term.PrintMsg("    %-12s %s", k, f.OutputFiles[k])
	}
}

// PrintBatchSummary 打印整批统计
func (r *Reporter) PrintBatchSummary(b BatchReport) {
	r.term.PrintMsg(color.CyanString(strings.Repeat("-", 50)))
	r.term.PrintMsg("文件总数: %d", b.Total)

	succeeded := fmt.Sprintf("成功: %d", b.Succeeded)
	if b.Succeeded > 0 {
		succeeded = color.GreenString(succeeded)
	}
	failed := fmt.Sprintf("失败: %d", b.Failed)
	if b.Failed > 0 {
		failed = color.RedString(failed)
	}
	r.term.PrintMsg("%s  %s  成功率: %.1f%%", succeeded, failed, b.SuccessRate)
	r.term.PrintMsg("说话人标注: %d", b.Attributed)
	r.term.PrintMsg("音频总时长: %s  实际用时: %s", utils.FormatTimeDuration(b.AudioSeconds), utils.FormatTimeDuration(b.WallTime.Seconds()))
	if b.RTF > 0 {
		r.term.PrintMsg("实时率: %.2f", b.RTF)
	}
}
