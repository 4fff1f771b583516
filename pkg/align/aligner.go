package align

import (
	"math"
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// Alignment 一次对齐的结果
type Alignment struct {
	Segments      []models.AttributedSegment
	Strategy      string
	Attributed    bool   // 为 false 时调用方输出未归属的转录文本
	SkipReason    string // 跳过归属的原因
	RejectedTurns int    // 被丢弃的非法发言区间数
}

// Option 对齐器选项
type Option func(*Aligner)

// WithStrategy 设置归属策略（sentence 或 word）
func WithStrategy(name string) Option {
	return func(a *Aligner) {
		a.strategyName = name
	}
}

// WithGapThreshold 设置合并间隔
func WithGapThreshold(gap float64) Option {
	return func(a *Aligner) {
		a.gap = gap
	}
}

// WithMinChars 设置句子单元最小字符数
func WithMinChars(n int) Option {
	return func(a *Aligner) {
		a.minChars = n
	}
}

// WithEstimator 替换时间估计器
func WithEstimator(e TimingEstimator) Option {
	return func(a *Aligner) {
		a.estimator = e
	}
}

// Aligner 对齐引擎入口，不在文件之间保存状态
type Aligner struct {
	strategyName string
	gap          float64
	minChars     int
	estimator    TimingEstimator
	strategy     AttributionStrategy
}

// NewAligner 创建对齐器，默认句子级策略
func NewAligner(opts ...Option) *Aligner {
	a := &Aligner{
		strategyName: models.StrategySentence,
		gap:          DefaultGapThreshold,
		minChars:     DefaultMinChars,
	}
	for _, opt := range opts {
		opt(a)
	}

	switch a.strategyName {
	case models.StrategyWord:
		a.strategy = NewWordStrategy(a.estimator)
	default:
		a.strategyName = models.StrategySentence
		a.strategy = NewSentenceStrategy(a.minChars, a.gap, a.estimator)
	}
	return a
}

// Strategy 返回当前使用的策略
func (a *Aligner) Strategy() AttributionStrategy {
	return a.strategy
}

// Align 对齐转录文本和说话人分离结果
//
// 退化输入从不返回错误：没有合法区间、文本为空或时长无法确定时
// Attributed 为 false 并给出原因。
func (a *Aligner) Align(transcript string, turns []models.DiarizationTurn, duration float64) Alignment {
	valid, rejected := SanitizeTurns(turns)
	result := Alignment{
		Segments:      []models.AttributedSegment{},
		Strategy:      a.strategy.Name(),
		RejectedTurns: rejected,
	}

	if len(valid) == 0 {
		if rejected > 0 {
			result.SkipReason = "所有发言区间均不合法"
		} else {
			result.SkipReason = "没有说话人分离结果"
		}
		return result
	}

	if strings.TrimSpace(transcript) == "" {
		result.SkipReason = "转录文本为空"
		return result
	}

	if !validDuration(duration) {
		duration = DurationFromTurns(valid)
	}
	if !validDuration(duration) {
		result.SkipReason = "无法确定音频时长"
		return result
	}

	result.Segments = a.strategy.Attribute(transcript, valid, duration)
	if len(result.Segments) == 0 {
		result.SkipReason = "没有足够长的文本单元"
		return result
	}
	result.Attributed = true
	return result
}

// SanitizeTurns 去掉非法区间，返回合法区间和被丢弃的数量
func SanitizeTurns(turns []models.DiarizationTurn) ([]models.DiarizationTurn, int) {
	valid := make([]models.DiarizationTurn, 0, len(turns))
	rejected := 0
	for _, t := range turns {
		if t.Validate() != nil {
			rejected++
			continue
		}
		valid = append(valid, t)
	}
	return valid, rejected
}

// DurationFromTurns 合法区间的最大结束时间，用作探测失败时的时长
func DurationFromTurns(turns []models.DiarizationTurn) float64 {
	maxEnd := 0.0
	for _, t := range turns {
		if t.Validate() != nil {
			continue
		}
		maxEnd = math.Max(maxEnd, t.End)
	}
	return maxEnd
}
