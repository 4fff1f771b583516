package models

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// SpeakerLabel 说话人标识，只比较相等，不解析内部结构
type SpeakerLabel string

// Unattributed 表示未能归属说话人
const Unattributed SpeakerLabel = ""

// DiarizationTurn 说话人分离得到的一个发言区间
type DiarizationTurn struct {
	Start   float64      `json:"start" yaml:"start"`     // 开始时间（秒）
	End     float64      `json:"end" yaml:"end"`         // 结束时间（秒）
	Speaker SpeakerLabel `json:"speaker" yaml:"speaker"` // 说话人
}

// NewDiarizationTurn 创建发言区间，校验 end >= start 且说话人非空
func NewDiarizationTurn(start, end float64, speaker SpeakerLabel) (DiarizationTurn, error) {
	turn := DiarizationTurn{Start: start, End: end, Speaker: speaker}
	if err := turn.Validate(); err != nil {
		return DiarizationTurn{}, err
	}
	return turn, nil
}

// Validate 校验区间是否合法
func (t DiarizationTurn) Validate() error {
	if math.IsNaN(t.Start) || math.IsNaN(t.End) || math.IsInf(t.Start, 0) || math.IsInf(t.End, 0) {
		return fmt.Errorf("无效的发言区间: 时间不是有限数值 (%v, %v)", t.Start, t.End)
	}
	if t.Start < 0 {
		return fmt.Errorf("无效的发言区间: 开始时间为负 %.3f", t.Start)
	}
	if t.End < t.Start {
		return fmt.Errorf("无效的发言区间: 结束时间 %.3f 早于开始时间 %.3f", t.End, t.Start)
	}
	if t.Speaker == Unattributed {
		return fmt.Errorf("无效的发言区间: 缺少说话人标签 (%.3f, %.3f)", t.Start, t.End)
	}
	return nil
}

// Duration 区间时长
func (t DiarizationTurn) Duration() float64 {
	return t.End - t.Start
}

// TranscriptUnit 转录文本中参与时间估计的最小单元（单词或句子）
type TranscriptUnit struct {
	Text       string
	CharLength int // 字符数（按rune计算）
	Index      int // 序号
}

// NewTranscriptUnit 创建文本单元，CharLength 由文本推导
func NewTranscriptUnit(text string, index int) TranscriptUnit {
	return TranscriptUnit{
		Text:       text,
		CharLength: utf8.RuneCountInString(text),
		Index:      index,
	}
}

// TimedUnit 带估计时间跨度的文本单元，时间是模型近似值而非真实时间
type TimedUnit struct {
	TranscriptUnit
	Start float64
	End   float64
}

// AttributedSegment 已归属说话人的转录片段
type AttributedSegment struct {
	Start   float64      `json:"start"`
	End     float64      `json:"end"`
	Speaker SpeakerLabel `json:"speaker,omitempty"`
	Text    string       `json:"text"`
}

// Duration 片段时长
func (s AttributedSegment) Duration() float64 {
	return s.End - s.Start
}

// SpeakerStats 单个说话人的汇总统计
type SpeakerStats struct {
	SegmentCount  int     `json:"segment_count"`
	TotalDuration float64 `json:"total_duration"`
}
