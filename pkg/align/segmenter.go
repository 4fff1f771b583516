package align

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// Policy 文本切分策略
type Policy int

const (
	// PolicyWord 按空白切分为单词
	PolicyWord Policy = iota
	// PolicySentence 按句末标点和口语提示词切分为句子
	PolicySentence
)

// DefaultMinChars 句子单元的最小字符数，更短的视为噪声
const DefaultMinChars = 10

var (
	// 句末标点串后跟空白，在标点之后切分
	sentenceEndRe = regexp.MustCompile(`[.!?]+[\s\p{Z}]+`)
	// 空白后的口语提示词，在提示词之前切分
	cueWordRe = regexp.MustCompile(`(?i)[\s\p{Z}](and[\s\p{Z}]+uhm|uhm|um|so|but)\b`)
)

// Segmenter 把扁平转录文本切分为有序单元
type Segmenter struct {
	Policy   Policy
	MinChars int
}

// NewSegmenter 创建切分器
func NewSegmenter(policy Policy, minChars int) *Segmenter {
	return &Segmenter{Policy: policy, MinChars: minChars}
}

// Segment 使用默认最小字符数切分文本
func Segment(text string, policy Policy) []models.TranscriptUnit {
	return NewSegmenter(policy, DefaultMinChars).Segment(text)
}

// Segment 切分文本，结果确定且序号连续
func (s *Segmenter) Segment(text string) []models.TranscriptUnit {
	if strings.TrimSpace(text) == "" {
		return []models.TranscriptUnit{}
	}

	var pieces []string
	switch s.Policy {
	case PolicySentence:
		pieces = splitSentences(text)
	default:
		pieces = strings.Fields(text)
	}

	units := make([]models.TranscriptUnit, 0, len(pieces))
	for _, piece := range pieces {
		if s.Policy == PolicySentence && utf8.RuneCountInString(piece) < s.MinChars {
			continue
		}
		units = append(units, models.NewTranscriptUnit(piece, len(units)))
	}
	return units
}

// splitSentences 计算切分点后切片，去掉首尾空白
func splitSentences(text string) []string {
	cuts := []int{}
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		// 切分点在标点串末尾，空白归入下一段再被修剪
		match := text[loc[0]:loc[1]]
		punct := strings.TrimRightFunc(match, unicode.IsSpace)
		cuts = append(cuts, loc[0]+len(punct))
	}
	for _, loc := range cueWordRe.FindAllStringSubmatchIndex(text, -1) {
		cuts = append(cuts, loc[2])
	}

	sort.Ints(cuts)

	pieces := []string{}
	prev := 0
	for _, cut := range cuts {
		if cut <= prev {
			continue
		}
		if piece := strings.TrimSpace(text[prev:cut]); piece != "" {
			pieces = append(pieces, piece)
		}
		prev = cut
	}
	if piece := strings.TrimSpace(text[prev:]); piece != "" {
		pieces = append(pieces, piece)
	}
	return pieces
}
