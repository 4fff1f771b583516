package textclean

import (
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// Pipeline 按配置组合文本处理步骤
type Pipeline struct {
	FixRepetitions bool
	MaxRepetitions int
	CleanText      bool
}

// NewPipeline 从配置创建处理流水线
func NewPipeline(config *models.Config) *Pipeline {
	return &Pipeline{
		FixRepetitions: config.FixRepetitions,
		MaxRepetitions: config.MaxRepetitions,
		CleanText:      config.CleanText,
	}
}

// Normalize 对齐之前的处理：去杂质，按需去重复
func (p *Pipeline) Normalize(text string) string {
	text = RemoveArtifacts(text)
	if p.FixRepetitions {
		text = FixRepetitions(text, p.MaxRepetitions)
	}
	return text
}

// Finish 对齐之后对每个片段的处理
func (p *Pipeline) Finish(text string) string {
	if !p.CleanText {
		return text
	}
	return Clean(text)
}

// Process 完整处理一段文本
func (p *Pipeline) Process(text string) string {
	return p.Finish(p.Normalize(text))
}
