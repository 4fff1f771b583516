package asr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// CommandTranscriber 调用外部识别程序，从标准输出读取转录文本
//
// 模板支持 {audio} {model} {language} 占位符。输出若是带 text 字段的JSON对象则取该字段。
type CommandTranscriber struct {
	Template string
	Model    string
	Language string
	Timeout  time.Duration
}

// NewCommandTranscriber 创建命令行转录服务
func NewCommandTranscriber(template, model, language string, timeout time.Duration) *CommandTranscriber {
	return &CommandTranscriber{
		Template: template,
		Model:    model,
		Language: language,
		Timeout:  timeout,
	}
}

// Name 服务名称
func (c *CommandTranscriber) Name() string {
	return "command"
}

// Args 展开后的命令参数
func (c *CommandTranscriber) Args(audioPath string) ([]string, error) {
	return utils.ExpandCommand(c.Template, map[string]string{
		"audio":    audioPath,
		"model":    c.Model,
		"language": c.Language,
	})
}

// Transcribe 运行命令并解析输出
func (c *CommandTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args, err := c.Args(audioPath)
	if err != nil {
		return "", err
	}

	out, err := utils.RunCommand(ctx, args, c.Timeout)
	if err != nil {
		return "", err
	}

	text := parseTranscriptOutput(out)
	if text == "" {
		return "", fmt.Errorf("%s: %w", args[0], ErrNoTranscript)
	}
	return text, nil
}

func parseTranscriptOutput(out []byte) string {
	trimmed := strings.TrimSpace(string(out))
	if strings.HasPrefix(trimmed, "{") {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			return strings.TrimSpace(payload.Text)
		}
	}
	return trimmed
}
