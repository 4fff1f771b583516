package diarize

import (
	"context"
	"fmt"
	"time"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// CommandDiarizer 调用外部分离程序，标准输出为 JSON、RTTM 或文本格式
type CommandDiarizer struct {
	Template string
	Timeout  time.Duration
}

// NewCommandDiarizer 创建命令行分离服务，模板支持 {audio} 占位符
func NewCommandDiarizer(template string, timeout time.Duration) *CommandDiarizer {
	return &CommandDiarizer{Template: template, Timeout: timeout}
}

// Name 服务名称
func (c *CommandDiarizer) Name() string {
	return "command"
}

// Diarize 运行命令并解析输出
func (c *CommandDiarizer) Diarize(ctx context.Context, audioPath string) ([]models.DiarizationTurn, error) {
	args, err := utils.ExpandCommand(c.Template, map[string]string{"audio": audioPath})
	if err != nil {
		return nil, err
	}

	out, err := utils.RunCommand(ctx, args, c.Timeout)
	if err != nil {
		return nil, err
	}

	turns, err := Parse(out, "")
	if err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, fmt.Errorf("%s: %w", args[0], ErrNoTurns)
	}
	return turns, nil
}
