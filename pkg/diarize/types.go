package diarize

import (
	"context"
	"errors"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// ErrNoTurns 说话人分离没有产生任何发言区间
var ErrNoTurns = errors.New("没有说话人分离结果")

// Diarizer 说话人分离服务
type Diarizer interface {
	Name() string
	Diarize(ctx context.Context, audioPath string) ([]models.DiarizationTurn, error)
}

// Noop 未启用说话人分离时使用
type Noop struct{}

// Name 服务名称
func (Noop) Name() string {
	return "none"
}

// Diarize 总是返回 ErrNoTurns
func (Noop) Diarize(ctx context.Context, audioPath string) ([]models.DiarizationTurn, error) {
	return nil, ErrNoTurns
}
