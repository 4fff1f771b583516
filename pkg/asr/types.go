package asr

import (
	"context"
	"errors"
)

// ErrNoTranscript 转录服务没有返回任何文本
var ErrNoTranscript = errors.New("没有转录结果")

// Transcriber 语音识别服务，只返回不带时间戳的整段文本
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
