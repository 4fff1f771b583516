package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/audio"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

type stubHandler struct {
	fail map[string]bool
}

func (h stubHandler) Process(ctx context.Context, runID, filePath string) (*models.Result, error) {
	if h.fail[filePath] {
		return nil, errors.New("处理失败")
	}
	return &models.Result{RunID: runID, FilePath: filePath}, nil
}

func TestBatchProcessorAdapter(t *testing.T) {
	config := models.NewDefaultConfig()
	config.OutputFolder = t.TempDir()

	processor := audio.NewBatchProcessor(stubHandler{fail: map[string]bool{"bad.wav": true}}, config, nil)
	adapter := NewBatchProcessorAdapter(processor, "run-1")

	var seen []string
	adapter.OnResult = func(r audio.BatchResult) { seen = append(seen, r.FilePath) }

	var _ MediaProcessor = adapter

	assert.False(t, adapter.IsRecognizedFile("good.wav"))
	assert.True(t, adapter.ProcessFile(context.Background(), "good.wav"))
	assert.True(t, adapter.IsRecognizedFile("good.wav"))

	assert.False(t, adapter.ProcessFile(context.Background(), "bad.wav"))
	assert.False(t, adapter.IsRecognizedFile("bad.wav"))
	assert.Equal(t, []string{"good.wav", "bad.wav"}, seen)
}

func TestBatchProcessorAdapterCancelled(t *testing.T) {
	config := models.NewDefaultConfig()
	config.OutputFolder = t.TempDir()
	adapter := NewBatchProcessorAdapter(audio.NewBatchProcessor(stubHandler{}, config, nil), "run")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, adapter.ProcessFile(ctx, "a.wav"))
}
