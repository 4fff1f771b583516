package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/asr"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/diarize"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

type MockMedia struct {
	mock.Mock
}

func (m *MockMedia) GetMediaInfo(ctx context.Context, filePath string) (*MediaInfo, error) {
	args := m.Called(ctx, filePath)
	info, _ := args.Get(0).(*MediaInfo)
	return info, args.Error(1)
}

func (m *MockMedia) EnhanceAudio(ctx context.Context, inputPath, outputPath string) (string, error) {
	args := m.Called(ctx, inputPath, outputPath)
	return args.String(0), args.Error(1)
}

func (m *MockMedia) ExtractAudioFromVideo(ctx context.Context, videoPath string) (string, error) {
	args := m.Called(ctx, videoPath)
	return args.String(0), args.Error(1)
}

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Transcribe(ctx context.Context, audioPath string) (string, string, error) {
	args := m.Called(ctx, audioPath)
	return args.String(0), args.String(1), args.Error(2)
}

type MockDiarizer struct {
	mock.Mock
}

func (m *MockDiarizer) Name() string { return "mock" }

func (m *MockDiarizer) Diarize(ctx context.Context, audioPath string) ([]models.DiarizationTurn, error) {
	args := m.Called(ctx, audioPath)
	turns, _ := args.Get(0).([]models.DiarizationTurn)
	return turns, args.Error(1)
}

const twoSpeakers = "Hello there, how are you doing today? I am fine, thanks for asking."

var twoTurns = []models.DiarizationTurn{
	{Start: 0, End: 2, Speaker: "A"},
	{Start: 2, End: 4, Speaker: "B"},
}

type fixture struct {
	config  *models.Config
	input   string
	media   *MockMedia
	source  *MockSource
	diarize *MockDiarizer
}

func newFixture(t *testing.T, name string) *fixture {
	dir := t.TempDir()
	input := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(input, []byte("RIFF fake audio"), 0644))

	config := models.NewDefaultConfig()
	config.OutputFolder = filepath.Join(dir, "out")
	config.TempDir = filepath.Join(dir, "tmp")
	config.RetryDelay = 0
	config.MaxRetries = 2
	config.SpeakerAttribution = true

	return &fixture{
		config:  config,
		input:   input,
		media:   new(MockMedia),
		source:  new(MockSource),
		diarize: new(MockDiarizer),
	}
}

func (f *fixture) processor(t *testing.T) *FileProcessor {
	p, err := NewFileProcessor(f.config, f.media, f.source, f.diarize)
	require.NoError(t, err)
	return p
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestProcessAttributed(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.ExportJSON = true
	f.config.ExportSRT = true
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, f.input).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, f.input).Return(twoSpeakers, "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run-1", f.input)
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, "sidecar", result.Service)
	assert.Equal(t, models.StrategySentence, result.Strategy)
	assert.True(t, result.Attributed)
	assert.Empty(t, result.SkipReason)
	assert.Equal(t, 2, result.SegmentCount)
	assert.Len(t, result.Speakers, 2)
	assert.Equal(t, int64(4000), result.DurationMs)

	speakers := readFile(t, result.OutputFiles["speakers"])
	assert.Contains(t, speakers, "] A: Hello there, how are you doing today?")
	assert.Contains(t, speakers, "] B: I am fine, thanks for asking.")
	assert.Contains(t, speakers, "RAW SPEAKER DIARIZATION:")
	assert.Contains(t, speakers, "[2.00s -> 4.00s] B\n")

	plain := readFile(t, result.OutputFiles["transcript"])
	assert.Contains(t, plain, twoSpeakers)
	assert.NotContains(t, plain, "SPEAKER-ATTRIBUTED")

	srt := readFile(t, result.OutputFiles["srt"])
	assert.Contains(t, srt, "A: Hello there")
	assert.Contains(t, srt, "B: I am fine")
	assert.FileExists(t, result.OutputFiles["json"])

	f.media.AssertNotCalled(t, "EnhanceAudio", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDiarizationFailureDegrades(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.ExportSRT = true
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, f.input).Return(nil, diarize.ErrNoTurns)
	f.source.On("Transcribe", mock.Anything, f.input).Return(twoSpeakers, "command", nil)

	result, err := f.processor(t).Process(context.Background(), "run-2", f.input)
	require.NoError(t, err)

	assert.False(t, result.Attributed)
	assert.Equal(t, diarize.ErrNoTurns.Error(), result.SkipReason)
	assert.NotContains(t, result.OutputFiles, "speakers")
	assert.FileExists(t, result.OutputFiles["transcript"])

	// 无归属时按比例估计时间生成字幕
	srt := readFile(t, result.OutputFiles["srt"])
	assert.Contains(t, srt, "1\n00:00:00,000 --> ")
	assert.Contains(t, srt, "\nI am fine, thanks for asking.\n")
	assert.NotContains(t, srt, "A:")
}

func TestProcessWithoutAttribution(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.SpeakerAttribution = false
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(nil, errors.New("no ffprobe"))
	f.source.On("Transcribe", mock.Anything, f.input).Return("just text here.", "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)

	assert.False(t, result.Attributed)
	assert.Empty(t, result.SkipReason)
	assert.Empty(t, result.Strategy)
	assert.Zero(t, result.DurationMs)
	f.diarize.AssertNotCalled(t, "Diarize", mock.Anything, mock.Anything)
	assert.Contains(t, readFile(t, result.OutputFiles["transcript"]), "Just text here.")
}

func TestProcessDurationFallsBackToTurns(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(nil, errors.New("probe failed"))
	f.diarize.On("Diarize", mock.Anything, f.input).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, f.input).Return(twoSpeakers, "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)

	assert.True(t, result.Attributed)
	assert.Equal(t, int64(4000), result.DurationMs)
}

func TestProcessTranscriptionMissingIsNotRetried(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.MaxRetries = 3
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, f.input).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, f.input).Return("", "", asr.ErrNoTranscript)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.Error(t, err)
	assert.ErrorIs(t, err, asr.ErrNoTranscript)
	assert.Empty(t, result.OutputFiles)
	f.source.AssertNumberOfCalls(t, "Transcribe", 1)
}

func TestProcessTranscriptionRetried(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.SpeakerAttribution = false
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.source.On("Transcribe", mock.Anything, f.input).Return("", "", errors.New("timeout")).Once()
	f.source.On("Transcribe", mock.Anything, f.input).Return("second try.", "command", nil).Once()

	p := f.processor(t)
	result, err := p.Process(context.Background(), "run", f.input)
	require.NoError(t, err)
	assert.Equal(t, "command", result.Service)
	f.source.AssertNumberOfCalls(t, "Transcribe", 2)
	assert.Equal(t, 1, p.ErrorHandler().GetErrorStats()["转录"]["timeout"])
}

func TestProcessMasksNames(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.MaskNames = true
	f.config.SaveMaskingLogs = true
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, f.input).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, f.input).
		Return("Yesterday John met Sarah at the park. I am fine, thanks for asking.", "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Replacements)
	plain := readFile(t, result.OutputFiles["transcript"])
	assert.Contains(t, plain, "Yesterday [NAME] met [NAME] at the park.")
	assert.NotContains(t, readFile(t, result.OutputFiles["speakers"]), "John")

	log := readFile(t, result.OutputFiles["masking_log"])
	assert.True(t, strings.HasPrefix(log, "filename,order,original,replacement,context_sentence"))
	assert.Contains(t, log, "call.wav,1,John,[NAME]")
}

func TestProcessEnhancedAudioIsUsedAndRemoved(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.EnhanceAudio = true
	enhanced := filepath.Join(filepath.Dir(f.input), "call_enhanced.wav")
	require.NoError(t, os.WriteFile(enhanced, []byte("enhanced"), 0644))

	f.media.On("EnhanceAudio", mock.Anything, f.input, "").Return(enhanced, nil)
	f.media.On("GetMediaInfo", mock.Anything, enhanced).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, enhanced).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, enhanced).Return(twoSpeakers, "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)
	assert.True(t, result.Attributed)
	assert.NoFileExists(t, enhanced)
	assert.Contains(t, readFile(t, result.OutputFiles["transcript"]), "Audio enhanced before transcription")
}

func TestProcessEnhanceFailureUsesOriginal(t *testing.T) {
	f := newFixture(t, "call.wav")
	f.config.EnhanceAudio = true
	f.config.SaveEnhancedAudio = true
	saved := filepath.Join(f.config.OutputFolder, "enhanced", "call_enhanced.wav")

	f.media.On("EnhanceAudio", mock.Anything, f.input, saved).Return("", errors.New("ffmpeg missing"))
	f.media.On("GetMediaInfo", mock.Anything, f.input).Return(&MediaInfo{Duration: 4}, nil)
	f.diarize.On("Diarize", mock.Anything, f.input).Return(twoTurns, nil)
	f.source.On("Transcribe", mock.Anything, f.input).Return(twoSpeakers, "sidecar", nil)

	_, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)
	f.media.AssertExpectations(t)
}

func TestProcessVideoExtractsAudio(t *testing.T) {
	f := newFixture(t, "lecture.mp4")
	f.config.SpeakerAttribution = false
	extracted := filepath.Join(filepath.Dir(f.input), "lecture_audio.wav")
	require.NoError(t, os.WriteFile(extracted, []byte("audio"), 0644))

	f.media.On("ExtractAudioFromVideo", mock.Anything, f.input).Return(extracted, nil)
	f.media.On("GetMediaInfo", mock.Anything, extracted).Return(&MediaInfo{Duration: 10}, nil)
	f.source.On("Transcribe", mock.Anything, extracted).Return("A lecture.", "sidecar", nil)

	result, err := f.processor(t).Process(context.Background(), "run", f.input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.config.OutputFolder, "lecture_transcript.txt"), result.OutputFiles["transcript"])
	assert.NoFileExists(t, extracted)
}

func TestProcessMissingFile(t *testing.T) {
	f := newFixture(t, "call.wav")
	_, err := f.processor(t).Process(context.Background(), "run", filepath.Join(t.TempDir(), "gone.wav"))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "2 个说话人, 3 个片段", Summary(&models.Result{
		Attributed:   true,
		SegmentCount: 3,
		Speakers:     map[models.SpeakerLabel]models.SpeakerStats{"A": {}, "B": {}},
	}))
	assert.Equal(t, "无说话人归属: 没有说话人分离结果", Summary(&models.Result{SkipReason: "没有说话人分离结果"}))
	assert.Equal(t, "无说话人归属", Summary(&models.Result{}))
}
