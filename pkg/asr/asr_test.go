package asr

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTranscriber 模拟的转录服务
type MockTranscriber struct {
	mock.Mock
	name string
}

func (m *MockTranscriber) Name() string {
	return m.name
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	args := m.Called(ctx, audioPath)
	return args.String(0), args.Error(1)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	writeFile(t, a, "same bytes")
	writeFile(t, b, "same bytes")

	fa, err := Fingerprint(a)
	require.NoError(t, err)
	fb, err := Fingerprint(b)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Len(t, fa, 8)

	_, err = Fingerprint(filepath.Join(dir, "missing.wav"))
	assert.Error(t, err)
}

func TestSidecarTranscriber(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "meeting.wav")
	writeFile(t, audio, "RIFF")

	s := NewSidecarTranscriber("")
	_, err := s.Transcribe(context.Background(), audio)
	assert.ErrorIs(t, err, ErrNoTranscript)

	writeFile(t, filepath.Join(dir, "meeting.transcript.txt"), "  second choice \n")
	text, err := s.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "second choice", text)

	writeFile(t, filepath.Join(dir, "meeting.txt"), "first choice")
	text, err = s.Transcribe(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, "first choice", text)
}

func TestSidecarTranscriberSeparateDirAndEmptyFile(t *testing.T) {
	audioDir := t.TempDir()
	textDir := t.TempDir()
	audio := filepath.Join(audioDir, "call.mp3")
	writeFile(t, filepath.Join(textDir, "call.txt"), "   ")

	s := NewSidecarTranscriber(textDir)
	assert.Equal(t, filepath.Join(textDir, "call.txt"), s.Candidates(audio)[0])

	_, err := s.Transcribe(context.Background(), audio)
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestSidecarTranscriberCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSidecarTranscriber("").Transcribe(ctx, "x.wav")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseTranscriptOutput(t *testing.T) {
	assert.Equal(t, "plain text", parseTranscriptOutput([]byte("plain text\n")))
	assert.Equal(t, "from json", parseTranscriptOutput([]byte(`{"text": " from json ", "language": "en"}`)))
	assert.Equal(t, "{not json", parseTranscriptOutput([]byte("{not json")))
}

func TestCommandTranscriberArgs(t *testing.T) {
	c := NewCommandTranscriber("whisper --model {model} --language {language} {audio}", "large-v3", "en", 0)

	args, err := c.Args("/data/my file.wav")
	require.NoError(t, err)
	assert.Equal(t, []string{"whisper", "--model", "large-v3", "--language", "en", "/data/my file.wav"}, args)

	_, err = NewCommandTranscriber("   ", "", "", 0).Args("a.wav")
	assert.Error(t, err)
}

func TestCommandTranscriberRunsCommand(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo 不可用")
	}

	text, err := NewCommandTranscriber("echo hello {audio}", "", "", 0).Transcribe(context.Background(), "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)

	text, err = NewCommandTranscriber(`echo {"text":"wrapped"}`, "", "", 0).Transcribe(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "wrapped", text)
}

func TestCommandTranscriberMissingBinary(t *testing.T) {
	_, err := NewCommandTranscriber("definitely-not-a-real-asr-binary {audio}", "", "", 0).
		Transcribe(context.Background(), "a.wav")
	assert.Error(t, err)
}

func TestCachedTranscriber(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "a.wav")
	writeFile(t, audio, "audio bytes")

	inner := &MockTranscriber{name: "mock"}
	inner.On("Transcribe", mock.Anything, audio).Return("cached text", nil).Once()

	cached := NewCachedTranscriber(inner, filepath.Join(dir, "cache"), "openai/whisper")
	assert.Equal(t, "mock", cached.Name())

	for i := 0; i < 3; i++ {
		text, err := cached.Transcribe(context.Background(), audio)
		require.NoError(t, err)
		assert.Equal(t, "cached text", text)
	}
	inner.AssertNumberOfCalls(t, "Transcribe", 1)

	fp, err := Fingerprint(audio)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "cache", cached.GetCacheKey(fp)))
	assert.NotContains(t, cached.GetCacheKey(fp), "/")
}

func TestCachedTranscriberDoesNotCacheErrors(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "a.wav")
	writeFile(t, audio, "audio bytes")

	inner := &MockTranscriber{name: "mock"}
	inner.On("Transcribe", mock.Anything, audio).Return("", errors.New("boom")).Twice()

	cached := NewCachedTranscriber(inner, dir, "m")
	_, err := cached.Transcribe(context.Background(), audio)
	assert.Error(t, err)
	_, err = cached.Transcribe(context.Background(), audio)
	assert.Error(t, err)
	inner.AssertExpectations(t)
}

func TestSelectorFallsBack(t *testing.T) {
	primary := &MockTranscriber{name: "primary"}
	primary.On("Transcribe", mock.Anything, "a.wav").Return("", errors.New("down"))
	backup := &MockTranscriber{name: "backup"}
	backup.On("Transcribe", mock.Anything, "a.wav").Return("hello", nil)

	s := NewSelector()
	s.Register(primary)
	s.Register(backup)
	assert.Equal(t, 2, s.Len())

	text, service, err := s.Transcribe(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "backup", service)

	stats := s.GetStats()
	assert.Equal(t, 1, stats["primary"]["count"])
	assert.Equal(t, "0.0%", stats["primary"]["success_rate"])
	assert.Equal(t, "100.0%", stats["backup"]["success_rate"])
	assert.Equal(t, 1, stats["primary"]["priority"])
	assert.Equal(t, 2, stats["backup"]["priority"])
}

func TestSelectorEmptyTextCountsAsFailure(t *testing.T) {
	silent := &MockTranscriber{name: "silent"}
	silent.On("Transcribe", mock.Anything, "a.wav").Return("", nil)

	s := NewSelector()
	s.Register(silent)

	_, _, err := s.Transcribe(context.Background(), "a.wav")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestSelectorNoServices(t *testing.T) {
	_, _, err := NewSelector().Transcribe(context.Background(), "a.wav")
	assert.Error(t, err)
}

func TestSelectorDisablesFailingService(t *testing.T) {
	flaky := &MockTranscriber{name: "flaky"}
	flaky.On("Transcribe", mock.Anything, "a.wav").Return("", errors.New("down"))
	good := &MockTranscriber{name: "good"}
	good.On("Transcribe", mock.Anything, "a.wav").Return("ok", nil)

	s := NewSelector()
	s.Register(flaky)
	s.Register(good)

	for i := 0; i < 6; i++ {
		_, service, err := s.Transcribe(context.Background(), "a.wav")
		require.NoError(t, err)
		assert.Equal(t, "good", service)
	}
	assert.Equal(t, false, s.GetStats()["flaky"]["available"])

	_, _, err := s.Transcribe(context.Background(), "a.wav")
	require.NoError(t, err)
	flaky.AssertNumberOfCalls(t, "Transcribe", 6)

	s.ReportResult("flaky", true)
	assert.Equal(t, true, s.GetStats()["flaky"]["available"])
}

func TestSelectorAllDisabledStillTries(t *testing.T) {
	only := &MockTranscriber{name: "only"}
	only.On("Transcribe", mock.Anything, "a.wav").Return("", errors.New("down")).Times(6)

	s := NewSelector()
	s.Register(only)
	for i := 0; i < 6; i++ {
		_, _, err := s.Transcribe(context.Background(), "a.wav")
		assert.Error(t, err)
	}
	assert.Equal(t, false, s.GetStats()["only"]["available"])
	only.AssertExpectations(t)
}
