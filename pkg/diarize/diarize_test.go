package diarize

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

func turn(start, end float64, speaker string) models.DiarizationTurn {
	return models.DiarizationTurn{Start: start, End: end, Speaker: models.SpeakerLabel(speaker)}
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, DetectFormat("a.json", nil))
	assert.Equal(t, FormatRTTM, DetectFormat("a.RTTM", nil))
	assert.Equal(t, FormatJSON, DetectFormat("", []byte(` [ {"start": 1} ]`)))
	assert.Equal(t, FormatJSON, DetectFormat("", []byte(`[]`)))
	assert.Equal(t, FormatJSON, DetectFormat("", []byte(`{"segments": []}`)))
	assert.Equal(t, FormatRTTM, DetectFormat("", []byte("SPEAKER file 1 0.00 1.00 <NA> <NA> A <NA> <NA>")))
	assert.Equal(t, FormatText, DetectFormat("", []byte("[0.00s -> 1.00s] SPEAKER_00")))
	assert.Equal(t, FormatText, DetectFormat("a.txt", []byte("")))
}

func TestParseJSON(t *testing.T) {
	turns, err := ParseJSON([]byte(`[{"start": 0, "end": 2.5, "speaker": "A"}, {"start": 2.5, "end": 4, "speaker": "B"}]`))
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0, 2.5, "A"), turn(2.5, 4, "B")}, turns)

	turns, err = ParseJSON([]byte(`{"segments": [{"start": 1, "end": 3, "speaker": "SPEAKER_01"}]}`))
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(1, 3, "SPEAKER_01")}, turns)

	turns, err = ParseJSON([]byte(`{"other": 1}`))
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.NotNil(t, turns)

	_, err = ParseJSON([]byte(`[{"start": "x"}]`))
	assert.Error(t, err)
}

func TestParseRTTM(t *testing.T) {
	data := []byte(`;; comment
SPEAKER meeting 1 0.50 2.00 <NA> <NA> spk_a <NA> <NA>

SPEAKER meeting 1 3.00 1.25 <NA> <NA> spk_b <NA> <NA>
`)
	turns, err := ParseRTTM(data)
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0.5, 2.5, "spk_a"), turn(3, 4.25, "spk_b")}, turns)

	_, err = ParseRTTM([]byte("SPEAKER meeting 1 abc 2.00 <NA> <NA> spk_a"))
	assert.Error(t, err)

	_, err = ParseRTTM([]byte("SPEAKER meeting 1 0.5"))
	assert.Error(t, err)
}

func TestParseText(t *testing.T) {
	data := []byte(`RAW SPEAKER DIARIZATION:
[0.00s -> 12.34s] SPEAKER_00
[12.34s -> 15.67s] SPEAKER_01: with text after
not a turn
[16s -> 18.5s] B
`)
	turns, err := ParseText(data)
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{
		turn(0, 12.34, "SPEAKER_00"),
		turn(12.34, 15.67, "SPEAKER_01"),
		turn(16, 18.5, "B"),
	}, turns)
}

func TestParseAutoDetect(t *testing.T) {
	turns, err := Parse([]byte("[1.00s -> 2.00s] A"), "")
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(1, 2, "A")}, turns)

	_, err = Parse([]byte("x"), Format("xml"))
	assert.Error(t, err)
}

func TestFormatTurnRoundTrip(t *testing.T) {
	line := FormatTurn(turn(12.34, 15.67, "SPEAKER_00"))
	assert.Equal(t, "[12.34s -> 15.67s] SPEAKER_00", line)

	turns, err := ParseText([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(12.34, 15.67, "SPEAKER_00")}, turns)
}

func TestSidecarDiarizer(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "call.wav")

	s := NewSidecarDiarizer("")
	_, err := s.Diarize(context.Background(), audio)
	assert.ErrorIs(t, err, ErrNoTurns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "call.diarization.txt"), []byte("[0.00s -> 1.00s] C\n"), 0644))
	turns, err := s.Diarize(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0, 1, "C")}, turns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "call.turns.json"), []byte(`[{"start":0,"end":2,"speaker":"J"}]`), 0644))
	turns, err = s.Diarize(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0, 2, "J")}, turns)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "call.rttm"), []byte("SPEAKER call 1 0 3 <NA> <NA> R <NA> <NA>\n"), 0644))
	turns, err = s.Diarize(context.Background(), audio)
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0, 3, "R")}, turns)
}

func TestSidecarDiarizerEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.turns.json"), []byte(`[]`), 0644))

	_, err := NewSidecarDiarizer(dir).Diarize(context.Background(), "/elsewhere/x.mp3")
	assert.ErrorIs(t, err, ErrNoTurns)
}

func TestNoop(t *testing.T) {
	var d Diarizer = Noop{}
	assert.Equal(t, "none", d.Name())
	turns, err := d.Diarize(context.Background(), "a.wav")
	assert.Nil(t, turns)
	assert.ErrorIs(t, err, ErrNoTurns)
}

func TestCommandDiarizer(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo 不可用")
	}

	turns, err := NewCommandDiarizer(`echo [{"start":0,"end":1,"speaker":"A"}]`, 0).Diarize(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, []models.DiarizationTurn{turn(0, 1, "A")}, turns)

	_, err = NewCommandDiarizer("echo nothing here {audio}", 0).Diarize(context.Background(), "a.wav")
	assert.ErrorIs(t, err, ErrNoTurns)

	_, err = NewCommandDiarizer("", 0).Diarize(context.Background(), "a.wav")
	assert.Error(t, err)
}
