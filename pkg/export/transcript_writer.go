package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// UnknownSpeaker 未归属片段在输出中的标签
const UnknownSpeaker = "UNKNOWN"

// Header 转录文件头部信息
type Header struct {
	Title              string
	InputFile          string
	Processed          time.Time
	Model              string
	Language           string
	EnhanceAudio       bool
	FixRepetitions     bool
	MaskNames          bool
	CustomNameList     bool
	SpeakerAttribution bool
}

// NewHeader 根据配置生成文件头
func NewHeader(config *models.Config, inputFile string, processed time.Time) Header {
	return Header{
		Title:          utils.BaseName(inputFile),
		InputFile:      filepath.Base(inputFile),
		Processed:      processed,
		Model:          config.Model,
		Language:       config.Language,
		EnhanceAudio:   config.EnhanceAudio,
		FixRepetitions: config.FixRepetitions,
		MaskNames:      config.MaskNames,
		CustomNameList: config.NamesFile != "" || config.SurnamesFile != "",
	}
}

// Render 输出文件头文本
func (h Header) Render() string {
	rule := strings.Repeat("=", utf8.RuneCountInString(h.Title))
	if rule == "" {
		rule = "="
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", h.Title, rule)
	fmt.Fprintf(&b, "Input file: %s\n", h.InputFile)
	fmt.Fprintf(&b, "Processed: %s\n", h.Processed.Format("2006-01-02 15:04:05"))
	if h.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n", h.Model)
	}
	if h.EnhanceAudio {
		b.WriteString("Audio enhanced before transcription\n")
	}
	if h.Language != "" {
		fmt.Fprintf(&b, "Language: %s\n", titleCase(h.Language))
	}
	if h.FixRepetitions {
		b.WriteString("Edited to remove likely spurious repetitions.\n")
	}
	if h.MaskNames {
		if h.CustomNameList {
			b.WriteString("Privacy: Personal names masked using custom list (review recommended)\n")
		} else {
			b.WriteString("Privacy: Personal names masked using internal list (review recommended)\n")
		}
	}
	if h.SpeakerAttribution {
		b.WriteString("Speaker attribution: Enabled (accuracy depends on recording quality, speaker count, and speaker similarity)\n")
	}
	fmt.Fprintf(&b, "%s\n\n", rule)
	return b.String()
}

func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FormatSegment "[12.34s -> 15.67s] SPEAKER_00: text"
func FormatSegment(seg models.AttributedSegment) string {
	speaker := string(seg.Speaker)
	if seg.Speaker == models.Unattributed {
		speaker = UnknownSpeaker
	}
	return fmt.Sprintf("[%.2fs -> %.2fs] %s: %s", seg.Start, seg.End, speaker, seg.Text)
}

// FormatSegments 每个片段一段，段间空一行
func FormatSegments(segments []models.AttributedSegment) string {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = FormatSegment(seg)
	}
	return strings.Join(lines, "\n\n")
}

// FormatRawTurns 原始发言区间列表
func FormatRawTurns(turns []models.DiarizationTurn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = fmt.Sprintf("[%.2fs -> %.2fs] %s", t.Start, t.End, t.Speaker)
	}
	return strings.Join(lines, "\n")
}

// TranscriptWriter 写出纯文本转录文件
type TranscriptWriter struct {
	OutputFolder string
}

// NewTranscriptWriter 创建转录文件写入器
func NewTranscriptWriter(outputFolder string) *TranscriptWriter {
	return &TranscriptWriter{OutputFolder: outputFolder}
}

// PlainPath <base>_transcript.txt
func (w *TranscriptWriter) PlainPath(inputFile string) string {
	return filepath.Join(w.OutputFolder, utils.BaseName(inputFile)+"_transcript.txt")
}

// SpeakersPath <base>_transcript_with_speakers.txt
func (w *TranscriptWriter) SpeakersPath(inputFile string) string {
	return filepath.Join(w.OutputFolder, utils.BaseName(inputFile)+"_transcript_with_speakers.txt")
}

// WritePlain 写出不带说话人标签的转录
func (w *TranscriptWriter) WritePlain(header Header, text string) (string, error) {
	header.SpeakerAttribution = false
	content := header.Render() + strings.TrimSpace(text) + "\n\n"
	return w.write(w.PlainPath(header.InputFile), content)
}

// WriteAttributed 写出带说话人标签的转录，rawTurns 非空时附加原始分离结果
func (w *TranscriptWriter) WriteAttributed(header Header, segments []models.AttributedSegment, rawTurns []models.DiarizationTurn) (string, error) {
	header.SpeakerAttribution = true

	var b strings.Builder
	b.WriteString(header.Render())
	b.WriteString("SPEAKER-ATTRIBUTED TRANSCRIPTION:\n\n")
	b.WriteString(FormatSegments(segments))
	b.WriteString("\n\n")
	if len(rawTurns) > 0 {
		b.WriteString("RAW SPEAKER DIARIZATION:\n\n")
		b.WriteString(FormatRawTurns(rawTurns))
		b.WriteString("\n")
	}
	return w.write(w.SpeakersPath(header.InputFile), b.String())
}

func (w *TranscriptWriter) write(path, content string) (string, error) {
	if err := os.MkdirAll(w.OutputFolder, 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("写入转录文件失败: %w", err)
	}
	utils.Info("已保存转录文件: %s", path)
	return path, nil
}
