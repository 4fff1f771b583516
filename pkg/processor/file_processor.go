package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/align"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/asr"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/diarize"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/export"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/privacy"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/scanner"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/textclean"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// TranscriptSource 返回转录文本和实际使用的服务名，asr.Selector 实现了该接口
type TranscriptSource interface {
	Transcribe(ctx context.Context, audioPath string) (string, string, error)
}

// FileProcessor 单个文件的完整处理流程
//
// 增强 -> 探测时长 -> 说话人分离 -> 转录 -> 清理 -> 对齐 -> 遮蔽 -> 输出。
// 创建后只读，可被多个 worker 同时使用。
type FileProcessor struct {
	config       *models.Config
	media        Media
	transcriber  TranscriptSource
	diarizer     diarize.Diarizer
	aligner      *align.Aligner
	pipeline     *textclean.Pipeline
	masker       *privacy.Masker
	writer       *export.TranscriptWriter
	srt          *export.SRTExporter
	json         *export.JSONExporter
	errorHandler *utils.ErrorHandler
	now          func() time.Time
}

// NewFileProcessor 创建文件处理器，diarizer 为 nil 时不做说话人分离
func NewFileProcessor(config *models.Config, media Media, transcriber TranscriptSource, diarizer diarize.Diarizer) (*FileProcessor, error) {
	if diarizer == nil {
		diarizer = diarize.Noop{}
	}

	p := &FileProcessor{
		config:      config,
		media:       media,
		transcriber: transcriber,
		diarizer:    diarizer,
		aligner: align.NewAligner(
			align.WithStrategy(config.Strategy),
			align.WithGapThreshold(config.GapThreshold),
			align.WithMinChars(config.MinUnitChars),
		),
		pipeline:     textclean.NewPipeline(config),
		writer:       export.NewTranscriptWriter(config.OutputFolder),
		srt:          export.NewSRTExporter(config.OutputFolder),
		json:         export.NewJSONExporter(config.OutputFolder),
		errorHandler: utils.NewErrorHandler(config.MaxRetries, config.RetryDelay),
		now:          time.Now,
	}

	if config.MaskNames {
		masker, err := privacy.NewMasker(privacy.OptionsFromConfig(config))
		if err != nil {
			return nil, err
		}
		p.masker = masker
	}
	return p, nil
}

// ErrorHandler 返回共用的错误处理器，用于打印错误统计
func (p *FileProcessor) ErrorHandler() *utils.ErrorHandler {
	return p.errorHandler
}

// Process 处理一个媒体文件。转录失败时返回错误，说话人分离失败只降级为无归属输出。
func (p *FileProcessor) Process(ctx context.Context, runID, filePath string) (*models.Result, error) {
	start := time.Now()
	log := utils.ForFile(runID, filePath)

	result := &models.Result{
		RunID:       runID,
		FilePath:    filePath,
		OutputFiles: make(map[string]string),
	}

	if _, err := os.Stat(filePath); err != nil {
		return result, utils.NewError("文件不存在", err)
	}

	audioPath, cleanup := p.prepareAudio(ctx, log, filePath)
	defer cleanup()

	duration := p.probeDuration(ctx, log, audioPath)

	var turns []models.DiarizationTurn
	var diarizeErr error
	if p.config.SpeakerAttribution {
		turns, diarizeErr = p.diarizer.Diarize(ctx, audioPath)
		if diarizeErr != nil {
			log.Warnf("说话人分离失败，输出无归属转录: %v", diarizeErr)
		} else {
			log.Infof("说话人分离完成: %d 个发言区间", len(turns))
		}
		if duration <= 0 {
			duration = align.DurationFromTurns(turns)
			if duration > 0 {
				log.Infof("使用发言区间推算时长: %s", utils.FormatSeconds(duration))
			}
		}
	}

	text, service, err := p.transcribe(ctx, audioPath)
	if err != nil {
		log.Errorf("转录失败: %v", err)
		result.ProcessTimeMs = time.Since(start).Milliseconds()
		return result, err
	}
	result.Service = service
	log.Infof("转录完成 (%s): %d 个字符", service, len([]rune(text)))

	base := p.pipeline.Normalize(text)

	var alignment align.Alignment
	if p.config.SpeakerAttribution {
		if diarizeErr != nil {
			alignment = align.Alignment{Strategy: p.aligner.Strategy().Name(), SkipReason: diarizeErr.Error()}
		} else {
			alignment = p.aligner.Align(base, turns, duration)
		}
		result.Strategy = alignment.Strategy
		if alignment.RejectedTurns > 0 {
			log.Warnf("丢弃 %d 个不合法的发言区间", alignment.RejectedTurns)
		}
		if !alignment.Attributed {
			result.SkipReason = alignment.SkipReason
			log.Warnf("跳过说话人归属: %s", alignment.SkipReason)
		}
	}

	filename := filepath.Base(filePath)
	plain, replacements := p.finishText(base, filename)
	result.Replacements = len(replacements)

	header := export.NewHeader(p.config, filePath, p.now())
	path, err := p.writer.WritePlain(header, plain)
	if err != nil {
		return result, err
	}
	result.OutputFiles["transcript"] = path

	segments := []models.AttributedSegment{}
	if alignment.Attributed {
		segments = p.finishSegments(alignment.Segments, filename)
		result.Attributed = true
		result.SegmentCount = len(segments)
		result.Speakers = align.Summarize(segments)
		logSpeakers(log, result.Speakers)

		var raw []models.DiarizationTurn
		if p.config.IncludeRawDiarization {
			raw, _ = align.SanitizeTurns(turns)
		}
		path, err := p.writer.WriteAttributed(header, segments, raw)
		if err != nil {
			return result, err
		}
		result.OutputFiles["speakers"] = path
	}

	timed := segments
	if !alignment.Attributed {
		timed = estimateSegments(plain, duration)
	}
	if err := p.exportExtras(result, filePath, plain, timed, duration); err != nil {
		return result, err
	}

	if p.masker != nil && p.config.SaveMaskingLogs {
		path, err := privacy.WriteReplacementLog(p.config.OutputFolder, filename, replacements)
		if err != nil {
			log.Warnf("保存姓名替换记录失败: %v", err)
		} else if path != "" {
			result.OutputFiles["masking_log"] = path
		}
	}

	result.DurationMs = int64(duration * 1000)
	result.ProcessTimeMs = time.Since(start).Milliseconds()
	log.Infof("处理完成，用时 %s", utils.FormatChineseTimeDuration(time.Since(start).Seconds()))
	return result, nil
}

// prepareAudio 视频先提取音轨，按配置增强，返回实际使用的音频和清理函数
func (p *FileProcessor) prepareAudio(ctx context.Context, log *logrus.Entry, filePath string) (string, func()) {
	var temps []string
	cleanup := func() {
		for _, f := range temps {
			os.Remove(f)
		}
	}

	audioPath := filePath
	if scanner.IsVideo(filePath) {
		extracted, err := p.media.ExtractAudioFromVideo(ctx, filePath)
		if err != nil {
			log.Warnf("提取音轨失败，直接使用原文件: %v", err)
		} else {
			temps = append(temps, extracted)
			audioPath = extracted
		}
	}

	if !p.config.EnhanceAudio {
		return audioPath, cleanup
	}

	output := ""
	if p.config.SaveEnhancedAudio {
		output = filepath.Join(p.config.OutputFolder, "enhanced", utils.BaseName(filePath)+"_enhanced.wav")
	}
	enhanced, err := p.media.EnhanceAudio(ctx, audioPath, output)
	if err != nil {
		log.Warnf("音频增强失败，使用原始音频: %v", err)
		return audioPath, cleanup
	}
	if !p.config.SaveEnhancedAudio {
		temps = append(temps, enhanced)
	}
	return enhanced, cleanup
}

func (p *FileProcessor) probeDuration(ctx context.Context, log *logrus.Entry, audioPath string) float64 {
	info, err := p.media.GetMediaInfo(ctx, audioPath)
	if err != nil || info == nil {
		log.Warnf("无法获取音频时长: %v", err)
		return 0
	}
	log.Debugf("音频时长 %s, 采样率 %d, 声道 %d", utils.FormatSeconds(info.Duration), info.SampleRate, info.Channels)
	return info.Duration
}

func (p *FileProcessor) transcribe(ctx context.Context, audioPath string) (string, string, error) {
	var text, service string
	err := p.errorHandler.RetryContext(ctx, "转录", func(ctx context.Context) error {
		var err error
		text, service, err = p.transcriber.Transcribe(ctx, audioPath)
		if errors.Is(err, asr.ErrNoTranscript) {
			return utils.Permanent(err)
		}
		return err
	})
	return text, service, err
}

// finishText 完整文本的清理和遮蔽，返回替换记录
func (p *FileProcessor) finishText(text, filename string) (string, []privacy.Replacement) {
	text = p.pipeline.Finish(text)
	if p.masker == nil {
		return text, nil
	}
	masked := p.masker.Mask(text, filename)
	return masked.Text, masked.Replacements
}

func (p *FileProcessor) finishSegments(segments []models.AttributedSegment, filename string) []models.AttributedSegment {
	out := make([]models.AttributedSegment, len(segments))
	for i, seg := range segments {
		seg.Text, _ = p.finishText(seg.Text, filename)
		out[i] = seg
	}
	return out
}

// exportExtras SRT 和 JSON 输出
func (p *FileProcessor) exportExtras(result *models.Result, filePath, plain string, segments []models.AttributedSegment, duration float64) error {
	if p.config.ExportSRT {
		if len(segments) == 0 {
			utils.Warn("没有可用的时间信息，跳过SRT导出: %s", filepath.Base(filePath))
		} else {
			path, err := p.srt.ExportSRT(segments, filePath)
			if err != nil {
				return err
			}
			result.OutputFiles["srt"] = path
		}
	}

	if p.config.ExportJSON {
		path, err := p.json.ExportJSON(export.TranscriptInput{
			RunID:      result.RunID,
			File:       filePath,
			Model:      p.config.Model,
			Language:   p.config.Language,
			Strategy:   result.Strategy,
			Attributed: result.Attributed,
			Duration:   duration,
			FullText:   plain,
			Segments:   segments,
		})
		if err != nil {
			return err
		}
		result.OutputFiles["json"] = path
	}
	return nil
}

// estimateSegments 无归属时按字符比例估计每句的时间，用于字幕
func estimateSegments(text string, duration float64) []models.AttributedSegment {
	units := align.NewSegmenter(align.PolicySentence, 1).Segment(text)
	timed := align.ProportionalEstimator{}.Estimate(units, duration)

	segments := make([]models.AttributedSegment, len(timed))
	for i, u := range timed {
		segments[i] = models.AttributedSegment{Start: u.Start, End: u.End, Text: u.Text}
	}
	return segments
}

func logSpeakers(log *logrus.Entry, summary map[models.SpeakerLabel]models.SpeakerStats) {
	for _, speaker := range align.SortedSpeakers(summary) {
		stats := summary[speaker]
		log.WithField("speaker", string(speaker)).Infof("%d 个片段, 共 %s",
			stats.SegmentCount, utils.FormatSeconds(stats.TotalDuration))
	}
}

// Summary 结果摘要
func Summary(result *models.Result) string {
	if result.Attributed {
		return fmt.Sprintf("%d 个说话人, %d 个片段", len(result.Speakers), result.SegmentCount)
	}
	if result.SkipReason != "" {
		return "无说话人归属: " + result.SkipReason
	}
	return "无说话人归属"
}
