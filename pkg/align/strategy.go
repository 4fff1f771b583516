package align

import (
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// AttributionStrategy 把转录文本和发言区间对齐为带说话人的片段
type AttributionStrategy interface {
	Name() string
	Attribute(transcript string, turns []models.DiarizationTurn, duration float64) []models.AttributedSegment
}

// SentenceStrategy 句子级重叠投票
type SentenceStrategy struct {
	Segmenter *Segmenter
	Estimator TimingEstimator
	Gap       float64
}

// NewSentenceStrategy 创建句子级策略，估计器默认按字符比例
func NewSentenceStrategy(minChars int, gap float64, estimator TimingEstimator) *SentenceStrategy {
	if estimator == nil {
		estimator = ProportionalEstimator{}
	}
	return &SentenceStrategy{
		Segmenter: NewSegmenter(PolicySentence, minChars),
		Estimator: estimator,
		Gap:       gap,
	}
}

// Name 策略名称
func (s *SentenceStrategy) Name() string {
	return models.StrategySentence
}

// Attribute 切分 → 估时 → 投票 → 合并
func (s *SentenceStrategy) Attribute(transcript string, turns []models.DiarizationTurn, duration float64) []models.AttributedSegment {
	units := s.Segmenter.Segment(transcript)
	timed := s.Estimator.Estimate(units, duration)

	segments := make([]models.AttributedSegment, 0, len(timed))
	for _, u := range timed {
		speaker, _ := AssignSpeaker(u, turns)
		segments = append(segments, models.AttributedSegment{
			Start:   u.Start,
			End:     u.End,
			Speaker: speaker,
			Text:    u.Text,
		})
	}
	return Merge(segments, s.Gap)
}

// WordStrategy 均匀单词级归属
//
// 每个单词取估计开始时间作为时刻，落在哪个区间就归谁。结果只是近似。
type WordStrategy struct {
	Estimator TimingEstimator
}

// NewWordStrategy 创建单词级策略，估计器默认均匀分配
func NewWordStrategy(estimator TimingEstimator) *WordStrategy {
	if estimator == nil {
		estimator = UniformEstimator{}
	}
	return &WordStrategy{Estimator: estimator}
}

// Name 策略名称
func (w *WordStrategy) Name() string {
	return models.StrategyWord
}

// Attribute 按说话人变化切分连续单词
func (w *WordStrategy) Attribute(transcript string, turns []models.DiarizationTurn, duration float64) []models.AttributedSegment {
	words := Segment(transcript, PolicyWord)
	timed := w.Estimator.Estimate(words, duration)

	segments := []models.AttributedSegment{}
	var open *models.AttributedSegment
	for _, word := range timed {
		speaker, ok := speakerAt(word.Start, turns)
		if open != nil && (!ok || speaker == open.Speaker) {
			// 未匹配的单词并入当前片段
			open.End = word.End
			open.Text += " " + word.Text
			continue
		}
		if open != nil {
			segments = append(segments, *open)
		}
		open = &models.AttributedSegment{
			Start:   word.Start,
			End:     word.End,
			Speaker: speaker,
			Text:    word.Text,
		}
	}
	if open != nil {
		segments = append(segments, *open)
	}
	return segments
}

// speakerAt 按列表顺序返回第一个包含该时刻的区间
func speakerAt(instant float64, turns []models.DiarizationTurn) (models.SpeakerLabel, bool) {
	for _, t := range turns {
		if t.Validate() != nil {
			continue
		}
		if t.Start <= instant && instant <= t.End {
			return t.Speaker, true
		}
	}
	return models.Unattributed, false
}
