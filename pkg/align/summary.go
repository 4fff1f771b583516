package align

import (
	"sort"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// Summarize 统计每个说话人的片段数和总时长
func Summarize(segments []models.AttributedSegment) map[models.SpeakerLabel]models.SpeakerStats {
	summary := make(map[models.SpeakerLabel]models.SpeakerStats)
	for _, seg := range segments {
		stats := summary[seg.Speaker]
		stats.SegmentCount++
		stats.TotalDuration += seg.Duration()
		summary[seg.Speaker] = stats
	}
	return summary
}

// SummarizeTurns 按原始发言区间统计
func SummarizeTurns(turns []models.DiarizationTurn) map[models.SpeakerLabel]models.SpeakerStats {
	summary := make(map[models.SpeakerLabel]models.SpeakerStats)
	for _, t := range turns {
		if t.Validate() != nil {
			continue
		}
		stats := summary[t.Speaker]
		stats.SegmentCount++
		stats.TotalDuration += t.Duration()
		summary[t.Speaker] = stats
	}
	return summary
}

// SortedSpeakers 按标签排序的说话人列表，便于稳定输出
func SortedSpeakers(summary map[models.SpeakerLabel]models.SpeakerStats) []models.SpeakerLabel {
	speakers := make([]models.SpeakerLabel, 0, len(summary))
	for speaker := range summary {
		speakers = append(speakers, speaker)
	}
	sort.Slice(speakers, func(i, j int) bool {
		return speakers[i] < speakers[j]
	})
	return speakers
}
