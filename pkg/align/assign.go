package align

import (
	"math"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// overlap 计算单元与发言区间的重叠时长
func overlap(u models.TimedUnit, t models.DiarizationTurn) float64 {
	return math.Max(0, math.Min(u.End, t.End)-math.Max(u.Start, t.Start))
}

// boundaryDistance 单元与区间最近边界的距离
func boundaryDistance(u models.TimedUnit, t models.DiarizationTurn) float64 {
	return math.Min(math.Abs(t.Start-u.Start), math.Abs(t.End-u.End))
}

// AssignSpeaker 重叠投票：取重叠最长的发言区间的说话人
//
// 并列时取开始最早的区间，再并列取输入顺序靠前的。没有任何重叠时
// 取边界距离最近的区间。非法区间被跳过，没有合法区间时返回 ("", false)。
func AssignSpeaker(span models.TimedUnit, turns []models.DiarizationTurn) (models.SpeakerLabel, bool) {
	best := -1
	bestOverlap := 0.0
	for i, t := range turns {
		if t.Validate() != nil {
			continue
		}
		o := overlap(span, t)
		if o <= 0 {
			continue
		}
		if best < 0 || o > bestOverlap || (o == bestOverlap && t.Start < turns[best].Start) {
			best = i
			bestOverlap = o
		}
	}
	if best >= 0 {
		return turns[best].Speaker, true
	}

	// 无重叠，退回到最近边界
	bestDist := 0.0
	for i, t := range turns {
		if t.Validate() != nil {
			continue
		}
		d := boundaryDistance(span, t)
		if best < 0 || d < bestDist || (d == bestDist && t.Start < turns[best].Start) {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return models.Unattributed, false
	}
	return turns[best].Speaker, true
}
