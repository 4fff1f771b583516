package align

import (
	"math"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// TimingEstimator 为没有时间戳的文本单元估计时间跨度
//
// 估计值不含任何声学信息，只是启发式近似，精度未经校准。
type TimingEstimator interface {
	Estimate(units []models.TranscriptUnit, duration float64) []models.TimedUnit
}

// ProportionalEstimator 按字符数占比分配时长，假设语速恒定
type ProportionalEstimator struct{}

// Estimate 从0开始首尾相接地分配，结束时间不超过总时长
func (ProportionalEstimator) Estimate(units []models.TranscriptUnit, duration float64) []models.TimedUnit {
	if len(units) == 0 || !validDuration(duration) {
		return []models.TimedUnit{}
	}

	total := 0
	for _, u := range units {
		total += u.CharLength
	}
	if total == 0 {
		return []models.TimedUnit{}
	}

	timed := make([]models.TimedUnit, 0, len(units))
	cursor := 0.0
	for _, u := range units {
		share := float64(u.CharLength) / float64(total) * duration
		start := math.Min(cursor, duration)
		end := math.Min(start+share, duration)
		timed = append(timed, models.TimedUnit{TranscriptUnit: u, Start: start, End: end})
		cursor = end
	}
	return timed
}

// UniformEstimator 每个单元分得相同时长 D/N
type UniformEstimator struct{}

// Estimate 均匀分配
func (UniformEstimator) Estimate(units []models.TranscriptUnit, duration float64) []models.TimedUnit {
	if len(units) == 0 || !validDuration(duration) {
		return []models.TimedUnit{}
	}

	step := duration / float64(len(units))
	timed := make([]models.TimedUnit, 0, len(units))
	for i, u := range units {
		start := float64(i) * step
		end := math.Min(float64(i+1)*step, duration)
		timed = append(timed, models.TimedUnit{TranscriptUnit: u, Start: start, End: end})
	}
	return timed
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
