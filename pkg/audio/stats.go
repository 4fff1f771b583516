package audio

import "time"

// BatchStats 批处理统计
type BatchStats struct {
	Total        int
	Succeeded    int
	Failed       int
	Attributed   int
	AudioSeconds float64       // 成功文件的音频总时长
	ProcessTime  time.Duration // 各文件处理时间之和
	WallTime     time.Duration // 整批实际用时
}

// Summarize 汇总批处理结果
func Summarize(results []BatchResult, wall time.Duration) BatchStats {
	stats := BatchStats{Total: len(results), WallTime: wall}
	for _, r := range results {
		stats.ProcessTime += r.ProcessTime
		if !r.Success {
			stats.Failed++
			continue
		}
		stats.Succeeded++
		if r.Result != nil {
			stats.AudioSeconds += float64(r.Result.DurationMs) / 1000
			if r.Result.Attributed {
				stats.Attributed++
			}
		}
	}
	return stats
}

// SuccessRate 成功率（百分比）
func (s BatchStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// RealTimeFactor 实际用时 / 音频时长，小于1表示比实时快
func (s BatchStats) RealTimeFactor() float64 {
	if s.AudioSeconds <= 0 {
		return 0
	}
	return s.WallTime.Seconds() / s.AudioSeconds
}
