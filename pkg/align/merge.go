package align

import (
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// DefaultGapThreshold 同一说话人相邻片段合并的最大间隔（秒）
const DefaultGapThreshold = 2.0

// Merge 合并同一说话人且间隔小于 gap 的相邻片段
//
// 顺序保持不变，对已合并的结果再次调用不会改变结果。
func Merge(segments []models.AttributedSegment, gap float64) []models.AttributedSegment {
	merged := make([]models.AttributedSegment, 0, len(segments))
	for _, seg := range segments {
		if n := len(merged); n > 0 {
			open := &merged[n-1]
			if open.Speaker == seg.Speaker && seg.Start-open.End < gap {
				if seg.End > open.End {
					open.End = seg.End
				}
				open.Text = joinText(open.Text, seg.Text)
				continue
			}
		}
		merged = append(merged, seg)
	}
	return merged
}

func joinText(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}
