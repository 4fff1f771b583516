package models

// Result 单个文件的处理结果
type Result struct {
	RunID         string                        `json:"run_id"`                // 批次ID
	FilePath      string                        `json:"file_path"`             // 处理的文件路径
	Service       string                        `json:"service"`               // 使用的转录服务
	Strategy      string                        `json:"strategy,omitempty"`    // 说话人归属策略
	OutputFiles   map[string]string             `json:"output_files"`          // 输出文件路径
	SegmentCount  int                           `json:"segment_count"`         // 归属后的片段数
	Attributed    bool                          `json:"attributed"`            // 是否完成说话人归属
	SkipReason    string                        `json:"skip_reason,omitempty"` // 跳过归属的原因
	Speakers      map[SpeakerLabel]SpeakerStats `json:"speakers,omitempty"`    // 说话人汇总
	Replacements  int                           `json:"replacements"`          // 姓名替换次数
	DurationMs    int64                         `json:"duration_ms"`           // 音频时长（毫秒）
	ProcessTimeMs int64                         `json:"process_time_ms"`       // 处理时间（毫秒）
}
