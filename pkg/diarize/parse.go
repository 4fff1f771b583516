package diarize

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
)

// Format 发言区间文件格式
type Format string

const (
	FormatJSON Format = "json"
	FormatRTTM Format = "rttm"
	FormatText Format = "text"
)

// [12.34s -> 15.67s] SPEAKER_00
var textTurnRe = regexp.MustCompile(`^\s*\[(\d+(?:\.\d+)?)s\s*->\s*(\d+(?:\.\d+)?)s\]\s*([^\s:]+)`)

// DetectFormat 先看扩展名，再看内容
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".rttm":
		return FormatRTTM
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatText
	}
	if trimmed[0] == '{' {
		return FormatJSON
	}
	if trimmed[0] == '[' {
		rest := bytes.TrimSpace(trimmed[1:])
		if len(rest) == 0 || rest[0] == '{' || rest[0] == ']' {
			return FormatJSON
		}
	}
	if bytes.HasPrefix(trimmed, []byte("SPEAKER ")) {
		return FormatRTTM
	}
	return FormatText
}

// Parse 按指定格式解析发言区间，format 为空时自动识别
func Parse(data []byte, format Format) ([]models.DiarizationTurn, error) {
	if format == "" {
		format = DetectFormat("", data)
	}

	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatRTTM:
		return ParseRTTM(data)
	case FormatText:
		return ParseText(data)
	default:
		return nil, fmt.Errorf("不支持的发言区间格式: %s", format)
	}
}

// ParseJSON 解析 [{start,end,speaker}] 或 {"segments": [...]}
func ParseJSON(data []byte) ([]models.DiarizationTurn, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []models.DiarizationTurn{}, nil
	}

	var turns []models.DiarizationTurn
	if trimmed[0] == '{' {
		var wrapper struct {
			Segments []models.DiarizationTurn `json:"segments"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("解析JSON发言区间失败: %w", err)
		}
		turns = wrapper.Segments
	} else if err := json.Unmarshal(trimmed, &turns); err != nil {
		return nil, fmt.Errorf("解析JSON发言区间失败: %w", err)
	}

	if turns == nil {
		turns = []models.DiarizationTurn{}
	}
	return turns, nil
}

// ParseRTTM 解析 RTTM 的 SPEAKER 行：第4列开始时间，第5列时长，第8列说话人
func ParseRTTM(data []byte) ([]models.DiarizationTurn, error) {
	turns := []models.DiarizationTurn{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "SPEAKER" {
			continue
		}
		if len(fields) < 8 {
			return nil, fmt.Errorf("RTTM 第 %d 行字段不足", lineNo)
		}

		start, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("RTTM 第 %d 行开始时间无效: %w", lineNo, err)
		}
		duration, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("RTTM 第 %d 行时长无效: %w", lineNo, err)
		}

		turns = append(turns, models.DiarizationTurn{
			Start:   start,
			End:     start + duration,
			Speaker: models.SpeakerLabel(fields[7]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取RTTM失败: %w", err)
	}
	return turns, nil
}

// ParseText 解析 "[12.34s -> 15.67s] SPEAKER_00" 行，其他行忽略
func ParseText(data []byte) ([]models.DiarizationTurn, error) {
	turns := []models.DiarizationTurn{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		m := textTurnRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		// 正则保证是数字
		start, _ := strconv.ParseFloat(m[1], 64)
		end, _ := strconv.ParseFloat(m[2], 64)
		turns = append(turns, models.DiarizationTurn{
			Start:   start,
			End:     end,
			Speaker: models.SpeakerLabel(m[3]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("读取发言区间失败: %w", err)
	}
	return turns, nil
}

// FormatTurn 按文本格式输出一个发言区间
func FormatTurn(turn models.DiarizationTurn) string {
	return fmt.Sprintf("[%.2fs -> %.2fs] %s", turn.Start, turn.End, turn.Speaker)
}
