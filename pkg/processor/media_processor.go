package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// EnhanceFilters 转录前的音频增强滤镜：去低频噪声、去高频嘶声、频谱降噪、响度归一化
const EnhanceFilters = "highpass=f=80,lowpass=f=8000,afftdn=nf=-25,loudnorm=I=-16:TP=-1.5:LRA=11"

// MediaInfo 存储媒体文件的详细信息
type MediaInfo struct {
	Path       string  // 文件路径
	Name       string  // 文件名
	Format     string  // 文件格式
	Duration   float64 // 时长(秒)
	SampleRate int     // 采样率(Hz)
	Channels   int     // 声道数
	Bitrate    int     // 比特率(kbps)
	Size       int64   // 文件大小(字节)
}

// Media 文件处理流程用到的媒体操作
type Media interface {
	GetMediaInfo(ctx context.Context, filePath string) (*MediaInfo, error)
	EnhanceAudio(ctx context.Context, inputPath, outputPath string) (string, error)
	ExtractAudioFromVideo(ctx context.Context, videoPath string) (string, error)
}

// MediaProcessor 基于 ffmpeg/ffprobe 的媒体处理器
type MediaProcessor struct {
	TempDir string        // 中间文件目录
	Timeout time.Duration // 单次命令超时
}

// NewMediaProcessor 创建新的媒体处理器
func NewMediaProcessor(tempDir string, timeout time.Duration) *MediaProcessor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &MediaProcessor{
		TempDir: tempDir,
		Timeout: timeout,
	}
}

// CheckFFmpeg 检查FFmpeg是否可用
func (p *MediaProcessor) CheckFFmpeg() bool {
	return utils.CheckFFmpeg() && utils.CheckFFprobe()
}

type probeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
		BitRate  string `json:"bit_rate"`
	} `json:"format"`
}

// GetMediaInfo 获取媒体文件信息
func (p *MediaProcessor) GetMediaInfo(ctx context.Context, filePath string) (*MediaInfo, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("文件不存在: %s", filePath)
	}

	output, err := utils.RunCommand(ctx, []string{
		"ffprobe",
		"-v", "error",
		"-show_entries", "format=duration,size,bit_rate:stream=codec_type,sample_rate,channels",
		"-of", "json",
		filePath,
	}, p.Timeout)
	if err != nil {
		return nil, fmt.Errorf("获取媒体信息失败: %w", err)
	}

	return parseProbeOutput(filePath, output)
}

func parseProbeOutput(filePath string, output []byte) (*MediaInfo, error) {
	var probe probeOutput
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("无法解析媒体信息: %w", err)
	}

	info := &MediaInfo{
		Path:   filePath,
		Name:   filepath.Base(filePath),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), "."),
	}

	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = d
	}
	if s, err := strconv.ParseInt(probe.Format.Size, 10, 64); err == nil {
		info.Size = s
	}
	// 比特率可能是 N/A
	if b, err := strconv.Atoi(probe.Format.BitRate); err == nil {
		info.Bitrate = b / 1000
	}

	for _, stream := range probe.Streams {
		if stream.CodecType != "" && stream.CodecType != "audio" {
			continue
		}
		if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
			info.SampleRate = sr
		}
		info.Channels = stream.Channels
		break
	}

	if info.Size == 0 {
		if fileInfo, err := os.Stat(filePath); err == nil {
			info.Size = fileInfo.Size()
		}
	}

	if info.Duration <= 0 {
		return info, fmt.Errorf("无法确定媒体时长: %s", filePath)
	}
	return info, nil
}

// EnhanceAudio 用 ffmpeg 滤镜增强音频，输出 16kHz 单声道 WAV
func (p *MediaProcessor) EnhanceAudio(ctx context.Context, inputPath, outputPath string) (string, error) {
	if outputPath == "" {
		outputPath = filepath.Join(p.TempDir, utils.BaseName(inputPath)+"_enhanced.wav")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}

	_, err := utils.RunCommand(ctx, enhanceArgs(inputPath, outputPath), p.Timeout)
	if err != nil {
		return "", fmt.Errorf("音频增强失败: %w", err)
	}

	utils.Info("音频增强完成: %s -> %s", filepath.Base(inputPath), outputPath)
	return outputPath, nil
}

func enhanceArgs(inputPath, outputPath string) []string {
	return []string{
		"ffmpeg",
		"-hide_banner",
		"-i", inputPath,
		"-af", EnhanceFilters,
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y", // 覆盖已存在的文件
		outputPath,
	}
}

// ExtractAudioFromVideo 从视频文件提取音频到临时目录
func (p *MediaProcessor) ExtractAudioFromVideo(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(p.TempDir, 0755); err != nil {
		return "", fmt.Errorf("创建临时目录失败: %w", err)
	}
	audioPath := filepath.Join(p.TempDir, utils.BaseName(videoPath)+"_audio.wav")

	_, err := utils.RunCommand(ctx, []string{
		"ffmpeg",
		"-hide_banner",
		"-i", videoPath,
		"-vn",
		"-map", "a:0",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		audioPath,
	}, p.Timeout)
	if err != nil {
		return "", fmt.Errorf("音频提取失败: %w", err)
	}

	utils.Info("成功从视频提取音频: %s -> %s", videoPath, audioPath)
	return audioPath, nil
}
