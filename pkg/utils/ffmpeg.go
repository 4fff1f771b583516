package utils

import "os/exec"

// CheckFFmpeg 检查 ffmpeg 是否可用
func CheckFFmpeg() bool {
	cmd := exec.Command("ffmpeg", "-version")
	err := cmd.Run()
	return err == nil
}

// CheckFFprobe 检查 ffprobe 是否可用
func CheckFFprobe() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}
