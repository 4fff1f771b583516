package utils

import "fmt"

// FormatTimeDuration 格式化时间长度为易读格式
func FormatTimeDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatChineseTimeDuration 格式化时间长度为中文格式
func FormatChineseTimeDuration(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60

	if hours > 0 {
		return fmt.Sprintf("%d时%d分%d秒", hours, minutes, secs)
	} else if minutes > 0 {
		return fmt.Sprintf("%d分%d秒", minutes, secs)
	}
	return fmt.Sprintf("%d秒", secs)
}

// FormatSeconds 格式化为带两位小数的秒数，如 12.34s
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.2fs", seconds)
}

// FormatFileSize 将字节大小格式化为人类可读格式
func FormatFileSize(sizeBytes int64) string {
	const (
		B  int64 = 1
		KB int64 = 1024 * B
		MB int64 = 1024 * KB
		GB int64 = 1024 * MB
		TB int64 = 1024 * GB
	)

	var (
		unit     string
		unitSize int64
	)

	switch {
	case sizeBytes >= TB:
		unit = "TB"
		unitSize = TB
	case sizeBytes >= GB:
		unit = "GB"
		unitSize = GB
	case sizeBytes >= MB:
		unit = "MB"
		unitSize = MB
	case sizeBytes >= KB:
		unit = "KB"
		unitSize = KB
	default:
		unit = "B"
		unitSize = B
	}

	return fmt.Sprintf("%.2f %s", float64(sizeBytes)/float64(unitSize), unit)
}
