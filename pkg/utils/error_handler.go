package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// AudioToolsError 是音频工具错误的基础类型
type AudioToolsError struct {
	Message string
	Cause   error
}

// Error 实现error接口
func (e *AudioToolsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause.Error())
	}
	return e.Message
}

// Unwrap 支持error chain
func (e *AudioToolsError) Unwrap() error {
	return e.Cause
}

// NewError 创建一个新的AudioToolsError
func NewError(message string, cause error) error {
	return &AudioToolsError{
		Message: message,
		Cause:   cause,
	}
}

// permanentError 不需要重试的错误
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent 标记错误为不可重试，RetryContext 遇到后立即返回
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ErrorHandler 处理错误和重试，可被多个 worker 共用
type ErrorHandler struct {
	MaxRetries int
	RetryDelay float64
	ErrorStats map[string]map[string]int // 操作 -> 错误信息 -> 计数
	mu         sync.Mutex
}

// NewErrorHandler 创建新的错误处理器
func NewErrorHandler(maxRetries int, retryDelay float64) *ErrorHandler {
	return &ErrorHandler{
		MaxRetries: maxRetries,
		RetryDelay: retryDelay,
		ErrorStats: make(map[string]map[string]int),
	}
}

// Retry 执行函数并在失败时重试
func (h *ErrorHandler) Retry(operation string, fn func() error) error {
	return h.RetryContext(context.Background(), operation, func(context.Context) error {
		return fn()
	})
}

// RetryContext 带取消的重试，等待期间 ctx 结束会立即返回
func (h *ErrorHandler) RetryContext(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < h.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return NewError(fmt.Sprintf("操作 %s 已取消", operation), err)
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		lastErr = err
		h.updateErrorStats(operation, err.Error())

		var perm *permanentError
		if errors.As(err, &perm) {
			return NewError(fmt.Sprintf("操作 %s 失败", operation), perm.err)
		}

		if attempt < h.MaxRetries-1 {
			delay := h.RetryDelay * float64(attempt+1)
			Warn("操作 %s 失败 (尝试 %d/%d): %s", operation, attempt+1, h.MaxRetries, err)
			Warn("等待 %.1f 秒后重试...", delay)

			timer := time.NewTimer(time.Duration(delay * float64(time.Second)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return NewError(fmt.Sprintf("操作 %s 已取消", operation), ctx.Err())
			case <-timer.C:
			}
		}
	}

	return NewError(fmt.Sprintf("操作 %s 重试 %d 次后仍然失败", operation, h.MaxRetries), lastErr)
}

// 更新错误统计
func (h *ErrorHandler) updateErrorStats(operation string, errMsg string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ErrorStats[operation] == nil {
		h.ErrorStats[operation] = make(map[string]int)
	}
	h.ErrorStats[operation][errMsg]++
}

// GetErrorStats 获取错误统计信息的副本
func (h *ErrorHandler) GetErrorStats() map[string]map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	stats := make(map[string]map[string]int, len(h.ErrorStats))
	for operation, errors := range h.ErrorStats {
		copied := make(map[string]int, len(errors))
		for msg, count := range errors {
			copied[msg] = count
		}
		stats[operation] = copied
	}
	return stats
}

// PrintErrorStats 打印错误统计信息
func (h *ErrorHandler) PrintErrorStats() {
	stats := h.GetErrorStats()
	if len(stats) == 0 {
		Info("没有错误记录")
		return
	}

	Info("错误统计:")
	for operation, errors := range stats {
		Info("操作: %s", operation)
		for errMsg, count := range errors {
			Info("  - %s: %d次", errMsg, count)
		}
	}
}
