package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// TerminalManager 管理终端输出，确保进度条和消息不会混乱
type TerminalManager struct {
	mu sync.Mutex
	w  io.Writer
}

var (
	globalTerminalManager *TerminalManager
	once                  sync.Once
)

// NewTerminalManager 创建写到 w 的终端管理器
func NewTerminalManager(w io.Writer) *TerminalManager {
	return &TerminalManager{w: w}
}

// GetTerminalManager 获取写到标准输出的全局实例
func GetTerminalManager() *TerminalManager {
	once.Do(func() {
		globalTerminalManager = NewTerminalManager(os.Stdout)
	})
	return globalTerminalManager
}

// PrintMsg 清除当前进度行后打印一行消息
func (tm *TerminalManager) PrintMsg(format string, args ...interface{}) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	fmt.Fprint(tm.w, "\033[2K\r")
	if len(args) > 0 {
		fmt.Fprintf(tm.w, format+"\n", args...)
	} else {
		fmt.Fprintln(tm.w, format)
	}
}

// UpdateProgress 覆盖当前行
func (tm *TerminalManager) UpdateProgress(line string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	fmt.Fprint(tm.w, "\033[2K\r")
	fmt.Fprint(tm.w, line)
}

// Newline 结束当前进度行
func (tm *TerminalManager) Newline() {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	fmt.Fprintln(tm.w)
}
