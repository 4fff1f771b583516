package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ExpandCommand 按空白拆分命令模板，再替换每个参数中的 {key} 占位符
//
// 先拆分后替换，音频路径中带空格也不会被拆开。
func ExpandCommand(template string, vars map[string]string) ([]string, error) {
	fields := strings.Fields(template)
	if len(fields) == 0 {
		return nil, fmt.Errorf("命令模板为空")
	}

	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	args := make([]string, len(fields))
	for i, field := range fields {
		args[i] = replacer.Replace(field)
	}
	return args, nil
}

// RunCommand 执行外部命令并返回标准输出，timeout<=0 表示不限时
func RunCommand(ctx context.Context, args []string, timeout time.Duration) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("命令为空")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	Debug("执行命令: %s", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewError(fmt.Sprintf("命令执行超时: %s", args[0]), ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[len(msg)-500:]
		}
		return nil, NewError(fmt.Sprintf("命令执行失败: %s: %s", args[0], msg), err)
	}
	return stdout.Bytes(), nil
}
