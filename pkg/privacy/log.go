package privacy

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// ReplacementLogPath 替换记录文件路径
func ReplacementLogPath(dir, filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return filepath.Join(dir, fmt.Sprintf("name_replacements_%s.csv", base))
}

// WriteReplacementLog 把替换记录写成CSV，没有记录时不创建文件
func WriteReplacementLog(dir, filename string, replacements []Replacement) (string, error) {
	if len(replacements) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", utils.NewError("创建替换记录目录失败", err)
	}

	path := ReplacementLogPath(dir, filename)
	file, err := os.Create(path)
	if err != nil {
		return "", utils.NewError("创建替换记录文件失败", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"filename", "order", "original", "replacement", "context_sentence"}); err != nil {
		return "", utils.NewError("写入替换记录失败", err)
	}
	for _, r := range replacements {
		record := []string{r.Filename, strconv.Itoa(r.Order), r.Original, r.Replacement, r.ContextSentence}
		if err := writer.Write(record); err != nil {
			return "", utils.NewError("写入替换记录失败", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", utils.NewError("写入替换记录失败", err)
	}

	utils.Info("姓名替换记录已保存: %s (%d 条)", path, len(replacements))
	return path, nil
}
