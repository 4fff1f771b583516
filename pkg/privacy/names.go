package privacy

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

//go:embed data/curated_names.csv
var curatedNamesCSV []byte

// SupportedLanguages 内置名字库包含的语言
var SupportedLanguages = []string{"english", "chinese", "french", "german", "hindi", "spanish"}

// 名字最短长度，更短的误判太多
const minNameLength = 3

// NameSet 名字和姓氏集合，全部小写
type NameSet struct {
	First   map[string]struct{}
	Surname map[string]struct{}
}

func newNameSet() *NameSet {
	return &NameSet{
		First:   make(map[string]struct{}),
		Surname: make(map[string]struct{}),
	}
}

// LoadCurated 加载内置名字库，languages 为空表示全部语言
func LoadCurated(languages []string) (*NameSet, error) {
	return parseNameCSV(bytes.NewReader(curatedNamesCSV), languages)
}

// parseNameCSV 解析 name,type,language 格式
func parseNameCSV(r io.Reader, languages []string) (*NameSet, error) {
	selected := toSet(languages)

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取名字库表头失败: %w", err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"name", "type", "language"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("名字库缺少列: %s", required)
		}
	}

	set := newNameSet()
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("解析名字库失败: %w", err)
		}

		name := strings.ToLower(strings.TrimSpace(record[cols["name"]]))
		language := strings.ToLower(strings.TrimSpace(record[cols["language"]]))
		if name == "" {
			continue
		}
		if len(selected) > 0 {
			if _, ok := selected[language]; !ok {
				continue
			}
		}

		switch strings.ToLower(strings.TrimSpace(record[cols["type"]])) {
		case "first":
			set.First[name] = struct{}{}
		case "last":
			set.Surname[name] = struct{}{}
		}
	}
	return set, nil
}

// LoadWordList 读取每行一个单词的文件，空行和 # 开头的行忽略
func LoadWordList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// FilterCommonWords 去掉常见英文单词和过短的名字，返回被去掉的数量
func (s *NameSet) FilterCommonWords() int {
	removed := 0
	for _, names := range []map[string]struct{}{s.First, s.Surname} {
		for name := range names {
			if _, common := commonWords[name]; common || utf8.RuneCountInString(name) < minNameLength {
				delete(names, name)
				removed++
			}
		}
	}
	return removed
}

// Exclude 去掉指定名字（不区分大小写）
func (s *NameSet) Exclude(names []string) {
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		delete(s.First, name)
		delete(s.Surname, name)
	}
}

// Len 名字总数
func (s *NameSet) Len() (int, int) {
	return len(s.First), len(s.Surname)
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}
