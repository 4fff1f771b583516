package privacy

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/models"
	"github.com/ccp-p/asr-media-cli/speaker-transcriber/pkg/utils"
)

// 替换标记
const (
	NameToken    = "[NAME]"
	SurnameToken = "[SURNAME]"
	TitleToken   = "[TITLE]"
)

// 读音匹配的最低 Jaro-Winkler 相似度
const phoneticThreshold = 0.90

var (
	titles = toSet([]string{"mr", "mrs", "ms", "miss", "dr", "prof", "professor", "sir", "madam", "lord", "lady"})

	sentenceBreakRe = regexp.MustCompile(`[.!?]\s+`)
)

// Replacement 一次替换记录
type Replacement struct {
	Order           int    `json:"order"`
	Original        string `json:"original"`
	Replacement     string `json:"replacement"`
	ContextSentence string `json:"context_sentence"`
	Filename        string `json:"filename"`
}

// MaskResult 遮蔽结果和本次调用的替换记录
type MaskResult struct {
	Text         string
	Replacements []Replacement
}

// Options 遮蔽器选项
type Options struct {
	Languages          []string // 内置名字库的语言，空为全部
	NamesFile          string   // 替换内置名字的文件
	SurnamesFile       string   // 替换内置姓氏的文件
	ExcludedNames      []string
	ExcludeNamesFile   string
	ExcludeCommonWords bool
	Phonetic           bool
}

// OptionsFromConfig 从配置生成选项
func OptionsFromConfig(config *models.Config) Options {
	return Options{
		Languages:          config.NameLanguages,
		NamesFile:          config.NamesFile,
		SurnamesFile:       config.SurnamesFile,
		ExcludedNames:      config.ExcludedNames,
		ExcludeNamesFile:   config.ExcludeNamesFile,
		ExcludeCommonWords: config.ExcludeCommonWords,
		Phonetic:           config.PhoneticNameMatch,
	}
}

// Masker 把转录文本中的人名替换为占位标记
//
// 创建后只读，可以被多个 goroutine 同时使用。
type Masker struct {
	names    *NameSet
	excluded map[string]struct{}
	phonetic bool
	// 读音编码 -> 名字
	firstCodes   map[string][]string
	surnameCodes map[string][]string
}

// NewMasker 加载名字库并创建遮蔽器
func NewMasker(opts Options) (*Masker, error) {
	names, err := LoadCurated(opts.Languages)
	if err != nil {
		return nil, utils.NewError("加载内置名字库失败", err)
	}

	if opts.NamesFile != "" {
		list, err := LoadWordList(opts.NamesFile)
		if err != nil {
			return nil, utils.NewError("读取名字文件失败", err)
		}
		names.First = toSet(list)
	}
	if opts.SurnamesFile != "" {
		list, err := LoadWordList(opts.SurnamesFile)
		if err != nil {
			return nil, utils.NewError("读取姓氏文件失败", err)
		}
		names.Surname = toSet(list)
	}

	if opts.ExcludeCommonWords {
		removed := names.FilterCommonWords()
		utils.Debug("名字库过滤常见单词 %d 个", removed)
	}

	excluded := append([]string{}, opts.ExcludedNames...)
	if opts.ExcludeNamesFile != "" {
		list, err := LoadWordList(opts.ExcludeNamesFile)
		if err != nil {
			return nil, utils.NewError("读取排除名字文件失败", err)
		}
		excluded = append(excluded, list...)
	}
	names.Exclude(excluded)
	if len(excluded) > 0 {
		utils.Info("排除 %d 个名字不做遮蔽", len(excluded))
	}

	m := &Masker{
		names:    names,
		excluded: toSet(excluded),
		phonetic: opts.Phonetic,
	}
	if opts.Phonetic {
		m.firstCodes = phoneticIndex(names.First)
		m.surnameCodes = phoneticIndex(names.Surname)
	}

	first, surnames := names.Len()
	utils.Debug("名字库加载完成: %d 个名字, %d 个姓氏", first, surnames)
	return m, nil
}

// Mask 遮蔽文本中首字母大写且在名字库中的单词
//
// 称谓后跟名字时称谓替换为 [TITLE]；单词两侧的标点保留。
func (m *Masker) Mask(text, filename string) MaskResult {
	result := MaskResult{Replacements: []Replacement{}}

	type token struct {
		word    string
		context string
	}
	var tokens []token
	for _, sentence := range splitSentences(text) {
		context := strings.TrimSpace(sentence)
		for _, word := range strings.Fields(sentence) {
			tokens = append(tokens, token{word: word, context: context})
		}
	}

	record := func(tok token, replacement string) string {
		result.Replacements = append(result.Replacements, Replacement{
			Order:           len(result.Replacements) + 1,
			Original:        tok.word,
			Replacement:     replacement,
			ContextSentence: tok.context,
			Filename:        filename,
		})
		return replacement
	}

	out := make([]string, 0, len(tokens))
	for i, tok := range tokens {
		prefix, core, suffix := splitWord(tok.word)
		clean := strings.ToLower(core)
		if clean == "" {
			out = append(out, tok.word)
			continue
		}

		// 称谓可能以句点结尾，所以向后看不受句子边界限制
		if _, isTitle := titles[clean]; isTitle && i+1 < len(tokens) {
			_, nextCore, _ := splitWord(tokens[i+1].word)
			if isCapitalized(nextCore) && m.kind(strings.ToLower(nextCore)) != "" {
				out = append(out, record(tok, prefix+TitleToken+suffix))
				continue
			}
		}

		if !isCapitalized(core) {
			out = append(out, tok.word)
			continue
		}
		kind := m.kind(clean)
		if kind == "" {
			out = append(out, tok.word)
			continue
		}
		out = append(out, record(tok, prefix+kind+suffix))
	}

	result.Text = strings.Join(out, " ")
	return result
}

// kind 返回单词对应的替换标记，不是名字时返回空串
func (m *Masker) kind(word string) string {
	if _, ok := m.names.Surname[word]; ok {
		return SurnameToken
	}
	if _, ok := m.names.First[word]; ok {
		return NameToken
	}
	if !m.phonetic || utf8.RuneCountInString(word) < 4 {
		return ""
	}
	if _, ok := m.excluded[word]; ok {
		return ""
	}
	if _, ok := commonWords[word]; ok {
		return ""
	}
	if soundsLike(word, m.surnameCodes) {
		return SurnameToken
	}
	if soundsLike(word, m.firstCodes) {
		return NameToken
	}
	return ""
}

// phoneticIndex 为名字建立 Double Metaphone 索引
func phoneticIndex(names map[string]struct{}) map[string][]string {
	index := make(map[string][]string)
	for name := range names {
		primary, secondary := matchr.DoubleMetaphone(name)
		for _, code := range []string{primary, secondary} {
			if code != "" {
				index[code] = append(index[code], name)
			}
		}
	}
	return index
}

// soundsLike 读音编码相同且拼写足够接近
func soundsLike(word string, index map[string][]string) bool {
	primary, secondary := matchr.DoubleMetaphone(word)
	for _, code := range []string{primary, secondary} {
		if code == "" {
			continue
		}
		for _, candidate := range index[code] {
			if matchr.JaroWinkler(word, candidate, false) >= phoneticThreshold {
				return true
			}
		}
	}
	return false
}

// splitSentences 在句末标点后切分
func splitSentences(text string) []string {
	sentences := []string{}
	prev := 0
	for _, loc := range sentenceBreakRe.FindAllStringIndex(text, -1) {
		sentences = append(sentences, text[prev:loc[0]+1])
		prev = loc[1]
	}
	return append(sentences, text[prev:])
}

// splitWord 拆出单词前后的标点，所有格 's 归入后缀
func splitWord(word string) (prefix, core, suffix string) {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	start := strings.IndexFunc(word, isWordRune)
	if start < 0 {
		return word, "", ""
	}
	end := strings.LastIndexFunc(word, isWordRune)
	_, size := utf8.DecodeRuneInString(word[end:])
	prefix, core, suffix = word[:start], word[start:end+size], word[end+size:]

	lower := strings.ToLower(core)
	if strings.HasSuffix(lower, "'s") || strings.HasSuffix(lower, "’s") {
		cut := strings.LastIndexAny(core, "'’")
		core, suffix = core[:cut], core[cut:]+suffix
	}
	return prefix, core, suffix
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}
