package textclean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type rewrite struct {
	re          *regexp.Regexp
	replacement string
}

func rule(pattern, replacement string) rewrite {
	return rewrite{re: regexp.MustCompile(pattern), replacement: replacement}
}

var (
	undefinedRe = regexp.MustCompile(`(?i)\s+(?:undefined|undefine|undefining|undefin)\s+`)
	fillerRe    = regexp.MustCompile(`(?i)\b(um|uh|er|ah|hmm|mm|mhm|uhuh|uhhuh)\b`)
	standaloneI = regexp.MustCompile(`\bi\b`)

	// 只修正不会与其他单词混淆的缩写，were/its/id/shed/wed/hed 等有歧义的不处理
	contractions = []rewrite{
		rule(`(?i)\bim\b`, "I'm"),
		rule(`(?i)\byoure\b`, "you're"),
		rule(`(?i)\btheyre\b`, "they're"),
		rule(`(?i)\bdont\b`, "don't"),
		rule(`(?i)\bwont\b`, "won't"),
		rule(`(?i)\bcant\b`, "can't"),
		rule(`(?i)\bisnt\b`, "isn't"),
		rule(`(?i)\barent\b`, "aren't"),
		rule(`(?i)\bwasnt\b`, "wasn't"),
		rule(`(?i)\bwerent\b`, "weren't"),
		rule(`(?i)\bhasnt\b`, "hasn't"),
		rule(`(?i)\bhavent\b`, "haven't"),
		rule(`(?i)\bhadnt\b`, "hadn't"),
		rule(`(?i)\bcouldnt\b`, "couldn't"),
		rule(`(?i)\bshouldnt\b`, "shouldn't"),
		rule(`(?i)\bwouldnt\b`, "wouldn't"),
		rule(`(?i)\bdidnt\b`, "didn't"),
		rule(`(?i)\bdoesnt\b`, "doesn't"),
		// 识别模型把撇号拆成空格
		rule(`(?i)\b(is|does|do|wo|ca|are|was|were|has|have|had|could|should|would|did)n\s+t\b`, "${1}n't"),
		rule(`(?i)\btheyll\b`, "they'll"),
		rule(`(?i)\byoull\b`, "you'll"),
		rule(`(?i)\bitll\b`, "it'll"),
		rule(`(?i)\bthatll\b`, "that'll"),
		rule(`(?i)\bwholl\b`, "who'll"),
		rule(`(?i)\bwhatll\b`, "what'll"),
		rule(`(?i)\bive\b`, "I've"),
		rule(`(?i)\byouve\b`, "you've"),
		rule(`(?i)\bweve\b`, "we've"),
		rule(`(?i)\btheyve\b`, "they've"),
		rule(`(?i)\bcouldve\b`, "could've"),
		rule(`(?i)\bshouldve\b`, "should've"),
		rule(`(?i)\bwouldve\b`, "would've"),
		rule(`(?i)\byoud\b`, "you'd"),
		rule(`(?i)\btheyd\b`, "they'd"),
	}

	spacing = []rewrite{
		rule(`\s+([.,!?;:])`, "$1"),
		rule(`([.,!?;:])([A-Za-z\[(])`, "$1 $2"),
		rule(`([.,!?;:])\s+([.,!?;:])`, "$1$2"),
		rule(`\s*\(\s*`, " ("),
		rule(`\s*\)\s*`, ") "),
		rule(`\)\s+([.,!?;:])`, ")$1"),
	}

	// 重复标点，每个字符一条规则
	duplicatePunct = []rewrite{
		rule(`\.(?:\s*\.)+`, "."),
		rule(`,(?:\s*,)+`, ","),
		rule(`!(?:\s*!)+`, "!"),
		rule(`\?(?:\s*\?)+`, "?"),
	}
)

// Clean 修正拼写和标点
//
// 语气词用方括号标出而不删除，修正常见缩写，规范标点空白，
// 句首字母和独立的 "i" 大写。
func Clean(text string) string {
	text = " " + text + " "
	text = undefinedRe.ReplaceAllString(text, " [undefined] ")
	text = markFillers(text)

	for _, c := range contractions {
		text = c.re.ReplaceAllString(text, c.replacement)
	}

	text = strings.Join(strings.Fields(text), " ")
	for _, s := range spacing[:2] {
		text = s.re.ReplaceAllString(text, s.replacement)
	}

	text = capitalizeSentences(text)

	for _, d := range duplicatePunct {
		text = d.re.ReplaceAllString(text, d.replacement)
	}
	for _, s := range spacing[2:] {
		text = s.re.ReplaceAllString(text, s.replacement)
	}

	return strings.TrimSpace(strings.Join(strings.Fields(text), " "))
}

// markFillers 给语气词加方括号，已经标记过的跳过
func markFillers(text string) string {
	var b strings.Builder
	prev := 0
	for _, loc := range fillerRe.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		b.WriteString(text[prev:start])
		if start > 0 && text[start-1] == '[' && end < len(text) && text[end] == ']' {
			b.WriteString(text[start:end])
		} else {
			b.WriteString("[" + text[start:end] + "]")
		}
		prev = end
	}
	b.WriteString(text[prev:])
	return b.String()
}

// capitalizeSentences 句首字母大写，独立的 i 大写
func capitalizeSentences(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			b.WriteString(capitalizeSentence(text[start:i]))
			b.WriteRune(r)
			start = i + utf8.RuneLen(r)
		}
	}
	b.WriteString(capitalizeSentence(text[start:]))
	return b.String()
}

func capitalizeSentence(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	s = standaloneI.ReplaceAllString(s, "I")

	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	lead := s[:len(s)-len(trimmed)]
	r, size := utf8.DecodeRuneInString(trimmed)
	if r >= 'a' && r <= 'z' {
		return lead + string(unicode.ToUpper(r)) + trimmed[size:]
	}
	return s
}
