package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxRepetitions 允许的最大连续重复次数
const DefaultMaxRepetitions = 5

// 超过该次数的重复句子后追加省略标记
const massiveRepetition = 10

// 省略标记
const elision = "[...]"

var (
	sentenceBreakRe = regexp.MustCompile(`[.!?]\s+`)
	countingRe      = regexp.MustCompile(`(?i)(?:one\s+two\s+three\s+four\s+five\s+six\s+seven\s+eight\s+nine\s*){3,}`)
)

// FixRepetitions 处理识别模型幻觉产生的异常重复
//
// 依次处理：重复句子、重复短语（2-6个词）、数数序列、符号串、重复单词。
func FixRepetitions(text string, maxRepetitions int) string {
	if maxRepetitions < 1 {
		maxRepetitions = DefaultMaxRepetitions
	}
	original := text

	text = collapseSentences(text, maxRepetitions)
	text = collapsePhrases(text, maxRepetitions)
	text = countingRe.ReplaceAllString(text, elision)
	text = collapseSymbols(text)
	text = collapseWords(text, maxRepetitions)

	if text == "" {
		return original
	}
	return text
}

// splitAfterTerminals 在句末标点后切分，标点保留在句子中
func splitAfterTerminals(text string) []string {
	sentences := []string{}
	prev := 0
	for _, loc := range sentenceBreakRe.FindAllStringIndex(text, -1) {
		sentences = append(sentences, strings.TrimSpace(text[prev:loc[0]+1]))
		prev = loc[1]
	}
	return append(sentences, strings.TrimSpace(text[prev:]))
}

func collapseSentences(text string, maxRepetitions int) string {
	sentences := splitAfterTerminals(text)
	cleaned := make([]string, 0, len(sentences))

	for i := 0; i < len(sentences); {
		current := sentences[i]
		if current == "" {
			i++
			continue
		}

		j := i + 1
		for j < len(sentences) && sentences[j] == current {
			j++
		}
		count := j - i

		if count > maxRepetitions {
			cleaned = append(cleaned, current)
			if count > massiveRepetition {
				cleaned = append(cleaned, elision)
			}
		} else {
			for k := 0; k < count; k++ {
				cleaned = append(cleaned, current)
			}
		}
		i = j
	}
	return strings.Join(cleaned, " ")
}

// collapsePhrases 把连续重复至少5次的短语压缩为一次加省略标记
func collapsePhrases(text string, maxRepetitions int) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for i := 0; i < len(words); {
		n, count := longestRepeatedPhrase(words, i)
		if count == 0 {
			out = append(out, words[i])
			i++
			continue
		}
		if count > maxRepetitions*2 {
			out = append(out, words[i:i+n]...)
			out = append(out, elision)
		} else {
			out = append(out, words[i:i+n*count]...)
		}
		i += n * count
	}
	return strings.Join(out, " ")
}

// longestRepeatedPhrase 从位置 i 开始查找重复至少5次的短语，优先最长的
func longestRepeatedPhrase(words []string, i int) (int, int) {
	for n := 6; n >= 2; n-- {
		if i+n > len(words) || !allWordChars(words[i:i+n]) {
			continue
		}
		count := 1
		for next := i + n; next+n <= len(words) && samePhrase(words[i:i+n], words[next:next+n]); next += n {
			count++
		}
		if count >= 5 {
			return n, count
		}
	}
	return 0, 0
}

func samePhrase(a, b []string) bool {
	for k := range a {
		if !strings.EqualFold(a[k], b[k]) {
			return false
		}
	}
	return true
}

func allWordChars(words []string) bool {
	for _, w := range words {
		for _, r := range w {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				return false
			}
		}
	}
	return true
}

// collapseSymbols 连续6个以上相同符号压缩为3个
func collapseSymbols(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); {
		r := runes[i]
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			b.WriteRune(r)
			i++
			continue
		}

		// 第一个符号后允许有空白
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		k := j
		for k < len(runes) && runes[k] == r {
			k++
		}
		if k-j >= 5 {
			b.WriteString(strings.Repeat(string(r), 3))
			i = k
			continue
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}

// collapseWords 连续重复超过上限的单词只保留两个
func collapseWords(text string, maxRepetitions int) string {
	words := strings.Fields(text)
	cleaned := make([]string, 0, len(words))

	for i := 0; i < len(words); {
		count := 1
		for i+count < len(words) && strings.EqualFold(words[i+count], words[i]) {
			count++
		}
		if count > maxRepetitions {
			cleaned = append(cleaned, words[i:i+2]...)
		} else {
			cleaned = append(cleaned, words[i:i+count]...)
		}
		i += count
	}
	return strings.Join(cleaned, " ")
}
