package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

// 两侧都是空白的孤立符号
var isolatedSymbolRe = regexp.MustCompile(`\s+[^\pL\pN\s\[\].,!?;:'"()-]+\s+`)

// RemoveArtifacts 去掉表情符号和识别器产生的Unicode杂质
//
// ASCII 字符全部保留；非 ASCII 字符只保留字母、数字、组合符号和标点，
// 因此中文等文字不受影响。
func RemoveArtifacts(text string) string {
	text = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case r <= unicode.MaxASCII:
			return r
		case unicode.Is(unicode.Variation_Selector, r), r == '\u200d':
			// 表情组合用的变体选择符和零宽连接符
			return -1
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r), unicode.IsPunct(r):
			return r
		}
		return -1
	}, text)

	text = isolatedSymbolRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
