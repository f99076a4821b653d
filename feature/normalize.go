package feature

import (
	"strings"
	"unicode"
)

// Normalize 归一化文本：转小写、标点归并为空格、压缩连续空白。
// 缺失字段在上游以空串进入，保证拼接顺序稳定。
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize 归一化后切词。与词法模型的 token 规则一致：丢弃单字符词。
func Tokenize(s string) []string {
	fields := strings.Fields(Normalize(s))
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
