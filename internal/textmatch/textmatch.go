// Package textmatch는 베트남어 성조 부호를 무시하는 검색 비교를 제공합니다.
package textmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize: 소문자, 결합 부호 제거(NFD 후 Mn 삭제), đ -> d, 공백 정리
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	out = strings.Map(func(r rune) rune {
		switch r {
		case 'đ', 'Đ':
			return 'd'
		}
		return unicode.ToLower(r)
	}, out)
	return strings.Join(strings.Fields(out), " ")
}

// FlexibleMatch: 빈 질의는 항상 일치. 정규화 비교 또는 원문 부분 일치(일본어 등).
func FlexibleMatch(text, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	if strings.Contains(Normalize(text), Normalize(q)) {
		return true
	}
	return strings.Contains(strings.ToLower(text), strings.ToLower(q))
}

// AnyMatch: texts 중 하나라도 일치
func AnyMatch(query string, texts ...string) bool {
	for _, t := range texts {
		if FlexibleMatch(t, query) {
			return true
		}
	}
	return false
}
