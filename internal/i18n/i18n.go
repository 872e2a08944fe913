// Package i18n: 베트남어(기본)와 일본어 메시지 카탈로그
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// 지원 언어 코드
const (
	Vietnamese = "vi"
	Japanese   = "ja"
	Default    = Vietnamese
)

var (
	supported = []language.Tag{language.Vietnamese, language.Japanese}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.Vietnamese))
	for key, msg := range vi {
		_ = b.SetString(language.Vietnamese, key, msg)
	}
	for key, msg := range ja {
		_ = b.SetString(language.Japanese, key, msg)
	}
	return b
}

// Negotiate: Accept-Language 헤더 또는 lang 쿼리 값에서 지원 언어를 고른다.
func Negotiate(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return Default
	}
	return code(supported[index])
}

// T: 코드에 해당하는 메시지. 없는 코드는 코드 자체를 돌려준다.
func T(lang, key string, args ...interface{}) string {
	return message.NewPrinter(tag(lang), message.Catalog(messages)).Sprintf(key, args...)
}

// Has: 카탈로그에 정의된 코드인지
func Has(key string) bool {
	_, ok := vi[key]
	return ok
}

func tag(lang string) language.Tag {
	if lang == Japanese {
		return language.Japanese
	}
	return language.Vietnamese
}

func code(t language.Tag) string {
	if t == language.Japanese {
		return Japanese
	}
	return Vietnamese
}
