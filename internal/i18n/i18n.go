package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleZhCN = "zh-CN"
	LocaleZhTW = "zh-TW"
	LocaleEnUS = "en-US"

	DefaultLocale = LocaleZhCN
)

const (
	localeQueryKey  = "lang"
	localeHeaderKey = "X-Locale"
)

var supportedTags = []language.Tag{
	language.SimplifiedChinese,
	language.TraditionalChinese,
	language.AmericanEnglish,
}

var tagLocales = []string{LocaleZhCN, LocaleZhTW, LocaleEnUS}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 依次读取 lang 参数、X-Locale 头、Accept-Language 头
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.Query(localeQueryKey)); locale != "" {
		return locale
	}
	if locale := NormalizeLocale(c.GetHeader(localeHeaderKey)); locale != "" {
		return locale
	}
	return MatchAcceptLanguage(c.GetHeader("Accept-Language"))
}

// NormalizeLocale 规范化语言标识，不支持时返回空串
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	_, index, confidence := matcher.Match(tag)
	if confidence < language.High {
		return ""
	}
	return tagLocales[index]
}

// MatchAcceptLanguage 按 Accept-Language 匹配语言，无法匹配时返回默认语言
func MatchAcceptLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return tagLocales[index]
}

// T 翻译消息键，缺失时回退到默认语言再回退到键本身
func T(locale, key string) string {
	if messages, ok := catalog[locale]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息键
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
