package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
	LocaleFR = "fr-FR"

	DefaultLocale = LocaleZH
)

const (
	localeQueryKey  = "lang"
	localeHeaderKey = "X-Locale"
)

var (
	supportedTags = []language.Tag{
		language.SimplifiedChinese,
		language.AmericanEnglish,
		language.French,
	}
	supportedLocales = []string{LocaleZH, LocaleEN, LocaleFR}
	matcher          = language.NewMatcher(supportedTags)
)

// ResolveLocale 解析请求语言
// 优先级：?lang= > X-Locale > Accept-Language > 默认语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query(localeQueryKey),
		c.GetHeader(localeHeaderKey),
		c.GetHeader("Accept-Language"),
	}
	for _, raw := range candidates {
		if locale := NormalizeLocale(raw); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 将语言标签归一到支持的语言，无法识别时返回空串
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return ""
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(supportedLocales) {
		return ""
	}
	return supportedLocales[index]
}

// T 翻译文案，缺失时依次回退到默认语言与 key 本身
func T(locale, key string) string {
	entry, ok := catalog[key]
	if !ok {
		return key
	}
	if msg := entry.lookup(locale); msg != "" {
		return msg
	}
	if msg := entry.lookup(DefaultLocale); msg != "" {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

type message struct {
	zh string
	en string
	fr string
}

func (m message) lookup(locale string) string {
	switch locale {
	case LocaleZH:
		return m.zh
	case LocaleEN:
		return m.en
	case LocaleFR:
		return m.fr
	default:
		return ""
	}
}
