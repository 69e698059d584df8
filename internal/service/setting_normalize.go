package service

import (
	"net/mail"
	"net/url"
	"sort"
	"strings"

	"github.com/folio-next/internal/constants"
	"github.com/folio-next/internal/models"
)

const (
	siteDisplayNameMaxRuneSize = 80
	siteHeadlineMaxRuneSize    = 160
	siteBioMaxRuneSize         = 4000
	siteLocationMaxRuneSize    = 120
	siteEmailMaxRuneSize       = 254
	siteLinkNameMaxRuneSize    = 40
	siteLinkURLMaxRuneSize     = 500
	siteLinksMaxCount          = 12
)

var allowedLinkSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
}

// normalizeSettingValueByKey 按设置键执行归一化，避免非法值入库。
func normalizeSettingValueByKey(key string, value map[string]interface{}) models.JSON {
	switch key {
	case constants.SettingKeySiteProfile:
		return normalizeSiteProfile(value)
	default:
		return models.JSON(value)
	}
}

// normalizeSiteProfile 归一化站点资料，未知字段丢弃。
func normalizeSiteProfile(value map[string]interface{}) models.JSON {
	return models.JSON{
		constants.SettingFieldDisplayName: normalizeSettingTextWithRuneLimit(value[constants.SettingFieldDisplayName], siteDisplayNameMaxRuneSize),
		constants.SettingFieldHeadline:    normalizeSettingTextWithRuneLimit(value[constants.SettingFieldHeadline], siteHeadlineMaxRuneSize),
		constants.SettingFieldBio:         normalizeSettingTextWithRuneLimit(value[constants.SettingFieldBio], siteBioMaxRuneSize),
		constants.SettingFieldEmail:       normalizeSiteEmail(value[constants.SettingFieldEmail]),
		constants.SettingFieldLocation:    normalizeSettingTextWithRuneLimit(value[constants.SettingFieldLocation], siteLocationMaxRuneSize),
		constants.SettingFieldLinks:       normalizeSiteLinks(value[constants.SettingFieldLinks]),
	}
}

func normalizeSiteEmail(raw interface{}) string {
	email := normalizeSettingTextWithRuneLimit(raw, siteEmailMaxRuneSize)
	if email == "" {
		return ""
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return ""
	}
	return email
}

// normalizeSiteLinks 仅保留 http/https/mailto 链接，按名称排序截断。
func normalizeSiteLinks(raw interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	linkMap, ok := raw.(map[string]interface{})
	if !ok {
		return result
	}

	names := make([]string, 0, len(linkMap))
	for name := range linkMap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, rawName := range names {
		name := normalizeSettingTextWithRuneLimit(rawName, siteLinkNameMaxRuneSize)
		if name == "" {
			continue
		}
		link := normalizeSettingText(linkMap[rawName])
		if link == "" || len([]rune(link)) > siteLinkURLMaxRuneSize {
			continue
		}
		parsed, err := url.Parse(link)
		if err != nil {
			continue
		}
		scheme := strings.ToLower(parsed.Scheme)
		if _, ok := allowedLinkSchemes[scheme]; !ok {
			continue
		}
		if scheme != "mailto" && parsed.Host == "" {
			continue
		}
		result[name] = link
		if len(result) >= siteLinksMaxCount {
			break
		}
	}
	return result
}

func normalizeSettingText(raw interface{}) string {
	text, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(text)
}

func normalizeSettingTextWithRuneLimit(raw interface{}, maxRuneCount int) string {
	text := normalizeSettingText(raw)
	if text == "" || maxRuneCount <= 0 {
		return text
	}

	runes := []rune(text)
	if len(runes) <= maxRuneCount {
		return text
	}
	return string(runes[:maxRuneCount])
}
