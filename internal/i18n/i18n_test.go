package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocalePrecedence(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{"default", "/", nil, LocaleZhCN},
		{"accept_language", "/", map[string]string{"Accept-Language": "en-GB,en;q=0.8"}, LocaleEnUS},
		{"accept_traditional", "/", map[string]string{"Accept-Language": "zh-Hant-TW"}, LocaleZhTW},
		{"header_over_accept", "/", map[string]string{"X-Locale": "zh-TW", "Accept-Language": "en-US"}, LocaleZhTW},
		{"query_over_header", "/?lang=en-US", map[string]string{"X-Locale": "zh-TW"}, LocaleEnUS},
		{"unsupported_query_falls_through", "/?lang=xx", map[string]string{"Accept-Language": "en"}, LocaleEnUS},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTranslateFallbacks(t *testing.T) {
	if got := T(LocaleEnUS, "error.unauthorized"); got != "Not signed in or session expired" {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("fr-FR", "error.unauthorized"); got != catalog[DefaultLocale]["error.unauthorized"] {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEnUS, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEnUS, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	base := catalog[DefaultLocale]
	for locale, messages := range catalog {
		if len(messages) != len(base) {
			t.Fatalf("locale %s has %d keys, default has %d", locale, len(messages), len(base))
		}
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
	}
}
