package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/folio-next/internal/http/response"
	"github.com/folio-next/internal/service"

	"github.com/gin-gonic/gin"
)

func respondMappedStatus(t *testing.T, err error, rules []MappedError) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/api/session", nil)

	RespondMapped(c, err, rules, response.CodeInternal, "error.server_error")
	var body struct {
		StatusCode int `json:"status_code"`
	}
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &body); decodeErr != nil {
		t.Fatalf("decode response failed: %v", decodeErr)
	}
	return body.StatusCode
}

func TestSessionErrorRulesMapToUnauthorized(t *testing.T) {
	for _, err := range []error{
		service.ErrUnauthenticated,
		fmt.Errorf("verify: %w", service.ErrInvalidToken),
	} {
		if got := respondMappedStatus(t, err, SessionErrorRules); got != response.CodeUnauthorized {
			t.Fatalf("%v want %d got %d", err, response.CodeUnauthorized, got)
		}
	}
	if got := respondMappedStatus(t, service.ErrPersistence, SessionErrorRules); got != response.CodeInternal {
		t.Fatalf("unmapped error want fallback %d got %d", response.CodeInternal, got)
	}
}
