package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodhub-next/internal/http/response"
	"github.com/foodhub-next/internal/i18n"
	"github.com/foodhub-next/internal/service"

	"github.com/gin-gonic/gin"
)

type keyedError struct {
	key  string
	args []interface{}
}

func (e keyedError) Error() string       { return e.key }
func (e keyedError) Key() string         { return e.key }
func (e keyedError) Args() []interface{} { return e.args }

func serveServiceError(t *testing.T, err error) response.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		RespondServiceError(c, err, "error.internal")
	})
	req := httptest.NewRequest(http.MethodGet, "/x?lang=en-US", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	if decodeErr := json.Unmarshal(w.Body.Bytes(), &resp); decodeErr != nil {
		t.Fatalf("decode response failed: %v", decodeErr)
	}
	return resp
}

func TestRespondServiceErrorPrefersSpecificRule(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantKey  string
	}{
		{service.ErrMarginBelowBase, response.CodeBadRequest, "error.margin_below_base"},
		{fmt.Errorf("validate: %w", service.ErrNegativePlatformGain), response.CodeBadRequest, "error.negative_platform_gain"},
		{service.ErrFulfillmentTypeMismatch, response.CodeConflict, "error.fulfillment_type_mismatch"},
		{service.ErrInvalidTransition, response.CodeConflict, "error.invalid_transition"},
		{fmt.Errorf("%w: name required", service.ErrValidation), response.CodeBadRequest, "error.validation_failed"},
		{service.ErrOrderNotFound, response.CodeNotFound, "error.order_not_found"},
		{service.ErrInvalidCredentials, response.CodeUnauthorized, "error.login_invalid"},
		{service.ErrSupplierSuspended, response.CodeForbidden, "error.supplier_suspended"},
	}
	for _, tc := range cases {
		resp := serveServiceError(t, tc.err)
		if resp.StatusCode != tc.wantCode {
			t.Fatalf("%v: want code %d, got %d", tc.err, tc.wantCode, resp.StatusCode)
		}
		if want := i18n.T(i18n.LocaleEN, tc.wantKey); resp.Msg != want {
			t.Fatalf("%v: want msg %q, got %q", tc.err, want, resp.Msg)
		}
	}
}

func TestRespondServiceErrorFallback(t *testing.T) {
	resp := serveServiceError(t, errors.New("db gone"))
	if resp.StatusCode != response.CodeInternal {
		t.Fatalf("unknown error want %d, got %d", response.CodeInternal, resp.StatusCode)
	}
	if resp.Msg != i18n.T(i18n.LocaleEN, "error.internal") {
		t.Fatalf("unexpected fallback msg: %s", resp.Msg)
	}
}

func TestRespondServiceErrorLocalizedArgs(t *testing.T) {
	err := fmt.Errorf("create account: %w", keyedError{key: "error.password_min_length", args: []interface{}{10}})
	resp := serveServiceError(t, err)
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("want 400, got %d", resp.StatusCode)
	}
	if resp.Msg != "Password must be at least 10 characters" {
		t.Fatalf("unexpected msg: %s", resp.Msg)
	}
}
