package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handlershared "github.com/foodhub-next/internal/http/handlers/shared"
	"github.com/foodhub-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func serveAdminRoute(t *testing.T, path string, setup gin.HandlerFunc, handle gin.HandlerFunc) response.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/:id", setup, handle)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestPathIDRejectsInvalidIdentifiers(t *testing.T) {
	for _, raw := range []string{"0", "abc", "-3"} {
		resp := serveAdminRoute(t, "/orders/"+raw, func(c *gin.Context) {}, func(c *gin.Context) {
			if _, ok := pathID(c, "id"); ok {
				response.Success(c, "unexpected")
			}
		})
		if resp.StatusCode != response.CodeBadRequest {
			t.Fatalf("id %q want code %d got %d", raw, response.CodeBadRequest, resp.StatusCode)
		}
	}
}

func TestPathIDPassesValidIdentifier(t *testing.T) {
	resp := serveAdminRoute(t, "/orders/42", func(c *gin.Context) {}, func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		response.Success(c, id)
	})
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("want ok got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	if id, _ := resp.Data.(float64); id != 42 {
		t.Fatalf("want id 42 got %v", resp.Data)
	}
}

func TestOperatorIDRequiresAuthenticatedAccount(t *testing.T) {
	resp := serveAdminRoute(t, "/orders/1", func(c *gin.Context) {}, func(c *gin.Context) {
		if _, ok := operatorID(c); ok {
			response.Success(c, "unexpected")
		}
	})
	if resp.StatusCode != response.CodeUnauthorized {
		t.Fatalf("anonymous operator want %d got %d", response.CodeUnauthorized, resp.StatusCode)
	}

	resp = serveAdminRoute(t, "/orders/1", func(c *gin.Context) {
		c.Set(handlershared.ContextKeyUserID, uint(7))
	}, func(c *gin.Context) {
		id, ok := operatorID(c)
		if !ok {
			return
		}
		response.Success(c, id)
	})
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("authenticated operator want ok got %d", resp.StatusCode)
	}
	if id, _ := resp.Data.(float64); id != 7 {
		t.Fatalf("want operator 7 got %v", resp.Data)
	}
}
