package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"https://board.example"}))
	r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/users", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodGet, ""); w.Code != http.StatusOK {
		t.Fatalf("no origin: %d", w.Code)
	}

	w := do(http.MethodGet, "https://board.example")
	if w.Code != http.StatusOK {
		t.Fatalf("allowed origin: %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://board.example" ||
		w.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatalf("missing CORS headers: %v", w.Header())
	}

	if w := do(http.MethodOptions, "https://board.example"); w.Code != http.StatusNoContent {
		t.Fatalf("preflight: %d", w.Code)
	}
	if w := do(http.MethodGet, "https://evil.example"); w.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin: %d", w.Code)
	}
}
