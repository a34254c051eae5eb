package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupOrderTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	svc, _ := seededService(t)
	handler := NewHandler(svc)

	r.GET("/orders/calendar", handler.Calendar)
	r.GET("/orders/:id", handler.Get)

	return r
}

func TestHandler_GetOrder(t *testing.T) {
	router := setupOrderTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/orders/o-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["total"] != "241" {
		t.Fatalf("expected total 241, got %v", resp["total"])
	}

	req = httptest.NewRequest(http.MethodGet, "/orders/unknown", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandler_Calendar(t *testing.T) {
	router := setupOrderTestRouter(t)

	cases := []struct {
		query string
		code  int
	}{
		{"?view=week&date=2026-10-19", http.StatusOK},
		{"?date=2026-10-19", http.StatusOK},
		{"?view=year", http.StatusBadRequest},
		{"?date=19/10/2026", http.StatusBadRequest},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/orders/calendar"+tc.query, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != tc.code {
			t.Errorf("%s: expected %d, got %d", tc.query, tc.code, w.Code)
		}
	}
}
