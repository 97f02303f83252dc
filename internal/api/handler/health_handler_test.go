package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler_Readiness(t *testing.T) {
	cases := []struct {
		name string
		deps map[string]Pinger
		code int
	}{
		{"all ok", map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{}}, http.StatusOK},
		{"redis down", map[string]Pinger{"mongodb": stubPinger{}, "redis": stubPinger{err: errors.New("refused")}}, http.StatusServiceUnavailable},
		{"no deps", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthHandler(tc.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(resp.Dependencies) != len(tc.deps) {
				t.Fatalf("expected %d dependencies, got %+v", len(tc.deps), resp.Dependencies)
			}
		})
	}
}
