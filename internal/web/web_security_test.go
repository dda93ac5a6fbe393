package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sgx-labs/newsdesk/internal/store"
)

// --- localhostOnly middleware ---

func TestLocalhostOnly_AllowsLocalhost(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := localhostOnly(inner)

	tests := []struct {
		name string
		host string
	}{
		{"localhost", "localhost:4079"},
		{"127.0.0.1", "127.0.0.1:4079"},
		{"ipv6 loopback", "[::1]:4079"},
		{"localhost no port", "localhost"},
		{"127.0.0.1 no port", "127.0.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Errorf("expected 200 for host %q, got %d", tt.host, w.Code)
			}
		})
	}
}

func TestLocalhostOnly_BlocksRemoteHosts(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := localhostOnly(inner)

	tests := []struct {
		name string
		host string
	}{
		{"external domain", "evil.com:4079"},
		{"external IP", "192.168.1.1:4079"},
		{"DNS rebinding", "attacker.example.com:4079"},
		{"internal IP", "10.0.0.1:4079"},
		{"cloud metadata", "169.254.169.254:4079"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			if w.Code != http.StatusForbidden {
				t.Errorf("expected 403 for host %q, got %d", tt.host, w.Code)
			}
		})
	}
}

// --- securityHeaders middleware ---

func TestSecurityHeaders_Present(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := securityHeaders(inner)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	tests := []struct {
		header string
		want   string
	}{
		{"X-Frame-Options", "DENY"},
		{"X-Content-Type-Options", "nosniff"},
		{"Content-Security-Policy", "default-src 'none'"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got := w.Header().Get(tt.header)
			if got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

// --- Full handler ---

func TestNewHandler_RejectsRemoteHost(t *testing.T) {
	h := NewHandler(store.NewSnapshot(store.New(nil)), Options{})
	req := httptest.NewRequest("GET", "/api/status", nil)
	req.Host = "evil.com:4079"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestNewHandler_RejectsWrites(t *testing.T) {
	h := NewHandler(store.NewSnapshot(store.New(nil)), Options{})
	req := httptest.NewRequest("POST", "/api/news", nil)
	req.Host = "localhost"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
