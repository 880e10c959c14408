package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medicines-api/config"
	"github.com/giygas/medicines-api/data"
	"github.com/giygas/medicines-api/handlers"
	"github.com/giygas/medicines-api/health"
	"github.com/giygas/medicines-api/medicinesparser/entities"
	"github.com/giygas/medicines-api/search"
	"github.com/giygas/medicines-api/validation"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Address:        "127.0.0.1",
		Env:            config.EnvTest,
		LogLevel:       "info",
		MaxRequestBody: 1024,
		MaxHeaderSize:  4096,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	container := data.NewDataContainer()
	medicines := []entities.Medicine{
		{Name: "Napa", Generic: "Paracetamol", Type: "tablet", StripsPerBox: 10, PiecesPerStrip: 10, BoxPrice: 120},
		{Name: "Seclo", Generic: "Omeprazole", Type: "capsule", StripsPerBox: 10, PiecesPerStrip: 10, BoxPrice: 60},
	}
	container.UpdateData(medicines, entities.ParseStats{Records: 2}, nil)

	validator := validation.NewDataValidator()
	handler := handlers.NewHTTPHandler(container, validator, health.NewHealthChecker(container, nil), search.Searcher{}, 10)

	s := NewServer(testConfig(), handler)
	t.Cleanup(s.rateLimiter.Stop)
	return s
}

func proxiedRequest(method, target, clientIP string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Forwarded-For", clientIP)
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target     string
		wantStatus int
	}{
		{"/medicines", http.StatusOK},
		{"/medicines/page/1", http.StatusOK},
		{"/medicines/search?q=napa", http.StatusOK},
		{"/export/json", http.StatusOK},
		{"/quality", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rr := serve(s, proxiedRequest("GET", tt.target, "10.0.0.1"))
			if rr.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestServerMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	serve(s, proxiedRequest("GET", "/medicines/search?q=napa", "10.0.0.2"))
	rr := serve(s, proxiedRequest("GET", "/metrics", "10.0.0.2"))

	body := rr.Body.String()
	for _, name := range []string{"http_request_total", "medicines_search_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metric %s in /metrics output", name)
		}
	}
}

func TestServerBlocksDirectAccess(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	rr := serve(s, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/health", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rr = serve(s, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected localhost to be allowed, got %d", rr.Code)
	}
}

func TestServerRedirectsTrailingSlash(t *testing.T) {
	s := newTestServer(t)

	rr := serve(s, proxiedRequest("GET", "/medicines/", "10.0.0.3"))
	if rr.Code != http.StatusMovedPermanently {
		t.Errorf("Expected status 301, got %d", rr.Code)
	}
}

func TestServerRateLimit(t *testing.T) {
	s := newTestServer(t)

	// Each export costs 300 of the 1000 tokens
	for i := 0; i < 3; i++ {
		rr := serve(s, proxiedRequest("GET", "/export/json", "10.0.0.4"))
		if rr.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status 200, got %d", i+1, rr.Code)
		}
	}

	rr := serve(s, proxiedRequest("GET", "/export/json", "10.0.0.4"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	if !strings.Contains(rr.Body.String(), `"code":429`) {
		t.Errorf("Expected JSON error envelope, got %s", rr.Body.String())
	}

	// Another client is unaffected
	rr = serve(s, proxiedRequest("GET", "/export/json", "10.0.0.5"))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected other client to be served, got %d", rr.Code)
	}
}

func TestServerRejectsLargeBody(t *testing.T) {
	s := newTestServer(t)

	req := proxiedRequest("GET", "/health", "10.0.0.6")
	req.ContentLength = 4096
	rr := serve(s, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rr.Code)
	}
}

func TestServerRejectsLargeHeaders(t *testing.T) {
	s := newTestServer(t)

	req := proxiedRequest("GET", "/health", "10.0.0.7")
	req.Header.Set("X-Padding", strings.Repeat("a", 5000))
	rr := serve(s, req)
	if rr.Code != http.StatusRequestHeaderFieldsTooLarge {
		t.Errorf("Expected status 431, got %d", rr.Code)
	}
}

func TestServerShutdown(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Unexpected shutdown error: %v", err)
	}
}
