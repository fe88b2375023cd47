package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_NewHTTPServer(t *testing.T) {
	// given
	cfg := HTTPConfig{
		Port:           8080,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second,
		WriteTimeout:   2 * time.Second,
		IdleTimeout:    3 * time.Second,
		ReadHeader:     4 * time.Second,
	}
	// when
	srv := NewHTTPServer(cfg, http.NotFoundHandler())
	// then
	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func Test_NewChiRouter_CORS(t *testing.T) {
	// given
	mux := NewChiRouter(testLogger(), RouterOptions{AllowedOrigins: []string{"https://shop.example"}})
	mux.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://shop.example")
	rr := httptest.NewRecorder()
	// when
	mux.ServeHTTP(rr, req)
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://shop.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rr.Header().Get(web.RequestIDHeader))
}

func Test_NewChiRouter_RateLimit(t *testing.T) {
	// given
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mux := NewChiRouter(testLogger(), RouterOptions{Limiter: web.NewRateLimiter(ctx, 1, 1)})
	mux.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	codes := make([]int, 0, 2)
	// when
	for range 2 {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, rr.Code)
	}
	// then
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func Test_UnaryLogger_PassesThrough(t *testing.T) {
	// given
	interceptor := UnaryLogger(testLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Method"}
	wantErr := status.Error(codes.NotFound, "missing")
	// when
	resp, err := interceptor(context.Background(), "req", info, func(_ context.Context, req any) (any, error) {
		return req, wantErr
	})
	// then
	assert.Equal(t, "req", resp)
	assert.Equal(t, wantErr, err)
}
