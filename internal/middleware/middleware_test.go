package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/platform/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAccessKey(t *testing.T) {
	h := AccessKey("s3cret", "/health")(okHandler())

	cases := []struct {
		name   string
		path   string
		header map[string]string
		want   int
	}{
		{"missing", "/members", nil, http.StatusUnauthorized},
		{"wrong", "/members", map[string]string{"X-Api-Key": "nope"}, http.StatusUnauthorized},
		{"bearer", "/members", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusOK},
		{"api key header", "/members", map[string]string{"X-Api-Key": "s3cret"}, http.StatusOK},
		{"skip path", "/health", nil, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestAccessKey_EmptyKeyIsOpen(t *testing.T) {
	rec := httptest.NewRecorder()
	AccessKey("")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_LogsAndReturns500(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Recover(logger.FromZap(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/doses", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic serving request").Len())
}

func TestRequestLog_CountsByCode(t *testing.T) {
	m := metrics.New()
	h := RequestLog(logger.Nop(), m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))

	for _, p := range []string{"/a", "/b", "/missing"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "404")))
}
