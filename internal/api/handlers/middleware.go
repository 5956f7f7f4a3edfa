package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ps-vitor/fasteignir-search/internal/repositories"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

// LoggerMiddleware gives every request a trace id and a request-scoped logger,
// and logs when the request starts and finishes.
func LoggerMiddleware(base logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get("X-Trace-ID")
			if traceID == "" {
				traceID = uuid.New().String()
			}
			w.Header().Set("X-Trace-ID", traceID)

			coreLogger := base.WithFields(logger.Fields{"trace_id": traceID})
			httpLogger := coreLogger.WithFields(logger.Fields{
				"http_method": r.Method,
				"http_path":   r.URL.Path,
				"remote_addr": r.RemoteAddr,
			})

			ctx := logger.ToContext(r.Context(), coreLogger)
			ctx = logger.WithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			httpLogger.Debug("Request started", logger.Fields{"query": r.URL.RawQuery})
			next.ServeHTTP(ww, r.WithContext(ctx))
			httpLogger.Info("Request finished", logger.Fields{
				"status_code":   ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(start).Milliseconds(),
			})
		})
	}
}

// CacheMiddleware serves repeated GETs from cache for ttl. Only 200 responses
// are stored. Cache failures are logged and otherwise ignored.
func CacheMiddleware(cache repositories.ResponseCache, ttl time.Duration) mux.MiddlewareFunc {
	cacheControl := fmt.Sprintf("public, max-age=%d", int(ttl.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := logger.FromContext(ctx).WithFields(logger.Fields{"component": "CacheMiddleware"})
			key := r.URL.Path + "?" + r.URL.Query().Encode()

			cached, ok, err := cache.Get(ctx, key)
			if err != nil {
				log.Warn("Cache lookup failed", logger.Fields{"key": key, "error": err.Error()})
			}
			if ok {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Cache-Control", cacheControl)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(cached)
				return
			}

			w.Header().Set("Cache-Control", cacheControl)
			w.Header().Set("X-Cache", "MISS")

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			if ww.Status() != http.StatusOK {
				return
			}
			if err := cache.Set(ctx, key, body.Bytes(), ttl); err != nil {
				log.Warn("Cache store failed", logger.Fields{"key": key, "error": err.Error()})
			}
		})
	}
}
