package rest

import (
	"net/http"
	"time"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// служебные маршруты опрашиваются постоянно и пишутся только в debug
var quietRoutes = map[string]bool{
	"/healthz": true,
	"/metrics": true,
}

// requestTraceID trace id клиента, если это UUID, иначе новый
func requestTraceID(r *http.Request) string {
	traceID := r.Header.Get(traceHeader)
	if _, err := uuid.Parse(traceID); err != nil {
		return uuid.New().String()
	}
	return traceID
}

// routePattern шаблон chi после маршрутизации, "unmatched" для 404/405
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// LoggerMiddleware кладет логгер с trace_id в контекст запроса и пишет одну
// запись на запрос с шаблоном маршрута и коллекцией
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := requestTraceID(r)
			coreLogger := logger.WithFields(port.Fields{"trace_id": traceID})

			ctx := contextkeys.ContextWithLogger(r.Context(), coreLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)
			r = r.WithContext(ctx)

			w.Header().Set(traceHeader, traceID)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := routePattern(r)
			fields := port.Fields{
				"http_method":   r.Method,
				"http_route":    route,
				"status_code":   status,
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(startTime).Milliseconds(),
				"remote_addr":   r.RemoteAddr,
			}
			if gift := giftNameParam(r); gift != "" {
				fields["collection"] = gift
			}

			switch {
			case status >= http.StatusInternalServerError:
				coreLogger.Warn("Request failed", fields)
			case quietRoutes[route]:
				coreLogger.Debug("Request finished", fields)
			default:
				coreLogger.Info("Request finished", fields)
			}
		})
	}
}
