package httpx

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by the request logger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// logRequests logs one line when a request starts and one when it finishes.
// Request bodies are never logged.
func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()

		reqID := strings.TrimSpace(req.Header.Get(common.RequestIDHeaderName))
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.NewString()
		}
		w.Header().Set(common.RequestIDHeaderName, reqID)
		ctx := context.WithValue(req.Context(), requestIDKey{}, reqID)

		r.logger.Info(ctx, "request started",
			"method", req.Method,
			"path", req.URL.Path,
			"user_agent", req.UserAgent(),
			"remote_ip", clientIP(req),
			"request_id", reqID,
		)

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, req.WithContext(ctx))

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		r.logger.Info(ctx, "request finished",
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration", time.Since(start).String(),
			"request_id", reqID,
		)
	})
}

// requireAuth runs next only for a request carrying a valid bearer token.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := r.auth.Authorize(req.Context(), req.Header.Get(common.AuthorizationHeaderName), func(ctx context.Context) error {
			next(w, req.WithContext(ctx))
			return nil
		})
		if err != nil {
			r.writeServiceError(w, req, err)
		}
	}
}

func clientIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
