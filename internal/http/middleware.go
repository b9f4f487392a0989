package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/inventory-reservation-service/internal/obs"
	"github.com/fairyhunter13/inventory-reservation-service/internal/session"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyAccountID
	ctxKeyToken
)

// RequestIDFromContext returns the request id attached by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

// AccountIDFromContext returns the authenticated account id, or 0 for an
// anonymous request.
func AccountIDFromContext(ctx context.Context) int64 {
	v, _ := ctx.Value(ctxKeyAccountID).(int64)
	return v
}

// TokenFromContext returns the raw bearer token of the request, if any.
func TokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyToken).(string)
	return v
}

type statusRecorder struct {
	h  http.ResponseWriter
	st int
	n  int
}

func (w *statusRecorder) Header() http.Header { return w.h.Header() }
func (w *statusRecorder) WriteHeader(code int) {
	w.st = code
	w.h.WriteHeader(code)
}
func (w *statusRecorder) Write(b []byte) (int, error) {
	n, err := w.h.Write(b)
	w.n += n
	return n, err
}

// WithRequestID attaches an X-Request-Id to the request context and response.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyRequestID, reqID)))
	})
}

// WithLogging logs one structured line per request.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{h: w, st: 200}
		next.ServeHTTP(sr, r)
		lat := time.Since(start)
		obs.Logger.Info("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sr.st,
			"bytes", sr.n,
			"latency_ms", float64(lat.Microseconds())/1000.0,
			"request_id", RequestIDFromContext(r.Context()),
			"account_id", AccountIDFromContext(r.Context()),
		)
	})
}

// WithSession resolves an Authorization bearer token to an account id and
// attaches it to the context. Requests without a valid token pass through as
// anonymous; handlers that need a principal reject those themselves.
func WithSession(sessions *session.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		const scheme = "Bearer "
		if !strings.HasPrefix(h, scheme) {
			next.ServeHTTP(w, r)
			return
		}
		tok := strings.TrimSpace(strings.TrimPrefix(h, scheme))
		ctx := context.WithValue(r.Context(), ctxKeyToken, tok)
		if id, ok := sessions.Resolve(tok); ok {
			ctx = context.WithValue(ctx, ctxKeyAccountID, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
