package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nivora-bio/labcart-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"

	// Inbound ids longer than this are replaced; they are either abuse or a
	// client bug, and they bloat every log line for the request.
	maxRequestIDLen = 64
)

// RequestID tags each request with a correlation id, echoed back in the
// response headers. The storefront client may supply its own id so a shopper
// report can be matched to server logs; unusable values are replaced.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
