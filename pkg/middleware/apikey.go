package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

// APIKey authenticates machine callers (the bank webhook) by a static
// shared secret presented as "Authorization: Apikey <value>". A bad
// credential is rejected before any side effect.
func APIKey(expected string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing API key")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Apikey") {
				utils.ResponseUnauthorized(w, "Invalid API key format. Use: Apikey <value>")
				return
			}

			if expected == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
				logger.Warn("Webhook API key rejected",
					zap.String("ip", r.RemoteAddr),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
