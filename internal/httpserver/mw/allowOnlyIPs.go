package mw

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/MrSnakeDoc/oneshop/internal/logger"
	"github.com/MrSnakeDoc/oneshop/internal/utils"
)

// AllowOnlyCIDRS restricts a route to client IPs inside the allowed IPs/CIDRs.
// An empty list leaves the route open.
// With trustProxy the client IP is taken from the forwarding headers.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		log.Debug("ip allowlist empty, route left open")
		return func(next http.Handler) http.Handler { return next }
	}

	log.Debug("ip allowlist installed",
		logger.Int("rules", len(allowed)),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if m.Allow(ip) {
				next.ServeHTTP(w, r)
				return
			}
			forbid(w, r, log, "client ip not allowed", logger.String("client_ip", ip))
		})
	}
}

// forbid logs the rejected request and answers 403 in the API error format.
func forbid(w http.ResponseWriter, r *http.Request, log logger.Logger, reason string, fields ...zap.Field) {
	log.Warn("restricted request rejected: "+reason,
		append(fields, logger.String("path", r.URL.Path))...)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}` + "\n"))
}
