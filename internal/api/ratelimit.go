package api

import (
	"math"
	"net"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/dreamnft/dreamnft-server/internal/errors"
)

// rateLimited returns operation middleware that throttles requests per client
// IP. With no limiter configured it passes every request through.
func (s *Server) rateLimited() huma.Middlewares {
	if s.limiter == nil {
		return nil
	}
	return huma.Middlewares{func(ctx huma.Context, next func(huma.Context)) {
		key := getClientIP(ctx)

		ok, retryAfter := s.limiter.Reserve(key)
		if !ok {
			s.logger.Warn("rate limit exceeded",
				"ip", key,
				"path", ctx.URL().Path,
			)
			if retryAfter > 0 {
				secs := int(math.Ceil(retryAfter.Seconds()))
				ctx.SetHeader("Retry-After", strconv.Itoa(secs))
			}
			_ = huma.WriteErr(s.api, ctx, 429, "too many requests",
				domainerrors.RateLimited("too many requests, please try again later"))
			return
		}

		next(ctx)
	}}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(ctx huma.Context) string {
	// X-Forwarded-For may contain multiple IPs; the first is the client.
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
