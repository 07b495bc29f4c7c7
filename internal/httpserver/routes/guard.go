package routes

import (
	"time"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/mw"
)

// guarded restricts a route to allowed client IPs and Host headers.
func guarded(d deps.Deps) []Middleware {
	return []Middleware{
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	}
}

// limited adds a per-IP token bucket on top of guarded, for routes that
// write to the store.
func limited(d deps.Deps) []Middleware {
	return append(guarded(d), mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.RateLimitBurst,
		RefillPerIPPerMin: d.RateLimitPerMin,
		MaxEntries:        4096,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	}))
}
