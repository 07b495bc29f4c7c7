package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/quicklink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/quicklink/internal/httpserver/mw"
	"github.com/MrSnakeDoc/quicklink/internal/metrics"
)

func init() { Register("metrics", registerMetrics) }

func registerMetrics(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Handle("/metrics", metrics.Handler())
}
