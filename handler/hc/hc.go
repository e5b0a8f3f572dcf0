package hc

import (
	"context"
	"net/http"
	"time"

	"creditrust/core"
	"creditrust/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/twitchtv/twirp"
)

// Handle handle hc request, unhealthy while the chain node is unreachable
func Handle(ver string, node core.Chain, deployment *core.Deployment) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, node, deployment))
	return r
}

func handle(version string, node core.Chain, deployment *core.Deployment) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		head, err := node.BlockNumber(ctx)
		if err != nil {
			render.Error(w, twirp.NewError(twirp.Unavailable, "chain node unreachable: "+err.Error()))
			return
		}

		uptime := time.Since(b).Truncate(time.Millisecond)
		render.JSON(w, render.H{
			"uptime":   uptime.String(),
			"version":  version,
			"network":  deployment.Network,
			"revision": deployment.Revision,
			"block":    head,
		})
	}
}
