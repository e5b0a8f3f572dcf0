package rest

import (
	"net/http"

	"creditrust/core"
	"creditrust/handler/param"
	"creditrust/handler/render"
	"creditrust/handler/views"
)

func cdpHandler(positions core.PositionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := param.Address(r, "address")
		if err != nil {
			render.Error(w, err)
			return
		}

		snapshot, stale, err := positions.Borrowing(r.Context(), addr)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.NewCDP(snapshot, stale))
	}
}

func lenderHandler(positions core.PositionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := param.Address(r, "address")
		if err != nil {
			render.Error(w, err)
			return
		}

		snapshot, stale, err := positions.Lending(r.Context(), addr)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, views.NewLender(snapshot, stale))
	}
}

// positionHandler both sides of an address, the shape the dashboard caches
func positionHandler(positions core.PositionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr, err := param.Address(r, "address")
		if err != nil {
			render.Error(w, err)
			return
		}

		view, err := positions.View(r.Context(), addr)
		if err != nil {
			render.Error(w, err)
			return
		}

		render.JSON(w, view)
	}
}
