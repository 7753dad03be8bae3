package parcels

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()

	r.Get("/parcels/search", SearchParcels)
	r.Get("/parcels/coordinate-search", CoordinateSearchParcels)
	r.Post("/parcels/bulk-search", BulkSearchParcels)

	r.Post("/parcels/save", SaveParcel)
	r.Get("/parcels/saved", ListSavedParcels)
	r.Get("/parcels/saved/export", ExportSavedParcels)
	r.Delete("/parcels/saved/{id}", DeleteSavedParcel)

	r.Get("/searches/history", GetSearchHistory)
	r.Get("/stats", GetStats)

	return r
}
