package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ekoshkin/recallbox/internal/logging"
	"github.com/ekoshkin/recallbox/internal/server/repositories/records"
)

func NewRouter(repo records.Repository, log logging.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := NewRecordHandler(repo, log)
	r.Route("/api/records", func(r chi.Router) {
		r.Put("/", h.Upsert)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
