package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/legal-lens/api/internal/handlers"
	"github.com/legal-lens/api/internal/middleware"
	"github.com/legal-lens/api/internal/utils"
)

func New(h *handlers.Handler, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	api.HandleFunc("/extract", h.ExtractDocument).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/analyze", h.AnalyzeDocument).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/chat", h.AnswerQuestion).Methods(http.MethodPost, http.MethodOptions)

	return r
}
