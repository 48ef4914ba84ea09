package server

import (
	"net/http"

	"testsmith/internal/gateway/handler"
	"testsmith/internal/gateway/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/session", h.HandleCreateSession)
	mux.HandleFunc("GET /api/session/{id}", h.HandleGetSession)
	mux.HandleFunc("POST /api/session/{id}/repo", h.HandleSetRepo)
	mux.HandleFunc("POST /api/session/{id}/files", h.HandleSelectFiles)
	mux.HandleFunc("POST /api/session/{id}/summary", h.HandleSelectSummary)
	mux.HandleFunc("POST /api/session/{id}/back", h.HandleBack)
	mux.HandleFunc("POST /api/session/{id}/reset", h.HandleReset)

	mux.HandleFunc("/ws/session", h.HandleSessionWS)

	return middleware.CORS(mux)
}
