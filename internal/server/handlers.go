package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	apperrors "github.com/kapu/affiliate-hub-go/pkg/errors"
)

type toolsResponse struct {
	Tools []domain.Tool `json:"tools"`
	Count int           `json:"count"`
}

type favoritesResponse struct {
	IDs []string `json:"ids"`
}

type toggleResponse struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"tools":  s.deps.Store.Len(),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	q, err := catalog.ParseQuery(params.Get("search"), params.Get("category"), params.Get("minRating"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	tools := s.deps.Store.Query(q)
	writeJSON(w, http.StatusOK, toolsResponse{Tools: tools, Count: len(tools)})
}

func (s *Server) handleGetTool(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tool, ok := s.deps.Store.Get(id)
	if !ok {
		s.writeError(w, toolNotFound(id))
		return
	}
	writeJSON(w, http.StatusOK, tool)
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.FilterCategories())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Store.Stats())
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	ids := s.deps.Store.Favorites()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, favoritesResponse{IDs: ids})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.deps.Store.Get(id); !ok {
		s.writeError(w, toolNotFound(id))
		return
	}

	favorite := s.deps.Store.ToggleFavorite(r.Context(), id)
	writeJSON(w, http.StatusOK, toggleResponse{ID: id, Favorite: favorite})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.deps.Syncer == nil {
		s.writeError(w, apperrors.NewAPIError("sync not available", http.StatusServiceUnavailable, nil))
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Syncer.Sync(r.Context()))
}

func toolNotFound(id string) error {
	return apperrors.NewNotFoundError("tool", id).WithCause(catalog.ErrToolNotFound)
}
