package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/avolkau/buildhub/internal/server/models"
	"github.com/avolkau/buildhub/internal/server/repositories/builds"
	"github.com/avolkau/buildhub/internal/server/services"
)

type buildRequest struct {
	Title          string `json:"title"`
	Game           string `json:"game"`
	CharacterClass string `json:"character_class"`
	Body           string `json:"body"`
}

type buildResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Game           string    `json:"game"`
	CharacterClass string    `json:"character_class"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toBuildResponse(b *models.Build) buildResponse {
	return buildResponse{
		ID:             b.ID,
		OwnerID:        b.OwnerID,
		Title:          b.Title,
		Game:           b.Game,
		CharacterClass: b.CharacterClass,
		Body:           b.Body,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (s *Server) handleCreateBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	build, err := s.builds.Create(r.Context(), identityFrom(r.Context()), services.BuildInput{
		Title:          req.Title,
		Game:           req.Game,
		CharacterClass: req.CharacterClass,
		Body:           req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBuildResponse(build))
}

func (s *Server) handleGetBuild(w http.ResponseWriter, r *http.Request) {
	build, err := s.builds.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBuildResponse(build))
}

func (s *Server) handleListBuilds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := builds.ListFilter{Game: q.Get("game")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		filter.Offset = v
	}

	list, err := s.builds.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]buildResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, toBuildResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBuild(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	build, err := s.builds.Update(r.Context(), identityFrom(r.Context()), mux.Vars(r)["id"], services.BuildInput{
		Title:          req.Title,
		Game:           req.Game,
		CharacterClass: req.CharacterClass,
		Body:           req.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toBuildResponse(build))
}

func (s *Server) handleDeleteBuild(w http.ResponseWriter, r *http.Request) {
	if err := s.builds.Delete(r.Context(), identityFrom(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
