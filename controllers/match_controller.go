package controllers

import (
	"encoding/json"
	"net/http"

	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for saved matches and their
// confirmation lifecycle
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService) *MatchController {
	return &MatchController{MatchService: matchService}
}

// GetMatches handles fetching all saved matches
func (mc *MatchController) GetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := mc.MatchService.ListMatches(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// GetMatch handles fetching a single match by id
func (mc *MatchController) GetMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	match, err := mc.MatchService.GetMatch(r.Context(), matchID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

// GetUserMatches handles fetching the matches a donor or shelter is part of
func (mc *MatchController) GetUserMatches(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	matches, err := mc.MatchService.MatchesForUser(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// ResolveMatch handles one party's confirmation of a match and returns the
// resulting status
func (mc *MatchController) ResolveMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["id"]

	var payload struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	status, err := mc.MatchService.ConfirmMatch(r.Context(), matchID, payload.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"match_id": matchID,
		"status":   string(status),
	})
}
