package controllers

import (
	"context"
	"net/http"
	"strconv"

	"shelterlink_server/models"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// VectorMatchController handles HTTP requests for similarity-based matching
type VectorMatchController struct {
	VectorService *services.VectorMatchService
	MatchService  *services.MatchService
}

// NewVectorMatchController creates a new VectorMatchController instance
func NewVectorMatchController(vectorService *services.VectorMatchService, matchService *services.MatchService) *VectorMatchController {
	return &VectorMatchController{VectorService: vectorService, MatchService: matchService}
}

// parseMatchParams reads the limit and threshold query parameters, applying
// the listing defaults. Range validation happens in the service layer.
func parseMatchParams(r *http.Request) (int, float64, bool) {
	limit := services.DefaultMatchLimit
	threshold := services.DefaultMatchThreshold

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, false
		}
		limit = parsed
	}
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, 0, false
		}
		threshold = parsed
	}
	return limit, threshold, true
}

// saveRequested reports whether found matches should be persisted; the
// default is yes.
func saveRequested(r *http.Request) bool {
	return r.URL.Query().Get("save") != "false"
}

// saveCandidates persists candidates and returns the saved count
func (vc *VectorMatchController) saveCandidates(ctx context.Context, candidates []models.MatchCandidate) int {
	if len(candidates) == 0 {
		return 0
	}
	result, err := vc.MatchService.SaveMatches(ctx, candidates)
	if err != nil {
		return 0
	}
	return result.Saved
}

// GetMatchesForDonation handles finding shelter requests that match a
// donation
func (vc *VectorMatchController) GetMatchesForDonation(w http.ResponseWriter, r *http.Request) {
	donationID := mux.Vars(r)["id"]
	limit, threshold, ok := parseMatchParams(r)
	if !ok {
		http.Error(w, "limit and threshold must be numeric", http.StatusBadRequest)
		return
	}

	matches, err := vc.VectorService.FindSimilarRequests(r.Context(), donationID, limit, threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"donation_id":   donationID,
		"matches_found": len(matches),
		"matches":       matches,
	}
	if saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), matches)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetMatchesForRequest handles finding donations that match a shelter
// request
func (vc *VectorMatchController) GetMatchesForRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]
	limit, threshold, ok := parseMatchParams(r)
	if !ok {
		http.Error(w, "limit and threshold must be numeric", http.StatusBadRequest)
		return
	}

	matches, err := vc.VectorService.FindSimilarDonations(r.Context(), requestID, limit, threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"request_id":    requestID,
		"matches_found": len(matches),
		"matches":       matches,
	}
	if saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), matches)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetBestMatchForDonation handles finding the single best request for a
// donation
func (vc *VectorMatchController) GetBestMatchForDonation(w http.ResponseWriter, r *http.Request) {
	donationID := mux.Vars(r)["id"]

	best, err := vc.VectorService.BestMatchForDonation(r.Context(), donationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"donation_id": donationID,
		"best_match":  best,
	}
	if best != nil && saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), []models.MatchCandidate{*best})
	}
	writeJSON(w, http.StatusOK, result)
}

// GetBestMatchForRequest handles finding the single best donation for a
// request
func (vc *VectorMatchController) GetBestMatchForRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	best, err := vc.VectorService.BestMatchForRequest(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"request_id": requestID,
		"best_match": best,
	}
	if best != nil && saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), []models.MatchCandidate{*best})
	}
	writeJSON(w, http.StatusOK, result)
}

// GetAllMatches handles computing every donation/request pair above
// threshold
func (vc *VectorMatchController) GetAllMatches(w http.ResponseWriter, r *http.Request) {
	threshold := services.DefaultMatchThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "threshold must be numeric", http.StatusBadRequest)
			return
		}
		threshold = parsed
	}
	minQuantityMatch := r.URL.Query().Get("min_quantity_match") == "true"

	matches, err := vc.VectorService.FindAllMatches(r.Context(), threshold, minQuantityMatch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"total_matches": len(matches),
		"matches":       matches,
	}
	if saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), matches)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetDonorMatches handles finding requests matching any donation of a donor
func (vc *VectorMatchController) GetDonorMatches(w http.ResponseWriter, r *http.Request) {
	donorID := mux.Vars(r)["id"]
	limit, threshold, ok := parseMatchParams(r)
	if !ok {
		http.Error(w, "limit and threshold must be numeric", http.StatusBadRequest)
		return
	}

	matches, err := vc.VectorService.MatchesForDonor(r.Context(), donorID, limit, threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"donor_id":      donorID,
		"total_matches": len(matches),
		"matches":       matches,
	}
	if saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), matches)
	}
	writeJSON(w, http.StatusOK, result)
}

// GetShelterMatches handles finding donations matching any request of a
// shelter
func (vc *VectorMatchController) GetShelterMatches(w http.ResponseWriter, r *http.Request) {
	shelterID := mux.Vars(r)["id"]
	limit, threshold, ok := parseMatchParams(r)
	if !ok {
		http.Error(w, "limit and threshold must be numeric", http.StatusBadRequest)
		return
	}

	matches, err := vc.VectorService.MatchesForShelter(r.Context(), shelterID, limit, threshold)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	result := map[string]interface{}{
		"shelter_id":    shelterID,
		"total_matches": len(matches),
		"matches":       matches,
	}
	if saveRequested(r) {
		result["saved"] = vc.saveCandidates(r.Context(), matches)
	}
	writeJSON(w, http.StatusOK, result)
}
