package controllers

import (
	"net/http"

	"shelterlink_server/services"
)

// ShelterController handles HTTP requests for the shelter directory
type ShelterController struct {
	UserService *services.UserService
}

// NewShelterController creates a new ShelterController instance
func NewShelterController(userService *services.UserService) *ShelterController {
	return &ShelterController{UserService: userService}
}

// GetAllShelters handles fetching all shelters with their location
// information
func (sc *ShelterController) GetAllShelters(w http.ResponseWriter, r *http.Request) {
	shelters, err := sc.UserService.ListShelters(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shelters": shelters,
		"count":    len(shelters),
	})
}
