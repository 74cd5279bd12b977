package controllers

import (
	"encoding/json"
	"net/http"

	"shelterlink_server/services"
)

// RegisterController handles HTTP requests for donor and shelter signup
type RegisterController struct {
	UserService *services.UserService
}

// NewRegisterController creates a new RegisterController instance
func NewRegisterController(userService *services.UserService) *RegisterController {
	return &RegisterController{UserService: userService}
}

// RegisterDonor handles creating a donor account
func (rc *RegisterController) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	var input services.DonorRegistration
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	donor, err := rc.UserService.RegisterDonor(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, donor)
}

// RegisterShelter handles creating a shelter account
func (rc *RegisterController) RegisterShelter(w http.ResponseWriter, r *http.Request) {
	var input services.ShelterRegistration
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	shelter, err := rc.UserService.RegisterShelter(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shelter)
}
