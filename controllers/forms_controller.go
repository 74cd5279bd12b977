package controllers

import (
	"encoding/json"
	"net/http"

	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// FormsController handles HTTP requests for donation and request forms
type FormsController struct {
	FormsService *services.FormsService
}

// NewFormsController creates a new FormsController instance
func NewFormsController(formsService *services.FormsService) *FormsController {
	return &FormsController{FormsService: formsService}
}

// CreateDonation handles submitting a new donation
func (fc *FormsController) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var input services.DonationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	donation, err := fc.FormsService.CreateDonation(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, donation)
}

// CreateRequest handles submitting a new shelter request
func (fc *FormsController) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var input services.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	request, err := fc.FormsService.CreateRequest(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

// ListDonations handles fetching all donations
func (fc *FormsController) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := fc.FormsService.ListDonations(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, donations)
}

// ListRequests handles fetching all shelter requests
func (fc *FormsController) ListRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := fc.FormsService.ListRequests(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// UpdateDonation handles editing a donation. Any match built from the old
// embedding is invalidated and a fresh best-match search runs.
func (fc *FormsController) UpdateDonation(w http.ResponseWriter, r *http.Request) {
	donationID := mux.Vars(r)["id"]

	var input services.DonationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	donation, bestMatch, err := fc.FormsService.UpdateDonation(r.Context(), donationID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"donation":   donation,
		"best_match": bestMatch,
	})
}

// UpdateRequest handles editing a shelter request
func (fc *FormsController) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]

	var input services.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	request, bestMatch, err := fc.FormsService.UpdateRequest(r.Context(), requestID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request":    request,
		"best_match": bestMatch,
	})
}

// DeleteDonation handles removing a donation together with any match built
// from it
func (fc *FormsController) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	donationID := mux.Vars(r)["id"]
	donorID := r.URL.Query().Get("donor_id")
	if donorID == "" {
		http.Error(w, "donor_id is required", http.StatusBadRequest)
		return
	}

	if err := fc.FormsService.DeleteDonation(r.Context(), donationID, donorID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Donation deleted"})
}

// DeleteRequest handles removing a shelter request together with any match
// built from it
func (fc *FormsController) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["id"]
	shelterID := r.URL.Query().Get("shelter_id")
	if shelterID == "" {
		http.Error(w, "shelter_id is required", http.StatusBadRequest)
		return
	}

	if err := fc.FormsService.DeleteRequest(r.Context(), requestID, shelterID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Request deleted"})
}
