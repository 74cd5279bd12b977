package controllers

import (
	"net/http"

	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// UserController handles HTTP requests for account lookup and deletion
type UserController struct {
	UserService *services.UserService
}

// NewUserController creates a new UserController instance
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetUserInfo handles looking up a uid in both party tables
func (uc *UserController) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	info, err := uc.UserService.GetUserInfo(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DeleteUser handles deleting an account with a full cascade through its
// items and matches
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	info, err := uc.UserService.GetUserInfo(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if info.UserType == "donor" {
		err = uc.UserService.DeleteDonor(r.Context(), uid)
	} else {
		err = uc.UserService.DeleteShelter(r.Context(), uid)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}
