package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterSignupRoutes sets up routes for donor and shelter registration
func RegisterSignupRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewRegisterController(userService)

	r.HandleFunc("/register/donor", controller.RegisterDonor).Methods("POST")
	r.HandleFunc("/register/shelter", controller.RegisterShelter).Methods("POST")
}
