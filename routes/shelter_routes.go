package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterShelterRoutes sets up routes for the shelter directory
func RegisterShelterRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewShelterController(userService)

	r.HandleFunc("/shelters/", controller.GetAllShelters).Methods("GET")
}
