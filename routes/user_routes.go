package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes sets up routes for account lookup and deletion
func RegisterUserRoutes(r *mux.Router, userService *services.UserService) {
	controller := controllers.NewUserController(userService)

	r.HandleFunc("/user/{uid}", controller.GetUserInfo).Methods("GET")
	r.HandleFunc("/user/{uid}", controller.DeleteUser).Methods("DELETE")
}
