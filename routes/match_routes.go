package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for saved matches and confirmations
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	r.HandleFunc("/match/matches", controller.GetMatches).Methods("GET")
	r.HandleFunc("/match/user/{uid}", controller.GetUserMatches).Methods("GET")
	r.HandleFunc("/match/{id}", controller.GetMatch).Methods("GET")
	r.HandleFunc("/match/{id}/resolve", controller.ResolveMatch).Methods("POST")
}
