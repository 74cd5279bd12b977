package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterVectorMatchRoutes sets up routes for similarity-based matching
func RegisterVectorMatchRoutes(r *mux.Router, vectorService *services.VectorMatchService, matchService *services.MatchService) {
	controller := controllers.NewVectorMatchController(vectorService, matchService)

	r.HandleFunc("/vector-match/donation/{id}/matches", controller.GetMatchesForDonation).Methods("GET")
	r.HandleFunc("/vector-match/request/{id}/matches", controller.GetMatchesForRequest).Methods("GET")
	r.HandleFunc("/vector-match/donation/{id}/best-match", controller.GetBestMatchForDonation).Methods("GET")
	r.HandleFunc("/vector-match/request/{id}/best-match", controller.GetBestMatchForRequest).Methods("GET")
	r.HandleFunc("/vector-match/all-matches", controller.GetAllMatches).Methods("GET")
	r.HandleFunc("/vector-match/donor/{id}/matches", controller.GetDonorMatches).Methods("GET")
	r.HandleFunc("/vector-match/shelter/{id}/matches", controller.GetShelterMatches).Methods("GET")
}
