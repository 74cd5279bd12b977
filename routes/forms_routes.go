package routes

import (
	"shelterlink_server/controllers"
	"shelterlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterFormsRoutes sets up routes for donation and request forms
func RegisterFormsRoutes(r *mux.Router, formsService *services.FormsService) {
	controller := controllers.NewFormsController(formsService)

	r.HandleFunc("/forms/donation", controller.CreateDonation).Methods("POST")
	r.HandleFunc("/forms/request", controller.CreateRequest).Methods("POST")
	r.HandleFunc("/forms/donations", controller.ListDonations).Methods("GET")
	r.HandleFunc("/forms/requests", controller.ListRequests).Methods("GET")
	r.HandleFunc("/forms/donation/{id}", controller.UpdateDonation).Methods("PUT")
	r.HandleFunc("/forms/request/{id}", controller.UpdateRequest).Methods("PUT")
	r.HandleFunc("/forms/donation/{id}", controller.DeleteDonation).Methods("DELETE")
	r.HandleFunc("/forms/request/{id}", controller.DeleteRequest).Methods("DELETE")
}
