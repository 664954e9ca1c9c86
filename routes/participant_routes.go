package routes

import (
	"thingsmatch_server/controllers"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterParticipantRoutes sets up TMID routes under {api}/me.
func RegisterParticipantRoutes(api *mux.Router, participantService *services.ParticipantService) {
	controller := controllers.NewParticipantController(participantService)

	meRouter := api.PathPrefix("/me").Subrouter()

	meRouter.HandleFunc("", controller.HandleMe).Methods("GET")
	meRouter.HandleFunc("", controller.HandleUpdateProfile).Methods("PATCH")
	meRouter.HandleFunc("/push-tokens", controller.HandleAddPushToken).Methods("POST")
	meRouter.HandleFunc("/push-tokens", controller.HandleRemovePushToken).Methods("DELETE")
}
