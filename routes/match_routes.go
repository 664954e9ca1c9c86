package routes

import (
	"thingsmatch_server/controllers"
	"thingsmatch_server/middleware"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up match and message routes under
// {api}/matches. Message send is rate limited per participant.
func RegisterMatchRoutes(api *mux.Router, matchService *services.MatchService, messageService *services.MessageService, sendLimiter *middleware.LimiterStore) {
	matchController := controllers.NewMatchController(matchService)
	messageController := controllers.NewMessageController(messageService)

	matchRouter := api.PathPrefix("/matches").Subrouter()

	matchRouter.HandleFunc("/mine", matchController.HandleListMine).Methods("GET")
	matchRouter.HandleFunc("/{matchId}", matchController.HandleGetByID).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/confirm", matchController.HandleConfirm).Methods("PATCH")
	matchRouter.HandleFunc("/{matchId}/status", matchController.HandleUpdateStatus).Methods("PATCH")
	matchRouter.HandleFunc("/{matchId}/send",
		middleware.RateLimit(sendLimiter, messageController.HandleSend)).Methods("POST")
	matchRouter.HandleFunc("/{matchId}/messages", messageController.HandleListForMatch).Methods("GET")
	matchRouter.HandleFunc("/{matchId}/messages/status", messageController.HandleUpdateStatus).Methods("PATCH")
}
