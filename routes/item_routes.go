package routes

import (
	"thingsmatch_server/controllers"
	"thingsmatch_server/middleware"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterItemRoutes sets up item directory routes under {api}/items.
// Swipe-interest is rate limited per participant.
func RegisterItemRoutes(api *mux.Router, itemService *services.ItemService, matchService *services.MatchService, swipeLimiter *middleware.LimiterStore) {
	itemController := controllers.NewItemController(itemService)
	matchController := controllers.NewMatchController(matchService)

	itemRouter := api.PathPrefix("/items").Subrouter()

	itemRouter.HandleFunc("", itemController.HandleCreate).Methods("POST")
	itemRouter.HandleFunc("/discover", itemController.HandleDiscover).Methods("GET")
	itemRouter.HandleFunc("/mine", itemController.HandleListMine).Methods("GET")
	itemRouter.HandleFunc("/{itemId}", itemController.HandleGet).Methods("GET")
	itemRouter.HandleFunc("/{itemId}/status", itemController.HandleUpdateStatus).Methods("PATCH")
	itemRouter.HandleFunc("/{itemId}", itemController.HandleDelete).Methods("DELETE")
	itemRouter.HandleFunc("/{itemId}/photos", itemController.HandleAttachPhoto).Methods("POST")
	itemRouter.HandleFunc("/{itemId}/swipe-interest",
		middleware.RateLimit(swipeLimiter, matchController.HandleExpressInterest)).Methods("POST")
}
