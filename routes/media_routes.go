package routes

import (
	"thingsmatch_server/controllers"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMediaRoutes sets up presigned-URL routes under {api}/media.
func RegisterMediaRoutes(api *mux.Router, mediaService *services.MediaService) {
	controller := controllers.NewMediaController(mediaService)

	mediaRouter := api.PathPrefix("/media").Subrouter()

	mediaRouter.HandleFunc("/upload-url", controller.HandleUploadURL).Methods("POST")
	mediaRouter.HandleFunc("/read-url", controller.HandleReadURL).Methods("GET")
}
