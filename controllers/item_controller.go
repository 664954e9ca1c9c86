package controllers

import (
	"encoding/json"
	"net/http"

	"thingsmatch_server/middleware"
	"thingsmatch_server/models"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// ItemController fronts the item directory.
type ItemController struct {
	ItemService *services.ItemService
}

// NewItemController initializes the item controller.
func NewItemController(service *services.ItemService) *ItemController {
	return &ItemController{ItemService: service}
}

// HandleCreate handles POST /items.
func (c *ItemController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.ParticipantID(r)

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := c.ItemService.CreateItem(r.Context(), ownerID, item)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// HandleGet handles GET /items/{itemId}.
func (c *ItemController) HandleGet(w http.ResponseWriter, r *http.Request) {
	item, err := c.ItemService.GetItem(r.Context(), mux.Vars(r)["itemId"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// HandleListMine handles GET /items/mine.
func (c *ItemController) HandleListMine(w http.ResponseWriter, r *http.Request) {
	items, err := c.ItemService.ListMine(r.Context(), middleware.ParticipantID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleDiscover handles GET /items/discover.
func (c *ItemController) HandleDiscover(w http.ResponseWriter, r *http.Request) {
	items, err := c.ItemService.ListDiscoverable(r.Context(), middleware.ParticipantID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// HandleUpdateStatus handles PATCH /items/{itemId}/status. The body may
// carry a lifecycle status, a fade flag, or both.
func (c *ItemController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	ownerID := middleware.ParticipantID(r)

	var body struct {
		Status string `json:"status"`
		Fade   *bool  `json:"fade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, err := c.ItemService.UpdateOwnerStatus(r.Context(), itemID, ownerID, body.Status, body.Fade)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// HandleDelete handles DELETE /items/{itemId}.
func (c *ItemController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	ownerID := middleware.ParticipantID(r)

	if err := c.ItemService.DeleteItem(r.Context(), itemID, ownerID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleAttachPhoto handles POST /items/{itemId}/photos.
func (c *ItemController) HandleAttachPhoto(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	ownerID := middleware.ParticipantID(r)

	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Key == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "photo key is required"})
		return
	}

	item, err := c.ItemService.AttachPhoto(r.Context(), itemID, ownerID, body.Key)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}
