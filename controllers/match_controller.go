package controllers

import (
	"encoding/json"
	"net/http"

	"thingsmatch_server/middleware"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// MatchController fronts the match state machine.
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes the match controller.
func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleExpressInterest handles POST /items/{itemId}/swipe-interest.
func (c *MatchController) HandleExpressInterest(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["itemId"]
	swiperID := middleware.ParticipantID(r)

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	match, msg, err := c.MatchService.ExpressInterest(r.Context(), itemID, swiperID, body.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"match":   match,
		"message": msg,
	})
}

// HandleConfirm handles PATCH /matches/{matchId}/confirm.
func (c *MatchController) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	actorID := middleware.ParticipantID(r)

	match, err := c.MatchService.ConfirmMatch(r.Context(), matchID, actorID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// HandleUpdateStatus handles PATCH /matches/{matchId}/status.
func (c *MatchController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	actorID := middleware.ParticipantID(r)

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	match, err := c.MatchService.UpdateStatus(r.Context(), matchID, body.Status, actorID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// HandleListMine handles GET /matches/mine.
func (c *MatchController) HandleListMine(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.ParticipantID(r)

	matches, err := c.MatchService.ListForParticipant(r.Context(), participantID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// HandleGetByID handles GET /matches/{matchId}.
func (c *MatchController) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	requesterID := middleware.ParticipantID(r)

	match, err := c.MatchService.GetByID(r.Context(), matchID, requesterID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}
