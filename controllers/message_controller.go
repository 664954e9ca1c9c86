package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"thingsmatch_server/middleware"
	"thingsmatch_server/services"

	"github.com/gorilla/mux"
)

// MessageController fronts the message ledger.
type MessageController struct {
	MessageService *services.MessageService
}

// NewMessageController initializes the message controller.
func NewMessageController(service *services.MessageService) *MessageController {
	return &MessageController{MessageService: service}
}

// HandleSend handles POST /matches/{matchId}/send.
func (c *MessageController) HandleSend(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	senderID := middleware.ParticipantID(r)

	var body struct {
		ReceiverID string `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	msg, err := c.MessageService.Send(r.Context(), matchID, senderID, body.ReceiverID, body.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

// HandleListForMatch handles GET /matches/{matchId}/messages?page=&limit=.
func (c *MessageController) HandleListForMatch(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	requesterID := middleware.ParticipantID(r)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := c.MessageService.ListForMatch(r.Context(), matchID, requesterID, page, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// HandleUpdateStatus handles PATCH /matches/{matchId}/messages/status.
func (c *MessageController) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]
	actorID := middleware.ParticipantID(r)

	var body struct {
		MessageID string `json:"messageId"`
		Status    string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	msg, err := c.MessageService.UpdateStatus(r.Context(), matchID, body.MessageID, actorID, body.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, msg)
}
