package controllers

import (
	"encoding/json"
	"net/http"

	"thingsmatch_server/middleware"
	"thingsmatch_server/services"
)

// ParticipantController fronts the TMID registry.
type ParticipantController struct {
	ParticipantService *services.ParticipantService
}

// NewParticipantController initializes the participant controller.
func NewParticipantController(service *services.ParticipantService) *ParticipantController {
	return &ParticipantController{ParticipantService: service}
}

// HandleMe handles GET /me. First access creates the TMID lazily.
func (c *ParticipantController) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		respondJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	p, err := c.ParticipantService.Ensure(r.Context(), claims.TMID, claims.AccountType)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleUpdateProfile handles PATCH /me.
func (c *ParticipantController) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	tmID := middleware.ParticipantID(r)

	var body struct {
		DisplayName string `json:"displayName"`
		PictureURL  string `json:"pictureUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := c.ParticipantService.UpdateProfile(r.Context(), tmID, body.DisplayName, body.PictureURL)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleAddPushToken handles POST /me/push-tokens.
func (c *ParticipantController) HandleAddPushToken(w http.ResponseWriter, r *http.Request) {
	tmID := middleware.ParticipantID(r)

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := c.ParticipantService.AddPushToken(r.Context(), tmID, body.Token)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// HandleRemovePushToken handles DELETE /me/push-tokens. An empty token in
// the body clears all tokens.
func (c *ParticipantController) HandleRemovePushToken(w http.ResponseWriter, r *http.Request) {
	tmID := middleware.ParticipantID(r)

	var body struct {
		Token string `json:"token"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	p, err := c.ParticipantService.RemovePushToken(r.Context(), tmID, body.Token)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
