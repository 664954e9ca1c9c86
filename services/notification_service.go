package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"thingsmatch_server/models"

	"go.uber.org/zap"
)

// NotificationService fans state-transition events out to participants'
// push tokens over a simple HTTP gateway. Delivery is best effort: every
// failure is logged and swallowed, so a broken gateway can never fail a
// swipe or a send.
type NotificationService struct {
	Participants *ParticipantService
	GatewayURL   string
	Client       *http.Client
	Log          *zap.Logger
}

type pushEvent struct {
	Event     string   `json:"event"`
	MatchID   string   `json:"matchId"`
	MessageID string   `json:"messageId,omitempty"`
	Status    string   `json:"status,omitempty"`
	Body      string   `json:"body,omitempty"`
	Tokens    []string `json:"to"`
}

func (s *NotificationService) InterestExpressed(ctx context.Context, match *models.Match, msg *models.Message) {
	s.push(ctx, match.OwnerID, pushEvent{
		Event:     models.EventInterestExpressed,
		MatchID:   match.MatchID,
		MessageID: msg.MessageID,
		Body:      "Someone is interested in your item",
	})
}

func (s *NotificationService) MatchConfirmed(ctx context.Context, match *models.Match) {
	s.push(ctx, match.SwiperID, pushEvent{
		Event:   models.EventMatchConfirmed,
		MatchID: match.MatchID,
		Body:    "Your interest was accepted",
	})
}

func (s *NotificationService) MessageReceived(ctx context.Context, match *models.Match, msg *models.Message) {
	s.push(ctx, msg.ReceiverID, pushEvent{
		Event:     models.EventMessageReceived,
		MatchID:   match.MatchID,
		MessageID: msg.MessageID,
		Body:      "New message",
	})
}

func (s *NotificationService) MessageStatusUpdated(ctx context.Context, match *models.Match, msg *models.Message) {
	s.push(ctx, msg.SenderID, pushEvent{
		Event:     models.EventMessageStatusUpdated,
		MatchID:   match.MatchID,
		MessageID: msg.MessageID,
		Status:    msg.Status,
	})
}

func (s *NotificationService) push(ctx context.Context, recipientID string, event pushEvent) {
	if s.GatewayURL == "" {
		return
	}

	recipient, err := s.Participants.Get(ctx, recipientID)
	if err != nil {
		s.Log.Warn("push recipient lookup failed",
			zap.String("recipientId", recipientID),
			zap.String("event", event.Event),
			zap.Error(err))
		return
	}
	if len(recipient.PushTokens) == 0 {
		return
	}
	event.Tokens = recipient.PushTokens

	body, err := json.Marshal(event)
	if err != nil {
		s.Log.Warn("push payload marshal failed", zap.Error(err))
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(pushCtx, http.MethodPost, s.GatewayURL, bytes.NewReader(body))
	if err != nil {
		s.Log.Warn("push request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		s.Log.Warn("push delivery failed",
			zap.String("event", event.Event),
			zap.String("matchId", event.MatchID),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.Log.Warn("push gateway rejected event",
			zap.String("event", event.Event),
			zap.String("matchId", event.MatchID),
			zap.String("status", fmt.Sprintf("%d", resp.StatusCode)))
	}
}
