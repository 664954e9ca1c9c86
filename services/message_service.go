package services

import (
	"context"
	"fmt"
	"strings"

	"thingsmatch_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MessageService is the append-only per-match message ledger. Every send is
// gated by the match state; the owner's first reply on a pending match
// doubles as the accept trigger.
type MessageService struct {
	Store   MessageStore
	Matches *MatchService
	Notify  Notifier
	Log     *zap.Logger
}

// MessagePage is one page of a match's conversation, chronological within
// the page.
type MessagePage struct {
	Messages   []models.Message `json:"messages"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// Send appends a message to a match's ledger.
//
// While the match is pendingInterest only two sends are legal: the swiper's
// opening message (when none was recorded yet) and any owner message, which
// promotes the match to active. A second swiper message before the owner
// responds is rejected; the swiper gets exactly one foot in the door.
func (s *MessageService) Send(ctx context.Context, matchID, senderID, receiverID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message content must not be empty: %w", ErrValidation)
	}

	match, err := s.Matches.Store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(senderID) {
		return nil, fmt.Errorf("sender is not a participant of this match: %w", ErrForbidden)
	}
	other, _ := match.OtherParty(senderID)
	if receiverID != other {
		// A mismatched receiver is corrupt input, not something to fix up
		// silently.
		return nil, fmt.Errorf("receiver %s is not the match counterpart: %w", receiverID, ErrValidation)
	}

	isDefault := false
	switch match.Status {
	case models.MatchStatusActive:
	case models.MatchStatusPending:
		if senderID == match.SwiperID {
			if match.DefaultMsgSent {
				return nil, fmt.Errorf("match is %s, awaiting the owner's response: %w", match.Status, ErrInvalidState)
			}
			isDefault = true
		}
	default:
		return nil, fmt.Errorf("cannot send while match is %s: %w", match.Status, ErrInvalidState)
	}

	msg := &models.Message{
		MatchID:      matchID,
		MessageID:    uuid.New().String(),
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Content:      content,
		Status:       models.MessageStatusSent,
		IsDefaultMsg: isDefault,
		CreatedAt:    models.Now(),
	}
	if err := s.Store.Append(ctx, msg); err != nil {
		return nil, err
	}

	if match.Status == models.MatchStatusPending && senderID == match.OwnerID {
		if err := s.Matches.OnOwnerMessage(ctx, match); err != nil {
			return nil, err
		}
	}
	if isDefault {
		match.DefaultMsgSent = true
	}

	match.LastMessageAt = msg.CreatedAt
	match.UpdatedAt = models.Now()
	if err := s.Matches.Store.Update(ctx, match); err != nil {
		return nil, err
	}

	s.Notify.MessageReceived(ctx, match, msg)
	s.Log.Info("message sent",
		zap.String("matchId", matchID),
		zap.String("messageId", msg.MessageID),
		zap.String("senderId", senderID))
	return msg, nil
}

// ListForMatch returns one page of a conversation, oldest first within the
// page. Fetching the conversation is the read acknowledgment: every message
// addressed to the requester is flipped to read before the page is built.
func (s *MessageService) ListForMatch(ctx context.Context, matchID, requesterID string, page, limit int) (*MessagePage, error) {
	match, err := s.Matches.Store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(requesterID) {
		return nil, fmt.Errorf("not a participant of this match: %w", ErrForbidden)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	if _, err := s.Store.MarkReadForReceiver(ctx, matchID, requesterID, models.Now()); err != nil {
		return nil, err
	}

	all, err := s.Store.ListByMatch(ctx, matchID) // newest first
	if err != nil {
		return nil, err
	}

	total := len(all)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	pageSlice := all[start:end]

	// Storage pagination is newest-first; flip so callers always read a
	// page top to bottom chronologically.
	messages := make([]models.Message, 0, len(pageSlice))
	for i := len(pageSlice) - 1; i >= 0; i-- {
		messages = append(messages, pageSlice[i])
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &MessagePage{
		Messages:   messages,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus lets a message's receiver mark it delivered or read. The
// sender of a message can never advance its status. readAt is stamped on
// the first read transition only.
func (s *MessageService) UpdateStatus(ctx context.Context, matchID, messageID, actorID, newStatus string) (*models.Message, error) {
	if !models.ValidMessageStatus(newStatus) {
		return nil, fmt.Errorf("unknown message status %q: %w", newStatus, ErrValidation)
	}
	msg, err := s.Store.GetByID(ctx, matchID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != actorID {
		return nil, fmt.Errorf("only the receiver may update message status: %w", ErrForbidden)
	}

	readAt := ""
	if newStatus == models.MessageStatusRead {
		readAt = models.Now()
	}
	updated, err := s.Store.SetStatus(ctx, matchID, messageID, newStatus, readAt)
	if err != nil {
		return nil, err
	}

	if match, err := s.Matches.Store.GetByID(ctx, matchID); err == nil {
		s.Notify.MessageStatusUpdated(ctx, match, updated)
	}
	return updated, nil
}
