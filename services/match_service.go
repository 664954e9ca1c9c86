package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"thingsmatch_server/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchService owns the match lifecycle: interest expression, confirmation,
// and terminal transitions. It is the only writer of match status.
type MatchService struct {
	Store    MatchStore
	Items    ItemDirectory
	Messages MessageStore
	Notify   Notifier
	Log      *zap.Logger
}

// ExpressInterest creates (or reactivates) the match for an item and posts
// the opening message. The item's interest counter is incremented first;
// when a later step fails the counter is left as-is and logged for
// reconciliation rather than rolled back (there is no cross-document
// transaction to lean on).
func (s *MatchService) ExpressInterest(ctx context.Context, itemID, swiperID, openingMessage string) (*models.Match, *models.Message, error) {
	openingMessage = strings.TrimSpace(openingMessage)
	if openingMessage == "" {
		return nil, nil, fmt.Errorf("opening message must not be empty: %w", ErrValidation)
	}

	item, err := s.Items.GetItem(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item.OwnerID == swiperID {
		return nil, nil, fmt.Errorf("cannot express interest in your own item: %w", ErrConflict)
	}
	if item.Status != models.ItemStatusAvailable {
		return nil, nil, fmt.Errorf("item is no longer available (%s): %w", item.Status, ErrConflict)
	}

	tripleKey := models.MatchTripleKey(item.OwnerID, swiperID, itemID)
	existing, err := s.Store.GetByTriple(ctx, tripleKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, nil, err
	}

	now := models.Now()
	var match *models.Match
	reactivated := false
	if existing != nil {
		switch existing.Status {
		case models.MatchStatusPending, models.MatchStatusActive:
			return nil, nil, fmt.Errorf("interest already %s for this item: %w", existing.Status, ErrConflict)
		case models.MatchStatusUnmatched:
			// Same record comes back to life; the triple never gets a
			// second document.
			match = existing
			match.Status = models.MatchStatusPending
			match.DefaultMsgSent = false
			match.MatchedAt = ""
			match.UnmatchedAt = ""
			match.UpdatedAt = now
			reactivated = true
		default:
			return nil, nil, fmt.Errorf("match already concluded as %s: %w", existing.Status, ErrConflict)
		}
	} else {
		match = &models.Match{
			TripleKey: tripleKey,
			MatchID:   uuid.New().String(),
			ItemID:    itemID,
			OwnerID:   item.OwnerID,
			SwiperID:  swiperID,
			Status:    models.MatchStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if _, err := s.Items.IncrementInterest(ctx, itemID); err != nil {
		return nil, nil, fmt.Errorf("increment interest for item %s: %w", itemID, err)
	}

	if reactivated {
		err = s.Store.Update(ctx, match)
	} else {
		err = s.Store.Create(ctx, match)
	}
	if err != nil {
		// Counter already moved; see partial-failure note above.
		s.Log.Warn("match write failed after interest increment",
			zap.String("itemId", itemID),
			zap.String("swiperId", swiperID),
			zap.Error(err))
		return nil, nil, err
	}

	msg := &models.Message{
		MatchID:      match.MatchID,
		MessageID:    uuid.New().String(),
		SenderID:     swiperID,
		ReceiverID:   match.OwnerID,
		Content:      openingMessage,
		Status:       models.MessageStatusSent,
		IsDefaultMsg: true,
		CreatedAt:    models.Now(),
	}
	if err := s.Messages.Append(ctx, msg); err != nil {
		s.Log.Warn("opening message write failed after match create",
			zap.String("matchId", match.MatchID),
			zap.Error(err))
		return nil, nil, err
	}

	match.DefaultMsgSent = true
	match.LastMessageAt = msg.CreatedAt
	match.UpdatedAt = models.Now()
	if err := s.Store.Update(ctx, match); err != nil {
		return nil, nil, err
	}

	s.Notify.InterestExpressed(ctx, match, msg)
	s.Log.Info("interest expressed",
		zap.String("matchId", match.MatchID),
		zap.String("itemId", itemID),
		zap.String("swiperId", swiperID),
		zap.Bool("reactivated", reactivated))
	return match, msg, nil
}

// ConfirmMatch is the owner's explicit accept. Confirming an already active
// match is an idempotent no-op.
func (s *MatchService) ConfirmMatch(ctx context.Context, matchID, actorID string) (*models.Match, error) {
	match, err := s.Store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if actorID != match.OwnerID {
		return nil, fmt.Errorf("only the item owner may confirm a match: %w", ErrForbidden)
	}

	switch match.Status {
	case models.MatchStatusActive:
		return match, nil
	case models.MatchStatusPending:
	default:
		return nil, fmt.Errorf("cannot confirm a %s match: %w", match.Status, ErrInvalidState)
	}

	if err := s.activate(ctx, match); err != nil {
		return nil, err
	}
	return match, nil
}

// OnOwnerMessage is the implicit accept: any owner message on a pending
// match promotes it to active. Named as its own transition so both triggers
// (explicit confirm, owner reply) share one code path.
func (s *MatchService) OnOwnerMessage(ctx context.Context, match *models.Match) error {
	if match.Status != models.MatchStatusPending {
		return nil
	}
	return s.activate(ctx, match)
}

func (s *MatchService) activate(ctx context.Context, match *models.Match) error {
	now := models.Now()
	match.Status = models.MatchStatusActive
	match.MatchedAt = now
	match.UpdatedAt = now
	if err := s.Store.Update(ctx, match); err != nil {
		return err
	}
	s.Notify.MatchConfirmed(ctx, match)
	s.Log.Info("match activated", zap.String("matchId", match.MatchID))
	return nil
}

// UpdateStatus moves a match into one of its terminal states. Only live
// matches (pending or active) may transition; a concluded match never
// changes status again, except for the unmatched-to-pending revival that
// runs through ExpressInterest. Unmatching releases the swipe's interest
// increment on the item.
func (s *MatchService) UpdateStatus(ctx context.Context, matchID, newStatus, actorID string) (*models.Match, error) {
	if !models.ValidMatchStatus(newStatus) {
		return nil, fmt.Errorf("unknown match status %q: %w", newStatus, ErrValidation)
	}
	match, err := s.Store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(actorID) {
		return nil, fmt.Errorf("not a participant of this match: %w", ErrForbidden)
	}
	if match.Status == newStatus {
		return match, nil
	}
	if match.IsTerminal() {
		return nil, fmt.Errorf("match already concluded as %s: %w", match.Status, ErrInvalidState)
	}

	now := models.Now()
	match.Status = newStatus
	match.UpdatedAt = now
	if newStatus == models.MatchStatusUnmatched {
		match.UnmatchedAt = now
	}
	if err := s.Store.Update(ctx, match); err != nil {
		return nil, err
	}

	if newStatus == models.MatchStatusUnmatched {
		if _, err := s.Items.DecrementInterest(ctx, match.ItemID); err != nil {
			// The match already moved; surface the skew in logs only.
			s.Log.Warn("interest decrement failed after unmatch",
				zap.String("matchId", match.MatchID),
				zap.String("itemId", match.ItemID),
				zap.Error(err))
		}
	}

	s.Log.Info("match status updated",
		zap.String("matchId", match.MatchID),
		zap.String("status", newStatus),
		zap.String("actorId", actorID))
	return match, nil
}

// ListForParticipant returns the participant's matches, newest conversation
// first. Unmatched records are invisible until a fresh swipe revives them.
func (s *MatchService) ListForParticipant(ctx context.Context, participantID string) ([]models.Match, error) {
	all, err := s.Store.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	matches := all[:0]
	for _, m := range all {
		if m.Status != models.MatchStatusUnmatched {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].LastMessageAt != matches[j].LastMessageAt {
			return matches[i].LastMessageAt > matches[j].LastMessageAt
		}
		return matches[i].UpdatedAt > matches[j].UpdatedAt
	})
	return matches, nil
}

// GetByID returns a match to one of its participants.
func (s *MatchService) GetByID(ctx context.Context, matchID, requesterID string) (*models.Match, error) {
	match, err := s.Store.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.IsParticipant(requesterID) {
		return nil, fmt.Errorf("not a participant of this match: %w", ErrForbidden)
	}
	return match, nil
}

// ArchiveForItem marks every non-terminal match on an item as archived.
// Called when the owner deletes the item.
func (s *MatchService) ArchiveForItem(ctx context.Context, itemID, ownerID string) error {
	matches, err := s.Store.ListByParticipant(ctx, ownerID)
	if err != nil {
		return err
	}
	for i := range matches {
		m := &matches[i]
		if m.ItemID != itemID || m.IsTerminal() {
			continue
		}
		now := models.Now()
		m.Status = models.MatchStatusArchived
		m.UpdatedAt = now
		if err := s.Store.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}
