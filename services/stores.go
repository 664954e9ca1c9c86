package services

import (
	"context"

	"thingsmatch_server/models"
)

// MatchStore is the persistence boundary for match documents. The Dynamo
// implementation keys the table by triple key; tests use in-memory fakes.
type MatchStore interface {
	// GetByTriple returns the match for a triple key, wrapping ErrNotFound
	// when none exists.
	GetByTriple(ctx context.Context, tripleKey string) (*models.Match, error)
	// GetByID looks a match up by its public id.
	GetByID(ctx context.Context, matchID string) (*models.Match, error)
	// Create inserts a new match, wrapping ErrConflict when a document for
	// the same triple key already exists.
	Create(ctx context.Context, m *models.Match) error
	// Update overwrites the match document.
	Update(ctx context.Context, m *models.Match) error
	// ListByParticipant returns every match where the participant is owner
	// or swiper, in no particular order.
	ListByParticipant(ctx context.Context, participantID string) ([]models.Match, error)
}

// MessageStore is the persistence boundary for the per-match message log.
type MessageStore interface {
	// Append persists a new message.
	Append(ctx context.Context, msg *models.Message) error
	// GetByID returns one message, wrapping ErrNotFound when absent.
	GetByID(ctx context.Context, matchID, messageID string) (*models.Message, error)
	// ListByMatch returns all messages of a match, newest first.
	ListByMatch(ctx context.Context, matchID string) ([]models.Message, error)
	// SetStatus updates a message's delivery status. readAt is stamped only
	// if the message has no readAt yet; an existing stamp is never
	// overwritten.
	SetStatus(ctx context.Context, matchID, messageID, status, readAt string) (*models.Message, error)
	// MarkReadForReceiver transitions every message addressed to receiverID
	// in the match that is not yet read. Returns how many were updated.
	MarkReadForReceiver(ctx context.Context, matchID, receiverID, readAt string) (int, error)
}

// ItemDirectory is the slice of the item service the match state machine
// depends on.
type ItemDirectory interface {
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	IncrementInterest(ctx context.Context, itemID string) (*models.Item, error)
	DecrementInterest(ctx context.Context, itemID string) (*models.Item, error)
}

// Notifier receives logical events from the core. Implementations must
// swallow their own failures; the core never blocks on fan-out.
type Notifier interface {
	InterestExpressed(ctx context.Context, match *models.Match, msg *models.Message)
	MatchConfirmed(ctx context.Context, match *models.Match)
	MessageReceived(ctx context.Context, match *models.Match, msg *models.Message)
	MessageStatusUpdated(ctx context.Context, match *models.Match, msg *models.Message)
}
