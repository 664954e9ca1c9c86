package models

import (
	"strings"
	"time"
)

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "TMMatches"

// Secondary indexes on the Matches table
const (
	MatchIDIndex     = "matchId-index"
	MatchOwnerIndex  = "ownerId-index"
	MatchSwiperIndex = "swiperId-index"
)

// Match statuses
const (
	MatchStatusPending           = "pendingInterest"
	MatchStatusActive            = "active"
	MatchStatusUnmatched         = "unmatched"
	MatchStatusBlocked           = "blocked"
	MatchStatusCompletedByOwner  = "completedByOwner"
	MatchStatusCompletedBySwiper = "completedBySwiper"
	MatchStatusArchived          = "archived"
)

// TimestampLayout is a fixed-width RFC3339 layout. Fixed width keeps
// lexical ordering of stored timestamps identical to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// Now returns the current UTC time in TimestampLayout.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// Match is the relationship record between an item owner and a swiper over
// one item. The table is keyed by TripleKey, so the storage layer itself
// guarantees at most one record per (owner, swiper, item) triple.
type Match struct {
	TripleKey      string `dynamodbav:"tripleKey" json:"-"`
	MatchID        string `dynamodbav:"matchId" json:"matchId"`
	ItemID         string `dynamodbav:"itemId" json:"itemId"`
	OwnerID        string `dynamodbav:"ownerId" json:"ownerId"`
	SwiperID       string `dynamodbav:"swiperId" json:"swiperId"`
	Status         string `dynamodbav:"status" json:"status"`
	DefaultMsgSent bool   `dynamodbav:"defaultMsgSent" json:"defaultMsgSent"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt      string `dynamodbav:"updatedAt" json:"updatedAt"`
	MatchedAt      string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"`
	LastMessageAt  string `dynamodbav:"lastMessageAt,omitempty" json:"lastMessageAt,omitempty"`
	UnmatchedAt    string `dynamodbav:"unmatchedAt,omitempty" json:"unmatchedAt,omitempty"`
}

// MatchTripleKey builds the deterministic storage key for an
// (owner, swiper, item) triple. Participants are sorted so both orderings
// of the pair map to the same key.
func MatchTripleKey(ownerID, swiperID, itemID string) string {
	a, b := ownerID, swiperID
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "#" + b + "#" + itemID
}

// IsParticipant reports whether id is one of the match's two participants.
func (m *Match) IsParticipant(id string) bool {
	return id != "" && (id == m.OwnerID || id == m.SwiperID)
}

// OtherParty returns the counterpart of id in the match.
func (m *Match) OtherParty(id string) (string, bool) {
	switch id {
	case m.OwnerID:
		return m.SwiperID, true
	case m.SwiperID:
		return m.OwnerID, true
	}
	return "", false
}

// IsTerminal reports whether the match is in a final state. Unmatched is
// terminal for messaging but re-enterable through a new swipe.
func (m *Match) IsTerminal() bool {
	switch m.Status {
	case MatchStatusUnmatched, MatchStatusBlocked, MatchStatusCompletedByOwner,
		MatchStatusCompletedBySwiper, MatchStatusArchived:
		return true
	}
	return false
}

// ValidMatchStatus reports whether s is a status UpdateStatus may set.
// Pending and active are only reachable through swipe/confirm flows.
func ValidMatchStatus(s string) bool {
	switch s {
	case MatchStatusUnmatched, MatchStatusBlocked, MatchStatusCompletedByOwner,
		MatchStatusCompletedBySwiper, MatchStatusArchived:
		return true
	}
	return false
}
