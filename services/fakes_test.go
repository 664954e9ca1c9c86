package services

import (
	"context"
	"fmt"
	"sort"

	"thingsmatch_server/models"

	"go.uber.org/zap"
)

// In-memory store fakes. They return copies at the boundary, the way a
// real store materializes fresh documents, so callers can't mutate stored
// state without an explicit Update.

type fakeMatchStore struct {
	byTriple map[string]models.Match
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{byTriple: map[string]models.Match{}}
}

func (s *fakeMatchStore) GetByTriple(_ context.Context, tripleKey string) (*models.Match, error) {
	m, ok := s.byTriple[tripleKey]
	if !ok {
		return nil, fmt.Errorf("match for triple %s: %w", tripleKey, ErrNotFound)
	}
	return &m, nil
}

func (s *fakeMatchStore) GetByID(_ context.Context, matchID string) (*models.Match, error) {
	for _, m := range s.byTriple {
		if m.MatchID == matchID {
			m := m
			return &m, nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
}

func (s *fakeMatchStore) Create(_ context.Context, m *models.Match) error {
	if _, exists := s.byTriple[m.TripleKey]; exists {
		return fmt.Errorf("triple %s taken: %w", m.TripleKey, ErrConflict)
	}
	s.byTriple[m.TripleKey] = *m
	return nil
}

func (s *fakeMatchStore) Update(_ context.Context, m *models.Match) error {
	s.byTriple[m.TripleKey] = *m
	return nil
}

func (s *fakeMatchStore) ListByParticipant(_ context.Context, participantID string) ([]models.Match, error) {
	var out []models.Match
	for _, m := range s.byTriple {
		if m.OwnerID == participantID || m.SwiperID == participantID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeMessageStore struct {
	messages []models.Message
}

func (s *fakeMessageStore) Append(_ context.Context, msg *models.Message) error {
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, matchID, messageID string) (*models.Message, error) {
	for _, m := range s.messages {
		if m.MatchID == matchID && m.MessageID == messageID {
			m := m
			return &m, nil
		}
	}
	return nil, fmt.Errorf("message %s in match %s: %w", messageID, matchID, ErrNotFound)
}

func (s *fakeMessageStore) ListByMatch(_ context.Context, matchID string) ([]models.Message, error) {
	var out []models.Message
	for _, m := range s.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (s *fakeMessageStore) SetStatus(_ context.Context, matchID, messageID, status, readAt string) (*models.Message, error) {
	for i := range s.messages {
		m := &s.messages[i]
		if m.MatchID != matchID || m.MessageID != messageID {
			continue
		}
		m.Status = status
		if readAt != "" && m.ReadAt == "" {
			m.ReadAt = readAt
		}
		out := *m
		return &out, nil
	}
	return nil, fmt.Errorf("message %s in match %s: %w", messageID, matchID, ErrNotFound)
}

func (s *fakeMessageStore) MarkReadForReceiver(ctx context.Context, matchID, receiverID, readAt string) (int, error) {
	updated := 0
	for i := range s.messages {
		m := &s.messages[i]
		if m.MatchID != matchID || m.ReceiverID != receiverID || m.Status == models.MessageStatusRead {
			continue
		}
		if _, err := s.SetStatus(ctx, matchID, m.MessageID, models.MessageStatusRead, readAt); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

type fakeItemDirectory struct {
	items map[string]models.Item
}

func newFakeItemDirectory(items ...models.Item) *fakeItemDirectory {
	d := &fakeItemDirectory{items: map[string]models.Item{}}
	for _, it := range items {
		d.items[it.ItemID] = it
	}
	return d
}

func (d *fakeItemDirectory) GetItem(_ context.Context, itemID string) (*models.Item, error) {
	it, ok := d.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	return &it, nil
}

func (d *fakeItemDirectory) IncrementInterest(_ context.Context, itemID string) (*models.Item, error) {
	return d.adjust(itemID, 1)
}

func (d *fakeItemDirectory) DecrementInterest(_ context.Context, itemID string) (*models.Item, error) {
	return d.adjust(itemID, -1)
}

func (d *fakeItemDirectory) adjust(itemID string, delta int) (*models.Item, error) {
	it, ok := d.items[itemID]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	it.InterestCount += delta
	if it.InterestCount < 0 {
		it.InterestCount = 0
	}
	it.DiscoveryStatus = models.DiscoveryStatusFor(it.InterestCount, it.OwnerFaded)
	d.items[itemID] = it
	return &it, nil
}

type fakeNotifier struct {
	events []string
}

func (n *fakeNotifier) InterestExpressed(context.Context, *models.Match, *models.Message) {
	n.events = append(n.events, models.EventInterestExpressed)
}

func (n *fakeNotifier) MatchConfirmed(context.Context, *models.Match) {
	n.events = append(n.events, models.EventMatchConfirmed)
}

func (n *fakeNotifier) MessageReceived(context.Context, *models.Match, *models.Message) {
	n.events = append(n.events, models.EventMessageReceived)
}

func (n *fakeNotifier) MessageStatusUpdated(context.Context, *models.Match, *models.Message) {
	n.events = append(n.events, models.EventMessageStatusUpdated)
}

// testCore bundles a fully wired core over in-memory fakes.
type testCore struct {
	matches  *MatchService
	messages *MessageService
	store    *fakeMatchStore
	ledger   *fakeMessageStore
	items    *fakeItemDirectory
	notify   *fakeNotifier
}

func newTestCore(items ...models.Item) *testCore {
	store := newFakeMatchStore()
	ledger := &fakeMessageStore{}
	dir := newFakeItemDirectory(items...)
	notify := &fakeNotifier{}
	logger := zap.NewNop()

	matches := &MatchService{
		Store:    store,
		Items:    dir,
		Messages: ledger,
		Notify:   notify,
		Log:      logger,
	}
	messages := &MessageService{
		Store:   ledger,
		Matches: matches,
		Notify:  notify,
		Log:     logger,
	}
	return &testCore{
		matches:  matches,
		messages: messages,
		store:    store,
		ledger:   ledger,
		items:    dir,
		notify:   notify,
	}
}

func availableItem(itemID, ownerID string) models.Item {
	now := models.Now()
	return models.Item{
		ItemID:          itemID,
		OwnerID:         ownerID,
		Name:            "a chair",
		Status:          models.ItemStatusAvailable,
		DiscoveryStatus: models.DiscoveryVisible,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
