package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"thingsmatch_server/models"
	"thingsmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemService is the item directory: CRUD on shareable items plus the
// interest counter that drives discovery status.
type ItemService struct {
	Dynamo  *DynamoService
	Matches *MatchService
	Log     *zap.Logger
}

// CreateItem registers a new item for the owner, visible immediately.
func (s *ItemService) CreateItem(ctx context.Context, ownerID string, item models.Item) (*models.Item, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return nil, fmt.Errorf("item name must not be empty: %w", ErrValidation)
	}

	now := models.Now()
	item.ItemID = uuid.New().String()
	item.OwnerID = ownerID
	item.Status = models.ItemStatusAvailable
	item.OwnerFaded = false
	item.InterestCount = 0
	item.DiscoveryStatus = models.DiscoveryStatusFor(0, false)
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.Dynamo.PutItem(ctx, models.ItemsTable, item); err != nil {
		return nil, err
	}
	s.Log.Info("item created", zap.String("itemId", item.ItemID), zap.String("ownerId", ownerID))
	return &item, nil
}

// GetItem fetches one item by id.
func (s *ItemService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	key := map[string]types.AttributeValue{
		"itemId": StringAttr(itemID),
	}
	attrs, err := s.Dynamo.GetItem(ctx, models.ItemsTable, key)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}
	var item models.Item
	if err := attributevalue.UnmarshalMap(attrs, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}

// ListMine returns the owner's items, newest first.
func (s *ItemService) ListMine(ctx context.Context, ownerID string) ([]models.Item, error) {
	attrs, err := s.Dynamo.QueryItems(ctx, models.ItemsTable, models.ItemOwnerIndex,
		"ownerId = :ownerId",
		map[string]types.AttributeValue{":ownerId": StringAttr(ownerID)},
		nil, 0)
	if err != nil {
		return nil, err
	}
	var items []models.Item
	if err := attributevalue.UnmarshalListOfMaps(attrs, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})
	return items, nil
}

// ListDiscoverable returns swipe candidates for a participant: available,
// visible, not their own, and not already swiped on. An unmatched match
// does not hide the item; that triple is re-enterable. There is no
// ranking; the feed is a plain filter.
func (s *ItemService) ListDiscoverable(ctx context.Context, participantID string) ([]models.Item, error) {
	attrs, err := s.Dynamo.ScanItems(ctx, models.ItemsTable,
		"#status = :available AND discoveryStatus = :visible AND ownerId <> :me",
		map[string]types.AttributeValue{
			":available": StringAttr(models.ItemStatusAvailable),
			":visible":   StringAttr(models.DiscoveryVisible),
			":me":        StringAttr(participantID),
		},
		map[string]string{"#status": "status"})
	if err != nil {
		return nil, err
	}
	var items []models.Item
	if err := attributevalue.UnmarshalListOfMaps(attrs, &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}

	swiped, err := s.Matches.Store.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(swiped))
	for _, m := range swiped {
		if m.SwiperID == participantID && m.Status != models.MatchStatusUnmatched {
			seen[m.ItemID] = true
		}
	}
	candidates := items[:0]
	for _, it := range items {
		if !seen[it.ItemID] {
			candidates = append(candidates, it)
		}
	}
	return candidates, nil
}

// UpdateOwnerStatus applies an owner action to the item: a lifecycle status
// change (matched/given_away/available) or a discovery action (hide,
// reopen).
func (s *ItemService) UpdateOwnerStatus(ctx context.Context, itemID, ownerID, status string, fade *bool) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("only the owner may update an item: %w", ErrForbidden)
	}

	if status != "" {
		switch status {
		case models.ItemStatusAvailable, models.ItemStatusMatched, models.ItemStatusGivenAway:
			item.Status = status
		default:
			return nil, fmt.Errorf("unknown item status %q: %w", status, ErrValidation)
		}
	}
	if fade != nil {
		item.OwnerFaded = *fade
	}
	item.DiscoveryStatus = models.DiscoveryStatusFor(item.InterestCount, item.OwnerFaded)
	item.UpdatedAt = models.Now()

	if err := s.Dynamo.PutItem(ctx, models.ItemsTable, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item and archives its non-terminal matches so the
// conversations stop surfacing instead of pointing at a missing item.
func (s *ItemService) DeleteItem(ctx context.Context, itemID, ownerID string) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != ownerID {
		return fmt.Errorf("only the owner may delete an item: %w", ErrForbidden)
	}

	if err := s.Matches.ArchiveForItem(ctx, itemID, ownerID); err != nil {
		return err
	}

	key := map[string]types.AttributeValue{
		"itemId": StringAttr(itemID),
	}
	if err := s.Dynamo.DeleteItem(ctx, models.ItemsTable, key); err != nil {
		return err
	}
	s.Log.Info("item deleted", zap.String("itemId", itemID), zap.String("ownerId", ownerID))
	return nil
}

// AttachPhoto records an uploaded photo key on the item.
func (s *ItemService) AttachPhoto(ctx context.Context, itemID, ownerID, photoKey string) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("only the owner may update an item: %w", ErrForbidden)
	}
	item.Photos = append(item.Photos, photoKey)
	item.UpdatedAt = models.Now()
	if err := s.Dynamo.PutItem(ctx, models.ItemsTable, item); err != nil {
		return nil, err
	}
	return item, nil
}

// IncrementInterest bumps the interest counter atomically and re-derives
// discovery status from the new count.
func (s *ItemService) IncrementInterest(ctx context.Context, itemID string) (*models.Item, error) {
	return s.adjustInterest(ctx, itemID, 1)
}

// DecrementInterest undoes one interest increment, never dropping below
// zero.
func (s *ItemService) DecrementInterest(ctx context.Context, itemID string) (*models.Item, error) {
	return s.adjustInterest(ctx, itemID, -1)
}

func (s *ItemService) adjustInterest(ctx context.Context, itemID string, delta int) (*models.Item, error) {
	key := map[string]types.AttributeValue{
		"itemId": StringAttr(itemID),
	}
	condition := "attribute_exists(itemId)"
	if delta < 0 {
		condition += " AND interestCount >= :floor"
	}
	values := map[string]types.AttributeValue{
		":delta": NumberAttr(delta),
		":now":   StringAttr(models.Now()),
	}
	if delta < 0 {
		values[":floor"] = NumberAttr(-delta)
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.ItemsTable, key,
		"ADD interestCount :delta SET updatedAt = :now", condition, values, nil)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			// Missing item or a decrement below zero; report as absent so
			// callers keep a single failure mode.
			return nil, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	// The derivation below is a second write, not part of the ADD, so two
	// interleaved adjustments can leave discoveryStatus lagging the counter
	// until the next adjustment rewrites it. The feed filter tolerates the
	// lag; there is no cross-document transaction to close it.
	count := utils.ExtractInt(attrs, "interestCount")
	ownerFaded := utils.ExtractBool(attrs, "ownerFaded")
	derived := models.DiscoveryStatusFor(count, ownerFaded)
	if derived != utils.ExtractString(attrs, "discoveryStatus") {
		attrs, err = s.Dynamo.UpdateItem(ctx, models.ItemsTable, key,
			"SET discoveryStatus = :ds",
			"",
			map[string]types.AttributeValue{":ds": StringAttr(derived)},
			nil)
		if err != nil {
			return nil, err
		}
	}

	var item models.Item
	if err := attributevalue.UnmarshalMap(attrs, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item: %w", err)
	}
	return &item, nil
}
