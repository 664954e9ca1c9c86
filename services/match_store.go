package services

import (
	"context"
	"fmt"

	"thingsmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoMatchStore persists matches in the TMMatches table. The partition
// key is the triple key, so one document per (owner, swiper, item) triple is
// a table invariant, not an application promise.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMatchStore) GetByTriple(ctx context.Context, tripleKey string) (*models.Match, error) {
	key := map[string]types.AttributeValue{
		"tripleKey": StringAttr(tripleKey),
	}
	item, err := s.Dynamo.GetItem(ctx, models.MatchesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("match for triple %s: %w", tripleKey, ErrNotFound)
	}
	var m models.Match
	if err := attributevalue.UnmarshalMap(item, &m); err != nil {
		return nil, fmt.Errorf("unmarshal match: %w", err)
	}
	return &m, nil
}

func (s *DynamoMatchStore) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MatchesTable, models.MatchIDIndex,
		"matchId = :matchId",
		map[string]types.AttributeValue{":matchId": StringAttr(matchID)},
		nil, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
	}
	var m models.Match
	if err := attributevalue.UnmarshalMap(items[0], &m); err != nil {
		return nil, fmt.Errorf("unmarshal match: %w", err)
	}
	return &m, nil
}

func (s *DynamoMatchStore) Create(ctx context.Context, m *models.Match) error {
	return s.Dynamo.PutItemIfAbsent(ctx, models.MatchesTable, m, "tripleKey")
}

func (s *DynamoMatchStore) Update(ctx context.Context, m *models.Match) error {
	return s.Dynamo.PutItem(ctx, models.MatchesTable, m)
}

func (s *DynamoMatchStore) ListByParticipant(ctx context.Context, participantID string) ([]models.Match, error) {
	asOwner, err := s.queryIndex(ctx, models.MatchOwnerIndex, "ownerId", participantID)
	if err != nil {
		return nil, err
	}
	asSwiper, err := s.queryIndex(ctx, models.MatchSwiperIndex, "swiperId", participantID)
	if err != nil {
		return nil, err
	}
	return append(asOwner, asSwiper...), nil
}

func (s *DynamoMatchStore) queryIndex(ctx context.Context, index, attr, value string) ([]models.Match, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MatchesTable, index,
		fmt.Sprintf("%s = :v", attr),
		map[string]types.AttributeValue{":v": StringAttr(value)},
		nil, 0)
	if err != nil {
		return nil, err
	}
	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("unmarshal matches: %w", err)
	}
	return matches, nil
}
