package services

import (
	"context"
	"errors"
	"fmt"

	"thingsmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// ParticipantService manages TMIDs, the matching-feature identities wrapped
// around external accounts.
type ParticipantService struct {
	Dynamo *DynamoService
	Log    *zap.Logger
}

// Ensure returns the participant record for an id, creating it on first
// access. Creation is a conditional put, so two concurrent first requests
// converge on one record.
func (s *ParticipantService) Ensure(ctx context.Context, tmID, accountType string) (*models.Participant, error) {
	if p, err := s.Get(ctx, tmID); err == nil {
		return p, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := models.Now()
	p := &models.Participant{
		TMID:        tmID,
		AccountType: accountType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.Dynamo.PutItemIfAbsent(ctx, models.ParticipantsTable, p, "tmId")
	if errors.Is(err, ErrConflict) {
		// Lost the race to another request; the record exists now.
		return s.Get(ctx, tmID)
	}
	if err != nil {
		return nil, err
	}
	s.Log.Info("participant created", zap.String("tmId", tmID))
	return p, nil
}

// Get fetches a participant by TMID.
func (s *ParticipantService) Get(ctx context.Context, tmID string) (*models.Participant, error) {
	key := map[string]types.AttributeValue{
		"tmId": StringAttr(tmID),
	}
	attrs, err := s.Dynamo.GetItem(ctx, models.ParticipantsTable, key)
	if err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, fmt.Errorf("participant %s: %w", tmID, ErrNotFound)
	}
	var p models.Participant
	if err := attributevalue.UnmarshalMap(attrs, &p); err != nil {
		return nil, fmt.Errorf("unmarshal participant: %w", err)
	}
	return &p, nil
}

// UpdateProfile sets the display fields resolved from the external account.
func (s *ParticipantService) UpdateProfile(ctx context.Context, tmID, displayName, pictureURL string) (*models.Participant, error) {
	p, err := s.Get(ctx, tmID)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		p.DisplayName = displayName
	}
	if pictureURL != "" {
		p.PictureURL = pictureURL
	}
	p.UpdatedAt = models.Now()
	if err := s.Dynamo.PutItem(ctx, models.ParticipantsTable, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddPushToken registers a push token, ignoring duplicates.
func (s *ParticipantService) AddPushToken(ctx context.Context, tmID, token string) (*models.Participant, error) {
	if token == "" {
		return nil, fmt.Errorf("push token must not be empty: %w", ErrValidation)
	}
	p, err := s.Get(ctx, tmID)
	if err != nil {
		return nil, err
	}
	if p.HasPushToken(token) {
		return p, nil
	}
	p.PushTokens = append(p.PushTokens, token)
	p.UpdatedAt = models.Now()
	if err := s.Dynamo.PutItem(ctx, models.ParticipantsTable, p); err != nil {
		return nil, err
	}
	return p, nil
}

// RemovePushToken drops a token. An empty token clears every token, which
// is the soft-disable path.
func (s *ParticipantService) RemovePushToken(ctx context.Context, tmID, token string) (*models.Participant, error) {
	p, err := s.Get(ctx, tmID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		p.PushTokens = nil
	} else {
		kept := p.PushTokens[:0]
		for _, t := range p.PushTokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		p.PushTokens = kept
	}
	p.UpdatedAt = models.Now()
	if err := s.Dynamo.PutItem(ctx, models.ParticipantsTable, p); err != nil {
		return nil, err
	}
	return p, nil
}
