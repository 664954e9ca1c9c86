package services

import (
	"context"
	"fmt"
	"sort"

	"thingsmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoMessageStore persists messages in the TMMessages table, keyed by
// matchId (partition) and messageId (sort).
type DynamoMessageStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMessageStore) Append(ctx context.Context, msg *models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, msg)
}

func (s *DynamoMessageStore) GetByID(ctx context.Context, matchID, messageID string) (*models.Message, error) {
	key := map[string]types.AttributeValue{
		"matchId":   StringAttr(matchID),
		"messageId": StringAttr(messageID),
	}
	item, err := s.Dynamo.GetItem(ctx, models.MessagesTable, key)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("message %s in match %s: %w", messageID, matchID, ErrNotFound)
	}
	var msg models.Message
	if err := attributevalue.UnmarshalMap(item, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	return &msg, nil
}

// ListByMatch returns the full log for a match sorted newest first. The sort
// key is not time-ordered, so ordering happens here on createdAt; the fixed
// width timestamp layout makes the string compare chronological.
func (s *DynamoMessageStore) ListByMatch(ctx context.Context, matchID string) ([]models.Message, error) {
	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, "",
		"matchId = :matchId",
		map[string]types.AttributeValue{":matchId": StringAttr(matchID)},
		nil, 0)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("unmarshal messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	return messages, nil
}

func (s *DynamoMessageStore) SetStatus(ctx context.Context, matchID, messageID, status, readAt string) (*models.Message, error) {
	key := map[string]types.AttributeValue{
		"matchId":   StringAttr(matchID),
		"messageId": StringAttr(messageID),
	}
	update := "SET #status = :status"
	values := map[string]types.AttributeValue{
		":status": StringAttr(status),
	}
	names := map[string]string{"#status": "status"}
	if readAt != "" {
		// if_not_exists keeps the first readAt stamp; repeated read
		// transitions are no-ops on the timestamp.
		update += ", readAt = if_not_exists(readAt, :readAt)"
		values[":readAt"] = StringAttr(readAt)
	}

	attrs, err := s.Dynamo.UpdateItem(ctx, models.MessagesTable, key, update, "", values, names)
	if err != nil {
		return nil, err
	}
	var msg models.Message
	if err := attributevalue.UnmarshalMap(attrs, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal message: %w", err)
	}
	return &msg, nil
}

// MarkReadForReceiver flips every unread message addressed to receiverID to
// read. One update per message; there is no multi-document write, so a crash
// mid-loop leaves the remainder unread and a later fetch retries them.
func (s *DynamoMessageStore) MarkReadForReceiver(ctx context.Context, matchID, receiverID, readAt string) (int, error) {
	messages, err := s.ListByMatch(ctx, matchID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, msg := range messages {
		if msg.ReceiverID != receiverID || msg.Status == models.MessageStatusRead {
			continue
		}
		if _, err := s.SetStatus(ctx, matchID, msg.MessageID, models.MessageStatusRead, readAt); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
