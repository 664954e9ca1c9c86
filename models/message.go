package models

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "TMMessages"

// Message delivery statuses, one-directional: sent -> delivered -> read
const (
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
)

// Message belongs to exactly one match. Keyed by matchId (partition) and
// messageId (sort). Sender and receiver must be the match's two participants.
type Message struct {
	MatchID      string `dynamodbav:"matchId" json:"matchId"`
	MessageID    string `dynamodbav:"messageId" json:"messageId"`
	SenderID     string `dynamodbav:"senderId" json:"senderId"`
	ReceiverID   string `dynamodbav:"receiverId" json:"receiverId"`
	Content      string `dynamodbav:"content" json:"content"`
	Status       string `dynamodbav:"status" json:"status"`
	IsDefaultMsg bool   `dynamodbav:"isDefaultMsg" json:"isDefaultMsg"`
	CreatedAt    string `dynamodbav:"createdAt" json:"createdAt"`
	ReadAt       string `dynamodbav:"readAt,omitempty" json:"readAt,omitempty"`
}

// ValidMessageStatus reports whether s is a status a receiver may set.
func ValidMessageStatus(s string) bool {
	return s == MessageStatusDelivered || s == MessageStatusRead
}
