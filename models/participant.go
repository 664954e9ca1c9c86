package models

// ParticipantsTable is the DynamoDB table name for matching-feature identities
const ParticipantsTable = "TMUsers"

// Participant is a stable identity (TMID) within the matching feature,
// wrapping an externally managed account. Created lazily on first access,
// never hard-deleted; soft-disable clears the push tokens.
type Participant struct {
	TMID        string   `dynamodbav:"tmId" json:"tmId"`
	DisplayName string   `dynamodbav:"displayName,omitempty" json:"displayName,omitempty"`
	PictureURL  string   `dynamodbav:"pictureUrl,omitempty" json:"pictureUrl,omitempty"`
	AccountType string   `dynamodbav:"accountType,omitempty" json:"accountType,omitempty"`
	PushTokens  []string `dynamodbav:"pushTokens,omitempty" json:"pushTokens,omitempty"`
	CreatedAt   string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// HasPushToken reports whether token is already registered.
func (p *Participant) HasPushToken(token string) bool {
	for _, t := range p.PushTokens {
		if t == token {
			return true
		}
	}
	return false
}
