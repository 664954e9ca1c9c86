package models

// ItemsTable is the DynamoDB table name for shareable items
const ItemsTable = "TMItems"

// ItemOwnerIndex is the GSI for listing a participant's own items
const ItemOwnerIndex = "ownerId-index"

// Item lifecycle statuses
const (
	ItemStatusAvailable = "available"
	ItemStatusMatched   = "matched"
	ItemStatusGivenAway = "given_away"
)

// Item discovery statuses (visibility in the swipe feed)
const (
	DiscoveryVisible           = "visible"
	DiscoveryHiddenTemporarily = "hidden_temporarily"
	DiscoveryFaded             = "faded"
)

// MaxActiveInterests is the pending-interest count at which an item stops
// being surfaced to new swipers until the owner reopens it.
const MaxActiveInterests = 10

// GeoPoint is a WGS84 coordinate pair for item pickup location.
type GeoPoint struct {
	Lat float64 `dynamodbav:"lat" json:"lat"`
	Lng float64 `dynamodbav:"lng" json:"lng"`
}

// Item is something one participant offers for giving away.
type Item struct {
	ItemID          string   `dynamodbav:"itemId" json:"itemId"`
	OwnerID         string   `dynamodbav:"ownerId" json:"ownerId"`
	Name            string   `dynamodbav:"name" json:"name"`
	Description     string   `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Category        string   `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Location        GeoPoint `dynamodbav:"location" json:"location"`
	Photos          []string `dynamodbav:"photos,omitempty" json:"photos,omitempty"`
	Status          string   `dynamodbav:"status" json:"status"`
	DiscoveryStatus string   `dynamodbav:"discoveryStatus" json:"discoveryStatus"`
	OwnerFaded      bool     `dynamodbav:"ownerFaded" json:"ownerFaded"`
	InterestCount   int      `dynamodbav:"interestCount" json:"interestCount"`
	CreatedAt       string   `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string   `dynamodbav:"updatedAt" json:"updatedAt"`
}

// DiscoveryStatusFor derives discovery status from the interest counter and
// the owner's hide action. The item saturates once MaxActiveInterests
// concurrent pending interests exist and stays hidden until interests drop
// or the owner reopens it.
func DiscoveryStatusFor(interestCount int, ownerFaded bool) string {
	if ownerFaded {
		return DiscoveryFaded
	}
	if interestCount >= MaxActiveInterests {
		return DiscoveryHiddenTemporarily
	}
	return DiscoveryVisible
}
