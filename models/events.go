package models

// Logical events emitted to the notification fan-out on state transitions.
const (
	EventInterestExpressed    = "interestExpressed"
	EventMatchConfirmed       = "matchConfirmed"
	EventMessageReceived      = "messageReceived"
	EventMessageStatusUpdated = "messageStatusUpdated"
)
