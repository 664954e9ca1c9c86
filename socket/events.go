package socket

// Inbound event names (client -> server). The wire contract with any
// connected client.
const (
	EventJoin        = "join"
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
	EventMessageRead = "messageRead"
)

// Outbound event names (server -> client).
const (
	EventRoomJoined           = "roomJoined"
	EventReceiveMessage       = "receiveMessage"
	EventMessageStatusUpdated = "messageStatusUpdated"
	EventUserTyping           = "userTyping"
	EventUserStopTyping       = "userStopTyping"
	EventChatError            = "chatError"
)

// inboundEvent is the closed set of client events. Every variant flows
// through the same authorize-then-handle pipeline in Hub.Dispatch; no event
// reaches its handler without a room-membership check.
type inboundEvent interface {
	eventName() string
	matchID() string
}

// JoinEvent asks to enter a match's room.
type JoinEvent struct {
	MatchID string `json:"matchId"`
}

func (e JoinEvent) eventName() string { return EventJoin }
func (e JoinEvent) matchID() string   { return e.MatchID }

// SendEvent posts a chat message into the connection's current room.
type SendEvent struct {
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

func (e SendEvent) eventName() string { return EventSendMessage }
func (e SendEvent) matchID() string   { return e.MatchID }

// TypingEvent signals ephemeral typing presence. Never persisted.
type TypingEvent struct {
	MatchID string `json:"matchId"`
}

func (e TypingEvent) eventName() string { return EventTyping }
func (e TypingEvent) matchID() string   { return e.MatchID }

// StopTypingEvent ends a typing signal.
type StopTypingEvent struct {
	MatchID string `json:"matchId"`
}

func (e StopTypingEvent) eventName() string { return EventStopTyping }
func (e StopTypingEvent) matchID() string   { return e.MatchID }

// MessageReadEvent acknowledges a message as read.
type MessageReadEvent struct {
	MessageID string `json:"messageId"`
	MatchID   string `json:"matchId"`
}

func (e MessageReadEvent) eventName() string { return EventMessageRead }
func (e MessageReadEvent) matchID() string   { return e.MatchID }

// RoomJoinedPayload acknowledges a successful join.
type RoomJoinedPayload struct {
	MatchID string `json:"matchId"`
	Message string `json:"message"`
}

// TypingPayload is broadcast to other room members on typing events.
type TypingPayload struct {
	UserID  string `json:"userId"`
	MatchID string `json:"matchId"`
}

// ChatError is the scoped error event. Message is human readable; Code is
// the machine-readable error kind.
type ChatError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
