package socket

import (
	"context"

	"thingsmatch_server/models"
	"thingsmatch_server/services"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// clientConn is the slice of socketio.Conn the hub uses. Narrowed to an
// interface so handlers run against a fake connection in tests.
type clientConn interface {
	ID() string
	Emit(eventName string, v ...interface{})
	Join(room string)
	Context() interface{}
	SetContext(v interface{})
}

// roomBroadcaster is the slice of *socketio.Server the hub uses for
// fan-out.
type roomBroadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
	ForEach(namespace, room string, f socketio.EachFunc) bool
}

// Hub routes every inbound socket event through one pipeline: resolve the
// session, check match membership, then hand off to the per-event handler.
type Hub struct {
	Matches  *services.MatchService
	Messages *services.MessageService
	Rooms    roomBroadcaster
	Log      *zap.Logger
}

// Dispatch is the single entry point for inbound events.
func (h *Hub) Dispatch(c clientConn, ev inboundEvent) {
	ctx := context.Background()

	sess, ok := c.Context().(*Session)
	if !ok || sess == nil || sess.ParticipantID == "" {
		c.Emit(EventChatError, ChatError{Message: "not authenticated", Code: "auth"})
		return
	}

	// Membership gate: GetByID returns Forbidden for non-participants and
	// NotFound for unknown matches, for every event type alike.
	match, err := h.Matches.GetByID(ctx, ev.matchID(), sess.ParticipantID)
	if err != nil {
		h.emitError(c, ev, err)
		return
	}

	switch e := ev.(type) {
	case JoinEvent:
		h.handleJoin(c, sess, match)
	case SendEvent:
		h.handleSend(ctx, c, sess, match, e)
	case TypingEvent:
		h.handleTyping(c, sess, match, EventUserTyping)
	case StopTypingEvent:
		h.handleTyping(c, sess, match, EventUserStopTyping)
	case MessageReadEvent:
		h.handleMessageRead(ctx, c, sess, match, e)
	default:
		c.Emit(EventChatError, ChatError{Message: "unknown event", Code: "validation"})
	}
}

// handleJoin subscribes the connection to the match room. Pending matches
// are joinable so the owner can receive the opening message live;
// conversing still requires an active match (enforced on send).
func (h *Hub) handleJoin(c clientConn, sess *Session, match *models.Match) {
	switch match.Status {
	case models.MatchStatusActive, models.MatchStatusPending:
	default:
		c.Emit(EventChatError, ChatError{
			Message: "cannot join a " + match.Status + " match",
			Code:    "invalid_state",
		})
		return
	}

	c.Join(match.MatchID)
	sess.CurrentRoom = match.MatchID
	c.Emit(EventRoomJoined, RoomJoinedPayload{
		MatchID: match.MatchID,
		Message: "joined match room",
	})
	h.Log.Debug("room joined",
		zap.String("matchId", match.MatchID),
		zap.String("participantId", sess.ParticipantID))
}

// handleSend persists through the message ledger and echoes the stored
// message to the whole room, sender included, so every client renders the
// server-confirmed record.
func (h *Hub) handleSend(ctx context.Context, c clientConn, sess *Session, match *models.Match, ev SendEvent) {
	if sess.CurrentRoom != match.MatchID {
		c.Emit(EventChatError, ChatError{
			Message: "join the match room before sending",
			Code:    "forbidden",
		})
		return
	}

	receiver, _ := match.OtherParty(sess.ParticipantID)
	msg, err := h.Messages.Send(ctx, match.MatchID, sess.ParticipantID, receiver, ev.Content)
	if err != nil {
		h.emitError(c, ev, err)
		return
	}
	h.Rooms.BroadcastToRoom("/", match.MatchID, EventReceiveMessage, msg)
}

// handleTyping relays ephemeral presence to the other room members only.
func (h *Hub) handleTyping(c clientConn, sess *Session, match *models.Match, outEvent string) {
	if sess.CurrentRoom != match.MatchID {
		c.Emit(EventChatError, ChatError{
			Message: "join the match room before typing",
			Code:    "forbidden",
		})
		return
	}

	payload := TypingPayload{UserID: sess.ParticipantID, MatchID: match.MatchID}
	h.Rooms.ForEach("/", match.MatchID, func(member socketio.Conn) {
		if member.ID() != c.ID() {
			member.Emit(outEvent, payload)
		}
	})
}

// handleMessageRead marks a message read and broadcasts the updated record
// so the sender's UI can show the receipt.
func (h *Hub) handleMessageRead(ctx context.Context, c clientConn, sess *Session, match *models.Match, ev MessageReadEvent) {
	msg, err := h.Messages.UpdateStatus(ctx, match.MatchID, ev.MessageID, sess.ParticipantID, models.MessageStatusRead)
	if err != nil {
		h.emitError(c, ev, err)
		return
	}
	h.Rooms.BroadcastToRoom("/", match.MatchID, EventMessageStatusUpdated, msg)
}

func (h *Hub) emitError(c clientConn, ev inboundEvent, err error) {
	h.Log.Debug("socket event rejected",
		zap.String("event", ev.eventName()),
		zap.String("matchId", ev.matchID()),
		zap.Error(err))
	c.Emit(EventChatError, ChatError{
		Message: err.Error(),
		Code:    services.ErrorKind(err),
	})
}
