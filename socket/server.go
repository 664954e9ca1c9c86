package socket

import (
	"fmt"

	"thingsmatch_server/middleware"

	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// NewSocketServer builds the socket.io server for the real-time delivery
// channel. Each connection authenticates once via a token query parameter;
// the verified identity lives in the connection session for every
// subsequent event.
func NewSocketServer(hub *Hub, jwtSecret string, log *zap.Logger) *socketio.Server {
	server := socketio.NewServer(nil)
	hub.Rooms = server

	server.OnConnect("/", func(c socketio.Conn) error {
		u := c.URL()
		token := u.Query().Get("token")
		if token == "" {
			return fmt.Errorf("missing token")
		}
		claims, err := middleware.VerifyToken(token, jwtSecret)
		if err != nil {
			log.Debug("socket auth failed", zap.String("connId", c.ID()), zap.Error(err))
			return fmt.Errorf("invalid token")
		}
		c.SetContext(&Session{
			ParticipantID: claims.TMID,
			AccountType:   claims.AccountType,
		})
		log.Info("socket connected",
			zap.String("connId", c.ID()),
			zap.String("participantId", claims.TMID))
		return nil
	})

	server.OnEvent("/", EventJoin, func(c socketio.Conn, ev JoinEvent) {
		hub.Dispatch(c, ev)
	})
	server.OnEvent("/", EventSendMessage, func(c socketio.Conn, ev SendEvent) {
		hub.Dispatch(c, ev)
	})
	server.OnEvent("/", EventTyping, func(c socketio.Conn, ev TypingEvent) {
		hub.Dispatch(c, ev)
	})
	server.OnEvent("/", EventStopTyping, func(c socketio.Conn, ev StopTypingEvent) {
		hub.Dispatch(c, ev)
	})
	server.OnEvent("/", EventMessageRead, func(c socketio.Conn, ev MessageReadEvent) {
		hub.Dispatch(c, ev)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		log.Warn("socket error", zap.Error(err))
	})

	// No presence feature: an abrupt disconnect only releases the room
	// subscription, which the transport does on its own.
	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Info("socket disconnected",
			zap.String("connId", c.ID()),
			zap.String("reason", reason))
	})

	return server
}
