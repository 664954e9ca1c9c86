package socket

// Session is the per-connection state: who authenticated, and which room
// the connection most recently joined. It lives in the connection context
// and is handed to every event handler explicitly, so handlers stay
// testable without a live transport.
//
// CurrentRoom tracks the single conversation the UI has in focus. Joining
// a new room does not leave the old one at the transport level, but sends
// into anything other than CurrentRoom are rejected.
type Session struct {
	ParticipantID string
	AccountType   string
	CurrentRoom   string
}
