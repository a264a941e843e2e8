package events

import "time"

// Session events carry only a token prefix; the full bearer token never
// leaves the store.
type SessionOpened struct {
	TokenPrefix string    `json:"tokenPrefix"`
	UserID      string    `json:"userId"`
	At          time.Time `json:"at"`
}

func (SessionOpened) EventName() string { return "session.opened" }

type SessionClosed struct {
	TokenPrefix string    `json:"tokenPrefix"`
	UserID      string    `json:"userId"`
	At          time.Time `json:"at"`
}

func (SessionClosed) EventName() string { return "session.closed" }

// TokenPrefix returns at most the first 8 characters of token.
func TokenPrefix(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
