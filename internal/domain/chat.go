package domain

import "errors"

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// SystemUser is the sender of synthesized chat announcements.
const SystemUser = "System"

// ChatMessage is what a chat room relays. Chat keeps no history;
// a message exists only for the duration of its fan-out.
type ChatMessage struct {
	User    string `json:"user"`
	Message string `json:"message"`
}

// ValidateUsername bounds the display name a session announces with.
func ValidateUsername(name string) error {
	if len(name) == 0 {
		return ErrUsernameEmpty
	}
	if len(name) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
