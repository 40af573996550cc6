package domain

import "strings"

const (
	StartCommand = "start"

	// NoUsername is shown instead of a handle for users without one.
	NoUsername = "No username"
)

// IncomingCommandEvent is a single command received from a user.
// SenderUsername, SenderFirstName and SenderLastName are empty when absent.
type IncomingCommandEvent struct {
	UpdateID        int
	SenderID        int64
	SenderUsername  string
	SenderFirstName string
	SenderLastName  string
	ChatID          int64
	Command         string
}

func (e IncomingCommandEvent) Validate() error {
	if e.SenderID == 0 {
		return ErrMissingSender
	}
	if e.ChatID == 0 {
		return ErrMissingChat
	}
	if e.Command != StartCommand {
		return ErrUnsupportedCommand
	}
	return nil
}

func (e IncomingCommandEvent) HasUsername() bool {
	return e.username() != ""
}

func (e IncomingCommandEvent) username() string {
	return strings.TrimPrefix(strings.TrimSpace(e.SenderUsername), "@")
}

// DisplayName never returns "" or a bare "@".
func (e IncomingCommandEvent) DisplayName() string {
	if !e.HasUsername() {
		return NoUsername
	}
	return "@" + e.username()
}

func (e IncomingCommandEvent) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{e.SenderFirstName, e.SenderLastName} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
