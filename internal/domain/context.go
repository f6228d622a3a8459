package domain

import "time"

// CommandContext identifies the caller of a command.
type CommandContext struct {
	SessionID  string
	RemoteAddr string
	Timestamp  time.Time
}

func NewCommandContext(sessionID, remoteAddr string) *CommandContext {
	return &CommandContext{
		SessionID:  sessionID,
		RemoteAddr: remoteAddr,
		Timestamp:  time.Now(),
	}
}
