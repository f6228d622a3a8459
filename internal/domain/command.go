package domain

import "strings"

// CommandType names a message type accepted on the chat channel and the CLI.
type CommandType string

const (
	CommandAsk      CommandType = "ask"
	CommandQuery    CommandType = "query"
	CommandFavorite CommandType = "favorite"
	CommandStats    CommandType = "stats"
	CommandHelp     CommandType = "help"
	CommandUnknown  CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandAsk, CommandQuery, CommandFavorite, CommandStats, CommandHelp:
		return true
	default:
		return false
	}
}

// ParseCommandType maps a raw frame type onto a CommandType, case-insensitively.
func ParseCommandType(raw string) CommandType {
	c := CommandType(strings.ToLower(strings.TrimSpace(raw)))
	if c.IsValid() {
		return c
	}
	return CommandUnknown
}
