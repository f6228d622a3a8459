package command

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/affiliate-hub-go/internal/domain"
)

// Outbound frame types.
const (
	FrameReply    = "reply"
	FrameIgnored  = "ignored"
	FrameTools    = "tools"
	FrameFavorite = "favorite"
	FrameStats    = "stats"
	FrameHelp     = "help"
	FrameError    = "error"
)

// Frame is one message on the chat channel, in either direction.
type Frame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InboundFrame is a client frame before its payload is interpreted.
type InboundFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ToolsPayload struct {
	Tools []domain.Tool `json:"tools"`
	Count int           `json:"count"`
}

type FavoritePayload struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type HelpEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DecodeEvent turns a raw client frame into a dispatchable event. A missing or
// null payload yields empty params; a non-object payload is an error.
func DecodeEvent(data []byte) (CommandEvent, error) {
	var in InboundFrame
	if err := json.Unmarshal(data, &in); err != nil {
		return CommandEvent{}, fmt.Errorf("malformed frame: %w", err)
	}

	params := map[string]any{}
	if len(in.Payload) > 0 && string(in.Payload) != "null" {
		if err := json.Unmarshal(in.Payload, &params); err != nil {
			return CommandEvent{}, fmt.Errorf("payload must be an object: %w", err)
		}
	}

	return CommandEvent{Type: domain.ParseCommandType(in.Type), Params: params}, nil
}

// stringParam reads params[key] as text. JSON numbers and booleans are
// formatted so that {"minRating": 4} and {"minRating": "4"} behave the same.
func stringParam(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
