package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client. The room
// binding is implied by the connection, not carried per frame.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeMessage = "message"

	OutboundTypeHistory = "history"
	OutboundTypeMessage = "message"
	OutboundTypeError   = "error"
)

// MsgData is a chat message from the client. CreatedAt is optional
// RFC-3339; the server stamps receive time when it does not parse.
type MsgData struct {
	Author    string `json:"author,omitempty"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// WireMessage is a chat message as seen on the wire.
type WireMessage struct {
	ID        int64  `json:"id,omitempty"`
	Room      string `json:"room"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
