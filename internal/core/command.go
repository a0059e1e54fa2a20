package core

// CommandKind describes what a session wants the hub to do.
type CommandKind int

const (
	// CommandJoin validates the session's room and registers it.
	CommandJoin CommandKind = iota
	// CommandSendMessage persists and broadcasts a chat message.
	CommandSendMessage
	// CommandClose unregisters the session and releases its resources.
	CommandClose
)

// Command represents an action requested on behalf of a session.
type Command struct {
	Kind    CommandKind
	Session *Session
	Message Message
}
