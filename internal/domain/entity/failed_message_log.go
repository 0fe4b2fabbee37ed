package entity

// Message type tags recorded in the failure log.
const (
	MessageTypeCommand = "COMMAND"
	MessageTypeEvent   = "EVENT"
)

// FailedMessageLog is an insert-only audit row recording one failed dispatch
// attempt. Rows are written by the message bus through its own unit of work
// and are never updated or deleted by the application; they exist for
// operator inspection.
type FailedMessageLog struct {
	Base
	MessageType  string
	MessageName  string
	ErrorMessage string
}

func NewFailedMessageLog(messageType, messageName, errorMessage string) *FailedMessageLog {
	return &FailedMessageLog{
		Base:         NewBase(),
		MessageType:  messageType,
		MessageName:  messageName,
		ErrorMessage: errorMessage,
	}
}
