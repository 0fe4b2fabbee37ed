// Package message defines the messages routed by the bus: commands, which
// request a state change and are handled by exactly one handler, and events,
// which report something that already happened and fan out to any number of
// handlers.
package message

// Message is anything the bus can route.
type Message interface {
	MessageName() string
}

// Command requests a state change and may yield a result.
type Command interface {
	Message
	isCommand()
}

// Event is a fire-and-forget notification. Events never set the bus-level
// result.
type Event interface {
	Message
	isEvent()
}
