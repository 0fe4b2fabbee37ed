// Package messagebus routes commands and events to their handlers: one
// handler per command, any number per event, one message at a time. The
// routing table is built once at startup from typed registrations, so a
// registered message can never miss at dispatch time.
package messagebus

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
)

// CommandHandlerFunc executes one command and returns its result plus the
// events it produced. Implementations build a fresh handler (and unit of
// work) per call; nothing is shared between dispatches.
type CommandHandlerFunc[C message.Command, R any] func(ctx context.Context, cmd C) (R, []message.Event, error)

// EventHandlerFunc executes one event and returns any follow-up events.
type EventHandlerFunc[E message.Event] func(ctx context.Context, evt E) ([]message.Event, error)

type commandEntry func(ctx context.Context, cmd message.Command) (any, []message.Event, error)

type eventEntry func(ctx context.Context, evt message.Event) ([]message.Event, error)

// Registry is the static routing table. Build it during startup; it is
// immutable (and therefore safe to share) once Handle starts running.
type Registry struct {
	commands map[string]commandEntry
	events   map[string][]eventEntry
}

func NewRegistry() *Registry {
	return &Registry{
		commands: map[string]commandEntry{},
		events:   map[string][]eventEntry{},
	}
}

// RegisterCommand binds command type C to its single handler. Registering
// the same command twice is a programming error and panics at startup.
func RegisterCommand[C message.Command, R any](r *Registry, handle CommandHandlerFunc[C, R]) {
	var zero C
	name := zero.MessageName()
	if _, dup := r.commands[name]; dup {
		panic(fmt.Sprintf("messagebus: command %q registered twice", name))
	}
	r.commands[name] = func(ctx context.Context, cmd message.Command) (any, []message.Event, error) {
		res, events, err := handle(ctx, cmd.(C))
		if err != nil {
			return nil, nil, err
		}
		return res, events, nil
	}
}

// RegisterEvent appends a handler for event type E. Handlers run in
// registration order; an event with no handlers simply fans out to nobody.
func RegisterEvent[E message.Event](r *Registry, handle EventHandlerFunc[E]) {
	var zero E
	name := zero.MessageName()
	r.events[name] = append(r.events[name], func(ctx context.Context, evt message.Event) ([]message.Event, error) {
		return handle(ctx, evt.(E))
	})
}
