package messagebus

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// Bus drains one top-level message and everything it transitively triggers,
// strictly sequentially. Every handler failure is written to the failure log
// through the bus's own fresh unit of work (never the failed handler's,
// whose transaction may be in any state) and the original error still
// reaches the caller: the log is an audit trail, not a suppression
// mechanism.
type Bus struct {
	registry *Registry
	newUoW   repository.UnitOfWorkFactory
	logger   *logrus.Logger
}

func New(registry *Registry, newUoW repository.UnitOfWorkFactory, logger *logrus.Logger) *Bus {
	return &Bus{registry: registry, newUoW: newUoW, logger: logger}
}

// Handle processes msg and all events it transitively produces, depth-first:
// events produced by a handler run to completion, follow-ups included,
// before anything queued earlier. The result is the return value of the last
// command processed; events never set it.
func (b *Bus) Handle(ctx context.Context, msg message.Message) (any, error) {
	queue := []message.Message{msg}
	var result any

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		switch m := next.(type) {
		case message.Command:
			res, produced, err := b.handleCommand(ctx, m)
			if err != nil {
				return nil, err
			}
			result = res
			queue = prepend(produced, queue)
		case message.Event:
			produced, err := b.handleEvent(ctx, m)
			if err != nil {
				return nil, err
			}
			queue = prepend(produced, queue)
		default:
			// A message that is neither command nor event cannot be
			// constructed outside this module; reaching here is a bug.
			return nil, apperrors.Newf(apperrors.KindInternal, "message %q is neither a command nor an event", next.MessageName())
		}
	}
	return result, nil
}

func (b *Bus) handleCommand(ctx context.Context, cmd message.Command) (any, []message.Event, error) {
	entry, ok := b.registry.commands[cmd.MessageName()]
	if !ok {
		err := apperrors.Newf(apperrors.KindHandlerNotFound, "no handler registered for command %q", cmd.MessageName())
		b.logFailure(ctx, entity.MessageTypeCommand, cmd.MessageName(), err)
		return nil, nil, err
	}
	res, produced, err := entry(ctx, cmd)
	if err != nil {
		b.logFailure(ctx, entity.MessageTypeCommand, cmd.MessageName(), err)
		return nil, nil, err
	}
	return res, produced, nil
}

// handleEvent fans the event out to every registered handler in
// registration order. A failing handler does not stop its siblings; each
// failure is logged individually and the joined error propagates once the
// full iteration finishes.
func (b *Bus) handleEvent(ctx context.Context, evt message.Event) ([]message.Event, error) {
	var produced []message.Event
	var errs []error
	for _, entry := range b.registry.events[evt.MessageName()] {
		out, err := entry(ctx, evt)
		if err != nil {
			b.logFailure(ctx, entity.MessageTypeEvent, evt.MessageName(), err)
			errs = append(errs, err)
			continue
		}
		produced = append(produced, out...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return produced, nil
}

// logFailure writes one audit row in its own transaction. A failing audit
// write must not mask the original error, so it is only logged.
func (b *Bus) logFailure(ctx context.Context, messageType, messageName string, cause error) {
	log := b.logger.WithFields(logrus.Fields{
		"message_type": messageType,
		"message_name": messageName,
	})
	log.WithError(cause).Error("message dispatch failed")

	uow := b.newUoW()
	if err := uow.Begin(ctx); err != nil {
		log.WithError(err).Warn("failure log unit of work begin failed")
		return
	}
	defer uow.Close(ctx)

	row := entity.NewFailedMessageLog(messageType, messageName, cause.Error())
	if err := uow.FailedMessages().Add(ctx, row); err != nil {
		log.WithError(err).Warn("failure log write failed")
		return
	}
	if err := uow.Commit(ctx); err != nil {
		log.WithError(err).Warn("failure log commit failed")
	}
}

// prepend puts freshly produced events, in production order, ahead of
// everything already pending. This is what makes the drain depth-first.
func prepend(events []message.Event, queue []message.Message) []message.Message {
	if len(events) == 0 {
		return queue
	}
	out := make([]message.Message, 0, len(events)+len(queue))
	for _, e := range events {
		out = append(out, e)
	}
	return append(out, queue...)
}
