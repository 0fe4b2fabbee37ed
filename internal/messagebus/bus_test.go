package messagebus_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-cqrs-user-service/internal/messagebus"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newBus(reg *messagebus.Registry, store *memory.Store) *messagebus.Bus {
	return messagebus.New(reg, memory.NewUnitOfWorkFactory(store), testLogger())
}

func TestCommandReturnsResult(t *testing.T) {
	reg := messagebus.NewRegistry()
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (string, []message.Event, error) {
		return "created:" + cmd.Email, nil, nil
	})
	bus := newBus(reg, memory.NewStore())

	res, err := bus.Handle(context.Background(), message.CreateUser{Email: "a@example.com"})
	require.NoError(t, err)
	require.Equal(t, "created:a@example.com", res)
}

func TestDuplicateCommandRegistrationPanics(t *testing.T) {
	reg := messagebus.NewRegistry()
	handler := func(ctx context.Context, cmd message.CreateUser) (struct{}, []message.Event, error) {
		return struct{}{}, nil, nil
	}
	messagebus.RegisterCommand(reg, handler)
	require.Panics(t, func() { messagebus.RegisterCommand(reg, handler) })
}

func TestMissingCommandHandler(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	bus := newBus(messagebus.NewRegistry(), store)

	_, err := bus.Handle(ctx, message.CreateUser{Email: "a@example.com"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindHandlerNotFound, apperrors.KindOf(err))

	// The miss is audited.
	logs, lerr := memory.NewView(store).FailedMessages().GetAll(ctx, nil)
	require.NoError(t, lerr)
	require.Len(t, logs, 1)
	require.Equal(t, "CreateUser", logs[0].MessageName)
}

func TestEventWithoutHandlersIsFine(t *testing.T) {
	reg := messagebus.NewRegistry()
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (struct{}, []message.Event, error) {
		return struct{}{}, []message.Event{message.UserCreated{ID: "u1"}}, nil
	})
	bus := newBus(reg, memory.NewStore())

	_, err := bus.Handle(context.Background(), message.CreateUser{})
	require.NoError(t, err)
}

func TestEventsDoNotOverwriteCommandResult(t *testing.T) {
	reg := messagebus.NewRegistry()
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (string, []message.Event, error) {
		return "the result", []message.Event{message.UserCreated{ID: "u1"}}, nil
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return nil, nil
	})
	bus := newBus(reg, memory.NewStore())

	res, err := bus.Handle(context.Background(), message.CreateUser{})
	require.NoError(t, err)
	require.Equal(t, "the result", res)
}

func TestDepthFirstDispatch(t *testing.T) {
	var order []string
	reg := messagebus.NewRegistry()

	// The command fans out two events; the first one triggers a follow-up
	// that must fully run before the second sibling is touched.
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (struct{}, []message.Event, error) {
		return struct{}{}, []message.Event{
			message.UserCreated{ID: "u1"},
			message.UserDeleted{ID: "u1"},
		}, nil
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		order = append(order, "created")
		return []message.Event{message.UserUpdated{ID: evt.ID}}, nil
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserUpdated) ([]message.Event, error) {
		order = append(order, "updated")
		return nil, nil
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserDeleted) ([]message.Event, error) {
		order = append(order, "deleted")
		return nil, nil
	})

	bus := newBus(reg, memory.NewStore())
	_, err := bus.Handle(context.Background(), message.CreateUser{})
	require.NoError(t, err)
	require.Equal(t, []string{"created", "updated", "deleted"}, order)
}

func TestEventHandlersRunInRegistrationOrder(t *testing.T) {
	var order []string
	reg := messagebus.NewRegistry()
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		order = append(order, "first")
		return nil, nil
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		order = append(order, "second")
		return nil, nil
	})

	bus := newBus(reg, memory.NewStore())
	_, err := bus.Handle(context.Background(), message.UserCreated{ID: "u1"})
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestFailingEventHandlerDoesNotStopSiblings(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("index write failed")

	var sibling bool
	reg := messagebus.NewRegistry()
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return nil, boom
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		sibling = true
		return nil, nil
	})

	bus := newBus(reg, store)
	_, err := bus.Handle(ctx, message.UserCreated{ID: "u1"})
	require.ErrorIs(t, err, boom)
	require.True(t, sibling, "siblings run even after a failure")

	logs, lerr := memory.NewView(store).FailedMessages().GetAll(ctx, nil)
	require.NoError(t, lerr)
	require.Len(t, logs, 1)
	require.Equal(t, "UserCreated", logs[0].MessageName)
	require.Equal(t, "index write failed", logs[0].ErrorMessage)
}

func TestFailedCommandIsAuditedAndReRaised(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := apperrors.New(apperrors.KindDuplicateRecord, "duplicate user by email")

	reg := messagebus.NewRegistry()
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (struct{}, []message.Event, error) {
		return struct{}{}, nil, boom
	})

	bus := newBus(reg, store)
	_, err := bus.Handle(ctx, message.CreateUser{Email: "a@example.com"})
	require.ErrorIs(t, err, boom)

	logs, lerr := memory.NewView(store).FailedMessages().GetAll(ctx, nil)
	require.NoError(t, lerr)
	require.Len(t, logs, 1, "exactly one audit row per failure")
	require.Equal(t, "COMMAND", logs[0].MessageType)
	require.Equal(t, "CreateUser", logs[0].MessageName)
	require.Equal(t, "duplicate user by email", logs[0].ErrorMessage)
}

func TestMultipleFailuresEachAudited(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	reg := messagebus.NewRegistry()
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return nil, errors.New("first failure")
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return nil, errors.New("second failure")
	})

	bus := newBus(reg, store)
	_, err := bus.Handle(ctx, message.UserCreated{ID: "u1"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "first failure")
	require.Contains(t, err.Error(), "second failure")

	logs, lerr := memory.NewView(store).FailedMessages().GetAll(ctx, nil)
	require.NoError(t, lerr)
	require.Len(t, logs, 2)
}
