package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// CreateUserHandler registers a new user. Uniqueness of email and phone is a
// pre-check inside the same unit of work, not a database constraint, so two
// concurrent creates for the same email can still race past it; the unique
// indexes in the schema are the backstop.
type CreateUserHandler struct {
	uow    repository.UnitOfWork
	hasher PasswordHasher
	logger *logrus.Logger
}

func NewCreateUserHandler(uow repository.UnitOfWork, hasher PasswordHasher, logger *logrus.Logger) *CreateUserHandler {
	return &CreateUserHandler{uow: uow, hasher: hasher, logger: logger}
}

func (h *CreateUserHandler) Execute(ctx context.Context, cmd message.CreateUser) (UserOut, []message.Event, error) {
	if err := h.uow.Begin(ctx); err != nil {
		return UserOut{}, nil, err
	}
	defer h.uow.Close(ctx)

	byEmail, err := h.uow.Users().GetBy(ctx, repository.Filters{"email__eq": cmd.Email})
	if err != nil {
		return UserOut{}, nil, err
	}
	if byEmail != nil {
		return UserOut{}, nil, apperrors.New(apperrors.KindDuplicateRecord, "duplicate user by email")
	}
	byPhone, err := h.uow.Users().GetBy(ctx, repository.Filters{"phone__eq": cmd.Phone})
	if err != nil {
		return UserOut{}, nil, err
	}
	if byPhone != nil {
		return UserOut{}, nil, apperrors.New(apperrors.KindDuplicateRecord, "duplicate user by phone")
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return UserOut{}, nil, err
	}
	user := entity.NewUser(cmd.Phone, cmd.Email, hash)
	if err := h.uow.Users().Add(ctx, user); err != nil {
		return UserOut{}, nil, err
	}
	if err := h.uow.Commit(ctx); err != nil {
		return UserOut{}, nil, err
	}

	h.uow.RecordEvent(message.UserCreated{ID: user.ID})
	h.logger.WithField("user_id", user.ID).Info("user created")
	return NewUserOut(user), h.uow.Events(), nil
}

// UpdateUserHandler changes the contact fields of an existing user.
type UpdateUserHandler struct {
	uow    repository.UnitOfWork
	logger *logrus.Logger
}

func NewUpdateUserHandler(uow repository.UnitOfWork, logger *logrus.Logger) *UpdateUserHandler {
	return &UpdateUserHandler{uow: uow, logger: logger}
}

func (h *UpdateUserHandler) Execute(ctx context.Context, cmd message.UpdateUser) (UserOut, []message.Event, error) {
	if err := h.uow.Begin(ctx); err != nil {
		return UserOut{}, nil, err
	}
	defer h.uow.Close(ctx)

	user, err := h.uow.Users().Get(ctx, cmd.ID)
	if err != nil {
		return UserOut{}, nil, err
	}
	if user == nil {
		return UserOut{}, nil, apperrors.New(apperrors.KindItemNotFound, "item not found")
	}

	changes := map[string]any{}
	if cmd.Email != "" {
		changes["email"] = cmd.Email
	}
	if cmd.Phone != "" {
		changes["phone"] = cmd.Phone
	}
	user.ApplyUpdate(changes)
	if err := h.uow.Users().Update(ctx, user); err != nil {
		return UserOut{}, nil, err
	}
	if err := h.uow.Commit(ctx); err != nil {
		return UserOut{}, nil, err
	}
	// update_date is store-assigned; pull it back before projecting.
	if err := h.uow.Users().Refresh(ctx, user); err != nil {
		return UserOut{}, nil, err
	}

	h.uow.RecordEvent(message.UserUpdated{ID: user.ID})
	h.logger.WithField("user_id", user.ID).Info("user updated")
	return NewUserOut(user), h.uow.Events(), nil
}

// DeleteUserHandler removes a user physically. Deleting an absent id is a
// no-op, not an error.
type DeleteUserHandler struct {
	uow    repository.UnitOfWork
	logger *logrus.Logger
}

func NewDeleteUserHandler(uow repository.UnitOfWork, logger *logrus.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{uow: uow, logger: logger}
}

func (h *DeleteUserHandler) Execute(ctx context.Context, cmd message.DeleteUser) (struct{}, []message.Event, error) {
	if err := h.uow.Begin(ctx); err != nil {
		return struct{}{}, nil, err
	}
	defer h.uow.Close(ctx)

	if err := h.uow.Users().Remove(ctx, cmd.ID); err != nil {
		return struct{}{}, nil, err
	}
	if err := h.uow.Commit(ctx); err != nil {
		return struct{}{}, nil, err
	}

	h.uow.RecordEvent(message.UserDeleted{ID: cmd.ID})
	h.logger.WithField("user_id", cmd.ID).Info("user deleted")
	return struct{}{}, h.uow.Events(), nil
}
