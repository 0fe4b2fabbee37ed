package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

// Absent user and wrong password answer with the same message so a caller
// cannot probe which emails exist.
const badCredentials = "email or password is incorrect"

// LoginHandler exchanges credentials for an access and refresh token pair.
// When the stored hash uses an outdated cost it is re-hashed with the
// just-verified plaintext and persisted before the tokens are issued.
type LoginHandler struct {
	uow    repository.UnitOfWork
	hasher PasswordHasher
	jwt    *helpers.JWTManager
	logger *logrus.Logger
}

func NewLoginHandler(uow repository.UnitOfWork, hasher PasswordHasher, jwt *helpers.JWTManager, logger *logrus.Logger) *LoginHandler {
	return &LoginHandler{uow: uow, hasher: hasher, jwt: jwt, logger: logger}
}

func (h *LoginHandler) Execute(ctx context.Context, cmd message.LoginUser) (TokenPair, []message.Event, error) {
	if err := h.uow.Begin(ctx); err != nil {
		return TokenPair{}, nil, err
	}
	defer h.uow.Close(ctx)

	user, err := h.uow.Users().GetBy(ctx, repository.Filters{"email__eq": cmd.Email})
	if err != nil {
		return TokenPair{}, nil, err
	}
	if user == nil {
		return TokenPair{}, nil, apperrors.New(apperrors.KindUnauthorized, badCredentials)
	}
	if !h.hasher.Verify(user.Password, cmd.Password) {
		return TokenPair{}, nil, apperrors.New(apperrors.KindUnauthorized, badCredentials)
	}

	if h.hasher.NeedsRehash(user.Password) {
		hash, err := h.hasher.Hash(cmd.Password)
		if err != nil {
			return TokenPair{}, nil, err
		}
		user.Password = hash
		if err := h.uow.Users().Update(ctx, user); err != nil {
			return TokenPair{}, nil, err
		}
		if err := h.uow.Commit(ctx); err != nil {
			return TokenPair{}, nil, err
		}
		h.logger.WithField("user_id", user.ID).Debug("password hash upgraded")
	}

	access, _, err := h.jwt.GenerateAccessToken(user.ID, user.Email, user.Phone)
	if err != nil {
		return TokenPair{}, nil, err
	}
	refresh, _, err := h.jwt.GenerateRefreshToken(user.ID, user.Email, user.Phone)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, h.uow.Events(), nil
}

// RefreshHandler exchanges a refresh token for a new access token.
type RefreshHandler struct {
	uow    repository.UnitOfWork
	jwt    *helpers.JWTManager
	logger *logrus.Logger
}

func NewRefreshHandler(uow repository.UnitOfWork, jwt *helpers.JWTManager, logger *logrus.Logger) *RefreshHandler {
	return &RefreshHandler{uow: uow, jwt: jwt, logger: logger}
}

func (h *RefreshHandler) Execute(ctx context.Context, cmd message.RefreshToken) (AccessToken, []message.Event, error) {
	if err := h.uow.Begin(ctx); err != nil {
		return AccessToken{}, nil, err
	}
	defer h.uow.Close(ctx)

	if cmd.GrantType != "refresh_token" {
		return AccessToken{}, nil, apperrors.New(apperrors.KindForbidden, "incorrect grant type")
	}
	// Expired and malformed tokens both come back forbidden, with distinct
	// messages.
	claims, err := h.jwt.ParseRefreshToken(cmd.RefreshToken)
	if err != nil {
		return AccessToken{}, nil, err
	}

	user, err := h.uow.Users().Get(ctx, claims.Subject)
	if err != nil {
		return AccessToken{}, nil, err
	}
	if user == nil {
		return AccessToken{}, nil, apperrors.Newf(apperrors.KindForbidden, "user with %s not found", claims.Subject)
	}

	access, _, err := h.jwt.GenerateAccessToken(user.ID, user.Email, user.Phone)
	if err != nil {
		return AccessToken{}, nil, err
	}
	return AccessToken{AccessToken: access}, h.uow.Events(), nil
}
