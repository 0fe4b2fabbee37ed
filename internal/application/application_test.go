package application_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-cqrs-user-service/internal/application"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testHasher() *helpers.BcryptHasher {
	// MinCost keeps the bcrypt work factor out of the test runtime.
	return &helpers.BcryptHasher{Cost: 4}
}

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, time.Hour)
}

func createUser(t *testing.T, store *memory.Store, phone, email, password string) application.UserOut {
	t.Helper()
	h := application.NewCreateUserHandler(memory.NewUnitOfWork(store), testHasher(), testLogger())
	out, events, err := h.Execute(context.Background(), message.CreateUser{Phone: phone, Email: email, Password: password})
	require.NoError(t, err)
	require.Len(t, events, 1)
	return out
}

func TestCreateUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	h := application.NewCreateUserHandler(memory.NewUnitOfWork(store), testHasher(), testLogger())
	out, events, err := h.Execute(ctx, message.CreateUser{
		Phone:    "+6281000000001",
		Email:    "a@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.ID)
	require.Equal(t, "a@example.com", out.Email)
	require.False(t, out.CreateDate.IsZero())
	require.Nil(t, out.UpdateDate)
	require.Equal(t, []message.Event{message.UserCreated{ID: out.ID}}, events)

	stored, err := memory.NewView(store).Users().Get(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEqual(t, "password123", stored.Password, "plaintext must never be stored")
	require.True(t, testHasher().Verify(stored.Password, "password123"))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	createUser(t, store, "+6281000000001", "a@example.com", "password123")

	h := application.NewCreateUserHandler(memory.NewUnitOfWork(store), testHasher(), testLogger())
	_, _, err := h.Execute(context.Background(), message.CreateUser{
		Phone:    "+6281000000002",
		Email:    "a@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.KindDuplicateRecord, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "email")
}

func TestCreateUserDuplicatePhone(t *testing.T) {
	store := memory.NewStore()
	createUser(t, store, "+6281000000001", "a@example.com", "password123")

	h := application.NewCreateUserHandler(memory.NewUnitOfWork(store), testHasher(), testLogger())
	_, _, err := h.Execute(context.Background(), message.CreateUser{
		Phone:    "+6281000000001",
		Email:    "b@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	require.Equal(t, apperrors.KindDuplicateRecord, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "phone")
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	h := application.NewUpdateUserHandler(memory.NewUnitOfWork(store), testLogger())
	out, events, err := h.Execute(ctx, message.UpdateUser{ID: created.ID, Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, "new@example.com", out.Email)
	require.Equal(t, "+6281000000001", out.Phone, "omitted fields stay untouched")
	require.NotNil(t, out.UpdateDate, "update date is store-assigned and refreshed")
	require.Equal(t, []message.Event{message.UserUpdated{ID: created.ID}}, events)
}

func TestUpdateUserNotFound(t *testing.T) {
	h := application.NewUpdateUserHandler(memory.NewUnitOfWork(memory.NewStore()), testLogger())
	_, events, err := h.Execute(context.Background(), message.UpdateUser{ID: "ghost", Email: "x@example.com"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindItemNotFound, apperrors.KindOf(err))
	require.Empty(t, events, "a failed update emits nothing")
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	h := application.NewDeleteUserHandler(memory.NewUnitOfWork(store), testLogger())
	_, events, err := h.Execute(ctx, message.DeleteUser{ID: created.ID})
	require.NoError(t, err)
	require.Equal(t, []message.Event{message.UserDeleted{ID: created.ID}}, events)

	gone, err := memory.NewView(store).Users().Get(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, gone)
}

func TestDeleteUserAbsentIsNoOp(t *testing.T) {
	h := application.NewDeleteUserHandler(memory.NewUnitOfWork(memory.NewStore()), testLogger())
	_, _, err := h.Execute(context.Background(), message.DeleteUser{ID: "ghost"})
	require.NoError(t, err)
}

func TestLogin(t *testing.T) {
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	jwt := testJWT()
	h := application.NewLoginHandler(memory.NewUnitOfWork(store), testHasher(), jwt, testLogger())
	pair, _, err := h.Execute(context.Background(), message.LoginUser{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := jwt.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.Subject)
	require.Equal(t, "a@example.com", claims.Email)
}

func TestLoginBadCredentialsIndistinguishable(t *testing.T) {
	store := memory.NewStore()
	createUser(t, store, "+6281000000001", "a@example.com", "password123")

	h := application.NewLoginHandler(memory.NewUnitOfWork(store), testHasher(), testJWT(), testLogger())
	_, _, errWrongPassword := h.Execute(context.Background(), message.LoginUser{Email: "a@example.com", Password: "nope"})

	h = application.NewLoginHandler(memory.NewUnitOfWork(store), testHasher(), testJWT(), testLogger())
	_, _, errUnknownEmail := h.Execute(context.Background(), message.LoginUser{Email: "nobody@example.com", Password: "password123"})

	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownEmail)
	require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(errWrongPassword))
	require.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(errUnknownEmail))
	require.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error(),
		"absent user and wrong password must answer identically")
}

func TestLoginUpgradesOutdatedHash(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	before, err := memory.NewView(store).Users().Get(ctx, created.ID)
	require.NoError(t, err)

	// A hasher configured with a higher cost sees the stored hash as stale.
	strict := &helpers.BcryptHasher{Cost: 6}
	h := application.NewLoginHandler(memory.NewUnitOfWork(store), strict, testJWT(), testLogger())
	_, _, err = h.Execute(ctx, message.LoginUser{Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	after, err := memory.NewView(store).Users().Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotEqual(t, before.Password, after.Password)
	require.True(t, strict.Verify(after.Password, "password123"))
	require.False(t, strict.NeedsRehash(after.Password))
}

func TestRefreshWrongGrantType(t *testing.T) {
	h := application.NewRefreshHandler(memory.NewUnitOfWork(memory.NewStore()), testJWT(), testLogger())
	_, _, err := h.Execute(context.Background(), message.RefreshToken{RefreshToken: "whatever", GrantType: "password"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
	require.Contains(t, err.Error(), "incorrect grant type")
}

func TestRefreshExpiredVsInvalid(t *testing.T) {
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	expiredJWT := helpers.NewJWTManager("access-secret", "refresh-secret", time.Minute, -time.Minute)
	expired, _, err := expiredJWT.GenerateRefreshToken(created.ID, "a@example.com", "+6281000000001")
	require.NoError(t, err)

	h := application.NewRefreshHandler(memory.NewUnitOfWork(store), testJWT(), testLogger())
	_, _, errExpired := h.Execute(context.Background(), message.RefreshToken{RefreshToken: expired, GrantType: "refresh_token"})
	require.Error(t, errExpired)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(errExpired))
	require.Contains(t, errExpired.Error(), "refresh token expired")

	h = application.NewRefreshHandler(memory.NewUnitOfWork(store), testJWT(), testLogger())
	_, _, errInvalid := h.Execute(context.Background(), message.RefreshToken{RefreshToken: "garbage", GrantType: "refresh_token"})
	require.Error(t, errInvalid)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(errInvalid))
	require.Contains(t, errInvalid.Error(), "refresh token invalid")
}

func TestRefreshDeletedUser(t *testing.T) {
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	jwt := testJWT()
	refresh, _, err := jwt.GenerateRefreshToken(created.ID, "a@example.com", "+6281000000001")
	require.NoError(t, err)

	del := application.NewDeleteUserHandler(memory.NewUnitOfWork(store), testLogger())
	_, _, err = del.Execute(context.Background(), message.DeleteUser{ID: created.ID})
	require.NoError(t, err)

	h := application.NewRefreshHandler(memory.NewUnitOfWork(store), jwt, testLogger())
	_, _, err = h.Execute(context.Background(), message.RefreshToken{RefreshToken: refresh, GrantType: "refresh_token"})
	require.Error(t, err)
	require.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	store := memory.NewStore()
	created := createUser(t, store, "+6281000000001", "a@example.com", "password123")

	jwt := testJWT()
	refresh, _, err := jwt.GenerateRefreshToken(created.ID, "a@example.com", "+6281000000001")
	require.NoError(t, err)

	h := application.NewRefreshHandler(memory.NewUnitOfWork(store), jwt, testLogger())
	out, _, err := h.Execute(context.Background(), message.RefreshToken{RefreshToken: refresh, GrantType: "refresh_token"})
	require.NoError(t, err)

	claims, err := jwt.ParseAccessToken(out.AccessToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, claims.Subject)
}

func TestQueryGetOneNotFound(t *testing.T) {
	q := application.NewUserQueryService(memory.NewView(memory.NewStore()))
	_, err := q.GetOne(context.Background(), "ghost")
	require.Error(t, err)
	require.Equal(t, apperrors.KindItemNotFound, apperrors.KindOf(err))
}

func TestQueryListPagination(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	for i := 0; i < 7; i++ {
		createUser(t, store,
			fmt.Sprintf("+628100000000%d", i),
			fmt.Sprintf("user%d@example.com", i),
			"password123")
	}

	q := application.NewUserQueryService(memory.NewView(store))

	page, err := q.List(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.EqualValues(t, 7, page.Total)
	require.Equal(t, 3, page.Pages, "ceil(7/3)")

	last, err := q.List(ctx, 3, 3)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)

	empty, err := q.List(ctx, 4, 3)
	require.NoError(t, err)
	require.Empty(t, empty.Items)
	require.EqualValues(t, 7, empty.Total)
}
