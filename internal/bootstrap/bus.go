// Package bootstrap assembles the routing table: every command and event
// type is bound to its handler factory here, once, at startup.
package bootstrap

import (
	"context"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/application"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/internal/messagebus"
	"github.com/oksasatya/go-cqrs-user-service/pkg/helpers"
)

// BusDeps carries everything the handlers need. Factories, not instances:
// every dispatch gets a fresh handler over a fresh unit of work, which is
// what scopes each message to its own transaction.
type BusDeps struct {
	NewUoW  repository.UnitOfWorkFactory
	NewView repository.ViewFactory
	Hasher  application.PasswordHasher
	JWT     *helpers.JWTManager
	Mail    application.JobPublisher
	ES      *elasticsearch.Client
	ESIndex string
	Logger  *logrus.Logger
}

func NewBus(d BusDeps) *messagebus.Bus {
	reg := messagebus.NewRegistry()

	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.CreateUser) (application.UserOut, []message.Event, error) {
		return application.NewCreateUserHandler(d.NewUoW(), d.Hasher, d.Logger).Execute(ctx, cmd)
	})
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.UpdateUser) (application.UserOut, []message.Event, error) {
		return application.NewUpdateUserHandler(d.NewUoW(), d.Logger).Execute(ctx, cmd)
	})
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.DeleteUser) (struct{}, []message.Event, error) {
		return application.NewDeleteUserHandler(d.NewUoW(), d.Logger).Execute(ctx, cmd)
	})
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.LoginUser) (application.TokenPair, []message.Event, error) {
		return application.NewLoginHandler(d.NewUoW(), d.Hasher, d.JWT, d.Logger).Execute(ctx, cmd)
	})
	messagebus.RegisterCommand(reg, func(ctx context.Context, cmd message.RefreshToken) (application.AccessToken, []message.Event, error) {
		return application.NewRefreshHandler(d.NewUoW(), d.JWT, d.Logger).Execute(ctx, cmd)
	})

	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return application.NewWelcomeMailHandler(d.NewView(), d.Mail, d.Logger).Execute(ctx, evt)
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
		return application.NewUserIndexHandler(d.NewView(), d.ES, d.ESIndex, d.Logger).HandleCreated(ctx, evt)
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserUpdated) ([]message.Event, error) {
		return application.NewUserIndexHandler(d.NewView(), d.ES, d.ESIndex, d.Logger).HandleUpdated(ctx, evt)
	})
	messagebus.RegisterEvent(reg, func(ctx context.Context, evt message.UserDeleted) ([]message.Event, error) {
		return application.NewUserIndexHandler(d.NewView(), d.ES, d.ESIndex, d.Logger).HandleDeleted(ctx, evt)
	})

	return messagebus.New(reg, d.NewUoW, d.Logger)
}
