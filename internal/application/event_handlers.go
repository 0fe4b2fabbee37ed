package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/message"
	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/mailer"
)

// WelcomeMailHandler reacts to UserCreated by queueing a welcome email job.
// The email worker consumes the queue and talks to the mail provider; this
// handler only publishes. Reads go through the view: by the time the event
// is dispatched the creating transaction has committed.
type WelcomeMailHandler struct {
	view   repository.View
	pub    JobPublisher
	logger *logrus.Logger
}

func NewWelcomeMailHandler(view repository.View, pub JobPublisher, logger *logrus.Logger) *WelcomeMailHandler {
	return &WelcomeMailHandler{view: view, pub: pub, logger: logger}
}

func (h *WelcomeMailHandler) Execute(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
	if h.pub == nil {
		return nil, nil
	}
	user, err := h.view.Users().Get(ctx, evt.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Deleted between commit and dispatch; nothing to send.
		return nil, nil
	}
	job := mailer.EmailJob{
		To:      user.Email,
		Subject: "Welcome",
		Text:    "Your account is ready.",
	}
	if err := h.pub.PublishJSON(ctx, job); err != nil {
		return nil, err
	}
	h.logger.WithField("user_id", user.ID).Debug("welcome mail queued")
	return nil, nil
}

// UserIndexHandler keeps the search index in step with the users collection.
// Index failures surface as handler failures and land in the failure log;
// the write path is unaffected because events dispatch after commit.
type UserIndexHandler struct {
	view   repository.View
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewUserIndexHandler(view repository.View, es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndexHandler {
	return &UserIndexHandler{view: view, es: es, index: index, logger: logger}
}

func (h *UserIndexHandler) HandleCreated(ctx context.Context, evt message.UserCreated) ([]message.Event, error) {
	return nil, h.indexUser(ctx, evt.ID)
}

func (h *UserIndexHandler) HandleUpdated(ctx context.Context, evt message.UserUpdated) ([]message.Event, error) {
	return nil, h.indexUser(ctx, evt.ID)
}

func (h *UserIndexHandler) HandleDeleted(ctx context.Context, evt message.UserDeleted) ([]message.Event, error) {
	if h.es == nil || h.index == "" {
		return nil, nil
	}
	req := esapi.DeleteRequest{Index: h.index, DocumentID: evt.ID}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, h.es)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	// 404 is fine: the document was never indexed.
	if res.IsError() && res.StatusCode != 404 {
		h.logger.WithField("status", res.Status()).WithField("user_id", evt.ID).Warn("es delete response error")
	}
	return nil, nil
}

func (h *UserIndexHandler) indexUser(ctx context.Context, id string) error {
	if h.es == nil || h.index == "" {
		return nil
	}
	user, err := h.view.Users().Get(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	doc := map[string]any{
		"id":          user.ID,
		"email":       user.Email,
		"phone":       user.Phone,
		"create_date": user.CreateDate.Format(time.RFC3339Nano),
	}
	if user.UpdateDate != nil {
		doc["update_date"] = user.UpdateDate.Format(time.RFC3339Nano)
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: h.index, DocumentID: user.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, h.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		h.logger.WithField("status", res.Status()).WithField("user_id", user.ID).Warn("es index response error")
	}
	return nil
}
