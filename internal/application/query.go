package application

import (
	"context"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/repository"
	"github.com/oksasatya/go-cqrs-user-service/pkg/apperrors"
)

// UserQueryService serves the read path over the view, outside any write
// transaction.
type UserQueryService struct {
	view repository.View
}

func NewUserQueryService(view repository.View) *UserQueryService {
	return &UserQueryService{view: view}
}

// GetOne returns the projection of one user or an item-not-found error.
func (s *UserQueryService) GetOne(ctx context.Context, id string) (UserOut, error) {
	user, err := s.view.Users().Get(ctx, id)
	if err != nil {
		return UserOut{}, err
	}
	if user == nil {
		return UserOut{}, apperrors.New(apperrors.KindItemNotFound, "item not found")
	}
	return NewUserOut(user), nil
}

// List returns one id-ordered page of users plus the totals the client needs
// to iterate every page.
func (s *UserQueryService) List(ctx context.Context, page, size int) (Page[UserOut], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	offset := (page - 1) * size

	users, err := s.view.Users().Paginate(ctx, nil, nil, offset, size)
	if err != nil {
		return Page[UserOut]{}, err
	}
	total, err := s.view.Users().Count(ctx, nil)
	if err != nil {
		return Page[UserOut]{}, err
	}

	items := make([]UserOut, 0, len(users))
	for _, u := range users {
		items = append(items, NewUserOut(u))
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return Page[UserOut]{Items: items, Total: total, Page: page, Size: size, Pages: pages}, nil
}

// ListFailures pages through the failure audit log, newest first.
func (s *UserQueryService) ListFailures(ctx context.Context, page, size int) (Page[FailureOut], error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	offset := (page - 1) * size
	ordering := []repository.Ordering{{Field: "create_date", Desc: true}}

	logs, err := s.view.FailedMessages().Paginate(ctx, nil, ordering, offset, size)
	if err != nil {
		return Page[FailureOut]{}, err
	}
	total, err := s.view.FailedMessages().Count(ctx, nil)
	if err != nil {
		return Page[FailureOut]{}, err
	}

	items := make([]FailureOut, 0, len(logs))
	for _, l := range logs {
		items = append(items, FailureOut{
			ID:           l.ID,
			MessageType:  l.MessageType,
			MessageName:  l.MessageName,
			ErrorMessage: l.ErrorMessage,
			CreateDate:   l.CreateDate,
		})
	}
	pages := int((total + int64(size) - 1) / int64(size))
	return Page[FailureOut]{Items: items, Total: total, Page: page, Size: size, Pages: pages}, nil
}
