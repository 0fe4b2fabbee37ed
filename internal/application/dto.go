package application

import (
	"time"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
)

// UserOut is the public projection of a user. The password hash never leaves
// the core.
type UserOut struct {
	ID         string     `json:"id"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	CreateDate time.Time  `json:"create_date"`
	UpdateDate *time.Time `json:"update_date,omitempty"`
}

func NewUserOut(u *entity.User) UserOut {
	return UserOut{
		ID:         u.ID,
		Phone:      u.Phone,
		Email:      u.Email,
		CreateDate: u.CreateDate,
		UpdateDate: u.UpdateDate,
	}
}

// TokenPair is the login result.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AccessToken is the refresh result.
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// FailureOut is the operator-facing projection of one failure log row.
type FailureOut struct {
	ID           string    `json:"id"`
	MessageType  string    `json:"message_type"`
	MessageName  string    `json:"message_name"`
	ErrorMessage string    `json:"error_message"`
	CreateDate   time.Time `json:"create_date"`
}

// Page is one page of a listing plus the pagination totals.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}
