package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-cqrs-user-service/internal/domain/entity"
)

var userMapping = &mapping[entity.User]{
	table:      "users",
	selectCols: "id, create_date, update_date, phone, email, password",
	fields: map[string]string{
		"id":          "id",
		"phone":       "phone",
		"email":       "email",
		"password":    "password",
		"create_date": "create_date",
		"update_date": "update_date",
	},
	id: func(u *entity.User) string { return u.ID },
	insert: func(ctx context.Context, db querier, u *entity.User) error {
		// create_date is server-assigned on insert.
		return db.QueryRow(ctx, `
			INSERT INTO users (id, phone, email, password)
			VALUES ($1, $2, $3, $4)
			RETURNING create_date
		`, u.ID, u.Phone, u.Email, u.Password).Scan(&u.CreateDate)
	},
	update: func(ctx context.Context, db querier, u *entity.User) error {
		return db.QueryRow(ctx, `
			UPDATE users
			SET phone = $2, email = $3, password = $4, update_date = now()
			WHERE id = $1
			RETURNING update_date
		`, u.ID, u.Phone, u.Email, u.Password).Scan(&u.UpdateDate)
	},
	scan: func(row pgx.Row) (*entity.User, error) {
		u := &entity.User{}
		if err := row.Scan(&u.ID, &u.CreateDate, &u.UpdateDate, &u.Phone, &u.Email, &u.Password); err != nil {
			return nil, err
		}
		return u, nil
	},
}

var failedMessageLogMapping = &mapping[entity.FailedMessageLog]{
	table:      "failed_message_logs",
	selectCols: "id, create_date, update_date, message_type, message_name, error_message",
	fields: map[string]string{
		"id":            "id",
		"message_type":  "message_type",
		"message_name":  "message_name",
		"error_message": "error_message",
		"create_date":   "create_date",
		"update_date":   "update_date",
	},
	id: func(l *entity.FailedMessageLog) string { return l.ID },
	insert: func(ctx context.Context, db querier, l *entity.FailedMessageLog) error {
		return db.QueryRow(ctx, `
			INSERT INTO failed_message_logs (id, message_type, message_name, error_message)
			VALUES ($1, $2, $3, $4)
			RETURNING create_date
		`, l.ID, l.MessageType, l.MessageName, l.ErrorMessage).Scan(&l.CreateDate)
	},
	update: func(ctx context.Context, db querier, l *entity.FailedMessageLog) error {
		return db.QueryRow(ctx, `
			UPDATE failed_message_logs
			SET message_type = $2, message_name = $3, error_message = $4, update_date = now()
			WHERE id = $1
			RETURNING update_date
		`, l.ID, l.MessageType, l.MessageName, l.ErrorMessage).Scan(&l.UpdateDate)
	},
	scan: func(row pgx.Row) (*entity.FailedMessageLog, error) {
		l := &entity.FailedMessageLog{}
		if err := row.Scan(&l.ID, &l.CreateDate, &l.UpdateDate, &l.MessageType, &l.MessageName, &l.ErrorMessage); err != nil {
			return nil, err
		}
		return l, nil
	},
}
