package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/alumnet/alumni-backend/internal/model"
)

// NotificationRepository handles notification persistence.
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification and fills in its ID and creation time.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO notifications (account_id, kind, request_id, message, created_at)
		 VALUES ($1, $2, $3, $4, COALESCE($5::timestamptz, NOW()))
		 RETURNING id, created_at`,
		n.AccountID, string(n.Kind), nullable(n.RequestID), n.Message, nullableTime(n),
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return oops.In("notification_repository").
			With("operation", "create notification").
			With("account_id", n.AccountID.String()).
			Wrap(err)
	}
	return nil
}

// ListByAccount returns an account's notifications, newest first.
func (r *NotificationRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]model.Notification, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE account_id = $1`, accountID,
	).Scan(&total); err != nil {
		return nil, 0, oops.In("notification_repository").With("operation", "count notifications").Wrap(err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, account_id, kind, COALESCE(request_id, ''), message, read_at, created_at
		 FROM notifications WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		accountID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, oops.In("notification_repository").With("operation", "list notifications").Wrap(err)
	}
	defer rows.Close()

	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var kind string
		if err := rows.Scan(&n.ID, &n.AccountID, &kind, &n.RequestID, &n.Message, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, 0, oops.In("notification_repository").With("operation", "scan notification").Wrap(err)
		}
		n.Kind = model.NotificationKind(kind)
		out = append(out, n)
	}
	return out, total, rows.Err()
}

// MarkRead marks a notification read if it belongs to accountID.
func (r *NotificationRepository) MarkRead(ctx context.Context, accountID uuid.UUID, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE notifications SET read_at = COALESCE(read_at, NOW())
		 WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		return oops.In("notification_repository").With("operation", "mark read").With("notification_id", id).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(n *model.Notification) any {
	if n.CreatedAt.IsZero() {
		return nil
	}
	return n.CreatedAt
}
