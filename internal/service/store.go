package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
)

// AccountStore is the account persistence the services depend on.
// *repository.AccountRepository implements it.
type AccountStore interface {
	Create(ctx context.Context, a *model.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	SapIDTaken(ctx context.Context, sapID string) (bool, error)
	UpdateProfile(ctx context.Context, a *model.Account, fields []model.ProfileField) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role, adminCategory *string) error
	List(ctx context.Context, f model.AccountFilter) ([]model.Account, int, error)
	SearchMentors(ctx context.Context, f model.MentorFilter) ([]model.Account, int, error)
	Recent(ctx context.Context, limit int) ([]model.Account, error)
	Each(ctx context.Context, role model.Role, fn func(*model.Account) error) error
	CountByRole(ctx context.Context) ([]repository.RoleCounts, error)
}

// MentorshipStore is the mentorship request persistence.
// *repository.MentorshipRepository implements it.
type MentorshipStore interface {
	Create(ctx context.Context, req *model.MentorshipRequest) error
	Get(ctx context.Context, id string) (*model.MentorshipRequest, error)
	Transition(ctx context.Context, id string, to model.RequestStatus, guard func(*model.MentorshipRequest) error) (*model.MentorshipRequest, error)
	ListByParticipant(ctx context.Context, participant uuid.UUID, asMentor bool, status model.RequestStatus, page, perPage int) ([]model.MentorshipRequest, int, error)
	CountByStatus(ctx context.Context) (map[model.RequestStatus]int, error)
}

// NotificationStore is the notification persistence.
type NotificationStore interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]model.Notification, int, error)
	MarkRead(ctx context.Context, accountID uuid.UUID, id int64) error
}

// EventPublisher enqueues notification events for asynchronous delivery.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.NotificationEvent) error
}

var (
	_ AccountStore      = (*repository.AccountRepository)(nil)
	_ MentorshipStore   = (*repository.MentorshipRepository)(nil)
	_ NotificationStore = (*repository.NotificationRepository)(nil)
)
