package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies an in-app notification.
type NotificationKind string

const (
	NotifyMentorshipRequested NotificationKind = "mentorship_requested"
	NotifyMentorshipAccepted  NotificationKind = "mentorship_accepted"
	NotifyMentorshipDeclined  NotificationKind = "mentorship_declined"
	NotifyMentorshipCancelled NotificationKind = "mentorship_cancelled"
)

// Notification is a persisted in-app notification.
type Notification struct {
	ID        int64            `json:"id"`
	AccountID uuid.UUID        `json:"accountId"`
	Kind      NotificationKind `json:"kind"`
	RequestID string           `json:"requestId,omitempty"`
	Message   string           `json:"message"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationEvent is the queue payload consumed by the notification worker.
type NotificationEvent struct {
	AccountID  uuid.UUID        `json:"accountId"`
	Kind       NotificationKind `json:"kind"`
	RequestID  string           `json:"requestId"`
	Message    string           `json:"message"`
	OccurredAt int64            `json:"occurredAt"`
	Attempts   int              `json:"attempts,omitempty"`
}
