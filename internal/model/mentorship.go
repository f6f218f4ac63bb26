package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionType is the requested mentoring session length.
type SessionType string

const (
	Session30m SessionType = "30m"
	Session45m SessionType = "45m"
	Session60m SessionType = "60m"
)

// Valid reports whether t is a known session length.
func (t SessionType) Valid() bool {
	return t == Session30m || t == Session45m || t == Session60m
}

// RequestStatus is the lifecycle state of a MentorshipRequest.
type RequestStatus string

const (
	StatusPending   RequestStatus = "Pending"
	StatusAccepted  RequestStatus = "Accepted"
	StatusDeclined  RequestStatus = "Declined"
	StatusCancelled RequestStatus = "Cancelled"
)

// AllStatuses lists every request status.
var AllStatuses = []RequestStatus{StatusPending, StatusAccepted, StatusDeclined, StatusCancelled}

// Valid reports whether s is a known status.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s RequestStatus) Terminal() bool {
	return s != StatusPending
}

// MentorshipRequest is a student's request for a session with a mentor.
type MentorshipRequest struct {
	ID                string        `json:"id"`
	StudentID         uuid.UUID     `json:"studentId"`
	MentorID          uuid.UUID     `json:"mentorId"`
	Topic             string        `json:"topic"`
	SessionType       SessionType   `json:"sessionType"`
	PreferredDateTime time.Time     `json:"preferredDateTime"`
	Notes             string        `json:"notes,omitempty"`
	Status            RequestStatus `json:"status"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// CreateMentorshipRequest is the intake payload. MentorID is resolved
// against the account store after the shape checks pass.
type CreateMentorshipRequest struct {
	MentorID          string      `json:"mentorId" binding:"required,max=64"`
	Topic             string      `json:"topic" binding:"required,min=2,max=200"`
	SessionType       SessionType `json:"sessionType" binding:"required,sessiontype"`
	PreferredDateTime string      `json:"preferredDateTime" binding:"required,timestamp"`
	Notes             string      `json:"notes" binding:"max=1000"`
}

// Normalize trims surrounding whitespace from the text fields in place.
func (r *CreateMentorshipRequest) Normalize() {
	r.MentorID = strings.TrimSpace(r.MentorID)
	r.Topic = strings.TrimSpace(r.Topic)
	r.PreferredDateTime = strings.TrimSpace(r.PreferredDateTime)
	r.Notes = strings.TrimSpace(r.Notes)
}

// MentorshipListFilter narrows a participant's own request listing.
type MentorshipListFilter struct {
	AsMentor bool
	Status   RequestStatus
	Page     int
	PerPage  int
}

// timestampLayouts are the accepted preferredDateTime formats.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date-time. Values without
// an offset are read as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
