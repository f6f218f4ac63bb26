package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/validator"
)

// MentorshipService handles mentorship request intake and status changes.
//
// The mentor reference lives in the account store while requests live in
// the document store. Eligibility is checked once, when the request is
// created; later changes to the mentor's profile do not affect existing
// requests.
type MentorshipService struct {
	accounts AccountStore
	requests MentorshipStore
	events   EventPublisher
	log      zerolog.Logger
}

// NewMentorshipService creates a new MentorshipService.
func NewMentorshipService(accounts AccountStore, requests MentorshipStore, events EventPublisher, log zerolog.Logger) *MentorshipService {
	return &MentorshipService{
		accounts: accounts,
		requests: requests,
		events:   events,
		log:      log.With().Str("component", "mentorship_service").Logger(),
	}
}

// CreateRequest validates the payload, resolves the mentor and stores a
// Pending request. A missing mentor and an ineligible one both yield
// ErrInvalidMentor. The student identity is taken from the session as is.
func (s *MentorshipService) CreateRequest(ctx context.Context, studentID uuid.UUID, in model.CreateMentorshipRequest) (*model.MentorshipRequest, error) {
	in.Normalize()
	if err := invalid(validator.Struct(in)); err != nil {
		return nil, err
	}
	preferred, err := model.ParseTimestamp(in.PreferredDateTime)
	if err != nil {
		return nil, invalid(map[string]string{"preferredDateTime": "preferredDateTime must be a valid ISO-8601 date or date-time"})
	}

	mentorID, err := uuid.Parse(in.MentorID)
	if err != nil {
		return nil, ErrInvalidMentor
	}
	mentor, err := s.accounts.GetByID(ctx, mentorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidMentor
		}
		return nil, fmt.Errorf("load mentor: %w", err)
	}
	if !mentor.MentorEligible {
		return nil, ErrInvalidMentor
	}

	req := &model.MentorshipRequest{
		StudentID:         studentID,
		MentorID:          mentor.ID,
		Topic:             in.Topic,
		SessionType:       in.SessionType,
		PreferredDateTime: preferred,
		Notes:             in.Notes,
		Status:            model.StatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("request_id", req.ID).
		Str("student_id", studentID.String()).
		Str("mentor_id", mentor.ID.String()).
		Msg("Mentorship request created")

	s.notify(ctx, mentor.ID, model.NotifyMentorshipRequested, req.ID,
		fmt.Sprintf("New mentorship request: %s (%s)", req.Topic, req.SessionType))

	return req, nil
}

// Get returns a request visible to caller: its mentor, its student or staff.
func (s *MentorshipService) Get(ctx context.Context, caller Identity, id string) (*model.MentorshipRequest, error) {
	req, err := s.requests.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.MentorID != caller.AccountID && req.StudentID != caller.AccountID && !caller.Role.IsStaff() {
		return nil, ErrNotParticipant
	}
	return req, nil
}

// List returns the caller's own requests, as mentor or as student.
func (s *MentorshipService) List(ctx context.Context, caller Identity, f model.MentorshipListFilter) ([]model.MentorshipRequest, *response.Pagination, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, nil, invalid(map[string]string{"status": "status must be one of Pending, Accepted, Declined, Cancelled"})
	}
	page, perPage := clampPage(f.Page, f.PerPage, MaxMentorPage)

	reqs, total, err := s.requests.ListByParticipant(ctx, caller.AccountID, f.AsMentor, f.Status, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	return reqs, newPagination(page, perPage, total), nil
}

// Accept moves a Pending request to Accepted. Only its mentor may accept.
func (s *MentorshipService) Accept(ctx context.Context, caller Identity, id string) (*model.MentorshipRequest, error) {
	return s.transition(ctx, caller, id, model.StatusAccepted)
}

// Decline moves a Pending request to Declined. Only its mentor may decline.
func (s *MentorshipService) Decline(ctx context.Context, caller Identity, id string) (*model.MentorshipRequest, error) {
	return s.transition(ctx, caller, id, model.StatusDeclined)
}

// Cancel moves a Pending request to Cancelled. Only its student may cancel.
func (s *MentorshipService) Cancel(ctx context.Context, caller Identity, id string) (*model.MentorshipRequest, error) {
	return s.transition(ctx, caller, id, model.StatusCancelled)
}

func (s *MentorshipService) transition(ctx context.Context, caller Identity, id string, to model.RequestStatus) (*model.MentorshipRequest, error) {
	guard := func(req *model.MentorshipRequest) error {
		actor := req.MentorID
		if to == model.StatusCancelled {
			actor = req.StudentID
		}
		if actor != caller.AccountID {
			return ErrNotParticipant
		}
		if req.Status.Terminal() {
			return ErrInvalidTransition
		}
		return nil
	}

	req, err := s.requests.Transition(ctx, id, to, guard)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	s.log.Info().
		Str("request_id", id).
		Str("status", string(to)).
		Str("actor_id", caller.AccountID.String()).
		Msg("Mentorship request updated")

	switch to {
	case model.StatusAccepted:
		s.notify(ctx, req.StudentID, model.NotifyMentorshipAccepted, id, "Your mentorship request was accepted: "+req.Topic)
	case model.StatusDeclined:
		s.notify(ctx, req.StudentID, model.NotifyMentorshipDeclined, id, "Your mentorship request was declined: "+req.Topic)
	case model.StatusCancelled:
		s.notify(ctx, req.MentorID, model.NotifyMentorshipCancelled, id, "A mentorship request was cancelled: "+req.Topic)
	}
	return req, nil
}

// notify enqueues a notification. Failures are logged and never fail the
// calling operation.
func (s *MentorshipService) notify(ctx context.Context, to uuid.UUID, kind model.NotificationKind, requestID, msg string) {
	if s.events == nil {
		return
	}
	err := s.events.Publish(ctx, model.NotificationEvent{
		AccountID:  to,
		Kind:       kind,
		RequestID:  requestID,
		Message:    msg,
		OccurredAt: time.Now().Unix(),
	})
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Str("kind", string(kind)).Msg("Failed to enqueue notification")
	}
}
