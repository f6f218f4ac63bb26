package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/validator"
)

// AccountService handles registration, profile updates and credential changes.
type AccountService struct {
	store  AccountStore
	hasher PasswordHasher
	log    zerolog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(store AccountStore, hasher PasswordHasher, log zerolog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		hasher: hasher,
		log:    log.With().Str("component", "account_service").Logger(),
	}
}

// Register validates reg, checks email and sapId uniqueness, then creates
// the account. The unique indexes remain the final guard against
// concurrent duplicates.
func (s *AccountService) Register(ctx context.Context, reg model.Registration) (*model.Account, error) {
	reg = reg.Normalize()
	if err := invalid(validator.Struct(reg)); err != nil {
		return nil, err
	}

	base := reg.Base()
	email := normalizeEmail(base.Email)

	taken, err := s.store.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if student, ok := reg.(model.StudentRegistration); ok {
		taken, err := s.store.SapIDTaken(ctx, student.SapID)
		if err != nil {
			return nil, fmt.Errorf("check sap id: %w", err)
		}
		if taken {
			return nil, ErrSapIDTaken
		}
	}

	hash, err := s.hasher.Hash(base.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		Name:         base.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         reg.Role(),
	}
	reg.Apply(account)
	account.ApplyFlags(model.DeriveFlags(account))

	if err := s.store.Create(ctx, account); err != nil {
		return nil, mapConflict(err)
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("role", string(account.Role)).
		Msg("Account registered")

	return account, nil
}

// GetByID returns an account or ErrAccountNotFound.
func (s *AccountService) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// UpdateProfile validates a sparse update, merges it onto the stored record,
// recomputes the derived flags and persists fields and flags in one write.
// It returns the re-read record. Concurrent updates to the same account
// are last-write-wins.
func (s *AccountService) UpdateProfile(ctx context.Context, id uuid.UUID, upd model.ProfileUpdate) (*model.Account, error) {
	upd.Normalize()
	if err := invalid(validator.Struct(upd)); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return current, nil
	}

	touched := upd.Merge(current)
	current.ApplyFlags(model.DeriveFlags(current))

	if err := s.store.UpdateProfile(ctx, current, touched); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ChangePassword replaces the password after verifying the current one.
func (s *AccountService) ChangePassword(ctx context.Context, id uuid.UUID, req model.ChangePasswordRequest) error {
	if err := invalid(validator.Struct(req)); err != nil {
		return err
	}

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(account.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	s.log.Info().Str("account_id", id.String()).Msg("Password changed")
	return nil
}

// ChangeEmail moves the account to a new email after verifying the password.
// Re-submitting the account's own email succeeds.
func (s *AccountService) ChangeEmail(ctx context.Context, id uuid.UUID, req model.ChangeEmailRequest) (*model.Account, error) {
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	account, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	email := normalizeEmail(req.NewEmail)
	taken, err := s.store.EmailTaken(ctx, email, id)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if err := s.store.UpdateEmail(ctx, id, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, mapConflict(err)
	}

	return s.GetByID(ctx, id)
}

// SearchMentors lists mentor-eligible accounts, at most MaxMentorPage per page.
func (s *AccountService) SearchMentors(ctx context.Context, f model.MentorFilter) ([]model.Account, *response.Pagination, error) {
	f.Page, f.Limit = clampPage(f.Page, f.Limit, MaxMentorPage)

	mentors, total, err := s.store.SearchMentors(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return mentors, newPagination(f.Page, f.Limit, total), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapConflict(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateSapID):
		return ErrSapIDTaken
	}
	return err
}
