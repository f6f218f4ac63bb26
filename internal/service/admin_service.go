package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/validator"
)

const exportSheet = "Accounts"

var exportHeader = []interface{}{
	"ID", "Name", "Email", "Role", "SAP ID", "Batch", "Graduation", "Program",
	"Company", "Position", "Location", "Experience (years)", "Mentor eligible",
	"Profile completed", "Admin category", "Registered at",
}

// AdminService handles account administration.
type AdminService struct {
	accounts AccountStore
	hasher   PasswordHasher
	log      zerolog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(accounts AccountStore, hasher PasswordHasher, log zerolog.Logger) *AdminService {
	return &AdminService{
		accounts: accounts,
		hasher:   hasher,
		log:      log.With().Str("component", "admin_service").Logger(),
	}
}

// ListAccounts returns a page of accounts, optionally filtered by role.
func (s *AdminService) ListAccounts(ctx context.Context, f model.AccountFilter) ([]model.Account, *response.Pagination, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, nil, invalid(map[string]string{"role": "role must be one of student, alumni, admin, super_admin"})
	}
	f.Page, f.PerPage = clampPage(f.Page, f.PerPage, MaxAdminPage)

	accounts, total, err := s.accounts.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return accounts, newPagination(f.Page, f.PerPage, total), nil
}

// ChangeRole sets the role and admin category of target. Only a
// super_admin may call it. The admin category is kept only for admin
// roles and cleared otherwise.
func (s *AdminService) ChangeRole(ctx context.Context, actor Identity, target uuid.UUID, req model.UpdateRoleRequest) (*model.Account, error) {
	if actor.Role != model.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	var category *string
	if req.Role.IsStaff() && req.AdminCategory != nil {
		if c := strings.TrimSpace(*req.AdminCategory); c != "" {
			category = &c
		}
	}

	if err := s.accounts.UpdateRole(ctx, target, req.Role, category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	s.log.Info().
		Str("actor_id", actor.AccountID.String()).
		Str("account_id", target.String()).
		Str("role", string(req.Role)).
		Msg("Account role changed")

	a, err := s.accounts.GetByID(ctx, target)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// CreateStaff creates an admin or super_admin account.
func (s *AdminService) CreateStaff(ctx context.Context, req model.CreateStaffRequest) (*model.Account, error) {
	req.Normalize()
	if err := invalid(validator.Struct(req)); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	taken, err := s.accounts.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &model.Account{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if c := req.AdminCategory; c != "" {
		a.AdminCategory = &c
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, mapConflict(err)
	}
	return a, nil
}

// PromoteToSuperAdmin grants super_admin to the account owning email,
// keeping its admin category.
func (s *AdminService) PromoteToSuperAdmin(ctx context.Context, email string) (*model.Account, error) {
	a, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if err := s.accounts.UpdateRole(ctx, a.ID, model.RoleSuperAdmin, a.AdminCategory); err != nil {
		return nil, err
	}
	a.Role = model.RoleSuperAdmin
	return a, nil
}

// ExportAccounts writes every account, optionally filtered by role, as an
// xlsx workbook to w.
func (s *AdminService) ExportAccounts(ctx context.Context, w io.Writer, role model.Role) error {
	if role != "" && !role.Valid() {
		return invalid(map[string]string{"role": "role must be one of student, alumni, admin, super_admin"})
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetRow("A1", exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	err = s.accounts.Each(ctx, role, func(a *model.Account) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return sw.SetRow(cell, exportRow(a))
	})
	if err != nil {
		return fmt.Errorf("write accounts: %w", err)
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	s.log.Info().Int("rows", row-2).Str("role", string(role)).Msg("Accounts exported")
	return nil
}

func exportRow(a *model.Account) []interface{} {
	return []interface{}{
		a.ID.String(), a.Name, a.Email, string(a.Role), deref(a.SapID),
		term(a.BatchSeason, a.BatchYear), term(a.GradSeason, a.GradYear), deref(a.Program),
		deref(a.CurrentCompany), deref(a.Position), deref(a.Location), derefInt(a.ExperienceYears),
		a.MentorEligible, a.ProfileCompleted, deref(a.AdminCategory), a.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}

func term(season *model.Season, year *int) string {
	if season == nil || year == nil {
		return ""
	}
	return fmt.Sprintf("%s %d", *season, *year)
}
