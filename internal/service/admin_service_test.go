package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/testutil"
	"github.com/alumnet/alumni-backend/internal/repository"
)

func newAdminFixture(t *testing.T) (*AdminService, *AccountService, *testutil.Accounts) {
	t.Helper()
	store := testutil.NewAccounts()
	return NewAdminService(store, testHasher, testLog), NewAccountService(store, testHasher, testLog), store
}

func TestAdminService_ChangeRole(t *testing.T) {
	admin, accounts, _ := newAdminFixture(t)
	ctx := context.Background()

	target, err := accounts.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	super := Identity{AccountID: uuid.New(), Role: model.RoleSuperAdmin}
	req := model.UpdateRoleRequest{Role: model.RoleAdmin, AdminCategory: strPtr(" Career Office ")}

	_, err = admin.ChangeRole(ctx, Identity{AccountID: uuid.New(), Role: model.RoleAdmin}, target.ID, req)
	assert.ErrorIs(t, err, ErrForbidden)

	promoted, err := admin.ChangeRole(ctx, super, target.ID, req)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, promoted.Role)
	require.NotNil(t, promoted.AdminCategory)
	assert.Equal(t, "Career Office", *promoted.AdminCategory)

	demoted, err := admin.ChangeRole(ctx, super, target.ID, model.UpdateRoleRequest{Role: model.RoleAlumni, AdminCategory: strPtr("ignored")})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAlumni, demoted.Role)
	assert.Nil(t, demoted.AdminCategory)

	_, err = admin.ChangeRole(ctx, super, uuid.New(), req)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = admin.ChangeRole(ctx, super, target.ID, model.UpdateRoleRequest{Role: "root"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestAdminService_ListAccounts(t *testing.T) {
	admin, accounts, _ := newAdminFixture(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, studentReg("s1@example.com", "11111"))
	require.NoError(t, err)
	_, err = accounts.Register(ctx, studentReg("s2@example.com", "22222"))
	require.NoError(t, err)
	_, err = accounts.Register(ctx, alumniReg("a1@example.com"))
	require.NoError(t, err)

	students, page, err := admin.ListAccounts(ctx, model.AccountFilter{Role: model.RoleStudent, PerPage: 1000})
	require.NoError(t, err)
	assert.Len(t, students, 2)
	assert.Equal(t, MaxAdminPage, page.PerPage)

	all, page, err := admin.ListAccounts(ctx, model.AccountFilter{PerPage: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 3, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)

	_, _, err = admin.ListAccounts(ctx, model.AccountFilter{Role: "guest"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestAdminService_CreateStaffAndPromote(t *testing.T) {
	admin, _, _ := newAdminFixture(t)
	ctx := context.Background()

	staff, err := admin.CreateStaff(ctx, model.CreateStaffRequest{
		Name: "Office Admin", Email: "Admin@Example.com", Password: "admin12345", Role: model.RoleAdmin, AdminCategory: "Alumni Relations",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", staff.Email)
	assert.Equal(t, model.RoleAdmin, staff.Role)

	_, err = admin.CreateStaff(ctx, model.CreateStaffRequest{
		Name: "Again", Email: "admin@example.com", Password: "admin12345", Role: model.RoleAdmin,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = admin.CreateStaff(ctx, model.CreateStaffRequest{
		Name: "  X ", Email: "x@example.com", Password: "admin12345", Role: model.RoleAdmin,
	})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")

	promoted, err := admin.PromoteToSuperAdmin(ctx, "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, promoted.Role)
	require.NotNil(t, promoted.AdminCategory)
	assert.Equal(t, "Alumni Relations", *promoted.AdminCategory)

	_, err = admin.PromoteToSuperAdmin(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAdminService_ExportAccounts(t *testing.T) {
	admin, accounts, _ := newAdminFixture(t)
	ctx := context.Background()

	_, err := accounts.Register(ctx, studentReg("s1@example.com", "11111"))
	require.NoError(t, err)
	_, err = accounts.Register(ctx, alumniReg("a1@example.com"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, admin.ExportAccounts(ctx, &buf, model.RoleStudent))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Email", rows[0][2])
	assert.Equal(t, "s1@example.com", rows[1][2])
	assert.Equal(t, "11111", rows[1][4])
	assert.Equal(t, "Fall 2022", rows[1][5])
}

func TestDashboardService_GetDashboardData(t *testing.T) {
	rdb, _ := newRedis(t)
	store := testutil.NewAccounts()
	accounts := NewAccountService(store, testHasher, testLog)
	requests := repository.NewMentorshipRepository(rdb)
	mentorship := NewMentorshipService(store, requests, nil, testLog)
	ctx := context.Background()

	student, err := accounts.Register(ctx, studentReg("s1@example.com", "11111"))
	require.NoError(t, err)
	mentor, err := accounts.Register(ctx, alumniReg("a1@example.com"))
	require.NoError(t, err)
	_, err = accounts.UpdateProfile(ctx, mentor.ID, model.ProfileUpdate{ExperienceYears: intPtr(8)})
	require.NoError(t, err)

	_, err = mentorship.CreateRequest(ctx, student.ID, model.CreateMentorshipRequest{
		MentorID: mentor.ID.String(), Topic: "Interview prep", SessionType: model.Session30m, PreferredDateTime: "2025-03-01",
	})
	require.NoError(t, err)

	stats, err := NewDashboardService(store, requests).GetDashboardData(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAccounts)
	assert.Equal(t, 1, stats.AccountsByRole[model.RoleStudent])
	assert.Equal(t, 1, stats.AccountsByRole[model.RoleAlumni])
	assert.Equal(t, 0, stats.AccountsByRole[model.RoleSuperAdmin])
	assert.Equal(t, 1, stats.EligibleMentors)
	assert.Equal(t, 1, stats.RequestsByStatus[model.StatusPending])
	require.Len(t, stats.RecentRegistration, 2)
	assert.Equal(t, mentor.ID, stats.RecentRegistration[0].ID)
}
