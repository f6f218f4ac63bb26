package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/testutil"
)

func newAccountService() (*AccountService, *testutil.Accounts) {
	store := testutil.NewAccounts()
	return NewAccountService(store, testHasher, testLog), store
}

func TestAccountService_RegisterStudent(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, studentReg("  Sara@Example.com ", "12345"))
	require.NoError(t, err)

	assert.Equal(t, "sara@example.com", a.Email)
	assert.Equal(t, model.RoleStudent, a.Role)
	require.NotNil(t, a.SapID)
	assert.Equal(t, "12345", *a.SapID)
	assert.NotEqual(t, "secret123", a.PasswordHash)
	assert.True(t, testHasher.Verify(a.PasswordHash, "secret123"))
	assert.False(t, a.MentorEligible)
	assert.False(t, a.ProfileCompleted)
}

func TestAccountService_RegisterAlumni(t *testing.T) {
	svc, _ := newAccountService()

	reg := alumniReg("omar@example.com")
	reg.LinkedinID = "omar-farooq"
	a, err := svc.Register(context.Background(), reg)
	require.NoError(t, err)

	assert.Equal(t, model.RoleAlumni, a.Role)
	assert.Nil(t, a.SapID)
	require.NotNil(t, a.GradYear)
	assert.Equal(t, 2018, *a.GradYear)
	require.NotNil(t, a.LinkedinID)
	assert.Equal(t, "omar-farooq", *a.LinkedinID)
}

func TestAccountService_RegisterConflicts(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	_, err := svc.Register(ctx, studentReg("sara@example.com", "12345"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, alumniReg("SARA@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, studentReg("other@example.com", "12345"))
	assert.ErrorIs(t, err, ErrSapIDTaken)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	svc, store := newAccountService()

	reg := studentReg("sara@example.com", "1234")
	reg.Password = "short"
	_, err := svc.Register(context.Background(), reg)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "sapId")
	assert.Contains(t, ve.Fields, "password")
	assert.Zero(t, store.Len())
}

func TestAccountService_UpdateProfileRecomputesFlags(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ExperienceYears: intPtr(4)})
	require.NoError(t, err)
	assert.True(t, updated.MentorEligible)
	assert.False(t, updated.ProfileCompleted)

	season := model.SeasonFall
	updated, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{
		Program:         strPtr("BS Computer Science"),
		BatchSeason:     &season,
		BatchYear:       intPtr(2014),
		ProfileHeadline: strPtr("Backend engineer"),
		Skills:          strPtr("go, postgres"),
		Location:        strPtr("Lahore"),
	})
	require.NoError(t, err)
	assert.True(t, updated.ProfileCompleted)
	assert.True(t, updated.MentorEligible)

	updated, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ExperienceYears: intPtr(3), Location: strPtr("")})
	require.NoError(t, err)
	assert.False(t, updated.MentorEligible)
	assert.False(t, updated.ProfileCompleted)
	assert.Nil(t, updated.Location)
}

func TestAccountService_UpdateProfileRepeatedIsStable(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	for _, tc := range []struct {
		years    int
		eligible bool
	}{
		{4, true},
		{3, false},
	} {
		first, err := svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ExperienceYears: intPtr(tc.years)})
		require.NoError(t, err)
		second, err := svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ExperienceYears: intPtr(tc.years)})
		require.NoError(t, err)

		assert.Equal(t, tc.eligible, first.MentorEligible, "years=%d", tc.years)
		assert.Equal(t, first.MentorEligible, second.MentorEligible, "years=%d", tc.years)
		assert.Equal(t, first.ProfileCompleted, second.ProfileCompleted, "years=%d", tc.years)
	}
}

func TestAccountService_UpdateProfileEmptyIsNoop(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, a.UpdatedAt, got.UpdatedAt)
}

func TestAccountService_UpdateProfileRejectsInvalid(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{BatchYear: intPtr(2030)})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "batchYear")

	_, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ProfilePicture: strPtr("ftp://x")})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "profilePicture")
}

func TestAccountService_NameLengthCountsTrimmedText(t *testing.T) {
	svc, store := newAccountService()
	ctx := context.Background()

	reg := studentReg("sara@example.com", "12345")
	reg.Name = " A"
	_, err := svc.Register(ctx, reg)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Zero(t, store.Len())

	reg.Name = "  Sara Khan  "
	a, err := svc.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, "Sara Khan", a.Name)

	_, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{Name: strPtr("   ")})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")

	_, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{Name: strPtr(" B ")})
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")

	row, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sara Khan", row.Name)

	updated, err := svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{Name: strPtr("  Sara Malik ")})
	require.NoError(t, err)
	assert.Equal(t, "Sara Malik", updated.Name)
}

func TestAccountService_UpdateProfileUnknownAccount(t *testing.T) {
	svc, _ := newAccountService()
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), model.ProfileUpdate{Name: strPtr("Someone")})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestAccountService_ChangePassword(t *testing.T) {
	svc, store := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)

	before, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	originalHash := before.PasswordHash

	err = svc.ChangePassword(ctx, a.ID, model.ChangePasswordRequest{CurrentPassword: "wrong1234", NewPassword: "abcdef"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	row, err := store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, originalHash, row.PasswordHash)

	err = svc.ChangePassword(ctx, a.ID, model.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "abcde"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	row, err = store.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, originalHash, row.PasswordHash)

	require.NoError(t, svc.ChangePassword(ctx, a.ID, model.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "abcdef"}))
	row, _ = store.GetByID(ctx, a.ID)
	assert.NotEqual(t, originalHash, row.PasswordHash)
	assert.True(t, testHasher.Verify(row.PasswordHash, "abcdef"))
}

func TestAccountService_ChangeEmail(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	a, err := svc.Register(ctx, alumniReg("omar@example.com"))
	require.NoError(t, err)
	_, err = svc.Register(ctx, alumniReg("taken@example.com"))
	require.NoError(t, err)

	_, err = svc.ChangeEmail(ctx, a.ID, model.ChangeEmailRequest{NewEmail: "new@example.com", Password: "nope1234"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.ChangeEmail(ctx, a.ID, model.ChangeEmailRequest{NewEmail: "Taken@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	same, err := svc.ChangeEmail(ctx, a.ID, model.ChangeEmailRequest{NewEmail: "omar@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "omar@example.com", same.Email)

	moved, err := svc.ChangeEmail(ctx, a.ID, model.ChangeEmailRequest{NewEmail: "New@Example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", moved.Email)
}

func TestAccountService_SearchMentors(t *testing.T) {
	svc, _ := newAccountService()
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		a, err := svc.Register(ctx, alumniReg(email))
		require.NoError(t, err)
		if email != "c@example.com" {
			_, err = svc.UpdateProfile(ctx, a.ID, model.ProfileUpdate{ExperienceYears: intPtr(6)})
			require.NoError(t, err)
		}
	}

	mentors, page, err := svc.SearchMentors(ctx, model.MentorFilter{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, mentors, 2)
	assert.Equal(t, MaxMentorPage, page.PerPage)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, page.TotalPages)
	for _, m := range mentors {
		assert.True(t, m.MentorEligible)
	}
}
