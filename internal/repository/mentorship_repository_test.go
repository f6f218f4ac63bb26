package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
)

func newMentorshipRepo(t *testing.T) (*MentorshipRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewMentorshipRepository(rdb), mr
}

func pendingRequest(student, mentor uuid.UUID) *model.MentorshipRequest {
	return &model.MentorshipRequest{
		StudentID:         student,
		MentorID:          mentor,
		Topic:             "Resume review",
		SessionType:       model.Session30m,
		PreferredDateTime: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Status:            model.StatusPending,
	}
}

func TestMentorshipRepository_CreateAndGet(t *testing.T) {
	repo, mr := newMentorshipRepo(t)
	ctx := context.Background()
	student, mentor := uuid.New(), uuid.New()

	req := pendingRequest(student, mentor)
	require.NoError(t, repo.Create(ctx, req))
	require.Len(t, req.ID, 26)

	got, err := repo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, mentor, got.MentorID)
	assert.True(t, req.PreferredDateTime.Equal(got.PreferredDateTime))

	for _, key := range []string{
		config.CacheKey.MentorshipStatusIndexKey("Pending"),
		config.CacheKey.MentorshipMentorIndexKey(mentor.String()),
		config.CacheKey.MentorshipStudentIndexKey(student.String()),
	} {
		members, err := mr.ZMembers(key)
		require.NoError(t, err, key)
		assert.Equal(t, []string{req.ID}, members, key)
	}
}

func TestMentorshipRepository_GetMissing(t *testing.T) {
	repo, _ := newMentorshipRepo(t)
	_, err := repo.Get(context.Background(), "01HZZZZZZZZZZZZZZZZZZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMentorshipRepository_Transition(t *testing.T) {
	repo, mr := newMentorshipRepo(t)
	ctx := context.Background()
	req := pendingRequest(uuid.New(), uuid.New())
	require.NoError(t, repo.Create(ctx, req))

	allowPending := func(r *model.MentorshipRequest) error {
		if r.Status != model.StatusPending {
			return errors.New("not pending")
		}
		return nil
	}

	updated, err := repo.Transition(ctx, req.ID, model.StatusAccepted, allowPending)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, updated.Status)

	pending, _ := mr.ZMembers(config.CacheKey.MentorshipStatusIndexKey("Pending"))
	assert.Empty(t, pending)
	accepted, err := mr.ZMembers(config.CacheKey.MentorshipStatusIndexKey("Accepted"))
	require.NoError(t, err)
	assert.Equal(t, []string{req.ID}, accepted)

	_, err = repo.Transition(ctx, req.ID, model.StatusCancelled, allowPending)
	assert.EqualError(t, err, "not pending")

	got, err := repo.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, got.Status, "guard failure writes nothing")
}

func TestMentorshipRepository_TransitionMissing(t *testing.T) {
	repo, _ := newMentorshipRepo(t)
	_, err := repo.Transition(context.Background(), "nope", model.StatusDeclined,
		func(*model.MentorshipRequest) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMentorshipRepository_ListByParticipant(t *testing.T) {
	repo, _ := newMentorshipRepo(t)
	ctx := context.Background()
	mentor := uuid.New()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		req := pendingRequest(uuid.New(), mentor)
		require.NoError(t, repo.Create(ctx, req))
		ids = append(ids, req.ID)
	}
	_, err := repo.Transition(ctx, ids[1], model.StatusDeclined, func(*model.MentorshipRequest) error { return nil })
	require.NoError(t, err)

	page, total, err := repo.ListByParticipant(ctx, mentor, true, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID, "newest first")
	assert.Equal(t, ids[3], page[1].ID)

	pending, total, err := repo.ListByParticipant(ctx, mentor, true, model.StatusPending, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, pending, 1)
	assert.Equal(t, ids[0], pending[0].ID)

	none, total, err := repo.ListByParticipant(ctx, mentor, false, "", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestMentorshipRepository_CountByStatus(t *testing.T) {
	repo, _ := newMentorshipRepo(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, pendingRequest(uuid.New(), uuid.New())))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[model.StatusPending])
	assert.Equal(t, 0, counts[model.StatusAccepted])
	assert.Len(t, counts, 4)
}
