package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
)

// maxTransitionAttempts bounds optimistic retries when a watched request
// document changes under a transition.
const maxTransitionAttempts = 5

// MentorshipRepository stores mentorship requests as JSON documents in Redis.
// Each document is indexed by status, mentor and student in sorted sets
// scored by creation time.
type MentorshipRepository struct {
	rdb *redis.Client
	now func() time.Time
}

// NewMentorshipRepository creates a new MentorshipRepository.
func NewMentorshipRepository(rdb *redis.Client) *MentorshipRepository {
	return &MentorshipRepository{rdb: rdb, now: time.Now}
}

// Create assigns an ID and timestamps to req and stores it with its indexes
// in one MULTI/EXEC.
func (r *MentorshipRepository) Create(ctx context.Context, req *model.MentorshipRequest) error {
	now := r.now().UTC()
	req.ID = ulid.Make().String()
	req.CreatedAt = now
	req.UpdatedAt = now

	data, err := json.Marshal(req)
	if err != nil {
		return oops.In("mentorship_repository").With("operation", "encode request").Wrap(err)
	}

	score := float64(now.UnixMilli())
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, config.CacheKey.MentorshipRequestKey(req.ID), data, 0)
		pipe.ZAdd(ctx, config.CacheKey.MentorshipStatusIndexKey(string(req.Status)), redis.Z{Score: score, Member: req.ID})
		pipe.ZAdd(ctx, config.CacheKey.MentorshipMentorIndexKey(req.MentorID.String()), redis.Z{Score: score, Member: req.ID})
		pipe.ZAdd(ctx, config.CacheKey.MentorshipStudentIndexKey(req.StudentID.String()), redis.Z{Score: score, Member: req.ID})
		return nil
	})
	if err != nil {
		return oops.In("mentorship_repository").With("operation", "create request").With("request_id", req.ID).Wrap(err)
	}
	return nil
}

// Get retrieves a request by ID.
func (r *MentorshipRepository) Get(ctx context.Context, id string) (*model.MentorshipRequest, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.MentorshipRequestKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, oops.In("mentorship_repository").With("operation", "get request").With("request_id", id).Wrap(err)
	}
	return decodeRequest(raw)
}

// Transition moves a request to status to. guard runs against the current
// document inside a WATCH; a non-nil guard error aborts without writing.
// The document and its status index are swapped in one transaction.
func (r *MentorshipRepository) Transition(
	ctx context.Context,
	id string,
	to model.RequestStatus,
	guard func(*model.MentorshipRequest) error,
) (*model.MentorshipRequest, error) {
	key := config.CacheKey.MentorshipRequestKey(id)
	var updated *model.MentorshipRequest

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}
		req, err := decodeRequest(raw)
		if err != nil {
			return err
		}
		if err := guard(req); err != nil {
			return err
		}

		from := req.Status
		req.Status = to
		req.UpdatedAt = r.now().UTC()
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZRem(ctx, config.CacheKey.MentorshipStatusIndexKey(string(from)), id)
			pipe.ZAdd(ctx, config.CacheKey.MentorshipStatusIndexKey(string(to)),
				redis.Z{Score: float64(req.CreatedAt.UnixMilli()), Member: id})
			return nil
		})
		if err == nil {
			updated = req
		}
		return err
	}

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		err := r.rdb.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, oops.In("mentorship_repository").
		With("operation", "transition request").
		With("request_id", id).
		Errorf("request changed concurrently %d times", maxTransitionAttempts)
}

// ListByParticipant returns a page of requests where participant is the
// mentor (asMentor) or the student, newest first. A non-empty status
// filters the participant's index before paging.
func (r *MentorshipRepository) ListByParticipant(
	ctx context.Context,
	participant uuid.UUID,
	asMentor bool,
	status model.RequestStatus,
	page, perPage int,
) ([]model.MentorshipRequest, int, error) {
	index := config.CacheKey.MentorshipStudentIndexKey(participant.String())
	if asMentor {
		index = config.CacheKey.MentorshipMentorIndexKey(participant.String())
	}
	start := int64((page - 1) * perPage)

	if status == "" {
		total, err := r.rdb.ZCard(ctx, index).Result()
		if err != nil {
			return nil, 0, oops.In("mentorship_repository").With("operation", "count requests").Wrap(err)
		}
		ids, err := r.rdb.ZRevRange(ctx, index, start, start+int64(perPage)-1).Result()
		if err != nil {
			return nil, 0, oops.In("mentorship_repository").With("operation", "range requests").Wrap(err)
		}
		reqs, err := r.load(ctx, ids)
		return reqs, int(total), err
	}

	ids, err := r.rdb.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, 0, oops.In("mentorship_repository").With("operation", "range requests").Wrap(err)
	}
	all, err := r.load(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	matched := make([]model.MentorshipRequest, 0, len(all))
	for _, req := range all {
		if req.Status == status {
			matched = append(matched, req)
		}
	}
	if start >= int64(len(matched)) {
		return []model.MentorshipRequest{}, len(matched), nil
	}
	end := min(start+int64(perPage), int64(len(matched)))
	return matched[start:end], len(matched), nil
}

// CountByStatus returns the number of requests in each status.
func (r *MentorshipRepository) CountByStatus(ctx context.Context) (map[model.RequestStatus]int, error) {
	cmds := make(map[model.RequestStatus]*redis.IntCmd, len(model.AllStatuses))
	_, err := r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, s := range model.AllStatuses {
			cmds[s] = pipe.ZCard(ctx, config.CacheKey.MentorshipStatusIndexKey(string(s)))
		}
		return nil
	})
	if err != nil {
		return nil, oops.In("mentorship_repository").With("operation", "count by status").Wrap(err)
	}

	out := make(map[model.RequestStatus]int, len(cmds))
	for s, cmd := range cmds {
		out[s] = int(cmd.Val())
	}
	return out, nil
}

func (r *MentorshipRepository) load(ctx context.Context, ids []string) ([]model.MentorshipRequest, error) {
	out := make([]model.MentorshipRequest, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = config.CacheKey.MentorshipRequestKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, oops.In("mentorship_repository").With("operation", "load requests").Wrap(err)
	}

	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue // index entry without a document
		}
		req, err := decodeRequest([]byte(s))
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, nil
}

func decodeRequest(raw []byte) (*model.MentorshipRequest, error) {
	var req model.MentorshipRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, oops.In("mentorship_repository").With("operation", "decode request").Wrap(err)
	}
	return &req, nil
}
