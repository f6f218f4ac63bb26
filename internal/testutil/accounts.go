package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
)

// Accounts is an in-memory account store that enforces the same uniqueness
// rules as the Postgres repository.
type Accounts struct {
	mu   sync.Mutex
	rows map[uuid.UUID]model.Account
	seq  time.Time
}

// NewAccounts creates an empty store.
func NewAccounts() *Accounts {
	return &Accounts{
		rows: make(map[uuid.UUID]model.Account),
		seq:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *Accounts) Create(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if strings.EqualFold(row.Email, a.Email) {
			return repository.ErrDuplicateEmail
		}
		if a.SapID != nil && row.SapID != nil && *row.SapID == *a.SapID {
			return repository.ErrDuplicateSapID
		}
	}
	a.ID = uuid.New()
	m.seq = m.seq.Add(time.Minute)
	a.CreatedAt, a.UpdatedAt = m.seq, m.seq
	m.rows[a.ID] = *a
	return nil
}

func (m *Accounts) GetByID(_ context.Context, id uuid.UUID) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (m *Accounts) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if strings.EqualFold(row.Email, email) {
			return &row, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Accounts) EmailTaken(_ context.Context, email string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		if id != exclude && strings.EqualFold(row.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Accounts) SapIDTaken(_ context.Context, sapID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.SapID != nil && *row.SapID == sapID {
			return true, nil
		}
	}
	return false, nil
}

func (m *Accounts) UpdateProfile(_ context.Context, a *model.Account, _ []model.ProfileField) error {
	return m.update(a.ID, func(row *model.Account) {
		email, hash, role, created := row.Email, row.PasswordHash, row.Role, row.CreatedAt
		*row = *a
		row.Email, row.PasswordHash, row.Role, row.CreatedAt = email, hash, role, created
	})
}

func (m *Accounts) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return m.update(id, func(row *model.Account) { row.PasswordHash = hash })
}

func (m *Accounts) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	return m.update(id, func(row *model.Account) { row.Email = email })
}

func (m *Accounts) UpdateRole(_ context.Context, id uuid.UUID, role model.Role, adminCategory *string) error {
	return m.update(id, func(row *model.Account) {
		row.Role = role
		row.AdminCategory = adminCategory
	})
}

func (m *Accounts) update(id uuid.UUID, fn func(*model.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&row)
	m.seq = m.seq.Add(time.Minute)
	row.UpdatedAt = m.seq
	m.rows[id] = row
	return nil
}

func (m *Accounts) sorted(keep func(*model.Account) bool) []model.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Account, 0, len(m.rows))
	for _, row := range m.rows {
		if keep(&row) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func paginate(rows []model.Account, page, perPage int) ([]model.Account, int) {
	total := len(rows)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return rows[start:end], total
}

func (m *Accounts) List(_ context.Context, f model.AccountFilter) ([]model.Account, int, error) {
	rows := m.sorted(func(a *model.Account) bool { return f.Role == "" || a.Role == f.Role })
	page, total := paginate(rows, f.Page, f.PerPage)
	return page, total, nil
}

func (m *Accounts) SearchMentors(_ context.Context, f model.MentorFilter) ([]model.Account, int, error) {
	q := strings.ToLower(f.Query)
	rows := m.sorted(func(a *model.Account) bool {
		return a.MentorEligible && (q == "" || strings.Contains(strings.ToLower(a.Name), q))
	})
	page, total := paginate(rows, f.Page, f.Limit)
	return page, total, nil
}

func (m *Accounts) Recent(_ context.Context, limit int) ([]model.Account, error) {
	rows := m.sorted(func(*model.Account) bool { return true })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *Accounts) Each(_ context.Context, role model.Role, fn func(*model.Account) error) error {
	for _, row := range m.sorted(func(a *model.Account) bool { return role == "" || a.Role == role }) {
		if err := fn(&row); err != nil {
			return err
		}
	}
	return nil
}

func (m *Accounts) CountByRole(_ context.Context) ([]repository.RoleCounts, error) {
	byRole := make(map[model.Role]*repository.RoleCounts)
	for _, row := range m.sorted(func(*model.Account) bool { return true }) {
		c, ok := byRole[row.Role]
		if !ok {
			c = &repository.RoleCounts{Role: row.Role}
			byRole[row.Role] = c
		}
		c.Total++
		if row.MentorEligible {
			c.Mentors++
		}
		if row.ProfileCompleted {
			c.Completed++
		}
	}
	out := make([]repository.RoleCounts, 0, len(byRole))
	for _, c := range byRole {
		out = append(out, *c)
	}
	return out, nil
}

// Len returns the number of stored accounts.
func (m *Accounts) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
