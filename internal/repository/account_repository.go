package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/alumnet/alumni-backend/internal/model"
)

var accountColumnList = []string{
	"id", "name", "email", "password_hash", "role",
	"sap_id", "batch_season", "batch_year", "grad_season", "grad_year", "linkedin_id",
	"program", "current_company", "position", "skills", "profile_headline", "location",
	"experience_years", "profile_picture", "admin_category",
	"mentor_eligible", "profile_completed", "created_at", "updated_at",
}

var accountColumns = strings.Join(accountColumnList, ", ")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// AccountRepository handles account persistence in PostgreSQL.
type AccountRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAccount(row pgx.Row) (*model.Account, error) {
	a := &model.Account{}
	err := row.Scan(
		&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.SapID, &a.BatchSeason, &a.BatchYear, &a.GradSeason, &a.GradYear, &a.LinkedinID,
		&a.Program, &a.CurrentCompany, &a.Position, &a.Skills, &a.ProfileHeadline, &a.Location,
		&a.ExperienceYears, &a.ProfilePicture, &a.AdminCategory,
		&a.MentorEligible, &a.ProfileCompleted, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts a new account and fills in its ID and timestamps.
// Unique index violations surface as ErrDuplicateEmail or ErrDuplicateSapID.
func (r *AccountRepository) Create(ctx context.Context, a *model.Account) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO accounts (name, email, password_hash, role, sap_id, batch_season, batch_year,
		                       grad_season, grad_year, linkedin_id, admin_category,
		                       mentor_eligible, profile_completed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		a.Name, a.Email, a.PasswordHash, string(a.Role), a.SapID, seasonText(a.BatchSeason), a.BatchYear,
		seasonText(a.GradSeason), a.GradYear, a.LinkedinID, a.AdminCategory,
		a.MentorEligible, a.ProfileCompleted,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if mapped, ok := uniqueViolation(err); ok {
			return mapped
		}
		return oops.In("account_repository").With("operation", "create account").Wrap(err)
	}
	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, oops.In("account_repository").With("operation", "get account").With("account_id", id.String()).Wrap(err)
	}
	return a, nil
}

// GetByEmail retrieves an account by email, ignoring case.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE LOWER(email) = LOWER($1)`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, oops.In("account_repository").With("operation", "get account by email").Wrap(err)
	}
	return a, nil
}

// EmailTaken reports whether another account than exclude owns email.
// Pass uuid.Nil to check against every account.
func (r *AccountRepository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE LOWER(email) = LOWER($1) AND id <> $2)`,
		email, exclude,
	).Scan(&taken)
	if err != nil {
		return false, oops.In("account_repository").With("operation", "check email").Wrap(err)
	}
	return taken, nil
}

// SapIDTaken reports whether any account already holds sapID.
func (r *AccountRepository) SapIDTaken(ctx context.Context, sapID string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE sap_id = $1)`, sapID,
	).Scan(&taken)
	if err != nil {
		return false, oops.In("account_repository").With("operation", "check sap id").Wrap(err)
	}
	return taken, nil
}

// UpdateProfile writes the given profile fields of a together with its
// derived flags in a single UPDATE.
func (r *AccountRepository) UpdateProfile(ctx context.Context, a *model.Account, fields []model.ProfileField) error {
	set := make(map[string]any, len(fields)+3)
	for _, f := range fields {
		set[string(f)] = profileValue(a, f)
	}
	set["mentor_eligible"] = a.MentorEligible
	set["profile_completed"] = a.ProfileCompleted
	set["updated_at"] = squirrel.Expr("NOW()")

	query, args, err := r.sb.Update("accounts").SetMap(set).Where(squirrel.Eq{"id": a.ID}).ToSql()
	if err != nil {
		return oops.In("account_repository").With("operation", "build profile update").Wrap(err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return oops.In("account_repository").With("operation", "update profile").With("account_id", a.ID.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return oops.In("account_repository").With("operation", "update password").With("account_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateEmail replaces the account email.
func (r *AccountRepository) UpdateEmail(ctx context.Context, id uuid.UUID, email string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET email = $1, updated_at = NOW() WHERE id = $2`, email, id)
	if err != nil {
		if mapped, ok := uniqueViolation(err); ok {
			return mapped
		}
		return oops.In("account_repository").With("operation", "update email").With("account_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole sets the role and admin category of an account.
func (r *AccountRepository) UpdateRole(ctx context.Context, id uuid.UUID, role model.Role, adminCategory *string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE accounts SET role = $1, admin_category = $2, updated_at = NOW() WHERE id = $3`,
		string(role), adminCategory, id)
	if err != nil {
		return oops.In("account_repository").With("operation", "update role").With("account_id", id.String()).Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of accounts, newest first, with the total count.
func (r *AccountRepository) List(ctx context.Context, f model.AccountFilter) ([]model.Account, int, error) {
	where := squirrel.And{}
	if f.Role != "" {
		where = append(where, squirrel.Eq{"role": string(f.Role)})
	}
	return r.page(ctx, where, "created_at DESC", f.Page, f.PerPage)
}

// SearchMentors returns a page of mentor-eligible accounts matching f.
func (r *AccountRepository) SearchMentors(ctx context.Context, f model.MentorFilter) ([]model.Account, int, error) {
	where := squirrel.And{squirrel.Eq{"mentor_eligible": true}}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := likePattern(q)
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": p},
			squirrel.ILike{"profile_headline": p},
			squirrel.ILike{"current_company": p},
			squirrel.ILike{"position": p},
			squirrel.ILike{"skills": p},
		})
	}
	if topic := strings.TrimSpace(f.Topic); topic != "" {
		p := likePattern(topic)
		where = append(where, squirrel.Or{
			squirrel.ILike{"skills": p},
			squirrel.ILike{"profile_headline": p},
		})
	}
	if f.BatchYear != 0 {
		where = append(where, squirrel.Or{
			squirrel.Eq{"batch_year": f.BatchYear},
			squirrel.Eq{"grad_year": f.BatchYear},
		})
	}
	return r.page(ctx, where, "experience_years DESC NULLS LAST, name ASC", f.Page, f.Limit)
}

func (r *AccountRepository) page(ctx context.Context, where squirrel.And, order string, page, perPage int) ([]model.Account, int, error) {
	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("accounts").Where(where).ToSql()
	if err != nil {
		return nil, 0, oops.In("account_repository").With("operation", "build count").Wrap(err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, oops.In("account_repository").With("operation", "count accounts").Wrap(err)
	}

	query, args, err := r.sb.Select(accountColumnList...).From("accounts").Where(where).
		OrderBy(order).
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, oops.In("account_repository").With("operation", "build list").Wrap(err)
	}

	accounts, err := r.collect(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// Recent returns the most recently registered accounts.
func (r *AccountRepository) Recent(ctx context.Context, limit int) ([]model.Account, error) {
	return r.collect(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC LIMIT $1`, limit)
}

// Each streams every account, optionally restricted to role, in creation order.
func (r *AccountRepository) Each(ctx context.Context, role model.Role, fn func(*model.Account) error) error {
	where := squirrel.And{}
	if role != "" {
		where = append(where, squirrel.Eq{"role": string(role)})
	}
	query, args, err := r.sb.Select(accountColumnList...).From("accounts").Where(where).OrderBy("created_at ASC").ToSql()
	if err != nil {
		return oops.In("account_repository").With("operation", "build export").Wrap(err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return oops.In("account_repository").With("operation", "export accounts").Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return oops.In("account_repository").With("operation", "scan account").Wrap(err)
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// RoleCounts holds per-role aggregates for the dashboard.
type RoleCounts struct {
	Role      model.Role
	Total     int
	Mentors   int
	Completed int
}

// CountByRole aggregates account totals, eligible mentors and completed
// profiles per role.
func (r *AccountRepository) CountByRole(ctx context.Context) ([]RoleCounts, error) {
	rows, err := r.db.Query(ctx,
		`SELECT role, COUNT(*),
		        COUNT(*) FILTER (WHERE mentor_eligible),
		        COUNT(*) FILTER (WHERE profile_completed)
		 FROM accounts GROUP BY role ORDER BY role`)
	if err != nil {
		return nil, oops.In("account_repository").With("operation", "count by role").Wrap(err)
	}
	defer rows.Close()

	var out []RoleCounts
	for rows.Next() {
		var rc RoleCounts
		var role string
		if err := rows.Scan(&role, &rc.Total, &rc.Mentors, &rc.Completed); err != nil {
			return nil, oops.In("account_repository").With("operation", "scan role count").Wrap(err)
		}
		rc.Role = model.Role(role)
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *AccountRepository) collect(ctx context.Context, query string, args ...any) ([]model.Account, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, oops.In("account_repository").With("operation", "list accounts").Wrap(err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, oops.In("account_repository").With("operation", "scan account").Wrap(err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.In("account_repository").With("operation", "iterate accounts").Wrap(err)
	}
	return accounts, nil
}

func profileValue(a *model.Account, f model.ProfileField) any {
	switch f {
	case model.FieldName:
		return a.Name
	case model.FieldProgram:
		return a.Program
	case model.FieldBatchSeason:
		return seasonText(a.BatchSeason)
	case model.FieldBatchYear:
		return a.BatchYear
	case model.FieldGradSeason:
		return seasonText(a.GradSeason)
	case model.FieldGradYear:
		return a.GradYear
	case model.FieldLinkedinID:
		return a.LinkedinID
	case model.FieldProfilePicture:
		return a.ProfilePicture
	case model.FieldCurrentCompany:
		return a.CurrentCompany
	case model.FieldPosition:
		return a.Position
	case model.FieldSkills:
		return a.Skills
	case model.FieldProfileHeadline:
		return a.ProfileHeadline
	case model.FieldLocation:
		return a.Location
	case model.FieldExperienceYears:
		return a.ExperienceYears
	}
	return nil
}

func seasonText(s *model.Season) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
