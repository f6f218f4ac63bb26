package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MentorExperienceYears is the experience threshold for mentor eligibility.
const MentorExperienceYears = 4

// Account is the persisted identity and profile record.
// Nil pointer fields are unset and stored as NULL.
type Account struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	SapID            *string   `json:"sapId,omitempty"`
	BatchSeason      *Season   `json:"batchSeason,omitempty"`
	BatchYear        *int      `json:"batchYear,omitempty"`
	GradSeason       *Season   `json:"gradSeason,omitempty"`
	GradYear         *int      `json:"gradYear,omitempty"`
	LinkedinID       *string   `json:"linkedinId,omitempty"`
	Program          *string   `json:"program,omitempty"`
	CurrentCompany   *string   `json:"currentCompany,omitempty"`
	Position         *string   `json:"position,omitempty"`
	Skills           *string   `json:"skills,omitempty"`
	ProfileHeadline  *string   `json:"profileHeadline,omitempty"`
	Location         *string   `json:"location,omitempty"`
	ExperienceYears  *int      `json:"experienceYears,omitempty"`
	ProfilePicture   *string   `json:"profilePicture,omitempty"`
	AdminCategory    *string   `json:"adminCategory,omitempty"`
	MentorEligible   bool      `json:"mentorEligible"`
	ProfileCompleted bool      `json:"profileCompleted"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AccountSummary is the public projection returned alongside a session.
type AccountSummary struct {
	ID             uuid.UUID `json:"id"`
	Role           Role      `json:"role"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profilePicture"`
}

// Summary returns the public projection of a.
func (a *Account) Summary() AccountSummary {
	return AccountSummary{
		ID:             a.ID,
		Role:           a.Role,
		Name:           a.Name,
		Email:          a.Email,
		ProfilePicture: a.ProfilePicture,
	}
}

// SkillList splits the comma-separated skills field.
func (a *Account) SkillList() []string {
	if a.Skills == nil {
		return nil
	}
	var out []string
	for _, s := range strings.Split(*a.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Flags holds the profile flags derived from an Account's source fields.
type Flags struct {
	MentorEligible   bool
	ProfileCompleted bool
}

// DeriveFlags computes mentor eligibility and profile completeness from a.
// It only reads a and never mutates it.
func DeriveFlags(a *Account) Flags {
	return Flags{
		MentorEligible: a.ExperienceYears != nil && *a.ExperienceYears >= MentorExperienceYears,
		ProfileCompleted: strings.TrimSpace(a.Name) != "" &&
			present(a.Program) &&
			a.BatchSeason != nil && *a.BatchSeason != "" &&
			a.BatchYear != nil && *a.BatchYear != 0 &&
			present(a.ProfileHeadline) &&
			present(a.Skills) &&
			present(a.Location),
	}
}

// ApplyFlags stores the derived flags on a.
func (a *Account) ApplyFlags(f Flags) {
	a.MentorEligible = f.MentorEligible
	a.ProfileCompleted = f.ProfileCompleted
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// AccountFilter narrows admin account listings.
type AccountFilter struct {
	Role    Role
	Page    int
	PerPage int
}

// MentorFilter narrows the mentor directory. Only mentor-eligible
// accounts are ever returned.
type MentorFilter struct {
	Query     string
	Topic     string
	BatchYear int
	Page      int
	Limit     int
}
