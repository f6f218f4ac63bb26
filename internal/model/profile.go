package model

import "strings"

// ProfileField names a mutable profile column.
type ProfileField string

const (
	FieldName            ProfileField = "name"
	FieldProgram         ProfileField = "program"
	FieldBatchSeason     ProfileField = "batch_season"
	FieldBatchYear       ProfileField = "batch_year"
	FieldGradSeason      ProfileField = "grad_season"
	FieldGradYear        ProfileField = "grad_year"
	FieldLinkedinID      ProfileField = "linkedin_id"
	FieldProfilePicture  ProfileField = "profile_picture"
	FieldCurrentCompany  ProfileField = "current_company"
	FieldPosition        ProfileField = "position"
	FieldSkills          ProfileField = "skills"
	FieldProfileHeadline ProfileField = "profile_headline"
	FieldLocation        ProfileField = "location"
	FieldExperienceYears ProfileField = "experience_years"
)

// ProfileUpdate is a sparse profile mutation. Nil fields are left untouched.
// An empty string on an optional text field clears it.
type ProfileUpdate struct {
	Name            *string `json:"name" binding:"omitnil,min=2,max=100"`
	Program         *string `json:"program" binding:"omitnil,max=150"`
	BatchSeason     *Season `json:"batchSeason" binding:"omitnil,season"`
	BatchYear       *int    `json:"batchYear" binding:"omitnil,min=2010,max=2025"`
	GradSeason      *Season `json:"gradSeason" binding:"omitnil,season"`
	GradYear        *int    `json:"gradYear" binding:"omitnil,min=2010,max=2025"`
	LinkedinID      *string `json:"linkedinId" binding:"omitnil,max=255"`
	ProfilePicture  *string `json:"profilePicture" binding:"omitnil,max=2048,avatarurl"`
	CurrentCompany  *string `json:"currentCompany" binding:"omitnil,max=150"`
	Position        *string `json:"position" binding:"omitnil,max=150"`
	Skills          *string `json:"skills" binding:"omitnil,max=1000"`
	ProfileHeadline *string `json:"profileHeadline" binding:"omitnil,max=200"`
	Location        *string `json:"location" binding:"omitnil,max=150"`
	ExperienceYears *int    `json:"experienceYears" binding:"omitnil,min=0,max=60"`
}

// Empty reports whether u carries no field at all.
func (u *ProfileUpdate) Empty() bool {
	return u.Name == nil && u.Program == nil && u.BatchSeason == nil && u.BatchYear == nil &&
		u.GradSeason == nil && u.GradYear == nil && u.LinkedinID == nil && u.ProfilePicture == nil &&
		u.CurrentCompany == nil && u.Position == nil && u.Skills == nil &&
		u.ProfileHeadline == nil && u.Location == nil && u.ExperienceYears == nil
}

// Normalize trims surrounding whitespace from every text field in place,
// so a blank name fails its length rule instead of being stored empty.
func (u *ProfileUpdate) Normalize() {
	for _, f := range []*string{
		u.Name, u.Program, u.LinkedinID, u.ProfilePicture, u.CurrentCompany,
		u.Position, u.Skills, u.ProfileHeadline, u.Location,
	} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Merge applies u onto a and returns the fields it touched, in a stable order.
// Empty optional strings become nil.
func (u *ProfileUpdate) Merge(a *Account) []ProfileField {
	var touched []ProfileField

	if u.Name != nil {
		a.Name = strings.TrimSpace(*u.Name)
		touched = append(touched, FieldName)
	}
	mergeText := func(dst **string, src *string, f ProfileField) {
		if src == nil {
			return
		}
		*dst = normalize(*src)
		touched = append(touched, f)
	}
	mergeSeason := func(dst **Season, src *Season, f ProfileField) {
		if src == nil {
			return
		}
		if *src == "" {
			*dst = nil
		} else {
			s := *src
			*dst = &s
		}
		touched = append(touched, f)
	}
	mergeInt := func(dst **int, src *int, f ProfileField) {
		if src == nil {
			return
		}
		n := *src
		*dst = &n
		touched = append(touched, f)
	}

	mergeText(&a.Program, u.Program, FieldProgram)
	mergeSeason(&a.BatchSeason, u.BatchSeason, FieldBatchSeason)
	mergeInt(&a.BatchYear, u.BatchYear, FieldBatchYear)
	mergeSeason(&a.GradSeason, u.GradSeason, FieldGradSeason)
	mergeInt(&a.GradYear, u.GradYear, FieldGradYear)
	mergeText(&a.LinkedinID, u.LinkedinID, FieldLinkedinID)
	mergeText(&a.ProfilePicture, u.ProfilePicture, FieldProfilePicture)
	mergeText(&a.CurrentCompany, u.CurrentCompany, FieldCurrentCompany)
	mergeText(&a.Position, u.Position, FieldPosition)
	mergeText(&a.Skills, u.Skills, FieldSkills)
	mergeText(&a.ProfileHeadline, u.ProfileHeadline, FieldProfileHeadline)
	mergeText(&a.Location, u.Location, FieldLocation)
	mergeInt(&a.ExperienceYears, u.ExperienceYears, FieldExperienceYears)

	return touched
}

func normalize(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
