package model

import "strings"

// RegistrationEnvelope carries the discriminator that selects the
// registration variant.
type RegistrationEnvelope struct {
	Role Role `json:"role" binding:"required,oneof=student alumni"`
}

// RegistrationBase holds the fields shared by every registration variant.
type RegistrationBase struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128,passwd"`
}

// Registration is implemented by StudentRegistration and AlumniRegistration.
type Registration interface {
	Role() Role
	Base() RegistrationBase
	// Apply copies the role-specific attributes onto a new Account.
	Apply(a *Account)
	// Normalize returns a copy with surrounding whitespace removed from its
	// text fields. Length rules apply to the normalized copy.
	Normalize() Registration
}

func (b RegistrationBase) normalize() RegistrationBase {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	return b
}

// StudentRegistration is the student variant of a registration.
type StudentRegistration struct {
	RegistrationBase
	SapID       string `json:"sapId" binding:"required,sapid"`
	BatchSeason Season `json:"batchSeason" binding:"required,season"`
	BatchYear   int    `json:"batchYear" binding:"required,min=2010,max=2025"`
}

func (r StudentRegistration) Role() Role             { return RoleStudent }
func (r StudentRegistration) Base() RegistrationBase { return r.RegistrationBase }

func (r StudentRegistration) Normalize() Registration {
	r.RegistrationBase = r.RegistrationBase.normalize()
	r.SapID = strings.TrimSpace(r.SapID)
	return r
}

func (r StudentRegistration) Apply(a *Account) {
	sapID, season, year := r.SapID, r.BatchSeason, r.BatchYear
	a.SapID = &sapID
	a.BatchSeason = &season
	a.BatchYear = &year
}

// AlumniRegistration is the alumni variant of a registration.
type AlumniRegistration struct {
	RegistrationBase
	GradSeason Season `json:"gradSeason" binding:"required,season"`
	GradYear   int    `json:"gradYear" binding:"required,min=2010,max=2025"`
	LinkedinID string `json:"linkedinId" binding:"max=255"`
}

func (r AlumniRegistration) Role() Role             { return RoleAlumni }
func (r AlumniRegistration) Base() RegistrationBase { return r.RegistrationBase }

func (r AlumniRegistration) Normalize() Registration {
	r.RegistrationBase = r.RegistrationBase.normalize()
	r.LinkedinID = strings.TrimSpace(r.LinkedinID)
	return r
}

func (r AlumniRegistration) Apply(a *Account) {
	season, year := r.GradSeason, r.GradYear
	a.GradSeason = &season
	a.GradYear = &year
	if id := strings.TrimSpace(r.LinkedinID); id != "" {
		a.LinkedinID = &id
	}
}

// LoginRequest is the payload for credential authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// ChangePasswordRequest is the payload for a password change.
// The new password only needs six characters here, unlike registration.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,max=128"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=128"`
}

// ChangeEmailRequest is the payload for an email change.
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}
