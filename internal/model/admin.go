package model

import "strings"

// UpdateRoleRequest is the super-admin payload for changing an account's
// role and admin category.
type UpdateRoleRequest struct {
	Role          Role    `json:"role" binding:"required,oneof=student alumni admin super_admin"`
	AdminCategory *string `json:"adminCategory" binding:"omitnil,max=100"`
}

// CreateStaffRequest is used by the operator CLI to create admin accounts.
type CreateStaffRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=100"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required,min=8,max=128,passwd"`
	Role          Role   `json:"role" binding:"required,oneof=admin super_admin"`
	AdminCategory string `json:"adminCategory" binding:"max=100"`
}

// Normalize trims surrounding whitespace from the text fields in place.
func (r *CreateStaffRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.AdminCategory = strings.TrimSpace(r.AdminCategory)
}

// DashboardStats aggregates platform counts for the admin dashboard.
type DashboardStats struct {
	AccountsByRole     map[Role]int          `json:"accountsByRole"`
	TotalAccounts      int                   `json:"totalAccounts"`
	EligibleMentors    int                   `json:"eligibleMentors"`
	CompletedProfiles  int                   `json:"completedProfiles"`
	RequestsByStatus   map[RequestStatus]int `json:"requestsByStatus"`
	RecentRegistration []AccountSummary      `json:"recentRegistrations"`
}
