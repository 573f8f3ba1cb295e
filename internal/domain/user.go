package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserPlan enumerates billing plans.
type UserPlan string

const (
	UserPlanFree UserPlan = "free"
	UserPlanPro  UserPlan = "pro"
)

// ParsePlan maps a stored plan string onto a known plan. Unknown values are
// treated as free so a corrupted row never grants paid features.
func ParsePlan(s string) UserPlan {
	if UserPlan(s) == UserPlanPro {
		return UserPlanPro
	}
	return UserPlanFree
}

// User represents an account within the platform.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	GoogleSub    string
	Role         UserRole
	Plan         UserPlan
	CreatedAt    time.Time
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// EffectivePlan is the plan used for gating. Admins always resolve to pro.
func (u User) EffectivePlan() UserPlan {
	if u.IsAdmin() {
		return UserPlanPro
	}
	return ParsePlan(string(u.Plan))
}

// Unlimited reports whether daily quotas are skipped for the user.
func (u User) Unlimited() bool {
	return u.EffectivePlan() == UserPlanPro
}

// HasPassword reports whether the account can sign in with a password.
// Accounts created through Google have no local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != ""
}
