package domain

import "time"

// UserRole is the marketplace side an account belongs to.
type UserRole string

const (
	UserRoleWorker    UserRole = "worker"
	UserRoleClient    UserRole = "client"
	UserRoleShiftLead UserRole = "shift_lead"
	UserRoleAdmin     UserRole = "admin"
	UserRoleSystem    UserRole = "system"
)

// ActorRole maps an account role to the role it acts with on shifts.
// Shift leads act as workers.
func (r UserRole) ActorRole() ActorRole {
	switch r {
	case UserRoleClient:
		return ActorClient
	case UserRoleAdmin:
		return ActorAdmin
	case UserRoleSystem:
		return ActorSystem
	default:
		return ActorWorker
	}
}

// Account is a login identity.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileFlags are moderation flags stored on worker and client profiles.
type ProfileFlags struct {
	IsBlocked    bool
	IsSuspicious bool
}

// SuspiciousUser is a flagged profile awaiting moderation.
type SuspiciousUser struct {
	UserID     string
	Name       string
	Role       UserRole
	IsBlocked  bool
	TrustScore int
	FlaggedAt  time.Time
}
