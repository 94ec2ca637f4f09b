package domain

import "time"

// ActorRole identifies who triggers a shift transition.
type ActorRole string

const (
	ActorClient ActorRole = "client"
	ActorWorker ActorRole = "worker"
	ActorAdmin  ActorRole = "admin"
	ActorSystem ActorRole = "system"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Role      UserRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
