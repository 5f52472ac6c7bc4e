package identity

import (
	"github.com/vclothes/backend/internal/domain/shared"
)

// User event types
const (
	EventUserRegistered = "identity.user.registered"
)

// UserRegisteredEvent is published when a new account is created
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventUserRegistered, "User", u.ID),
		Email:           u.Email,
	}
}
