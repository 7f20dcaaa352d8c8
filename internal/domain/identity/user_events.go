package identity

import (
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeUser is the aggregate type name used by user events
const AggregateTypeUser = "User"

// EventTypeUserRegistered is published when an account signs up
const EventTypeUserRegistered = "UserRegistered"

// UserRegisteredEvent is published when a user signs up
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	PublicID uuid.UUID `json:"public_id"`
	Username string    `json:"username"`
}

// NewUserRegisteredEvent creates a new UserRegisteredEvent
func NewUserRegisteredEvent(user *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, user.ID),
		PublicID:        user.PublicID,
		Username:        user.Username,
	}
}
