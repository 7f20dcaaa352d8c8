package identity

import (
	"time"

	"github.com/facturator/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// SignupInput contains the input for creating an account
type SignupInput struct {
	Username string
	Password string
	NIF      string
	Address  string
	ZipCode  string
	City     string
	Province string
	Email    string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
}

// LoginResult contains the session token of a successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      UserInfo
}

// UserInfo contains the public view of a user
type UserInfo struct {
	PublicID uuid.UUID
	Username string
	NIF      string
	Email    string
}

func toUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		PublicID: u.PublicID,
		Username: u.Username,
		NIF:      u.Profile.NIF,
		Email:    u.Profile.Email,
	}
}
