package identity

import (
	"regexp"
	"strings"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Profile holds the fiscal details of the professional who owns the account
type Profile struct {
	NIF      string
	Address  string
	ZipCode  string
	City     string
	Province string
	Email    string
}

// User is an account allowed to operate the back office.
// PublicID is the identifier carried in session tokens.
type User struct {
	shared.BaseAggregateRoot
	PublicID     uuid.UUID
	Username     string
	PasswordHash string
	Profile      Profile
}

// NewUser creates a user with a hashed password
func NewUser(username, password string, profile Profile) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if profile.Email != "" {
		if err := validateEmail(profile.Email); err != nil {
			return nil, err
		}
		profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.Wrap(shared.CodeInvalidInput, "Failed to hash password", err)
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(uuid.Nil),
		PublicID:          uuid.New(),
		Username:          username,
		PasswordHash:      passwordHash,
		Profile:           profile,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username can only contain letters, numbers, underscores, hyphens and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password cannot be empty")
	}
	// bcrypt ignores anything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password cannot exceed 72 bytes")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
