package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facturator/backend/internal/domain/identity"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid username or password")

// AuthService handles signup, login and session validation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service. events may be nil.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// Signup creates an account. A taken username fails with ALREADY_EXISTS.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Username is already registered")
	}

	user, err := identity.NewUser(input.Username, input.Password, identity.Profile{
		NIF:      input.NIF,
		Address:  input.Address,
		ZipCode:  input.ZipCode,
		City:     input.City,
		Province: input.Province,
		Email:    input.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, user.GetDomainEvents()...); err != nil {
			s.logger.Warn("Failed to publish user events", zap.Error(err))
		}
	}
	user.ClearDomainEvents()

	s.logger.Info("User signed up",
		zap.String("username", user.Username),
		zap.String("public_id", user.PublicID.String()))

	info := toUserInfo(user)
	return &info, nil
}

// Login verifies the credentials and issues a session token.
// Unknown users and wrong passwords fail alike with UNAUTHORIZED.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("username", input.Username))
		return nil, errInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.PublicID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("username", user.Username))

	return &LoginResult{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      toUserInfo(user),
	}, nil
}

// Logout revokes tokenString until it would have expired.
// Tokens that no longer validate need no revocation.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingTTL(s.now())); err != nil {
		return err
	}
	s.logger.Info("User logged out", zap.String("username", claims.Username))
	return nil
}

// Authenticate resolves the user behind a session token.
// Invalid, expired and revoked tokens fail with UNAUTHORIZED, as do tokens of deleted users.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*UserInfo, error) {
	if tokenString == "" {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Missing session token")
	}

	claims, err := s.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, shared.Wrap(shared.CodeUnauthorized, "Invalid session token", err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.Wrap(shared.CodeUnauthorized, "Invalid session token", auth.ErrTokenBlacklisted)
	}

	publicID, err := claims.PublicUUID()
	if err != nil {
		return nil, shared.Wrap(shared.CodeUnauthorized, "Invalid session token", err)
	}

	user, err := s.userRepo.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeUnauthorized, "Invalid session token")
		}
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}
