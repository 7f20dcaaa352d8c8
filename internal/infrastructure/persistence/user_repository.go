package persistence

import (
	"context"
	"errors"

	"github.com/facturator/backend/internal/domain/identity"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository stores back-office accounts in the users table
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create stores a new account. A taken username fails with ALREADY_EXISTS.
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError("user", err)
	}
	return nil
}

// FindByUsername returns the account registered under username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByPublicID resolves the identifier carried in session tokens
func (r *GormUserRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*identity.User, error) {
	return r.findOne(ctx, "public_id = ?", publicID)
}

func (r *GormUserRepository) findOne(ctx context.Context, where string, arg any) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Where(where, arg).Take(&model).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, shared.ErrNotFound
	case err != nil:
		return nil, translateError("user", err)
	}
	return model.ToDomain(), nil
}

// ExistsByUsername checks if a username is already taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
