package persistence

import (
	"context"
	"fmt"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionFunc returns the database handle of the current unit of work
type sessionFunc func(ctx context.Context) *gorm.DB

// entityRepository implements shared.Repository for one entity type on top of its
// persistence model M.
//
// Lookups only accept the columns listed in filters, keyed by their domain field name.
// Listing is ordered by created_at then id so callers see a stable order.
type entityRepository[T any, M any] struct {
	session    sessionFunc
	descriptor shared.EntityDescriptor
	filters    map[string]string
	preload    []string
	toDomain   func(*M) *T
	fromDomain func(*T) *M
}

// Descriptor returns the entity descriptor
func (r *entityRepository[T, M]) Descriptor() shared.EntityDescriptor {
	return r.descriptor
}

func (r *entityRepository[T, M]) query(ctx context.Context) *gorm.DB {
	q := r.session(ctx).Model(new(M))
	for _, assoc := range r.preload {
		q = q.Preload(assoc)
	}
	return q
}

// Add stages a new entity in the current transaction
func (r *entityRepository[T, M]) Add(ctx context.Context, entity *T) error {
	model := r.fromDomain(entity)
	if err := r.session(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return translateError(r.descriptor.EntityName(), err)
	}
	return nil
}

// Save writes every column of an existing entity
func (r *entityRepository[T, M]) Save(ctx context.Context, entity *T) error {
	model := r.fromDomain(entity)
	result := r.session(ctx).Model(model).Select("*").Omit(clause.Associations, "created_at").Updates(model)
	if result.Error != nil {
		return translateError(r.descriptor.EntityName(), result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(r.descriptor.EntityName())
	}
	return nil
}

// Get returns the single entity whose default filter field equals value
func (r *entityRepository[T, M]) Get(ctx context.Context, value string) (*T, error) {
	return r.GetBy(ctx, r.descriptor.DefaultFilterField(), value)
}

// GetBy returns the single entity whose field equals value.
// It fails with NOT_FOUND on zero matches and NOT_UNIQUE on several.
func (r *entityRepository[T, M]) GetBy(ctx context.Context, field, value string) (*T, error) {
	column, ok := r.filters[field]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidInput,
			fmt.Sprintf("%s cannot be filtered by %q", r.descriptor.EntityName(), field))
	}

	var found []M
	err := r.query(ctx).
		Where(column+" = ?", value).
		Order("created_at, id").
		Limit(2).
		Find(&found).Error
	if err != nil {
		return nil, translateError(r.descriptor.EntityName(), err)
	}
	switch len(found) {
	case 0:
		return nil, notFound(r.descriptor.EntityName())
	case 1:
		return r.toDomain(&found[0]), nil
	default:
		return nil, notUnique(r.descriptor.EntityName())
	}
}

// GetByID returns the entity with the given id, or nil when it does not exist
func (r *entityRepository[T, M]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var found []M
	if err := r.query(ctx).Where("id = ?", id).Limit(1).Find(&found).Error; err != nil {
		return nil, translateError(r.descriptor.EntityName(), err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return r.toDomain(&found[0]), nil
}

// ListAll returns every entity ordered by creation
func (r *entityRepository[T, M]) ListAll(ctx context.Context) ([]T, error) {
	var found []M
	if err := r.query(ctx).Order("created_at, id").Find(&found).Error; err != nil {
		return nil, translateError(r.descriptor.EntityName(), err)
	}
	entities := make([]T, len(found))
	for i := range found {
		entities[i] = *r.toDomain(&found[i])
	}
	return entities, nil
}

// DeleteByID removes the entity with the given id
func (r *entityRepository[T, M]) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := r.session(ctx).Where("id = ?", id).Delete(new(M))
	if result.Error != nil {
		return translateError(r.descriptor.EntityName(), result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(r.descriptor.EntityName())
	}
	return nil
}
