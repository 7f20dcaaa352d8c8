package shared

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the base interface for entity repositories bound to a unit of work.
//
// Get matches on the descriptor's default filter field and fails with ErrNotFound or
// ErrNotUnique unless exactly one entity matches. GetByID returns (nil, nil) for unknown ids.
type Repository[T any] interface {
	Descriptor() EntityDescriptor
	Add(ctx context.Context, entity *T) error
	Save(ctx context.Context, entity *T) error
	Get(ctx context.Context, value string) (*T, error)
	GetBy(ctx context.Context, field, value string) (*T, error)
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	ListAll(ctx context.Context) ([]T, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
