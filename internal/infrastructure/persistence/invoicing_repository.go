package persistence

import (
	"context"
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm/clause"
)

// NewGormPayerRepository creates a payer repository bound to the session
func NewGormPayerRepository(session sessionFunc) invoicing.PayerRepository {
	return &entityRepository[invoicing.Payer, models.PayerModel]{
		session:    session,
		descriptor: invoicing.PayerDescriptor{},
		filters: map[string]string{
			"name": "name",
			"nif":  "nif",
		},
		toDomain:   (*models.PayerModel).ToDomain,
		fromDomain: models.PayerModelFromDomain,
	}
}

// NewGormOrderRepository creates an order repository bound to the session.
// Orders are loaded together with their allocated payer.
func NewGormOrderRepository(session sessionFunc) invoicing.OrderRepository {
	return &entityRepository[invoicing.InvoiceOrder, models.InvoiceOrderModel]{
		session:    session,
		descriptor: invoicing.OrderDescriptor{},
		filters: map[string]string{
			"payer_name": "payer_name",
			"number":     "number",
		},
		preload:    []string{"Payer"},
		toDomain:   (*models.InvoiceOrderModel).ToDomain,
		fromDomain: models.InvoiceOrderModelFromDomain,
	}
}

// GormSequenceRepository persists numbering high-water marks
type GormSequenceRepository struct {
	session sessionFunc
}

// NewGormSequenceRepository creates a sequence repository bound to the session
func NewGormSequenceRepository(session sessionFunc) *GormSequenceRepository {
	return &GormSequenceRepository{session: session}
}

// Find returns the sequence stored for prefix, or nil
func (r *GormSequenceRepository) Find(ctx context.Context, prefix string) (*invoicing.Sequence, error) {
	var found []models.InvoiceSequenceModel
	err := r.session(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ?", prefix).
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, translateError("invoice sequence", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].ToDomain(), nil
}

// Save upserts the sequence for its prefix
func (r *GormSequenceRepository) Save(ctx context.Context, seq *invoicing.Sequence) error {
	model := &models.InvoiceSequenceModel{
		Prefix:    seq.Prefix,
		LastValue: seq.LastValue,
		UpdatedAt: time.Now(),
	}
	err := r.session(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "prefix"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_value", "updated_at"}),
	}).Create(model).Error
	return translateError("invoice sequence", err)
}

var _ invoicing.SequenceRepository = (*GormSequenceRepository)(nil)
