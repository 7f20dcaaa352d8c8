package persistence

import (
	"context"
	"errors"
	"fmt"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"gorm.io/gorm"
)

// ErrUnitOfWorkClosed is returned when a closed unit of work is used
var ErrUnitOfWorkClosed = errors.New("unit of work is closed")

// GormUnitOfWorkFactory opens GORM-backed units of work.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a new GormUnitOfWorkFactory.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Begin opens a transaction and binds fresh repositories to it.
func (f *GormUnitOfWorkFactory) Begin(ctx context.Context) (appinvoicing.UnitOfWork, error) {
	uow := &GormUnitOfWork{db: f.db, ctx: ctx}
	if tx := uow.current(); tx.Error != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	session := func(ctx context.Context) *gorm.DB {
		return uow.current().WithContext(ctx)
	}
	uow.payers = NewGormPayerRepository(session)
	uow.orders = NewGormOrderRepository(session)
	uow.sequences = NewGormSequenceRepository(session)
	return uow, nil
}

// GormUnitOfWork wraps one database transaction at a time.
// Commit and Rollback end the current transaction; the next repository call opens a new one,
// so Close only has to roll back whatever is pending.
type GormUnitOfWork struct {
	appinvoicing.EventCollector

	db     *gorm.DB
	ctx    context.Context
	tx     *gorm.DB
	closed bool

	payers    invoicing.PayerRepository
	orders    invoicing.OrderRepository
	sequences invoicing.SequenceRepository
}

// current returns the open transaction, beginning one if none is open.
// A failed begin is not kept: the returned handle carries the error and the next call retries.
func (u *GormUnitOfWork) current() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	tx := u.db.WithContext(u.ctx).Begin()
	if tx.Error == nil {
		u.tx = tx
	}
	return tx
}

// Payers returns the payer repository bound to this transaction
func (u *GormUnitOfWork) Payers() invoicing.PayerRepository { return u.payers }

// Orders returns the order repository bound to this transaction
func (u *GormUnitOfWork) Orders() invoicing.OrderRepository { return u.orders }

// Sequences returns the sequence repository bound to this transaction
func (u *GormUnitOfWork) Sequences() invoicing.SequenceRepository { return u.sequences }

// Commit commits the current transaction, if any
func (u *GormUnitOfWork) Commit() error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback discards everything since the last commit
func (u *GormUnitOfWork) Rollback() error {
	if u.closed {
		return ErrUnitOfWorkClosed
	}
	return u.rollback("failed to roll back transaction")
}

// Close rolls back anything not committed and releases the connection
func (u *GormUnitOfWork) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	return u.rollback("failed to close unit of work")
}

func (u *GormUnitOfWork) rollback(msg string) error {
	if u.tx == nil {
		return nil
	}
	tx := u.tx
	u.tx = nil
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return nil
}

var (
	_ appinvoicing.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)
	_ appinvoicing.UnitOfWork        = (*GormUnitOfWork)(nil)
)
