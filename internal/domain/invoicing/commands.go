package invoicing

import (
	"context"
	"strings"
	"time"

	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Command is an intent to change the invoicing state.
// The set of commands is closed: every command dispatches itself through a CommandVisitor.
type Command interface {
	CommandName() string
	Accept(ctx context.Context, v CommandVisitor) (any, error)
}

// CommandVisitor handles every command variant
type CommandVisitor interface {
	VisitAddPayer(ctx context.Context, cmd AddPayer) (any, error)
	VisitUpdatePayer(ctx context.Context, cmd UpdatePayer) (any, error)
	VisitDeletePayer(ctx context.Context, cmd DeletePayer) (any, error)
	VisitAddOrder(ctx context.Context, cmd AddOrder) (any, error)
	VisitUpdateOrder(ctx context.Context, cmd UpdateOrder) (any, error)
	VisitDeleteOrder(ctx context.Context, cmd DeleteOrder) (any, error)
	VisitUploadOrders(ctx context.Context, cmd UploadOrders) (any, error)
}

// AddPayer registers a new payer
type AddPayer struct {
	ID       uuid.UUID
	Name     string
	NIF      string
	Address  string
	ZipCode  string
	City     string
	Province string
}

func (AddPayer) CommandName() string { return "AddPayer" }

func (c AddPayer) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitAddPayer(ctx, c)
}

// UpdatePayer partially updates a payer
type UpdatePayer struct {
	ID       uuid.UUID
	Name     shared.Optional[string]
	NIF      shared.Optional[string]
	Address  shared.Optional[string]
	ZipCode  shared.Optional[string]
	City     shared.Optional[string]
	Province shared.Optional[string]
}

func (UpdatePayer) CommandName() string { return "UpdatePayer" }

func (c UpdatePayer) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitUpdatePayer(ctx, c)
}

// Patch converts the command into a payer patch
func (c UpdatePayer) Patch() PayerPatch {
	return PayerPatch{
		Name:     c.Name,
		NIF:      c.NIF,
		Street:   c.Address,
		ZipCode:  c.ZipCode,
		City:     c.City,
		Province: c.Province,
	}
}

// DeletePayer removes a payer
type DeletePayer struct {
	ID uuid.UUID
}

func (DeletePayer) CommandName() string { return "DeletePayer" }

func (c DeletePayer) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitDeletePayer(ctx, c)
}

// AddOrder records a new invoice order. PayerName, Date and Quantity are required.
type AddOrder struct {
	ID        uuid.UUID
	PayerName string
	Date      time.Time
	Quantity  decimal.Decimal
	Number    *string
}

func (AddOrder) CommandName() string { return "AddOrder" }

func (c AddOrder) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitAddOrder(ctx, c)
}

// Validate checks that every required field was supplied
func (c AddOrder) Validate() error {
	var missing []string
	if c.PayerName == "" {
		missing = append(missing, "payer_name")
	}
	if c.Date.IsZero() {
		missing = append(missing, "date")
	}
	if c.Quantity.IsZero() {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return shared.NewDomainError(shared.CodeInvalidCommand, "All attributes must be provided, missing: "+strings.Join(missing, ", "))
	}
	return nil
}

// UpdateOrder partially updates an invoice order
type UpdateOrder struct {
	ID        uuid.UUID
	PayerName shared.Optional[string]
	Date      shared.Optional[time.Time]
	Quantity  shared.Optional[decimal.Decimal]
	Number    shared.Optional[string]
}

func (UpdateOrder) CommandName() string { return "UpdateOrder" }

func (c UpdateOrder) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitUpdateOrder(ctx, c)
}

// Patch converts the command into an order patch
func (c UpdateOrder) Patch() OrderPatch {
	return OrderPatch{
		PayerName: c.PayerName,
		Date:      c.Date,
		Quantity:  c.Quantity,
		Number:    c.Number,
	}
}

// DeleteOrder removes an invoice order
type DeleteOrder struct {
	ID uuid.UUID
}

func (DeleteOrder) CommandName() string { return "DeleteOrder" }

func (c DeleteOrder) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitDeleteOrder(ctx, c)
}

// UploadOrders creates orders from a bank statement export
type UploadOrders struct {
	File               []byte
	CodeFixedPart      string
	CodeStartingNumber int64
}

func (UploadOrders) CommandName() string { return "UploadOrders" }

func (c UploadOrders) Accept(ctx context.Context, v CommandVisitor) (any, error) {
	return v.VisitUploadOrders(ctx, c)
}

var (
	_ Command = AddPayer{}
	_ Command = UpdatePayer{}
	_ Command = DeletePayer{}
	_ Command = AddOrder{}
	_ Command = UpdateOrder{}
	_ Command = DeleteOrder{}
	_ Command = UploadOrders{}
)
