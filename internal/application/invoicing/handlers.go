package invoicing

import (
	"context"
	"fmt"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Delete confirmations returned by the delete handlers
const (
	PayerDeletedMessage = "Payer deleted successfully"
	OrderDeletedMessage = "Order deleted successfully"
)

// CommandHandlers implements the invoicing commands. Every method runs inside the
// unit of work it receives and commits it on success.
type CommandHandlers struct {
	policy    invoicing.MatchPolicy
	numbering *NumberingService
	uploads   *StatementUploader
	logger    *zap.Logger
}

// HandlersOption configures CommandHandlers
type HandlersOption func(*CommandHandlers)

// WithMatchPolicy sets how ambiguous payer names are resolved
func WithMatchPolicy(p invoicing.MatchPolicy) HandlersOption {
	return func(h *CommandHandlers) {
		h.policy = p
	}
}

// WithNumbering sets the invoice numbering service
func WithNumbering(n *NumberingService) HandlersOption {
	return func(h *CommandHandlers) {
		h.numbering = n
	}
}

// WithStatementUploader sets the bank statement uploader
func WithStatementUploader(u *StatementUploader) HandlersOption {
	return func(h *CommandHandlers) {
		h.uploads = u
	}
}

// NewCommandHandlers creates the command handlers
func NewCommandHandlers(logger *zap.Logger, opts ...HandlersOption) *CommandHandlers {
	h := &CommandHandlers{
		policy:    invoicing.MatchFirst,
		numbering: NewNumberingService(NumberingBatch),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// AddPayer stores a new payer with an uppercased name
func (h *CommandHandlers) AddPayer(ctx context.Context, uow UnitOfWork, cmd invoicing.AddPayer) (*invoicing.PayerView, error) {
	address := invoicing.NewAddress(cmd.Address, cmd.ZipCode, cmd.City, cmd.Province)
	payer, err := invoicing.NewPayer(cmd.ID, cmd.Name, cmd.NIF, address)
	if err != nil {
		return nil, err
	}

	existing, err := uow.Payers().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].SameNaturalKey(payer) {
			payer.AddDomainEvent(invoicing.NewRepeatedPayerEvent(payer, &existing[i]))
			break
		}
	}

	if err := uow.Payers().Add(ctx, payer); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	collectFrom(uow, payer)

	view := payer.View()
	return &view, nil
}

// UpdatePayer overwrites the fields present in the command.
// It returns nil when the payer does not exist.
func (h *CommandHandlers) UpdatePayer(ctx context.Context, uow UnitOfWork, cmd invoicing.UpdatePayer) (*invoicing.PayerView, error) {
	payer, err := uow.Payers().GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		return nil, nil
	}

	payer.Apply(cmd.Patch())
	if err := uow.Payers().Save(ctx, payer); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	view := payer.View()
	return &view, nil
}

// DeletePayer removes a payer. It returns an empty string when the payer does not exist,
// and INTEGRITY_VIOLATION while orders are still allocated to it.
func (h *CommandHandlers) DeletePayer(ctx context.Context, uow UnitOfWork, cmd invoicing.DeletePayer) (string, error) {
	payer, err := uow.Payers().GetByID(ctx, cmd.ID)
	if err != nil {
		return "", err
	}
	if payer == nil {
		return "", nil
	}
	if err := uow.Payers().DeleteByID(ctx, cmd.ID); err != nil {
		return "", err
	}
	if err := uow.Commit(); err != nil {
		return "", err
	}
	return PayerDeletedMessage, nil
}

// AddOrder stores a new order and allocates the best matching payer, if any
func (h *CommandHandlers) AddOrder(ctx context.Context, uow UnitOfWork, cmd invoicing.AddOrder) (*invoicing.OrderView, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	payer, err := h.matchPayer(ctx, uow, cmd.PayerName)
	if err != nil {
		return nil, err
	}

	order := invoicing.NewInvoiceOrder(cmd.ID, cmd.PayerName, cmd.Date, cmd.Quantity, cmd.Number)
	order.AllocatePayer(payer)

	if err := uow.Orders().Add(ctx, order); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	view := order.View()
	return &view, nil
}

// UpdateOrder overwrites the fields present in the command. A new payer name is matched
// and allocated again. It returns nil when the order does not exist, and ALREADY_NUMBERED
// when the command would replace an assigned number.
func (h *CommandHandlers) UpdateOrder(ctx context.Context, uow UnitOfWork, cmd invoicing.UpdateOrder) (*invoicing.OrderView, error) {
	order, err := uow.Orders().GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	if err := order.Apply(cmd.Patch()); err != nil {
		return nil, err
	}
	if name, ok := cmd.PayerName.Get(); ok {
		payer, err := h.matchPayer(ctx, uow, name)
		if err != nil {
			return nil, err
		}
		order.AllocatePayer(payer)
	}

	if err := uow.Orders().Save(ctx, order); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	view := order.View()
	return &view, nil
}

// DeleteOrder removes an order. It returns an empty string when the order does not exist.
func (h *CommandHandlers) DeleteOrder(ctx context.Context, uow UnitOfWork, cmd invoicing.DeleteOrder) (string, error) {
	order, err := uow.Orders().GetByID(ctx, cmd.ID)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", nil
	}
	if err := uow.Orders().DeleteByID(ctx, cmd.ID); err != nil {
		return "", err
	}
	if err := uow.Commit(); err != nil {
		return "", err
	}
	return OrderDeletedMessage, nil
}

// UploadOrders creates numbered orders from a bank statement
func (h *CommandHandlers) UploadOrders(ctx context.Context, uow UnitOfWork, cmd invoicing.UploadOrders) ([]invoicing.OrderView, error) {
	if h.uploads == nil {
		return nil, fmt.Errorf("statement uploads are not configured")
	}
	return h.uploads.Upload(ctx, uow, cmd, h)
}

func (h *CommandHandlers) matchPayer(ctx context.Context, uow UnitOfWork, name string) (*invoicing.Payer, error) {
	payers, err := uow.Payers().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	payer, err := invoicing.MatchPayer(name, payers, h.policy)
	if err != nil {
		return nil, err
	}
	if payer == nil {
		h.logger.Debug("No payer matches order payer name", zap.String("payer_name", name))
	}
	return payer, nil
}

// errUnknownCommand builds the error returned for commands without a handler
func errUnknownCommand(msg any) error {
	return shared.NewDomainError(shared.CodeUnrecognizedMessage,
		fmt.Sprintf("%T is not a recognized command", msg))
}
