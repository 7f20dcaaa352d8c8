package invoicing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/reconciliation"
	"github.com/facturator/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatementParser reads bank transactions from an uploaded statement export
type StatementParser interface {
	Parse(ctx context.Context, data []byte) ([]reconciliation.Transaction, error)
}

// StatementUploader turns a bank statement into numbered invoice orders
type StatementUploader struct {
	parser   StatementParser
	dedup    shared.IdempotencyStore
	dedupTTL time.Duration
	logger   *zap.Logger
}

// NewStatementUploader creates a StatementUploader.
// A nil dedup store disables duplicate-upload detection.
func NewStatementUploader(parser StatementParser, dedup shared.IdempotencyStore, dedupTTL time.Duration, logger *zap.Logger) *StatementUploader {
	return &StatementUploader{
		parser:   parser,
		dedup:    dedup,
		dedupTTL: dedupTTL,
		logger:   logger,
	}
}

// Upload parses the file, aggregates rows by payer name, matches payers, numbers every
// draft from one generator and persists the batch in a single commit.
func (u *StatementUploader) Upload(ctx context.Context, uow UnitOfWork, cmd invoicing.UploadOrders, h *CommandHandlers) (views []invoicing.OrderView, err error) {
	key := statementKey(cmd.File)
	if u.dedup != nil {
		var fresh bool
		fresh, err = u.dedup.MarkProcessed(ctx, key, u.dedupTTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError(shared.CodeDuplicateUpload, "Statement has already been uploaded")
		}
		defer func() {
			if err == nil {
				return
			}
			if forgetErr := u.dedup.Forget(ctx, key); forgetErr != nil {
				u.logger.Warn("Failed to release statement key", zap.String("key", key), zap.Error(forgetErr))
			}
		}()
	}

	txs, err := u.parser.Parse(ctx, cmd.File)
	if err != nil {
		return nil, err
	}
	orders := reconciliation.DraftOrders(txs)

	payers, err := uow.Payers().ListAll(ctx)
	if err != nil {
		return nil, err
	}
	gen, err := h.numbering.Generator(ctx, uow, cmd.CodeFixedPart, cmd.CodeStartingNumber)
	if err != nil {
		return nil, err
	}

	views = make([]invoicing.OrderView, 0, len(orders))
	for _, order := range orders {
		payer, err := invoicing.MatchPayer(order.PayerName, payers, h.policy)
		if err != nil {
			return nil, err
		}
		order.AllocatePayer(payer)
		if err := invoicing.AssociateNumber(order, gen); err != nil {
			return nil, err
		}
		if err := uow.Orders().Add(ctx, order); err != nil {
			return nil, err
		}
		views = append(views, order.View())
	}

	if err := h.numbering.Finish(ctx, uow, gen); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}
	uow.Collect(invoicing.NewOrdersUploadedEvent(orders))

	u.logger.Info("Bank statement uploaded",
		zap.Int("transactions", len(txs)),
		zap.Int("orders", len(orders)),
		zap.String("prefix", gen.Prefix()),
		zap.Int64("last_number", gen.Last()),
	)
	return views, nil
}

func statementKey(data []byte) string {
	sum := sha256.Sum256(data)
	return "statement:" + hex.EncodeToString(sum[:])
}
