package invoicing

import (
	"context"
	"fmt"
	"strings"

	"github.com/facturator/backend/internal/domain/invoicing"
)

// NumberingMode selects how invoice numbers are scoped
type NumberingMode string

const (
	// NumberingBatch restarts numbering from the requested start on every upload
	NumberingBatch NumberingMode = "batch"
	// NumberingPersistent continues from the last number stored for the prefix
	NumberingPersistent NumberingMode = "persistent"
)

// ParseNumberingMode parses a numbering mode, defaulting to batch
func ParseNumberingMode(s string) (NumberingMode, error) {
	switch NumberingMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", NumberingBatch:
		return NumberingBatch, nil
	case NumberingPersistent:
		return NumberingPersistent, nil
	default:
		return "", fmt.Errorf("unknown numbering mode %q", s)
	}
}

// NumberingService builds invoice code generators for upload batches
type NumberingService struct {
	mode NumberingMode
}

// NewNumberingService creates a NumberingService
func NewNumberingService(mode NumberingMode) *NumberingService {
	return &NumberingService{mode: mode}
}

// Mode returns the configured numbering mode
func (s *NumberingService) Mode() NumberingMode {
	return s.mode
}

// Generator returns the generator for one batch. In persistent mode it starts after the
// higher of start and the stored high-water mark.
func (s *NumberingService) Generator(ctx context.Context, uow UnitOfWork, prefix string, start int64) (*invoicing.CodeGenerator, error) {
	if s.mode != NumberingPersistent {
		return invoicing.NewCodeGenerator(prefix, start), nil
	}
	seq, err := uow.Sequences().Find(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if seq != nil && seq.LastValue > start {
		start = seq.LastValue
	}
	return invoicing.NewCodeGenerator(prefix, start), nil
}

// Finish stores the generator's high-water mark in persistent mode.
// It must run inside the same unit of work as the orders it numbered.
func (s *NumberingService) Finish(ctx context.Context, uow UnitOfWork, gen *invoicing.CodeGenerator) error {
	if s.mode != NumberingPersistent {
		return nil
	}
	return uow.Sequences().Save(ctx, &invoicing.Sequence{Prefix: gen.Prefix(), LastValue: gen.Last()})
}
