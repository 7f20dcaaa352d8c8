package storage

import (
	"context"
	"fmt"
	"strings"

	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Storage types
const (
	TypeS3     = "s3"
	TypeMemory = "memory"
	TypeNone   = "none"
)

// NewArchive returns the document archive selected by cfg.Type.
// It returns nil without error when archiving is disabled.
func NewArchive(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (appinvoicing.DocumentArchive, error) {
	switch strings.ToLower(cfg.Type) {
	case "", TypeNone:
		logger.Info("Document archiving disabled")
		return nil, nil
	case TypeMemory:
		logger.Warn("Archiving documents in memory; they are lost on restart")
		return NewMemoryArchive(), nil
	case TypeS3:
		archive, err := NewS3Archive(cfg.S3, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Archiving documents to S3", zap.String("bucket", archive.Bucket()))
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
