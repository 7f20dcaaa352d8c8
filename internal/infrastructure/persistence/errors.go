package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/facturator/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver constraint failures onto domain errors.
// Databases are opened with TranslateError so both postgres and sqlite surface gorm's
// sentinel errors; the message checks cover drivers that do not translate.
func translateError(entity string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"),
		strings.Contains(err.Error(), "violates foreign key constraint"):
		return shared.Wrap(shared.CodeIntegrityViolation,
			fmt.Sprintf("%s is still referenced by other records", entity), err)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return shared.Wrap(shared.CodeAlreadyExists,
			fmt.Sprintf("%s already exists", entity), err)
	}
	return fmt.Errorf("%s: %w", entity, err)
}

func notFound(entity string) error {
	return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("%s not found", entity))
}

func notUnique(entity string) error {
	return shared.NewDomainError(shared.CodeNotUnique, fmt.Sprintf("more than one %s matches", entity))
}
