package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPayerRepository creates a payer repository with a mocked SQL connection
func newMockPayerRepository(t *testing.T) (invoicing.PayerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	session := func(ctx context.Context) *gorm.DB { return gormDB.WithContext(ctx) }
	return NewGormPayerRepository(session), mock, mockDB
}

var payerColumns = []string{"id", "created_at", "updated_at", "name", "nif", "address", "zip_code", "city", "province"}

func TestGormPayerRepository_GetByID(t *testing.T) {
	t.Run("finds existing payer", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows(payerColumns).
			AddRow(id, now, now, "PEPE PEREZ", "12A", "Calle Real 3", "06200", "Almendralejo", "Badajoz")

		mock.ExpectQuery(`SELECT \* FROM "payers" WHERE id = \$1 LIMIT \$2`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		payer, err := repo.GetByID(context.Background(), id)

		require.NoError(t, err)
		require.NotNil(t, payer)
		assert.Equal(t, id, payer.ID)
		assert.Equal(t, "PEPE PEREZ", payer.Name)
		assert.Equal(t, "06200", payer.Address.ZipCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns nil for unknown id", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "payers" WHERE id = \$1 LIMIT \$2`).
			WithArgs(id, 1).
			WillReturnRows(sqlmock.NewRows(payerColumns))

		payer, err := repo.GetByID(context.Background(), id)

		assert.NoError(t, err)
		assert.Nil(t, payer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPayerRepository_Get(t *testing.T) {
	t.Run("filters on the name column", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		now := time.Now()
		rows := sqlmock.NewRows(payerColumns).
			AddRow(uuid.New(), now, now, "ANA", "", "", "", "", "").
			AddRow(uuid.New(), now, now, "ANA", "", "", "", "", "")

		mock.ExpectQuery(`SELECT \* FROM "payers" WHERE name = \$1 ORDER BY created_at, id LIMIT \$2`).
			WithArgs("ANA", 2).
			WillReturnRows(rows)

		_, err := repo.Get(context.Background(), "ANA")

		assert.True(t, errors.Is(err, shared.ErrNotUnique))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPayerRepository_DeleteByID(t *testing.T) {
	t.Run("deletes existing payer", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "payers" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteByID(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps foreign key violations", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "payers" WHERE id = \$1`).
			WithArgs(id).
			WillReturnError(errors.New(`ERROR: update or delete on table "payers" violates foreign key constraint "fk_invoice_orders_payer" on table "invoice_orders" (SQLSTATE 23503)`))

		err := repo.DeleteByID(context.Background(), id)

		assert.True(t, errors.Is(err, shared.ErrIntegrityViolation))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing was deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockPayerRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM "payers" WHERE id = \$1`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByID(context.Background(), id)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError("payer", nil))
	assert.True(t, errors.Is(translateError("payer", gorm.ErrForeignKeyViolated), shared.ErrIntegrityViolation))
	assert.True(t, errors.Is(translateError("user", gorm.ErrDuplicatedKey), shared.ErrAlreadyExists))

	plain := errors.New("connection reset")
	err := translateError("payer", plain)
	assert.ErrorIs(t, err, plain)
	assert.False(t, errors.Is(err, shared.ErrNotFound))
}
