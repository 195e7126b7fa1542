package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cashdesk/backend/internal/domain/branch"
	"github.com/cashdesk/backend/internal/domain/shared"
	"github.com/cashdesk/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBranchRepository_Create(t *testing.T) {
	t.Run("duplicate name maps to conflict", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBranchRepository(db)

		b, err := branch.NewBranch(uuid.New(), "Main", nil, nil)
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO "branches"`).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "branches_organization_id_name_key"})

		err = repo.Create(context.Background(), b)
		assert.True(t, errors.Is(err, shared.ErrBranchAlreadyExists))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBranchRepository(db)

		b, err := branch.NewBranch(uuid.New(), "Main", nil, nil)
		require.NoError(t, err)

		boom := errors.New("connection reset")
		mock.ExpectExec(`INSERT INTO "branches"`).WillReturnError(boom)

		err = repo.Create(context.Background(), b)
		assert.ErrorIs(t, err, boom)
		assert.False(t, shared.HasCode(err, shared.CodeBranchAlreadyExists))
	})
}

func TestGormBranchRepository_ListByOrganization(t *testing.T) {
	t.Run("scoped and ordered", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBranchRepository(db)
		orgID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT \* FROM "branches" WHERE organization_id = \$1 ORDER BY created_at DESC`).
			WithArgs(orgID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "organization_id", "name", "code", "cash_limit"}).
				AddRow(uuid.New(), now, now, orgID, "North", "N1", "2500.00").
				AddRow(uuid.New(), now.Add(-time.Hour), now, orgID, "South", nil, nil))

		branches, err := repo.ListByOrganization(context.Background(), orgID)
		require.NoError(t, err)
		require.Len(t, branches, 2)
		assert.Equal(t, "North", branches[0].Name)
		assert.True(t, branches[0].CashLimit.Equal(decimal.RequireFromString("2500")))
		assert.Nil(t, branches[1].Code)
		assert.Nil(t, branches[1].CashLimit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero organization never queries", func(t *testing.T) {
		db, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormBranchRepository(db)

		_, err := repo.ListByOrganization(context.Background(), uuid.Nil)
		assert.ErrorIs(t, err, tenant.ErrOrganizationRequired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBranchRepository_ExistsInOrganization(t *testing.T) {
	db, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormBranchRepository(db)
	orgID, branchID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "branches" WHERE id = \$1 AND organization_id = \$2`).
		WithArgs(branchID, orgID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.ExistsInOrganization(context.Background(), orgID, branchID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
