package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/billing"
	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockBillRepository creates a GormBillRepository with a mocked SQL connection
func newMockBillRepository(t *testing.T) (*GormBillRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormBillRepository(gormDB), mock, mockDB
}

func testMonth(t *testing.T, s string) valueobject.Month {
	t.Helper()
	m, err := valueobject.ParseMonth(s)
	require.NoError(t, err)
	return m
}

func TestGormBillRepository_FindByID(t *testing.T) {
	t.Run("finds existing bill", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()
		contractID := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version",
			"contract_id", "issue_month", "issue_date", "due_date",
			"rent", "total_amount", "amount_received", "payment_status", "paid",
		}).AddRow(
			billID, now, now, 1,
			contractID, "2025-10", now, now.AddDate(0, 0, 10),
			decimal.NewFromInt(20000), decimal.NewFromInt(27500), decimal.Zero, "UNPAID", false,
		)

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(billID, 1).
			WillReturnRows(rows)

		bill, err := repo.FindByID(context.Background(), billID)

		assert.NoError(t, err)
		require.NotNil(t, bill)
		assert.Equal(t, billID, bill.ID)
		assert.Equal(t, "2025-10", bill.IssueMonth.String())
		assert.Equal(t, "27500", bill.TotalAmount.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(billID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		bill, err := repo.FindByID(context.Background(), billID)

		assert.Nil(t, bill)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_ExistsForMonth(t *testing.T) {
	t.Run("reports existing bills", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		month := testMonth(t, "2025-10")

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bills" WHERE issue_month = \$1`).
			WithArgs(month).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		exists, err := repo.ExistsForMonth(context.Background(), month)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports empty month", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		month := testMonth(t, "2025-11")

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bills" WHERE issue_month = \$1`).
			WithArgs(month).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsForMonth(context.Background(), month)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_FindAll(t *testing.T) {
	t.Run("search joins tenant identifiers through the contract", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		billID := uuid.New()
		contractID := uuid.New()
		now := time.Now()
		pattern := "%bilal%"

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bills" JOIN contracts ON contracts\.id = bills\.contract_id JOIN tenants ON tenants\.id = contracts\.tenant_id WHERE .*LOWER\(tenants\.name\) LIKE LOWER\(\$1\) OR LOWER\(tenants\.cnic\) LIKE LOWER\(\$2\) OR LOWER\(tenants\.phone\) LIKE LOWER\(\$3\)`).
			WithArgs(pattern, pattern, pattern).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "version",
			"contract_id", "issue_month", "issue_date", "due_date",
			"rent", "total_amount", "amount_received", "payment_status", "paid",
		}).AddRow(
			billID, now, now, 1,
			contractID, "2025-10", now, now.AddDate(0, 0, 10),
			decimal.NewFromInt(20000), decimal.NewFromInt(27500), decimal.Zero, "UNPAID", false,
		)

		mock.ExpectQuery(`SELECT .* FROM "bills" JOIN contracts ON contracts\.id = bills\.contract_id JOIN tenants ON tenants\.id = contracts\.tenant_id WHERE .*LOWER\(tenants\.phone\) LIKE LOWER\(\$3\).* ORDER BY bills\.issue_month DESC, bills\.created_at ASC LIMIT .*`).
			WithArgs(pattern, pattern, pattern, 20).
			WillReturnRows(rows)

		filter := billing.BillFilter{Filter: shared.DefaultFilter()}
		filter.Search = "bilal"

		page, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, billID, page.Items[0].ID)
		assert.Equal(t, int64(1), page.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without search stays on the bills table", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		month := testMonth(t, "2025-10")

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bills" WHERE bills\.issue_month = \$1`).
			WithArgs(month).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "bills" WHERE bills\.issue_month = \$1 ORDER BY bills\.issue_month DESC, bills\.created_at ASC LIMIT .*`).
			WithArgs(month, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		filter := billing.BillFilter{Filter: shared.DefaultFilter(), Month: &month}

		page, err := repo.FindAll(context.Background(), filter)

		assert.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBillRepository_SumUnpaidBefore(t *testing.T) {
	t.Run("sums unpaid prior bills", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		contractID := uuid.New()
		month := testMonth(t, "2025-11")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) AS total FROM "bills"`).
			WithArgs(contractID, month, "PAID").
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromInt(27500)))

		total, err := repo.SumUnpaidBefore(context.Background(), contractID, month)

		assert.NoError(t, err)
		assert.Equal(t, "27500", total.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns zero without prior bills", func(t *testing.T) {
		repo, mock, mockDB := newMockBillRepository(t)
		defer mockDB.Close()

		contractID := uuid.New()
		month := testMonth(t, "2025-09")

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) AS total FROM "bills"`).
			WithArgs(contractID, month, "PAID").
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.Zero))

		total, err := repo.SumUnpaidBefore(context.Background(), contractID, month)

		assert.NoError(t, err)
		assert.True(t, total.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
