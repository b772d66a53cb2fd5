package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testBill(t *testing.T, electric, generator, water UtilityLine, rent, service, security, arrears decimal.Decimal) *Bill {
	t.Helper()
	month, err := valueobject.ParseMonth("2025-10")
	require.NoError(t, err)
	issue := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	b, err := NewBill(uuid.New(), month, issue, issue.AddDate(0, 0, 10),
		electric, generator, water, rent, service, security, arrears)
	require.NoError(t, err)
	return b
}

func TestNewBill(t *testing.T) {
	t.Run("first bill totals all components including security fee", func(t *testing.T) {
		// rent 20000, service 2000, security 5000, wapda 50 units @ 10
		b := testBill(t,
			NewUtilityLine(d(50), d(10)),
			NewUtilityLine(d(0), d(20)),
			NewUtilityLine(d(0), d(5)),
			d(20000), d(2000), d(5000), d(0),
		)

		assert.Equal(t, "500", b.Electric.Amount.String())
		assert.Equal(t, "27500", b.TotalAmount.String())
		assert.Equal(t, PaymentStatusUnpaid, b.PaymentStatus)
		assert.True(t, b.IsFirstBill())
	})

	t.Run("second month bill carries arrears and no security fee", func(t *testing.T) {
		b := testBill(t,
			NewUtilityLine(d(60), d(10)),
			NewUtilityLine(d(0), d(20)),
			NewUtilityLine(d(0), d(5)),
			d(20000), d(2000), d(0), d(27500),
		)

		assert.Equal(t, "50100", b.TotalAmount.String())
		assert.False(t, b.IsFirstBill())
	})

	t.Run("fails with nil contract", func(t *testing.T) {
		month, _ := valueobject.ParseMonth("2025-10")
		issue := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewBill(uuid.Nil, month, issue, issue,
			UtilityLine{}, UtilityLine{}, UtilityLine{}, d(0), d(0), d(0), d(0))
		assert.Error(t, err)
	})

	t.Run("fails when due date precedes issue date", func(t *testing.T) {
		month, _ := valueobject.ParseMonth("2025-10")
		issue := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewBill(uuid.New(), month, issue, issue.AddDate(0, 0, -1),
			UtilityLine{}, UtilityLine{}, UtilityLine{}, d(0), d(0), d(0), d(0))
		assert.Error(t, err)
	})
}

func TestBillComputeTotal(t *testing.T) {
	t.Run("total stays consistent after adjustment", func(t *testing.T) {
		b := testBill(t,
			NewUtilityLine(d(50), d(10)),
			NewUtilityLine(d(10), d(20)),
			NewUtilityLine(d(2), d(100)),
			d(20000), d(2000), d(0), d(0),
		)

		b.SetAdditionalCharges(d(1500))

		assert.Equal(t, "24400", b.TotalAmount.String())
		assert.True(t, b.TotalAmount.Equal(b.ComputeTotal()))
	})
}

func TestBillRefreshPaymentState(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

	t.Run("partial payment sets partial status", func(t *testing.T) {
		b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))

		b.RefreshPaymentState(d(5000), now)

		assert.Equal(t, PaymentStatusPartial, b.PaymentStatus)
		assert.False(t, b.Paid)
		assert.Nil(t, b.PaidAt)
		assert.Equal(t, "15000", b.Outstanding().String())
	})

	t.Run("full payment sets paid flag and timestamp", func(t *testing.T) {
		b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))

		b.RefreshPaymentState(d(20000), now)

		assert.Equal(t, PaymentStatusPaid, b.PaymentStatus)
		assert.True(t, b.Paid)
		require.NotNil(t, b.PaidAt)
		assert.Equal(t, now, *b.PaidAt)
	})

	t.Run("overpayment is accepted and still paid", func(t *testing.T) {
		b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))

		b.RefreshPaymentState(d(25000), now)

		assert.Equal(t, PaymentStatusPaid, b.PaymentStatus)
		assert.Equal(t, "0", b.Outstanding().String())
	})

	t.Run("paid flag never regresses after a total increase", func(t *testing.T) {
		b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))
		b.RefreshPaymentState(d(20000), now)
		require.True(t, b.Paid)
		firstPaidAt := *b.PaidAt

		b.SetAdditionalCharges(d(3000))
		b.RefreshPaymentState(d(20000), now.Add(time.Hour))

		assert.Equal(t, PaymentStatusPartial, b.PaymentStatus)
		assert.True(t, b.Paid)
		assert.Equal(t, firstPaidAt, *b.PaidAt)
	})

	t.Run("zero received is unpaid", func(t *testing.T) {
		b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))
		b.RefreshPaymentState(decimal.Zero, now)
		assert.Equal(t, PaymentStatusUnpaid, b.PaymentStatus)
	})
}

func TestBillMarkPaid(t *testing.T) {
	now := time.Now()
	b := testBill(t, UtilityLine{}, UtilityLine{}, UtilityLine{}, d(20000), d(0), d(0), d(0))

	b.MarkPaid(now)

	assert.Equal(t, PaymentStatusPaid, b.PaymentStatus)
	assert.True(t, b.Paid)
	require.NotNil(t, b.PaidAt)
}

func TestUtilityRatesValidate(t *testing.T) {
	assert.NoError(t, UtilityRates{Electric: d(10), Generator: d(20), Water: d(5)}.Validate())
	assert.Error(t, UtilityRates{Electric: d(-1)}.Validate())
}

func TestNewPayment(t *testing.T) {
	t.Run("creates valid payment", func(t *testing.T) {
		p, err := NewPayment(uuid.New(), d(5000), time.Now(), PaymentMethodCash, "RCPT-19", "", "admin")
		require.NoError(t, err)
		assert.Equal(t, PaymentMethodCash, p.Method)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), d(0), time.Now(), PaymentMethodCash, "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPayment(uuid.New(), d(100), time.Now(), PaymentMethod("BARTER"), "", "", "")
		assert.Error(t, err)
	})
}
