package handler

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propman/backend/internal/domain/metering"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToReadingResponse(t *testing.T) {
	meterID := uuid.New()
	date := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	t.Run("first reading is flagged as baseline", func(t *testing.T) {
		reading, err := metering.NewReading(meterID, date, decimal.NewFromInt(100), nil, nil)
		require.NoError(t, err)

		resp := toReadingResponse(reading)

		assert.True(t, resp.Baseline)
		assert.Equal(t, "100", resp.CurrentUnits)
		assert.Equal(t, "100", resp.ConsumedUnits)
		assert.Equal(t, "2025-09-01", resp.ReadingDate)
	})

	t.Run("derived reading is not baseline", func(t *testing.T) {
		prior, err := metering.NewReading(meterID, date, decimal.NewFromInt(100), nil, nil)
		require.NoError(t, err)
		reading, err := metering.NewReading(meterID, date.AddDate(0, 1, 0), decimal.NewFromInt(140), prior, nil)
		require.NoError(t, err)

		resp := toReadingResponse(reading)

		assert.False(t, resp.Baseline)
		assert.Equal(t, "40", resp.ConsumedUnits)
	})
}
