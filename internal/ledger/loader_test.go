package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradeguard/internal/errors"
	"tradeguard/internal/models"
)

const sampleCSV = Header + "\n" +
	"T002,EURUSD,2024-01-03 10:00:00,2024-01-03 12:00:00,SELL,0.10,1.0850,1.0800,1.0900,1.0750,50.00,10050.00\n" +
	"T001,AAPL,2024-01-02 14:30:00,2024-01-02 15:45:00,BUY,10,190.00,195.00,0,0,50.00,10000.00\n"

func TestLoadValidCSV(t *testing.T) {
	res, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, res.Ledger, 2)

	// Rows are sorted by entry time regardless of file order.
	assert.Equal(t, "T001", res.Ledger[0].TradeID)
	assert.Equal(t, "T002", res.Ledger[1].TradeID)

	first := res.Ledger[0]
	assert.Equal(t, "AAPL", first.Symbol)
	assert.Equal(t, models.TradeBuy, first.TradeType)
	assert.Equal(t, 10.0, first.LotSize)
	assert.Equal(t, 50.0, first.ProfitLoss)
	assert.False(t, first.HasStopLoss())
	assert.Equal(t, time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), first.EntryTime)

	second := res.Ledger[1]
	assert.Equal(t, models.TradeSell, second.TradeType)
	assert.True(t, second.HasStopLoss())

	assert.Empty(t, res.Warnings)
}

func TestLoadEmptyLedger(t *testing.T) {
	_, err := Load(strings.NewReader(Header + "\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrEmptyLedger)
}

func TestLoadRejectsInvalidRows(t *testing.T) {
	cases := []struct {
		name  string
		row   string
		field string
	}{
		{
			name:  "bad trade type",
			row:   "T001,AAPL,2024-01-02 14:30:00,2024-01-02 15:45:00,HOLD,10,190.00,195.00,0,0,50.00,10000.00",
			field: "trade_type",
		},
		{
			name:  "zero lot size",
			row:   "T001,AAPL,2024-01-02 14:30:00,2024-01-02 15:45:00,BUY,0,190.00,195.00,0,0,50.00,10000.00",
			field: "lot_size",
		},
		{
			name:  "negative entry price",
			row:   "T001,AAPL,2024-01-02 14:30:00,2024-01-02 15:45:00,BUY,10,-5,195.00,0,0,50.00,10000.00",
			field: "entry_price",
		},
		{
			name:  "zero balance",
			row:   "T001,AAPL,2024-01-02 14:30:00,2024-01-02 15:45:00,BUY,10,190.00,195.00,0,0,50.00,0",
			field: "account_balance_before",
		},
		{
			name:  "blank symbol",
			row:   "T001, ,2024-01-02 14:30:00,2024-01-02 15:45:00,BUY,10,190.00,195.00,0,0,50.00,10000.00",
			field: "symbol",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(Header + "\n" + tc.row + "\n"))
			require.Error(t, err)

			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.Equal(t, 1, verr.Row)
		})
	}
}

func TestLoadWarnsOnInvertedTimestamps(t *testing.T) {
	row := "T001,AAPL,2024-01-02 16:00:00,2024-01-02 14:00:00,BUY,10,190.00,195.00,0,0,50.00,10000.00"
	res, err := Load(strings.NewReader(Header + "\n" + row + "\n"))
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "exit_time before entry_time")

	// The trade itself is kept; the analysis tolerates zero durations.
	assert.Len(t, res.Ledger, 1)
	assert.True(t, res.Ledger[0].HoldDuration() < 0)
}

func TestLoadNormalizesCase(t *testing.T) {
	row := "T001,eurusd,2024-01-02 14:30:00,2024-01-02 15:45:00,buy,1,1.0850,1.0900,0,0,50.00,10000.00"
	res, err := Load(strings.NewReader(Header + "\n" + row + "\n"))
	require.NoError(t, err)

	assert.Equal(t, "EURUSD", res.Ledger[0].Symbol)
	assert.Equal(t, models.TradeBuy, res.Ledger[0].TradeType)
}

func TestWriteLoadRoundTrip(t *testing.T) {
	original := models.Ledger{
		{
			TradeID:              "T001",
			Symbol:               "EURUSD",
			EntryTime:            time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC),
			ExitTime:             time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC),
			TradeType:            models.TradeBuy,
			LotSize:              0.1,
			EntryPrice:           1.085,
			ExitPrice:            1.09,
			StopLoss:             1.08,
			TakeProfit:           1.095,
			ProfitLoss:           50,
			AccountBalanceBefore: 10000,
		},
		{
			TradeID:              "T002",
			Symbol:               "AAPL",
			EntryTime:            time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC),
			ExitTime:             time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC),
			TradeType:            models.TradeSell,
			LotSize:              5,
			EntryPrice:           190,
			ExitPrice:            185,
			ProfitLoss:           25,
			AccountBalanceBefore: 10050,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original))

	res, err := Load(&buf)
	require.NoError(t, err)
	require.Len(t, res.Ledger, len(original))

	for i := range original {
		assert.Equal(t, original[i], res.Ledger[i], "trade %d", i)
	}
}
