package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

func ptr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestSplitCash(t *testing.T) {
	tests := []struct {
		name     string
		req      CashSplitRequest
		wantHand string
		wantBank string
	}{
		{
			name:     "auto default ratio",
			req:      CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto},
			wantHand: "300.00",
			wantBank: "700.00",
		},
		{
			name:     "empty mode is auto",
			req:      CashSplitRequest{Total: d("333.33")},
			wantHand: "100.00",
			wantBank: "233.33",
		},
		{
			name:     "auto custom ratio",
			req:      CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto, HandRatio: ptr("0.5")},
			wantHand: "500.00",
			wantBank: "500.00",
		},
		{
			name:     "auto with hand fixed",
			req:      CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto, Hand: ptr("450")},
			wantHand: "450.00",
			wantBank: "550.00",
		},
		{
			name:     "auto with bank fixed",
			req:      CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto, Bank: ptr("900")},
			wantHand: "100.00",
			wantBank: "900.00",
		},
		{
			name:     "manual",
			req:      CashSplitRequest{Total: d("1000"), Mode: models.CashSplitManual, Hand: ptr("123.45"), Bank: ptr("876.55")},
			wantHand: "123.45",
			wantBank: "876.55",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCash(tt.req, DefaultHandRatio)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHand, got.Hand.StringFixed(2))
			assert.Equal(t, tt.wantBank, got.Bank.StringFixed(2))
			assert.True(t, got.Hand.Add(got.Bank).Equal(tt.req.Total.Round(2)))
		})
	}
}

func TestSplitCash_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  CashSplitRequest
	}{
		{"manual sum mismatch", CashSplitRequest{Total: d("1000"), Mode: models.CashSplitManual, Hand: ptr("300"), Bank: ptr("600")}},
		{"manual missing side", CashSplitRequest{Total: d("1000"), Mode: models.CashSplitManual, Hand: ptr("1000")}},
		{"manual negative side", CashSplitRequest{Total: d("1000"), Mode: models.CashSplitManual, Hand: ptr("-100"), Bank: ptr("1100")}},
		{"ratio above one", CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto, HandRatio: ptr("1.2")}},
		{"fixed side above total", CashSplitRequest{Total: d("1000"), Mode: models.CashSplitAuto, Hand: ptr("1000.01")}},
		{"unknown mode", CashSplitRequest{Total: d("1000"), Mode: "HALF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitCash(tt.req, DefaultHandRatio)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidCashSplit)
		})
	}
}
