package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// DefaultHandRatio is the share of an AUTO split that stays in hand.
var DefaultHandRatio = decimal.NewFromFloat(0.30)

// CashSplitRequest describes how a payment's cash should be divided.
type CashSplitRequest struct {
	Total decimal.Decimal
	Mode  models.CashSplitMode

	// HandRatio overrides the default AUTO ratio when non-nil. It must be in [0,1].
	HandRatio *decimal.Decimal

	// Hand and Bank are required in MANUAL mode. In AUTO mode setting one of
	// them fixes that side and the other becomes the rest.
	Hand *decimal.Decimal
	Bank *decimal.Decimal
}

// CashSplit is a finalized division of Total; Hand + Bank == Total.
type CashSplit struct {
	Hand decimal.Decimal
	Bank decimal.Decimal
	Mode models.CashSplitMode
}

// SplitCash finalizes the hand/bank split of req.Total. It has no side effects.
func SplitCash(req CashSplitRequest, defaultRatio decimal.Decimal) (CashSplit, error) {
	total := money.Round(req.Total)
	if total.IsNegative() {
		return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split.total", "cash total must not be negative")
	}

	switch req.Mode {
	case models.CashSplitManual:
		if req.Hand == nil || req.Bank == nil {
			return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split", "manual split requires both hand and bank amounts")
		}
		hand, bank := money.Round(*req.Hand), money.Round(*req.Bank)
		if hand.IsNegative() || bank.IsNegative() {
			return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split", "hand and bank amounts must not be negative")
		}
		if !money.Equal(money.Sum(hand, bank), total) {
			return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split",
				"hand "+hand.StringFixed(2)+" plus bank "+bank.StringFixed(2)+" does not equal "+total.StringFixed(2))
		}
		return CashSplit{Hand: hand, Bank: bank, Mode: models.CashSplitManual}, nil

	case models.CashSplitAuto, "":
		if req.Hand != nil {
			return fixedSide(total, *req.Hand, "cash_split.hand", func(side, rest decimal.Decimal) CashSplit {
				return CashSplit{Hand: side, Bank: rest, Mode: models.CashSplitAuto}
			})
		}
		if req.Bank != nil {
			return fixedSide(total, *req.Bank, "cash_split.bank", func(side, rest decimal.Decimal) CashSplit {
				return CashSplit{Hand: rest, Bank: side, Mode: models.CashSplitAuto}
			})
		}
		ratio := defaultRatio
		if req.HandRatio != nil {
			ratio = *req.HandRatio
		}
		if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
			return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split.hand_ratio", "hand ratio must be between 0 and 1")
		}
		hand := money.Round(total.Mul(ratio))
		return CashSplit{Hand: hand, Bank: money.Round(total.Sub(hand)), Mode: models.CashSplitAuto}, nil
	}
	return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, "cash_split.mode", "unknown cash split mode: "+string(req.Mode))
}

func fixedSide(total, side decimal.Decimal, field string, build func(side, rest decimal.Decimal) CashSplit) (CashSplit, error) {
	side = money.Round(side)
	if side.IsNegative() || side.GreaterThan(total) {
		return CashSplit{}, models.NewValidationError(models.ErrInvalidCashSplit.Code, field, "fixed side must be between 0 and "+total.StringFixed(2))
	}
	return build(side, money.Round(total.Sub(side))), nil
}
