package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// StandingInput is the state of one period needed to compute its standing.
type StandingInput struct {
	Period        *models.Period
	Members       []*models.Member
	Contributions []*models.MemberContribution

	// Allocations may include reversed rows; they are skipped.
	Allocations []*models.CashAllocation
	Movements   []*models.CashMovement
}

// Aggregate computes the period totals and the group standing.
//
// Algorithm:
// - collection = contributions + late fees + social fund + insurance paid
// - newCash = previousCash + collection + interest + principalRepaid - expenses - loansDisbursed
// - standing = newCash + loanOutstanding - socialFundBalance - insuranceFundBalance
// - sharePerMember = standing / memberCount, zero without members
//
// Hand and bank are tracked per pool from the payment splits and movements;
// together they always equal newCash.
func Aggregate(in StandingInput) models.PeriodTotals {
	var paid models.Buckets
	present := 0
	for _, c := range in.Contributions {
		paid = paid.Add(c.Paid)
		if c.Paid.Total().IsPositive() {
			present++
		}
	}

	hand, bank := in.Period.CashInHandAtStart, in.Period.CashInBankAtStart
	for _, a := range in.Allocations {
		if a.Reversed {
			continue
		}
		hand = money.Sum(hand, a.Hand)
		bank = money.Sum(bank, a.Bank)
	}

	expenses, disbursed := decimal.Zero, decimal.Zero
	for _, mv := range in.Movements {
		switch mv.Kind {
		case models.MovementExpense:
			expenses = money.Sum(expenses, mv.Amount)
		case models.MovementLoanDisbursement:
			disbursed = money.Sum(disbursed, mv.Amount)
		}
		if mv.Pool == models.PoolBank {
			bank = money.Round(bank.Sub(mv.Amount))
		} else {
			hand = money.Round(hand.Sub(mv.Amount))
		}
	}

	loans := decimal.Zero
	for _, m := range in.Members {
		loans = money.Sum(loans, m.LoanBalance)
	}

	collection := money.Sum(paid.Contribution, paid.LateFee, paid.SocialFund, paid.LoanInsurance)
	newCash := money.Round(money.Sum(in.Period.CashAtStart(), collection, paid.Interest, paid.LoanPrincipal).
		Sub(expenses).Sub(disbursed))
	socialBalance := money.Sum(in.Period.SocialFundAtStart, paid.SocialFund)
	insuranceBalance := money.Sum(in.Period.InsuranceFundAtStart, paid.LoanInsurance)
	standing := money.Round(newCash.Add(loans).Sub(socialBalance).Sub(insuranceBalance))

	return models.PeriodTotals{
		TotalCollection:      money.Sum(collection, paid.Interest),
		NewContributions:     money.Sum(paid.Contribution, paid.SocialFund, paid.LoanInsurance),
		InterestEarned:       paid.Interest,
		LateFeesCollected:    paid.LateFee,
		SocialFundCollected:  paid.SocialFund,
		InsuranceCollected:   paid.LoanInsurance,
		LoanPrincipalRepaid:  paid.LoanPrincipal,
		Expenses:             expenses,
		LoansDisbursed:       disbursed,
		EndingCashInHand:     hand,
		EndingCashInBank:     bank,
		LoanOutstanding:      loans,
		SocialFundBalance:    socialBalance,
		InsuranceFundBalance: insuranceBalance,
		GroupStanding:        standing,
		SharePerMember:       SharePerMember(standing, len(in.Members)),
		MemberCount:          len(in.Members),
		MembersPresent:       present,
	}
}

// SharePerMember divides standing evenly, returning zero for an empty group.
func SharePerMember(standing decimal.Decimal, memberCount int) decimal.Decimal {
	if memberCount <= 0 {
		return decimal.Zero
	}
	return money.Round(standing.Div(decimal.NewFromInt(int64(memberCount))))
}

// InitialStanding is the standing a group's first period opens with:
// starting cash in hand and bank plus every outstanding loan.
func InitialStanding(g *models.Group, members []*models.Member) decimal.Decimal {
	total := money.Sum(g.CashInHand, g.CashInBank)
	for _, m := range members {
		total = money.Sum(total, m.LoanBalance)
	}
	return total
}
