package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/ledger"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage/sqlite"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type clients struct {
	groups        api.GroupServiceClient
	contributions api.ContributionServiceClient
	periods       api.PeriodServiceClient
}

// setupTestServer serves all three services over httptest, observed on
// 2024-03-05.
func setupTestServer(t *testing.T) clients {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "shg-service-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	l := ledger.New(store, ledger.WithClock(fixedClock{t: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}))

	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(l)))
	mux.Handle(api.NewContributionServiceHandler(NewContributionService(l)))
	mux.Handle(api.NewPeriodServiceHandler(NewPeriodService(l)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return clients{
		groups:        api.NewGroupServiceClient(http.DefaultClient, server.URL),
		contributions: api.NewContributionServiceClient(http.DefaultClient, server.URL),
		periods:       api.NewPeriodServiceClient(http.DefaultClient, server.URL),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func monthlySettings() api.GroupSettings {
	return api.GroupSettings{
		Name:                "Jyoti",
		Schedule:            api.Schedule{Frequency: "MONTHLY", DayOfMonth: 10},
		MonthlyContribution: d("200"),
		InterestRate:        d("12"),
		LateFee: api.LateFee{
			Enabled: true,
			Kind:    "TIER_BASED",
			Tiers: []api.LateFeeTier{
				{StartDay: 1, EndDay: 5, Amount: d("10")},
				{StartDay: 6, Amount: d("2"), IsPercentage: true},
			},
		},
		CashInHand: d("1000"),
		CashInBank: d("5000"),
	}
}

// createGroup creates a monthly group with one borrower owing 10000.
func createGroup(t *testing.T, c clients) (*api.Group, *api.Member) {
	t.Helper()
	ctx := context.Background()

	g, err := c.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{GroupSettings: monthlySettings()}))
	require.NoError(t, err)
	m, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{
		GroupID:     g.Msg.Group.ID,
		Name:        "Asha",
		FamilySize:  4,
		LoanBalance: d("10000"),
	}))
	require.NoError(t, err)
	return g.Msg.Group, m.Msg.Member
}

func requireCode(t *testing.T, err error, code connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	var cerr *connect.Error
	require.True(t, errors.As(err, &cerr), "expected connect error, got %v", err)
	assert.Equal(t, code, cerr.Code())
	return cerr
}

func TestGroupService(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, member := createGroup(t, c)

	t.Run("GetGroup returns settings", func(t *testing.T) {
		res, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: group.ID}))
		require.NoError(t, err)
		got := res.Msg.Group
		assert.Equal(t, "Jyoti", got.Name)
		assert.Equal(t, "MONTHLY", got.Schedule.Frequency)
		assert.Equal(t, "TIER_BASED", got.LateFee.Kind)
		require.Len(t, got.LateFee.Tiers, 2)
		assert.True(t, got.LateFee.Tiers[1].IsPercentage)
		assert.True(t, got.CashInBank.Equal(d("5000")))
	})

	t.Run("ListGroups and ListMembers", func(t *testing.T) {
		groups, err := c.groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
		require.NoError(t, err)
		assert.Len(t, groups.Msg.Groups, 1)

		members, err := c.groups.ListMembers(ctx, connect.NewRequest(&api.ListMembersRequest{GroupID: group.ID}))
		require.NoError(t, err)
		require.Len(t, members.Msg.Members, 1)
		assert.Equal(t, member.ID, members.Msg.Members[0].ID)
	})

	t.Run("UpdateGroupSettings", func(t *testing.T) {
		settings := monthlySettings()
		settings.Name = "Jyoti SHG"
		settings.SocialFundEnabled = true
		settings.SocialFundPerFamilyMember = d("5")
		res, err := c.groups.UpdateGroupSettings(ctx, connect.NewRequest(&api.UpdateGroupSettingsRequest{GroupID: group.ID, GroupSettings: settings}))
		require.NoError(t, err)
		assert.Equal(t, "Jyoti SHG", res.Msg.Group.Name)
		assert.True(t, res.Msg.Group.SocialFundEnabled)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		tests := []struct {
			name     string
			settings func(*api.GroupSettings)
			field    string
		}{
			{"missing name", func(s *api.GroupSettings) { s.Name = "" }, "name"},
			{"unknown frequency", func(s *api.GroupSettings) { s.Schedule.Frequency = "DAILY" }, "frequency"},
			{"negative cash", func(s *api.GroupSettings) { s.CashInHand = d("-1") }, "cash_in_hand"},
			{"missing day of month", func(s *api.GroupSettings) { s.Schedule.DayOfMonth = 0 }, "schedule.day_of_month"},
			{"overlapping tiers", func(s *api.GroupSettings) { s.LateFee.Tiers[1].StartDay = 3 }, ""},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				settings := monthlySettings()
				tt.settings(&settings)
				_, err := c.groups.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{GroupSettings: settings}))
				cerr := requireCode(t, err, connect.CodeInvalidArgument)
				if tt.field != "" {
					assert.Contains(t, cerr.Meta().Get(api.MetaErrorField), tt.field)
				}
			})
		}
	})

	t.Run("AddMember requires a family", func(t *testing.T) {
		_, err := c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: group.ID, Name: "Ravi"}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := c.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: "missing"}))
		requireCode(t, err, connect.CodeNotFound)

		_, err = c.groups.AddMember(ctx, connect.NewRequest(&api.AddMemberRequest{GroupID: "missing", Name: "Ravi", FamilySize: 1}))
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestContributionService_PaymentFlow(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, member := createGroup(t, c)

	summary, err := c.contributions.GetDueSummary(ctx, connect.NewRequest(&api.GetDueSummaryRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, summary.Msg.Contributions, 1)
	assert.NotEmpty(t, summary.Msg.PeriodID)
	assert.Equal(t, "300.00", summary.Msg.TotalDue.StringFixed(2))
	assert.Equal(t, "2024-03-10", summary.Msg.Contributions[0].DueDate)
	assert.Equal(t, "PENDING", summary.Msg.Contributions[0].EffectiveStatus)

	paid, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
		MemberID:       member.ID,
		Amount:         d("230"),
		CashSplit:      &api.CashSplit{Mode: "AUTO"},
		IdempotencyKey: "receipt-1",
	}))
	require.NoError(t, err)
	assert.False(t, paid.Msg.Replayed)
	assert.Equal(t, "70.00", paid.Msg.Contribution.Remaining.StringFixed(2))
	assert.Equal(t, "PARTIAL", paid.Msg.Contribution.Status)
	assert.Equal(t, "69.00", paid.Msg.Allocation.Hand.StringFixed(2))
	assert.Equal(t, "161.00", paid.Msg.Allocation.Bank.StringFixed(2))

	t.Run("replay returns the first payment", func(t *testing.T) {
		again, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
			MemberID:       member.ID,
			Amount:         d("230"),
			IdempotencyKey: "receipt-1",
		}))
		require.NoError(t, err)
		assert.True(t, again.Msg.Replayed)
		assert.Equal(t, paid.Msg.Allocation.ID, again.Msg.Allocation.ID)
	})

	t.Run("overpayment carries the maximum allowed", func(t *testing.T) {
		_, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{MemberID: member.ID, Amount: d("71")}))
		cerr := requireCode(t, err, connect.CodeInvalidArgument)
		assert.Equal(t, "OVERPAYMENT", cerr.Meta().Get(api.MetaErrorCode))
		assert.Equal(t, "70.00", cerr.Meta().Get(api.MetaMaxAllowed))
	})

	t.Run("manual split must match", func(t *testing.T) {
		hand, bank := d("10"), d("20")
		_, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{
			MemberID:  member.ID,
			Amount:    d("40"),
			CashSplit: &api.CashSplit{Mode: "MANUAL", Hand: &hand, Bank: &bank},
		}))
		cerr := requireCode(t, err, connect.CodeInvalidArgument)
		assert.Equal(t, "INVALID_CASH_SPLIT", cerr.Meta().Get(api.MetaErrorCode))
	})

	t.Run("bad submission date", func(t *testing.T) {
		_, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{MemberID: member.ID, Amount: d("10"), SubmittedAt: "03/12/2024"}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("late observation", func(t *testing.T) {
		res, err := c.contributions.GetDueSummary(ctx, connect.NewRequest(&api.GetDueSummaryRequest{GroupID: group.ID, AsOf: "2024-03-17"}))
		require.NoError(t, err)
		got := res.Msg.Contributions[0]
		assert.Equal(t, 7, got.DaysLate)
		// 5 days at 10.00 plus 2 days at 2% of 200.
		assert.Equal(t, "58.00", got.Due.LateFee.StringFixed(2))
		assert.Equal(t, "OVERDUE", got.Status)
	})

	t.Run("authoritative status", func(t *testing.T) {
		res, err := c.contributions.SetAuthoritativeStatus(ctx, connect.NewRequest(&api.SetAuthoritativeStatusRequest{
			ContributionID: paid.Msg.Contribution.ID,
			Status:         "PAID",
		}))
		require.NoError(t, err)
		assert.Equal(t, "PARTIAL", res.Msg.Contribution.Status)
		assert.Equal(t, "PAID", res.Msg.Contribution.EffectiveStatus)

		_, err = c.contributions.SetAuthoritativeStatus(ctx, connect.NewRequest(&api.SetAuthoritativeStatusRequest{
			ContributionID: paid.Msg.Contribution.ID,
			Status:         "SETTLED",
		}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("revert", func(t *testing.T) {
		res, err := c.contributions.RevertPayment(ctx, connect.NewRequest(&api.RevertPaymentRequest{AllocationID: paid.Msg.Allocation.ID}))
		require.NoError(t, err)
		assert.True(t, res.Msg.Allocation.Reversed)
		assert.Equal(t, "300.00", res.Msg.Contribution.Remaining.StringFixed(2))

		_, err = c.contributions.RevertPayment(ctx, connect.NewRequest(&api.RevertPaymentRequest{AllocationID: paid.Msg.Allocation.ID}))
		requireCode(t, err, connect.CodeFailedPrecondition)

		list, err := c.contributions.ListPayments(ctx, connect.NewRequest(&api.ListPaymentsRequest{PeriodID: summary.Msg.PeriodID}))
		require.NoError(t, err)
		require.Len(t, list.Msg.Allocations, 1)
		assert.True(t, list.Msg.Allocations[0].Reversed)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{MemberID: "missing", Amount: d("10")}))
		requireCode(t, err, connect.CodeNotFound)
	})
}

func TestContributionService_CashMovements(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, member := createGroup(t, c)

	loan, err := c.contributions.IssueLoan(ctx, connect.NewRequest(&api.IssueLoanRequest{MemberID: member.ID, Amount: d("2000"), Pool: "BANK"}))
	require.NoError(t, err)
	assert.Equal(t, "12000.00", loan.Msg.Member.LoanBalance.StringFixed(2))
	assert.Equal(t, "LOAN_DISBURSEMENT", loan.Msg.Movement.Kind)

	_, err = c.contributions.RecordExpense(ctx, connect.NewRequest(&api.RecordExpenseRequest{GroupID: group.ID, Amount: d("150"), Pool: "HAND", Note: "ledger book"}))
	require.NoError(t, err)

	_, err = c.contributions.RecordExpense(ctx, connect.NewRequest(&api.RecordExpenseRequest{GroupID: group.ID, Amount: d("150"), Pool: "SAFE"}))
	requireCode(t, err, connect.CodeInvalidArgument)
	_, err = c.contributions.IssueLoan(ctx, connect.NewRequest(&api.IssueLoanRequest{MemberID: member.ID, Amount: d("0"), Pool: "HAND"}))
	requireCode(t, err, connect.CodeInvalidArgument)

	movements, err := c.contributions.ListCashMovements(ctx, connect.NewRequest(&api.ListCashMovementsRequest{PeriodID: loan.Msg.Movement.PeriodID}))
	require.NoError(t, err)
	assert.Len(t, movements.Msg.Movements, 2)

	preview, err := c.periods.PreviewStanding(ctx, connect.NewRequest(&api.PreviewStandingRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Equal(t, "850.00", preview.Msg.Totals.EndingCashInHand.StringFixed(2))
	assert.Equal(t, "3000.00", preview.Msg.Totals.EndingCashInBank.StringFixed(2))
	assert.Equal(t, "15850.00", preview.Msg.Totals.GroupStanding.StringFixed(2))
}

func TestPeriodService_Lifecycle(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	group, member := createGroup(t, c)

	_, err := c.periods.GetCurrentPeriod(ctx, connect.NewRequest(&api.GetCurrentPeriodRequest{GroupID: group.ID}))
	requireCode(t, err, connect.CodeFailedPrecondition)

	current, err := c.periods.GetCurrentPeriod(ctx, connect.NewRequest(&api.GetCurrentPeriodRequest{GroupID: group.ID, Open: true}))
	require.NoError(t, err)
	first := current.Msg.Period
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, "2024-03-05", first.StartDate)
	assert.Equal(t, "OPEN", first.State)

	_, err = c.contributions.RecordPayment(ctx, connect.NewRequest(&api.RecordPaymentRequest{MemberID: member.ID, Amount: d("300")}))
	require.NoError(t, err)

	t.Run("concurrent closes succeed exactly once", func(t *testing.T) {
		const callers = 5
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results []*api.ClosePeriodResponse
		)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := c.periods.ClosePeriod(ctx, connect.NewRequest(&api.ClosePeriodRequest{PeriodID: first.ID}))
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				results = append(results, res.Msg)
				mu.Unlock()
			}()
		}
		wg.Wait()

		closed := 0
		for _, r := range results {
			if !r.AlreadyClosed {
				closed++
				require.NotNil(t, r.Period.Totals)
				assert.Equal(t, "16300.00", r.Period.Totals.GroupStanding.StringFixed(2))
				assert.Equal(t, "2024-03-05", r.Period.EndDate)
			}
			assert.Equal(t, "CLOSED", r.Period.State)
			require.NotNil(t, r.Successor)
			assert.Equal(t, 2, r.Successor.Sequence)
		}
		assert.Equal(t, 1, closed)
	})

	t.Run("ListPeriods", func(t *testing.T) {
		res, err := c.periods.ListPeriods(ctx, connect.NewRequest(&api.ListPeriodsRequest{GroupID: group.ID}))
		require.NoError(t, err)
		require.Len(t, res.Msg.Periods, 2)
		assert.Equal(t, "2024-04-05", res.Msg.Periods[1].StartDate)
		assert.Equal(t, "16300.00", res.Msg.Periods[1].StandingAtStart.StringFixed(2))
	})

	t.Run("reopen", func(t *testing.T) {
		res, err := c.periods.ReopenPeriod(ctx, connect.NewRequest(&api.ReopenPeriodRequest{PeriodID: first.ID}))
		require.NoError(t, err)
		assert.Equal(t, "OPEN", res.Msg.Period.State)
		assert.NotEmpty(t, res.Msg.DeletedSuccessorID)
		assert.Empty(t, res.Msg.Period.EndDate)

		periods, err := c.periods.ListPeriods(ctx, connect.NewRequest(&api.ListPeriodsRequest{GroupID: group.ID}))
		require.NoError(t, err)
		assert.Len(t, periods.Msg.Periods, 1)
	})

	t.Run("reopen blocked by successor activity", func(t *testing.T) {
		_, err := c.periods.ClosePeriod(ctx, connect.NewRequest(&api.ClosePeriodRequest{PeriodID: first.ID}))
		require.NoError(t, err)
		_, err = c.contributions.RecordExpense(ctx, connect.NewRequest(&api.RecordExpenseRequest{GroupID: group.ID, Amount: d("20"), Pool: "HAND"}))
		require.NoError(t, err)

		_, err = c.periods.ReopenPeriod(ctx, connect.NewRequest(&api.ReopenPeriodRequest{PeriodID: first.ID}))
		cerr := requireCode(t, err, connect.CodeFailedPrecondition)
		assert.Equal(t, "SUCCESSOR_HAS_ACTIVITY", cerr.Meta().Get(api.MetaErrorCode))
	})

	t.Run("closed period summary is frozen", func(t *testing.T) {
		res, err := c.contributions.GetDueSummary(ctx, connect.NewRequest(&api.GetDueSummaryRequest{GroupID: group.ID, PeriodID: first.ID, AsOf: "2024-06-01"}))
		require.NoError(t, err)
		require.Len(t, res.Msg.Contributions, 1)
		assert.Equal(t, "PAID", res.Msg.Contributions[0].Status)
		assert.True(t, res.Msg.Contributions[0].Due.LateFee.IsZero())
	})

	t.Run("missing period", func(t *testing.T) {
		_, err := c.periods.ClosePeriod(ctx, connect.NewRequest(&api.ClosePeriodRequest{PeriodID: "missing"}))
		requireCode(t, err, connect.CodeNotFound)
		_, err = c.periods.ClosePeriod(ctx, connect.NewRequest(&api.ClosePeriodRequest{}))
		requireCode(t, err, connect.CodeInvalidArgument)
	})
}
