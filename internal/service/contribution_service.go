package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/ledger"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

// ContributionService implements api.ContributionServiceHandler.
type ContributionService struct {
	ledger *ledger.Ledger
}

var _ api.ContributionServiceHandler = (*ContributionService)(nil)

// NewContributionService creates a new ContributionService backed by l.
func NewContributionService(l *ledger.Ledger) *ContributionService {
	return &ContributionService{ledger: l}
}

// GetDueSummary returns every member's contribution in a period.
func (s *ContributionService) GetDueSummary(ctx context.Context, req *connect.Request[api.GetDueSummaryRequest]) (*connect.Response[api.GetDueSummaryResponse], error) {
	slog.Info("GetDueSummary request received",
		"group_id", req.Msg.GroupID,
		"period_id", req.Msg.PeriodID,
		"as_of", req.Msg.AsOf,
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	asOf, err := parseDate(req.Msg.AsOf)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	periodID := req.Msg.PeriodID
	if periodID == "" {
		p, err := s.ledger.EnsureCurrentPeriod(ctx, req.Msg.GroupID)
		if err != nil {
			slog.Error("GetDueSummary failed", "group_id", req.Msg.GroupID, "error", err)
			return nil, connectError(err)
		}
		periodID = p.ID
	}

	contributions, err := s.ledger.GetDueSummary(ctx, req.Msg.GroupID, periodID, asOf)
	if err != nil {
		slog.Error("GetDueSummary failed", "group_id", req.Msg.GroupID, "period_id", periodID, "error", err)
		return nil, connectError(err)
	}

	res := &api.GetDueSummaryResponse{
		PeriodID:       periodID,
		Contributions:  make([]*api.Contribution, len(contributions)),
		TotalDue:       decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for i, c := range contributions {
		res.Contributions[i] = toAPIContribution(c)
		res.TotalDue = money.Sum(res.TotalDue, c.Due.Total())
		res.TotalPaid = money.Sum(res.TotalPaid, c.TotalPaid)
		res.TotalRemaining = money.Sum(res.TotalRemaining, c.Remaining)
	}
	return connect.NewResponse(res), nil
}

// RecordPayment records a member's payment in the open period.
func (s *ContributionService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	slog.Info("RecordPayment request received",
		"member_id", req.Msg.MemberID,
		"amount", req.Msg.Amount.String(),
		"principal", req.Msg.Principal.String(),
		"idempotency_key", req.Msg.IdempotencyKey,
	)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	submittedAt, err := parseDate(req.Msg.SubmittedAt)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	res, err := s.ledger.RecordPayment(ctx, ledger.PaymentRequest{
		MemberID:       req.Msg.MemberID,
		Amount:         req.Msg.Amount,
		Principal:      req.Msg.Principal,
		CashSplit:      cashSplitRequest(req.Msg.CashSplit),
		IdempotencyKey: req.Msg.IdempotencyKey,
		SubmittedAt:    submittedAt,
	})
	if err != nil {
		slog.Warn("RecordPayment rejected", "member_id", req.Msg.MemberID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.RecordPaymentResponse{
		Contribution: toAPIContribution(res.Contribution),
		Allocation:   toAPIAllocation(res.Allocation),
		Member:       toAPIMember(res.Member),
		Replayed:     res.Replayed,
	}), nil
}

// RevertPayment undoes a payment in the open period.
func (s *ContributionService) RevertPayment(ctx context.Context, req *connect.Request[api.RevertPaymentRequest]) (*connect.Response[api.RevertPaymentResponse], error) {
	slog.Info("RevertPayment request received", "allocation_id", req.Msg.AllocationID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	res, err := s.ledger.RevertPayment(ctx, req.Msg.AllocationID)
	if err != nil {
		slog.Warn("RevertPayment rejected", "allocation_id", req.Msg.AllocationID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RevertPaymentResponse{
		Contribution: toAPIContribution(res.Contribution),
		Allocation:   toAPIAllocation(res.Allocation),
		Member:       toAPIMember(res.Member),
	}), nil
}

// SetAuthoritativeStatus stores or clears an externally computed status.
func (s *ContributionService) SetAuthoritativeStatus(ctx context.Context, req *connect.Request[api.SetAuthoritativeStatusRequest]) (*connect.Response[api.SetAuthoritativeStatusResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	var status *models.ContributionStatus
	if req.Msg.Status != "" {
		st := models.ContributionStatus(req.Msg.Status)
		status = &st
	}
	c, err := s.ledger.SetAuthoritativeStatus(ctx, req.Msg.ContributionID, status)
	if err != nil {
		slog.Warn("SetAuthoritativeStatus rejected", "contribution_id", req.Msg.ContributionID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.SetAuthoritativeStatusResponse{Contribution: toAPIContribution(c)}), nil
}

// ListPayments lists the payments of a period, reversed ones included.
func (s *ContributionService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	allocations, err := s.ledger.ListPayments(ctx, req.Msg.PeriodID)
	if err != nil {
		return nil, connectError(err)
	}
	out := make([]*api.Allocation, len(allocations))
	for i, a := range allocations {
		out[i] = toAPIAllocation(a)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Allocations: out}), nil
}

// IssueLoan disburses a loan to a member.
func (s *ContributionService) IssueLoan(ctx context.Context, req *connect.Request[api.IssueLoanRequest]) (*connect.Response[api.IssueLoanResponse], error) {
	slog.Info("IssueLoan request received", "member_id", req.Msg.MemberID, "amount", req.Msg.Amount.String())
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	mv, member, err := s.ledger.IssueLoan(ctx, req.Msg.MemberID, req.Msg.Amount, models.CashPool(req.Msg.Pool), req.Msg.Note)
	if err != nil {
		slog.Warn("IssueLoan rejected", "member_id", req.Msg.MemberID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.IssueLoanResponse{Movement: toAPIMovement(mv), Member: toAPIMember(member)}), nil
}

// RecordExpense records group spending.
func (s *ContributionService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	slog.Info("RecordExpense request received", "group_id", req.Msg.GroupID, "amount", req.Msg.Amount.String())
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	mv, err := s.ledger.RecordExpense(ctx, req.Msg.GroupID, req.Msg.Amount, models.CashPool(req.Msg.Pool), req.Msg.Note)
	if err != nil {
		slog.Warn("RecordExpense rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RecordExpenseResponse{Movement: toAPIMovement(mv)}), nil
}

// ListCashMovements lists the expenses and loan disbursements of a period.
func (s *ContributionService) ListCashMovements(ctx context.Context, req *connect.Request[api.ListCashMovementsRequest]) (*connect.Response[api.ListCashMovementsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	movements, err := s.ledger.ListCashMovements(ctx, req.Msg.PeriodID)
	if err != nil {
		return nil, connectError(err)
	}
	out := make([]*api.CashMovement, len(movements))
	for i, mv := range movements {
		out[i] = toAPIMovement(mv)
	}
	return connect.NewResponse(&api.ListCashMovementsResponse{Movements: out}), nil
}
