package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/ledger"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

// PeriodService implements api.PeriodServiceHandler.
type PeriodService struct {
	ledger *ledger.Ledger
}

var _ api.PeriodServiceHandler = (*PeriodService)(nil)

// NewPeriodService creates a new PeriodService backed by l.
func NewPeriodService(l *ledger.Ledger) *PeriodService {
	return &PeriodService{ledger: l}
}

// GetCurrentPeriod returns the group's open period.
func (s *PeriodService) GetCurrentPeriod(ctx context.Context, req *connect.Request[api.GetCurrentPeriodRequest]) (*connect.Response[api.GetCurrentPeriodResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	var (
		p   *models.Period
		err error
	)
	if req.Msg.Open {
		p, err = s.ledger.EnsureCurrentPeriod(ctx, req.Msg.GroupID)
	} else {
		p, err = s.ledger.CurrentPeriod(ctx, req.Msg.GroupID)
	}
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.GetCurrentPeriodResponse{Period: toAPIPeriod(p)}), nil
}

// ListPeriods lists a group's periods by sequence.
func (s *PeriodService) ListPeriods(ctx context.Context, req *connect.Request[api.ListPeriodsRequest]) (*connect.Response[api.ListPeriodsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	periods, err := s.ledger.ListPeriods(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	out := make([]*api.Period, len(periods))
	for i, p := range periods {
		out[i] = toAPIPeriod(p)
	}
	return connect.NewResponse(&api.ListPeriodsResponse{Periods: out}), nil
}

// ClosePeriod freezes a period and opens its successor. Losing a race to
// another close is reported with already_closed rather than an error.
func (s *PeriodService) ClosePeriod(ctx context.Context, req *connect.Request[api.ClosePeriodRequest]) (*connect.Response[api.ClosePeriodResponse], error) {
	slog.Info("ClosePeriod request received", "period_id", req.Msg.PeriodID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	res, err := s.ledger.ClosePeriod(ctx, req.Msg.PeriodID)
	if err != nil {
		slog.Error("ClosePeriod failed", "period_id", req.Msg.PeriodID, "error", err)
		return nil, connectError(err)
	}
	if res.AlreadyClosed {
		slog.Info("Period was already closed", "period_id", req.Msg.PeriodID)
	}
	return connect.NewResponse(&api.ClosePeriodResponse{
		Period:        toAPIPeriod(res.Period),
		Successor:     toAPIPeriod(res.Successor),
		AlreadyClosed: res.AlreadyClosed,
	}), nil
}

// ReopenPeriod reopens the most recently closed period.
func (s *PeriodService) ReopenPeriod(ctx context.Context, req *connect.Request[api.ReopenPeriodRequest]) (*connect.Response[api.ReopenPeriodResponse], error) {
	slog.Info("ReopenPeriod request received", "period_id", req.Msg.PeriodID)
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	res, err := s.ledger.ReopenPeriod(ctx, req.Msg.PeriodID)
	if err != nil {
		slog.Warn("ReopenPeriod rejected", "period_id", req.Msg.PeriodID, "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.ReopenPeriodResponse{
		Period:             toAPIPeriod(res.Period),
		DeletedSuccessorID: res.DeletedSuccessorID,
		AlreadyOpen:        res.AlreadyOpen,
	}), nil
}

// PreviewStanding computes what the open period would close with now.
func (s *PeriodService) PreviewStanding(ctx context.Context, req *connect.Request[api.PreviewStandingRequest]) (*connect.Response[api.PreviewStandingResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	p, totals, err := s.ledger.PreviewStanding(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.PreviewStandingResponse{Period: toAPIPeriod(p), Totals: toAPITotals(&totals)}), nil
}
